package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lanort/pedidos/internal/orders"
	"github.com/lanort/pedidos/pkg/enums"
)

var errOrderIncomplete = errors.New("pedido não foi finalizado")

func newOrderCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Envia pedidos",
	}

	var form orders.Form
	submit := &cobra.Command{
		Use:   "submit",
		Short: "Envia o carrinho como pedido",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outcome, err := s.controller().SubmitOrder(cmd.Context(), form)
			if err != nil {
				return err
			}
			printOutcome(cmd.OutOrStdout(), outcome)
			if outcome.State != enums.SubmissionSucceeded {
				return errOrderIncomplete
			}
			return nil
		},
	}
	submit.Flags().StringVar(&form.User, "user", "", "Código do parceiro")
	submit.Flags().StringVar(&form.PaymentTerm, "term", "", "Tipo de negociação (prazo)")
	submit.Flags().StringVar(&form.Email, "email", "", "Email para contato")
	submit.Flags().StringVar(&form.Notes, "notes", "", "Observações")

	last := &cobra.Command{
		Use:   "last",
		Short: "Mostra o último número de pedido emitido",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			history, err := s.controller().LastOrder(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if history.LastNumber == "" {
				fmt.Fprintln(out, "Nenhum pedido emitido.")
			} else {
				fmt.Fprintf(out, "Último pedido: %s\n", history.LastNumber)
			}
			if history.Outcome != nil {
				printOutcome(out, history.Outcome)
			}
			return nil
		},
	}

	cmd.AddCommand(submit, last)
	return cmd
}
