package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lanort/pedidos/internal/cart"
	pkgerrors "github.com/lanort/pedidos/pkg/errors"
)

// Cart positions are 1-based on the command line.
func parsePosition(raw string) (int, error) {
	pos, err := strconv.Atoi(raw)
	if err != nil || pos < 1 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("posição inválida: %s", raw))
	}
	return pos - 1, nil
}

func parseQuantity(raw string) (int, error) {
	qty, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantidade inválida: %s", raw))
	}
	return qty, nil
}

func newCartCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Consulta e altera o carrinho",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Mostra os itens e o total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printCart(cmd.OutOrStdout(), s.controller().Cart())
			return nil
		},
	}

	addCmd := &cobra.Command{
		Use:   "add CODIGO [QUANTIDADE]",
		Short: "Adiciona um produto (quantidade padrão 1)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty := 1
			if len(args) == 2 {
				var err error
				if qty, err = parseQuantity(args[1]); err != nil {
					return err
				}
			}
			item, err := s.controller().AddToCart(cmd.Context(), args[0], qty)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s adicionado: %d un.\n", item.Code, item.Quantity)
			printCart(cmd.OutOrStdout(), s.controller().Cart())
			return nil
		},
	}

	var by int
	adjustCmd := &cobra.Command{
		Use:   "adjust POSICAO --by N",
		Short: "Soma N (pode ser negativo) à quantidade do item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			res, err := s.controller().AdjustCartItem(cmd.Context(), idx, by)
			if err != nil {
				return err
			}
			printUpdate(cmd, s, res)
			return nil
		},
	}
	adjustCmd.Flags().IntVar(&by, "by", 1, "Variação da quantidade")

	setCmd := &cobra.Command{
		Use:   "set POSICAO QUANTIDADE",
		Short: "Define a quantidade do item (0 remove)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			qty, err := parseQuantity(args[1])
			if err != nil {
				return err
			}
			res, err := s.controller().SetCartItemQuantity(cmd.Context(), idx, qty)
			if err != nil {
				return err
			}
			printUpdate(cmd, s, res)
			return nil
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove POSICAO",
		Short: "Remove o item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			if err := s.controller().RemoveCartItem(cmd.Context(), idx); err != nil {
				return err
			}
			printCart(cmd.OutOrStdout(), s.controller().Cart())
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Esvazia o carrinho",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.controller().ClearCart(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Carrinho limpo.")
			return nil
		},
	}

	cmd.AddCommand(showCmd, addCmd, adjustCmd, setCmd, removeCmd, clearCmd)
	return cmd
}

func printUpdate(cmd *cobra.Command, s *session, res *cart.UpdateResult) {
	if res.Message != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  %s\n", res.Message)
	}
	printCart(cmd.OutOrStdout(), s.controller().Cart())
}
