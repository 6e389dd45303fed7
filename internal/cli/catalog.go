package cli

import (
	"bufio"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/lanort/pedidos/internal/catalog"
)

func newSearchCommand(s *session) *cobra.Command {
	var brand string
	cmd := &cobra.Command{
		Use:   "search [termo]",
		Short: "Filtra produtos por código, marca, descrição ou código de barras",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := s.controller().Search(cmd.Context(), strings.Join(args, " "), brand)
			if err != nil {
				return err
			}
			printSearch(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVar(&brand, "brand", "", "Marca exata")
	return cmd
}

// newBrowseCommand treats every stdin line as the search box content; bursts of
// lines collapse into one search.
func newBrowseCommand(s *session) *cobra.Command {
	var brand string
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Pesquisa interativa: cada linha digitada refaz a busca",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			var mu sync.Mutex
			search := s.controller().DebouncedSearch(func(res *catalog.SearchResult, err error) {
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  %s\n", describe(err))
					return
				}
				printSearch(out, res)
			})
			defer search.Stop()

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				search.Input(cmd.Context(), scanner.Text(), brand)
			}
			search.Flush()
			return scanner.Err()
		},
	}
	cmd.Flags().StringVar(&brand, "brand", "", "Marca exata")
	return cmd
}

func newBrandsCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "brands",
		Short: "Lista as marcas do catálogo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, b := range s.controller().Brands() {
				fmt.Fprintln(cmd.OutOrStdout(), b)
			}
			return nil
		},
	}
}

func newUsersCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "Lista os parceiros",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, u := range s.controller().Users() {
				fmt.Fprintln(cmd.OutOrStdout(), u.Label())
			}
			return nil
		},
	}
}

func newTermsCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "terms",
		Short: "Lista os prazos de pagamento",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, t := range s.controller().PaymentTerms() {
				fmt.Fprintln(cmd.OutOrStdout(), t.Label())
			}
			return nil
		},
	}
}
