// Package cli is the operator command line for browsing the catalog, managing the
// cart and sending orders.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lanort/pedidos/internal/bootstrap"
	"github.com/lanort/pedidos/internal/storefront"
	"github.com/lanort/pedidos/pkg/config"
	"github.com/lanort/pedidos/pkg/logger"
)

// Options wires the command tree to its streams and application.
type Options struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
	// Load builds the application; LoadApp when nil.
	Load func(ctx context.Context) (*bootstrap.App, error)
}

// LoadApp reads .env and LANORT_* variables and wires the application. Logs go to
// stderr so command output stays clean.
func LoadApp(ctx context.Context) (*bootstrap.App, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logg := logger.New(logger.Options{
		ServiceName: "lanort",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
		Output:      os.Stderr,
	})
	return bootstrap.Build(ctx, cfg, logg)
}

type session struct {
	opts Options
	app  *bootstrap.App
}

func (s *session) controller() *storefront.Controller {
	return s.app.Controller
}

func (s *session) open(cmd *cobra.Command, _ []string) error {
	if s.app != nil {
		return nil
	}
	app, err := s.opts.Load(cmd.Context())
	if err != nil {
		return err
	}
	s.app = app
	if err := app.Controller.Start(cmd.Context()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  %s\n", describe(err))
	}
	return nil
}

func (s *session) close() error {
	if s.app == nil {
		return nil
	}
	err := s.app.Close()
	s.app = nil
	return err
}

func newRootCommand(s *session) *cobra.Command {
	root := &cobra.Command{
		Use:               "lanort",
		Short:             "Catálogo e pedidos Lanort",
		Long:              "Consulta o catálogo da planilha Lanort, monta o carrinho e envia pedidos.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: s.open,
	}
	if s.opts.In != nil {
		root.SetIn(s.opts.In)
	}
	if s.opts.Out != nil {
		root.SetOut(s.opts.Out)
	}
	if s.opts.Err != nil {
		root.SetErr(s.opts.Err)
	}

	root.AddCommand(
		newSearchCommand(s),
		newBrowseCommand(s),
		newBrandsCommand(s),
		newUsersCommand(s),
		newTermsCommand(s),
		newCartCommand(s),
		newOrderCommand(s),
	)
	return root
}

// Execute runs the command line with args and prints failures to the error stream.
func Execute(ctx context.Context, opts Options, args []string) error {
	if opts.Load == nil {
		opts.Load = LoadApp
	}
	s := &session{opts: opts}
	root := newRootCommand(s)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if closeErr := s.close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Erro: %s\n", describe(err))
	}
	return err
}
