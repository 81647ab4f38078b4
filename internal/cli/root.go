// Package cli wires config, logging, the remote client and the controller
// behind the `todo` subcommands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/todo/internal/config"
	"github.com/idilsaglam/todo/internal/controller"
	"github.com/idilsaglam/todo/internal/logging"
	"github.com/idilsaglam/todo/internal/remote"
	"github.com/idilsaglam/todo/internal/ui"
)

// Exit codes.
const (
	ExitOK     = 0
	ExitFailed = 1 // a remote call failed; the log has the details
	ExitUsage  = 2
)

// exitError carries an exit code out of a RunE without another message.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit %d", e.code) }

// usageError is printed and mapped to ExitUsage.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// app is the state shared by subcommands once the root pre-run has loaded config.
type app struct {
	cfg    *config.Config
	log    *log.Logger
	client *remote.Client
	closer io.Closer
}

// newController builds a controller logging through logger.
func (a *app) newController(logger *log.Logger) *controller.Controller {
	return controller.New(a.client, logger)
}

func (a *app) close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

// NewRootCommand creates the root command. stdout and stderr receive all output.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	cmd, _ := newRoot(stdout, stderr)
	return cmd
}

func newRoot(stdout, stderr io.Writer) (*cobra.Command, *app) {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "todo - a tiny client for a remote todo list",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, stderr)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return &exitError{code: ExitUsage}
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(newListCommand(a))
	cmd.AddCommand(newAddCommand(a))
	cmd.AddCommand(newEditCommand(a))
	cmd.AddCommand(newDoneCommand(a))
	cmd.AddCommand(newRemoveCommand(a))
	cmd.AddCommand(newTUICommand(a))

	return cmd, a
}

func (a *app) setup(cmd *cobra.Command, stderr io.Writer) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return usagef("config: %v", err)
	}
	a.cfg = cfg

	ui.SetTheme(cfg.Theme)
	ui.Configure(cmd.OutOrStdout(), cfg.NoColor)

	var w io.Writer = stderr
	if cfg.LogFile != "" {
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return err
		}
		a.closer = f
		w = f
	}
	if a.log, err = logging.New(w, cfg.LogLevel); err != nil {
		return usagef("config: %v", err)
	}

	a.client, err = remote.New(cfg.RemoteEndpoints(),
		remote.WithResource(cfg.Resource),
		remote.WithTimeout(cfg.Timeout.Duration),
	)
	if err != nil {
		return usagef("config: %v", err)
	}
	a.log.Debug("config loaded", "source", cfg.Source, "list", cfg.RemoteEndpoints().List)
	return nil
}

// Run executes the CLI and returns an exit code (0 ok, 1 remote failure, 2 usage).
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd, a := newRoot(stdout, stderr)
	defer a.close()
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	var ue *usageError
	if errors.As(err, &ue) {
		ui.Fail(stderr, ue.msg)
		return ExitUsage
	}
	// cobra's own argument and flag errors
	ui.Fail(stderr, err.Error())
	return ExitUsage
}
