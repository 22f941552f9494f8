package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/lightningsoon/KeyMinder/internal/adapter"
	"github.com/lightningsoon/KeyMinder/internal/app"
	"github.com/lightningsoon/KeyMinder/internal/config"
	"github.com/lightningsoon/KeyMinder/internal/logger"
	"github.com/lightningsoon/KeyMinder/models"
	"github.com/spf13/cobra"
)

const clientRole = "keyminder-client"

// App is the keyminder command-line client.
type App struct {
	cfg       config.ClientConfig
	buildInfo models.AppBuildInfo
	verbose   bool

	newAdapter AdapterFactory
	prompter   Prompter
	clipboard  Clipboard
	out        io.Writer
	errOut     io.Writer

	// set once flags are parsed
	server  adapter.ServerAdapter
	session *SessionFile
	logger  *logger.Logger
}

// Option customises an App. Tests use it to replace terminal, clipboard,
// and transport.
type Option func(*App)

func WithAdapterFactory(f AdapterFactory) Option {
	return func(a *App) { a.newAdapter = f }
}

func WithPrompter(p Prompter) Option {
	return func(a *App) { a.prompter = p }
}

func WithClipboard(c Clipboard) Option {
	return func(a *App) { a.clipboard = c }
}

func WithOutput(out, errOut io.Writer) Option {
	return func(a *App) {
		a.out = out
		a.errOut = errOut
	}
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// NewApp returns a client for cfg. Defaults talk to the real server,
// terminal, and system clipboard.
func NewApp(cfg config.ClientConfig, buildInfo models.AppBuildInfo, opts ...Option) *App {
	a := &App{
		cfg:        cfg,
		buildInfo:  buildInfo,
		newAdapter: adapter.NewHTTPServerAdapter,
		prompter:   newTerminalPrompter(os.Stdin, os.Stderr),
		clipboard:  systemClipboard{},
		out:        os.Stdout,
		errOut:     os.Stderr,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run implements [Client].
func (a *App) Run(ctx context.Context, args []string) error {
	root := a.rootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err != nil {
		renderError(a.errOut, explain(err))
	}
	return err
}

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "keyminder",
		Short:         "Command-line client of the KeyMinder password manager",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.connect()
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfg.ServerURL, "server", "s", a.cfg.ServerURL, "KeyMinder server URL (env KEYMINDER_SERVER)")
	flags.DurationVar(&a.cfg.RequestTimeout, "timeout", a.cfg.RequestTimeout, "request timeout (env KEYMINDER_TIMEOUT)")
	flags.StringVar(&a.cfg.SessionFile, "session-file", a.cfg.SessionFile, "where the login token is kept (env KEYMINDER_SESSION_FILE)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(
		a.registerCommand(),
		a.loginCommand(),
		a.logoutCommand(),
		a.meCommand(),
		a.passwdCommand(),
		a.listCommand(),
		a.getCommand(),
		a.addCommand(),
		a.updateCommand(),
		a.deleteCommand(),
		a.generateCommand(),
		a.versionCommand(),
		a.statusCommand(),
	)

	return root
}

// connect builds the adapter and restores the saved token.
func (a *App) connect() error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.logger = logger.NewClientLogger(clientRole, a.verbose)

	server, err := a.newAdapter(a.cfg, a.logger)
	if err != nil {
		return err
	}
	a.server = server
	a.session = NewSessionFile(a.cfg.SessionFile)

	saved, err := a.session.Load()
	switch {
	case err == nil:
		a.server.SetToken(saved.Token)
	case errors.Is(err, ErrNoSession):
	default:
		a.logger.Warn().Err(err).Msg("ignoring unreadable session file")
	}
	return nil
}

// explain adds a hint to errors the user can act on.
func explain(err error) error {
	switch {
	case errors.Is(err, adapter.ErrNotLoggedIn):
		return fmt.Errorf("%w. %s", err, app.MsgHintLogin)
	case errors.Is(err, adapter.ErrUnauthorized):
		return fmt.Errorf("%w. %s", err, app.MsgHintSessionExpired)
	case errors.Is(err, adapter.ErrServiceUnavailable):
		return fmt.Errorf("%w. %s", err, app.MsgHintServerUnavailable)
	}
	return err
}
