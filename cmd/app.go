package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/apiclient"
	"github.com/frahmantamala/school-admin/internal/calendar"
	"github.com/frahmantamala/school-admin/internal/core/events"
	"github.com/frahmantamala/school-admin/internal/entry"
	"github.com/frahmantamala/school-admin/internal/justification"
	"github.com/frahmantamala/school-admin/internal/listing"
	"github.com/frahmantamala/school-admin/internal/session"
	"github.com/frahmantamala/school-admin/internal/student"
	"github.com/frahmantamala/school-admin/internal/user"
	"github.com/frahmantamala/school-admin/pkg/logger"
)

var errSessionRejected = internal.NewUnauthorizedError(
	"Tu sesión expiró o ya no es válida. Inicia sesión de nuevo con \"school-admin login\".",
	internal.ErrCodeInvalidToken,
)

// app is the per-invocation state shared by every command.
type app struct {
	opts     *rootOptions
	cfg      *internal.Config
	logger   *slog.Logger
	clock    calendar.Clock
	sessions session.Store

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.opts.configDir)
	if err != nil {
		return err
	}
	if a.opts.logLevel != "" {
		cfg.Logging.Level = a.opts.logLevel
	}
	a.cfg = cfg
	a.logger = logger.Setup(logger.Options{
		Env:    cfg.Env,
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})

	loc, err := cfg.School.Location()
	if err != nil {
		return err
	}
	a.clock = calendar.SystemClock{Location: loc}
	a.sessions = session.NewFileStore(cfg.Session.Path)

	a.in = bufio.NewReader(cmd.InOrStdin())
	a.out = cmd.OutOrStdout()
	a.errOut = cmd.ErrOrStderr()
	return nil
}

// ask prints prompt and reads a yes/no answer. End of input means no.
func (a *app) ask(_ context.Context, prompt string) (bool, error) {
	fmt.Fprintf(a.errOut, "%s [s/N]: ", prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "si", "sí", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// readLine prompts for a single line of text.
func (a *app) readLine(prompt string) (string, error) {
	fmt.Fprint(a.errOut, prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *app) confirmer() listing.Confirmer {
	if a.opts.yes {
		return listing.AlwaysConfirm
	}
	return listing.ConfirmFunc(a.ask)
}

// client is what the remote commands work with: the session, the REST client
// and one service per resource.
type client struct {
	*app
	session *session.Session
	bus     *events.EventBus

	users          *user.Service
	students       *student.Service
	justifications *justification.Service
	entries        *entry.Service
}

// connect validates the client config and builds the services. A stored
// session is required unless anonymous is set.
func (a *app) connect(anonymous bool) (*client, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &client{app: a}
	if !anonymous {
		sess, err := a.sessions.Load()
		if err != nil {
			return nil, err
		}
		c.session = sess
	}

	var tokens apiclient.TokenSource = apiclient.StaticToken("")
	if c.session != nil {
		tokens = c.session
	}
	api := apiclient.NewClient(apiclient.Config{
		BaseURL: a.cfg.API.BaseURL,
		Timeout: a.cfg.API.Timeout,
	}, tokens, a.logger.With("component", "apiclient"))

	c.bus = newEventBus(a.logger)
	c.users = user.NewService(api, a.logger)
	c.students = student.NewService(api, a.logger)
	c.justifications = justification.NewService(api, a.logger)
	c.entries = entry.NewService(api, a.logger)
	return c, nil
}

// check turns a rejected session into a request to log in again, clearing
// the stored one. Other errors pass through.
func (c *client) check(err error) error {
	if err == nil || !apiclient.IsUnauthorized(err) || c.session == nil {
		return err
	}
	if clearErr := c.sessions.Clear(); clearErr != nil {
		c.logger.Warn("failed to clear session", "error", clearErr)
	}
	c.logger.Debug("session rejected by the service", "error", err)
	return errSessionRejected
}

// close waits for pending event deliveries before the process exits.
func (c *client) close() {
	c.bus.Wait()
}

func (c *client) principal() internal.Principal {
	return c.session.Principal()
}

// load fills ctrl, offering a manual retry while the service is unreachable.
func load[T any](ctx context.Context, c *client, ctrl *listing.Controller[T]) error {
	err := ctrl.Load(ctx)
	for err != nil && apiclient.IsRemote(err) {
		again, askErr := c.ask(ctx, message(err)+" ¿Reintentar?")
		if askErr != nil || !again {
			break
		}
		err = ctrl.Retry(ctx)
	}
	return c.check(err)
}
