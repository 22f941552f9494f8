package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/lightningsoon/KeyMinder/internal/adapter"
	"github.com/lightningsoon/KeyMinder/internal/app"
	"github.com/lightningsoon/KeyMinder/internal/config"
	"github.com/lightningsoon/KeyMinder/internal/logger"
	"github.com/lightningsoon/KeyMinder/internal/mock"
	"github.com/lightningsoon/KeyMinder/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// scriptedPrompter answers prompts in order and records them.
type scriptedPrompter struct {
	answers []string
	prompts []string
}

func (p *scriptedPrompter) next(prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.answers) == 0 {
		return "", io.EOF
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func (p *scriptedPrompter) Password(prompt string) (string, error) { return p.next(prompt) }
func (p *scriptedPrompter) Line(prompt string) (string, error)     { return p.next(prompt) }

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type appFixture struct {
	app       *App
	server    *mock.MockServerAdapter
	prompter  *scriptedPrompter
	clipboard *fakeClipboard
	session   *SessionFile
	out       *bytes.Buffer
	errOut    *bytes.Buffer
	gotConfig config.ClientConfig
}

func newAppFixture(t *testing.T, answers ...string) *appFixture {
	t.Helper()

	f := &appFixture{
		server:    mock.NewMockServerAdapter(gomock.NewController(t)),
		prompter:  &scriptedPrompter{answers: answers},
		clipboard: &fakeClipboard{},
		out:       &bytes.Buffer{},
		errOut:    &bytes.Buffer{},
	}

	cfg := config.ClientConfig{
		ServerURL:      config.DefaultServerURL,
		RequestTimeout: time.Second,
		SessionFile:    filepath.Join(t.TempDir(), "keyminder", "session"),
	}
	f.session = NewSessionFile(cfg.SessionFile)

	f.app = NewApp(cfg, models.NewAppBuildInfo("1.2.3", "2026-10-01", "abc123"),
		WithAdapterFactory(func(cfg config.ClientConfig, _ *logger.Logger) (adapter.ServerAdapter, error) {
			f.gotConfig = cfg
			return f.server, nil
		}),
		WithPrompter(f.prompter),
		WithClipboard(f.clipboard),
		WithOutput(f.out, f.errOut),
	)
	return f
}

// loggedIn stores a session the next command will restore.
func (f *appFixture) loggedIn(t *testing.T) {
	t.Helper()
	require.NoError(t, f.session.Save("saved-token", "alice"))
	f.server.EXPECT().SetToken("saved-token")
}

func (f *appFixture) run(args ...string) error {
	return f.app.Run(context.Background(), args)
}

func TestRun_FlagsOverrideConfig(t *testing.T) {
	f := newAppFixture(t)
	f.server.EXPECT().Health(gomock.Any()).Return(models.HealthResponse{Status: "ok"}, nil)

	err := f.run("status", "--server", "https://vault.example.com", "--timeout", "5s")

	require.NoError(t, err)
	assert.Equal(t, "https://vault.example.com", f.gotConfig.ServerURL)
	assert.Equal(t, 5*time.Second, f.gotConfig.RequestTimeout)
}

func TestRun_InvalidServerURL(t *testing.T) {
	f := newAppFixture(t)

	err := f.run("list", "--server", "vault")

	assert.ErrorIs(t, err, config.ErrInvalidAdapterConfigs)
	assert.Contains(t, f.errOut.String(), "server url must be absolute")
}

func TestRun_ExplainsErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		hint string
	}{
		{name: "not logged in", err: adapter.ErrNotLoggedIn, hint: app.MsgHintLogin},
		{name: "session ended", err: fmt.Errorf("%w: token is expired", adapter.ErrUnauthorized), hint: app.MsgHintSessionExpired},
		{name: "server down", err: adapter.ErrServiceUnavailable, hint: app.MsgHintServerUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAppFixture(t)
			f.server.EXPECT().ListEntries(gomock.Any()).Return(nil, tt.err)

			err := f.run("list")

			assert.ErrorIs(t, err, tt.err)
			assert.Contains(t, f.errOut.String(), tt.hint)
		})
	}
}

func TestRun_OtherErrorsHaveNoHint(t *testing.T) {
	f := newAppFixture(t)
	f.server.EXPECT().ListEntries(gomock.Any()).Return(nil, adapter.ErrInternalServerError)

	err := f.run("list")

	assert.ErrorIs(t, err, adapter.ErrInternalServerError)
	assert.NotContains(t, f.errOut.String(), "keyminder login")
}

func TestRun_RestoresSavedToken(t *testing.T) {
	f := newAppFixture(t)
	f.loggedIn(t)
	f.server.EXPECT().ListEntries(gomock.Any()).Return(nil, nil)

	require.NoError(t, f.run("list"))
	assert.Contains(t, f.out.String(), "no entries yet")
}

func TestRun_AdapterFactoryError(t *testing.T) {
	f := newAppFixture(t)
	boom := errors.New("bad transport")
	f.app.newAdapter = func(config.ClientConfig, *logger.Logger) (adapter.ServerAdapter, error) {
		return nil, boom
	}

	assert.ErrorIs(t, f.run("list"), boom)
}
