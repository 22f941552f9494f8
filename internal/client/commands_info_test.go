package client

import (
	"testing"
	"time"

	"github.com/lightningsoon/KeyMinder/internal/adapter"
	"github.com/lightningsoon/KeyMinder/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestVersionCommand(t *testing.T) {
	f := newAppFixture(t)
	f.server.EXPECT().Version(gomock.Any()).Return("0.9.0", nil)

	require.NoError(t, f.run("version"))

	assert.Contains(t, f.out.String(), "Client: version 1.2.3")
	assert.Contains(t, f.out.String(), "Server: 0.9.0")
}

func TestVersionCommand_ServerUnreachable(t *testing.T) {
	f := newAppFixture(t)
	f.server.EXPECT().Version(gomock.Any()).Return("", adapter.ErrServiceUnavailable)

	require.NoError(t, f.run("version"))

	assert.Contains(t, f.out.String(), "Client: version 1.2.3")
	assert.Contains(t, f.out.String(), "unreachable")
}

func TestStatusCommand(t *testing.T) {
	health := models.HealthResponse{Status: "ok", Timestamp: time.Now()}

	t.Run("logged in", func(t *testing.T) {
		f := newAppFixture(t)
		f.loggedIn(t)
		f.server.EXPECT().Health(gomock.Any()).Return(health, nil)

		require.NoError(t, f.run("status"))
		assert.Contains(t, f.out.String(), "ok")
		assert.Contains(t, f.out.String(), "alice")
	})

	t.Run("logged out", func(t *testing.T) {
		f := newAppFixture(t)
		f.server.EXPECT().Health(gomock.Any()).Return(health, nil)

		require.NoError(t, f.run("status"))
		assert.Contains(t, f.out.String(), "not logged in")
	})

	t.Run("storage down", func(t *testing.T) {
		f := newAppFixture(t)
		f.server.EXPECT().Health(gomock.Any()).Return(models.HealthResponse{Status: "unavailable"}, nil)

		require.NoError(t, f.run("status"))
		assert.Contains(t, f.out.String(), "unavailable")
	})
}
