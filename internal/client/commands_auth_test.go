package client

import (
	"errors"
	"testing"

	"github.com/lightningsoon/KeyMinder/internal/adapter"
	"github.com/lightningsoon/KeyMinder/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRegisterCommand_SavesSession(t *testing.T) {
	f := newAppFixture(t, "correct horse", "correct horse")
	email := "alice@example.com"
	f.server.EXPECT().Register(gomock.Any(), models.Credentials{
		Username: "alice",
		Password: "correct horse",
		Email:    &email,
	}).Return(models.AuthResponse{User: models.User{ID: "user-1", Username: "alice"}}, nil)
	f.server.EXPECT().Token().Return("fresh-token")

	err := f.run("register", "--username", "alice", "--email", email)

	require.NoError(t, err)
	saved, err := f.session.Load()
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", saved.Token)
	assert.Equal(t, "alice", saved.Username)
	assert.Contains(t, f.out.String(), "Registered and logged in as alice")
}

func TestRegisterCommand_PasswordMismatch(t *testing.T) {
	f := newAppFixture(t, "correct horse", "correct hose")

	err := f.run("register", "-u", "alice")

	assert.ErrorIs(t, err, ErrPasswordMismatch)
	_, err = f.session.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRegisterCommand_ServerRejects(t *testing.T) {
	f := newAppFixture(t, "pw", "pw")
	f.server.EXPECT().Register(gomock.Any(), gomock.Any()).Return(models.AuthResponse{}, adapter.ErrConflict)

	err := f.run("register", "-u", "alice")

	assert.ErrorIs(t, err, adapter.ErrConflict)
	_, err = f.session.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLoginCommand_PromptsForUsername(t *testing.T) {
	f := newAppFixture(t, "alice", "hunter2")
	f.server.EXPECT().Login(gomock.Any(), models.Credentials{Username: "alice", Password: "hunter2"}).
		Return(models.AuthResponse{User: models.User{Username: "alice"}}, nil)
	f.server.EXPECT().Token().Return("fresh-token")

	err := f.run("login")

	require.NoError(t, err)
	assert.Equal(t, []string{"Username: ", "Password: "}, f.prompter.prompts)
	saved, err := f.session.Load()
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", saved.Token)
}

func TestLoginCommand_EmptyUsername(t *testing.T) {
	f := newAppFixture(t, "")

	assert.ErrorIs(t, f.run("login"), ErrEmptyInput)
}

func TestLogoutCommand(t *testing.T) {
	tests := []struct {
		name       string
		logoutErr  error
		wantErr    error
		keepsToken bool
	}{
		{name: "closed on server"},
		{name: "already expired", logoutErr: adapter.ErrUnauthorized},
		{name: "server failure", logoutErr: adapter.ErrInternalServerError, wantErr: adapter.ErrInternalServerError, keepsToken: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAppFixture(t)
			f.loggedIn(t)
			f.server.EXPECT().Logout(gomock.Any()).Return(tt.logoutErr)

			err := f.run("logout")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Contains(t, f.out.String(), "Logged out")
			}

			_, loadErr := f.session.Load()
			if tt.keepsToken {
				assert.NoError(t, loadErr)
			} else {
				assert.ErrorIs(t, loadErr, ErrNoSession)
			}
		})
	}
}

func TestMeCommand(t *testing.T) {
	f := newAppFixture(t)
	f.loggedIn(t)
	email := "alice@example.com"
	f.server.EXPECT().Me(gomock.Any()).Return(models.User{ID: "user-1", Username: "alice", Email: &email}, nil)

	require.NoError(t, f.run("me"))

	assert.Contains(t, f.out.String(), "alice")
	assert.Contains(t, f.out.String(), email)
	assert.Contains(t, f.out.String(), "user-1")
}

func TestPasswdCommand(t *testing.T) {
	f := newAppFixture(t, "old-password", "new-password", "new-password")
	f.loggedIn(t)
	f.server.EXPECT().ChangePassword(gomock.Any(), models.ChangePasswordRequest{
		OldPassword: "old-password",
		NewPassword: "new-password",
	}).Return(nil)

	require.NoError(t, f.run("passwd"))
	assert.Contains(t, f.out.String(), "Password changed")
}

func TestPasswdCommand_WrongOldPassword(t *testing.T) {
	f := newAppFixture(t, "guess", "new-password", "new-password")
	f.loggedIn(t)
	f.server.EXPECT().ChangePassword(gomock.Any(), gomock.Any()).Return(adapter.ErrForbidden)

	err := f.run("passwd")

	assert.True(t, errors.Is(err, adapter.ErrForbidden))
}
