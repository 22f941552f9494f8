// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lightningsoon/KeyMinder/internal/config"
	"github.com/lightningsoon/KeyMinder/internal/crypto"
	"github.com/lightningsoon/KeyMinder/internal/logger"
	"github.com/lightningsoon/KeyMinder/internal/mock"
	"github.com/lightningsoon/KeyMinder/internal/session"
	"github.com/lightningsoon/KeyMinder/internal/store"
	"github.com/lightningsoon/KeyMinder/internal/validators"
	"github.com/lightningsoon/KeyMinder/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ─────────────────────────────────────────────
// Fixture
// ─────────────────────────────────────────────

type authFixture struct {
	users   *mock.MockUserRepository
	entries *mock.MockEntryRepository
	tx      *mock.MockTransactor
	vault   *session.Vault
	cipher  *crypto.Cipher
	hasher  *crypto.Hasher
	svc     AuthService
}

func newAuthFixture(t *testing.T, mode models.KeyMode) *authFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &authFixture{
		users:   mock.NewMockUserRepository(ctrl),
		entries: mock.NewMockEntryRepository(ctrl),
		tx:      mock.NewMockTransactor(ctrl),
		vault:   session.NewVault(),
		cipher:  newTestCipher(),
		hasher:  newTestHasher(testIterations),
	}

	cfg := config.StructuredConfig{
		App: config.App{
			TokenSignKey:  "test-sign-key",
			TokenIssuer:   "keyminder-test",
			TokenDuration: time.Hour,
		},
		Crypto: config.Crypto{KeyMode: string(mode)},
	}
	storages := &store.Storages{
		UserRepository:  f.users,
		EntryRepository: f.entries,
		Transactor:      f.tx,
	}
	f.svc = NewAuthService(storages, f.vault, f.cipher, f.hasher, validators.NewRequestValidator(0), cfg, logger.Nop())

	return f
}

// storedUser builds a persisted account for password in the given key mode
// and returns it with its entry secret.
func (f *authFixture) storedUser(t *testing.T, mode models.KeyMode, password string) (models.User, string) {
	t.Helper()

	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)

	user := models.User{ID: "user-1", Username: "alice", PasswordHash: hash, KeyMode: mode}
	if mode == models.KeyModeDirect {
		return user, password
	}

	masterKey, err := f.cipher.GenerateMasterKey()
	require.NoError(t, err)
	wrapped, err := f.cipher.WrapMasterKey(masterKey, password)
	require.NoError(t, err)
	user.WrappedMasterKey = &wrapped
	return user, masterKey
}

func principalOf(t *testing.T, s models.Session) models.Principal {
	t.Helper()
	return models.Principal{
		UserID:    s.Token.UserID,
		SessionID: s.Token.SessionID,
		ExpiresAt: s.Token.ExpiresAt.Time,
	}
}

func withID(id string) func(context.Context, models.User) (models.User, error) {
	return func(_ context.Context, u models.User) (models.User, error) {
		u.ID = id
		return u, nil
	}
}

// ─────────────────────────────────────────────
// Register
// ─────────────────────────────────────────────

func TestRegister_MasterMode_WrapsMasterKeyAndOpensSession(t *testing.T) {
	f := newAuthFixture(t, models.KeyModeMaster)

	var created models.User
	f.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, u models.User) (models.User, error) {
			created = u
			return withID("user-1")(ctx, u)
		})

	sess, err := f.svc.Register(context.Background(), models.Credentials{Username: "alice", Password: testPassword})
	require.NoError(t, err)

	assert.Equal(t, models.KeyModeMaster, created.KeyMode)
	require.NotNil(t, created.WrappedMasterKey)
	ok, err := f.hasher.Verify(testPassword, created.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, "user-1", sess.User.ID)
	assert.NotEmpty(t, sess.Token.SignedString)
	assert.Equal(t, "user-1", sess.Token.UserID)

	masterKey, err := f.cipher.UnwrapMasterKey(*created.WrappedMasterKey, testPassword)
	require.NoError(t, err)
	secret, err := f.vault.Secret(sess.Token.SessionID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, masterKey, secret)
}

func TestRegister_DirectMode_UsesPasswordAsSecret(t *testing.T) {
	f := newAuthFixture(t, models.KeyModeDirect)

	f.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, u models.User) (models.User, error) {
			assert.Nil(t, u.WrappedMasterKey)
			assert.Equal(t, models.KeyModeDirect, u.KeyMode)
			return withID("user-1")(ctx, u)
		})

	sess, err := f.svc.Register(context.Background(), models.Credentials{Username: "alice", Password: testPassword})
	require.NoError(t, err)

	secret, err := f.vault.Secret(sess.Token.SessionID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, testPassword, secret)
}

func TestRegister_InvalidData_DoesNotTouchStorage(t *testing.T) {
	f := newAuthFixture(t, models.KeyModeMaster)

	_, err := f.svc.Register(context.Background(), models.Credentials{Username: "alice", Password: "short"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
	assert.ErrorIs(t, err, validators.ErrPasswordTooShort)
}

func TestRegister_UsernameTaken(t *testing.T) {
	f := newAuthFixture(t, models.KeyModeMaster)
	f.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrUsernameTaken)

	_, err := f.svc.Register(context.Background(), models.Credentials{Username: "alice", Password: testPassword})

	assert.ErrorIs(t, err, store.ErrUsernameTaken)
	assert.Equal(t, 0, f.vault.Len())
}

// ─────────────────────────────────────────────
// Login
// ─────────────────────────────────────────────

func TestLogin_MasterMode_Success(t *testing.T) {
	f := newAuthFixture(t, models.KeyModeMaster)
	user, masterKey := f.storedUser(t, models.KeyModeMaster, testPassword)
	f.users.EXPECT().FindUserByUsername(gomock.Any(), "alice").Return(user, nil)

	sess, err := f.svc.Login(context.Background(), models.Credentials{Username: "alice", Password: testPassword})
	require.NoError(t, err)

	secret, err := f.vault.Secret(sess.Token.SessionID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, masterKey, secret)
}

func TestLogin_UnknownUserAndWrongPassword_AreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t, models.KeyModeMaster)
	user, _ := f.storedUser(t, models.KeyModeMaster, testPassword)

	f.users.EXPECT().FindUserByUsername(gomock.Any(), "bob").Return(models.User{}, store.ErrUserNotFound)
	f.users.EXPECT().FindUserByUsername(gomock.Any(), "alice").Return(user, nil)

	_, errUnknown := f.svc.Login(context.Background(), models.Credentials{Username: "bob", Password: testPassword})
	_, errWrong := f.svc.Login(context.Background(), models.Credentials{Username: "alice", Password: "not-the-password"})

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
	assert.Equal(t, 0, f.vault.Len())
}

func TestLogin_EmptyPassword_InvalidData(t *testing.T) {
	f := newAuthFixture(t, models.KeyModeMaster)

	_, err := f.svc.Login(context.Background(), models.Credentials{Username: "alice"})

	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestLogin_StorageError_IsWrapped(t *testing.T) {
	f := newAuthFixture(t, models.KeyModeMaster)
	f.users.EXPECT().FindUserByUsername(gomock.Any(), "alice").Return(models.User{}, store.ErrExecutingQuery)

	_, err := f.svc.Login(context.Background(), models.Credentials{Username: "alice", Password: testPassword})

	assert.ErrorIs(t, err, store.ErrExecutingQuery)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_WeakCredentials_AreUpgraded(t *testing.T) {
	f := newAuthFixture(t, models.KeyModeMaster)

	weakHash, err := newTestHasher(testIterations / 2).Hash(testPassword)
	require.NoError(t, err)
	legacyCipher := newTestCipher(crypto.WithFormat(crypto.FormatLegacy))
	masterKey, err := legacyCipher.GenerateMasterKey()
	require.NoError(t, err)
	wrapped, err := legacyCipher.WrapMasterKey(masterKey, testPassword)
	require.NoError(t, err)

	user := models.User{ID: "user-1", Username: "alice", PasswordHash: weakHash, KeyMode: models.KeyModeMaster, WrappedMasterKey: &wrapped}
	f.users.EXPECT().FindUserByUsername(gomock.Any(), "alice").Return(user, nil)
	f.users.EXPECT().UpdateUserCredentials(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u models.User) error {
			assert.False(t, f.hasher.NeedsRehash(u.PasswordHash))
			require.NotNil(t, u.WrappedMasterKey)
			assert.False(t, f.cipher.NeedsUpgrade(*u.WrappedMasterKey))
			got, err := f.cipher.UnwrapMasterKey(*u.WrappedMasterKey, testPassword)
			require.NoError(t, err)
			assert.Equal(t, masterKey, got)
			return nil
		})

	_, err = f.svc.Login(context.Background(), models.Credentials{Username: "alice", Password: testPassword})
	require.NoError(t, err)
}

func TestLogin_UpgradeFailure_DoesNotFailLogin(t *testing.T) {
	f := newAuthFixture(t, models.KeyModeDirect)

	weakHash, err := newTestHasher(testIterations / 2).Hash(testPassword)
	require.NoError(t, err)
	user := models.User{ID: "user-1", Username: "alice", PasswordHash: weakHash, KeyMode: models.KeyModeDirect}

	f.users.EXPECT().FindUserByUsername(gomock.Any(), "alice").Return(user, nil)
	f.users.EXPECT().UpdateUserCredentials(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	sess, err := f.svc.Login(context.Background(), models.Credentials{Username: "alice", Password: testPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token.SignedString)
}

// ─────────────────────────────────────────────
// Tokens and sessions
// ─────────────────────────────────────────────

func TestParseToken_RejectsClosedSession(t *testing.T) {
	f := newAuthFixture(t, models.KeyModeDirect)
	f.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).DoAndReturn(withID("user-1"))

	sess, err := f.svc.Register(context.Background(), models.Credentials{Username: "alice", Password: testPassword})
	require.NoError(t, err)

	parsed, err := f.svc.ParseToken(context.Background(), sess.Token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, sess.Token.SessionID, parsed.SessionID)

	require.NoError(t, f.svc.Logout(context.Background(), principalOf(t, sess)))

	_, err = f.svc.ParseToken(context.Background(), sess.Token.SignedString)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestParseToken_Garbage(t *testing.T) {
	f := newAuthFixture(t, models.KeyModeDirect)

	_, err := f.svc.ParseToken(context.Background(), "not.a.jwt")

	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestCreateToken_BindsSession(t *testing.T) {
	f := newAuthFixture(t, models.KeyModeDirect)

	token, err := f.svc.CreateToken(context.Background(), models.User{ID: "user-1"}, "session-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", token.UserID)
	assert.Equal(t, "session-1", token.SessionID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt.Time, time.Minute)
}

func TestCreateToken_EmptySession_Fails(t *testing.T) {
	f := newAuthFixture(t, models.KeyModeDirect)

	_, err := f.svc.CreateToken(context.Background(), models.User{ID: "user-1"}, "")

	assert.ErrorIs(t, err, ErrTokenCreationFailed)
}

func TestMe(t *testing.T) {
	f := newAuthFixture(t, models.KeyModeDirect)
	f.users.EXPECT().FindUserByID(gomock.Any(), "user-1").Return(models.User{ID: "user-1", Username: "alice"}, nil)

	user, err := f.svc.Me(context.Background(), models.Principal{UserID: "user-1"})

	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

// ─────────────────────────────────────────────
// ChangePassword
// ─────────────────────────────────────────────

func TestChangePassword_MasterMode_RewrapsKeyAndClosesOtherSessions(t *testing.T) {
	f := newAuthFixture(t, models.KeyModeMaster)
	user, masterKey := f.storedUser(t, models.KeyModeMaster, testPassword)

	expiresAt := time.Now().Add(time.Hour)
	current := models.Principal{UserID: user.ID, SessionID: "current", ExpiresAt: expiresAt}
	f.vault.Put("current", user.ID, masterKey, expiresAt)
	f.vault.Put("other", user.ID, masterKey, expiresAt)

	f.users.EXPECT().FindUserByID(gomock.Any(), user.ID).Return(user, nil)
	f.users.EXPECT().UpdateUserCredentials(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u models.User) error {
			ok, err := f.hasher.Verify(testNewPassword, u.PasswordHash)
			require.NoError(t, err)
			assert.True(t, ok)
			got, err := f.cipher.UnwrapMasterKey(*u.WrappedMasterKey, testNewPassword)
			require.NoError(t, err)
			assert.Equal(t, masterKey, got)
			return nil
		})

	err := f.svc.ChangePassword(context.Background(), current, models.ChangePasswordRequest{
		OldPassword: testPassword,
		NewPassword: testNewPassword,
	})
	require.NoError(t, err)

	assert.False(t, f.vault.Exists("other", user.ID))
	secret, err := f.vault.Secret("current", user.ID)
	require.NoError(t, err)
	assert.Equal(t, masterKey, secret)
}

func TestChangePassword_DirectMode_ReencryptsEntries(t *testing.T) {
	f := newAuthFixture(t, models.KeyModeDirect)
	user, _ := f.storedUser(t, models.KeyModeDirect, testPassword)

	password, err := f.cipher.Encrypt("site-secret", testPassword)
	require.NoError(t, err)
	notes, err := f.cipher.Encrypt("pin 1234", testPassword)
	require.NoError(t, err)
	entries := []models.PasswordEntry{
		{ID: "entry-1", UserID: user.ID, Password: password, Notes: &notes},
		{ID: "entry-2", UserID: user.ID, Password: password},
	}

	expiresAt := time.Now().Add(time.Hour)
	f.vault.Put("current", user.ID, testPassword, expiresAt)

	f.users.EXPECT().FindUserByID(gomock.Any(), user.ID).Return(user, nil)
	f.tx.EXPECT().WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
	f.entries.EXPECT().ListEntries(gomock.Any(), user.ID).Return(entries, nil)

	rewritten := map[string][2]string{}
	f.entries.EXPECT().RewriteEntrySecrets(gomock.Any(), user.ID, gomock.Any(), gomock.Any(), gomock.Any()).
		Times(2).
		DoAndReturn(func(_ context.Context, _ string, stored models.PasswordEntry, password string, notes *string) error {
			entryID := stored.ID
			assert.Equal(t, entries[0].Password, stored.Password)
			plain, err := f.cipher.Decrypt(password, testNewPassword)
			require.NoError(t, err)
			var plainNotes string
			if notes != nil {
				plainNotes, err = f.cipher.Decrypt(*notes, testNewPassword)
				require.NoError(t, err)
			}
			rewritten[entryID] = [2]string{plain, plainNotes}
			return nil
		})
	f.users.EXPECT().UpdateUserCredentials(gomock.Any(), gomock.Any()).Return(nil)

	err = f.svc.ChangePassword(context.Background(), models.Principal{UserID: user.ID, SessionID: "current", ExpiresAt: expiresAt},
		models.ChangePasswordRequest{OldPassword: testPassword, NewPassword: testNewPassword})
	require.NoError(t, err)

	assert.Equal(t, [2]string{"site-secret", "pin 1234"}, rewritten["entry-1"])
	assert.Equal(t, [2]string{"site-secret", ""}, rewritten["entry-2"])

	secret, err := f.vault.Secret("current", user.ID)
	require.NoError(t, err)
	assert.Equal(t, testNewPassword, secret)
}

func TestChangePassword_DirectMode_FencesOtherSessionsFirst(t *testing.T) {
	f := newAuthFixture(t, models.KeyModeDirect)
	user, _ := f.storedUser(t, models.KeyModeDirect, testPassword)

	password, err := f.cipher.Encrypt("site-secret", testPassword)
	require.NoError(t, err)

	expiresAt := time.Now().Add(time.Hour)
	f.vault.Put("current", user.ID, testPassword, expiresAt)
	f.vault.Put("other", user.ID, testPassword, expiresAt)

	f.users.EXPECT().FindUserByID(gomock.Any(), user.ID).Return(user, nil)
	f.tx.EXPECT().WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			// A second session must not be able to encrypt new entries
			// with the old password while they are being re-encrypted.
			_, err := f.vault.Secret("other", user.ID)
			assert.Error(t, err)
			return fn(ctx)
		})
	f.entries.EXPECT().ListEntries(gomock.Any(), user.ID).
		Return([]models.PasswordEntry{{ID: "entry-1", UserID: user.ID, Password: password}}, nil)
	f.entries.EXPECT().RewriteEntrySecrets(gomock.Any(), user.ID, gomock.Any(), gomock.Any(), gomock.Nil()).Return(nil)
	f.users.EXPECT().UpdateUserCredentials(gomock.Any(), gomock.Any()).Return(nil)

	err = f.svc.ChangePassword(context.Background(), models.Principal{UserID: user.ID, SessionID: "current", ExpiresAt: expiresAt},
		models.ChangePasswordRequest{OldPassword: testPassword, NewPassword: testNewPassword})
	require.NoError(t, err)

	assert.False(t, f.vault.Exists("other", user.ID))
	assert.True(t, f.vault.Exists("current", user.ID))
}

func TestChangePassword_DirectMode_ConcurrentEntryChangeAborts(t *testing.T) {
	f := newAuthFixture(t, models.KeyModeDirect)
	user, _ := f.storedUser(t, models.KeyModeDirect, testPassword)

	password, err := f.cipher.Encrypt("site-secret", testPassword)
	require.NoError(t, err)

	expiresAt := time.Now().Add(time.Hour)
	f.vault.Put("current", user.ID, testPassword, expiresAt)

	f.users.EXPECT().FindUserByID(gomock.Any(), user.ID).Return(user, nil)
	f.tx.EXPECT().WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
	f.entries.EXPECT().ListEntries(gomock.Any(), user.ID).
		Return([]models.PasswordEntry{{ID: "entry-1", UserID: user.ID, Password: password}}, nil)
	f.entries.EXPECT().RewriteEntrySecrets(gomock.Any(), user.ID, gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(store.ErrEntryChanged)

	err = f.svc.ChangePassword(context.Background(), models.Principal{UserID: user.ID, SessionID: "current", ExpiresAt: expiresAt},
		models.ChangePasswordRequest{OldPassword: testPassword, NewPassword: testNewPassword})

	assert.ErrorIs(t, err, store.ErrEntryChanged)
	secret, err := f.vault.Secret("current", user.ID)
	require.NoError(t, err)
	assert.Equal(t, testPassword, secret)
}

func TestChangePassword_DirectMode_UndecryptableEntryAborts(t *testing.T) {
	f := newAuthFixture(t, models.KeyModeDirect)
	user, _ := f.storedUser(t, models.KeyModeDirect, testPassword)

	foreign, err := f.cipher.Encrypt("site-secret", "someone-else")
	require.NoError(t, err)

	f.users.EXPECT().FindUserByID(gomock.Any(), user.ID).Return(user, nil)
	f.tx.EXPECT().WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
	f.entries.EXPECT().ListEntries(gomock.Any(), user.ID).
		Return([]models.PasswordEntry{{ID: "entry-1", Password: foreign}}, nil)

	err = f.svc.ChangePassword(context.Background(), models.Principal{UserID: user.ID, SessionID: "current"},
		models.ChangePasswordRequest{OldPassword: testPassword, NewPassword: testNewPassword})

	assert.ErrorIs(t, err, ErrEntryUndecryptable)
	assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	f := newAuthFixture(t, models.KeyModeMaster)
	user, _ := f.storedUser(t, models.KeyModeMaster, testPassword)
	f.users.EXPECT().FindUserByID(gomock.Any(), user.ID).Return(user, nil)

	err := f.svc.ChangePassword(context.Background(), models.Principal{UserID: user.ID, SessionID: "current"},
		models.ChangePasswordRequest{OldPassword: "not-the-password", NewPassword: testNewPassword})

	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestChangePassword_SamePassword_InvalidData(t *testing.T) {
	f := newAuthFixture(t, models.KeyModeMaster)

	err := f.svc.ChangePassword(context.Background(), models.Principal{UserID: "user-1"},
		models.ChangePasswordRequest{OldPassword: testPassword, NewPassword: testPassword})

	assert.ErrorIs(t, err, ErrInvalidDataProvided)
	assert.ErrorIs(t, err, validators.ErrSamePassword)
}
