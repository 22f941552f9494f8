package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lightningsoon/KeyMinder/internal/config"
	"github.com/lightningsoon/KeyMinder/internal/crypto"
	"github.com/lightningsoon/KeyMinder/internal/logger"
	"github.com/lightningsoon/KeyMinder/internal/store"
	"github.com/lightningsoon/KeyMinder/internal/utils"
	"github.com/lightningsoon/KeyMinder/internal/validators"
	"github.com/lightningsoon/KeyMinder/models"
)

// dummyPassword is hashed once and verified against when a login names an
// unknown user, so both failures cost one KDF run.
const dummyPassword = "keyminder-unknown-user"

type idGenerator interface {
	Generate() string
}

// authService is the concrete implementation of AuthService.
// It owns account credentials, the key material protecting a user's entries
// and the server-side sessions that hold the entry secret between requests.
type authService struct {
	userRepository  store.UserRepository
	entryRepository store.EntryRepository
	transactor      store.Transactor

	sessions  SessionStore
	cipher    crypto.SecretCipher
	hasher    crypto.PasswordHasher
	validator validators.Validator
	ids       idGenerator

	// keyMode is given to new accounts. Existing accounts keep their own.
	keyMode models.KeyMode

	tokenSignKey  string
	tokenIssuer   string
	tokenDuration time.Duration

	dummyOnce sync.Once
	dummyHash string

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the repositories of
// storages and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use.
func NewAuthService(
	storages *store.Storages,
	sessions SessionStore,
	cipher crypto.SecretCipher,
	hasher crypto.PasswordHasher,
	validator validators.Validator,
	cfg config.StructuredConfig,
	logger *logger.Logger,
) AuthService {
	return &authService{
		userRepository:  storages.UserRepository,
		entryRepository: storages.EntryRepository,
		transactor:      storages.Transactor,
		sessions:        sessions,
		cipher:          cipher,
		hasher:          hasher,
		validator:       validator,
		ids:             utils.NewUUIDGenerator(),
		keyMode:         models.KeyMode(cfg.Crypto.KeyMode),
		tokenSignKey:    cfg.App.TokenSignKey,
		tokenIssuer:     cfg.App.TokenIssuer,
		tokenDuration:   cfg.App.TokenDuration,
		logger:          logger,
	}
}

// Register creates a new account and opens its first session.
//
// In master mode a random master key is generated and stored wrapped under
// the login password. In direct mode the password itself is the entry secret.
func (a *authService) Register(ctx context.Context, credentials models.Credentials) (models.Session, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, credentials); err != nil {
		log.Error().Err(err).Str("username", credentials.Username).Msg("invalid registration data")
		return models.Session{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	passwordHash, err := a.hasher.Hash(credentials.Password)
	if err != nil {
		return models.Session{}, fmt.Errorf("error hashing password: %w", err)
	}

	user := models.User{
		Username:     credentials.Username,
		Email:        credentials.Email,
		PasswordHash: passwordHash,
		KeyMode:      a.keyMode,
	}

	var secret string
	switch a.keyMode {
	case models.KeyModeMaster:
		masterKey, err := a.cipher.GenerateMasterKey()
		if err != nil {
			return models.Session{}, fmt.Errorf("error generating master key: %w", err)
		}
		wrapped, err := a.cipher.WrapMasterKey(masterKey, credentials.Password)
		if err != nil {
			return models.Session{}, fmt.Errorf("error wrapping master key: %w", err)
		}
		user.WrappedMasterKey = &wrapped
		secret = masterKey
	case models.KeyModeDirect:
		secret = credentials.Password
	default:
		return models.Session{}, fmt.Errorf("%w: %q", ErrUnsupportedKeyMode, a.keyMode)
	}

	created, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("username", user.Username).Msg("user creation ended with error")
		return models.Session{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return a.openSession(ctx, created, secret)
}

// Login authenticates an existing user and opens a new session.
//
// An unknown username and a wrong password both yield ErrInvalidCredentials.
// Credentials stored with weaker parameters are upgraded on the way.
func (a *authService) Login(ctx context.Context, credentials models.Credentials) (models.Session, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, credentials, validators.FieldUsername, validators.FieldPassword); err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	user, err := a.userRepository.FindUserByUsername(ctx, credentials.Username)
	if errors.Is(err, store.ErrUserNotFound) {
		a.verifyDummy(credentials.Password)
		log.Warn().Str("username", credentials.Username).Msg("login for unknown user")
		return models.Session{}, ErrInvalidCredentials
	}
	if err != nil {
		log.Err(err).Str("username", credentials.Username).Msg("user search by username failed")
		return models.Session{}, fmt.Errorf("user search by username failed: %w", err)
	}

	log = log.ForUser(user.ID)
	ok, err := a.hasher.Verify(credentials.Password, user.PasswordHash)
	if err != nil {
		log.Err(err).Msg("stored password hash is unusable")
		return models.Session{}, fmt.Errorf("error verifying password: %w", err)
	}
	if !ok {
		log.Warn().Msg("wrong password")
		return models.Session{}, ErrInvalidCredentials
	}

	secret, err := a.entrySecret(user, credentials.Password)
	if err != nil {
		log.Err(err).Msg("cannot resolve entry secret")
		return models.Session{}, err
	}

	a.upgradeCredentials(ctx, user, credentials.Password, secret)

	return a.openSession(ctx, user, secret)
}

// Logout closes the caller's session. The token stays syntactically valid
// until it expires but is rejected by ParseToken.
func (a *authService) Logout(ctx context.Context, principal models.Principal) error {
	a.sessions.Close(principal.SessionID)
	return nil
}

func (a *authService) Me(ctx context.Context, principal models.Principal) (models.User, error) {
	user, err := a.userRepository.FindUserByID(ctx, principal.UserID)
	if err != nil {
		return models.User{}, fmt.Errorf("error getting current user: %w", err)
	}
	return user, nil
}

// ChangePassword verifies the old password and replaces it with the new one.
//
// Master mode rewraps the master key and leaves entries untouched. Direct mode
// re-encrypts every entry under the new password within one transaction.
// All other sessions of the user are closed and the caller's session keeps
// working with the new entry secret.
func (a *authService) ChangePassword(ctx context.Context, principal models.Principal, request models.ChangePasswordRequest) error {
	log := logger.FromContext(ctx).ForUser(principal.UserID)

	if err := a.validator.Validate(ctx, request); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	user, err := a.userRepository.FindUserByID(ctx, principal.UserID)
	if err != nil {
		return fmt.Errorf("error getting current user: %w", err)
	}

	ok, err := a.hasher.Verify(request.OldPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("error verifying password: %w", err)
	}
	if !ok {
		log.Warn().Msg("wrong old password on password change")
		return ErrWrongPassword
	}

	user.PasswordHash, err = a.hasher.Hash(request.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	// Other sessions hold the old secret and must not write entries while
	// they are re-encrypted.
	closed := a.sessions.CloseUser(user.ID, principal.SessionID)

	var secret string
	switch user.KeyMode {
	case models.KeyModeMaster:
		secret, err = a.rewrapMasterKey(ctx, &user, request)
	case models.KeyModeDirect:
		secret, err = a.reencryptEntries(ctx, user, request)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedKeyMode, user.KeyMode)
	}
	if err != nil {
		log.Err(err).Msg("password change failed")
		return err
	}

	a.sessions.Put(principal.SessionID, user.ID, secret, principal.ExpiresAt)
	log.Info().Int("closed_sessions", closed).Msg("password changed")

	return nil
}

// CreateToken issues a signed JWT for user bound to sessionID.
func (a *authService) CreateToken(ctx context.Context, user models.User, sessionID string) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.ID, sessionID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates a raw JWT string and checks that its session is still
// open. Validation failures are normalised to ErrTokenIsExpiredOrInvalid and a
// closed or expired session to ErrSessionExpired.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	if !a.sessions.Exists(token.SessionID, token.UserID) {
		return models.Token{}, ErrSessionExpired
	}

	return token, nil
}

func (a *authService) openSession(ctx context.Context, user models.User, secret string) (models.Session, error) {
	sessionID := a.ids.Generate()

	token, err := a.CreateToken(ctx, user, sessionID)
	if err != nil {
		return models.Session{}, err
	}

	a.sessions.Put(sessionID, user.ID, secret, token.ExpiresAt.Time)

	return models.Session{User: user, Token: token}, nil
}

// entrySecret resolves the secret that encrypts the user's entries.
func (a *authService) entrySecret(user models.User, password string) (string, error) {
	switch user.KeyMode {
	case models.KeyModeDirect:
		return password, nil
	case models.KeyModeMaster:
		if user.WrappedMasterKey == nil {
			return "", fmt.Errorf("%w: master key is missing", ErrEntryUndecryptable)
		}
		masterKey, err := a.cipher.UnwrapMasterKey(*user.WrappedMasterKey, password)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrEntryUndecryptable, err)
		}
		return masterKey, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKeyMode, user.KeyMode)
	}
}

// upgradeCredentials rehashes the password and rewraps the master key when
// they were written with weaker parameters. Failures are logged only.
func (a *authService) upgradeCredentials(ctx context.Context, user models.User, password, secret string) {
	log := logger.FromContext(ctx).ForUser(user.ID)

	changed := false
	if a.hasher.NeedsRehash(user.PasswordHash) {
		passwordHash, err := a.hasher.Hash(password)
		if err != nil {
			log.Warn().Err(err).Msg("password rehash failed")
			return
		}
		user.PasswordHash = passwordHash
		changed = true
	}

	if user.KeyMode == models.KeyModeMaster && user.WrappedMasterKey != nil && a.cipher.NeedsUpgrade(*user.WrappedMasterKey) {
		wrapped, err := a.cipher.WrapMasterKey(secret, password)
		if err != nil {
			log.Warn().Err(err).Msg("master key rewrap failed")
			return
		}
		user.WrappedMasterKey = &wrapped
		changed = true
	}

	if !changed {
		return
	}
	if err := a.userRepository.UpdateUserCredentials(ctx, user); err != nil {
		log.Warn().Err(err).Msg("credential upgrade was not saved")
		return
	}
	log.Info().Msg("credentials upgraded")
}

func (a *authService) rewrapMasterKey(ctx context.Context, user *models.User, request models.ChangePasswordRequest) (string, error) {
	masterKey, err := a.entrySecret(*user, request.OldPassword)
	if err != nil {
		return "", err
	}

	wrapped, err := a.cipher.WrapMasterKey(masterKey, request.NewPassword)
	if err != nil {
		return "", fmt.Errorf("error wrapping master key: %w", err)
	}
	user.WrappedMasterKey = &wrapped

	if err := a.userRepository.UpdateUserCredentials(ctx, *user); err != nil {
		return "", fmt.Errorf("error saving credentials: %w", err)
	}
	return masterKey, nil
}

func (a *authService) reencryptEntries(ctx context.Context, user models.User, request models.ChangePasswordRequest) (string, error) {
	err := a.transactor.WithinTx(ctx, func(ctx context.Context) error {
		entries, err := a.entryRepository.ListEntries(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("error listing entries: %w", err)
		}

		for _, entry := range entries {
			password, notes, err := a.reencrypt(entry, request.OldPassword, request.NewPassword)
			if err != nil {
				return fmt.Errorf("entry %s: %w", entry.ID, err)
			}
			if err := a.entryRepository.RewriteEntrySecrets(ctx, user.ID, entry, password, notes); err != nil {
				return fmt.Errorf("error rewriting entry %s: %w", entry.ID, err)
			}
		}

		if err := a.userRepository.UpdateUserCredentials(ctx, user); err != nil {
			return fmt.Errorf("error saving credentials: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return request.NewPassword, nil
}

func (a *authService) reencrypt(entry models.PasswordEntry, oldSecret, newSecret string) (string, *string, error) {
	password, err := recrypt(a.cipher, entry.Password, oldSecret, newSecret)
	if err != nil {
		return "", nil, err
	}
	if entry.Notes == nil {
		return password, nil, nil
	}
	notes, err := recrypt(a.cipher, *entry.Notes, oldSecret, newSecret)
	if err != nil {
		return "", nil, err
	}
	return password, &notes, nil
}

func (a *authService) verifyDummy(password string) {
	a.dummyOnce.Do(func() {
		hash, err := a.hasher.Hash(dummyPassword)
		if err != nil {
			a.logger.Warn().Err(err).Msg("dummy hash unavailable")
			return
		}
		a.dummyHash = hash
	})
	if a.dummyHash != "" {
		_, _ = a.hasher.Verify(password, a.dummyHash)
	}
}

// recrypt decrypts blob under oldSecret and encrypts the plaintext under
// newSecret.
func recrypt(cipher crypto.SecretCipher, blob, oldSecret, newSecret string) (string, error) {
	plaintext, err := cipher.Decrypt(blob, oldSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEntryUndecryptable, err)
	}
	sealed, err := cipher.Encrypt(plaintext, newSecret)
	if err != nil {
		return "", fmt.Errorf("error encrypting secret: %w", err)
	}
	return sealed, nil
}
