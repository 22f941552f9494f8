package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lightningsoon/KeyMinder/internal/logger"
	"github.com/lightningsoon/KeyMinder/models"
)

// idGenerator issues identifiers for new rows.
type idGenerator interface {
	Generate() string
}

// userRepository is the SQL implementation of [UserRepository].
// It handles user account creation and lookup against the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	db     *DB
	ids    idGenerator
	now    func() time.Time
	logger *logger.Logger
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, ids idGenerator, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		ids:    ids,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

// CreateUser assigns the user an ID and timestamps, persists it and returns
// the stored record.
//
// Error handling:
//   - unique violation on username → [ErrUsernameTaken].
//   - any other driver-level error → wrapped [ErrExecutingStatement].
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	user.ID = r.ids.Generate()
	user.CreatedAt = r.now()
	user.UpdatedAt = user.CreatedAt

	query, args, err := buildInsertUserQuery(r.db.builder(), user)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("failed to build query")
		return models.User{}, err
	}

	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		_, execErr := r.db.querier(ctx).ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		if r.db.errorClassificator.IsUniqueViolation(err) {
			return models.User{}, ErrUsernameTaken
		}
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("failed to insert user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return user, nil
}

// FindUserByUsername returns the user with the given username or
// [ErrUserNotFound].
func (r *userRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findUser(ctx, "username", username)
}

// FindUserByID returns the user with the given ID or [ErrUserNotFound].
func (r *userRepository) FindUserByID(ctx context.Context, userID string) (models.User, error) {
	return r.findUser(ctx, "id", userID)
}

func (r *userRepository) findUser(ctx context.Context, column, value string) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectUserQuery(r.db.builder(), column, value)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.findUser").Msg("failed to build query")
		return models.User{}, err
	}

	var user models.User
	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		row := r.db.querier(ctx).QueryRowContext(ctx, query, args...)
		return scanUser(row, &user)
	})
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.User{}, ErrUserNotFound
	case err != nil:
		log.Err(err).Str("func", "*userRepository.findUser").Str("by", column).Msg("failed to find user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return user, nil
}

// UpdateUserCredentials implements [UserRepository].
func (r *userRepository) UpdateUserCredentials(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx)

	user.UpdatedAt = r.now()
	query, args, err := buildUpdateUserCredentialsQuery(r.db.builder(), user)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUserCredentials").Msg("failed to build query")
		return err
	}

	var affected int64
	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		res, execErr := r.db.querier(ctx).ExecContext(ctx, query, args...)
		if execErr != nil {
			return execErr
		}
		affected, execErr = res.RowsAffected()
		return execErr
	})
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUserCredentials").Str("user_id", user.ID).Msg("failed to update user")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, user *models.User) error {
	var keyMode string
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&keyMode,
		&user.WrappedMasterKey,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return err
	}
	user.KeyMode = models.KeyMode(keyMode)
	return nil
}
