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

// entryRepository is the SQL implementation of [EntryRepository] over the
// "password_entries" table. Password and notes are stored as given; the
// repository never sees plaintext.
type entryRepository struct {
	db     *DB
	ids    idGenerator
	now    func() time.Time
	logger *logger.Logger
}

// NewEntryRepository constructs an [EntryRepository] backed by db.
func NewEntryRepository(db *DB, ids idGenerator, logger *logger.Logger) EntryRepository {
	logger.Debug().Msg("creating entry repository")
	return &entryRepository{
		db:     db,
		ids:    ids,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

// CreateEntry assigns the entry an ID and timestamps and persists it.
func (r *entryRepository) CreateEntry(ctx context.Context, entry models.PasswordEntry) (models.PasswordEntry, error) {
	log := logger.FromContext(ctx)

	entry.ID = r.ids.Generate()
	entry.CreatedAt = r.now()
	entry.UpdatedAt = entry.CreatedAt
	entry.LastUsed = nil
	if entry.Tags == nil {
		entry.Tags = []string{}
	}

	query, args, err := buildInsertEntryQuery(r.db.builder(), entry)
	if err != nil {
		log.Err(err).Str("func", "*entryRepository.CreateEntry").Msg("failed to build query")
		return models.PasswordEntry{}, err
	}

	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		_, execErr := r.db.querier(ctx).ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		log.Err(err).Str("func", "*entryRepository.CreateEntry").Str("user_id", entry.UserID).Msg("failed to insert entry")
		return models.PasswordEntry{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return entry, nil
}

// GetEntry returns the entry entryID of userID or [ErrEntryNotFound].
func (r *entryRepository) GetEntry(ctx context.Context, userID, entryID string) (models.PasswordEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectEntryQuery(r.db.builder(), userID, entryID)
	if err != nil {
		log.Err(err).Str("func", "*entryRepository.GetEntry").Msg("failed to build query")
		return models.PasswordEntry{}, err
	}

	var entry models.PasswordEntry
	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		row := r.db.querier(ctx).QueryRowContext(ctx, query, args...)
		return scanEntry(row, &entry)
	})
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.PasswordEntry{}, ErrEntryNotFound
	case err != nil:
		log.Err(err).Str("func", "*entryRepository.GetEntry").Str("entry_id", entryID).Msg("failed to get entry")
		return models.PasswordEntry{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return entry, nil
}

// ListEntries returns every entry of userID, most recently updated first.
// Returns an empty slice when the user has no entries.
func (r *entryRepository) ListEntries(ctx context.Context, userID string) ([]models.PasswordEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListEntriesQuery(r.db.builder(), userID)
	if err != nil {
		log.Err(err).Str("func", "*entryRepository.ListEntries").Msg("failed to build query")
		return nil, err
	}

	var entries []models.PasswordEntry
	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		entries = make([]models.PasswordEntry, 0, 16)

		rows, queryErr := r.db.querier(ctx).QueryContext(ctx, query, args...)
		if queryErr != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
		}
		defer rows.Close()

		for rows.Next() {
			var entry models.PasswordEntry
			if scanErr := scanEntry(rows, &entry); scanErr != nil {
				return fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
			}
			entries = append(entries, entry)
		}

		if rowsErr := rows.Err(); rowsErr != nil {
			return fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
		}
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "*entryRepository.ListEntries").Str("user_id", userID).Msg("failed to list entries")
		return nil, err
	}

	return entries, nil
}

// UpdateEntry applies the fields present in update and returns the stored
// entry afterwards.
func (r *entryRepository) UpdateEntry(ctx context.Context, userID, entryID string, update models.EntryUpdate) (models.PasswordEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateEntryQuery(r.db.builder(), userID, entryID, update, r.now())
	if err != nil {
		log.Err(err).Str("func", "*entryRepository.UpdateEntry").Msg("failed to build query")
		return models.PasswordEntry{}, err
	}

	if err = r.execAffectingOne(ctx, query, args); err != nil {
		if !errors.Is(err, ErrEntryNotFound) {
			log.Err(err).Str("func", "*entryRepository.UpdateEntry").Str("entry_id", entryID).Msg("failed to update entry")
		}
		return models.PasswordEntry{}, err
	}

	return r.GetEntry(ctx, userID, entryID)
}

// DeleteEntry removes the entry or returns [ErrEntryNotFound].
func (r *entryRepository) DeleteEntry(ctx context.Context, userID, entryID string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteEntryQuery(r.db.builder(), userID, entryID)
	if err != nil {
		log.Err(err).Str("func", "*entryRepository.DeleteEntry").Msg("failed to build query")
		return err
	}

	if err = r.execAffectingOne(ctx, query, args); err != nil {
		if !errors.Is(err, ErrEntryNotFound) {
			log.Err(err).Str("func", "*entryRepository.DeleteEntry").Str("entry_id", entryID).Msg("failed to delete entry")
		}
		return err
	}

	return nil
}

// TouchEntry records usedAt as the entry's last use. updated_at is left
// unchanged so reading an entry does not reorder the list.
func (r *entryRepository) TouchEntry(ctx context.Context, userID, entryID string, usedAt time.Time) error {
	query, args, err := buildTouchEntryQuery(r.db.builder(), userID, entryID, usedAt.UTC())
	if err != nil {
		return err
	}

	return r.execAffectingOne(ctx, query, args)
}

// RewriteEntrySecrets implements [EntryRepository].
func (r *entryRepository) RewriteEntrySecrets(ctx context.Context, userID string, stored models.PasswordEntry, password string, notes *string) error {
	query, args, err := buildRewriteEntrySecretsQuery(r.db.builder(), userID, stored, password, notes)
	if err != nil {
		return err
	}

	err = r.execAffectingOne(ctx, query, args)
	if errors.Is(err, ErrEntryNotFound) {
		return ErrEntryChanged
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*entryRepository.RewriteEntrySecrets").
			Str("entry_id", stored.ID).
			Msg("failed to rewrite entry secrets")
		return err
	}
	return nil
}

// execAffectingOne runs a DML statement scoped to one entry and reports
// [ErrEntryNotFound] when it matched no row.
func (r *entryRepository) execAffectingOne(ctx context.Context, query string, args []any) error {
	var affected int64
	err := r.db.withRetry(ctx, func(ctx context.Context) error {
		res, execErr := r.db.querier(ctx).ExecContext(ctx, query, args...)
		if execErr != nil {
			return execErr
		}
		affected, execErr = res.RowsAffected()
		return execErr
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func scanEntry(row rowScanner, entry *models.PasswordEntry) error {
	var tags string
	if err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Title,
		&entry.Username,
		&entry.Password,
		&entry.URL,
		&entry.Notes,
		&entry.Category,
		&tags,
		&entry.CreatedAt,
		&entry.UpdatedAt,
		&entry.LastUsed,
	); err != nil {
		return err
	}
	entry.Tags = models.SplitTags(tags)
	return nil
}
