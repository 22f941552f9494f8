// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lightningsoon/KeyMinder/models"
)

var userColumns = []string{
	"id",
	"username",
	"email",
	"password_hash",
	"key_mode",
	"wrapped_master_key",
	"created_at",
	"updated_at",
}

var entryColumns = []string{
	"id",
	"user_id",
	"title",
	"username",
	"password",
	"url",
	"notes",
	"category",
	"tags",
	"created_at",
	"updated_at",
	"last_used",
}

func buildInsertUserQuery(b sq.StatementBuilderType, user models.User) (string, []any, error) {
	query, args, err := b.Insert(user.TableName()).
		Columns(userColumns...).
		Values(
			user.ID,
			user.Username,
			user.Email,
			user.PasswordHash,
			string(user.KeyMode),
			user.WrappedMasterKey,
			user.CreatedAt,
			user.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildSelectUserQuery selects a single user where column equals value.
func buildSelectUserQuery(b sq.StatementBuilderType, column string, value any) (string, []any, error) {
	query, args, err := b.Select(userColumns...).
		From(models.User{}.TableName()).
		Where(sq.Eq{column: value}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpdateUserCredentialsQuery(b sq.StatementBuilderType, user models.User) (string, []any, error) {
	query, args, err := b.Update(user.TableName()).
		Set("password_hash", user.PasswordHash).
		Set("key_mode", string(user.KeyMode)).
		Set("wrapped_master_key", user.WrappedMasterKey).
		Set("updated_at", user.UpdatedAt).
		Where(sq.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildInsertEntryQuery(b sq.StatementBuilderType, entry models.PasswordEntry) (string, []any, error) {
	query, args, err := b.Insert(entry.TableName()).
		Columns(entryColumns...).
		Values(
			entry.ID,
			entry.UserID,
			entry.Title,
			entry.Username,
			entry.Password,
			entry.URL,
			entry.Notes,
			entry.Category,
			models.JoinTags(entry.Tags),
			entry.CreatedAt,
			entry.UpdatedAt,
			entry.LastUsed,
		).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectEntryQuery(b sq.StatementBuilderType, userID, entryID string) (string, []any, error) {
	query, args, err := b.Select(entryColumns...).
		From(models.PasswordEntry{}.TableName()).
		Where(sq.Eq{"id": entryID, "user_id": userID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildListEntriesQuery selects all entries of a user, most recently
// updated first.
func buildListEntriesQuery(b sq.StatementBuilderType, userID string) (string, []any, error) {
	query, args, err := b.Select(entryColumns...).
		From(models.PasswordEntry{}.TableName()).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("updated_at DESC", "id").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildUpdateEntryQuery sets only the fields present in update, plus
// updated_at.
func buildUpdateEntryQuery(b sq.StatementBuilderType, userID, entryID string, update models.EntryUpdate, updatedAt time.Time) (string, []any, error) {
	builder := b.Update(models.PasswordEntry{}.TableName()).
		Set("updated_at", updatedAt)

	if update.Title != nil {
		builder = builder.Set("title", *update.Title)
	}
	if update.Username != nil {
		builder = builder.Set("username", *update.Username)
	}
	if update.Password != nil {
		builder = builder.Set("password", *update.Password)
	}
	if update.URL != nil {
		builder = builder.Set("url", *update.URL)
	}
	if update.Notes != nil {
		builder = builder.Set("notes", *update.Notes)
	}
	if update.Category != nil {
		builder = builder.Set("category", *update.Category)
	}
	if update.Tags != nil {
		builder = builder.Set("tags", models.JoinTags(*update.Tags))
	}

	query, args, err := builder.
		Where(sq.Eq{"id": entryID, "user_id": userID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildDeleteEntryQuery(b sq.StatementBuilderType, userID, entryID string) (string, []any, error) {
	query, args, err := b.Delete(models.PasswordEntry{}.TableName()).
		Where(sq.Eq{"id": entryID, "user_id": userID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildTouchEntryQuery(b sq.StatementBuilderType, userID, entryID string, usedAt time.Time) (string, []any, error) {
	query, args, err := b.Update(models.PasswordEntry{}.TableName()).
		Set("last_used", usedAt).
		Where(sq.Eq{"id": entryID, "user_id": userID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildRewriteEntrySecretsQuery only matches while the row still holds the
// secrets of stored. A nil stored.Notes matches NULL.
func buildRewriteEntrySecretsQuery(b sq.StatementBuilderType, userID string, stored models.PasswordEntry, password string, notes *string) (string, []any, error) {
	query, args, err := b.Update(models.PasswordEntry{}.TableName()).
		Set("password", password).
		Set("notes", notes).
		Where(sq.Eq{
			"id":       stored.ID,
			"user_id":  userID,
			"password": stored.Password,
			"notes":    stored.Notes,
		}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
