package service

import (
	"context"
	"fmt"

	"github.com/lightningsoon/KeyMinder/internal/store"
	"github.com/lightningsoon/KeyMinder/internal/utils"
	"github.com/lightningsoon/KeyMinder/internal/validators"
	"github.com/lightningsoon/KeyMinder/models"
)

// EntryValidationService rejects malformed requests before they reach the
// wrapped EntryService.
type EntryValidationService struct {
	inner     EntryService
	validator validators.Validator
}

func NewEntryValidationService(validator validators.Validator) EntryServiceWrapper {
	return &EntryValidationService{
		validator: validator,
	}
}

func (v *EntryValidationService) List(ctx context.Context, principal models.Principal) ([]models.PasswordEntry, error) {
	return v.inner.List(ctx, principal)
}

func (v *EntryValidationService) Get(ctx context.Context, principal models.Principal, entryID string) (models.PasswordEntry, error) {
	// ids are issued by the server, anything else cannot exist
	if !utils.IsValidUUID(entryID) {
		return models.PasswordEntry{}, store.ErrEntryNotFound
	}
	return v.inner.Get(ctx, principal, entryID)
}

func (v *EntryValidationService) Create(ctx context.Context, principal models.Principal, entry models.PasswordEntry) (models.PasswordEntry, error) {
	if err := v.validator.Validate(ctx, entry); err != nil {
		return models.PasswordEntry{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.Create(ctx, principal, entry)
}

func (v *EntryValidationService) Update(ctx context.Context, principal models.Principal, entryID string, update models.EntryUpdate) (models.PasswordEntry, error) {
	if !utils.IsValidUUID(entryID) {
		return models.PasswordEntry{}, store.ErrEntryNotFound
	}
	if err := v.validator.Validate(ctx, update); err != nil {
		return models.PasswordEntry{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.Update(ctx, principal, entryID, update)
}

func (v *EntryValidationService) Delete(ctx context.Context, principal models.Principal, entryID string) error {
	if !utils.IsValidUUID(entryID) {
		return store.ErrEntryNotFound
	}
	return v.inner.Delete(ctx, principal, entryID)
}

func (v *EntryValidationService) Wrap(wrapped EntryService) EntryService {
	v.inner = wrapped
	return v
}
