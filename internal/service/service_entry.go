package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lightningsoon/KeyMinder/internal/crypto"
	"github.com/lightningsoon/KeyMinder/internal/logger"
	"github.com/lightningsoon/KeyMinder/internal/store"
	"github.com/lightningsoon/KeyMinder/models"
)

// entryService encrypts secret fields of password entries with the entry
// secret of the caller's session.
type entryService struct {
	entryRepository store.EntryRepository
	sessions        SessionStore
	cipher          crypto.SecretCipher
	now             func() time.Time

	logger *logger.Logger
}

func NewEntryService(entryRepository store.EntryRepository, sessions SessionStore, cipher crypto.SecretCipher, logger *logger.Logger) EntryService {
	return &entryService{
		entryRepository: entryRepository,
		sessions:        sessions,
		cipher:          cipher,
		now:             time.Now,
		logger:          logger,
	}
}

func (s *entryService) List(ctx context.Context, principal models.Principal) ([]models.PasswordEntry, error) {
	entries, err := s.entryRepository.ListEntries(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("error listing entries: %w", err)
	}

	masked := make([]models.PasswordEntry, 0, len(entries))
	for _, entry := range entries {
		masked = append(masked, entry.Masked())
	}
	return masked, nil
}

// Get returns the entry with password and notes decrypted. Reading an entry
// records its last use and re-encrypts secrets written with an older format.
func (s *entryService) Get(ctx context.Context, principal models.Principal, entryID string) (models.PasswordEntry, error) {
	log := logger.FromContext(ctx)

	secret, err := s.secret(principal)
	if err != nil {
		return models.PasswordEntry{}, err
	}

	stored, err := s.entryRepository.GetEntry(ctx, principal.UserID, entryID)
	if err != nil {
		return models.PasswordEntry{}, fmt.Errorf("error getting entry: %w", err)
	}

	entry := stored
	if entry.Password, err = s.decrypt(stored.Password, secret); err != nil {
		log.Err(err).Str("entry_id", entryID).Msg("entry password cannot be decrypted")
		return models.PasswordEntry{}, err
	}
	if stored.Notes != nil {
		notes, err := s.decrypt(*stored.Notes, secret)
		if err != nil {
			log.Err(err).Str("entry_id", entryID).Msg("entry notes cannot be decrypted")
			return models.PasswordEntry{}, err
		}
		entry.Notes = &notes
	}

	usedAt := s.now().UTC()
	if err := s.entryRepository.TouchEntry(ctx, principal.UserID, entryID, usedAt); err != nil {
		log.Warn().Err(err).Str("entry_id", entryID).Msg("last use was not recorded")
	} else {
		entry.LastUsed = &usedAt
	}

	s.upgrade(ctx, principal, stored, entry, secret)

	return entry, nil
}

func (s *entryService) Create(ctx context.Context, principal models.Principal, entry models.PasswordEntry) (models.PasswordEntry, error) {
	secret, err := s.secret(principal)
	if err != nil {
		return models.PasswordEntry{}, err
	}

	entry.UserID = principal.UserID
	if entry.Password, err = s.encrypt(entry.Password, secret); err != nil {
		return models.PasswordEntry{}, err
	}
	if entry.Notes != nil {
		notes, err := s.encrypt(*entry.Notes, secret)
		if err != nil {
			return models.PasswordEntry{}, err
		}
		entry.Notes = &notes
	}

	created, err := s.entryRepository.CreateEntry(ctx, entry)
	if err != nil {
		return models.PasswordEntry{}, fmt.Errorf("error creating entry: %w", err)
	}
	return created.Masked(), nil
}

// Update applies the present fields of update. New password and notes are
// encrypted before they reach storage.
func (s *entryService) Update(ctx context.Context, principal models.Principal, entryID string, update models.EntryUpdate) (models.PasswordEntry, error) {
	if update.HasSecrets() {
		secret, err := s.secret(principal)
		if err != nil {
			return models.PasswordEntry{}, err
		}
		if update.Password != nil {
			password, err := s.encrypt(*update.Password, secret)
			if err != nil {
				return models.PasswordEntry{}, err
			}
			update.Password = &password
		}
		if update.Notes != nil {
			notes, err := s.encrypt(*update.Notes, secret)
			if err != nil {
				return models.PasswordEntry{}, err
			}
			update.Notes = &notes
		}
	}

	updated, err := s.entryRepository.UpdateEntry(ctx, principal.UserID, entryID, update)
	if err != nil {
		return models.PasswordEntry{}, fmt.Errorf("error updating entry: %w", err)
	}
	return updated.Masked(), nil
}

func (s *entryService) Delete(ctx context.Context, principal models.Principal, entryID string) error {
	if err := s.entryRepository.DeleteEntry(ctx, principal.UserID, entryID); err != nil {
		return fmt.Errorf("error deleting entry: %w", err)
	}
	return nil
}

func (s *entryService) secret(principal models.Principal) (string, error) {
	secret, err := s.sessions.Secret(principal.SessionID, principal.UserID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
	return secret, nil
}

func (s *entryService) decrypt(blob, secret string) (string, error) {
	plaintext, err := s.cipher.Decrypt(blob, secret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEntryUndecryptable, err)
	}
	return plaintext, nil
}

func (s *entryService) encrypt(plaintext, secret string) (string, error) {
	blob, err := s.cipher.Encrypt(plaintext, secret)
	if err != nil {
		return "", fmt.Errorf("error encrypting secret: %w", err)
	}
	return blob, nil
}

// upgrade rewrites the stored secrets of an entry whose blobs need it.
// plain holds the decrypted values. Failures are logged only.
func (s *entryService) upgrade(ctx context.Context, principal models.Principal, stored, plain models.PasswordEntry, secret string) {
	needed := s.cipher.NeedsUpgrade(stored.Password)
	if stored.Notes != nil && s.cipher.NeedsUpgrade(*stored.Notes) {
		needed = true
	}
	if !needed {
		return
	}

	log := logger.FromContext(ctx)

	password, err := s.encrypt(plain.Password, secret)
	if err != nil {
		log.Warn().Err(err).Str("entry_id", stored.ID).Msg("entry upgrade failed")
		return
	}
	var notes *string
	if plain.Notes != nil {
		sealed, err := s.encrypt(*plain.Notes, secret)
		if err != nil {
			log.Warn().Err(err).Str("entry_id", stored.ID).Msg("entry upgrade failed")
			return
		}
		notes = &sealed
	}

	err = s.entryRepository.RewriteEntrySecrets(ctx, principal.UserID, stored, password, notes)
	if errors.Is(err, store.ErrEntryChanged) {
		log.Debug().Str("entry_id", stored.ID).Msg("entry changed before upgrade, skipped")
		return
	}
	if err != nil {
		log.Warn().Err(err).Str("entry_id", stored.ID).Msg("entry upgrade was not saved")
		return
	}
	log.Info().Str("entry_id", stored.ID).Msg("entry secrets upgraded")
}
