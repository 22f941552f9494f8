package store

import (
	"github.com/lightningsoon/KeyMinder/internal/logger"
	"github.com/lightningsoon/KeyMinder/internal/utils"
)

// Storages groups the repositories built over one database connection.
type Storages struct {
	UserRepository  UserRepository
	EntryRepository EntryRepository
	Transactor      Transactor
	DB              *DB
}

// NewStorages wires every repository to db.
func NewStorages(db *DB, log *logger.Logger) *Storages {
	ids := utils.NewUUIDGenerator()
	return &Storages{
		UserRepository:  NewUserRepository(db, ids, log),
		EntryRepository: NewEntryRepository(db, ids, log),
		Transactor:      db,
		DB:              db,
	}
}
