package service

import (
	"context"
	"fmt"

	"github.com/lightningsoon/KeyMinder/internal/logger"
)

type healthService struct {
	storage Pinger
	logger  *logger.Logger
}

// NewHealthService returns a HealthService that pings storage.
func NewHealthService(storage Pinger, logger *logger.Logger) HealthService {
	return &healthService{
		storage: storage,
		logger:  logger,
	}
}

func (s *healthService) Check(ctx context.Context) error {
	if err := s.storage.Ping(ctx); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*healthService.Check").Msg("storage ping failed")
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}
