package service

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/pos-engine/internal/domain/entity"
	"github.com/sangkips/pos-engine/internal/domain/repository"
	"github.com/sangkips/pos-engine/pkg/apperror"
	"github.com/sangkips/pos-engine/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

const (
	// MaxIdempotencyKeyLength is the longest accepted Idempotency-Key value
	MaxIdempotencyKeyLength = 120
	// DefaultIdempotencyTTL is how long a stored outcome can be replayed
	DefaultIdempotencyTTL = 24 * time.Hour
)

// IdempotencyService stores the outcome of mutating requests keyed by
// (action, Idempotency-Key) so a retried request replays instead of running
// twice
type IdempotencyService struct {
	uow  repository.UnitOfWork
	repo repository.IdempotencyRepository
	ttl  time.Duration
	now  func() time.Time
}

// NewIdempotencyService creates a new idempotency service
func NewIdempotencyService(uow repository.UnitOfWork, repo repository.IdempotencyRepository, ttl time.Duration) *IdempotencyService {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &IdempotencyService{uow: uow, repo: repo, ttl: ttl, now: time.Now}
}

// NormalizeIdempotencyKey trims the key and enforces presence and length
func NormalizeIdempotencyKey(key string) (string, error) {
	normalized := strings.TrimSpace(key)
	if normalized == "" {
		return "", apperror.NewInvalidError("Idempotency-Key header is required")
	}
	if len(normalized) > MaxIdempotencyKeyLength {
		return "", apperror.NewInvalidError("Idempotency-Key must be 120 characters or less")
	}
	return normalized, nil
}

// RequestHash fingerprints a request payload as hex BLAKE2b-256 of its JSON
func RequestHash(request interface{}) (string, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to encode idempotent request: %w", err)
	}
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// ExecuteIdempotent runs fn once per (actionKey, key). The key record and
// everything fn writes share one transaction, so a failed fn leaves no
// record behind. A repeated call with the same payload returns the stored
// result with replayed set; a different payload is a Conflict.
func ExecuteIdempotent[T any](
	ctx context.Context,
	svc *IdempotencyService,
	actionKey, key string,
	request interface{},
	fn func(ctx context.Context) (T, error),
) (T, bool, error) {
	var (
		result   T
		replayed bool
	)

	normalizedKey, err := NormalizeIdempotencyKey(key)
	if err != nil {
		return result, false, err
	}
	hash, err := RequestHash(request)
	if err != nil {
		return result, false, err
	}

	err = svc.uow.Execute(ctx, func(ctx context.Context) error {
		now := svc.now()

		record, err := svc.repo.GetForUpdate(ctx, actionKey, normalizedKey)
		if err != nil {
			return fmt.Errorf("failed to load idempotency key: %w", err)
		}

		switch {
		case record != nil && !record.IsExpired(now):
			replayed = true
			return svc.resolve(record, hash, &result)
		case record != nil:
			record.RequestHash = hash
			record.ResponseBody = ""
			record.Completed = false
			record.ExpiresAt = now.Add(svc.ttl)
		default:
			record = &entity.IdempotencyKey{
				ActionKey:   actionKey,
				Key:         normalizedKey,
				RequestHash: hash,
				ExpiresAt:   now.Add(svc.ttl),
			}
			created, err := svc.repo.CreateIfAbsent(ctx, record)
			if err != nil {
				return fmt.Errorf("failed to reserve idempotency key: %w", err)
			}
			if !created {
				concurrent, err := svc.repo.GetForUpdate(ctx, actionKey, normalizedKey)
				if err != nil {
					return fmt.Errorf("failed to load idempotency key: %w", err)
				}
				if concurrent == nil {
					return apperror.NewConflictError("idempotency conflict for key: " + normalizedKey)
				}
				replayed = true
				return svc.resolve(concurrent, hash, &result)
			}
		}

		out, err := fn(ctx)
		if err != nil {
			return err
		}
		body, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("failed to persist idempotency response: %w", err)
		}
		record.ResponseBody = string(body)
		record.Completed = true
		if err := svc.repo.Update(ctx, record); err != nil {
			return fmt.Errorf("failed to persist idempotency response: %w", err)
		}
		result = out
		return nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}

	if replayed {
		logger.FromContext(ctx).Info("idempotent request replayed",
			zap.String("action", actionKey),
			zap.String("idempotency_key", normalizedKey))
	}
	return result, replayed, nil
}

func (s *IdempotencyService) resolve(record *entity.IdempotencyKey, hash string, dest interface{}) error {
	if record.RequestHash != hash {
		return apperror.NewConflictError("idempotency key reuse with different payload: " + record.Key)
	}
	if !record.Completed {
		return apperror.NewConflictError("idempotency key is already being processed: " + record.Key)
	}
	if err := json.Unmarshal([]byte(record.ResponseBody), dest); err != nil {
		return fmt.Errorf("failed to replay idempotency response: %w", err)
	}
	return nil
}

// PurgeExpired deletes every record whose replay window has closed
func (s *IdempotencyService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}

// RunPurger calls PurgeExpired every interval until ctx is cancelled
func (s *IdempotencyService) RunPurger(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("failed to purge idempotency keys", zap.Error(err))
				continue
			}
			if removed > 0 {
				logger.Info("purged expired idempotency keys", zap.Int64("removed", removed))
			}
		}
	}
}
