package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"court-booking/internal/pkg/errs"
	"court-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "idemp:booking:"

// RedisStore keeps one JSON record per (user, key). SETNX makes the first
// request the owner; later requests see the stored record.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(userID, key uuid.UUID) string {
	return keyPrefix + userID.String() + ":" + key.String()
}

func (s *RedisStore) Begin(ctx context.Context, userID, key uuid.UUID, requestHash string, ttl time.Duration) (*shared.IdempotencyRecord, bool, error) {
	rec := shared.IdempotencyRecord{
		Key:         key,
		UserID:      userID,
		Status:      shared.IdempotencyStatusProcessing,
		RequestHash: requestHash,
		CreatedAt:   time.Now().UTC(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, false, errs.Wrap(err, "encode idempotency record")
	}

	ok, err := s.client.SetNX(ctx, redisKey(userID, key), data, ttl).Result()
	if err != nil {
		return nil, false, errs.Wrap(err, "claim idempotency key")
	}
	if ok {
		return &rec, true, nil
	}

	existing, err := s.get(ctx, userID, key)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		// Expired between SETNX and GET; let the caller retry.
		return nil, false, errs.ErrIdempotencyInProgress
	}
	return existing, false, nil
}

func (s *RedisStore) Complete(ctx context.Context, userID, key uuid.UUID, requestHash string, bookingID uuid.UUID, ttl time.Duration) error {
	rec, err := s.get(ctx, userID, key)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = &shared.IdempotencyRecord{Key: key, UserID: userID, CreatedAt: time.Now().UTC()}
	}
	rec.Status = shared.IdempotencyStatusCompleted
	rec.RequestHash = requestHash
	rec.BookingID = &bookingID

	data, err := json.Marshal(rec)
	if err != nil {
		return errs.Wrap(err, "encode idempotency record")
	}
	if err := s.client.Set(ctx, redisKey(userID, key), data, ttl).Err(); err != nil {
		return errs.Wrap(err, "store idempotency result")
	}
	return nil
}

func (s *RedisStore) Release(ctx context.Context, userID, key uuid.UUID) error {
	if err := s.client.Del(ctx, redisKey(userID, key)).Err(); err != nil {
		return errs.Wrap(err, "release idempotency key")
	}
	return nil
}

func (s *RedisStore) get(ctx context.Context, userID, key uuid.UUID) (*shared.IdempotencyRecord, error) {
	val, err := s.client.Get(ctx, redisKey(userID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(err, "read idempotency key")
	}
	var rec shared.IdempotencyRecord
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, errs.Wrap(err, "decode idempotency record")
	}
	return &rec, nil
}
