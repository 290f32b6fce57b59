package medtracker

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Storage persists the raw taken-medications record per patient. Implementations
// must return (nil, nil) when no record exists.
type Storage interface {
	Read(ctx context.Context, patientID string) ([]byte, error)
	Write(ctx context.Context, patientID string, data []byte) error
	Delete(ctx context.Context, patientID string) error
}

// RedisStorage keeps the taken record as a JSON blob in redis.
type RedisStorage struct {
	redis  *redis.Client
	tracer trace.Tracer
}

// NewRedisStorage creates the production storage backend.
func NewRedisStorage(redisClient *redis.Client, tracer trace.Tracer) *RedisStorage {
	if redisClient == nil {
		panic("medtracker: redis client cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("pulsecare.internal.medtracker")
	}
	return &RedisStorage{redis: redisClient, tracer: tracer}
}

func takenKey(patientID string) string {
	return fmt.Sprintf("medtracker:taken:%s", patientID)
}

func (s *RedisStorage) Read(ctx context.Context, patientID string) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "medtracker.read_taken")
	defer span.End()

	data, err := s.redis.Get(ctx, takenKey(patientID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("medtracker: read taken record: %w", err)
	}
	return data, nil
}

func (s *RedisStorage) Write(ctx context.Context, patientID string, data []byte) error {
	ctx, span := s.tracer.Start(ctx, "medtracker.write_taken")
	defer span.End()

	// No TTL: expiry is the day-rollover check on read, keyed to the
	// patient's local calendar date rather than wall-clock age.
	if err := s.redis.Set(ctx, takenKey(patientID), data, 0).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("medtracker: persist taken record: %w", err)
	}
	return nil
}

func (s *RedisStorage) Delete(ctx context.Context, patientID string) error {
	ctx, span := s.tracer.Start(ctx, "medtracker.delete_taken")
	defer span.End()

	if err := s.redis.Del(ctx, takenKey(patientID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("medtracker: delete taken record: %w", err)
	}
	return nil
}
