package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/student-directory-api/internal/models"
)

// releaseEmailScript drops an email claim only while it still points at the given id.
var releaseEmailScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// deleteStudentScript removes a document and its index entry, and releases the email claim
// when the document still owns it. It returns the number of documents removed.
var deleteStudentScript = redis.NewScript(`
local removed = redis.call("DEL", KEYS[1])
if redis.call("GET", KEYS[2]) == ARGV[1] then
	redis.call("DEL", KEYS[2])
end
redis.call("ZREM", KEYS[3], ARGV[1])
return removed
`)

// RedisStudentRepository stores each student as a JSON document. Email ownership is
// claimed with SETNX on a secondary key so two writers cannot hold the same email.
//
// Layout (prefix omitted):
//
//	student:{id}          JSON document
//	student:email:{email} owning id
//	students              sorted set of ids scored by creation time
type RedisStudentRepository struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisStudentRepository constructs a Redis backed student store.
func NewRedisStudentRepository(client *redis.Client, prefix string, logger *zap.Logger) *RedisStudentRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStudentRepository{client: client, prefix: prefix, logger: logger}
}

func (r *RedisStudentRepository) documentKey(id string) string {
	return r.prefix + "student:" + id
}

func (r *RedisStudentRepository) emailKey(email string) string {
	return r.prefix + "student:email:" + email
}

func (r *RedisStudentRepository) indexKey() string {
	return r.prefix + "students"
}

// FindAll returns every stored student ordered by creation time.
func (r *RedisStudentRepository) FindAll(ctx context.Context) ([]models.Student, error) {
	ids, err := r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list students: %w", err)
	}
	students := make([]models.Student, 0, len(ids))
	if len(ids) == 0 {
		return students, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.documentKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis load students: %w", err)
	}
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			r.logger.Warn("student index references missing document", zap.String("id", ids[i]))
			continue
		}
		var student models.Student
		if err := json.Unmarshal([]byte(raw), &student); err != nil {
			return nil, fmt.Errorf("decode student %s: %w", ids[i], err)
		}
		students = append(students, student)
	}
	return students, nil
}

// FindByEmail resolves the email index and loads the document. It returns ErrNotFound on a miss.
func (r *RedisStudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	id, err := r.client.Get(ctx, r.emailKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("find student by email: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("redis get email index: %w", err)
	}
	return r.findByID(ctx, id)
}

func (r *RedisStudentRepository) findByID(ctx context.Context, id string) (*models.Student, error) {
	raw, err := r.client.Get(ctx, r.documentKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("find student %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("redis get student %s: %w", id, err)
	}
	var student models.Student
	if err := json.Unmarshal(raw, &student); err != nil {
		return nil, fmt.Errorf("decode student %s: %w", id, err)
	}
	return &student, nil
}

// Save inserts or replaces the document keyed by student.ID, assigning an ID when missing.
// Changing the email of an existing document moves the email claim.
func (r *RedisStudentRepository) Save(ctx context.Context, student models.Student) (*models.Student, error) {
	var existing *models.Student
	if student.ID == "" {
		student.ID = uuid.NewString()
	} else {
		current, err := r.findByID(ctx, student.ID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		existing = current
	}
	if existing != nil {
		student.CreatedAt = existing.CreatedAt
	} else if student.CreatedAt.IsZero() {
		student.CreatedAt = time.Now().UTC()
	}

	claimed := false
	if existing == nil || existing.Email != student.Email {
		ok, err := r.client.SetNX(ctx, r.emailKey(student.Email), student.ID, 0).Result()
		if err != nil {
			return nil, fmt.Errorf("redis claim email: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("save student: %w", ErrDuplicateEmail)
		}
		claimed = true
	}

	payload, err := json.Marshal(student)
	if err != nil {
		return nil, fmt.Errorf("encode student %s: %w", student.ID, err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.documentKey(student.ID), payload, 0)
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{Score: float64(student.CreatedAt.UnixMicro()), Member: student.ID})
		return nil
	})
	if err != nil {
		if claimed {
			r.releaseEmail(ctx, student.Email, student.ID)
		}
		return nil, fmt.Errorf("redis save student %s: %w", student.ID, err)
	}
	if existing != nil && existing.Email != student.Email {
		r.releaseEmail(ctx, existing.Email, student.ID)
	}
	return &student, nil
}

func (r *RedisStudentRepository) releaseEmail(ctx context.Context, email, id string) {
	if err := releaseEmailScript.Run(ctx, r.client, []string{r.emailKey(email)}, id).Err(); err != nil {
		r.logger.Warn("release email claim failed", zap.String("email", email), zap.Error(err))
	}
}

// Delete removes the document and its index entry. The email claim is released only if
// student.ID still holds it, so a stale copy cannot free an email another record owns.
func (r *RedisStudentRepository) Delete(ctx context.Context, student models.Student) error {
	keys := []string{r.documentKey(student.ID), r.emailKey(student.Email), r.indexKey()}
	removed, err := deleteStudentScript.Run(ctx, r.client, keys, student.ID).Int64()
	if err != nil {
		return fmt.Errorf("redis delete student %s: %w", student.ID, err)
	}
	if removed == 0 {
		return fmt.Errorf("delete student %s: %w", student.ID, ErrNotFound)
	}
	return nil
}
