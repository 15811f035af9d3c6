package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/student-directory-api/internal/models"
)

func newRedisStudentRepo(t *testing.T) (*RedisStudentRepository, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStudentRepository(client, "test:", zap.NewNop()), srv
}

func TestRedisStudentRepositorySaveAndFind(t *testing.T) {
	repo, srv := newRedisStudentRepo(t)
	ctx := context.Background()

	saved, err := repo.Save(ctx, sampleStudent())
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	owner, err := srv.Get("test:student:email:maria@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, owner)

	found, err := repo.FindByEmail(ctx, "maria@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, found.ID)
	assert.Equal(t, saved.Address, found.Address)
	assert.True(t, saved.CreatedAt.Equal(found.CreatedAt))

	_, err = repo.FindByEmail(ctx, "MARIA@gmail.com")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRedisStudentRepositoryRejectsDuplicateEmail(t *testing.T) {
	repo, _ := newRedisStudentRepo(t)
	ctx := context.Background()

	_, err := repo.Save(ctx, sampleStudent())
	require.NoError(t, err)

	_, err = repo.Save(ctx, sampleStudent())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateEmail))

	students, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

func TestRedisStudentRepositoryUpdateKeepsCreatedAt(t *testing.T) {
	repo, _ := newRedisStudentRepo(t)
	ctx := context.Background()

	saved, err := repo.Save(ctx, sampleStudent())
	require.NoError(t, err)

	changed := *saved
	changed.Specialization = models.SpecializationEEE
	changed.CreatedAt = saved.CreatedAt.Add(-48 * time.Hour)
	updated, err := repo.Save(ctx, changed)
	require.NoError(t, err)
	assert.True(t, saved.CreatedAt.Equal(updated.CreatedAt))

	found, err := repo.FindByEmail(ctx, "maria@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, models.SpecializationEEE, found.Specialization)

	students, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

func TestRedisStudentRepositoryFindAllOrder(t *testing.T) {
	repo, _ := newRedisStudentRepo(t)
	ctx := context.Background()

	empty, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	later := sampleStudent()
	later.Email = "omar@gmail.com"
	later.CreatedAt = base.Add(time.Minute)
	_, err = repo.Save(ctx, later)
	require.NoError(t, err)
	earlier := sampleStudent()
	earlier.CreatedAt = base
	_, err = repo.Save(ctx, earlier)
	require.NoError(t, err)

	students, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "maria@gmail.com", students[0].Email)
	assert.Equal(t, "omar@gmail.com", students[1].Email)
}

func TestRedisStudentRepositoryDelete(t *testing.T) {
	repo, srv := newRedisStudentRepo(t)
	ctx := context.Background()

	saved, err := repo.Save(ctx, sampleStudent())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, *saved))
	assert.False(t, srv.Exists("test:student:email:maria@gmail.com"))
	assert.False(t, srv.Exists("test:student:"+saved.ID))

	_, err = repo.FindByEmail(ctx, "maria@gmail.com")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = repo.Delete(ctx, *saved)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = repo.Save(ctx, sampleStudent())
	assert.NoError(t, err)
}

func TestRedisStudentRepositoryStaleDeleteKeepsNewOwner(t *testing.T) {
	repo, srv := newRedisStudentRepo(t)
	ctx := context.Background()

	stale, err := repo.Save(ctx, sampleStudent())
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, *stale))

	current, err := repo.Save(ctx, sampleStudent())
	require.NoError(t, err)

	err = repo.Delete(ctx, *stale)
	assert.True(t, errors.Is(err, ErrNotFound))

	owner, err := srv.Get("test:student:email:maria@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, current.ID, owner)

	found, err := repo.FindByEmail(ctx, "maria@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, current.ID, found.ID)

	_, err = repo.Save(ctx, sampleStudent())
	assert.True(t, errors.Is(err, ErrDuplicateEmail))

	students, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

func TestRedisStudentRepositoryEmailChangeMovesClaim(t *testing.T) {
	repo, srv := newRedisStudentRepo(t)
	ctx := context.Background()

	saved, err := repo.Save(ctx, sampleStudent())
	require.NoError(t, err)

	moved := *saved
	moved.Email = "maria.new@gmail.com"
	_, err = repo.Save(ctx, moved)
	require.NoError(t, err)

	assert.False(t, srv.Exists("test:student:email:maria@gmail.com"))
	owner, err := srv.Get("test:student:email:maria.new@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, owner)
}

func TestRedisStudentRepositoryOrdersCloseInserts(t *testing.T) {
	repo, _ := newRedisStudentRepo(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	emails := []string{"a@gmail.com", "b@gmail.com", "c@gmail.com"}
	for i := len(emails) - 1; i >= 0; i-- {
		student := sampleStudent()
		student.Email = emails[i]
		student.CreatedAt = base.Add(time.Duration(i) * time.Microsecond)
		_, err := repo.Save(ctx, student)
		require.NoError(t, err)
	}

	students, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, students, 3)
	for i, email := range emails {
		assert.Equal(t, email, students[i].Email)
	}
}
