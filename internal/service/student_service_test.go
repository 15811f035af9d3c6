package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/student-directory-api/internal/models"
	"github.com/noah-isme/student-directory-api/internal/repository"
	appErrors "github.com/noah-isme/student-directory-api/pkg/errors"
)

type mockStudentStore struct {
	students map[string]models.Student
	order    []string
	nextID   int
	saves    int
	deletes  int
	saveErr  error
	findErr  error
	// rejectEmail simulates a store unique index firing after the existence check passed.
	rejectEmail string
}

func newMockStudentStore() *mockStudentStore {
	return &mockStudentStore{students: make(map[string]models.Student)}
}

func (m *mockStudentStore) FindAll(ctx context.Context) ([]models.Student, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	out := make([]models.Student, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.students[id])
	}
	return out, nil
}

func (m *mockStudentStore) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, s := range m.students {
		if s.Email == email {
			found := s
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockStudentStore) Save(ctx context.Context, student models.Student) (*models.Student, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	if m.rejectEmail != "" && student.Email == m.rejectEmail {
		return nil, fmt.Errorf("save: %w", repository.ErrDuplicateEmail)
	}
	m.saves++
	if student.ID == "" {
		m.nextID++
		student.ID = fmt.Sprintf("id-%d", m.nextID)
		m.order = append(m.order, student.ID)
	}
	m.students[student.ID] = student
	return &student, nil
}

func (m *mockStudentStore) Delete(ctx context.Context, student models.Student) error {
	if _, ok := m.students[student.ID]; !ok {
		return repository.ErrNotFound
	}
	m.deletes++
	delete(m.students, student.ID)
	for i, id := range m.order {
		if id == student.ID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func mariaCandidate() models.Student {
	return models.Student{
		FirstName:      "Maria",
		LastName:       "Sammour",
		Email:          "maria@gmail.com",
		Gender:         models.GenderFemale,
		Address:        models.Address{Country: "palestine", City: "hebron", PostCode: "12345"},
		Specialization: models.SpecializationCSE,
	}
}

func TestStudentServiceListAllEmpty(t *testing.T) {
	svc := NewStudentService(newMockStudentStore(), zap.NewNop())

	students, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}

func TestStudentServiceCreate(t *testing.T) {
	store := newMockStudentStore()
	svc := NewStudentService(store, zap.NewNop())
	start := time.Now().UTC()

	candidate := mariaCandidate()
	candidate.ID = "client-supplied"
	created, err := svc.Create(context.Background(), candidate)
	require.NoError(t, err)
	assert.Equal(t, "id-1", created.ID)
	assert.False(t, created.CreatedAt.Before(start))
	assert.Equal(t, "maria@gmail.com", created.Email)

	fetched, err := svc.GetByEmail(context.Background(), "maria@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, *created, *fetched)

	students, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

func TestStudentServiceCreateDuplicate(t *testing.T) {
	store := newMockStudentStore()
	svc := NewStudentService(store, zap.NewNop())

	original, err := svc.Create(context.Background(), mariaCandidate())
	require.NoError(t, err)

	again := mariaCandidate()
	again.FirstName = "Other"
	_, err = svc.Create(context.Background(), again)
	require.Error(t, err)

	var conflict *EmailConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "maria@gmail.com", conflict.Email)
	assert.True(t, errors.Is(err, appErrors.ErrEmailInUse))
	assert.Equal(t, 409, appErrors.FromError(err).Status)

	assert.Equal(t, 1, store.saves)
	assert.Len(t, store.students, 1)
	assert.Equal(t, *original, store.students[original.ID])
}

func TestStudentServiceCreateStoreRejectsDuplicate(t *testing.T) {
	store := newMockStudentStore()
	store.rejectEmail = "maria@gmail.com"
	svc := NewStudentService(store, zap.NewNop())

	_, err := svc.Create(context.Background(), mariaCandidate())
	var conflict *EmailConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "maria@gmail.com", conflict.Email)
	assert.Empty(t, store.students)
}

func TestStudentServiceMissingEmail(t *testing.T) {
	store := newMockStudentStore()
	svc := NewStudentService(store, zap.NewNop())
	ctx := context.Background()

	_, err := svc.GetByEmail(ctx, "absent@x.com")
	assertNotFound(t, err, "absent@x.com")

	err = svc.DeleteByEmail(ctx, "absent@x.com")
	assertNotFound(t, err, "absent@x.com")

	_, err = svc.UpdateSpecialization(ctx, "absent@x.com", models.SpecializationEEE)
	assertNotFound(t, err, "absent@x.com")

	assert.Zero(t, store.saves)
	assert.Zero(t, store.deletes)
}

func assertNotFound(t *testing.T, err error, email string) {
	t.Helper()
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound), "expected NotFoundError, got %v", err)
	assert.Equal(t, email, notFound.Email)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestStudentServiceUpdateSpecialization(t *testing.T) {
	store := newMockStudentStore()
	svc := NewStudentService(store, zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, mariaCandidate())
	require.NoError(t, err)

	updated, err := svc.UpdateSpecialization(ctx, "maria@gmail.com", models.SpecializationEEE)
	require.NoError(t, err)
	assert.Equal(t, models.SpecializationEEE, updated.Specialization)
	assert.Equal(t, "maria@gmail.com", updated.Email)

	expected := *created
	expected.Specialization = models.SpecializationEEE
	assert.Equal(t, expected, *updated)
	assert.Len(t, store.students, 1)
}

func TestStudentServiceUpdateSpecializationRejectsUnknownValue(t *testing.T) {
	store := newMockStudentStore()
	svc := NewStudentService(store, zap.NewNop())
	_, err := svc.Create(context.Background(), mariaCandidate())
	require.NoError(t, err)

	_, err = svc.UpdateSpecialization(context.Background(), "maria@gmail.com", models.Specialization("MAGIC"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, 1, store.saves)

	_, err = svc.UpdateSpecialization(context.Background(), "absent@x.com", models.Specialization("MAGIC"))
	assertNotFound(t, err, "absent@x.com")
	assert.Equal(t, 1, store.saves)
}

func TestStudentServiceDeleteByEmail(t *testing.T) {
	store := newMockStudentStore()
	svc := NewStudentService(store, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, mariaCandidate())
	require.NoError(t, err)
	other := mariaCandidate()
	other.Email = "sara@gmail.com"
	_, err = svc.Create(ctx, other)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByEmail(ctx, "maria@gmail.com"))
	assert.Equal(t, 1, store.deletes)
	assert.Len(t, store.students, 1)

	_, err = svc.GetByEmail(ctx, "maria@gmail.com")
	assertNotFound(t, err, "maria@gmail.com")

	err = svc.DeleteByEmail(ctx, "maria@gmail.com")
	assertNotFound(t, err, "maria@gmail.com")
}

func TestStudentServiceStoreFailure(t *testing.T) {
	store := newMockStudentStore()
	store.findErr = errors.New("connection refused")
	svc := NewStudentService(store, zap.NewNop())

	_, err := svc.GetByEmail(context.Background(), "maria@gmail.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInternal))

	_, err = svc.ListAll(context.Background())
	assert.True(t, errors.Is(err, appErrors.ErrInternal))

	_, err = svc.Create(context.Background(), mariaCandidate())
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
	assert.Zero(t, store.saves)
}
