package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/student-directory-api/internal/models"
	"github.com/noah-isme/student-directory-api/internal/repository"
	appErrors "github.com/noah-isme/student-directory-api/pkg/errors"
)

// StudentStore is the persistence contract consumed by StudentService.
// FindByEmail and Delete report misses with repository.ErrNotFound; Save reports an
// email held by another record with repository.ErrDuplicateEmail.
type StudentStore interface {
	FindAll(ctx context.Context) ([]models.Student, error)
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	Save(ctx context.Context, student models.Student) (*models.Student, error)
	Delete(ctx context.Context, student models.Student) error
}

// StudentService owns the email uniqueness rule and is the only write path to the store.
// It keeps no mutable state and may be shared between goroutines.
//
// Create checks for an existing email and then writes. The two steps are not atomic; every
// StudentStore in this module rejects a duplicate email on Save, and that rejection is
// reported as EmailConflictError.
type StudentService struct {
	store  StudentStore
	logger *zap.Logger
	now    func() time.Time
}

// NewStudentService constructs the student service.
func NewStudentService(store StudentStore, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{store: store, logger: logger, now: time.Now}
}

// ListAll returns every student in store order.
func (s *StudentService) ListAll(ctx context.Context) ([]models.Student, error) {
	s.logger.Info("listing students")
	students, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, nil
}

// GetByEmail returns the student owning email.
func (s *StudentService) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	s.logger.Info("fetching student", zap.String("email", email))
	return s.find(ctx, email, "fetch")
}

// DeleteByEmail removes the student owning email.
func (s *StudentService) DeleteByEmail(ctx context.Context, email string) error {
	s.logger.Info("deleting student", zap.String("email", email))
	student, err := s.find(ctx, email, "delete")
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, *student); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("student vanished before delete", zap.String("email", email))
			return &NotFoundError{Email: email}
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.logger.Info("student deleted", zap.String("email", email))
	return nil
}

// UpdateSpecialization replaces the specialization of the student owning email. No other
// field is touched. A missing student is reported before an unknown specialization.
func (s *StudentService) UpdateSpecialization(ctx context.Context, email string, specialization models.Specialization) (*models.Student, error) {
	s.logger.Info("updating specialization", zap.String("email", email), zap.String("specialization", string(specialization)))
	student, err := s.find(ctx, email, "update")
	if err != nil {
		return nil, err
	}
	if !specialization.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid specialization provided")
	}
	student.Specialization = specialization
	updated, err := s.store.Save(ctx, *student)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	s.logger.Info("specialization updated", zap.String("email", email))
	return updated, nil
}

// Create stores a new student. ID and CreatedAt on the candidate are ignored.
func (s *StudentService) Create(ctx context.Context, candidate models.Student) (*models.Student, error) {
	email := candidate.Email
	s.logger.Info("creating student", zap.String("email", email))

	_, err := s.store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		s.logger.Warn("email already in use", zap.String("email", email))
		return nil, &EmailConflictError{Email: email}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}

	candidate.ID = ""
	candidate.CreatedAt = s.now().UTC()
	created, err := s.store.Save(ctx, candidate)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.logger.Warn("email claimed concurrently", zap.String("email", email))
			return nil, &EmailConflictError{Email: email}
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.logger.Info("student created", zap.String("email", email), zap.String("id", created.ID))
	return created, nil
}

func (s *StudentService) find(ctx context.Context, email, action string) (*models.Student, error) {
	student, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("student not found", zap.String("email", email), zap.String("action", action))
			return nil, &NotFoundError{Email: email}
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}
