package service

import (
	"context"
	"errors"
	"time"

	"github.com/noah-isme/student-directory-api/internal/models"
	"github.com/noah-isme/student-directory-api/internal/repository"
)

// InstrumentedStudentStore times every call to the wrapped store.
type InstrumentedStudentStore struct {
	next    StudentStore
	metrics *MetricsService
}

// NewInstrumentedStudentStore wraps next. A nil metrics service returns next unchanged.
func NewInstrumentedStudentStore(next StudentStore, metrics *MetricsService) StudentStore {
	if metrics == nil {
		return next
	}
	return &InstrumentedStudentStore{next: next, metrics: metrics}
}

func (s *InstrumentedStudentStore) observe(label string, start time.Time, err error) {
	failed := err != nil && !errors.Is(err, repository.ErrNotFound) && !errors.Is(err, repository.ErrDuplicateEmail)
	s.metrics.ObserveStoreOperation(label, time.Since(start), failed)
}

// FindAll delegates to the wrapped store.
func (s *InstrumentedStudentStore) FindAll(ctx context.Context) ([]models.Student, error) {
	start := time.Now()
	students, err := s.next.FindAll(ctx)
	s.observe("students.find_all", start, err)
	return students, err
}

// FindByEmail delegates to the wrapped store.
func (s *InstrumentedStudentStore) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	start := time.Now()
	student, err := s.next.FindByEmail(ctx, email)
	s.observe("students.find_by_email", start, err)
	return student, err
}

// Save delegates to the wrapped store.
func (s *InstrumentedStudentStore) Save(ctx context.Context, student models.Student) (*models.Student, error) {
	start := time.Now()
	saved, err := s.next.Save(ctx, student)
	s.observe("students.save", start, err)
	return saved, err
}

// Delete delegates to the wrapped store.
func (s *InstrumentedStudentStore) Delete(ctx context.Context, student models.Student) error {
	start := time.Now()
	err := s.next.Delete(ctx, student)
	s.observe("students.delete", start, err)
	return err
}
