package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/student-directory-api/internal/models"
)

// MemoryStudentRepository keeps students in process memory. It is safe for concurrent use
// and enforces email uniqueness under its lock.
type MemoryStudentRepository struct {
	mu       sync.RWMutex
	students map[string]models.Student
	emails   map[string]string
	order    []string
}

// NewMemoryStudentRepository constructs an empty in-memory store.
func NewMemoryStudentRepository() *MemoryStudentRepository {
	return &MemoryStudentRepository{
		students: make(map[string]models.Student),
		emails:   make(map[string]string),
	}
}

// FindAll returns every student in insertion order.
func (r *MemoryStudentRepository) FindAll(ctx context.Context) ([]models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	students := make([]models.Student, 0, len(r.order))
	for _, id := range r.order {
		students = append(students, r.students[id])
	}
	return students, nil
}

// FindByEmail returns the student owning email or ErrNotFound.
func (r *MemoryStudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.emails[email]
	if !ok {
		return nil, fmt.Errorf("find student by email: %w", ErrNotFound)
	}
	student := r.students[id]
	return &student, nil
}

// Save inserts or replaces the student keyed by ID, assigning an ID when missing.
func (r *MemoryStudentRepository) Save(ctx context.Context, student models.Student) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if owner, taken := r.emails[student.Email]; taken && owner != student.ID {
		return nil, fmt.Errorf("save student: %w", ErrDuplicateEmail)
	}

	existing, found := r.students[student.ID]
	switch {
	case found:
		student.CreatedAt = existing.CreatedAt
		if existing.Email != student.Email {
			delete(r.emails, existing.Email)
		}
	case student.CreatedAt.IsZero():
		student.CreatedAt = time.Now().UTC()
	}
	if !found {
		r.order = append(r.order, student.ID)
	}
	r.students[student.ID] = student
	r.emails[student.Email] = student.ID
	return &student, nil
}

// Delete removes the student identified by student.ID.
func (r *MemoryStudentRepository) Delete(ctx context.Context, student models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, found := r.students[student.ID]
	if !found {
		return fmt.Errorf("delete student %s: %w", student.ID, ErrNotFound)
	}
	delete(r.students, student.ID)
	delete(r.emails, existing.Email)
	for i, id := range r.order {
		if id == student.ID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
