package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-directory-api/internal/models"
)

// studentRow is the flattened storage shape of models.Student.
type studentRow struct {
	ID              string    `db:"id"`
	FirstName       string    `db:"first_name"`
	LastName        string    `db:"last_name"`
	Email           string    `db:"email"`
	Gender          string    `db:"gender"`
	AddressCountry  string    `db:"address_country"`
	AddressCity     string    `db:"address_city"`
	AddressPostCode string    `db:"address_post_code"`
	Specialization  string    `db:"specialization"`
	CreatedAt       time.Time `db:"created_at"`
}

func newStudentRow(s models.Student) studentRow {
	return studentRow{
		ID:              s.ID,
		FirstName:       s.FirstName,
		LastName:        s.LastName,
		Email:           s.Email,
		Gender:          string(s.Gender),
		AddressCountry:  s.Address.Country,
		AddressCity:     s.Address.City,
		AddressPostCode: s.Address.PostCode,
		Specialization:  string(s.Specialization),
		CreatedAt:       s.CreatedAt,
	}
}

func (r studentRow) toModel() models.Student {
	return models.Student{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Gender:    models.Gender(r.Gender),
		Address: models.Address{
			Country:  r.AddressCountry,
			City:     r.AddressCity,
			PostCode: r.AddressPostCode,
		},
		Specialization: models.Specialization(r.Specialization),
		CreatedAt:      r.CreatedAt.UTC(),
	}
}

const studentColumns = `id, first_name, last_name, email, gender, address_country, address_city, address_post_code, specialization, created_at`

// StudentRepository persists students in PostgreSQL. The students_email_key
// unique index backs the email invariant.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindAll returns every stored student ordered by creation time.
func (r *StudentRepository) FindAll(ctx context.Context) ([]models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students ORDER BY created_at, id", studentColumns)
	var rows []studentRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	students := make([]models.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toModel())
	}
	return students, nil
}

// FindByEmail fetches the student owning email. It returns ErrNotFound on a miss.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE email = $1", studentColumns)
	var row studentRow
	if err := r.db.GetContext(ctx, &row, query, email); err != nil {
		return nil, fmt.Errorf("find student by email: %w", mapPostgresError(err))
	}
	student := row.toModel()
	return &student, nil
}

// Save inserts the student, assigning an ID when missing, or updates the row with the same ID.
// created_at is never rewritten by an update. CreatedAt is truncated to the column's
// microsecond precision so the returned record matches what a later read yields.
func (r *StudentRepository) Save(ctx context.Context, student models.Student) (*models.Student, error) {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if student.CreatedAt.IsZero() {
		student.CreatedAt = time.Now().UTC()
	}
	student.CreatedAt = student.CreatedAt.Truncate(time.Microsecond)
	const query = `INSERT INTO students (id, first_name, last_name, email, gender, address_country, address_city, address_post_code, specialization, created_at)
        VALUES (:id, :first_name, :last_name, :email, :gender, :address_country, :address_city, :address_post_code, :specialization, :created_at)
        ON CONFLICT (id) DO UPDATE SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name, email = EXCLUDED.email, gender = EXCLUDED.gender,
        address_country = EXCLUDED.address_country, address_city = EXCLUDED.address_city, address_post_code = EXCLUDED.address_post_code,
        specialization = EXCLUDED.specialization`
	if _, err := r.db.NamedExecContext(ctx, query, newStudentRow(student)); err != nil {
		return nil, fmt.Errorf("save student: %w", mapPostgresError(err))
	}
	return &student, nil
}

// Delete removes the student row identified by student.ID.
func (r *StudentRepository) Delete(ctx context.Context, student models.Student) error {
	const query = `DELETE FROM students WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, student.ID)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete student %s: %w", student.ID, ErrNotFound)
	}
	return nil
}
