// Package bootstrap holds one-shot startup routines run by the process entry point.
package bootstrap

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/student-directory-api/internal/models"
	"github.com/noah-isme/student-directory-api/internal/service"
)

type studentCreator interface {
	Create(ctx context.Context, candidate models.Student) (*models.Student, error)
}

// SampleStudent is the record inserted on first startup.
func SampleStudent() models.Student {
	return models.Student{
		FirstName: "maria",
		LastName:  "abu sammour",
		Email:     "maria@gmail.com",
		Gender:    models.GenderFemale,
		Address: models.Address{
			Country:  "palestine",
			City:     "hebron",
			PostCode: "12345",
		},
		Specialization: models.SpecializationCSE,
	}
}

// SeedSampleStudent creates SampleStudent once. An email conflict means an earlier run
// already seeded it; that is logged and swallowed. Any other failure is returned so the
// caller can decide whether startup continues.
func SeedSampleStudent(ctx context.Context, students studentCreator, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	candidate := SampleStudent()
	created, err := students.Create(ctx, candidate)
	if err != nil {
		var conflict *service.EmailConflictError
		if errors.As(err, &conflict) {
			logger.Warn("sample student email already used", zap.String("email", conflict.Email))
			return nil
		}
		return err
	}
	logger.Info("sample student saved", zap.String("email", created.Email), zap.String("id", created.ID))
	return nil
}
