package dto

import (
	"strings"

	"github.com/noah-isme/student-directory-api/internal/models"
)

// AddressPayload is the address block of CreateStudentRequest.
type AddressPayload struct {
	Country  string `json:"country" validate:"required,min=2,max=100"`
	City     string `json:"city" validate:"required,min=2,max=100"`
	PostCode string `json:"post_code" validate:"required,postcode"`
}

// CreateStudentRequest is the payload accepted by POST /students.
type CreateStudentRequest struct {
	FirstName      string          `json:"first_name" validate:"required,min=2,max=50"`
	LastName       string          `json:"last_name" validate:"required,min=2,max=50"`
	Email          string          `json:"email" validate:"required,email"`
	Gender         string          `json:"gender" validate:"required,oneof=MALE FEMALE OTHER"`
	Address        *AddressPayload `json:"address" validate:"required"`
	Specialization string          `json:"specialization" validate:"required,specialization"`
}

// Normalize trims surrounding whitespace from every text field. Call it before validation so
// length rules apply to the values that get stored.
func (r *CreateStudentRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.Gender = strings.TrimSpace(r.Gender)
	r.Specialization = strings.TrimSpace(r.Specialization)
	if r.Address != nil {
		r.Address.Country = strings.TrimSpace(r.Address.Country)
		r.Address.City = strings.TrimSpace(r.Address.City)
		r.Address.PostCode = strings.TrimSpace(r.Address.PostCode)
	}
}

// ToModel converts a normalized, validated request into a candidate record.
func (r CreateStudentRequest) ToModel() models.Student {
	student := models.Student{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		Gender:         models.Gender(r.Gender),
		Specialization: models.Specialization(r.Specialization),
	}
	if r.Address != nil {
		student.Address = models.Address{
			Country:  r.Address.Country,
			City:     r.Address.City,
			PostCode: r.Address.PostCode,
		}
	}
	return student
}

// UpdateSpecializationRequest is the payload accepted by PATCH /students/{email}/specialization.
type UpdateSpecializationRequest struct {
	Specialization string `json:"specialization" validate:"required"`
}
