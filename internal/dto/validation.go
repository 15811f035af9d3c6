package dto

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/student-directory-api/internal/models"
)

var postCodePattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// NewValidator returns a validator with the student specific rules registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("postcode", func(fl validator.FieldLevel) bool {
		return postCodePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("specialization", func(fl validator.FieldLevel) bool {
		return models.Specialization(fl.Field().String()).Valid()
	})
	return v
}

var fieldLabels = map[string]string{
	"FirstName":      "First name",
	"LastName":       "Last name",
	"Email":          "Email",
	"Gender":         "Gender",
	"Address":        "Address",
	"Country":        "Country",
	"City":           "City",
	"PostCode":       "Postcode",
	"Specialization": "Specialization",
}

// FirstValidationMessage renders the first failing rule as a human readable sentence.
func FirstValidationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "invalid payload"
	}
	fe := verrs[0]
	label, ok := fieldLabels[fe.StructField()]
	if !ok {
		label = fe.StructField()
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min", "max":
		return fmt.Sprintf("%s must be between %s characters", label, lengthRange(fe.StructField()))
	case "email":
		return "Email should be valid"
	case "postcode":
		return "Postcode must be in the format 12345 or 12345-6789"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "specialization":
		return "Invalid specialization provided"
	}
	return fmt.Sprintf("%s is invalid", label)
}

func lengthRange(field string) string {
	if field == "FirstName" || field == "LastName" {
		return "2 and 50"
	}
	return "2 and 100"
}
