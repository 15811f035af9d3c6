package models

import (
	"fmt"
	"strings"
	"time"
)

// Gender enumerates the accepted gender values of a student.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// Valid reports whether g is a known gender.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Specialization enumerates the academic tracks a student can follow.
type Specialization string

const (
	SpecializationCSE  Specialization = "CSE"
	SpecializationEEE  Specialization = "EEE"
	SpecializationME   Specialization = "ME"
	SpecializationCE   Specialization = "CE"
	SpecializationARCH Specialization = "ARCH"
)

// Specializations lists every accepted specialization in declaration order.
var Specializations = []Specialization{
	SpecializationCSE,
	SpecializationEEE,
	SpecializationME,
	SpecializationCE,
	SpecializationARCH,
}

// Valid reports whether s is a known specialization.
func (s Specialization) Valid() bool {
	for _, known := range Specializations {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSpecialization converts a raw value into a Specialization. Matching is exact.
func ParseSpecialization(raw string) (Specialization, error) {
	s := Specialization(strings.TrimSpace(raw))
	if !s.Valid() {
		return "", fmt.Errorf("unknown specialization %q", raw)
	}
	return s, nil
}

// Address is the postal address embedded in a student record.
type Address struct {
	Country  string `json:"country"`
	City     string `json:"city"`
	PostCode string `json:"post_code"`
}

// Student is a single enrollee in the directory. Email is the business key.
type Student struct {
	ID             string         `json:"id"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	Email          string         `json:"email"`
	Gender         Gender         `json:"gender"`
	Address        Address        `json:"address"`
	Specialization Specialization `json:"specialization"`
	CreatedAt      time.Time      `json:"created_at"`
}
