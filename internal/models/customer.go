package models

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Customer represents a customer record in the system
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

// CustomerDraft holds the fields required to create a customer
type CustomerDraft struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
	Age   int    `json:"age" validate:"required,min=1,max=120"`
}

// CustomerPatch holds a partial update; nil fields are left unchanged
type CustomerPatch struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Age   *int    `json:"age,omitempty" validate:"omitempty,min=1,max=120"`
}

var validate = validator.New()

// Validate checks the draft against its field rules
func (d *CustomerDraft) Validate() error {
	if err := validate.Struct(d); err != nil {
		return ErrInvalidInput(validationMessage(err))
	}
	return nil
}

// Validate checks only the fields that are present in the patch
func (p *CustomerPatch) Validate() error {
	if err := validate.Struct(p); err != nil {
		return ErrInvalidInput(validationMessage(err))
	}
	return nil
}

// Empty reports whether the patch carries no changes
func (p *CustomerPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Age == nil
}

// Apply copies the set fields of the patch onto the customer
func (p *CustomerPatch) Apply(c *Customer) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Age != nil {
		c.Age = *p.Age
	}
}

// validationMessage flattens validator errors into one human-readable message
func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "email":
			parts = append(parts, field+" must be a valid email address")
		case "min", "max":
			parts = append(parts, field+" is out of range")
		default:
			parts = append(parts, field+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}
