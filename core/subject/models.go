package subject

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/elimuhub/elimu/core"
)

// Subject is a top-level course container; weeks live under its key namespace.
type Subject struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"` // UTC
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Description = core.CleanString(ns.Description)
	return validate.Struct(ns)
}
