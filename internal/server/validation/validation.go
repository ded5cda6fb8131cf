// Package validation checks that directory payloads carry every required
// field before anything is written to the store.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/astdirectory/internal/common"
	"github.com/dmitrijs2005/astdirectory/internal/server/models"
)

// FieldError names one missing or empty field by its JSON path, e.g. "contact.phone".
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
}

// Error is returned for a rejected payload. It embeds the payload so the
// caller can see exactly what was submitted.
type Error struct {
	Action  string
	Entity  string
	Payload string
	Fields  []FieldError
}

func (e *Error) Error() string {
	missing := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		missing = append(missing, f.Field)
	}
	msg := fmt.Sprintf("unable to %s %s invalid input where %s = %s", e.Action, e.Entity, e.Entity, e.Payload)
	if len(missing) > 0 {
		msg += " (missing: " + strings.Join(missing, ", ") + ")"
	}
	return msg
}

// Unwrap lets errors.Is(err, common.ErrorValidation) match.
func (e *Error) Unwrap() error { return common.ErrorValidation }

// Validator wraps the go-playground validator with JSON field naming.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Provider checks a provider payload before add or update.
func (v *Validator) Provider(action string, p *models.ProviderDetails) error {
	return v.check(action, "provider", p)
}

// Course checks a course payload before add or update.
func (v *Validator) Course(action string, c *models.CourseDetails) error {
	return v.check(action, "course", c)
}

// Instructor checks an instructor payload before it is merged into a provider.
func (v *Validator) Instructor(action string, i *models.Instructor) error {
	return v.check(action, "instructor", i)
}

// InstructorID checks an instructor id supplied by the caller. The id becomes
// one attribute name inside the instructors map, so path separators are
// rejected.
func (v *Validator) InstructorID(action, id string) error {
	err := v.validate.Var(id, "required,excludesall=.[]")
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("instructorid validation: %w", err)
	}

	out := &Error{Action: action, Entity: "instructor", Payload: encodePayload(map[string]string{"instructorid": id})}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, FieldError{Field: "instructorid", Tag: fe.Tag()})
	}
	return out
}

func (v *Validator) check(action, entity string, payload any) error {
	if reflect.ValueOf(payload).IsNil() {
		return &Error{Action: action, Entity: entity, Payload: "null"}
	}

	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%s validation: %w", entity, err)
	}

	out := &Error{Action: action, Entity: entity, Payload: encodePayload(payload)}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, FieldError{Field: fieldPath(fe), Tag: fe.Tag()})
	}
	return out
}

// fieldPath drops the root struct name from the namespace:
// "ProviderDetails.contact.phone" -> "contact.phone".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func encodePayload(payload any) string {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%+v", payload)
	}
	return string(b)
}
