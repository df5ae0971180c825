// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package validate runs validator/v10 rules and reports them as field-level
// input errors.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var engine = newEngine()

func newEngine() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "digits", digits)
	mustRegister(v, "maxbytes", maxBytes)
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validate: register %s: %v", tag, err))
	}
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// digits accepts exactly param ASCII digits.
func digits(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	value := fl.Field().String()
	return len(value) == n && strings.Trim(value, "0123456789") == ""
}

// maxBytes bounds the encoded length, not the rune count.
func maxBytes(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= n
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error collects every rejected field of a request.
type Error struct {
	Errors []FieldError
}

func (e *Error) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	return e.Errors[0].Message
}

// Fields returns the first message per field.
func (e *Error) Fields() map[string]string {
	fields := make(map[string]string, len(e.Errors))
	for _, fe := range e.Errors {
		if _, ok := fields[fe.Field]; !ok {
			fields[fe.Field] = fe.Message
		}
	}
	return fields
}

// Struct checks the validate tags of s. Fields are named by their json tag.
func Struct(s any) error {
	err := engine.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	v := &Validator{}
	for _, fe := range verrs {
		v.Add(fe.Field(), message(fe.Field(), fe))
	}
	return v.Err()
}

// Echo plugs the rules into echo.Echo.Validator.
type Echo struct{}

func (Echo) Validate(i any) error {
	return Struct(i)
}

// Validator accumulates field errors. The zero value is ready to use.
type Validator struct {
	errs []FieldError
}

func (v *Validator) Add(field, message string) {
	v.errs = append(v.errs, FieldError{Field: field, Message: message})
}

// Check runs a validator tag against a single value.
func (v *Validator) Check(field string, value any, tag string) bool {
	err := engine.Var(value, tag)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		v.Add(field, field+" is invalid")
		return false
	}
	for _, fe := range verrs {
		v.Add(field, message(field, fe))
	}
	return false
}

// Err returns an *Error when any field was rejected.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return &Error{Errors: v.errs}
}

func message(field string, fe validator.FieldError) string {
	label := strings.ReplaceAll(field, "_", " ")
	switch fe.Tag() {
	case "required", "notblank":
		return label + " is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must contain at least %s entries", label, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes", label, fe.Param())
	case "digits":
		return fmt.Sprintf("%s must be %s digits", label, fe.Param())
	case "gte":
		if fe.Param() == "0" {
			return label + " must not be negative"
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	}
	return label + " is invalid"
}
