package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"bookshelf/internal/errs"
)

const maxBodyBytes = 1 << 20

var isbnPattern = regexp.MustCompile(`^(978|979)\d{10}$`)

type requestValidator struct {
	v *validator.Validate
}

func newValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("bookisbn", func(fl validator.FieldLevel) bool {
		return isbnPattern.MatchString(fl.Field().String())
	})

	return &requestValidator{v: v}
}

// decode reads a single JSON value from the body into dst and validates it.
// Every failure comes back as an *errs.ValidationError keyed by JSON field
// name.
func (rv *requestValidator) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))

	err := dec.Decode(dst)
	if err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return errs.NewValidationError(typeErr.Field, "must be "+kindName(typeErr.Type.Kind()))
		}
		if errors.Is(err, io.EOF) {
			return errs.NewValidationError("body", "must not be empty")
		}
		return errs.NewValidationError("body", "malformed JSON")
	}

	if !errors.Is(dec.Decode(&struct{}{}), io.EOF) {
		return errs.NewValidationError("body", "malformed JSON")
	}

	return rv.validate(dst)
}

func kindName(k reflect.Kind) string {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Map, reflect.Struct:
		return "an object"
	default:
		return "of a different type"
	}
}

func (rv *requestValidator) validate(s any) error {
	err := rv.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = message(fe)
	}

	return &errs.ValidationError{Fields: fields}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	case "bookisbn":
		return "must be 13 digits starting with 978 or 979"
	default:
		return "is invalid"
	}
}
