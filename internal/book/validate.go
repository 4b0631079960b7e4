package book

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MsgMissingID         = "Required field id is missing."
	MsgNonNumericID      = "Non-numeric id was entered."
	MsgMissingTitle      = "Required field Title is missing."
	MsgMissingAuthor     = "Required field Author is missing."
	MsgInvalidPages      = "Required field Number Of Pages is invalid."
	MsgMissingPages      = "Required field Number Of Pages is missing."
	MsgNonNumericYear    = "Non-numeric value entered for Year Published."
	maxExactFloatInteger = 1 << 53
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("numeric_value", validateNumericValue)
	validate.RegisterValidation("count", validateCount)
}

// parseNumber accepts the decimal notations a browser form may submit.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func validateNumericValue(fl validator.FieldLevel) bool {
	_, ok := parseNumber(fl.Field().String())
	return ok
}

// validateCount requires a number whose integer part is not zero and fits
// an int exactly.
func validateCount(fl validator.FieldLevel) bool {
	v, ok := parseNumber(fl.Field().String())
	return ok && math.Trunc(v) != 0 && math.Abs(v) <= maxExactFloatInteger
}

// ValidationError is a client input error reported before any store call.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Form is a write request as submitted, before coercion. Fields are checked
// in declaration order and the first failure wins.
type Form struct {
	ID            string `validate:"omitempty,numeric_value"`
	Title         string `validate:"required"`
	Author        string `validate:"required"`
	NumberOfPages string `validate:"required,count"`
	Publisher     string
	YearPublished string `validate:"omitempty,count"`
	Description   string
	Read          bool
}

var formMessages = map[string]string{
	"ID.numeric_value":       MsgNonNumericID,
	"Title.required":         MsgMissingTitle,
	"Author.required":        MsgMissingAuthor,
	"NumberOfPages.required": MsgMissingPages,
	"NumberOfPages.count":    MsgInvalidPages,
	"YearPublished.count":    MsgNonNumericYear,
}

// ValidateForm returns a *ValidationError for the first invalid field.
func ValidateForm(f Form) error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	first := fieldErrs[0]
	message, ok := formMessages[first.Field()+"."+first.Tag()]
	if !ok {
		message = first.Field() + " is invalid"
	}
	return &ValidationError{Field: first.Field(), Message: message}
}

// Fields coerces a validated form into column values. Blank optional
// values become null.
func (f Form) Fields() Fields {
	fields := Fields{
		Title:         f.Title,
		Author:        f.Author,
		NumberOfPages: toInt(f.NumberOfPages),
		Read:          f.Read,
	}
	if f.Publisher != "" {
		publisher := f.Publisher
		fields.Publisher = &publisher
	}
	if f.YearPublished != "" {
		year := toInt(f.YearPublished)
		fields.YearPublished = &year
	}
	if f.Description != "" {
		description := f.Description
		fields.Description = &description
	}
	return fields
}

// ParseID validates a raw id from a query string, form body or path. A
// number that is not a whole int64, such as 5.9 or 1e3, names no record and
// yields ErrNotFound.
func ParseID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if err := validate.Var(raw, "required,numeric_value"); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 && fieldErrs[0].Tag() == "required" {
			return 0, &ValidationError{Field: "id", Message: MsgMissingID}
		}
		return 0, &ValidationError{Field: "id", Message: MsgNonNumericID}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrNotFound
	}
	return id, nil
}

func toInt(s string) int {
	v, _ := parseNumber(s)
	return int(v)
}
