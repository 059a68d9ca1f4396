package handler

import (
    "errors"
    "fmt"
    "reflect"
    "strings"

    "github.com/go-playground/validator/v10"
)

// RequestValidator adapts go-playground/validator to echo.Validator so
// handlers can call c.Validate on bound request structs.
type RequestValidator struct {
    v *validator.Validate
}

// NewRequestValidator returns a validator that reports fields by their
// json names.
func NewRequestValidator() *RequestValidator {
    v := validator.New(validator.WithRequiredStructEnabled())
    v.RegisterTagNameFunc(func(f reflect.StructField) string { // report json names, not Go names
        name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
        if name == "-" {
            return ""
        }
        return name
    })
    return &RequestValidator{v: v}
}

// Validate implements echo.Validator.
func (rv *RequestValidator) Validate(i any) error {
    err := rv.v.Struct(i)
    if err == nil {
        return nil
    }
    var verrs validator.ValidationErrors
    if !errors.As(err, &verrs) {
        return err
    }
    msgs := make([]string, 0, len(verrs))
    for _, fe := range verrs {
        msgs = append(msgs, describe(fe))
    }
    return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
    switch fe.Tag() {
    case "required":
        return fe.Field() + " is required"
    case "email":
        return fe.Field() + " must be a valid email"
    case "max":
        return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
    case "datetime":
        return fe.Field() + " must be a date in YYYY-MM-DD format"
    }
    return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
