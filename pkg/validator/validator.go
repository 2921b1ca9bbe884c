// ==============================================================================
// VALIDATOR PACKAGE - pkg/validator/validator.go
// ==============================================================================
package validator

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := &Validator{
		validate: validator.New(),
	}
	v.registerCustomValidations()
	return v
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		// Format validation errors
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			var errMessages []string
			for _, e := range validationErrors {
				errMessages = append(errMessages, fmt.Sprintf(
					"Field '%s' failed validation '%s'",
					e.Field(),
					e.Tag(),
				))
			}
			return fmt.Errorf("validation failed: %v", errMessages)
		}
		return err
	}
	return nil
}

func (v *Validator) registerCustomValidations() {
	// Register decimal.Decimal to be validated as float64 for gt/lt checks
	v.validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := val.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.validate.RegisterValidation("employment_type", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "salaried", "self_employed_professional", "self_employed_business", "retired", "student":
			return true
		}
		return false
	})

	_ = v.validate.RegisterValidation("loan_type", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "education", "home", "personal", "vehicle", "business", "gold":
			return true
		}
		return false
	})

	_ = v.validate.RegisterValidation("score_bucket", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "excellent", "good", "fair", "poor", "no_history":
			return true
		}
		return false
	})
}
