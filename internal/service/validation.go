package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	ReasonRequired = "all fields are required"
	ReasonNegative = "price and quantity must not be negative"
)

// newProduct mirrors ProductInput with create rules. "required" rejects zero
// values, so 0 and "" count as missing.
type newProduct struct {
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"required,gte=0"`
	Description string  `json:"description" validate:"required"`
	Quantity    int     `json:"quantity" validate:"required,gte=0"`
	Unit        string  `json:"unit" validate:"required"`
}

type productPatch struct {
	Price    float64 `json:"price" validate:"omitempty,gte=0"`
	Quantity int     `json:"quantity" validate:"omitempty,gte=0"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	required := &InvalidInputError{Reason: ReasonRequired}
	negative := &InvalidInputError{Reason: ReasonNegative}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			required.Fields = append(required.Fields, fe.Field())
		} else {
			negative.Fields = append(negative.Fields, fe.Field())
		}
	}
	if len(required.Fields) > 0 {
		return required
	}
	return negative
}
