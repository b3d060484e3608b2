package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrDuplicateName   = errors.New("product with this name already exists")
	ErrProductNotFound = errors.New("product not found")
	ErrZeroQuantity    = errors.New("product is out of stock and cannot be deleted")
	ErrEmptyInventory  = errors.New("no products to report on")
	// ErrStoreAnomaly marks a document that vanished between the existence
	// check and the mutation.
	ErrStoreAnomaly = errors.New("store reported no affected documents")
)

// InvalidInputError lists the request fields that failed validation.
type InvalidInputError struct {
	Fields []string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s (%s)", e.Reason, strings.Join(e.Fields, ", "))
}

// Is lets errors.Is match any InvalidInputError against ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}
