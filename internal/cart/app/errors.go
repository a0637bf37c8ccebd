package app

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicate       = errors.New("duplicate cart")
	ErrStoreFailure    = errors.New("store failure")
)

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

// storeErr keeps ErrNotFound visible and tags anything else as a store failure.
func storeErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s: cart %w", op, ErrNotFound)
	}
	return fmt.Errorf("%w: %s: %w", ErrStoreFailure, op, err)
}
