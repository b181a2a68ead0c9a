package services

import (
	"errors"
	"fmt"

	"github.com/meinhoongagan/careforme-admin/store"
)

var (
	// ErrValidation wraps every input error; no store call is made.
	ErrValidation = errors.New("validation failed")
	// ErrBusy is returned while another write to the same doctor is running.
	ErrBusy = errors.New("another change to this doctor is in progress")
	// ErrNotFound is the store's not-found error.
	ErrNotFound = store.ErrNotFound
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
