package service

import (
	"errors"
	"fmt"
)

// Error kinds. Callers match them with errors.Is; the wrapped message carries
// the detail. Validation-type kinds are detected before any side effect.
var (
	ErrValidation             = errors.New("validation failed")
	ErrInvalidProduct         = errors.New("invalid product id")
	ErrProductNotFound        = errors.New("product not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrOrderNotFound          = errors.New("order not found")
	ErrBannerNotFound         = errors.New("home banner not found")
	ErrObjectNotFound         = errors.New("object not found")
	ErrUnsupportedFileType    = errors.New("unsupported file type")
	ErrMalformedSpecification = errors.New("malformed order specification")
	ErrStorage                = errors.New("object storage failure")
	ErrPersistence            = errors.New("persistence failure")
)

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// RollbackError is returned when creating an order with files failed after
// the order was persisted. Err is the original failure; CleanedKeys lists the
// uploaded objects whose deletion was attempted, in the order attempted.
// The order record itself is kept, without attachment metadata.
type RollbackError struct {
	OrderID     string
	Err         error
	CleanedKeys []string
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("%v (order %s kept without files, %d uploaded objects cleaned up)", e.Err, e.OrderID, len(e.CleanedKeys))
}

func (e *RollbackError) Unwrap() error {
	return e.Err
}
