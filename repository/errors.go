package repository

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound          = errors.New("document not found")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrConflict means a conditional write found the document in a different state.
	ErrConflict = errors.New("concurrent modification")
)

// mapError translates driver errors into repository sentinels.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	default:
		return err
	}
}
