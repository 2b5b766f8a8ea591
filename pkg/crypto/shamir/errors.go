package shamir

import (
	"errors"

	"github.com/Davincible/fieldshare/pkg/crypto/field"
	"github.com/Davincible/fieldshare/pkg/crypto/polynomial"
)

var (
	// ErrInvalidParameters covers share counts and thresholds that cannot
	// form a scheme: K > N, K < 2, or more shares than non-zero field elements.
	ErrInvalidParameters = errors.New("invalid sharing parameters")
	// ErrDuplicateXCoordinate is returned when two shares carry the same x.
	ErrDuplicateXCoordinate = errors.New("duplicate x-coordinate")
	// ErrEmptyShareSet is returned when reconstruction receives no shares.
	ErrEmptyShareSet = errors.New("empty share set")
	// ErrInvalidShare is returned for shares with x = 0, missing coordinates,
	// or coordinates outside the field.
	ErrInvalidShare = errors.New("invalid share")
)

// Re-exported so callers can match every failure through this package.
var (
	ErrInvalidThreshold = polynomial.ErrInvalidThreshold
	ErrInvalidModulus   = field.ErrInvalidModulus
	ErrDivisionByZero   = field.ErrDivisionByZero
)
