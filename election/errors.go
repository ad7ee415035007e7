package election

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrLaterChoicesOverflow means a ballot carried more later choices than
	// MaxLaterChoices.
	ErrLaterChoicesOverflow = errors.New("later choices exceed the ranking length")
	// ErrUnknownCandidate means a ballot referenced a candidate outside the
	// roster it was analyzed with.
	ErrUnknownCandidate = errors.New("ballot references a candidate outside the roster")
)

// MissingEntryError is returned when the pairwise matrix has no entry for
// an ordered pair. The candidate list and the matrix disagree.
type MissingEntryError struct {
	A, B string
}

func (e *MissingEntryError) Error() string {
	return fmt.Sprintf("matrix has no entry for (%s, %s)", e.A, e.B)
}

// IsIntegrityError reports whether err means the roster and the ballot set
// are mutually inconsistent.
func IsIntegrityError(err error) bool {
	var missing *MissingEntryError
	if errors.As(err, &missing) {
		return true
	}
	return errors.Is(err, ErrLaterChoicesOverflow) || errors.Is(err, ErrUnknownCandidate)
}
