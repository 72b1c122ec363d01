package journal

import (
	"errors"
	"fmt"

	"fjacquet/mood-journal/internal/models"
)

// ErrEmptyEntry is returned when the submitted text is empty or whitespace.
var ErrEmptyEntry = errors.New("journal entry is empty")

// PersistenceError reports that an entry was classified but could not be
// stored. Result holds the classification that was already produced.
type PersistenceError struct {
	Result models.EmotionResult
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save journal entry (classified as %s): %v", e.Result.Label, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
