package classifier

import (
	"errors"

	"fjacquet/mood-journal/internal/models"
)

// Outcome is the result of a Strategy: either a populated EmotionResult or the
// reason no result is available. The zero value is unavailable.
type Outcome struct {
	result    models.EmotionResult
	available bool
	err       error
}

// Available wraps a populated result.
func Available(result models.EmotionResult) Outcome {
	return Outcome{result: result, available: true}
}

// Unavailable marks an outcome as having no result. A nil reason is recorded
// as ErrNoResult.
func Unavailable(reason error) Outcome {
	if reason == nil {
		reason = ErrNoResult
	}
	return Outcome{err: reason}
}

// Result returns the emotion result and whether one is present.
func (o Outcome) Result() (models.EmotionResult, bool) {
	return o.result, o.available
}

// Err returns why the outcome is unavailable, or nil when it holds a result.
func (o Outcome) Err() error {
	if o.available {
		return nil
	}
	if o.err == nil {
		return ErrNoResult
	}
	return o.err
}

// Disabled reports whether the outcome is unavailable only because the
// strategy is switched off.
func (o Outcome) Disabled() bool {
	return !o.available && errors.Is(o.err, ErrRemoteDisabled)
}
