// Package classifier turns journal entry text into an emotion label and a score
// distribution. A remote inference service is consulted first; when it is
// disabled or fails, a local keyword heuristic produces the result instead.
package classifier

import "context"

// Strategy is a classifier that may be unable to produce a result.
type Strategy interface {
	// Classify attempts to classify text. Failures are reported through the
	// returned Outcome, never by panicking.
	Classify(ctx context.Context, text string) Outcome

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}
