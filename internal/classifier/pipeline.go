package classifier

import (
	"context"

	"fjacquet/mood-journal/internal/logging"
	"fjacquet/mood-journal/internal/models"
)

// Classification is a pipeline result together with where it came from.
type Classification struct {
	Result models.EmotionResult
	// Source is the name of the strategy that produced Result.
	Source string
	// PrimaryErr is why the primary strategy was unavailable, nil when it answered.
	PrimaryErr error
}

// Pipeline produces exactly one EmotionResult per text. The primary strategy is
// tried once; if it has no result the heuristic answers instead. Results are
// never merged.
type Pipeline struct {
	primary  Strategy
	fallback *HeuristicClassifier
	logger   logging.Logger
}

// NewPipeline wires a primary strategy (usually a RemoteClassifier) in front of
// the heuristic fallback. A nil primary means every text goes to the fallback.
func NewPipeline(primary Strategy, fallback *HeuristicClassifier, logger logging.Logger) *Pipeline {
	if fallback == nil {
		fallback = NewHeuristicClassifier()
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Pipeline{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Classify returns the emotion of text. It always returns a populated result.
func (p *Pipeline) Classify(ctx context.Context, text string) models.EmotionResult {
	return p.ClassifyDetailed(ctx, text).Result
}

// ClassifyDetailed is Classify that also reports which strategy answered.
func (p *Pipeline) ClassifyDetailed(ctx context.Context, text string) Classification {
	var primaryErr error
	if p.primary != nil {
		outcome := p.primary.Classify(ctx, text)
		if result, ok := outcome.Result(); ok {
			return Classification{Result: result, Source: p.primary.Name()}
		}
		primaryErr = outcome.Err()
		if !outcome.Disabled() {
			p.logger.WithError(primaryErr).Debug("Falling back to heuristic classifier",
				logging.F(logging.FieldClassifier, p.primary.Name()),
				logging.F(logging.FieldReason, FailureKind(primaryErr)))
		}
	}

	result := p.fallback.Guess(text)
	p.logger.Debug("Text classified by heuristic",
		logging.F(logging.FieldClassifier, p.fallback.Name()),
		logging.F(logging.FieldLabel, result.Label),
		logging.F(logging.FieldTextLength, len(text)))
	return Classification{Result: result, Source: p.fallback.Name(), PrimaryErr: primaryErr}
}

// RemoteEnabled reports whether the primary strategy can make network calls.
func (p *Pipeline) RemoteEnabled() bool {
	if r, ok := p.primary.(interface{ Enabled() bool }); ok {
		return r.Enabled()
	}
	return false
}
