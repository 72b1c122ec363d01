package classifier

import (
	"context"
	"strings"

	"fjacquet/mood-journal/internal/models"
)

// Keyword vocabularies. Matching is by substring on the lower-cased text, so
// "stressed" also matches "stress" and "badge" matches "bad".
var (
	positiveKeywords = []string{
		"happy", "joy", "grateful", "thankful", "hope", "excited",
		"calm", "peace", "good", "great", "love",
	}
	negativeKeywords = []string{
		"sad", "angry", "upset", "hate", "anxious", "anxiety", "fear", "panic",
		"bad", "terrible", "depressed", "alone", "tired", "stress", "stressed",
	}
)

// negativeRule maps marker substrings to the label chosen when negative
// keywords dominate. Rules are evaluated in order; the first match wins.
type negativeRule struct {
	label   string
	markers []string
}

var negativeCascade = []negativeRule{
	{label: models.LabelFear, markers: []string{"anx", "fear", "panic"}},
	{label: models.LabelAnger, markers: []string{"angry", "hate"}},
	{label: models.LabelDisgust, markers: []string{"stress", "tired"}},
}

// HeuristicClassifier guesses an emotion from keyword presence. It performs
// no I/O, holds no mutable state and always produces a result.
type HeuristicClassifier struct{}

// NewHeuristicClassifier creates a new HeuristicClassifier instance.
func NewHeuristicClassifier() *HeuristicClassifier {
	return &HeuristicClassifier{}
}

// Name returns the name of this strategy for logging and debugging.
func (h *HeuristicClassifier) Name() string {
	return "heuristic"
}

// Guess returns the keyword-based emotion for text.
func (h *HeuristicClassifier) Guess(text string) models.EmotionResult {
	t := strings.ToLower(text)
	pos := countKeywords(t, positiveKeywords)
	neg := countKeywords(t, negativeKeywords)

	switch {
	case pos > neg:
		return models.SingleLabel(models.LabelJoy)
	case neg > pos:
		for _, rule := range negativeCascade {
			if containsAny(t, rule.markers) {
				return models.SingleLabel(rule.label)
			}
		}
		return models.SingleLabel(models.LabelSadness)
	default:
		return models.SingleLabel(models.LabelNeutral)
	}
}

// Classify implements Strategy. The outcome is always available.
func (h *HeuristicClassifier) Classify(_ context.Context, text string) Outcome {
	return Available(h.Guess(text))
}

// countKeywords counts how many distinct keywords occur in text.
func countKeywords(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}
