// Package models provides the data structures used throughout the application.
package models

import (
	"encoding/json"
	"fmt"
)

// Emotion labels produced by the heuristic classifier. The remote service may
// return labels outside this set (e.g. "surprise"); they are kept verbatim.
const (
	LabelJoy     = "joy"
	LabelFear    = "fear"
	LabelAnger   = "anger"
	LabelDisgust = "disgust"
	LabelSadness = "sadness"
	LabelNeutral = "neutral"
)

// EmotionResult is the canonical classification of one journal entry.
// Label is always a key of Scores and carries the maximum score.
type EmotionResult struct {
	Label  string             `json:"label"`
	Scores map[string]float64 `json:"scores"`
}

// SingleLabel returns a result that puts all confidence on label.
func SingleLabel(label string) EmotionResult {
	return EmotionResult{Label: label, Scores: map[string]float64{label: 1.0}}
}

// Validate checks the result invariants.
func (r EmotionResult) Validate() error {
	if len(r.Scores) == 0 {
		return fmt.Errorf("emotion result has no scores")
	}
	top, ok := r.Scores[r.Label]
	if !ok {
		return fmt.Errorf("label %q is not present in scores", r.Label)
	}
	for label, score := range r.Scores {
		if score > top {
			return fmt.Errorf("label %q (%.4f) scores higher than %q (%.4f)", label, score, r.Label, top)
		}
	}
	return nil
}

// Confidence returns the score of the selected label.
func (r EmotionResult) Confidence() float64 {
	return r.Scores[r.Label]
}

// ScoresJSON serializes the score distribution for storage.
func (r EmotionResult) ScoresJSON() (string, error) {
	b, err := json.Marshal(r.Scores)
	if err != nil {
		return "", fmt.Errorf("failed to encode emotion scores: %w", err)
	}
	return string(b), nil
}

// DecodeScores parses a stored score blob. Empty or malformed input yields an
// empty map rather than an error so read paths can still display the entry.
func DecodeScores(raw string) map[string]float64 {
	scores := map[string]float64{}
	if raw == "" {
		return scores
	}
	if err := json.Unmarshal([]byte(raw), &scores); err != nil {
		return map[string]float64{}
	}
	return scores
}
