package classifier

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"fjacquet/mood-journal/internal/models"
)

// labelScore is one {label, score} record of an inference response.
type labelScore struct {
	label string
	score float64
}

// responseShape recognises one layout of the inference response. parse either
// returns every record of the body or declines with ok == false.
type responseShape struct {
	name  string
	parse func(body []byte) (records []labelScore, ok bool)
}

// responseShapes is the closed set of layouts, tried in order.
var responseShapes = []responseShape{
	{name: "nested", parse: parseNestedShape},
	{name: "flat", parse: parseFlatShape},
}

// parseResponse normalizes an inference response body into an EmotionResult.
func parseResponse(body []byte) (models.EmotionResult, string, error) {
	for _, shape := range responseShapes {
		records, ok := shape.parse(body)
		if !ok {
			continue
		}
		return buildResult(records), shape.name, nil
	}
	return models.EmotionResult{}, "", &ShapeError{
		Reason:  "expected a list of {label, score} records or a list containing one",
		Snippet: truncate(string(body), 120),
	}
}

// parseNestedShape accepts [[{label, score}, ...], ...]; only the first inner
// list is used.
func parseNestedShape(body []byte) ([]labelScore, bool) {
	var outer []json.RawMessage
	if err := json.Unmarshal(body, &outer); err != nil || len(outer) == 0 {
		return nil, false
	}
	var inner []json.RawMessage
	if err := json.Unmarshal(outer[0], &inner); err != nil {
		return nil, false
	}
	return decodeRecords(inner)
}

// parseFlatShape accepts [{label, score}, ...].
func parseFlatShape(body []byte) ([]labelScore, bool) {
	var list []json.RawMessage
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, false
	}
	return decodeRecords(list)
}

func decodeRecords(raw []json.RawMessage) ([]labelScore, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	records := make([]labelScore, 0, len(raw))
	for _, item := range raw {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			return nil, false
		}
		rawLabel, ok := fields["label"]
		if !ok || isNull(rawLabel) {
			return nil, false
		}
		var label string
		if err := json.Unmarshal(rawLabel, &label); err != nil {
			return nil, false
		}
		rawScore, ok := fields["score"]
		if !ok || isNull(rawScore) {
			return nil, false
		}
		score, ok := decodeScore(rawScore)
		if !ok {
			return nil, false
		}
		records = append(records, labelScore{label: label, score: score})
	}
	return records, true
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// decodeScore accepts a JSON number or a numeric string within [0, 1].
func decodeScore(raw json.RawMessage) (float64, bool) {
	var score float64
	if err := json.Unmarshal(raw, &score); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		score, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
	}
	if math.IsNaN(score) || score < 0 || score > 1 {
		return 0, false
	}
	return score, true
}

// buildResult folds records into a score map and picks the label with the
// highest score. Ties go to the label seen first; a repeated label keeps its
// first position but takes the later score.
func buildResult(records []labelScore) models.EmotionResult {
	scores := make(map[string]float64, len(records))
	order := make([]string, 0, len(records))
	for _, rec := range records {
		if _, seen := scores[rec.label]; !seen {
			order = append(order, rec.label)
		}
		scores[rec.label] = rec.score
	}

	top := order[0]
	for _, label := range order[1:] {
		if scores[label] > scores[top] {
			top = label
		}
	}
	return models.EmotionResult{Label: top, Scores: scores}
}
