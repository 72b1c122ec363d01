package classifier

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		expectedLabel string
		expectedShape string
		expectedCount int
	}{
		{
			name:          "nested list",
			body:          `[[{"label":"joy","score":0.8},{"label":"sadness","score":0.15},{"label":"fear","score":0.05}]]`,
			expectedLabel: "joy",
			expectedShape: "nested",
			expectedCount: 3,
		},
		{
			name:          "flat list",
			body:          `[{"label":"anger","score":0.2},{"label":"fear","score":0.7}]`,
			expectedLabel: "fear",
			expectedShape: "flat",
			expectedCount: 2,
		},
		{
			name:          "tie keeps first encountered",
			body:          `[{"label":"surprise","score":0.5},{"label":"joy","score":0.5}]`,
			expectedLabel: "surprise",
			expectedShape: "flat",
			expectedCount: 2,
		},
		{
			name:          "nested uses only first inner list",
			body:          `[[{"label":"neutral","score":0.9}],[{"label":"joy","score":1}]]`,
			expectedLabel: "neutral",
			expectedShape: "nested",
			expectedCount: 1,
		},
		{
			name:          "numeric string score",
			body:          `[{"label":"joy","score":"0.25"},{"label":"sadness","score":0.75}]`,
			expectedLabel: "sadness",
			expectedShape: "flat",
			expectedCount: 2,
		},
		{
			name:          "integer scores",
			body:          `[{"label":"joy","score":0},{"label":"sadness","score":1}]`,
			expectedLabel: "sadness",
			expectedShape: "flat",
			expectedCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, shape, err := parseResponse([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.expectedLabel, result.Label)
			assert.Equal(t, tt.expectedShape, shape)
			assert.Len(t, result.Scores, tt.expectedCount)
			assert.NoError(t, result.Validate())
		})
	}
}

func TestParseResponse_Rejected(t *testing.T) {
	bodies := map[string]string{
		"missing label":       `[[{"score":0.9}]]`,
		"missing score":       `[{"label":"joy"}]`,
		"null score":          `[{"label":"joy","score":null}]`,
		"null label":          `[{"label":null,"score":0.4}]`,
		"non string label":    `[{"label":3,"score":0.4}]`,
		"score out of range":  `[{"label":"joy","score":1.5}]`,
		"negative score":      `[{"label":"joy","score":-0.1}]`,
		"bad score string":    `[{"label":"joy","score":"high"}]`,
		"empty list":          `[]`,
		"empty inner list":    `[[]]`,
		"object body":         `{"error":"Model is loading","estimated_time":20}`,
		"list of scalars":     `[1,2,3]`,
		"null body":           `null`,
		"list of null":        `[null]`,
		"not json":            `<html>bad gateway</html>`,
		"mixed flat records":  `[{"label":"joy","score":0.5},"x"]`,
		"nested inner scalar": `[["joy"]]`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			_, _, err := parseResponse([]byte(body))
			require.Error(t, err)
			var shapeErr *ShapeError
			assert.True(t, errors.As(err, &shapeErr))
			assert.Equal(t, "shape_mismatch", FailureKind(err))
		})
	}
}

func TestBuildResult_DuplicateLabels(t *testing.T) {
	// the repeated label keeps its first position but takes the last score
	result := buildResult([]labelScore{
		{label: "joy", score: 0.1},
		{label: "fear", score: 0.6},
		{label: "joy", score: 0.6},
	})
	assert.Equal(t, "joy", result.Label)
	assert.Equal(t, map[string]float64{"joy": 0.6, "fear": 0.6}, result.Scores)
}

func TestShapeStrategiesIndependently(t *testing.T) {
	nested := []byte(`[[{"label":"joy","score":1}]]`)
	flat := []byte(`[{"label":"joy","score":1}]`)

	_, ok := parseNestedShape(nested)
	assert.True(t, ok)
	_, ok = parseNestedShape(flat)
	assert.False(t, ok)

	_, ok = parseFlatShape(flat)
	assert.True(t, ok)
	_, ok = parseFlatShape(nested)
	assert.False(t, ok)
}
