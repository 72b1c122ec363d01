package journal

import (
	"context"
	"errors"
	"testing"

	"fjacquet/mood-journal/internal/classifier"
	"fjacquet/mood-journal/internal/logging"
	"fjacquet/mood-journal/internal/models"
	"fjacquet/mood-journal/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingClassifier struct {
	inner Classifier
	calls int
	texts []string
}

func (c *countingClassifier) ClassifyDetailed(ctx context.Context, text string) classifier.Classification {
	c.calls++
	c.texts = append(c.texts, text)
	return c.inner.ClassifyDetailed(ctx, text)
}

func newTestService(t *testing.T) (*Service, *countingClassifier, *store.MockStore, *logging.MockLogger) {
	t.Helper()
	logger := logging.NewMockLogger()
	pipeline := classifier.NewPipeline(
		classifier.NewRemoteClassifier(classifier.RemoteConfig{}, logger),
		classifier.NewHeuristicClassifier(),
		logger,
	)
	cls := &countingClassifier{inner: pipeline}
	st := store.NewMockStore()
	return NewService(cls, st, logger, Options{FeedLimit: 10, SnippetLength: 5}), cls, st, logger
}

func TestService_SubmitClassifiesAndStores(t *testing.T) {
	svc, cls, st, logger := newTestService(t)

	entry, err := svc.Submit(context.Background(), Submission{Alias: "  sam ", Text: "  I am angry and tired  "})
	require.NoError(t, err)

	assert.Equal(t, "sam", entry.Alias)
	assert.Equal(t, "I am angry and tired", entry.Text)
	assert.Equal(t, models.LabelAnger, entry.Label)
	assert.Equal(t, map[string]float64{models.LabelAnger: 1.0}, entry.Scores)
	assert.NotEmpty(t, entry.ID)

	assert.Equal(t, []string{"I am angry and tired"}, cls.texts)
	assert.Len(t, st.Entries(), 1)
	assert.True(t, logger.HasEntry("INFO", "Journal entry saved"))
}

func TestService_SubmitRejectsEmpty(t *testing.T) {
	svc, cls, st, _ := newTestService(t)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := svc.Submit(context.Background(), Submission{Text: text})
		assert.ErrorIs(t, err, ErrEmptyEntry)
	}
	assert.Zero(t, cls.calls, "pipeline must not be called for empty entries")
	assert.Empty(t, st.Entries())
}

func TestService_SubmitAnonymousClearsAlias(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	entry, err := svc.Submit(context.Background(), Submission{Alias: "sam", Text: "good day", Anonymous: true})
	require.NoError(t, err)
	assert.Empty(t, entry.Alias)
	assert.Equal(t, models.AnonymousAlias, entry.DisplayAlias())
}

func TestService_PersistenceErrorIsDistinct(t *testing.T) {
	svc, cls, st, logger := newTestService(t)
	dbErr := errors.New("database is locked")
	st.SaveError = dbErr

	_, err := svc.Submit(context.Background(), Submission{Text: "I feel so alone"})
	require.Error(t, err)

	var persistErr *PersistenceError
	require.True(t, errors.As(err, &persistErr))
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrEmptyEntry)
	assert.Equal(t, models.LabelSadness, persistErr.Result.Label, "classification already produced")
	assert.Equal(t, 1, cls.calls)
	assert.Contains(t, err.Error(), "classified as sadness")
	assert.True(t, logger.HasEntry("ERROR", "Failed to save journal entry"))
}

type fixedClassifier struct {
	result classifier.Classification
}

func (f fixedClassifier) ClassifyDetailed(context.Context, string) classifier.Classification {
	return f.result
}

func TestService_SubmitRejectsInconsistentResult(t *testing.T) {
	tests := []struct {
		name   string
		result models.EmotionResult
	}{
		{name: "no scores", result: models.EmotionResult{Label: models.LabelJoy}},
		{name: "label missing from scores", result: models.EmotionResult{Label: models.LabelJoy, Scores: map[string]float64{"fear": 1}}},
		{name: "label is not the maximum", result: models.EmotionResult{Label: models.LabelJoy, Scores: map[string]float64{"joy": 0.2, "fear": 0.8}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := logging.NewMockLogger()
			st := store.NewMockStore()
			svc := NewService(fixedClassifier{result: classifier.Classification{Result: tt.result, Source: "remote"}}, st, logger, Options{})

			_, err := svc.Submit(context.Background(), Submission{Text: "anything"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid classification from remote")
			var persistErr *PersistenceError
			assert.False(t, errors.As(err, &persistErr))
			assert.Empty(t, st.Entries())
			assert.True(t, logger.HasEntry("ERROR", "Classifier returned an inconsistent result"))
		})
	}
}

func TestService_FeedAndEntries(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	for _, sub := range []Submission{
		{Alias: "a", Text: "happy happy"},
		{Alias: "b", Text: "panic"},
		{Alias: "a", Text: "so tired"},
	} {
		_, err := svc.Submit(ctx, sub)
		require.NoError(t, err)
	}

	feed, err := svc.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, "so ti", feed[0].Snippet)

	entries, err := svc.Entries(ctx, " a ")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.LabelJoy, entries[0].Label)
	assert.Equal(t, models.LabelDisgust, entries[1].Label)
}

func TestNewService_Defaults(t *testing.T) {
	svc := NewService(nil, store.NewMockStore(), nil, Options{})
	assert.Equal(t, 50, svc.opts.FeedLimit)
	assert.Equal(t, 280, svc.opts.SnippetLength)
}
