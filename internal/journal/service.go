// Package journal accepts journal entries, tags them with an emotion and
// serves them back for the feed and API read paths.
package journal

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/mood-journal/internal/classifier"
	"fjacquet/mood-journal/internal/logging"
	"fjacquet/mood-journal/internal/models"
	"fjacquet/mood-journal/internal/store"
)

// Classifier is the part of the classification pipeline the service needs.
type Classifier interface {
	ClassifyDetailed(ctx context.Context, text string) classifier.Classification
}

// Submission is a raw entry as received from a user.
type Submission struct {
	Alias     string `json:"alias"`
	Text      string `json:"entry"`
	Anonymous bool   `json:"anonymous"`
}

// Options tune the read paths.
type Options struct {
	FeedLimit     int
	SnippetLength int
}

// Service ties classification to storage.
type Service struct {
	classifier Classifier
	store      store.EntryStore
	logger     logging.Logger
	opts       Options
}

// NewService creates a new journal Service.
func NewService(c Classifier, s store.EntryStore, logger logging.Logger, opts Options) *Service {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if opts.FeedLimit <= 0 {
		opts.FeedLimit = 50
	}
	if opts.SnippetLength <= 0 {
		opts.SnippetLength = 280
	}
	return &Service{classifier: c, store: s, logger: logger, opts: opts}
}

// Submit validates, classifies and stores an entry. Empty text is rejected
// with ErrEmptyEntry before any classification happens. A storage failure is
// returned as *PersistenceError.
func (s *Service) Submit(ctx context.Context, sub Submission) (models.Entry, error) {
	text := strings.TrimSpace(sub.Text)
	if text == "" {
		return models.Entry{}, ErrEmptyEntry
	}
	alias := strings.TrimSpace(sub.Alias)
	if sub.Anonymous {
		alias = ""
	}

	classification := s.classifier.ClassifyDetailed(ctx, text)
	result := classification.Result
	if err := result.Validate(); err != nil {
		s.logger.WithError(err).Error("Classifier returned an inconsistent result",
			logging.F(logging.FieldClassifier, classification.Source))
		return models.Entry{}, fmt.Errorf("invalid classification from %s: %w", classification.Source, err)
	}

	saved, err := s.store.Save(ctx, models.Entry{
		Alias:  alias,
		Text:   text,
		Label:  result.Label,
		Scores: result.Scores,
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to save journal entry",
			logging.F(logging.FieldLabel, result.Label))
		return models.Entry{}, &PersistenceError{Result: result, Err: err}
	}

	s.logger.Info("Journal entry saved",
		logging.F(logging.FieldEntryID, saved.ID),
		logging.F(logging.FieldLabel, saved.Label),
		logging.F(logging.FieldClassifier, classification.Source),
		logging.F(logging.FieldTextLength, len(text)))
	return saved, nil
}

// Feed returns the recent public feed.
func (s *Service) Feed(ctx context.Context) ([]models.FeedItem, error) {
	return s.store.Feed(ctx, s.opts.FeedLimit, s.opts.SnippetLength)
}

// Entries returns stored entries, optionally for a single alias.
func (s *Service) Entries(ctx context.Context, alias string) ([]models.Entry, error) {
	return s.store.List(ctx, strings.TrimSpace(alias))
}
