// Package container provides dependency injection for the mood-journal
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"fmt"

	"fjacquet/mood-journal/internal/batch"
	"fjacquet/mood-journal/internal/classifier"
	"fjacquet/mood-journal/internal/config"
	"fjacquet/mood-journal/internal/journal"
	"fjacquet/mood-journal/internal/logging"
	"fjacquet/mood-journal/internal/server"
	"fjacquet/mood-journal/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger   logging.Logger
	config   *config.Config
	store    store.EntryStore
	remote   *classifier.RemoteClassifier
	pipeline *classifier.Pipeline
	journal  *journal.Service
	server   *server.Server
	batch    *batch.Processor
}

// Option customizes container construction.
type Option func(*options)

type options struct {
	logger     logging.Logger
	store      store.EntryStore
	remoteOpts []classifier.RemoteOption
}

// WithLogger uses logger instead of one built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithStore uses an existing store instead of opening the configured database.
func WithStore(s store.EntryStore) Option {
	return func(o *options) { o.store = s }
}

// WithRemoteOptions passes options through to the remote classifier.
func WithRemoteOptions(opts ...classifier.RemoteOption) Option {
	return func(o *options) { o.remoteOpts = append(o.remoteOpts, opts...) }
}

// NewContainer creates and wires all application dependencies.
//
// Parameters:
//   - ctx: Context used while opening the database
//   - cfg: Application configuration
//   - opts: Optional overrides, mainly for tests
//
// Returns:
//   - *Container: Fully wired container with all dependencies
//   - error: Any error encountered during dependency creation
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Create logger first as it's needed by other components
	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	entryStore := o.store
	if entryStore == nil {
		sqliteStore, err := store.OpenSQLite(ctx, cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open entry store: %w", err)
		}
		entryStore = sqliteStore
	}

	remote := classifier.NewRemoteClassifier(cfg.ClassifierConfig(), logger, o.remoteOpts...)
	if remote.Enabled() {
		logger.Info("Remote emotion classification enabled", logging.F(logging.FieldModel, cfg.Remote.Model))
	} else {
		logger.Info("Remote emotion classification disabled, using keyword heuristic")
	}

	pipeline := classifier.NewPipeline(remote, classifier.NewHeuristicClassifier(), logger)
	svc := journal.NewService(pipeline, entryStore, logger, journal.Options{
		FeedLimit:     cfg.Feed.Limit,
		SnippetLength: cfg.Feed.SnippetLength,
	})

	logger.Info("Container initialized successfully",
		logging.F(logging.FieldPath, cfg.Database.Path),
		logging.F("remote_enabled", remote.Enabled()))

	return &Container{
		logger:   logger,
		config:   cfg,
		store:    entryStore,
		remote:   remote,
		pipeline: pipeline,
		journal:  svc,
		server:   server.New(svc, logger, pipeline.RemoteEnabled),
		batch:    batch.NewProcessor(svc, logger),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the container's entry store.
func (c *Container) GetStore() store.EntryStore {
	return c.store
}

// GetPipeline returns the classification pipeline.
func (c *Container) GetPipeline() *classifier.Pipeline {
	return c.pipeline
}

// GetJournal returns the journal service.
func (c *Container) GetJournal() *journal.Service {
	return c.journal
}

// GetServer returns the HTTP server.
func (c *Container) GetServer() *server.Server {
	return c.server
}

// GetBatch returns the CSV batch processor.
func (c *Container) GetBatch() *batch.Processor {
	return c.batch
}

// Close releases the entry store.
func (c *Container) Close() error {
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("failed to close entry store: %w", err)
	}
	c.logger.Info("Container closed")
	return nil
}
