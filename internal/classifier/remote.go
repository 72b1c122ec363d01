package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"fjacquet/mood-journal/internal/logging"
	"fjacquet/mood-journal/internal/models"
)

const (
	// DefaultRemoteTimeout bounds a single inference request.
	DefaultRemoteTimeout = 20 * time.Second

	maxResponseBytes = 1 << 20
)

// RemoteConfig configures the remote inference service.
type RemoteConfig struct {
	BaseURL string        // e.g. https://api-inference.huggingface.co/models
	Model   string        // model identifier appended to BaseURL
	APIKey  string        // bearer token; empty disables the remote classifier
	Timeout time.Duration // zero means DefaultRemoteTimeout
}

// Enabled reports whether a token is configured.
func (c RemoteConfig) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Endpoint returns the URL the inference request is posted to.
func (c RemoteConfig) Endpoint() string {
	base := strings.TrimRight(c.BaseURL, "/")
	model := strings.Trim(c.Model, "/")
	if model == "" {
		return base
	}
	return base + "/" + model
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

// RemoteClassifier calls a hosted text-classification model over HTTP.
// It is stateless apart from its configuration and safe for concurrent use.
type RemoteClassifier struct {
	cfg        RemoteConfig
	httpClient *http.Client
	logger     logging.Logger
}

// RemoteOption customizes a RemoteClassifier.
type RemoteOption func(*RemoteClassifier)

// WithHTTPClient replaces the HTTP client used for inference requests.
func WithHTTPClient(client *http.Client) RemoteOption {
	return func(r *RemoteClassifier) {
		if client != nil {
			r.httpClient = client
		}
	}
}

// NewRemoteClassifier creates a new RemoteClassifier instance.
func NewRemoteClassifier(cfg RemoteConfig, logger logging.Logger, opts ...RemoteOption) *RemoteClassifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRemoteTimeout
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	r := &RemoteClassifier{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name returns the name of this strategy for logging and debugging.
func (r *RemoteClassifier) Name() string {
	return "remote"
}

// Enabled reports whether the classifier will attempt network calls.
func (r *RemoteClassifier) Enabled() bool {
	return r.cfg.Enabled()
}

// Classify posts text to the inference service and normalizes the response.
// Without a configured token it returns an unavailable outcome without any
// network activity. The request is attempted once.
func (r *RemoteClassifier) Classify(ctx context.Context, text string) Outcome {
	if !r.cfg.Enabled() {
		r.logger.Debug("Remote classifier disabled, skipping",
			logging.F(logging.FieldClassifier, r.Name()))
		return Unavailable(ErrRemoteDisabled)
	}

	start := time.Now()
	result, shape, err := r.infer(ctx, text)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		r.logger.WithError(err).Warn("Remote classification failed",
			logging.F(logging.FieldClassifier, r.Name()),
			logging.F(logging.FieldModel, r.cfg.Model),
			logging.F(logging.FieldReason, FailureKind(err)),
			logging.F(logging.FieldDuration, elapsed))
		return Unavailable(err)
	}

	r.logger.Debug("Text classified by remote service",
		logging.F(logging.FieldClassifier, r.Name()),
		logging.F(logging.FieldModel, r.cfg.Model),
		logging.F(logging.FieldLabel, result.Label),
		logging.F("shape", shape),
		logging.F(logging.FieldDuration, elapsed))
	return Available(result)
}

func (r *RemoteClassifier) infer(ctx context.Context, text string) (models.EmotionResult, string, error) {
	endpoint := r.cfg.Endpoint()

	payload, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return models.EmotionResult{}, "", &TransportError{Endpoint: endpoint, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return models.EmotionResult{}, "", &TransportError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return models.EmotionResult{}, "", &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return models.EmotionResult{}, "", &TransportError{Endpoint: endpoint, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.EmotionResult{}, "", &TransportError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       truncate(strings.TrimSpace(string(body)), 200),
		}
	}

	return parseResponse(body)
}
