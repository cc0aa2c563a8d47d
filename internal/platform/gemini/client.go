package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/phrazzld/storyboard-api/internal/domain"
	"github.com/phrazzld/storyboard-api/internal/generation"
	"google.golang.org/genai"
)

// modelsAPI is the subset of genai.Models used by the client.
type modelsAPI interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
	GenerateVideos(
		ctx context.Context,
		model string,
		prompt string,
		image *genai.Image,
		config *genai.GenerateVideosConfig,
	) (*genai.GenerateVideosOperation, error)
}

// operationsAPI is the subset of genai.Operations used by the client.
type operationsAPI interface {
	GetVideosOperation(
		ctx context.Context,
		operation *genai.GenerateVideosOperation,
		config *genai.GetOperationConfig,
	) (*genai.GenerateVideosOperation, error)
}

// Client implements generation.Client using the Gemini API.
type Client struct {
	logger     *slog.Logger
	config     Config
	models     modelsAPI
	operations operationsAPI
	references referenceLoader
}

// Ensure Client implements generation.Client
var _ generation.Client = (*Client)(nil)

// NewClient creates a Gemini-backed generation client.
//
// Parameters:
//   - ctx: Context for client initialization
//   - logger: A structured logger for operation logging
//   - cfg: API key, model names and retry settings
//
// Returns:
//   - A ready Client or an error wrapping generation.ErrInvalidConfig
func NewClient(ctx context.Context, logger *slog.Logger, cfg Config) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	logger = logger.With("component", "gemini_client")

	if err := validateConfig(ctx, logger, &cfg); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newClient(logger, cfg, client.Models, client.Operations, newHTTPReferenceLoader(cfg)), nil
}

func newClient(
	logger *slog.Logger,
	cfg Config,
	models modelsAPI,
	operations operationsAPI,
	references referenceLoader,
) *Client {
	return &Client{
		logger:     logger,
		config:     cfg,
		models:     models,
		operations: operations,
		references: references,
	}
}

// GenerateOne implements generation.Client.
//
// Image requests complete synchronously and return a Result. Video requests
// start a long-running operation and return its name as a TaskHandle.
func (c *Client) GenerateOne(
	ctx context.Context,
	targetID string,
	req generation.Request,
) (*generation.Outcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	log := c.logger.With("target_id", targetID, "mode", string(req.Mode))

	refs, err := c.loadReferences(ctx, req.ReferenceImageURLs)
	if err != nil {
		log.WarnContext(ctx, "Failed to load reference images", "error", err)
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	start := time.Now()
	var outcome *generation.Outcome
	if req.Mode == domain.GenerationModeVideo {
		outcome, err = c.submitVideo(ctx, log, req, refs)
	} else {
		outcome, err = c.generateImages(ctx, log, req, refs)
	}
	if err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "Generation call finished",
		"async", outcome.IsAsync(),
		"duration_ms", time.Since(start).Milliseconds())
	return outcome, nil
}

// QueryTaskStatus implements generation.Client.
func (c *Client) QueryTaskStatus(ctx context.Context, taskID string) (*generation.StatusReport, error) {
	if taskID == "" {
		return nil, fmt.Errorf("%w: empty task id", generation.ErrInvalidRequest)
	}

	op, err := c.operations.GetVideosOperation(ctx, &genai.GenerateVideosOperation{Name: taskID}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: status query for %s: %v", generation.ErrTransientFailure, taskID, err)
	}
	if op == nil {
		return nil, fmt.Errorf("%w: nil operation for %s", generation.ErrInvalidResponse, taskID)
	}

	return videoStatus(op), nil
}

func (c *Client) loadReferences(ctx context.Context, urls []string) ([]*reference, error) {
	refs := make([]*reference, 0, len(urls))
	for _, u := range urls {
		ref, err := c.references.Load(ctx, u)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// withRetry runs call with exponential backoff. Errors wrapping
// ErrContentBlocked or ErrInvalidResponse are permanent. Exhausted retries
// are reported as ErrTransientFailure.
func (c *Client) withRetry(ctx context.Context, log *slog.Logger, call func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.config.RetryDelay
	policy.MaxElapsedTime = 0

	attempt := 0
	operation := func() error {
		attempt++
		err := call()
		if err == nil {
			return nil
		}
		if errors.Is(err, generation.ErrContentBlocked) || errors.Is(err, generation.ErrInvalidResponse) ||
			errors.Is(err, ErrNoOutput) {
			log.WarnContext(ctx, "Permanent error occurred, not retrying", "attempt", attempt, "error", err)
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, delay time.Duration) {
		log.InfoContext(ctx, "Retrying Gemini call after delay",
			"attempt", attempt,
			"delay", delay,
			"error", err)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.config.MaxRetries)), ctx)
	err := backoff.RetryNotify(operation, b, notify)
	if err == nil {
		return nil
	}

	if errors.Is(err, generation.ErrContentBlocked) || errors.Is(err, generation.ErrInvalidResponse) ||
		errors.Is(err, ErrNoOutput) {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctxErr)
	}

	log.WarnContext(ctx, "Maximum retry attempts reached", "max_retries", c.config.MaxRetries)
	return fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
		generation.ErrTransientFailure, c.config.MaxRetries, err)
}
