// Package ai delegates batch candidate ranking to the generative-AI
// provider, with model fallback on transient overload and lenient
// response parsing.
package ai

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/thomasandersen77/candidate-match/internal/logger"
)

// ErrProviderOverload marks a transient provider-side capacity failure.
// The ranking client retries exactly once against the fast model when it
// sees this class of error.
var ErrProviderOverload = errors.New("ai provider overloaded")

const defaultFallbackBackoff = 2 * time.Second

// BatchCandidate is one candidate block in the ranking request. When
// ArtifactRef is set the uploaded CV document is referenced; otherwise the
// CV text is embedded inline.
type BatchCandidate struct {
	ConsultantID int64
	Name         string
	ArtifactRef  string
	CVText       string
}

// RankedCandidate is one provider-assigned ranking entry. Score is an
// integer in [0,100]; normalization to [0,1] is the orchestrator's job.
type RankedCandidate struct {
	ConsultantID int64
	Score        int
	Reasons      []string
}

// Part is one prompt block sent to the provider: either text or a
// reference to an uploaded file.
type Part struct {
	Text     string
	FileURI  string
	MIMEType string
}

// generator is the seam between the ranking logic and the concrete
// provider SDK.
type generator interface {
	generate(ctx context.Context, model string, parts []Part) (string, error)
}

// Client performs exactly one ranking call per matching run.
type Client struct {
	gen         generator
	log         *zap.Logger
	strongModel string
	fastModel   string
	backoff     time.Duration
	timeout     time.Duration
}

// ClientOptions configures a ranking client.
type ClientOptions struct {
	StrongModel string
	FastModel   string
	Timeout     time.Duration

	// Backoff before the fallback attempt; defaults to 2s.
	Backoff time.Duration
}

func newClient(gen generator, log *zap.Logger, opts ClientOptions) *Client {
	if opts.Backoff <= 0 {
		opts.Backoff = defaultFallbackBackoff
	}
	return &Client{
		gen:         gen,
		log:         log,
		strongModel: opts.StrongModel,
		fastModel:   opts.FastModel,
		backoff:     opts.Backoff,
		timeout:     opts.Timeout,
	}
}

// Rank sends one batched ranking request for the project and returns at
// most topN ranked candidates. It never returns an error: any
// non-recoverable failure (including a failed fallback attempt and
// malformed responses) degrades to an empty list, so matching continues
// with zero AI-ranked candidates instead of failing the run.
func (c *Client) Rank(ctx context.Context, projectRequestID, projectDescription string, candidates []BatchCandidate, topN int) []RankedCandidate {
	if len(candidates) == 0 {
		return nil
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	parts := buildRankingParts(projectRequestID, projectDescription, candidates, topN)

	raw, err := c.gen.generate(ctx, c.strongModel, parts)
	if err != nil {
		if !errors.Is(err, ErrProviderOverload) {
			c.log.Warn("ranking call failed, continuing without AI ranking",
				zap.String("project_request_id", projectRequestID),
				zap.String("model", c.strongModel),
				zap.Error(err))
			return nil
		}

		c.log.Warn("ranking model overloaded, retrying once with fallback model",
			zap.String("project_request_id", projectRequestID),
			zap.String("model", c.strongModel),
			zap.String("fallback_model", c.fastModel))

		select {
		case <-time.After(c.backoff):
		case <-ctx.Done():
			return nil
		}

		raw, err = c.gen.generate(ctx, c.fastModel, parts)
		if err != nil {
			c.log.Warn("fallback ranking call failed, continuing without AI ranking",
				zap.String("project_request_id", projectRequestID),
				zap.String("fallback_model", c.fastModel),
				zap.Error(err))
			return nil
		}
	}

	c.log.Debug("ranking response received",
		zap.String("project_request_id", projectRequestID),
		zap.Int("candidates", len(candidates)),
		zap.String("response_preview", logger.TruncateForLog(raw, 200)))

	ranked := parseRanking(raw, topN)
	if len(ranked) == 0 {
		c.log.Warn("ranking response yielded no usable entries",
			zap.String("project_request_id", projectRequestID),
			zap.String("response_preview", logger.TruncateForLog(raw, 200)))
	}
	return ranked
}

func formatConsultantID(id int64) string {
	return strconv.FormatInt(id, 10)
}
