package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"cramdeck.app/backend/internal/logger"
	"cramdeck.app/backend/internal/store"
)

// generativeBackend is the slice of *genai.GenerativeModel the client uses.
// Tests substitute it to exercise the response pipeline without the network.
type generativeBackend interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
	CountTokens(ctx context.Context, parts ...genai.Part) (*genai.CountTokensResponse, error)
}

// Generator is what the services need from the generation client.
type Generator interface {
	GenerateCrashCourse(ctx context.Context, topic string) (*store.CrashCourse, error)
	GenerateSummary(ctx context.Context, fileName, docText string, totalPages int, extra string) (*store.Summary, error)
	CountTokens(ctx context.Context, text string) (int, error)
}

type ClientOptions struct {
	Model string

	// SchemaEnforced passes the response schema to the backend and makes a
	// single attempt per request. Without it the client re-issues the request
	// until the output validates, up to MaxAttempts.
	SchemaEnforced bool
	MaxAttempts    int
}

// Client talks to the Gemini backend and guarantees schema-valid output:
// it extracts the JSON payload from the response envelope, strips Markdown
// code fences, decodes, and validates. The backend's own schema enforcement
// is advisory, so validation always runs.
type Client struct {
	genai          *genai.Client
	log            *logger.Logger
	model          string
	schemaEnforced bool
	maxAttempts    int

	// newBackend overrides model construction in tests.
	newBackend func(schema *genai.Schema) generativeBackend
}

func NewClient(ctx context.Context, apiKey string, opts ClientOptions, log *logger.Logger) (*Client, error) {
	gc, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	attempts := opts.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Client{
		genai:          gc,
		log:            log.With("service", "GenerationClient"),
		model:          opts.Model,
		schemaEnforced: opts.SchemaEnforced,
		maxAttempts:    attempts,
	}, nil
}

func (c *Client) Close() {
	if c.genai != nil {
		if err := c.genai.Close(); err != nil {
			c.log.Warn("error closing GenAI client", "error", err.Error())
		}
	}
}

func (c *Client) backendFor(schema *genai.Schema) generativeBackend {
	if c.newBackend != nil {
		return c.newBackend(schema)
	}
	m := c.genai.GenerativeModel(c.model)
	m.GenerationConfig.ResponseMIMEType = "application/json"
	if c.schemaEnforced {
		m.GenerationConfig.ResponseSchema = schema
	}
	return m
}

// classifyUpstream maps an SDK error onto the failure taxonomy: a backend
// status error is a rejection, anything else is a transport failure.
func classifyUpstream(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: status %d: %v", ErrUpstreamRejected, apiErr.Code, err)
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}

// extractPayload pulls the text payload out of the response envelope,
// concatenating the text parts of the first candidate.
func extractPayload(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrMalformedEnvelope
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if b.Len() == 0 {
		return "", ErrMalformedEnvelope
	}
	return b.String(), nil
}

// stripCodeFence removes a Markdown code-fence wrapper if the backend added
// one around the JSON payload. The fence may share a line with the payload.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the language tag ("json") after the opening fence; the payload
	// itself starts with a JSON delimiter, never a letter.
	i := 0
	for i < len(s) && (s[i] >= 'a' && s[i] <= 'z' || s[i] >= 'A' && s[i] <= 'Z') {
		i++
	}
	s = strings.TrimSpace(s[i:])
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// generate runs one request against the backend and feeds the extracted
// payload through decode. In best-effort mode every failure is logged and
// retried up to the attempt budget, then surfaced as ErrExhausted.
func (c *Client) generate(ctx context.Context, parts []genai.Part, schema *genai.Schema, decode func(payload []byte) error) error {
	backend := c.backendFor(schema)
	requestID := uuid.NewString()

	attempts := 1
	if !c.schemaEnforced {
		attempts = c.maxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := backend.GenerateContent(ctx, parts...)
		if err != nil {
			lastErr = classifyUpstream(err)
		} else {
			var text string
			text, lastErr = extractPayload(resp)
			if lastErr == nil {
				lastErr = decode([]byte(stripCodeFence(text)))
			}
		}
		if lastErr == nil {
			return nil
		}
		if c.schemaEnforced {
			return lastErr
		}
		c.log.Warn("generation attempt rejected",
			"request_id", requestID,
			"attempt", attempt,
			"max_attempts", attempts,
			"error", lastErr.Error(),
		)
	}
	return fmt.Errorf("%w after %d attempts: %v", ErrExhausted, attempts, lastErr)
}

// decodeInto parses the payload as JSON (ErrInvalidJSON), decodes it into
// out (ErrSchemaViolation on type mismatches) and runs the validator.
func decodeInto(payload []byte, out any, valid func() bool) error {
	var probe any
	if err := json.Unmarshal(payload, &probe); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	if !valid() {
		return ErrSchemaViolation
	}
	return nil
}

// GenerateCrashCourse produces a validated crash course for a topic.
func (c *Client) GenerateCrashCourse(ctx context.Context, topic string) (*store.CrashCourse, error) {
	prompt := BuildCrashCoursePrompt(topic)

	var course store.CrashCourse
	decode := func(payload []byte) error {
		course = store.CrashCourse{}
		return decodeInto(payload, &course, func() bool { return ValidateCrashCourse(&course) })
	}

	if err := c.generate(ctx, []genai.Part{genai.Text(prompt)}, crashCourseSchema(), decode); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	course.ID = store.NewCrashCourseID(now)
	course.CreatedAt = now
	return &course, nil
}

// GenerateSummary produces a validated summary of a document's extracted
// text, chunked according to its page count.
func (c *Client) GenerateSummary(ctx context.Context, fileName, docText string, totalPages int, extra string) (*store.Summary, error) {
	plan := PlanChunks(totalPages)
	prompt := BuildSummaryPrompt(totalPages, plan, extra)

	var summary store.Summary
	decode := func(payload []byte) error {
		summary = store.Summary{}
		return decodeInto(payload, &summary, func() bool { return ValidateSummary(&summary) })
	}

	parts := []genai.Part{genai.Text(prompt), genai.Text("Document text:\n\n" + docText)}
	if err := c.generate(ctx, parts, summarySchema(), decode); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	summary.ID = store.NewSummaryID(now)
	summary.CreatedAt = now
	summary.FileName = fileName
	return &summary, nil
}

// CountTokens estimates the cost of a candidate document before committing
// to a full generation call.
func (c *Client) CountTokens(ctx context.Context, text string) (int, error) {
	backend := c.backendFor(nil)
	resp, err := backend.CountTokens(ctx, genai.Text(text))
	if err != nil {
		return 0, classifyUpstream(err)
	}
	return int(resp.TotalTokens), nil
}
