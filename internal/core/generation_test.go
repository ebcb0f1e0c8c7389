package core

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"cramdeck.app/backend/internal/logger"
)

// stubBackend replays canned responses, one per GenerateContent call.
type stubBackend struct {
	responses []*genai.GenerateContentResponse
	errs      []error
	tokens    int32
	calls     int
}

func (s *stubBackend) GenerateContent(_ context.Context, _ ...genai.Part) (*genai.GenerateContentResponse, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	return s.responses[i], nil
}

func (s *stubBackend) CountTokens(_ context.Context, _ ...genai.Part) (*genai.CountTokensResponse, error) {
	s.calls++
	if len(s.errs) > 0 && s.errs[0] != nil {
		return nil, s.errs[0]
	}
	return &genai.CountTokensResponse{TotalTokens: s.tokens}, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(text)}}},
		},
	}
}

func testClient(backend *stubBackend, schemaEnforced bool) *Client {
	return &Client{
		log:            logger.NewNop(),
		model:          "test-model",
		schemaEnforced: schemaEnforced,
		maxAttempts:    3,
		newBackend:     func(*genai.Schema) generativeBackend { return backend },
	}
}

func courseJSON(t *testing.T) string {
	t.Helper()
	raw, err := json.Marshal(validCourse())
	require.NoError(t, err)
	return string(raw)
}

func TestGenerateCrashCourse_SchemaEnforced(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{responses: []*genai.GenerateContentResponse{textResponse(courseJSON(t))}}
	c := testClient(backend, true)

	course, err := c.GenerateCrashCourse(context.Background(), "Binary Search")
	require.NoError(t, err)

	assert.Equal(t, 1, backend.calls)
	assert.True(t, ValidateCrashCourse(course))
	assert.Regexp(t, `^cc_\d+$`, course.ID)
	assert.False(t, course.CreatedAt.IsZero())
	assert.Equal(t, "Binary Search", course.Topic)
}

func TestGenerateCrashCourse_StripsCodeFence(t *testing.T) {
	t.Parallel()

	fenced := "```json\n" + courseJSON(t) + "\n```"
	backend := &stubBackend{responses: []*genai.GenerateContentResponse{textResponse(fenced)}}
	c := testClient(backend, true)

	course, err := c.GenerateCrashCourse(context.Background(), "Binary Search")
	require.NoError(t, err)
	assert.True(t, ValidateCrashCourse(course))
}

func TestGenerateCrashCourse_MalformedEnvelope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"nil response", nil},
		{"no candidates", &genai.GenerateContentResponse{}},
		{"no content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}},
		{"no parts", &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			backend := &stubBackend{responses: []*genai.GenerateContentResponse{tt.resp}}
			c := testClient(backend, true)

			_, err := c.GenerateCrashCourse(context.Background(), "x")
			assert.ErrorIs(t, err, ErrMalformedEnvelope)
			assert.Equal(t, 1, backend.calls, "schema-enforced mode never retries")
		})
	}
}

func TestGenerateCrashCourse_InvalidJSON(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{responses: []*genai.GenerateContentResponse{textResponse("not json at all")}}
	c := testClient(backend, true)

	_, err := c.GenerateCrashCourse(context.Background(), "x")
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestGenerateCrashCourse_SchemaViolation(t *testing.T) {
	t.Parallel()

	bad := validCourse()
	bad.MainTopics[0].Subtopics = bad.MainTopics[0].Subtopics[:2]
	raw, err := json.Marshal(bad)
	require.NoError(t, err)

	backend := &stubBackend{responses: []*genai.GenerateContentResponse{textResponse(string(raw))}}
	c := testClient(backend, true)

	_, err = c.GenerateCrashCourse(context.Background(), "x")
	assert.ErrorIs(t, err, ErrSchemaViolation)
}

func TestGenerateCrashCourse_UpstreamRejected(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{errs: []error{&googleapi.Error{Code: 429, Message: "rate limited"}}}
	c := testClient(backend, true)

	_, err := c.GenerateCrashCourse(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUpstreamRejected)
}

func TestGenerateCrashCourse_UpstreamTransport(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{errs: []error{errors.New("connection refused")}}
	c := testClient(backend, true)

	_, err := c.GenerateCrashCourse(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestGenerateCrashCourse_BestEffortRetries(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{responses: []*genai.GenerateContentResponse{
		textResponse("garbage"),
		textResponse("{\"still\": \"wrong\"}"),
		textResponse(courseJSON(t)),
	}}
	c := testClient(backend, false)

	course, err := c.GenerateCrashCourse(context.Background(), "Binary Search")
	require.NoError(t, err)
	assert.Equal(t, 3, backend.calls)
	assert.True(t, ValidateCrashCourse(course))
}

func TestGenerateCrashCourse_BestEffortExhausted(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{responses: []*genai.GenerateContentResponse{textResponse("garbage")}}
	c := testClient(backend, false)

	_, err := c.GenerateCrashCourse(context.Background(), "x")
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 3, backend.calls)
}

func TestGenerateSummary(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(validSummary())
	require.NoError(t, err)

	backend := &stubBackend{responses: []*genai.GenerateContentResponse{textResponse(string(raw))}}
	c := testClient(backend, true)

	summary, err := c.GenerateSummary(context.Background(), "report.pdf", "some text", 5, "")
	require.NoError(t, err)
	assert.True(t, ValidateSummary(summary))
	assert.Regexp(t, `^sum_\d+$`, summary.ID)
	assert.Equal(t, "report.pdf", summary.FileName)
}

func TestCountTokens(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{tokens: 1234}
	c := testClient(backend, true)

	n, err := c.CountTokens(context.Background(), "some document text")
	require.NoError(t, err)
	assert.Equal(t, 1234, n)
}

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, stripCodeFence("  {\"a\":1}\n"))

	// The whole response may arrive on one line.
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json {\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("``` {\"a\":1} ```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```{\"a\":1}```"))
	assert.Equal(t, `[1,2]`, stripCodeFence("```json [1,2]```"))
}
