package core

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cramdeck.app/backend/internal/logger"
	"cramdeck.app/backend/internal/store"
)

// summaryGenStub satisfies Generator for SummaryService tests and records
// whether a generation was actually attempted.
type summaryGenStub struct {
	tokens        int
	tokenErr      error
	summary       store.Summary
	generateCalls int
}

func (g *summaryGenStub) GenerateCrashCourse(context.Context, string) (*store.CrashCourse, error) {
	return nil, fmt.Errorf("not used")
}

func (g *summaryGenStub) GenerateSummary(_ context.Context, fileName, _ string, _ int, _ string) (*store.Summary, error) {
	g.generateCalls++
	s := g.summary
	s.FileName = fileName
	return &s, nil
}

func (g *summaryGenStub) CountTokens(context.Context, string) (int, error) {
	return g.tokens, g.tokenErr
}

func newSummaryService(t *testing.T, gen Generator, limits SummaryLimits) *SummaryService {
	t.Helper()
	st, err := store.NewFileStore(filepath.Join(t.TempDir(), "users.json"))
	require.NoError(t, err)
	return NewSummaryService(st, gen, limits, logger.NewNop())
}

func TestSummaryService_RejectsOversizedUpload(t *testing.T) {
	t.Parallel()

	gen := &summaryGenStub{tokens: 10}
	svc := newSummaryService(t, gen, SummaryLimits{MaxUploadBytes: 64, MaxDocumentTokens: 1000})
	data := make([]byte, 65)

	_, err := svc.EstimateTokens(context.Background(), data)
	assert.ErrorIs(t, err, ErrDocumentTooLarge)

	_, err = svc.Create(context.Background(), "big.pdf", data, "", "")
	assert.ErrorIs(t, err, ErrDocumentTooLarge)
	assert.Zero(t, gen.generateCalls)
}

func TestSummaryService_RejectsDocumentOverTokenCeiling(t *testing.T) {
	t.Parallel()

	gen := &summaryGenStub{tokens: 1001, summary: validSummary()}
	svc := newSummaryService(t, gen, SummaryLimits{MaxUploadBytes: 1 << 20, MaxDocumentTokens: 1000})
	svc.extract = func([]byte) (string, int, error) { return "extracted text", 3, nil }

	_, err := svc.Create(context.Background(), "dense.pdf", []byte("%PDF-"), "", "")
	assert.ErrorIs(t, err, ErrDocumentTooLarge)
	assert.Zero(t, gen.generateCalls)
}

func TestSummaryService_EstimateTokensReportsWithoutCeiling(t *testing.T) {
	t.Parallel()

	// The estimate endpoint only reports cost; a count over the generation
	// ceiling is not an error here.
	gen := &summaryGenStub{tokens: 1001}
	svc := newSummaryService(t, gen, SummaryLimits{MaxUploadBytes: 1 << 20, MaxDocumentTokens: 1000})
	svc.extract = func([]byte) (string, int, error) { return "extracted text", 3, nil }

	tc, err := svc.EstimateTokens(context.Background(), []byte("%PDF-"))
	require.NoError(t, err)
	assert.Equal(t, 1001, tc.TotalTokens)
	assert.Equal(t, 3, tc.PageCount)
	assert.Equal(t, len("extracted text"), tc.TextLength)
}

func TestSummaryService_UnreadableDocument(t *testing.T) {
	t.Parallel()

	gen := &summaryGenStub{tokens: 10}
	svc := newSummaryService(t, gen, SummaryLimits{MaxUploadBytes: 1 << 20, MaxDocumentTokens: 1000})

	_, err := svc.Create(context.Background(), "notes.txt", []byte("plain text"), "", "")
	assert.ErrorIs(t, err, ErrUnreadableDocument)

	_, err = svc.EstimateTokens(context.Background(), []byte("plain text"))
	assert.ErrorIs(t, err, ErrUnreadableDocument)
}

func TestSummaryService_CreateUnderCeilingsGenerates(t *testing.T) {
	t.Parallel()

	gen := &summaryGenStub{tokens: 999, summary: validSummary()}
	svc := newSummaryService(t, gen, SummaryLimits{MaxUploadBytes: 1 << 20, MaxDocumentTokens: 1000})
	svc.extract = func([]byte) (string, int, error) { return "extracted text", 2, nil }

	got, err := svc.Create(context.Background(), "report.pdf", []byte("%PDF-"), "", "")
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", got.FileName)
	assert.Equal(t, 1, gen.generateCalls)
}
