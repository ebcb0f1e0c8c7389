package core

import (
	"context"
	"fmt"

	"cramdeck.app/backend/internal/logger"
	"cramdeck.app/backend/internal/pdfx"
	"cramdeck.app/backend/internal/store"
)

type SummaryLimits struct {
	MaxUploadBytes    int
	MaxDocumentTokens int
}

type SummaryService struct {
	store  *store.FileStore
	gen    Generator
	log    *logger.Logger
	limits SummaryLimits

	// extract is swapped out in tests.
	extract func(data []byte) (text string, pageCount int, err error)
}

func NewSummaryService(st *store.FileStore, gen Generator, limits SummaryLimits, log *logger.Logger) *SummaryService {
	return &SummaryService{
		store:   st,
		gen:     gen,
		limits:  limits,
		log:     log.With("service", "SummaryService"),
		extract: pdfx.Extract,
	}
}

// TokenCount is the cost estimate for a candidate document.
type TokenCount struct {
	TotalTokens int `json:"totalTokens"`
	PageCount   int `json:"pageCount"`
	TextLength  int `json:"textLength"`
}

// EstimateTokens extracts a document's text and asks the backend what a
// generation over it would cost, without committing to one.
func (s *SummaryService) EstimateTokens(ctx context.Context, data []byte) (*TokenCount, error) {
	if len(data) > s.limits.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrDocumentTooLarge, len(data))
	}
	text, pages, err := s.extract(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
	tokens, err := s.gen.CountTokens(ctx, text)
	if err != nil {
		return nil, err
	}
	return &TokenCount{TotalTokens: tokens, PageCount: pages, TextLength: len(text)}, nil
}

// Create summarizes an uploaded document and, when a user id is supplied,
// persists the result. The byte ceiling is checked before extraction and the
// token ceiling before generation; both are independent of the generation
// call itself.
func (s *SummaryService) Create(ctx context.Context, fileName string, data []byte, extra, userID string) (*store.Summary, error) {
	if len(data) > s.limits.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrDocumentTooLarge, len(data))
	}
	text, pages, err := s.extract(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}

	tokens, err := s.gen.CountTokens(ctx, text)
	if err != nil {
		return nil, err
	}
	if tokens > s.limits.MaxDocumentTokens {
		return nil, fmt.Errorf("%w: estimated %d tokens", ErrDocumentTooLarge, tokens)
	}

	summary, err := s.gen.GenerateSummary(ctx, fileName, text, pages, extra)
	if err != nil {
		return nil, err
	}
	if userID != "" {
		if err := s.store.AddSummary(userID, *summary); err != nil {
			return nil, err
		}
		s.log.Info("summary stored", "user_id", userID, "summary_id", summary.ID, "pages", pages)
	}
	return summary, nil
}

func (s *SummaryService) List(userID string, start, limit int) (Batch[store.Summary], error) {
	user, err := s.store.GetUserByID(userID)
	if err != nil {
		return Batch[store.Summary]{}, err
	}
	if user == nil {
		return Batch[store.Summary]{}, store.ErrUserNotFound
	}
	return ListBatch(user.Summaries, start, limit), nil
}

func (s *SummaryService) Delete(userID, summaryID string) error {
	return s.store.RemoveSummary(userID, summaryID)
}
