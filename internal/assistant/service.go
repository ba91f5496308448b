package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"vinpoint/internal/intelligence"
	"vinpoint/internal/valuations"
)

type service struct {
	valuations valuations.System
	intel      intelligence.System
	logger     *slog.Logger
}

// New creates an assistant service implementing the System interface.
func New(
	valuationSys valuations.System,
	intel intelligence.System,
	logger *slog.Logger,
) System {
	return &service{
		valuations: valuationSys,
		intel:      intel,
		logger:     logger.With("system", "assistant"),
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

// Ask answers a question about a persisted valuation.
func (s *service) Ask(ctx context.Context, q Question) (*Answer, error) {
	question := strings.TrimSpace(q.Question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	v, err := s.valuations.Find(ctx, q.ValuationID)
	if err != nil {
		return nil, err
	}

	answer, err := s.intel.GenerateText(ctx, composePrompt(v, question))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	s.logger.Info("question answered", "valuation_id", q.ValuationID)

	return &Answer{
		ValuationID: q.ValuationID,
		Question:    question,
		Answer:      strings.TrimSpace(answer),
	}, nil
}
