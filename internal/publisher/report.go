package publisher

import (
	"context"

	"CryptoRelay/internal/model"

	"go.uber.org/zap"
)

// ReportAnchorIndex is the document start; index 0 is reserved by the Docs API.
const ReportAnchorIndex int64 = 1

// ReportPublisher inserts report text at the start of a document.
//
// Reports are inserted, never replaced, so the document accumulates one
// report per run with the newest on top.
type ReportPublisher struct {
	Backend DocumentBackend
	Logger  *zap.Logger
}

// NewReportPublisher creates a new ReportPublisher.
func NewReportPublisher(backend DocumentBackend, logger *zap.Logger) *ReportPublisher {
	return &ReportPublisher{Backend: backend, Logger: logger.Named("report")}
}

// Publish looks up the document and inserts text at ReportAnchorIndex.
func (p *ReportPublisher) Publish(ctx context.Context, text, documentID string) (model.Outcome, error) {
	if text == "" {
		return model.OutcomeSkipped, model.ErrEmptySnapshot
	}
	p.Logger.Debug("report content", zap.String("content", text))

	title, err := p.Backend.Title(ctx, documentID)
	if err != nil {
		return model.OutcomeSkipped, classify("get document", err)
	}
	p.Logger.Debug("document located", zap.String("document_id", documentID), zap.String("title", title))

	if err := p.Backend.InsertText(ctx, documentID, ReportAnchorIndex, text); err != nil {
		return model.OutcomeSkipped, classify("insert report", err)
	}
	return model.OutcomeReportPublished, nil
}
