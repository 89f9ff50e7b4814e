package publisher

import (
	"context"

	"CryptoRelay/internal/model"
	"CryptoRelay/internal/notifier"
)

// SheetPublisher overwrites the live data sheet with a snapshot.
type SheetPublisher struct {
	Backend SheetBackend
}

// NewSheetPublisher creates a new SheetPublisher.
func NewSheetPublisher(backend SheetBackend) *SheetPublisher {
	return &SheetPublisher{Backend: backend}
}

// Publish clears the sheet and writes header plus one row per asset.
// An empty snapshot leaves the sheet untouched.
func (p *SheetPublisher) Publish(ctx context.Context, snap model.MarketSnapshot) (model.Outcome, error) {
	if snap.Empty() {
		return model.OutcomeSkipped, model.ErrEmptySnapshot
	}
	rows := notifier.FormatSheetRows(snap)

	if err := p.Backend.Clear(ctx); err != nil {
		return model.OutcomeSkipped, classify("clear sheet", err)
	}
	if err := p.Backend.Write(ctx, rows); err != nil {
		return model.OutcomeSkipped, classify("write sheet", err)
	}
	return model.OutcomeSheetPublished, nil
}
