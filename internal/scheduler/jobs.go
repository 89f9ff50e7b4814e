package scheduler

import (
	"context"
	"time"

	"CryptoRelay/internal/analysis"
	"CryptoRelay/internal/collector"
	"CryptoRelay/internal/model"
	"CryptoRelay/internal/notifier"
	"CryptoRelay/internal/publisher"
)

// Jobs wires the refresh actions to their collaborators. Each action fetches
// its own snapshot; nothing is shared between cycles.
type Jobs struct {
	Collector  *collector.Collector
	Sheet      *publisher.SheetPublisher
	Report     *publisher.ReportPublisher
	DocumentID string
	Now        func() time.Time
}

// RefreshSheet fetches a snapshot and overwrites the live sheet with it.
func (j *Jobs) RefreshSheet(ctx context.Context) (model.Outcome, error) {
	snap, err := j.Collector.Collect(ctx)
	if err != nil {
		return model.OutcomeSkipped, err
	}
	return j.Sheet.Publish(ctx, snap)
}

// RefreshReport fetches a snapshot, renders the analysis report and inserts it
// into the document.
func (j *Jobs) RefreshReport(ctx context.Context) (model.Outcome, error) {
	snap, err := j.Collector.Collect(ctx)
	if err != nil {
		return model.OutcomeSkipped, err
	}
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	report := analysis.Generate(snap, now())
	if report == nil {
		return model.OutcomeSkipped, model.ErrEmptySnapshot
	}
	return j.Report.Publish(ctx, notifier.FormatAnalysisReport(report), j.DocumentID)
}
