package model

import "errors"

// Outcome indicates what a refresh cycle achieved.
type Outcome string

const (
	OutcomeSkipped         Outcome = "SKIPPED"
	OutcomeSheetPublished  Outcome = "SHEET_PUBLISHED"
	OutcomeReportPublished Outcome = "REPORT_PUBLISHED"
)

// Error kinds returned by refresh cycles. Callers classify with errors.Is.
var (
	ErrFetchFailed   = errors.New("fetch failed")
	ErrAuthFailed    = errors.New("auth failed")
	ErrPublishFailed = errors.New("publish failed")
	ErrEmptySnapshot = errors.New("no crypto data retrieved")
)
