package publisher

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"CryptoRelay/internal/model"

	"google.golang.org/api/googleapi"
)

// SheetBackend is the spreadsheet capability set the sheet publisher needs.
type SheetBackend interface {
	Clear(ctx context.Context) error
	Write(ctx context.Context, rows [][]string) error
}

// DocumentBackend is the document capability set the report publisher needs.
type DocumentBackend interface {
	Title(ctx context.Context, documentID string) (string, error)
	InsertText(ctx context.Context, documentID string, index int64, text string) error
}

// classify wraps a backend error with its error kind. HTTP 401/403 responses
// from Google count as auth failures, everything else as publish failures.
func classify(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden) {
		return fmt.Errorf("%w: %s: %w", model.ErrAuthFailed, op, err)
	}
	return fmt.Errorf("%w: %s: %w", model.ErrPublishFailed, op, err)
}
