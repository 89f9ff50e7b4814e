package publisher

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// GoogleSheet implements SheetBackend on the first worksheet of a spreadsheet.
type GoogleSheet struct {
	Service       *sheets.Service
	SpreadsheetID string
	SheetTitle    string
}

// NewGoogleSheet authenticates and opens the spreadsheet. When id is empty the
// spreadsheet is looked up by name through Drive.
func NewGoogleSheet(ctx context.Context, name, id string, opts ...option.ClientOption) (*GoogleSheet, error) {
	sheetsSvc, err := sheets.NewService(ctx, withScopes(opts, sheets.SpreadsheetsScope)...)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	if id == "" {
		driveSvc, err := drive.NewService(ctx, withScopes(opts, drive.DriveReadonlyScope)...)
		if err != nil {
			return nil, fmt.Errorf("drive client: %w", err)
		}
		if id, err = FindSpreadsheetID(ctx, driveSvc, name); err != nil {
			return nil, err
		}
	}
	return OpenSpreadsheet(ctx, sheetsSvc, id)
}

// FindSpreadsheetID returns the id of the first spreadsheet with the given name.
func FindSpreadsheetID(ctx context.Context, svc *drive.Service, name string) (string, error) {
	esc := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(name)
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", esc, spreadsheetMimeType)
	list, err := svc.Files.List().
		Q(q).
		Fields("files(id, name)").
		PageSize(1).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("find spreadsheet %q: %w", name, err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("spreadsheet %q not found", name)
	}
	return list.Files[0].Id, nil
}

// OpenSpreadsheet resolves the title of the first worksheet.
func OpenSpreadsheet(ctx context.Context, svc *sheets.Service, id string) (*GoogleSheet, error) {
	ss, err := svc.Spreadsheets.Get(id).Fields("spreadsheetId,sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet %s: %w", id, err)
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return nil, fmt.Errorf("spreadsheet %s has no worksheets", id)
	}
	return &GoogleSheet{Service: svc, SpreadsheetID: id, SheetTitle: ss.Sheets[0].Properties.Title}, nil
}

func (g *GoogleSheet) sheetRange() string {
	return "'" + strings.ReplaceAll(g.SheetTitle, "'", "''") + "'"
}

// Clear removes all cell values from the worksheet.
func (g *GoogleSheet) Clear(ctx context.Context) error {
	_, err := g.Service.Spreadsheets.Values.Clear(g.SpreadsheetID, g.sheetRange(), &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	return err
}

// Write stores rows starting at A1 without value parsing.
func (g *GoogleSheet) Write(ctx context.Context, rows [][]string) error {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = make([]interface{}, len(row))
		for j, cell := range row {
			values[i][j] = cell
		}
	}
	_, err := g.Service.Spreadsheets.Values.Update(g.SpreadsheetID, g.sheetRange()+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

// GoogleDocs implements DocumentBackend with the Docs API.
type GoogleDocs struct {
	Service *docs.Service
}

// NewGoogleDocs authenticates a Docs client with document and drive scopes.
func NewGoogleDocs(ctx context.Context, opts ...option.ClientOption) (*GoogleDocs, error) {
	svc, err := docs.NewService(ctx, withScopes(opts, docs.DocumentsScope, drive.DriveScope)...)
	if err != nil {
		return nil, fmt.Errorf("docs client: %w", err)
	}
	return &GoogleDocs{Service: svc}, nil
}

func (d *GoogleDocs) Title(ctx context.Context, documentID string) (string, error) {
	doc, err := d.Service.Documents.Get(documentID).Fields("title").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return doc.Title, nil
}

func (d *GoogleDocs) InsertText(ctx context.Context, documentID string, index int64, text string) error {
	req := &docs.BatchUpdateDocumentRequest{
		Requests: []*docs.Request{{
			InsertText: &docs.InsertTextRequest{
				Location: &docs.Location{Index: index},
				Text:     text,
			},
		}},
	}
	_, err := d.Service.Documents.BatchUpdate(documentID, req).Context(ctx).Do()
	return err
}

func withScopes(opts []option.ClientOption, scopes ...string) []option.ClientOption {
	out := make([]option.ClientOption, 0, len(opts)+1)
	out = append(out, opts...)
	return append(out, option.WithScopes(scopes...))
}
