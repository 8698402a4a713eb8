// Package sheets appends output rows to a Google Sheets spreadsheet.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/catalog"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// CredentialsEnv holds service account credentials JSON when no file is given.
const CredentialsEnv = "GOOGLE_SHEETS_CREDENTIALS"

// DefaultSheet is the worksheet rows are appended to.
const DefaultSheet = "Sheet1"

// Compile-time interface verification.
var _ catalog.RowSink = (*Appender)(nil)

// Appender is a catalog.RowSink appending one spreadsheet row per call.
// Google Sheets stores the row before the call returns.
type Appender struct {
	service       *sheets.Service
	spreadsheetID string
	sheet         string
}

// NewAppender creates an Appender for the spreadsheet with the given ID.
// Client options carry credentials, e.g. option.WithCredentialsJSON.
func NewAppender(ctx context.Context, spreadsheetID, sheet string, opts ...option.ClientOption) (*Appender, error) {
	if spreadsheetID == "" {
		return nil, catalog.Errorf(catalog.EINVALID, "spreadsheet ID required")
	}
	if sheet == "" {
		sheet = DefaultSheet
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Appender{
		service:       service,
		spreadsheetID: spreadsheetID,
		sheet:         sheet,
	}, nil
}

// AppendRow appends the row's cells after the last row with data.
func (a *Appender) AppendRow(ctx context.Context, row *catalog.Row) error {
	return a.append(ctx, row.Values())
}

// AppendError appends message alone on a new row.
func (a *Appender) AppendError(ctx context.Context, message string) error {
	return a.append(ctx, []string{message})
}

// Close is a no-op; every append is already stored.
func (a *Appender) Close() error {
	return nil
}

func (a *Appender) append(ctx context.Context, cells []string) error {
	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = c
	}

	_, err := a.service.Spreadsheets.Values.Append(a.spreadsheetID, a.sheet+"!A1", &sheets.ValueRange{
		Values: [][]any{values},
	}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append to sheets: %w", err)
	}
	return nil
}

// LoadCredentials reads service account credentials from path, or from the
// CredentialsEnv value returned by getenv when path is empty.
func LoadCredentials(path string, getenv func(string) string) ([]byte, error) {
	var credsJSON []byte
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, catalog.Errorf(catalog.EINVALID, "failed to read credentials file: %v", err)
		}
		credsJSON = data
	} else {
		env := strings.TrimSpace(getenv(CredentialsEnv))
		if env == "" {
			return nil, catalog.Errorf(catalog.EINVALID, "credentials not found: pass --credentials or set %s", CredentialsEnv)
		}
		credsJSON = []byte(env)
	}

	var creds struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(credsJSON, &creds); err != nil {
		return nil, catalog.Errorf(catalog.EINVALID, "invalid credentials JSON: %v", err)
	}
	if creds.Type != "service_account" {
		return nil, catalog.Errorf(catalog.EINVALID, "credentials must be a service account JSON file, got type %q", creds.Type)
	}
	return credsJSON, nil
}

// ExtractSpreadsheetID returns the ID from a Google Sheets URL such as
// https://docs.google.com/spreadsheets/d/<ID>/edit. A bare ID is returned as is.
func ExtractSpreadsheetID(s string) string {
	s = strings.TrimSpace(s)
	_, after, found := strings.Cut(s, "/d/")
	if !found {
		if strings.Contains(s, "/") {
			return ""
		}
		return s
	}
	if i := strings.IndexAny(after, "/?#"); i != -1 {
		after = after[:i]
	}
	return after
}
