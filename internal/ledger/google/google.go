// Package google implements the ledger contract against a remote Google
// spreadsheet with two worksheets: "data" (one row per record) and "config"
// (a single fuel-rate cell).
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"kotsuhi/internal/core"
	"kotsuhi/internal/ledger"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	dataSheet     string
	configSheet   string

	mu       sync.Mutex
	sheetIDs map[string]int64 // worksheet title -> sheetId, fetched lazily
}

// Ensure interface conformance
var _ ledger.Store = (*Client)(nil)

// NewFromEnv creates a Sheets-backed ledger using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Optional worksheet names: GOOGLE_DATA_SHEET_NAME (default "data"),
// GOOGLE_CONFIG_SHEET_NAME (default "config").
// Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	dataSheet := strings.TrimSpace(os.Getenv("GOOGLE_DATA_SHEET_NAME"))
	if dataSheet == "" {
		dataSheet = "data"
	}
	configSheet := strings.TrimSpace(os.Getenv("GOOGLE_CONFIG_SHEET_NAME"))
	if configSheet == "" {
		configSheet = "config"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		dataSheet:     dataSheet,
		configSheet:   configSheet,
		sheetIDs:      make(map[string]int64),
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// ListRecords reads the full data worksheet. The first row is the header;
// rows that do not parse are skipped, listing is best-effort.
func (c *Client) ListRecords(ctx context.Context) ([]core.Record, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:F", c.dataSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	records, skipped := parseRecordRows(resp.Values)
	if skipped > 0 {
		slog.WarnContext(ctx, "Skipped unparsable sheet rows", "sheet", c.dataSheet, "skipped", skipped)
	}
	return records, nil
}

// Append issues a single append-row call against the data worksheet.
func (c *Client) Append(ctx context.Context, r core.Record) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:F", c.dataSheet)
	vr := &gsheet.ValueRange{Values: [][]any{recordToRow(r)}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row to %s: %w", c.dataSheet, err)
	}
	return nil
}

// DeleteAt removes the record at the given storage position. The spreadsheet
// has no row handle that survives across requests, so the worksheet is
// re-fetched first and the delete targets the freshly computed row number.
// The fetch-then-delete pair is not atomic: a concurrent writer in between
// can shift row numbers. Accepted for a single-office deployment.
func (c *Client) DeleteAt(ctx context.Context, pos int) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:F", c.dataSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read %s: %w", rng, err)
	}
	rowIndex, ok := sheetRowForPosition(resp.Values, pos)
	if !ok {
		return fmt.Errorf("delete position %d: %w", pos, ledger.ErrNoSuchRow)
	}

	sheetID, err := c.sheetID(ctx, c.dataSheet)
	if err != nil {
		return err
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowIndex),
					EndIndex:   int64(rowIndex + 1),
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d in %s: %w", rowIndex+1, c.dataSheet, err)
	}
	return nil
}

// FuelRate reads the single scalar cell of the config worksheet. An empty or
// unparsable cell falls back to the default rate; only transport failures
// surface as errors.
func (c *Client) FuelRate(ctx context.Context) (decimal.Decimal, error) {
	if c.svc == nil {
		return core.DefaultFuelRate, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A1", c.configSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return core.DefaultFuelRate, fmt.Errorf("read %s: %w", rng, err)
	}
	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return core.DefaultFuelRate, nil
	}
	return parseRateCell(fmt.Sprint(resp.Values[0][0])), nil
}

func (c *Client) SetFuelRate(ctx context.Context, rate decimal.Decimal) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A1", c.configSheet)
	vr := &gsheet.ValueRange{Values: [][]any{{rate.String()}}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

// sheetID resolves a worksheet title to its numeric sheetId, required by the
// DeleteDimension request. Resolved ids are kept for the client's lifetime.
func (c *Client) sheetID(ctx context.Context, title string) (int64, error) {
	c.mu.Lock()
	if id, ok := c.sheetIDs[title]; ok {
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet metadata: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties == nil {
			continue
		}
		c.mu.Lock()
		c.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
		c.mu.Unlock()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.sheetIDs[title]
	if !ok {
		return 0, fmt.Errorf("worksheet %q not found in spreadsheet", title)
	}
	return id, nil
}
