package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"budget/internal/export"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client appends payment rows to a Google Sheets ledger.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Ensure interface conformance
var _ export.LedgerWriter = (*Client)(nil)

// New creates a Sheets client for the given spreadsheet and sheet name.
// Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, spreadsheetID, sheetName string) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheetName = strings.TrimSpace(sheetName)
	if sheetName == "" {
		sheetName = "Ledger"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
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

// AppendPayment writes one payment row to the ledger sheet. Columns:
// date, bill ID, bill name, amount, remaining balance.
func (c *Client) AppendPayment(ctx context.Context, entry export.LedgerEntry) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	// Find the next empty row from the sheet dimensions.
	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get sheet dimensions for %s: %w", c.sheetName, err)
	}
	nextRow := len(resp.Values) + 1

	dataRange := fmt.Sprintf("%s!A%d:E%d", c.sheetName, nextRow, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{{
		entry.PaidAt.UTC().Format("2006-01-02"),
		entry.BillID,
		entry.BillName,
		entry.Amount.Dollars(),
		entry.Remaining.Dollars(),
	}}}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("update %s: %w", dataRange, err)
	}

	return dataRange, nil
}
