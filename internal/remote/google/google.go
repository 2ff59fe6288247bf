// Package google stores the budget in a Google Spreadsheet. The budget sheet
// holds one key/amount pair per row; the history sheet collects one row per
// archived snapshot.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"bilancio/internal/core"
	"bilancio/internal/remote"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	budgetSheet   string
	historySheet  string
	reg           *core.Registry
}

// Ensure interface conformance
var (
	_ remote.Store    = (*Client)(nil)
	_ remote.Archiver = (*Client)(nil)
)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Optional sheet names: GOOGLE_BUDGET_SHEET_NAME (default "Bilancio"),
// GOOGLE_HISTORY_SHEET_NAME (default "Storico").
// Auth: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context, reg *core.Registry) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	budgetSheet := strings.TrimSpace(os.Getenv("GOOGLE_BUDGET_SHEET_NAME"))
	if budgetSheet == "" {
		budgetSheet = "Bilancio"
	}
	historySheet := strings.TrimSpace(os.Getenv("GOOGLE_HISTORY_SHEET_NAME"))
	if historySheet == "" {
		historySheet = "Storico"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		budgetSheet:   budgetSheet,
		historySheet:  historySheet,
		reg:           reg,
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

// Fetch reads key/amount rows from the budget sheet. A sheet with no data
// rows means no budget has been saved yet.
func (c *Client) Fetch(ctx context.Context) (core.Snapshot, error) {
	if c.svc == nil {
		return core.Snapshot{}, errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A2:B", c.budgetSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("read %s: %w", rng, err)
	}

	wire := parseBudgetRows(resp.Values)
	if len(wire) == 0 {
		return core.Snapshot{}, remote.ErrNotFound
	}
	return remote.Decode(c.reg, wire), nil
}

// Save rewrites the budget sheet with the snapshot's key/amount rows. Rows
// are written in registry order with income first, so the sheet stays
// readable by hand.
func (c *Client) Save(ctx context.Context, s core.Snapshot) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rows := [][]any{{remote.IncomeKey, s.Income}}
	for _, cat := range c.reg.Categories() {
		rows = append(rows, []any{cat.ID, s.Amounts[cat.ID]})
	}

	rng := fmt.Sprintf("%s!A2:B%d", c.budgetSheet, 1+len(rows))
	vr := &gsheet.ValueRange{Values: rows}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	slog.DebugContext(ctx, "budget written to sheet", "sheet", c.budgetSheet, "rows", len(rows))
	return nil
}

// Archive appends one row to the history sheet: timestamp, income, total
// expenses, remaining, then one column per category in registry order.
func (c *Client) Archive(ctx context.Context, s core.Snapshot) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	// Find the next empty row from the sheet's current dimensions.
	rng := fmt.Sprintf("%s!A:A", c.historySheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get sheet dimensions for %s: %w", c.historySheet, err)
	}
	nextRow := len(resp.Values) + 1

	row := []any{time.Now().UTC().Format(time.RFC3339), s.Income, s.TotalExpenses, s.Remaining}
	for _, cat := range c.reg.Categories() {
		row = append(row, s.Amounts[cat.ID])
	}

	dataRange := fmt.Sprintf("%s!A%d", c.historySheet, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append history row to %s: %w", c.historySheet, err)
	}

	return fmt.Sprintf("%s!A%d", c.historySheet, nextRow), nil
}
