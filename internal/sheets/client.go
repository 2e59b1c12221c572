package sheets

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Huzaifa1910/openaibot/internal/config"
	"github.com/Huzaifa1910/openaibot/internal/logging"
)

// Client talks to the Google Sheets API for both audit logs.
type Client struct {
	svc       *sheets.Service
	dailyID   string
	sessionID string
	log       *logging.Logger
	now       func() time.Time
}

// New creates a Sheets client from service-account credentials. The
// credentials may be inline JSON or a file path; inline wins.
func New(ctx context.Context, cfg config.SheetsConfig, log *logging.Logger) (*Client, error) {
	data := []byte(cfg.CredentialsJSON)
	if len(data) == 0 {
		if cfg.CredentialsFile == "" {
			return nil, fmt.Errorf("no sheets credentials configured")
		}
		var err error
		data, err = os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("reading sheets credentials: %w", err)
		}
	}

	jwt, err := google.JWTConfigFromJSON(data,
		sheets.SpreadsheetsScope, sheets.DriveScope, sheets.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	log.Info().Str("serviceAccount", jwt.Email).Msg("sheets audit logger ready")
	return NewWithService(svc, cfg.DailyLogSpreadsheetID, cfg.SessionLogSpreadsheetID, log), nil
}

// NewWithService wraps an already-constructed Sheets service. Used by
// tests to point the client at a fake API server.
func NewWithService(svc *sheets.Service, dailyID, sessionID string, log *logging.Logger) *Client {
	return &Client{
		svc:       svc,
		dailyID:   dailyID,
		sessionID: sessionID,
		log:       log.Sub("sheets"),
		now:       time.Now,
	}
}

// sheetTitleRe matches the characters Sheets forbids in tab names.
var sheetTitleRe = regexp.MustCompile(`[:\\/\?\*\[\]]`)

// SanitizeSheetTitle makes a session identifier safe to use as a tab
// name: forbidden characters become dashes and the result is capped at
// 99 characters. An empty name falls back to "session".
func SanitizeSheetTitle(name string) string {
	n := strings.TrimSpace(name)
	n = sheetTitleRe.ReplaceAllString(n, "-")
	if len(n) > 99 {
		n = n[:99]
	}
	if n == "" {
		return "session"
	}
	return n
}

// DailyLogID derives the idempotency key for a daily-log row: the user
// name and the UTC calendar day, lower-cased.
func DailyLogID(user string, t time.Time) string {
	return strings.ToLower(user + "|" + t.UTC().Format("2006-01-02"))
}

// ensureSheet creates the named tab if the spreadsheet doesn't have it.
// A 400 or 409 from the add request means it already exists.
func (c *Client) ensureSheet(ctx context.Context, spreadsheetID, title string) error {
	meta, err := c.svc.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err == nil {
		for _, sh := range meta.Sheets {
			if sh.Properties != nil && sh.Properties.Title == title {
				return nil
			}
		}
	}

	_, err = c.svc.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		if ge, ok := err.(*googleapi.Error); ok && (ge.Code == 400 || ge.Code == 409) {
			return nil
		}
		return fmt.Errorf("adding sheet %q: %w", title, err)
	}
	return nil
}

// ensureHeaderRow writes the header row if it is missing or doesn't
// match the expected columns.
func (c *Client) ensureHeaderRow(ctx context.Context, spreadsheetID, title string, headers []string) error {
	rng := fmt.Sprintf("'%s'!1:1", title)

	current, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err == nil && len(current.Values) > 0 && headersMatch(current.Values[0], headers) {
		return nil
	}

	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	_, err = c.svc.Spreadsheets.Values.Update(spreadsheetID, rng, &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing header row for %q: %w", title, err)
	}
	return nil
}

// values shortens access to the spreadsheet values API.
func (c *Client) values() *sheets.SpreadsheetsValuesService {
	return c.svc.Spreadsheets.Values
}

func valueRange(rows [][]interface{}) *sheets.ValueRange {
	return &sheets.ValueRange{Values: rows}
}

func headersMatch(got []interface{}, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i, v := range got {
		s, ok := v.(string)
		if !ok || s != want[i] {
			return false
		}
	}
	return true
}

// setupSheet creates the tab and header row, reporting a Result on
// failure so callers can hand the error straight back to the model.
func (c *Client) setupSheet(ctx context.Context, spreadsheetID, title string, headers []string) *Result {
	if err := c.ensureSheet(ctx, spreadsheetID, title); err != nil {
		c.log.Warn().Err(err).Str("sheet", title).Msg("sheet setup failed")
		return &Result{OK: false, Error: "error setting up sheet: " + err.Error()}
	}
	if err := c.ensureHeaderRow(ctx, spreadsheetID, title, headers); err != nil {
		c.log.Warn().Err(err).Str("sheet", title).Msg("header setup failed")
		return &Result{OK: false, Error: "error setting up sheet: " + err.Error()}
	}
	return nil
}
