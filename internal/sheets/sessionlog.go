package sheets

import (
	"context"
	"fmt"
	"time"
)

// sessionHeaders is the fixed column layout of a per-session transcript
// tab.
var sessionHeaders = []string{
	"TimestampUTC", "UserName", "SessionId", "Scenario", "Step",
	"TargetPayment", "OfferPayment", "Band", "Message",
}

// AppendSessionTurn appends one transcript row to the tab named after
// the session. Missing target/offer render as empty cells.
func (c *Client) AppendSessionTurn(ctx context.Context, rec TurnRecord) Result {
	if c.sessionID == "" {
		return Result{OK: false, Error: "session log spreadsheet is not configured"}
	}

	tab := SanitizeSheetTitle(rec.SessionID)
	if res := c.setupSheet(ctx, c.sessionID, tab, sessionHeaders); res != nil {
		return *res
	}

	row := [][]interface{}{{
		c.now().UTC().Format(time.RFC3339),
		rec.UserName,
		rec.SessionID,
		string(rec.Scenario),
		rec.Step,
		optionalCell(rec.Target),
		optionalCell(rec.Offer),
		string(rec.Band),
		rec.Message,
	}}

	rng := fmt.Sprintf("'%s'!A1", tab)
	_, err := c.values().Append(c.sessionID, rng, valueRange(row)).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		c.log.Warn().Err(err).Str("sheet", tab).Msg("session turn append failed")
		return Result{OK: false, Error: "error appending data: " + err.Error()}
	}
	return Result{OK: true, Sheet: tab}
}

func optionalCell(n *int) interface{} {
	if n == nil {
		return ""
	}
	return *n
}
