package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const dailyLogSheet = "DailyLog"

// dailyHeaders is the fixed column layout of the daily activity log.
// LogId (column G) carries the idempotency key.
var dailyHeaders = []string{"DateUTC", "User", "Ups", "Calls", "FollowUps", "Appointments", "LogId"}

// UpsertDailyLog writes the user's activity row for today. The LogId
// column is scanned for an existing row with the same user|date key;
// when found, the row is overwritten in place instead of appended.
func (c *Client) UpsertDailyLog(ctx context.Context, e DailyLogEntry) Result {
	if c.dailyID == "" {
		return Result{OK: false, Error: "daily log spreadsheet is not configured"}
	}

	if res := c.setupSheet(ctx, c.dailyID, dailyLogSheet, dailyHeaders); res != nil {
		return *res
	}

	now := c.now().UTC()
	logID := DailyLogID(e.User, now)
	row := [][]interface{}{{
		now.Format(time.RFC3339), e.User, e.Ups, e.Calls, e.FollowUps, e.Appointments, logID,
	}}

	rowIdx := c.findDailyRow(ctx, logID)
	if rowIdx > 0 {
		rng := fmt.Sprintf("'%s'!A%d:G%d", dailyLogSheet, rowIdx, rowIdx)
		_, err := c.values().Update(c.dailyID, rng, valueRange(row)).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			c.log.Warn().Err(err).Msg("daily log update failed")
			return Result{OK: false, Error: "error updating row: " + err.Error()}
		}
		c.log.Info().Str("logId", logID).Int("row", rowIdx).Msg("daily log row updated")
		return Result{OK: true, Mode: "update", Row: rowIdx}
	}

	rng := fmt.Sprintf("'%s'!A1", dailyLogSheet)
	_, err := c.values().Append(c.dailyID, rng, valueRange(row)).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		c.log.Warn().Err(err).Msg("daily log append failed")
		return Result{OK: false, Error: "error appending row: " + err.Error()}
	}
	c.log.Info().Str("logId", logID).Msg("daily log row appended")
	return Result{OK: true, Mode: "insert"}
}

// findDailyRow scans the LogId column for an existing entry. Returns the
// 1-based sheet row number, or 0 when absent (or on read failure — a
// failed scan degrades to an append).
func (c *Client) findDailyRow(ctx context.Context, logID string) int {
	rng := fmt.Sprintf("'%s'!G2:G", dailyLogSheet)
	existing, err := c.values().Get(c.dailyID, rng).Context(ctx).Do()
	if err != nil {
		c.log.Debug().Err(err).Msg("daily log id scan failed")
		return 0
	}
	for i, row := range existing.Values {
		if len(row) == 0 {
			continue
		}
		val, _ := row[0].(string)
		if strings.ToLower(strings.TrimSpace(val)) == logID {
			return i + 2 // values start at sheet row 2
		}
	}
	return 0
}
