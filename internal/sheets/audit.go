// Package sheets implements the audit-log collaborator on Google Sheets:
// an idempotent daily-log upsert keyed by user and calendar day, and an
// append-only per-session transcript, one spreadsheet tab per session.
//
// Every operation returns a Result instead of an error. The collaborator
// is best-effort by contract; a Sheets failure must never abort the chat
// turn that triggered it.
package sheets

import (
	"context"

	"github.com/Huzaifa1910/openaibot/internal/domain"
)

// Result is the outcome of an audit-log operation.
type Result struct {
	OK    bool   `json:"ok"`
	Mode  string `json:"mode,omitempty"` // daily log: "insert" or "update"
	Row   int    `json:"row,omitempty"`  // daily log: updated row number
	Sheet string `json:"sheet,omitempty"`
	Error string `json:"error,omitempty"`
}

// DailyLogEntry is one end-of-day activity submission. Counts arrive as
// strings because they are relayed verbatim from the model's arguments.
type DailyLogEntry struct {
	User         string
	Ups          string
	Calls        string
	FollowUps    string
	Appointments string
}

// TurnRecord is one conversational turn for the session transcript.
type TurnRecord struct {
	SessionID string
	UserName  string
	Scenario  domain.Scenario
	Step      int
	Target    *int
	Offer     *int
	Band      domain.Band
	Message   string
}

// AuditLogger is the interface the coach writes through.
type AuditLogger interface {
	// UpsertDailyLog writes one row per user per calendar day. A second
	// submission on the same day overwrites the existing row.
	UpsertDailyLog(ctx context.Context, e DailyLogEntry) Result

	// AppendSessionTurn appends one transcript row to the session's tab.
	// No dedup: retried calls produce duplicate rows.
	AppendSessionTurn(ctx context.Context, rec TurnRecord) Result
}

// Disabled is an AuditLogger used when no spreadsheet is configured.
// Calls report a structured failure that the model can phrase to the
// user; nothing is written anywhere.
type Disabled struct{}

func (Disabled) UpsertDailyLog(context.Context, DailyLogEntry) Result {
	return Result{OK: false, Error: "daily log spreadsheet is not configured"}
}

func (Disabled) AppendSessionTurn(context.Context, TurnRecord) Result {
	return Result{OK: false, Error: "session log spreadsheet is not configured"}
}
