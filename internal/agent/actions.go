package agent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Huzaifa1910/openaibot/internal/domain"
	"github.com/Huzaifa1910/openaibot/internal/llm"
	"github.com/Huzaifa1910/openaibot/internal/sheets"
)

// Action names the model may call.
const (
	actionAppendDailyLog = "append_daily_log"
	actionLogSessionTurn = "log_session_turn"
)

// functionDefs advertises the two audit-log actions to the model.
var functionDefs = []llm.FunctionDef{
	{
		Name:        actionAppendDailyLog,
		Description: "Record one end-of-day activity row for a sales rep. One row per rep per day; a second call the same day overwrites the first.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"user":         {"type": "string", "description": "Rep name"},
				"ups":          {"type": "string", "description": "Ups taken today"},
				"calls":        {"type": "string", "description": "Calls made today"},
				"followups":    {"type": "string", "description": "Follow-ups completed today"},
				"appointments": {"type": "string", "description": "Appointments set today"}
			},
			"required": ["user", "ups", "calls", "followups", "appointments"]
		}`),
	},
	{
		Name:        actionLogSessionTurn,
		Description: "Append one roleplay turn to the session transcript spreadsheet.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"session_id":     {"type": "string"},
				"user_name":      {"type": "string"},
				"scenario":       {"type": "string"},
				"step":           {"type": "integer"},
				"target_payment": {"type": "integer"},
				"offer_payment":  {"type": "integer"},
				"band":           {"type": "string"},
				"message":        {"type": "string"}
			},
			"required": ["session_id", "user_name", "scenario", "step", "band", "message"]
		}`),
	},
}

type dailyLogArgs struct {
	User         string `json:"user"`
	Ups          string `json:"ups"`
	Calls        string `json:"calls"`
	FollowUps    string `json:"followups"`
	Appointments string `json:"appointments"`
}

type sessionTurnArgs struct {
	SessionID     string `json:"session_id"`
	UserName      string `json:"user_name"`
	Scenario      string `json:"scenario"`
	Step          *int   `json:"step"`
	TargetPayment *int   `json:"target_payment"`
	OfferPayment  *int   `json:"offer_payment"`
	Band          string `json:"band"`
	Message       string `json:"message"`
}

// dispatchResult is what a dispatched action hands back to the model:
// the structured outcome as JSON, plus a canned reply to use if the
// follow-up completion itself fails.
type dispatchResult struct {
	payload  string
	fallback string
}

// dispatchAction executes a model-requested function call against the
// audit logger. Malformed argument JSON degrades to empty arguments and
// the per-field defaults fill in from session state; an unknown action
// name is rejected without touching the logger.
func (c *Coach) dispatchAction(ctx context.Context, sess *domain.Session, call *llm.FunctionCall, userText string) (dispatchResult, bool) {
	switch call.Name {
	case actionAppendDailyLog:
		var args dailyLogArgs
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			c.log.Warn().Str("action", call.Name).Err(err).Msg("malformed function arguments, using defaults")
			args = dailyLogArgs{}
		}
		if strings.TrimSpace(args.User) == "" {
			args.User = sess.UserName
		}
		res := c.audit.UpsertDailyLog(ctx, sheets.DailyLogEntry{
			User:         args.User,
			Ups:          args.Ups,
			Calls:        args.Calls,
			FollowUps:    args.FollowUps,
			Appointments: args.Appointments,
		})
		return dispatchResult{
			payload:  marshalResult(res),
			fallback: "I've recorded your daily log, but encountered an error processing the final response.",
		}, true

	case actionLogSessionTurn:
		var args sessionTurnArgs
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			c.log.Warn().Str("action", call.Name).Err(err).Msg("malformed function arguments, using defaults")
			args = sessionTurnArgs{}
		}
		rec := sessionTurnRecord(sess, args, userText)
		res := c.audit.AppendSessionTurn(ctx, rec)
		return dispatchResult{
			payload:  marshalResult(res),
			fallback: "Noted. Let's keep going.",
		}, true

	default:
		c.log.Warn().Str("action", call.Name).Msg("model called unknown action")
		return dispatchResult{}, false
	}
}

// sessionTurnRecord builds the transcript row for a model-invoked log.
// Identity fields (session ID, user name, scenario) are pinned to live
// session state, so a hallucinated session_id cannot redirect a row to
// another session's tab. Arguments are honored only for the negotiation
// numbers and the message text.
func sessionTurnRecord(sess *domain.Session, args sessionTurnArgs, userText string) sheets.TurnRecord {
	rec := sheets.TurnRecord{
		SessionID: sess.ID,
		UserName:  sess.UserName,
		Scenario:  sess.State.Scenario,
		Step:      sess.State.Step,
		Target:    sess.State.Target,
		Offer:     sess.State.Offer,
		Band:      sess.State.Band,
		Message:   userText,
	}
	if args.Step != nil {
		rec.Step = *args.Step
	}
	if args.TargetPayment != nil {
		rec.Target = args.TargetPayment
	}
	if args.OfferPayment != nil {
		rec.Offer = args.OfferPayment
	}
	if args.Band != "" {
		rec.Band = domain.Band(args.Band)
	}
	if args.Message != "" {
		rec.Message = args.Message
	}
	return rec
}

func marshalResult(res sheets.Result) string {
	b, err := json.Marshal(res)
	if err != nil {
		return `{"ok":false,"error":"internal marshal failure"}`
	}
	return string(b)
}
