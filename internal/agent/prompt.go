package agent

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Huzaifa1910/openaibot/internal/domain"
	"github.com/Huzaifa1910/openaibot/internal/llm"
)

const (
	// historyWindow is how many of the most recent turns are replayed to
	// the model each request.
	historyWindow = 10

	// maxContextMessages caps the assembled request. System messages are
	// never dropped; oldest conversation messages go first.
	maxContextMessages = 15
)

// stateSnapshot is the JSON view of the negotiation state handed to the
// model inside a system message.
type stateSnapshot struct {
	UserName      string `json:"user_name"`
	SessionID     string `json:"session_id"`
	Scenario      string `json:"scenario"`
	Step          int    `json:"step"`
	TargetPayment *int   `json:"target_payment"`
	OfferPayment  *int   `json:"offer_payment"`
	Band          string `json:"band"`
	NowUTC        string `json:"now_utc"`
}

// BuildMessages assembles the completion context for one turn: the
// persona, the identity and style directives, a machine-readable state
// snapshot, then a sliding window of recent conversation ending with
// the user's new message.
func BuildMessages(sess *domain.Session, history []domain.Turn, userText string, now time.Time) []llm.Message {
	snap := stateSnapshot{
		UserName:      sess.UserName,
		SessionID:     sess.ID,
		Scenario:      string(sess.State.Scenario),
		Step:          sess.State.Step,
		TargetPayment: sess.State.Target,
		OfferPayment:  sess.State.Offer,
		Band:          string(sess.State.Band),
		NowUTC:        now.UTC().Format(time.RFC3339),
	}
	snapJSON, _ := json.Marshal(snap)

	msgs := []llm.Message{
		{Role: llm.RoleSystem, Content: characterPrompt},
		{Role: llm.RoleSystem, Content: fmt.Sprintf("User: %s. Session: %s.", sess.UserName, sess.ID)},
		{Role: llm.RoleSystem, Content: styleDirective},
		{Role: llm.RoleSystem, Content: "SESSION_STATE_JSON=" + string(snapJSON)},
	}

	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	for _, t := range history {
		msgs = append(msgs, llm.Message{Role: t.Role, Content: t.Content})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: userText})

	return Truncate(msgs, maxContextMessages)
}

// Truncate trims msgs down to max entries, dropping the oldest
// non-system messages first. System messages always survive.
func Truncate(msgs []llm.Message, max int) []llm.Message {
	if len(msgs) <= max {
		return msgs
	}
	var system, rest []llm.Message
	for _, m := range msgs {
		if m.Role == llm.RoleSystem {
			system = append(system, m)
		} else {
			rest = append(rest, m)
		}
	}
	keep := max - len(system)
	if keep < 0 {
		keep = 0
	}
	if len(rest) > keep {
		rest = rest[len(rest)-keep:]
	}
	return append(system, rest...)
}
