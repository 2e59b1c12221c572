// Package agent implements the sales-coach conversation loop: per-session
// negotiation state, prompt assembly, the OpenAI function-calling round
// trip, and dispatch of the audit-log actions the model may invoke.
package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Huzaifa1910/openaibot/internal/domain"
	"github.com/Huzaifa1910/openaibot/internal/engine"
	"github.com/Huzaifa1910/openaibot/internal/llm"
	"github.com/Huzaifa1910/openaibot/internal/logging"
	"github.com/Huzaifa1910/openaibot/internal/sheets"
)

// Fallback replies when the model or the pipeline misbehaves.
const (
	replyWorkingOnIt = "Working on it…"
	replyErrorFmt    = "Sorry, I encountered an error: %s. Please try again or contact support."
	replyUnknownCmd  = "Not sure what you meant. Try a command like !pvf, !roleplay price, or !dailylog."

	defaultUserName = "User"
)

// Options configures a Coach.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64

	// IdleTTL is how long a session may sit idle before its negotiation
	// state resets. Zero means engine.DefaultSessionTTL.
	IdleTTL time.Duration

	// MaxStoredTurns caps how many turns a session keeps after each
	// exchange. Zero disables pruning.
	MaxStoredTurns int
}

// Coach drives chat sessions end to end. One Coach serves all sessions;
// turns within a session are processed strictly in order.
type Coach struct {
	llm      llm.Client
	sessions SessionStore
	machine  *engine.Machine
	audit    sheets.AuditLogger
	log      *logging.Logger
	opts     Options
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionEntry
}

// New creates a Coach. A nil audit logger degrades to sheets.Disabled.
func New(client llm.Client, store SessionStore, audit sheets.AuditLogger, log *logging.Logger, opts Options) *Coach {
	if audit == nil {
		audit = sheets.Disabled{}
	}
	return &Coach{
		llm:      client,
		sessions: store,
		machine:  engine.NewMachine(opts.IdleTTL),
		audit:    audit,
		log:      log.Sub("agent"),
		opts:     opts,
		now:      time.Now,
		locks:    make(map[string]*sessionEntry),
	}
}

// HandleEvent processes one UI event and returns the refreshed chat
// state for that session. Events for the same session are serialized;
// different sessions proceed concurrently.
func (c *Coach) HandleEvent(ctx context.Context, ev domain.UIEvent) (*domain.ChatState, error) {
	id := ev.SessionID
	if id == "" {
		id = domain.NewSessionID()
	}

	entry := c.acquireSession(id)
	defer c.releaseSession(id, entry)

	sess := c.resolveSession(id)

	switch ev.Action {
	case domain.ActionSetName:
		name := strings.TrimSpace(ev.UserName)
		if name == "" {
			name = defaultUserName
		}
		sess.UserName = name
		c.sessions.SaveState(sess)

	case domain.ActionSendMessage, domain.ActionSendCommand:
		if name := strings.TrimSpace(ev.UserName); name != "" && name != sess.UserName {
			sess.UserName = name
			c.sessions.SaveState(sess)
		}
		text := strings.TrimSpace(ev.Text())
		if text == "" {
			break
		}
		c.respond(ctx, sess, text)

	default:
		return nil, fmt.Errorf("unknown event action %q", ev.Action)
	}

	return c.chatState(sess.ID), nil
}

// History returns the current chat state of a session without applying
// any input.
func (c *Coach) History(sessionID string) (*domain.ChatState, error) {
	st := c.chatState(sessionID)
	if st == nil {
		return nil, fmt.Errorf("unknown session %q", sessionID)
	}
	return st, nil
}

// respond runs the full turn pipeline: fold the message into negotiation
// state, complete against the model (with the audit-log functions on
// offer), dispatch any function call, and persist both sides of the
// exchange.
func (c *Coach) respond(ctx context.Context, sess *domain.Session, text string) {
	c.machine.Apply(&sess.State, text)

	history := append([]domain.Turn(nil), sess.Turns...)
	c.sessions.AppendTurn(sess.ID, domain.Turn{Role: llm.RoleUser, Content: text, Timestamp: c.now()})

	msgs := BuildMessages(sess, history, text, c.now())

	reply, turnLogged := c.complete(ctx, sess, msgs, text)
	if strings.TrimSpace(reply) == "" {
		reply = replyWorkingOnIt
	}

	c.machine.AdvanceStep(&sess.State)
	c.sessions.SaveState(sess)
	c.sessions.AppendTurn(sess.ID, domain.Turn{Role: llm.RoleAssistant, Content: reply, Timestamp: c.now()})
	if c.opts.MaxStoredTurns > 0 {
		c.sessions.Prune(sess.ID, c.opts.MaxStoredTurns)
	}

	// Best-effort transcript of the exchange. Skipped when the model
	// already logged this turn itself.
	if !turnLogged {
		res := c.audit.AppendSessionTurn(ctx, sheets.TurnRecord{
			SessionID: sess.ID,
			UserName:  sess.UserName,
			Scenario:  sess.State.Scenario,
			Step:      sess.State.Step,
			Target:    sess.State.Target,
			Offer:     sess.State.Offer,
			Band:      sess.State.Band,
			Message:   reply,
		})
		if !res.OK {
			c.log.Debug().Str("session", sess.ID).Str("error", res.Error).Msg("session transcript append skipped")
		}
	}
}

// complete runs the model round trip and returns the assistant's reply
// text plus whether a log_session_turn call already recorded this turn.
func (c *Coach) complete(ctx context.Context, sess *domain.Session, msgs []llm.Message, userText string) (string, bool) {
	temp := c.opts.Temperature
	req := llm.CompletionRequest{
		Model:       c.opts.Model,
		Messages:    msgs,
		Functions:   functionDefs,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: &temp,
	}

	resp, err := c.llm.Complete(ctx, req)
	if err != nil {
		c.log.Error().Err(err).Str("session", sess.ID).Msg("completion failed")
		return fmt.Sprintf(replyErrorFmt, err), false
	}
	if resp.FunctionCall == nil {
		return resp.Content, false
	}

	call := resp.FunctionCall
	disp, ok := c.dispatchAction(ctx, sess, call, userText)
	if !ok {
		return replyUnknownCmd, false
	}
	turnLogged := call.Name == actionLogSessionTurn

	// Second pass: echo the function call and its result back to the
	// model so it can phrase the confirmation. Functions are withheld
	// to prevent a call loop.
	followUp := append(append([]llm.Message(nil), msgs...),
		llm.Message{Role: llm.RoleAssistant, Content: resp.Content, FunctionCall: call},
		llm.Message{Role: llm.RoleFunction, Name: call.Name, Content: disp.payload},
	)
	second, err := c.llm.Complete(ctx, llm.CompletionRequest{
		Model:       c.opts.Model,
		Messages:    followUp,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: &temp,
	})
	if err != nil {
		c.log.Error().Err(err).Str("session", sess.ID).Str("action", call.Name).Msg("follow-up completion failed")
		return disp.fallback, turnLogged
	}
	return second.Content, turnLogged
}

// resolveSession loads the session for the given ID, creating a fresh
// one (seeded with the welcome message) when the ID is unknown. Callers
// hold the session lock, so an ID is created at most once even under
// concurrent first events.
func (c *Coach) resolveSession(id string) *domain.Session {
	if sess := c.sessions.Get(id); sess != nil {
		return sess
	}
	now := c.now()
	sess := &domain.Session{
		ID:        id,
		UserName:  defaultUserName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.sessions.Create(sess)
	c.sessions.AppendTurn(id, domain.Turn{Role: llm.RoleAssistant, Content: welcomeMessage, Timestamp: now})
	c.log.Info().Str("session", id).Msg("session created")
	return c.sessions.Get(id)
}

// sessionEntry is a per-session mutex with a holder count, so the lock
// table only ever holds entries for sessions with an event in flight.
type sessionEntry struct {
	mu   sync.Mutex
	refs int
}

func (c *Coach) acquireSession(id string) *sessionEntry {
	c.mu.Lock()
	entry, ok := c.locks[id]
	if !ok {
		entry = &sessionEntry{}
		c.locks[id] = entry
	}
	entry.refs++
	c.mu.Unlock()

	entry.mu.Lock()
	return entry
}

func (c *Coach) releaseSession(id string, entry *sessionEntry) {
	entry.mu.Unlock()
	c.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(c.locks, id)
	}
	c.mu.Unlock()
}

func (c *Coach) chatState(sessionID string) *domain.ChatState {
	sess := c.sessions.Get(sessionID)
	if sess == nil {
		return nil
	}
	st := &domain.ChatState{
		Messages:  make([]domain.ChatMessage, 0, len(sess.Turns)),
		UserName:  sess.UserName,
		SessionID: sess.ID,
	}
	for _, t := range sess.Turns {
		st.Messages = append(st.Messages, domain.ChatMessage{Role: t.Role, Content: t.Content})
	}
	return st
}
