package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Huzaifa1910/openaibot/internal/domain"
	"github.com/Huzaifa1910/openaibot/internal/llm"
	"github.com/Huzaifa1910/openaibot/internal/logging"
	"github.com/Huzaifa1910/openaibot/internal/sheets"
)

// recordingAudit captures audit-log calls for assertions.
type recordingAudit struct {
	mu        sync.Mutex
	dailyLogs []sheets.DailyLogEntry
	turns     []sheets.TurnRecord
}

func (a *recordingAudit) UpsertDailyLog(_ context.Context, e sheets.DailyLogEntry) sheets.Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dailyLogs = append(a.dailyLogs, e)
	return sheets.Result{OK: true, Mode: "insert"}
}

func (a *recordingAudit) AppendSessionTurn(_ context.Context, rec sheets.TurnRecord) sheets.Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.turns = append(a.turns, rec)
	return sheets.Result{OK: true, Sheet: rec.SessionID}
}

func newTestCoach(t *testing.T, client llm.Client, audit sheets.AuditLogger) *Coach {
	t.Helper()
	log := logging.New(nil, "silent", "json")
	return New(client, NewMemorySessionStore(), audit, log, Options{
		Model:          "gpt-4o",
		Temperature:    0.3,
		MaxStoredTurns: 30,
	})
}

func sendMessage(t *testing.T, c *Coach, sessionID, text string) *domain.ChatState {
	t.Helper()
	st, err := c.HandleEvent(context.Background(), domain.UIEvent{
		Action:    domain.ActionSendMessage,
		Message:   text,
		SessionID: sessionID,
	})
	require.NoError(t, err)
	return st
}

func TestHandleEventNewSessionGetsWelcome(t *testing.T) {
	c := newTestCoach(t, &llm.MockClient{}, &recordingAudit{})

	st, err := c.HandleEvent(context.Background(), domain.UIEvent{
		Action:   domain.ActionSetName,
		UserName: "Jordan",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jordan", st.UserName)
	assert.NotEmpty(t, st.SessionID)
	require.Len(t, st.Messages, 1)
	assert.Equal(t, llm.RoleAssistant, st.Messages[0].Role)
	assert.Contains(t, st.Messages[0].Content, "Elite Auto Sales Academy")
}

func TestHandleEventSetNameBlankFallsBack(t *testing.T) {
	c := newTestCoach(t, &llm.MockClient{}, &recordingAudit{})

	st, err := c.HandleEvent(context.Background(), domain.UIEvent{
		Action:   domain.ActionSetName,
		UserName: "   ",
	})
	require.NoError(t, err)
	assert.Equal(t, "User", st.UserName)
}

func TestHandleEventUnknownAction(t *testing.T) {
	c := newTestCoach(t, &llm.MockClient{}, &recordingAudit{})

	_, err := c.HandleEvent(context.Background(), domain.UIEvent{Action: "reboot"})
	assert.Error(t, err)
}

func TestHandleEventEmptyMessageNoTurn(t *testing.T) {
	c := newTestCoach(t, &llm.MockClient{}, &recordingAudit{})

	st := sendMessage(t, c, "", "   ")
	// Only the welcome message; nothing was sent to the model.
	require.Len(t, st.Messages, 1)
}

func TestRespondPlainReply(t *testing.T) {
	client := &llm.MockClient{
		CompleteFunc: func(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			return &llm.CompletionResponse{Content: "Good opener. Now ask for the appointment."}, nil
		},
	}
	audit := &recordingAudit{}
	c := newTestCoach(t, client, audit)

	st := sendMessage(t, c, "", "how do I greet a morning up?")

	require.Len(t, st.Messages, 3) // welcome, user, assistant
	assert.Equal(t, "how do I greet a morning up?", st.Messages[1].Content)
	assert.Equal(t, "Good opener. Now ask for the appointment.", st.Messages[2].Content)

	// Best-effort transcript append ran once, carrying the reply.
	require.Len(t, audit.turns, 1)
	assert.Equal(t, "Good opener. Now ask for the appointment.", audit.turns[0].Message)
}

func TestRespondEmptyContentFallsBack(t *testing.T) {
	client := &llm.MockClient{
		CompleteFunc: func(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			return &llm.CompletionResponse{Content: "  "}, nil
		},
	}
	c := newTestCoach(t, client, &recordingAudit{})

	st := sendMessage(t, c, "", "hello")
	assert.Equal(t, "Working on it…", st.Messages[len(st.Messages)-1].Content)
}

func TestRespondLLMErrorFallsBack(t *testing.T) {
	client := &llm.MockClient{
		CompleteFunc: func(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			return nil, errors.New("rate limited")
		},
	}
	c := newTestCoach(t, client, &recordingAudit{})

	st := sendMessage(t, c, "", "hello")
	last := st.Messages[len(st.Messages)-1].Content
	assert.Contains(t, last, "Sorry, I encountered an error")
	assert.Contains(t, last, "rate limited")
	assert.Contains(t, last, "contact support")
}

func TestRespondDailyLogFunctionCall(t *testing.T) {
	var calls int
	client := &llm.MockClient{
		CompleteFunc: func(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			calls++
			if calls == 1 {
				require.NotEmpty(t, req.Functions)
				return &llm.CompletionResponse{FunctionCall: &llm.FunctionCall{
					Name:      "append_daily_log",
					Arguments: `{"user":"Jordan","ups":"5","calls":"12","followups":"3","appointments":"2"}`,
				}}, nil
			}
			// Second pass carries the function result and offers no functions.
			require.Empty(t, req.Functions)
			last := req.Messages[len(req.Messages)-1]
			assert.Equal(t, llm.RoleFunction, last.Role)
			assert.Equal(t, "append_daily_log", last.Name)
			assert.Contains(t, last.Content, `"ok":true`)
			return &llm.CompletionResponse{Content: "Logged. Strong day, keep the follow-ups rolling."}, nil
		},
	}
	audit := &recordingAudit{}
	c := newTestCoach(t, client, audit)

	st := sendMessage(t, c, "", "!dailylog done: 5 12 3 2")

	assert.Equal(t, 2, calls)
	require.Len(t, audit.dailyLogs, 1)
	assert.Equal(t, sheets.DailyLogEntry{User: "Jordan", Ups: "5", Calls: "12", FollowUps: "3", Appointments: "2"}, audit.dailyLogs[0])
	assert.Equal(t, "Logged. Strong day, keep the follow-ups rolling.", st.Messages[len(st.Messages)-1].Content)
}

func TestRespondDailyLogSecondCallFails(t *testing.T) {
	var calls int
	client := &llm.MockClient{
		CompleteFunc: func(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			calls++
			if calls == 1 {
				return &llm.CompletionResponse{FunctionCall: &llm.FunctionCall{
					Name:      "append_daily_log",
					Arguments: `{"user":"Jordan"}`,
				}}, nil
			}
			return nil, errors.New("timeout")
		},
	}
	audit := &recordingAudit{}
	c := newTestCoach(t, client, audit)

	st := sendMessage(t, c, "", "!dailylog")
	assert.Equal(t, "I've recorded your daily log, but encountered an error processing the final response.",
		st.Messages[len(st.Messages)-1].Content)
	require.Len(t, audit.dailyLogs, 1)
}

func TestRespondSessionTurnFunctionCallDefaults(t *testing.T) {
	var calls int
	client := &llm.MockClient{
		CompleteFunc: func(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			calls++
			if calls == 1 {
				return &llm.CompletionResponse{FunctionCall: &llm.FunctionCall{
					Name:      "log_session_turn",
					Arguments: `not even json`,
				}}, nil
			}
			return &llm.CompletionResponse{Content: "Noted."}, nil
		},
	}
	audit := &recordingAudit{}
	c := newTestCoach(t, client, audit)

	// Scenario command first so session state carries a scenario.
	sendMessage(t, c, "", "!roleplay price")

	// Malformed arguments fall back to session state for every field.
	require.Len(t, audit.turns, 1)
	rec := audit.turns[0]
	assert.Equal(t, domain.ScenarioPrice, rec.Scenario)
	assert.Equal(t, "!roleplay price", rec.Message)
	assert.NotEmpty(t, rec.SessionID)

	// The model-invoked log replaced the automatic per-turn append.
	assert.Equal(t, 2, calls)
}

func TestRespondUnknownFunctionRejected(t *testing.T) {
	var calls int
	client := &llm.MockClient{
		CompleteFunc: func(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			calls++
			return &llm.CompletionResponse{FunctionCall: &llm.FunctionCall{
				Name:      "drop_tables",
				Arguments: `{}`,
			}}, nil
		},
	}
	audit := &recordingAudit{}
	c := newTestCoach(t, client, audit)

	st := sendMessage(t, c, "", "hello")

	// No dispatch, no second completion.
	assert.Equal(t, 1, calls)
	assert.Empty(t, audit.dailyLogs)
	assert.Contains(t, st.Messages[len(st.Messages)-1].Content, "Not sure what you meant")
}

func TestRespondPrunesStoredHistory(t *testing.T) {
	client := &llm.MockClient{}
	log := logging.New(nil, "silent", "json")
	c := New(client, NewMemorySessionStore(), &recordingAudit{}, log, Options{MaxStoredTurns: 6})

	st := sendMessage(t, c, "", "first")
	id := st.SessionID
	for i := 0; i < 10; i++ {
		st = sendMessage(t, c, id, fmt.Sprintf("message %d", i))
	}
	assert.Len(t, st.Messages, 6)
}

func TestHistory(t *testing.T) {
	c := newTestCoach(t, &llm.MockClient{}, &recordingAudit{})

	st := sendMessage(t, c, "", "hello")
	got, err := c.History(st.SessionID)
	require.NoError(t, err)
	assert.Equal(t, st.SessionID, got.SessionID)
	assert.Equal(t, len(st.Messages), len(got.Messages))

	_, err = c.History("sess-doesnotexist")
	assert.Error(t, err)
}

func TestRespondSessionTurnPinsIdentity(t *testing.T) {
	var calls int
	client := &llm.MockClient{
		CompleteFunc: func(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			calls++
			if calls == 1 {
				return &llm.CompletionResponse{FunctionCall: &llm.FunctionCall{
					Name:      "log_session_turn",
					Arguments: `{"session_id":"sess-somebodyel","user_name":"Mallory","scenario":"trade","step":7,"band":"B","message":"great counter"}`,
				}}, nil
			}
			return &llm.CompletionResponse{Content: "Logged."}, nil
		},
	}
	audit := &recordingAudit{}
	c := newTestCoach(t, client, audit)

	st := sendMessage(t, c, "", "!roleplay price")

	require.Len(t, audit.turns, 1)
	rec := audit.turns[0]
	// Identity fields come from the session, never the model.
	assert.Equal(t, st.SessionID, rec.SessionID)
	assert.Equal(t, "User", rec.UserName)
	assert.Equal(t, domain.ScenarioPrice, rec.Scenario)
	// Negotiation numbers and the message text are the model's.
	assert.Equal(t, 7, rec.Step)
	assert.Equal(t, domain.BandB, rec.Band)
	assert.Equal(t, "great counter", rec.Message)
}

func TestConcurrentHistoryAndEvents(t *testing.T) {
	c := newTestCoach(t, &llm.MockClient{}, &recordingAudit{})
	st := sendMessage(t, c, "", "warmup")
	id := st.SessionID

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_, err := c.HandleEvent(context.Background(), domain.UIEvent{
				Action:    domain.ActionSendMessage,
				Message:   fmt.Sprintf("turn %d", n),
				SessionID: id,
			})
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			_, err := c.History(id)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Welcome plus 21 exchanges is 43 turns, pruned to the 30-turn cap.
	got, err := c.History(id)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 30)
}

func TestConcurrentFirstEventsCreateOnce(t *testing.T) {
	c := newTestCoach(t, &llm.MockClient{}, &recordingAudit{})
	id := "sess-fresh12345"

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.HandleEvent(context.Background(), domain.UIEvent{
				Action:    domain.ActionSendMessage,
				Message:   "hello",
				SessionID: id,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := c.History(id)
	require.NoError(t, err)
	require.Len(t, got.Messages, 5) // one welcome plus two exchanges
	var welcomes int
	for _, m := range got.Messages {
		if strings.Contains(m.Content, "Elite Auto Sales Academy") {
			welcomes++
		}
	}
	assert.Equal(t, 1, welcomes)
}

func TestSessionLockTableDrainsWhenIdle(t *testing.T) {
	c := newTestCoach(t, &llm.MockClient{}, &recordingAudit{})

	st := sendMessage(t, c, "", "hello")
	sendMessage(t, c, st.SessionID, "again")

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Empty(t, c.locks)
}

func TestSessionStateThreadsThroughTurns(t *testing.T) {
	var snapshots []string
	client := &llm.MockClient{
		CompleteFunc: func(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			for _, m := range req.Messages {
				if m.Role == llm.RoleSystem && len(m.Content) > len("SESSION_STATE_JSON=") && m.Content[:len("SESSION_STATE_JSON=")] == "SESSION_STATE_JSON=" {
					snapshots = append(snapshots, m.Content)
				}
			}
			return &llm.CompletionResponse{Content: "ok"}, nil
		},
	}
	c := newTestCoach(t, client, &recordingAudit{})

	st := sendMessage(t, c, "", "!roleplay price")
	id := st.SessionID
	sendMessage(t, c, id, "I want to stay under 450")
	sendMessage(t, c, id, "we're at 525")

	require.Len(t, snapshots, 3)
	assert.Contains(t, snapshots[0], `"scenario":"price"`)
	assert.Contains(t, snapshots[1], `"target_payment":450`)
	assert.Contains(t, snapshots[2], `"offer_payment":525`)
	assert.Contains(t, snapshots[2], `"band":"C"`)
}
