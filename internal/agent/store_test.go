package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Huzaifa1910/openaibot/internal/domain"
)

func TestMemoryStoreGetReturnsDetachedCopy(t *testing.T) {
	s := NewMemorySessionStore()
	target := 450
	s.Create(&domain.Session{
		ID:       "sess-a",
		UserName: "Jordan",
		State:    domain.EngineState{Scenario: domain.ScenarioPrice, Target: &target},
	})
	s.AppendTurn("sess-a", domain.Turn{Role: "user", Content: "hello", Timestamp: time.Now()})

	got := s.Get("sess-a")
	require.NotNil(t, got)
	got.UserName = "Mallory"
	got.State.Scenario = domain.ScenarioTrade
	*got.State.Target = 9999
	got.Turns = append(got.Turns, domain.Turn{Role: "user", Content: "injected"})

	fresh := s.Get("sess-a")
	assert.Equal(t, "Jordan", fresh.UserName)
	assert.Equal(t, domain.ScenarioPrice, fresh.State.Scenario)
	assert.Equal(t, 450, *fresh.State.Target)
	assert.Len(t, fresh.Turns, 1)
}

func TestMemoryStoreSaveStateDetachesPointers(t *testing.T) {
	s := NewMemorySessionStore()
	s.Create(&domain.Session{ID: "sess-b", UserName: "User"})

	offer := 500
	sess := s.Get("sess-b")
	sess.State.Offer = &offer
	s.SaveState(sess)

	offer = 525
	fresh := s.Get("sess-b")
	require.NotNil(t, fresh.State.Offer)
	assert.Equal(t, 500, *fresh.State.Offer)
}
