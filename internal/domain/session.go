package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Scenario is a recognized roleplay topic tag.
type Scenario string

// Known scenarios. ScenarioNone means no roleplay is active.
const (
	ScenarioNone           Scenario = ""
	ScenarioPrice          Scenario = "price"
	ScenarioPayment        Scenario = "payment"
	ScenarioTrade          Scenario = "trade"
	ScenarioThink          Scenario = "think"
	ScenarioShop           Scenario = "shop"
	ScenarioSpouse         Scenario = "spouse"
	ScenarioPaymentVsPrice Scenario = "paymentvsprice"
	ScenarioTiming         Scenario = "timing"
	ScenarioBudget         Scenario = "budget"
)

// Band classifies the gap between the offer on the table and the
// customer's target payment.
type Band string

const (
	BandNone Band = ""  // no classification yet — target or offer missing
	BandA    Band = "A" // offer at or below target
	BandB    Band = "B" // slightly over (delta 1..40)
	BandC    Band = "C" // far apart (delta > 40)
)

// MaxStep is the hard ceiling on the roleplay step counter. Reaching it
// does not end the scenario; the persona prompt is expected to wind the
// roleplay down.
const MaxStep = 10

// EngineState is the mutable negotiation state of one chat session.
type EngineState struct {
	Scenario    Scenario  `json:"scenario"`
	Step        int       `json:"step"`
	Target      *int      `json:"targetPayment"`
	Offer       *int      `json:"offerPayment"`
	Band        Band      `json:"band"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Reset clears all negotiation state. LastUpdated is left alone; callers
// stamp it when they mutate state on a live turn.
func (s *EngineState) Reset() {
	s.Scenario = ScenarioNone
	s.Step = 0
	s.Target = nil
	s.Offer = nil
	s.Band = BandNone
}

// Session tracks one chat session between a user and the coach.
type Session struct {
	ID        string      `json:"id"`
	UserName  string      `json:"userName"`
	State     EngineState `json:"state"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	Turns     []Turn      `json:"turns,omitempty"`
}

// Turn is a single chat message within a session.
type Turn struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSessionID generates an opaque session identifier.
func NewSessionID() string {
	return "sess-" + strings.ReplaceAll(uuid.New().String(), "-", "")[:10]
}
