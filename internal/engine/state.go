package engine

import (
	"time"

	"github.com/Huzaifa1910/openaibot/internal/domain"
)

// DefaultSessionTTL is how long a session may sit idle before its
// negotiation state is silently discarded.
const DefaultSessionTTL = 30 * time.Minute

// Machine applies chat input to per-session negotiation state.
// It is stateless itself; all mutable state lives in the session record,
// so one Machine serves every session.
type Machine struct {
	ttl time.Duration
	now func() time.Time
}

// NewMachine creates a state machine with the given idle TTL.
// A zero ttl falls back to DefaultSessionTTL.
func NewMachine(ttl time.Duration) *Machine {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Machine{ttl: ttl, now: time.Now}
}

// Apply folds one user message into the negotiation state:
//
//  1. TTL: an expired session is fully reset, silently, before the
//     message is considered.
//  2. A scenario command overwrites the scenario and zeroes the step,
//     regardless of any roleplay already in flight.
//  3. A control verb applies its semantics and skips number capture.
//  4. Otherwise offer and target capture both run on the message.
//  5. The band is recomputed and the activity timestamp refreshed.
func (m *Machine) Apply(st *domain.EngineState, text string) {
	now := m.now()
	if !st.LastUpdated.IsZero() && now.Sub(st.LastUpdated) > m.ttl {
		st.Reset()
	}

	if sc, ok := DetectScenario(text); ok {
		st.Scenario = sc
		st.Step = 0
	}

	switch DetectControl(text) {
	case ControlRestart:
		st.Step = 0
	case ControlEnd:
		st.Reset()
	case ControlContinue:
		// Pacing is governed by the step counter and the persona
		// prompt; nothing to do here.
	default:
		if HasOfferPhrasing(text) {
			if n, ok := ExtractAmount(text); ok {
				offer := n
				st.Offer = &offer
			}
		}
		if HasTargetPhrasing(text) {
			if n, ok := ExtractAmount(text); ok {
				target := n
				st.Target = &target
			}
		}
	}

	st.Band = ComputeBand(st.Target, st.Offer)
	st.LastUpdated = now
}

// AdvanceStep increments the step counter after a completed turn while a
// scenario is active, clamped at domain.MaxStep. The cap is advisory:
// the roleplay keeps accepting turns, the prompt is expected to close it
// out.
func (m *Machine) AdvanceStep(st *domain.EngineState) {
	if st.Scenario == domain.ScenarioNone {
		return
	}
	if st.Step < domain.MaxStep {
		st.Step++
	}
}
