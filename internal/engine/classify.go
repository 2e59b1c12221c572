package engine

import (
	"regexp"
	"strings"

	"github.com/Huzaifa1910/openaibot/internal/domain"
)

// Control is a session-control verb recognized as an exact message.
type Control string

const (
	ControlNone     Control = ""
	ControlContinue Control = "continue"
	ControlEnd      Control = "end"
	ControlRestart  Control = "restart"
)

// scenarioRule maps a substring trigger to a scenario tag.
type scenarioRule struct {
	trigger  string
	scenario domain.Scenario
}

// scenarioRules is the ordered trigger table. First match wins, so the
// more specific "!roleplay price" style triggers sit next to their
// objection-command aliases.
var scenarioRules = []scenarioRule{
	{"!priceobjection", domain.ScenarioPrice},
	{"!roleplay price", domain.ScenarioPrice},
	{"!paymenttoohigh", domain.ScenarioPayment},
	{"!roleplay payment", domain.ScenarioPayment},
	{"!tradevalue", domain.ScenarioTrade},
	{"!roleplay trade", domain.ScenarioTrade},
	{"!thinkaboutit", domain.ScenarioThink},
	{"!roleplay think", domain.ScenarioThink},
	{"!shoparound", domain.ScenarioShop},
	{"!roleplay shop", domain.ScenarioShop},
	{"!spouse", domain.ScenarioSpouse},
	{"!roleplay spouse", domain.ScenarioSpouse},
	{"!paymentvsprice", domain.ScenarioPaymentVsPrice},
	{"!timingstall", domain.ScenarioTiming},
	{"!roleplay budget", domain.ScenarioBudget},
}

// DetectScenario tests lower-cased text against the trigger table and
// returns the first matching scenario. A "!roleplay …" command that
// mentions a budget anywhere also counts as the budget scenario.
func DetectScenario(text string) (domain.Scenario, bool) {
	t := strings.ToLower(text)
	for _, r := range scenarioRules {
		if strings.Contains(t, r.trigger) {
			return r.scenario, true
		}
	}
	if strings.HasPrefix(t, "!roleplay") && strings.Contains(t, "budget") {
		return domain.ScenarioBudget, true
	}
	return domain.ScenarioNone, false
}

// DetectControl matches the trimmed, lower-cased message against the
// session-control verbs. Anything else is not a control message.
func DetectControl(text string) Control {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "continue":
		return ControlContinue
	case "end":
		return ControlEnd
	case "restart":
		return ControlRestart
	}
	return ControlNone
}

// offerAtRe matches "at 525", "= $525" style offer phrasing.
var offerAtRe = regexp.MustCompile(`\b(at|=)\s*\$?\d+`)

// offerPhrases are substrings that mark a figure as the offer on the
// table. Both the typographic and plain apostrophe spellings appear in
// real chat input.
var offerPhrases = []string{"we’re at", "we're at"}

// targetPhrases mark a figure as the customer's desired payment.
var targetPhrases = []string{"under", "closer to", "around", "about", "target", "budget", "cap"}

// HasOfferPhrasing reports whether the text frames its number as an offer.
func HasOfferPhrasing(text string) bool {
	t := strings.ToLower(text)
	for _, p := range offerPhrases {
		if strings.Contains(t, p) {
			return true
		}
	}
	if strings.HasPrefix(strings.TrimSpace(t), "$") {
		return true
	}
	return offerAtRe.MatchString(t)
}

// HasTargetPhrasing reports whether the text frames its number as a
// target payment. A single message can carry both offer and target
// phrasing; both captures then apply.
func HasTargetPhrasing(text string) bool {
	t := strings.ToLower(text)
	for _, p := range targetPhrases {
		if strings.Contains(t, p) {
			return true
		}
	}
	return false
}
