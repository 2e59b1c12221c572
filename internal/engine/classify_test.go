package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Huzaifa1910/openaibot/internal/domain"
)

func TestDetectScenario(t *testing.T) {
	tests := []struct {
		text string
		want domain.Scenario
		ok   bool
	}{
		{"!priceobjection", domain.ScenarioPrice, true},
		{"!roleplay price", domain.ScenarioPrice, true},
		{"!ROLEPLAY PRICE", domain.ScenarioPrice, true},
		{"!paymenttoohigh", domain.ScenarioPayment, true},
		{"!roleplay payment", domain.ScenarioPayment, true},
		{"!tradevalue", domain.ScenarioTrade, true},
		{"!roleplay trade", domain.ScenarioTrade, true},
		{"!thinkaboutit", domain.ScenarioThink, true},
		{"!shoparound", domain.ScenarioShop, true},
		{"!spouse", domain.ScenarioSpouse, true},
		{"!paymentvsprice", domain.ScenarioPaymentVsPrice, true},
		{"!timingstall", domain.ScenarioTiming, true},
		{"!roleplay budget", domain.ScenarioBudget, true},
		{"!roleplay customer has a tight budget", domain.ScenarioBudget, true},
		{"let's try !roleplay trade today", domain.ScenarioTrade, true},
		{"just chatting about budget", domain.ScenarioNone, false},
		{"hello there", domain.ScenarioNone, false},
		{"", domain.ScenarioNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := DetectScenario(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectControl(t *testing.T) {
	assert.Equal(t, ControlContinue, DetectControl("continue"))
	assert.Equal(t, ControlContinue, DetectControl("  Continue "))
	assert.Equal(t, ControlEnd, DetectControl("END"))
	assert.Equal(t, ControlRestart, DetectControl("restart"))
	assert.Equal(t, ControlNone, DetectControl("continue please"))
	assert.Equal(t, ControlNone, DetectControl("ending"))
	assert.Equal(t, ControlNone, DetectControl("we're at 525"))
}

func TestHasOfferPhrasing(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"we're at 525", true},
		{"we’re at 525", true},
		{"$525", true},
		{"  $525 out the door", true},
		{"best I can do is at 510", true},
		{"payment=$480", true},
		{"= 480", false},
		{"I want under 500", false},
		{"that 525 number", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, HasOfferPhrasing(tt.text))
		})
	}
}

func TestHasTargetPhrasing(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"I need to stay under 500", true},
		{"closer to 450 would work", true},
		{"around 480", true},
		{"about 470", true},
		{"my target is 450", true},
		{"budget is tight", true},
		{"my cap is 520", true},
		{"we're at 525", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, HasTargetPhrasing(tt.text))
		})
	}
}
