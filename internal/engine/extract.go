// Package engine implements the roleplay negotiation core: extracting
// price-like numbers from chat text, classifying user intent against a
// fixed trigger table, banding the gap between target and offer, and
// driving the per-session state machine.
package engine

import (
	"regexp"
	"strconv"
	"strings"
)

// amountRe matches the first 2–5 digit run in a message. Thousands
// separators are stripped before matching, so "1,250" reads as 1250.
var amountRe = regexp.MustCompile(`(\d{2,5})`)

// ExtractAmount pulls the first integer-looking token out of free text.
// Only the first match counts; additional numbers in the same message are
// ignored. Returns false when no price-like number is present.
func ExtractAmount(text string) (int, bool) {
	t := strings.ReplaceAll(text, ",", "")
	m := amountRe.FindStringSubmatch(t)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
