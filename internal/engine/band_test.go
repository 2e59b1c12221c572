package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Huzaifa1910/openaibot/internal/domain"
)

func intp(n int) *int { return &n }

func TestComputeBand(t *testing.T) {
	tests := []struct {
		name   string
		target *int
		offer  *int
		want   domain.Band
	}{
		{"both missing", nil, nil, domain.BandNone},
		{"target missing", nil, intp(500), domain.BandNone},
		{"offer missing", intp(500), nil, domain.BandNone},
		{"exact match", intp(500), intp(500), domain.BandA},
		{"offer below target", intp(500), intp(450), domain.BandA},
		{"far below still A", intp(500), intp(100), domain.BandA},
		{"one over", intp(500), intp(501), domain.BandB},
		{"forty over", intp(500), intp(540), domain.BandB},
		{"forty-one over", intp(500), intp(541), domain.BandC},
		{"way over", intp(450), intp(525), domain.BandC},
		{"trade gap of ten", intp(500), intp(510), domain.BandB},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeBand(tt.target, tt.offer))
		})
	}
}

func TestComputeBandMonotonic(t *testing.T) {
	// Band never improves as the offer climbs past a fixed target.
	target := 500
	rank := map[domain.Band]int{domain.BandA: 0, domain.BandB: 1, domain.BandC: 2}
	prev := domain.BandA
	for offer := 400; offer <= 700; offer++ {
		o := offer
		got := ComputeBand(&target, &o)
		assert.GreaterOrEqual(t, rank[got], rank[prev], "offer %d", offer)
		prev = got
	}
}
