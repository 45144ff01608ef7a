package procs

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateCommand(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantLen int
		suffix  bool
	}{
		{"short unchanged", "bash", 4, false},
		{"exactly max unchanged", strings.Repeat("a", 100), 100, false},
		{"one over", strings.Repeat("a", 101), 100, true},
		{"150 chars", strings.Repeat("b", 150), 100, true},
		{"multibyte counted as runes", strings.Repeat("é", 120), 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateCommand(tt.in)
			assert.Equal(t, tt.wantLen, utf8.RuneCountInString(got))
			assert.Equal(t, tt.suffix, strings.HasSuffix(got, "..."))
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestRank_StableForTies(t *testing.T) {
	rows := []Row{
		{PID: 1, CPUPercent: 5},
		{PID: 2, CPUPercent: 10},
		{PID: 3, CPUPercent: 5},
		{PID: 4, CPUPercent: 10},
		{PID: 5, CPUPercent: 0},
	}

	got := Rank(rows, 10)

	pids := make([]int32, len(got))
	for i, r := range got {
		pids[i] = r.PID
	}
	assert.Equal(t, []int32{2, 4, 1, 3, 5}, pids)
}

func TestRank_Limit(t *testing.T) {
	rows := make([]Row, 100)
	for i := range rows {
		rows[i] = Row{PID: int32(i), CPUPercent: float64(i)}
	}

	assert.Len(t, Rank(append([]Row(nil), rows...), 80), 80)
	assert.Len(t, Rank(append([]Row(nil), rows...), 0), DefaultLimit)
	assert.Len(t, Rank(append([]Row(nil), rows[:3]...), 80), 3)
	assert.Equal(t, int32(99), Rank(append([]Row(nil), rows...), 5)[0].PID)
}

func TestSanitizePercent(t *testing.T) {
	assert.Equal(t, 0.0, sanitizePercent(math.NaN()))
	assert.Equal(t, 0.0, sanitizePercent(math.Inf(1)))
	assert.Equal(t, 0.0, sanitizePercent(-1))
	assert.Equal(t, 250.0, sanitizePercent(250), "multi-threaded processes may exceed 100")
}
