package monitor

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"github.com/rileyhilliard/sysmon/internal/procs"
)

func TestSortColumn_String(t *testing.T) {
	tests := []struct {
		col    SortColumn
		expect string
	}{
		{SortByCPU, "%CPU"},
		{SortByMem, "%MEM"},
		{SortByPID, "PID"},
		{SortByCommand, "CMD"},
		{SortColumn(99), "%CPU"},
	}

	for _, tt := range tests {
		t.Run(tt.expect, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.col.String())
		})
	}
}

func TestSortColumn_Next(t *testing.T) {
	assert.Equal(t, SortByMem, SortByCPU.Next())
	assert.Equal(t, SortByPID, SortByMem.Next())
	assert.Equal(t, SortByCommand, SortByPID.Next())
	assert.Equal(t, SortByCPU, SortByCommand.Next())
}

func pids(rows []procs.Row) []int32 {
	return lo.Map(rows, func(r procs.Row, _ int) int32 { return r.PID })
}

func TestSortColumn_Apply(t *testing.T) {
	rows := sampleRows() // 4211 (45 cpu, 3.2 mem), 17 (8, 9.5), 902 (8, 0.4)

	tests := []struct {
		col  SortColumn
		want []int32
	}{
		{SortByCPU, []int32{4211, 17, 902}},
		{SortByMem, []int32{17, 4211, 902}},
		{SortByPID, []int32{17, 902, 4211}},
		{SortByCommand, []int32{4211, 902, 17}},
	}

	for _, tt := range tests {
		t.Run(tt.col.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, pids(tt.col.Apply(rows)))
		})
	}
}

func TestSortColumn_ApplyLeavesInputAlone(t *testing.T) {
	rows := sampleRows()
	_ = SortByPID.Apply(rows)
	assert.Equal(t, []int32{4211, 17, 902}, pids(rows))
}

func TestKeyMap_Help(t *testing.T) {
	km := newKeyMap()

	assert.Len(t, km.Presets, 4)
	assert.Equal(t, "interval 0.5s", km.Presets[0].Help().Desc)
	assert.Equal(t, "interval 5.0s", km.Presets[3].Help().Desc)

	total := 0
	for _, group := range km.FullHelp() {
		total += len(group)
	}
	assert.Equal(t, 4+2+4+3, total)
	assert.NotEmpty(t, km.ShortHelp())
}
