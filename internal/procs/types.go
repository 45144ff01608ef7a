package procs

import "time"

const (
	// DefaultLimit is the number of rows kept after ranking.
	DefaultLimit = 80
	// MaxCommandLen is the longest command shown, in runes.
	MaxCommandLen = 100
	// DefaultDeadline bounds one enumeration pass.
	DefaultDeadline = 2 * time.Second
)

// Row is one process in the table. Rows are built fresh every tick and
// never modified afterwards.
type Row struct {
	PID           int32     `json:"pid"`
	User          string    `json:"user"`
	CPUPercent    float64   `json:"cpu_percent"`
	MemPercent    float64   `json:"mem_percent"`
	VirtualBytes  uint64    `json:"virtual_bytes"`
	ResidentBytes uint64    `json:"resident_bytes"`
	CreatedAt     time.Time `json:"created_at"`
	Command       string    `json:"command"`
}

// Result is the outcome of one enumeration pass.
type Result struct {
	// Rows is ranked by CPUPercent descending and holds at most the limit.
	Rows []Row
	// Readable counts processes read successfully, before truncation.
	Readable int
	// Vanished, Denied and Failed count skipped processes by reason.
	Vanished int
	Denied   int
	Failed   int
	// Partial is set when the deadline cut enumeration short.
	Partial bool
}

// Skipped is the total number of processes left out of the table.
func (r Result) Skipped() int {
	return r.Vanished + r.Denied + r.Failed
}
