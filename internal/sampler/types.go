package sampler

// CPUSample is one interval measurement of CPU utilization.
type CPUSample struct {
	// Total is machine-wide utilization in [0, 100].
	Total float64 `json:"total"`
	// PerCore has exactly one entry per logical core counted at startup.
	PerCore []float64 `json:"per_core"`
	// Primed is false when there was no previous reading to compare with.
	// The values are then all zero and carry no meaning.
	Primed bool `json:"primed"`
}

// MemorySample is a point-in-time RAM reading. Percent is the value the OS
// reports, not recomputed from Used and Total.
type MemorySample struct {
	Used    uint64  `json:"used"`
	Total   uint64  `json:"total"`
	Percent float64 `json:"percent"`
}

// SwapSample is a point-in-time swap reading. Percent is 0 without swap.
type SwapSample struct {
	Used    uint64  `json:"used"`
	Total   uint64  `json:"total"`
	Percent float64 `json:"percent"`
}

// DiskSample is filesystem usage for one mount point.
// Percent is Used/Total*100, or 0 when Total is 0.
type DiskSample struct {
	Path    string  `json:"path"`
	Used    uint64  `json:"used"`
	Total   uint64  `json:"total"`
	Percent float64 `json:"percent"`
}

// Reading bundles one pass over every host-wide metric.
type Reading struct {
	CPU    CPUSample    `json:"cpu"`
	Memory MemorySample `json:"memory"`
	Swap   SwapSample   `json:"swap"`
	Disk   DiskSample   `json:"disk"`
}
