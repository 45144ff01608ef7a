package units

// Severity is the load tier used to color a percentage.
type Severity int

const (
	Normal Severity = iota
	Warning
	Critical
)

// Fixed tier boundaries. A value equal to a boundary belongs to the higher tier.
const (
	WarningThreshold  = 50.0
	CriticalThreshold = 75.0
)

// SeverityOf maps a percentage to its tier: below 50 is Normal, below 75 is
// Warning, anything else is Critical.
func SeverityOf(pct float64) Severity {
	switch {
	case pct >= CriticalThreshold:
		return Critical
	case pct >= WarningThreshold:
		return Warning
	default:
		return Normal
	}
}

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Critical:
		return "critical"
	default:
		return "normal"
	}
}
