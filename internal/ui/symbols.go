package ui

// Unicode symbols for status indicators. SymbolFail matches the prefix of
// structured errors.
const (
	SymbolSuccess = "✓"
	SymbolFail    = "✗"
	SymbolWarning = "!"
)
