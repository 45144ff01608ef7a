// Package ui provides the styled output used by sysmon's one-shot commands
// (snapshot, config). The live dashboard has its own styles in
// internal/monitor since it follows the user's theme.
//
// Colors are ANSI codes for broad terminal compatibility:
//
//	ColorSuccess (green)  - completed actions
//	ColorError   (red)    - failures
//	ColorWarning (yellow) - settings problems that fell back to defaults
//	ColorMuted   (gray)   - keys, hints and paths
//
// Lip Gloss drops the colors on its own when stdout is not a terminal, so
// output piped to a file stays plain text.
//
// # Tables
//
// RenderSimpleTable prints a Bubbles table without selection, and
// RenderKeyValues prints an aligned "key  value" block.
package ui
