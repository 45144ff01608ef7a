// Package cli implements the sysmon command-line interface.
//
// Each Cobra command loads settings, builds the sampling pipeline and hands
// it to a sink. The sampling itself lives in internal/sampler, internal/procs
// and internal/monitor; this package only wires them together.
//
// # Command Structure
//
//	sysmon                      - Live dashboard (or one line per tick with --plain)
//	sysmon snapshot [--json]    - Take one reading and print it
//	sysmon config show|path     - Inspect the settings file
//	sysmon config edit|reset    - Change the settings interactively
//	sysmon config set KEY VALUE - Change one setting
//	sysmon version              - Build information
//	sysmon completion SHELL     - Shell completion script
//
// # Output Modes
//
// The dashboard needs a terminal. When stdout is not a terminal, or --plain
// is given, the same scheduler drives a PlainSink instead. While the
// dashboard owns the screen, logs go to a file (see logger.DefaultLogFile);
// every other mode logs to stderr.
//
// snapshot --json writes the JSON envelope used for every machine-readable
// response, including failures.
//
// # Flag Handling
//
// --config and --limit are persistent and apply to every subcommand.
// --interval, --theme and --plain only make sense for the live dashboard.
// Interval and theme override the settings file, and like any change made
// inside the dashboard they are written back when settings are saved.
package cli
