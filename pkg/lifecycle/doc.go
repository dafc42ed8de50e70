// Package lifecycle defines the phase state machine of a runtime instance.
//
// Every instance moves through the phases below. Initializing only spans the
// synchronous construction call; Stopped and Started alternate as the
// scheduler evaluates the start gate; Finalizing and Finalized are terminal.
//
// # State Machine
//
// Valid phase transitions:
//   - Initializing -> Stopped, Finalizing
//   - Stopped -> Started, Finalizing
//   - Started -> Stopped
//   - Finalizing -> Finalized
//
// Started never moves straight to Finalizing: finalization first forces the
// stop transition so the stop hook of a running instance always runs.
//
// # Version
//
// Current version: 2.0.0
// Minimum compatible version: 2.0.0
package lifecycle
