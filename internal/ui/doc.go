// Package ui contains the Bubble Tea program that powers the tool
// dashboard. The package is structured so the Model type focuses on
// message orchestration, while dedicated helpers own input routing,
// rendering, discovery, and background-job bridging.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages.
//   - Update routes each message through a typed handler registry so
//     every tea.Msg is handled by a focused function (key input,
//     window size, store snapshots, job events).
//   - Key input is dispatched per mode: Normal drives the tabs,
//     Search edits the active filter or discovery query, Palette runs
//     colon commands, Confirm gates destructive operations, and the
//     overlay modes render read-only payloads.
//
// State ownership:
//   - Per-tab state (rows, filter, sort, cursor, selection) lives in
//     internal/ui/state.Tab; the undo/redo log in state.History.
//   - Store snapshots arrive through a backend.Watcher and are
//     projected into tab rows; the model never mutates store entities
//     directly, it issues mutation commands.
//   - Discovery sessions are owned by discover.Aggregator; background
//     work runs through jobs.Coordinator. Both report back over
//     channels the model drains via re-arming wait commands.
package ui
