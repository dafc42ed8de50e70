// Package ports defines the interfaces (ports) that connect the runtime core
// to its host.
//
// The core never inspects host internals beyond handle identity. A host
// supplies presentation elements, a per-frame callback primitive, timers and
// a way to re-enter the runtime thread from other goroutines.
//
// # Port Interfaces
//
//   - [ElementAdapter]: creates/destroys host elements and bridges host events
//   - [FrameSource]: fire-once-per-request animation frame callbacks
//   - [TimerSource]: one-shot and repeating timers
//   - [Dispatcher]: posts work onto the runtime thread
//   - [Host]: the union the runtime is constructed with
//
// # Usage
//
// The runtime (pkg/xnew) depends only on these interfaces. Adapters in
// internal/adapters implement them with a headless element tree, a
// deterministic virtual clock, or a real-time event loop.
package ports
