// Package domain contains the error taxonomy of the xnew runtime.
//
// This package has no dependencies on hosts, logging or the runtime itself,
// so adapters and the core can share the same sentinel and typed errors.
//
// # Errors
//
//   - [ErrDefineConflict] / [DefineError]: member name collision during Extend
//   - [ErrFinalized]: operation on a finalizing or finalized instance
//   - [MemberError]: failed Call/Get/Set on a definition member
//   - [HookError]: panic recovered at a host boundary
package domain
