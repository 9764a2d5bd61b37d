// Package diag defines the diagnostic model shared by every analysis phase.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture findings
//     produced by the lexer, the parser and the inspections (regex, inclusion,
//     offset operations).
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag does not perform formatting, IO or CLI integration. Rendering
// lives in internal/diagfmt; orchestration lives in internal/driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Weak, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with a stable string
//     form such as RGX7009.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the source.Span the finding is anchored to.
//   - Notes – optional secondary spans/messages for additional context.
//
// Notes should be used sparingly: each note must add new context (e.g.
// "pattern declared here") rather than repeating the diagnostic message.
//
// # Emitting diagnostics
//
// Producers use a diag.Reporter. Emission is fire-and-forget and the order in
// which diagnostics arrive carries no meaning: every Diagnostic is
// self-contained. ReportBuilder (NewReportBuilder, ReportError, ReportWarning,
// ReportWeak) chains WithNote before Emit.
//
// BagReporter aggregates diagnostics into a Bag, which supports sorting,
// deduplication, filtering and transformation (severity overrides,
// warnings-as-errors).
package diag
