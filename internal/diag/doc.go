// Package diag defines the diagnostic model shared by the rule, the driver
// and the formatters.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form,
//     e.g. TSU1001 for an unused binding or IO4002 for a broken snapshot.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages, used to carry the checker
//     diagnostic a finding was derived from.
//
// # Emitting diagnostics
//
// Producers use a diag.Reporter to decouple emission from storage. A
// ReportBuilder (NewReportBuilder, ReportError, ReportWarning) chains WithNote
// before calling Emit. BagReporter aggregates diagnostics into a Bag, which
// supports limits, sorting and deduplication.
//
// Package diag does no formatting or IO; rendering lives in internal/diagfmt.
package diag
