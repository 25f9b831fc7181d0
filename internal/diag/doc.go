// Package diag defines the diagnostic model shared by ingestion, analysis
// and the CLI.
//
// # Purpose
//
//   - Provide deterministic, serialisable records of findings produced while
//     translating foreign declarations into the type IR.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Subject – the foreign type spelling or declaration name.
//   - Notes – optional extra lines of context.
//
// # Emitting diagnostics
//
// Producers take a diag.Reporter. ReportBuilder (via NewReportBuilder,
// ReportWarning, ReportInfo) chains WithNote before Emit; Reporter.Report can
// be called directly when nothing else is needed. BagReporter collects into
// a Bag, which caps and sorts; DedupReporter drops repeats.
//
// Recoverable ingestion failures (unsupported kinds, dropped members,
// unknown layouts) surface here rather than aborting the walk.
package diag
