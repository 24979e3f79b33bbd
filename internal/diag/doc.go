// Package diag defines the diagnostic model shared by the loader, the project
// configuration layer and the lowering stage.
//
// Diagnostic is the central record: a Severity, a numeric Code with a stable
// string form, a short Message, the Primary span and optional Notes pointing
// at related declarations.
//
// Producers emit through a Reporter (usually BagReporter) with the
// ReportError/ReportWarning builders and chain WithNote before Emit. A Bag
// collects diagnostics for a whole build; Sort and Dedup make the output
// order deterministic regardless of how many units were lowered in parallel.
//
// Rendering lives in internal/diagfmt.
package diag
