// Package reminder implements the deadline notification engine.
//
// The engine runs periodic scan cycles over open tasks. Each cycle runs
// two sub-scans, one for tasks due within the next 24 hours and one for
// tasks already past their due date. Every candidate task is classified
// (Classify), checked against the deduplication gate (Gate), and, when the
// gate permits, turned into a persisted in-app notification followed by a
// best-effort email.
//
// Failure isolation is the load-bearing property here: a failure while
// processing one task never aborts the remaining tasks in the batch, and a
// failed email send never rolls back the already persisted notification.
// Scan-level failures end the cycle early; the next scheduled cycle
// re-evaluates the same candidates against a fresh "now".
package reminder
