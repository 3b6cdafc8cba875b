// Package poller fetches status-page provider feeds and turns them into
// status events.
//
// Each configured provider gets two independent poll loops: one for the
// incidents feed and one for the components feed. The loops own their
// mutable state exclusively (dedup tags, component baselines, backoff
// counters), so no locking is needed outside the event bus.
//
// The main components are:
//
//   - [Client]: HTTP client wrapper with per-request timeouts and size limits
//   - [IncidentPoller]: watches {base}/incidents.json, deduplicates by
//     (incident id, update count), suppresses historical resolved incidents
//     on cold start
//   - [ComponentPoller]: watches {base}/components.json and emits on
//     status transitions against the previous baseline
//   - [Runner]: starts and stops the loops for a set of providers
//
// Transient provider failures are never fatal: loops log a warning and
// retry with doubling backoff capped at five minutes, forever.
package poller
