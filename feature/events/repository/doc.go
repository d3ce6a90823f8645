// Package repository is the reconciliation engine of the event store.
//
// Upsert merges a provider snapshot into the events, event_plans and zones tables
// by natural key, in fixed-size transactional batches sharing one observation
// timestamp. Rows absent from the snapshot are never deleted; their last_seen_at
// is set slightly behind the observation timestamp instead. FindEventsInRange is
// the read side used by the search endpoint, and PruneStale is the administrative
// cleanup of long-retired events.
//
// Storage failures are wrapped with ErrStorage; events without an identity are
// skipped and reported through ErrIdentityMissing in the logs.
package repository
