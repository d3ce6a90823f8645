// Package sync orchestrates provider synchronization.
//
// For each configured provider, in order, the Service fetches the XML feed,
// archives the raw document (best effort), parses it and reconciles the result
// into the event store, then purges the search cache. Fetch, parse and storage
// failures are recorded in the provider's Result and never stop the next
// provider. A document that fails to parse is never reconciled.
//
// # Components
//
//   - provider: HTTP fetch client with retry and exponential backoff.
//   - Service.Run / RunProvider: one-shot sync of all or one provider.
//   - Service.Replay: reconcile a previously archived feed.
//   - Service.Schedule: periodic sync until the context is cancelled.
package sync
