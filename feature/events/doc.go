// Package events implements the event search feature.
//
// The heavy lifting lives in the sub-packages: parser turns a provider document
// into validated models, and repository reconciles snapshots into the store and
// answers range queries. This package exposes the read path over HTTP.
//
// # Components
//
//   - Service: runs the range query through the response cache and projects
//     every event to an EventSummary.
//   - Handler: validates the query parameters and writes the response envelope.
//   - Feature: registers the routes with the loader.
//
// # HTTP Endpoints
//
//   - GET /search?starts_at=&ends_at= : events with a plan starting in the range.
package events
