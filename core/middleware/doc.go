// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - RayID: assigns a unique request id to every incoming request and
//     exposes it in the response headers and fiber locals for log correlation.
package middleware
