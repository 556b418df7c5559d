// Package render exposes the reconciliation engine over HTTP.
//
// A client submits successive table states; each submission runs one
// render cycle through the engine's serialization gate and returns the
// edit script transforming the previously committed state into the
// submitted one. Payloads are arbitrary JSON values, compared with the
// deep-equality comparators of oracle.NewJSONRegistry.
//
// # HTTP Endpoints
//
//   - POST /render : Submit the next table state, receive the edit script.
//   - GET /render/state : Return the last committed table state.
package render
