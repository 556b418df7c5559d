// Package capture archives committed render cycles to object storage
// for offline inspection.
//
// Each committed cycle is written as one JSON object containing the
// cycle ID, the committed table state, and the produced edit script.
// Capture is optional, disabled by default, and strictly write-only:
// the engine never reads captures back, and a capture failure never
// fails a render cycle.
package capture
