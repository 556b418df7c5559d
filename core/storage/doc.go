// Package storage provides the object storage client used by the
// capture recorder to archive render cycles.
//
// The Client interface wraps the subset of S3-compatible operations
// the recorder needs (bucket existence, bucket creation, object
// upload), backed by the Minio SDK in production and by a testify mock
// in tests (see the mocks subpackage).
//
// The reconciler core itself has no durable state; this package exists
// purely for the optional debugging sink.
package storage
