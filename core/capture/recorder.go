package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"table-reconciler/core/diff"
	"table-reconciler/core/keyed"
	"table-reconciler/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Record is the JSON document archived per committed render cycle.
type Record struct {
	// CycleID is the engine's correlation ID for the cycle.
	CycleID string `json:"cycle_id"`

	// CapturedAt is the capture timestamp (UTC).
	CapturedAt time.Time `json:"captured_at"`

	// State is the table state committed by the cycle.
	State keyed.TableState `json:"state"`

	// Script is the edit script the cycle produced.
	Script *diff.Script `json:"script"`
}

// Recorder archives committed render cycles as JSON objects in a
// storage bucket. It implements the engine's Recorder interface.
type Recorder struct {
	client storage.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewRecorder creates a recorder writing under the given prefix.
func NewRecorder(client storage.Client, bucket, prefix string, logger *zap.Logger) *Recorder {
	return &Recorder{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// EnsureBucket creates the capture bucket if it does not exist.
func (r *Recorder) EnsureBucket(ctx context.Context) error {
	exists, err := r.client.BucketExists(ctx, r.bucket)
	if err != nil {
		return fmt.Errorf("failed to check capture bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create capture bucket: %w", err)
	}
	r.logger.Info("Created capture bucket", zap.String("bucket", r.bucket))
	return nil
}

// Record uploads one cycle as a JSON object. Object names sort
// chronologically: <prefix>/<RFC3339 timestamp>-<cycle id>.json.
func (r *Recorder) Record(ctx context.Context, cycleID string, state keyed.TableState, script *diff.Script) error {
	rec := Record{
		CycleID:    cycleID,
		CapturedAt: time.Now().UTC(),
		State:      state,
		Script:     script,
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode capture record: %w", err)
	}

	objectName := fmt.Sprintf("%s/%s-%s.json", r.prefix, rec.CapturedAt.Format(time.RFC3339Nano), cycleID)
	_, err = r.client.PutObject(ctx, r.bucket, objectName, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload capture record: %w", err)
	}

	r.logger.Debug("Captured render cycle",
		zap.String("cycle_id", cycleID),
		zap.String("object", objectName),
	)
	return nil
}
