package capture

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"table-reconciler/core/diff"
	"table-reconciler/core/keyed"
	"table-reconciler/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestEnsureBucket tests create-if-missing behaviour.
func TestEnsureBucket(t *testing.T) {
	t.Run("bucket already exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "captures").Return(true, nil)

		r := NewRecorder(client, "captures", "cycles", zap.NewNop())
		require.NoError(t, r.EnsureBucket(context.Background()))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("bucket created when missing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "captures").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "captures", mock.Anything).Return(nil)

		r := NewRecorder(client, "captures", "cycles", zap.NewNop())
		require.NoError(t, r.EnsureBucket(context.Background()))
		client.AssertExpectations(t)
	})

	t.Run("existence check fails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "captures").Return(false, errors.New("connection refused"))

		r := NewRecorder(client, "captures", "cycles", zap.NewNop())
		err := r.EnsureBucket(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to check capture bucket")
	})
}

// TestRecord tests that a cycle is uploaded as a JSON object under the
// configured prefix with the cycle ID in the object name.
func TestRecord(t *testing.T) {
	client := new(mocks.Client)

	var uploaded []byte
	var objectName string
	client.On("PutObject", mock.Anything, "captures",
		mock.MatchedBy(func(name string) bool {
			objectName = name
			return strings.HasPrefix(name, "cycles/") && strings.HasSuffix(name, ".json")
		}),
		mock.Anything, mock.Anything,
		mock.MatchedBy(func(opts minio.PutObjectOptions) bool {
			return opts.ContentType == "application/json"
		}),
	).Run(func(args mock.Arguments) {
		reader := args.Get(3).(io.Reader)
		var err error
		uploaded, err = io.ReadAll(reader)
		require.NoError(t, err)
	}).Return(minio.UploadInfo{}, nil)

	r := NewRecorder(client, "captures", "cycles", zap.NewNop())

	state := keyed.TableState{Sections: []keyed.Section{{Key: "s1"}}}
	script := &diff.Script{Summary: diff.Summary{SectionInserts: 1}}
	require.NoError(t, r.Record(context.Background(), "cycle-123", state, script))

	assert.Contains(t, objectName, "cycle-123")

	var rec Record
	require.NoError(t, json.Unmarshal(uploaded, &rec))
	assert.Equal(t, "cycle-123", rec.CycleID)
	assert.False(t, rec.CapturedAt.IsZero())
	assert.Equal(t, state, rec.State)
	assert.Equal(t, script.Summary, rec.Script.Summary)
}

// TestRecord_UploadError tests that upload failures surface wrapped.
func TestRecord_UploadError(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("bucket gone"))

	r := NewRecorder(client, "captures", "cycles", zap.NewNop())
	err := r.Record(context.Background(), "cycle-1", keyed.TableState{}, &diff.Script{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload capture record")
}
