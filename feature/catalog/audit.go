package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"rainbow-recipes/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// MergePrefix is the object prefix under which merge records are stored.
const MergePrefix = "audit/merges/"

// MergeRecord is the audit entry written for each committed merge.
type MergeRecord struct {
	ID string `json:"id"`
	MergeResult
	MergedBy int       `json:"mergedBy,omitempty"`
	MergedAt time.Time `json:"mergedAt"`
}

// AuditLog stores merge records in object storage.
// A nil *AuditLog accepts records and discards them.
type AuditLog struct {
	client storage.Client
	bucket string
	logger *zap.Logger

	mu    sync.Mutex
	ready bool
}

// NewAuditLog creates an audit log writing to bucket. It returns nil when client is nil.
func NewAuditLog(client storage.Client, bucket string, logger *zap.Logger) *AuditLog {
	if client == nil {
		return nil
	}
	return &AuditLog{client: client, bucket: bucket, logger: logger}
}

func (a *AuditLog) ensureBucket(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ready {
		return nil
	}

	created, err := storage.EnsureBucket(ctx, a.client, a.bucket)
	if err != nil {
		return err
	}
	if created {
		a.logger.Info("Created audit bucket", zap.String("bucket", a.bucket))
	}
	a.ready = true
	return nil
}

// Record assigns rec an id when it has none and uploads it.
func (a *AuditLog) Record(ctx context.Context, rec *MergeRecord) error {
	if a == nil {
		return nil
	}
	if err := a.ensureBucket(ctx); err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode merge record: %w", err)
	}

	objectName := MergePrefix + rec.ID + ".json"
	_, err = a.client.PutObject(ctx, a.bucket, objectName, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectName, err)
	}
	return nil
}

// List returns up to limit records, newest first. limit <= 0 returns all of them.
func (a *AuditLog) List(ctx context.Context, limit int) ([]MergeRecord, error) {
	if a == nil {
		return []MergeRecord{}, nil
	}
	if err := a.ensureBucket(ctx); err != nil {
		return nil, err
	}

	// Stops the listing goroutine when we return before draining it.
	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var objects []minio.ObjectInfo
	for obj := range a.client.ListObjects(listCtx, a.bucket, minio.ListObjectsOptions{Prefix: MergePrefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list merge records: %w", obj.Err)
		}
		objects = append(objects, obj)
	}
	sort.Slice(objects, func(i, j int) bool {
		return objects[i].LastModified.After(objects[j].LastModified)
	})
	if limit > 0 && len(objects) > limit {
		objects = objects[:limit]
	}

	records := make([]MergeRecord, 0, len(objects))
	for _, obj := range objects {
		rec, err := a.read(ctx, obj.Key)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

func (a *AuditLog) read(ctx context.Context, key string) (*MergeRecord, error) {
	r, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	defer r.Close()

	var rec MergeRecord
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return &rec, nil
}
