package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const archivePrefix = "feeds/"

// ArchivedFeed describes one stored provider document.
type ArchivedFeed struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Archive keeps the raw documents fetched from providers so a sync can be replayed.
type Archive struct {
	client Client
	bucket string
	logger *zap.Logger
}

// NewArchive creates an archive writing to bucket.
func NewArchive(client Client, bucket string, logger *zap.Logger) *Archive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archive{client: client, bucket: bucket, logger: logger}
}

// EnsureBucket creates the archive bucket when it is missing.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	a.logger.Info("Created archive bucket", zap.String("bucket", a.bucket))
	return nil
}

// Save stores document under feeds/<provider>/<timestamp>.xml and returns the key.
func (a *Archive) Save(ctx context.Context, provider string, fetchedAt time.Time, document []byte) (string, error) {
	key := FeedKey(provider, fetchedAt)
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(document), int64(len(document)),
		minio.PutObjectOptions{ContentType: "application/xml"})
	if err != nil {
		return "", fmt.Errorf("failed to archive feed %s: %w", key, err)
	}
	return key, nil
}

// Load returns the stored document for key.
func (a *Archive) Load(ctx context.Context, key string) ([]byte, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open archived feed %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read archived feed %s: %w", key, err)
	}
	return data, nil
}

// List returns the archived feeds of provider, newest first. An empty provider lists all of them.
func (a *Archive) List(ctx context.Context, provider string) ([]ArchivedFeed, error) {
	prefix := archivePrefix
	if provider != "" {
		prefix += provider + "/"
	}

	var feeds []ArchivedFeed
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list archived feeds: %w", obj.Err)
		}
		feeds = append(feeds, ArchivedFeed{Key: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
	}

	sort.Slice(feeds, func(i, j int) bool { return feeds[i].Key > feeds[j].Key })
	return feeds, nil
}

// FeedKey builds the object key for a document fetched at the given time.
func FeedKey(provider string, fetchedAt time.Time) string {
	return archivePrefix + provider + "/" + fetchedAt.UTC().Format("20060102T150405.000Z") + ".xml"
}

// ProviderFromKey extracts the provider name from an archive key.
func ProviderFromKey(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, archivePrefix)
	if !ok {
		return "", false
	}
	provider, _, ok := strings.Cut(rest, "/")
	if !ok || provider == "" {
		return "", false
	}
	return provider, true
}
