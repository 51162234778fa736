// Package storage persists finished GameLogs to a Google Cloud Storage
// bucket, keyed by game ID. Upload failures are the caller's to log and
// swallow — this package only wraps the client call.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// UploadGameLog writes data to bucket as object "<gameID>.log", creating
// or overwriting it.
func UploadGameLog(ctx context.Context, bucket, gameID string, data []byte) error {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	w := client.Bucket(bucket).Object(gameID + ".log").NewWriter(ctx)
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("upload game log: %w", err)
	}
	return w.Close()
}
