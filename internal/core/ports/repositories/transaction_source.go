package repositories

import (
	"context"
	"io"
)

// TransactionSource gives read access to named sales sources.
type TransactionSource interface {
	// Fingerprint returns a value that changes whenever the content of sourceID changes.
	Fingerprint(ctx context.Context, sourceID string) (string, error)

	// Open returns a reader over the raw CSV content of sourceID.
	Open(ctx context.Context, sourceID string) (io.ReadCloser, error)
}
