// Package filesystem provides the file-backed transaction source.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/SscSPs/sales_dashboard/internal/apperrors"
	portsrepo "github.com/SscSPs/sales_dashboard/internal/core/ports/repositories"
	"github.com/cespare/xxhash/v2"
)

// FingerprintMode selects how a file's content identity is computed.
type FingerprintMode string

const (
	// FingerprintModTime uses modification time and size. Cheap, no read.
	FingerprintModTime FingerprintMode = "modtime"
	// FingerprintHash uses an xxhash64 of the full content.
	FingerprintHash FingerprintMode = "hash"
)

// ParseFingerprintMode returns the mode named by s, or false if it is unknown.
func ParseFingerprintMode(s string) (FingerprintMode, bool) {
	switch FingerprintMode(s) {
	case FingerprintModTime, FingerprintHash:
		return FingerprintMode(s), true
	}
	return "", false
}

// csvSource reads sources as local file paths.
type csvSource struct {
	mode FingerprintMode
}

// NewCSVSource creates a file source using the given fingerprint mode.
func NewCSVSource(mode FingerprintMode) portsrepo.TransactionSource {
	if _, ok := ParseFingerprintMode(string(mode)); !ok {
		mode = FingerprintModTime
	}
	return &csvSource{mode: mode}
}

var _ portsrepo.TransactionSource = (*csvSource)(nil)

// Fingerprint identifies the current content of the file at path.
func (s *csvSource) Fingerprint(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", notFound(path, err)
	}
	if info.IsDir() {
		return "", notFound(path, fmt.Errorf("%s is a directory", path))
	}

	if s.mode == FingerprintModTime {
		return strconv.FormatInt(info.ModTime().UnixNano(), 36) + "-" + strconv.FormatInt(info.Size(), 36), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", notFound(path, err)
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", notFound(path, err)
	}
	return strconv.FormatUint(h.Sum64(), 16), nil
}

// Open opens the file at path for reading.
func (s *csvSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, notFound(path, err)
	}
	return f, nil
}

func notFound(path string, cause error) error {
	msg := "The data file could not be read at: %s. Please make sure the sales data file exists and is readable."
	if errors.Is(cause, fs.ErrNotExist) {
		msg = "The data file was not found at: %s. Please make sure the sales data file exists."
	}
	de := apperrors.NewDataError(apperrors.KindSourceNotFound, msg, path)
	de.Err = cause
	return de
}
