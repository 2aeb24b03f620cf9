package services

import (
	"errors"
	"fmt"
	"io"

	"github.com/SscSPs/sftp_txn_ingest/internal/apperrors"
	"github.com/SscSPs/sftp_txn_ingest/internal/core/ports/gateways"
)

// maxEmptyReads bounds consecutive zero-byte reads that carry no error.
const maxEmptyReads = 8

// DownloadFile reads the whole content of r into memory. It keeps issuing
// ReadAt at the current offset until the declared length is consumed or the
// reader reports io.EOF, in which case the content is truncated to what was read.
func DownloadFile(r gateways.RemoteFileReader, maxBytes int64) ([]byte, error) {
	length, err := r.Length()
	if err != nil {
		return nil, fmt.Errorf("failed to stat remote file: %w", err)
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative file length %d", apperrors.ErrValidation, length)
	}
	if length > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", apperrors.ErrFileTooLarge, length, maxBytes)
	}

	buf := make([]byte, length)
	var off int64
	empty := 0
	for off < length {
		n, err := r.ReadAt(buf[off:], off)
		off += int64(n)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read remote file at offset %d: %w", off, err)
		}
		if n > 0 {
			empty = 0
			continue
		}
		empty++
		if empty >= maxEmptyReads {
			return nil, fmt.Errorf("read stalled at offset %d of %d: %w", off, length, io.ErrNoProgress)
		}
	}

	return buf[:off], nil
}
