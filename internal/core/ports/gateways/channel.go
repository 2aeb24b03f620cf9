package gateways

import (
	"context"
	"io"

	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
)

// RemoteFileReader is an open remote file supporting range reads.
// A single ReadAt may return fewer bytes than requested without an error.
type RemoteFileReader interface {
	io.ReaderAt
	io.Closer

	// Length returns the file size reported by the server.
	Length() (int64, error)
}

// Channel is an authenticated session with the remote file server.
type Channel interface {
	// List returns every entry of directory in listing order.
	List(ctx context.Context, directory string) ([]domain.RemoteFile, error)

	// Open opens the file at path for reading.
	Open(ctx context.Context, path string) (RemoteFileReader, error)

	// Close releases the session and its underlying connection.
	Close() error
}

// ChannelDialer establishes Channels.
type ChannelDialer interface {
	Dial(ctx context.Context, endpoint domain.Endpoint, creds domain.Credentials) (Channel, error)
}
