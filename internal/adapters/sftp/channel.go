package sftp

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
	"github.com/SscSPs/sftp_txn_ingest/internal/core/ports/gateways"
	"github.com/pkg/sftp"
)

// channel is an open sftp session. conn, when set, is closed after the sftp client.
type channel struct {
	client *sftp.Client
	conn   io.Closer
}

func newChannel(client *sftp.Client, conn io.Closer) *channel {
	return &channel{client: client, conn: conn}
}

var _ gateways.Channel = (*channel)(nil)

func (c *channel) List(_ context.Context, directory string) ([]domain.RemoteFile, error) {
	infos, err := c.client.ReadDir(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", directory, err)
	}
	files := make([]domain.RemoteFile, 0, len(infos))
	for _, info := range infos {
		files = append(files, domain.RemoteFile{
			Name:      info.Name(),
			Path:      path.Join(directory, info.Name()),
			IsRegular: info.Mode().IsRegular(),
			Length:    info.Size(),
		})
	}
	return files, nil
}

func (c *channel) Open(_ context.Context, p string) (gateways.RemoteFileReader, error) {
	f, err := c.client.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", p, err)
	}
	return &remoteFile{File: f}, nil
}

func (c *channel) Close() error {
	err := c.client.Close()
	if c.conn != nil {
		if cerr := c.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// remoteFile adds Length to *sftp.File.
type remoteFile struct {
	*sftp.File
}

func (f *remoteFile) Length() (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", f.Name(), err)
	}
	return info.Size(), nil
}
