// Package sftp implements the remote file channel over SSH.
package sftp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
	"github.com/SscSPs/sftp_txn_ingest/internal/core/ports/gateways"
	"github.com/SscSPs/sftp_txn_ingest/internal/middleware"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Dialer opens SFTP sessions.
type Dialer struct {
	knownHostsPath string
	timeout        time.Duration
}

// NewDialer creates a Dialer. An empty knownHostsPath disables host key verification.
func NewDialer(knownHostsPath string, timeout time.Duration) *Dialer {
	return &Dialer{knownHostsPath: knownHostsPath, timeout: timeout}
}

var _ gateways.ChannelDialer = (*Dialer)(nil)

// Dial performs the TCP connect and SSH handshake, then starts the sftp subsystem.
func (d *Dialer) Dial(ctx context.Context, endpoint domain.Endpoint, creds domain.Credentials) (gateways.Channel, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	auth, err := AuthMethods(creds)
	if err != nil {
		return nil, err
	}
	hostKeyCallback, err := d.hostKeyCallback()
	if err != nil {
		return nil, err
	}
	if d.knownHostsPath == "" {
		logger.Warn("Host key verification disabled", slog.String("host", endpoint.Host))
	}

	cfg := &ssh.ClientConfig{
		User:            creds.Username,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
		Timeout:         d.timeout,
	}

	addr := net.JoinHostPort(endpoint.Host, strconv.Itoa(endpoint.Port))
	dialer := net.Dialer{Timeout: d.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	if d.timeout > 0 {
		// bound the handshake, cleared once the session is up
		_ = conn.SetDeadline(time.Now().Add(d.timeout))
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ssh handshake with %s failed: %w", addr, err)
	}
	_ = conn.SetDeadline(time.Time{})
	client := ssh.NewClient(sshConn, chans, reqs)

	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to start sftp subsystem on %s: %w", addr, err)
	}

	logger.Info("SFTP session established", slog.String("addr", addr), slog.String("user", creds.Username))
	return newChannel(sftpClient, client), nil
}

func (d *Dialer) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if d.knownHostsPath == "" {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	callback, err := knownhosts.New(d.knownHostsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load known hosts %s: %w", d.knownHostsPath, err)
	}
	return callback, nil
}

// AuthMethods builds the SSH auth methods for creds. Password wins when set.
func AuthMethods(creds domain.Credentials) ([]ssh.AuthMethod, error) {
	if creds.UsesPassword() {
		return []ssh.AuthMethod{ssh.Password(creds.Password)}, nil
	}
	if len(creds.PrivateKey) == 0 {
		return nil, errors.New("no password or private key provided")
	}

	var (
		signer ssh.Signer
		err    error
	)
	if creds.Passphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(creds.PrivateKey, []byte(creds.Passphrase))
	} else {
		signer, err = ssh.ParsePrivateKey(creds.PrivateKey)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
}
