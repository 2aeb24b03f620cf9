package domain

import "strings"

// RemoteFile identifies a candidate file on the remote server, as returned by a directory listing.
type RemoteFile struct {
	Name      string `json:"name"`
	Path      string `json:"path"` // absolute remote path
	IsRegular bool   `json:"isRegular"`
	Length    int64  `json:"length"` // bytes, as declared by the listing
}

// IsCandidate reports whether the file is a regular file whose name ends with suffix.
// The suffix comparison is case-sensitive.
func (f RemoteFile) IsCandidate(suffix string) bool {
	return f.IsRegular && strings.HasSuffix(f.Name, suffix)
}

// Endpoint is the network address of the remote file server.
type Endpoint struct {
	Host string
	Port int
}

// Credentials authenticate a user against the remote file server.
// Exactly one of Password or PrivateKey is used; Password wins when both are set.
type Credentials struct {
	Username   string
	Password   string
	PrivateKey []byte // PEM
	Passphrase string // optional, for encrypted keys
}

// UsesPassword reports whether password authentication is selected.
func (c Credentials) UsesPassword() bool {
	return c.Password != ""
}
