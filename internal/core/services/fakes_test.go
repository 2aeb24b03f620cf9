package services_test

import (
	"context"
	"errors"
	"io"
	"path"
	"sort"
	"sync"

	"github.com/SscSPs/sftp_txn_ingest/internal/apperrors"
	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
	"github.com/SscSPs/sftp_txn_ingest/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/sftp_txn_ingest/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sftp_txn_ingest/internal/core/ports/services"
	"github.com/stretchr/testify/mock"
)

// --- chunkedReader serves content in pieces no larger than chunk ---
type chunkedReader struct {
	data    []byte
	chunk   int
	length  int64 // declared length; may differ from len(data)
	calls   int
	closed  bool
	failAt  int64
	failErr error
}

func newChunkedReader(data []byte, chunk int) *chunkedReader {
	return &chunkedReader{data: data, chunk: chunk, length: int64(len(data)), failAt: -1}
}

func (r *chunkedReader) ReadAt(p []byte, off int64) (int, error) {
	r.calls++
	if r.failAt >= 0 && off >= r.failAt {
		return 0, r.failErr
	}
	if off >= int64(len(r.data)) {
		return 0, io.EOF
	}
	n := len(p)
	if r.chunk > 0 && n > r.chunk {
		n = r.chunk
	}
	return copy(p[:n], r.data[off:]), nil
}

func (r *chunkedReader) Close() error {
	r.closed = true
	return nil
}

func (r *chunkedReader) Length() (int64, error) {
	return r.length, nil
}

// --- memoryChannel is an in-memory remote directory ---
type memoryFile struct {
	name    string
	dir     bool
	content []byte
	openErr error
}

type memoryChannel struct {
	mu      sync.Mutex
	dirs    map[string][]memoryFile
	chunk   int
	listErr error
	closed  int
	opened  []*chunkedReader
}

func newMemoryChannel(chunk int) *memoryChannel {
	return &memoryChannel{dirs: map[string][]memoryFile{}, chunk: chunk}
}

func (c *memoryChannel) put(dir, name, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, f := range c.dirs[dir] {
		if f.name == name {
			c.dirs[dir][i].content = []byte(content)
			return
		}
	}
	c.dirs[dir] = append(c.dirs[dir], memoryFile{name: name, content: []byte(content)})
}

func (c *memoryChannel) List(_ context.Context, directory string) ([]domain.RemoteFile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listErr != nil {
		return nil, c.listErr
	}
	files := make([]domain.RemoteFile, 0, len(c.dirs[directory]))
	for _, f := range c.dirs[directory] {
		files = append(files, domain.RemoteFile{
			Name:      f.name,
			Path:      path.Join(directory, f.name),
			IsRegular: !f.dir,
			Length:    int64(len(f.content)),
		})
	}
	return files, nil
}

func (c *memoryChannel) Open(_ context.Context, p string) (gateways.RemoteFileReader, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	dir, name := path.Split(p)
	dir = path.Clean(dir)
	for _, f := range c.dirs[dir] {
		if f.name != name {
			continue
		}
		if f.openErr != nil {
			return nil, f.openErr
		}
		r := newChunkedReader(f.content, c.chunk)
		c.opened = append(c.opened, r)
		return r, nil
	}
	return nil, errors.New("no such file")
}

func (c *memoryChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return nil
}

// --- memoryDialer always hands out the same channel ---
type memoryDialer struct {
	channel *memoryChannel
	err     error
	dials   int
	creds   domain.Credentials
}

func (d *memoryDialer) Dial(_ context.Context, _ domain.Endpoint, creds domain.Credentials) (gateways.Channel, error) {
	d.dials++
	d.creds = creds
	if d.err != nil {
		return nil, d.err
	}
	return d.channel, nil
}

// --- memoryStore is an atomic in-memory transactions table plus ledger ---
type memoryStore struct {
	mu        sync.Mutex
	rows      map[string]domain.TransactionRecord
	ledger    map[string]domain.LedgerEntry
	failNext  map[string]error
	commits   int
	ledgerErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		rows:     map[string]domain.TransactionRecord{},
		ledger:   map[string]domain.LedgerEntry{},
		failNext: map[string]error{},
	}
}

func (s *memoryStore) IsProcessed(_ context.Context, filename string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ledgerErr != nil {
		return false, s.ledgerErr
	}
	_, ok := s.ledger[filename]
	return ok, nil
}

func (s *memoryStore) FindLedgerEntry(_ context.Context, filename string) (*domain.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.ledger[filename]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &entry, nil
}

// ListLedgerEntries returns entries sorted by filename; the memory store has a single page.
func (s *memoryStore) ListLedgerEntries(_ context.Context, limit int, _ *string) ([]domain.LedgerEntry, *string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ledgerErr != nil {
		return nil, nil, s.ledgerErr
	}
	entries := make([]domain.LedgerEntry, 0, len(s.ledger))
	for _, e := range s.ledger {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Filename < entries[j].Filename })
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil, nil
}

func (s *memoryStore) FindTransactionByID(_ context.Context, id string) (*domain.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &rec, nil
}

func (s *memoryStore) CommitFile(_ context.Context, filename string, records []domain.TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failNext[filename]; ok {
		delete(s.failNext, filename)
		return err
	}
	if _, ok := s.ledger[filename]; ok {
		return apperrors.ErrAlreadyProcessed
	}
	for _, rec := range records {
		s.rows[rec.ID] = rec
	}
	s.ledger[filename] = domain.LedgerEntry{Filename: filename, RecordCount: len(records)}
	s.commits++
	return nil
}

func (s *memoryStore) provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{LedgerRepo: s, TransactionRepo: s}
}

var (
	_ portsrepo.LedgerRepositoryFacade      = (*memoryStore)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*memoryStore)(nil)
	_ gateways.Channel                      = (*memoryChannel)(nil)
	_ gateways.ChannelDialer                = (*memoryDialer)(nil)
)

// --- Mock CredentialResolver ---
type MockCredentialResolver struct {
	mock.Mock
}

func (m *MockCredentialResolver) Resolve(ctx context.Context) (domain.Credentials, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Credentials), args.Error(1)
}

// --- Mock SecretStore ---
type MockSecretStore struct {
	mock.Mock
}

func (m *MockSecretStore) GetSecret(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

// --- Mock OutcomeReporter ---
type MockOutcomeReporter struct {
	mock.Mock
}

func (m *MockOutcomeReporter) ReportFile(ctx context.Context, outcome domain.FileOutcome) {
	m.Called(ctx, outcome)
}

func (m *MockOutcomeReporter) ReportRun(ctx context.Context, summary domain.RunSummary) {
	m.Called(ctx, summary)
}

var (
	_ portssvc.CredentialResolverSvc = (*MockCredentialResolver)(nil)
	_ gateways.SecretStore           = (*MockSecretStore)(nil)
	_ portssvc.OutcomeReporter       = (*MockOutcomeReporter)(nil)
)
