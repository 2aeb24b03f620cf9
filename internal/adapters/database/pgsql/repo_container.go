package pgsql

import (
	portsrepo "github.com/SscSPs/sftp_txn_ingest/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every repository onto dbPool (normally a *pgxpool.Pool).
func NewRepositoryProvider(dbPool PgxPool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LedgerRepo:      newPgxLedgerRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
	}
}
