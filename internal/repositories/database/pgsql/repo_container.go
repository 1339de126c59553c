package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/sixjars/six_jars_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgsql repositories against one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		UserRepo:        newPgxUserRepository(pool),
		JarRepo:         newPgxJarRepository(pool),
		TransactionRepo: newPgxTransactionRepository(pool),
		ReportRepo:      newPgxReportRepository(pool),
	}
}
