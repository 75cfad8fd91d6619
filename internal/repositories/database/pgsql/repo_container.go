package pgsql

import (
	portsrepo "github.com/hearthsplit/household_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	memberRepo := newPgxMemberRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool)

	return portsrepo.RepositoryProvider{
		Member:      memberRepo,
		Transaction: transactionRepo,
	}
}
