package services

import (
	portsrepo "github.com/hearthsplit/household_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hearthsplit/household_ledger_app/internal/core/ports/services"
	"github.com/hearthsplit/household_ledger_app/internal/platform/config"
)

// NewServiceContainer wires all services with their dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Member = NewMemberService(repos.Member)
	container.Auth = NewAuthService(cfg, repos.Member)

	// The split engine is pure; it carries no repository dependencies.
	container.Split = NewSplitService()

	container.Reimbursement = NewReimbursementService(repos.Transaction)
	container.Balance = NewBalanceService(repos.Transaction)
	container.Transaction = NewTransactionService(
		repos.Transaction,
		container.Member,
		container.Split,
		container.Reimbursement,
	)

	return container
}

// Compile-time interface checks.
var (
	_ portssvc.MemberSvcFacade      = (*memberService)(nil)
	_ portssvc.SplitSvcFacade       = (*splitService)(nil)
	_ portssvc.BalanceSvcFacade     = (*balanceService)(nil)
	_ portssvc.TransactionSvcFacade = (*transactionService)(nil)
)
