package services

// ServiceContainer bundles all service facades for dependency injection.
type ServiceContainer struct {
	Member        MemberSvcFacade
	Auth          AuthSvcFacade
	Split         SplitSvcFacade
	Reimbursement ReimbursementSvc
	Transaction   TransactionSvcFacade
	Balance       BalanceSvcFacade
}
