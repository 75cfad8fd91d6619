package repositories

// RepositoryProvider bundles all repository facades for dependency injection.
type RepositoryProvider struct {
	Member      MemberRepositoryFacade
	Transaction TransactionRepositoryFacade
}
