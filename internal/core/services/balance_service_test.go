package services_test

import (
	"context"
	"testing"

	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
	"github.com/hearthsplit/household_ledger_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTransactionRepository is a mock type for the TransactionRepositoryFacade interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, householdID, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, householdID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByHousehold(ctx context.Context, householdID string, limit, offset int) ([]domain.Transaction, error) {
	args := m.Called(ctx, householdID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindSplitsByTransactionID(ctx context.Context, transactionID string) ([]domain.MemberSplit, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MemberSplit), args.Error(1)
}

func (m *MockTransactionRepository) FindSplitsByTransactionIDs(ctx context.Context, transactionIDs []string) (map[string][]domain.MemberSplit, error) {
	args := m.Called(ctx, transactionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.MemberSplit), args.Error(1)
}

func (m *MockTransactionRepository) SumLinkedReimbursements(ctx context.Context, expenseID string, excludeTransactionID *string) (decimal.Decimal, error) {
	args := m.Called(ctx, expenseID, excludeTransactionID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, splits []domain.MemberSplit) error {
	args := m.Called(ctx, txn, splits)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, splits []domain.MemberSplit) error {
	args := m.Called(ctx, txn, splits)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, householdID, transactionID string) error {
	args := m.Called(ctx, householdID, transactionID)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }

func TestAggregateBalances_ExpenseFold(t *testing.T) {
	svc := services.NewBalanceService(nil)

	transactions := []domain.Transaction{
		{TransactionID: "t1", Type: domain.Expense, Amount: dec("100.00")},
	}
	splits := map[string][]domain.MemberSplit{
		"t1": {
			{MemberID: "m1", OwedAmount: dec("33.34"), PaidAmount: dec("100.00")},
			{MemberID: "m2", OwedAmount: dec("33.33")},
			{MemberID: "m3", OwedAmount: dec("33.33")},
		},
	}

	balances := svc.AggregateBalances(transactions, splits)
	require.Len(t, balances, 3)

	assert.Equal(t, "m1", balances[0].MemberID)
	assert.True(t, balances[0].NetBalance.Equal(dec("66.66")), "got %s", balances[0].NetBalance)
	assert.True(t, balances[0].TotalPaid.Equal(dec("100.00")))
	assert.True(t, balances[0].TotalOwed.Equal(dec("33.34")))

	assert.True(t, balances[1].NetBalance.Equal(dec("-33.33")))
	assert.True(t, balances[2].NetBalance.Equal(dec("-33.33")))

	assertZeroSum(t, balances)
}

func TestAggregateBalances_SettlementAndReimbursement(t *testing.T) {
	svc := services.NewBalanceService(nil)

	transactions := []domain.Transaction{
		{TransactionID: "t1", Type: domain.Expense, Amount: dec("100.00")},
		// m2 pays m1 back part of their debt.
		{TransactionID: "t2", Type: domain.Settlement, Amount: dec("20.00"), PayerID: strPtr("m2"), PayeeID: strPtr("m1")},
		// m1 receives a reimbursement against the expense.
		{TransactionID: "t3", Type: domain.Reimbursement, Amount: dec("10.00"), PayeeID: strPtr("m1"), LinkedExpenseID: strPtr("t1")},
	}
	splits := map[string][]domain.MemberSplit{
		"t1": {
			{MemberID: "m1", OwedAmount: dec("50.00"), PaidAmount: dec("100.00")},
			{MemberID: "m2", OwedAmount: dec("50.00")},
		},
	}

	balances := svc.AggregateBalances(transactions, splits)
	require.Len(t, balances, 2)

	// m1: +50 expense, +20 settlement received... payer gains, payee loses:
	// settlement payer m2 +20, payee m1 -20; reimbursement receiver m1 -10.
	assert.Equal(t, "m1", balances[0].MemberID)
	assert.True(t, balances[0].NetBalance.Equal(dec("20.00")), "got %s", balances[0].NetBalance)
	assert.Equal(t, "m2", balances[1].MemberID)
	assert.True(t, balances[1].NetBalance.Equal(dec("-30.00")), "got %s", balances[1].NetBalance)
}

func TestAggregateBalances_IncomeHasNoBalanceEffect(t *testing.T) {
	svc := services.NewBalanceService(nil)

	transactions := []domain.Transaction{
		{TransactionID: "t1", Type: domain.Income, Amount: dec("500.00"), PayerID: strPtr("m1")},
	}

	balances := svc.AggregateBalances(transactions, nil)
	assert.Empty(t, balances)
}

func TestAggregateBalances_SkipsMalformedRows(t *testing.T) {
	svc := services.NewBalanceService(nil)

	// Settlement without parties and reimbursement without a receiver are
	// skipped rather than failing the fold.
	transactions := []domain.Transaction{
		{TransactionID: "t1", Type: domain.Settlement, Amount: dec("20.00")},
		{TransactionID: "t2", Type: domain.Reimbursement, Amount: dec("10.00")},
	}

	balances := svc.AggregateBalances(transactions, nil)
	assert.Empty(t, balances)
}

func TestGetHouseholdBalances(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := services.NewBalanceService(mockRepo)

	transactions := []domain.Transaction{
		{TransactionID: "t1", HouseholdID: "h1", Type: domain.Expense, Amount: dec("60.00")},
		{TransactionID: "t2", HouseholdID: "h1", Type: domain.Settlement, Amount: dec("10.00"), PayerID: strPtr("m2"), PayeeID: strPtr("m1")},
	}
	splits := map[string][]domain.MemberSplit{
		"t1": {
			{MemberID: "m1", OwedAmount: dec("30.00"), PaidAmount: dec("60.00")},
			{MemberID: "m2", OwedAmount: dec("30.00")},
		},
	}

	mockRepo.On("ListTransactionsByHousehold", mock.Anything, "h1", 500, 0).Return(transactions, nil)
	mockRepo.On("FindSplitsByTransactionIDs", mock.Anything, []string{"t1"}).Return(splits, nil)

	balances, err := svc.GetHouseholdBalances(context.Background(), "h1")
	require.NoError(t, err)
	require.Len(t, balances, 2)

	assert.True(t, balances[0].NetBalance.Equal(dec("20.00")))
	assert.True(t, balances[1].NetBalance.Equal(dec("-20.00")))
	mockRepo.AssertExpectations(t)
}

func TestCrossCheckBalances(t *testing.T) {
	svc := services.NewBalanceService(nil)

	local := []domain.MemberBalance{
		{MemberID: "m1", NetBalance: dec("20.00")},
		{MemberID: "m2", NetBalance: dec("-20.00")},
		{MemberID: "m3", NetBalance: dec("0.00")},
	}
	reference := []domain.MemberBalance{
		{MemberID: "m1", NetBalance: dec("20.01")}, // within tolerance
		{MemberID: "m2", NetBalance: dec("-19.00")},
		{MemberID: "m4", NetBalance: dec("5.00")}, // only known to the reference
	}

	divergent := svc.CrossCheckBalances(local, reference)
	assert.Equal(t, []string{"m2", "m4"}, divergent)
}

func TestCrossCheckBalances_Agreement(t *testing.T) {
	svc := services.NewBalanceService(nil)

	balances := []domain.MemberBalance{
		{MemberID: "m1", NetBalance: dec("12.34")},
		{MemberID: "m2", NetBalance: dec("-12.34")},
	}
	assert.Empty(t, svc.CrossCheckBalances(balances, balances))
}

func assertZeroSum(t *testing.T, balances []domain.MemberBalance) {
	t.Helper()
	sum := decimal.Zero
	for _, b := range balances {
		sum = sum.Add(b.NetBalance)
	}
	assert.True(t, sum.IsZero(), "net balances sum to %s, want 0", sum)
}
