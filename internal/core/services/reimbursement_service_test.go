package services_test

import (
	"context"
	"testing"

	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
	"github.com/hearthsplit/household_ledger_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRemainingReimbursable(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := services.NewReimbursementService(mockRepo)

	expense := domain.Transaction{TransactionID: "e1", Type: domain.Expense, Amount: dec("200.00")}
	mockRepo.On("SumLinkedReimbursements", mock.Anything, "e1", (*string)(nil)).Return(dec("50.00"), nil)

	remaining, err := svc.RemainingReimbursable(context.Background(), expense, nil)
	require.NoError(t, err)
	assert.True(t, remaining.Equal(dec("150.00")), "got %s", remaining)
	mockRepo.AssertExpectations(t)
}

func TestRemainingReimbursable_FlooredAtZero(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := services.NewReimbursementService(mockRepo)

	// Stored data over-reimburses; remaining must never go negative.
	expense := domain.Transaction{TransactionID: "e1", Type: domain.Expense, Amount: dec("200.00")}
	mockRepo.On("SumLinkedReimbursements", mock.Anything, "e1", (*string)(nil)).Return(dec("250.00"), nil)

	remaining, err := svc.RemainingReimbursable(context.Background(), expense, nil)
	require.NoError(t, err)
	assert.True(t, remaining.IsZero(), "got %s", remaining)
}

func TestRemainingReimbursable_NotAnExpense(t *testing.T) {
	svc := services.NewReimbursementService(new(MockTransactionRepository))

	settlement := domain.Transaction{TransactionID: "s1", Type: domain.Settlement, Amount: dec("20.00")}
	_, err := svc.RemainingReimbursable(context.Background(), settlement, nil)
	assert.ErrorIs(t, err, services.ErrNotAnExpense)
}

func TestRemainingReimbursable_ExcludesEditedTransaction(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := services.NewReimbursementService(mockRepo)

	expense := domain.Transaction{TransactionID: "e1", Type: domain.Expense, Amount: dec("200.00")}
	exclude := "r1"
	mockRepo.On("SumLinkedReimbursements", mock.Anything, "e1", &exclude).Return(dec("0.00"), nil)

	remaining, err := svc.RemainingReimbursable(context.Background(), expense, &exclude)
	require.NoError(t, err)
	assert.True(t, remaining.Equal(dec("200.00")))
	mockRepo.AssertExpectations(t)
}

func TestValidateReimbursement(t *testing.T) {
	svc := services.NewReimbursementService(new(MockTransactionRepository))

	tests := []struct {
		name      string
		amount    string
		remaining string
		wantErr   bool
	}{
		{"within remaining", "100.00", "150.00", false},
		{"exactly remaining", "150.00", "150.00", false},
		{"exceeds remaining", "160.00", "150.00", true},
		{"zero remaining", "0.01", "0.00", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.ValidateReimbursement(dec(tc.amount), dec(tc.remaining))
			if tc.wantErr {
				assert.ErrorIs(t, err, services.ErrExceedsRemaining)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// Recording successive reimbursements only ever shrinks what remains.
func TestRemainingReimbursable_MonotoneNonIncreasing(t *testing.T) {
	expense := domain.Transaction{TransactionID: "e1", Type: domain.Expense, Amount: dec("200.00")}

	previous := expense.Amount.Add(dec("1"))
	for _, recorded := range []string{"0.00", "50.00", "125.00", "200.00", "200.00"} {
		mockRepo := new(MockTransactionRepository)
		mockRepo.On("SumLinkedReimbursements", mock.Anything, "e1", (*string)(nil)).Return(dec(recorded), nil)
		svc := services.NewReimbursementService(mockRepo)

		remaining, err := svc.RemainingReimbursable(context.Background(), expense, nil)
		require.NoError(t, err)
		assert.False(t, remaining.IsNegative())
		assert.True(t, remaining.LessThanOrEqual(previous), "remaining %s grew past %s", remaining, previous)
		previous = remaining
	}
}
