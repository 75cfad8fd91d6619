package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/hearthsplit/household_ledger_app/internal/apperrors"
	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
	portssvc "github.com/hearthsplit/household_ledger_app/internal/core/ports/services"
	"github.com/hearthsplit/household_ledger_app/internal/core/services"
	"github.com/hearthsplit/household_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockMemberService is a mock type for the MemberSvcFacade interface
type MockMemberService struct {
	mock.Mock
}

func (m *MockMemberService) GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberService) ListMembers(ctx context.Context, householdID string, activeOnly bool) ([]domain.Member, error) {
	args := m.Called(ctx, householdID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockMemberService) GetHouseholdByID(ctx context.Context, householdID string) (*domain.Household, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Household), args.Error(1)
}

func (m *MockMemberService) CreateHousehold(ctx context.Context, req dto.CreateHouseholdRequest) (*domain.Household, *domain.Member, error) {
	args := m.Called(ctx, req)
	var household *domain.Household
	var member *domain.Member
	if args.Get(0) != nil {
		household = args.Get(0).(*domain.Household)
	}
	if args.Get(1) != nil {
		member = args.Get(1).(*domain.Member)
	}
	return household, member, args.Error(2)
}

func (m *MockMemberService) AddMember(ctx context.Context, householdID string, req dto.CreateMemberRequest, creatorMemberID string) (*domain.Member, error) {
	args := m.Called(ctx, householdID, req, creatorMemberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberService) UpdateMember(ctx context.Context, householdID, memberID string, req dto.UpdateMemberRequest, requestingMemberID string) (*domain.Member, error) {
	args := m.Called(ctx, householdID, memberID, req, requestingMemberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberService) DeactivateMember(ctx context.Context, householdID, memberID string, requestingMemberID string) error {
	args := m.Called(ctx, householdID, memberID, requestingMemberID)
	return args.Error(0)
}

func (m *MockMemberService) AuthorizeMemberAction(ctx context.Context, memberID, householdID string) error {
	args := m.Called(ctx, memberID, householdID)
	return args.Error(0)
}

// --- Test Suite Setup ---

type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo   *MockTransactionRepository
	mockMemberSvc *MockMemberService
	service       portssvc.TransactionSvcFacade
	ctx           context.Context
}

func (s *TransactionServiceTestSuite) SetupTest() {
	s.mockTxnRepo = new(MockTransactionRepository)
	s.mockMemberSvc = new(MockMemberService)
	s.service = services.NewTransactionService(
		s.mockTxnRepo,
		s.mockMemberSvc,
		services.NewSplitService(),
		services.NewReimbursementService(s.mockTxnRepo),
	)
	s.ctx = context.Background()
}

func (s *TransactionServiceTestSuite) authorize(memberID, householdID string) {
	s.mockMemberSvc.On("AuthorizeMemberAction", mock.Anything, memberID, householdID).Return(nil)
}

func (s *TransactionServiceTestSuite) roster(householdID string, ids ...string) {
	s.mockMemberSvc.On("ListMembers", mock.Anything, householdID, true).Return(members(ids...), nil)
}

// --- Test Cases ---

func (s *TransactionServiceTestSuite) TestCreateExpense_DefaultModes() {
	s.authorize("m1", "h1")
	s.roster("h1", "m2", "m1", "m3")

	var savedTxn domain.Transaction
	var savedSplits []domain.MemberSplit
	s.mockTxnRepo.On("SaveTransaction", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedTxn = args.Get(1).(domain.Transaction)
			savedSplits = args.Get(2).([]domain.MemberSplit)
		}).Return(nil)

	req := dto.CreateTransactionRequest{
		Type:    "EXPENSE",
		Amount:  dec("100.00"),
		Date:    time.Now(),
		PayerID: strPtr("m1"),
	}
	txn, err := s.service.CreateTransaction(s.ctx, "h1", req, "m1")
	s.Require().NoError(err)
	s.Require().NotNil(txn)

	// Defaults: owed side EQUAL, paid side MEMBER_ONLY for the payer.
	s.Equal(domain.SplitEqual, savedTxn.SplitMode.Kind)
	s.Equal(domain.SplitMemberOnly, savedTxn.PaidByMode.Kind)
	s.Equal("m1", savedTxn.PaidByMode.MemberID)

	s.Require().Len(savedSplits, 3)
	s.Equal("m1", savedSplits[0].MemberID)
	s.True(savedSplits[0].OwedAmount.Equal(dec("33.34")), "got %s", savedSplits[0].OwedAmount)
	s.True(savedSplits[1].OwedAmount.Equal(dec("33.33")))
	s.True(savedSplits[2].OwedAmount.Equal(dec("33.33")))
	s.True(savedSplits[0].PaidAmount.Equal(dec("100.00")))
	for _, row := range savedSplits {
		s.Equal(txn.TransactionID, row.TransactionID)
	}
}

func (s *TransactionServiceTestSuite) TestCreateExpense_SubsetEqualStoredAsCustom() {
	s.authorize("m1", "h1")
	s.roster("h1", "m1", "m2", "m3")

	var savedTxn domain.Transaction
	var savedSplits []domain.MemberSplit
	s.mockTxnRepo.On("SaveTransaction", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedTxn = args.Get(1).(domain.Transaction)
			savedSplits = args.Get(2).([]domain.MemberSplit)
		}).Return(nil)

	req := dto.CreateTransactionRequest{
		Type:                 "EXPENSE",
		Amount:               dec("10.00"),
		Date:                 time.Now(),
		PayerID:              strPtr("m1"),
		SplitMode:            &dto.SplitModeInput{Kind: "EQUAL"},
		ParticipantMemberIDs: []string{"m1", "m2"},
	}
	_, err := s.service.CreateTransaction(s.ctx, "h1", req, "m1")
	s.Require().NoError(err)

	// The subset selection is presentation-only; the stored mode is CUSTOM.
	s.Equal(domain.SplitCustom, savedTxn.SplitMode.Kind)

	s.Require().Len(savedSplits, 3)
	s.True(savedSplits[0].OwedAmount.Equal(dec("5.00")))
	s.True(savedSplits[1].OwedAmount.Equal(dec("5.00")))
	s.True(savedSplits[2].OwedAmount.IsZero())
}

func (s *TransactionServiceTestSuite) TestCreateExpense_CustomPercentagesShort() {
	s.authorize("m1", "h1")
	s.roster("h1", "m1", "m2")

	req := dto.CreateTransactionRequest{
		Type:      "EXPENSE",
		Amount:    dec("100.00"),
		Date:      time.Now(),
		PayerID:   strPtr("m1"),
		SplitMode: &dto.SplitModeInput{Kind: "CUSTOM"},
		CustomSplits: []dto.SplitRowInput{
			{MemberID: "m1", OwedPercentage: decPtr("60")},
			{MemberID: "m2", OwedPercentage: decPtr("30")},
		},
	}
	_, err := s.service.CreateTransaction(s.ctx, "h1", req, "m1")
	s.ErrorIs(err, services.ErrAmountMismatch)
	s.mockTxnRepo.AssertNotCalled(s.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (s *TransactionServiceTestSuite) TestCreateReimbursement_Capped() {
	s.authorize("m1", "h1")

	expense := &domain.Transaction{
		TransactionID: "e1",
		HouseholdID:   "h1",
		Type:          domain.Expense,
		Amount:        dec("200.00"),
	}
	s.mockTxnRepo.On("FindTransactionByID", mock.Anything, "h1", "e1").Return(expense, nil)
	s.mockTxnRepo.On("SumLinkedReimbursements", mock.Anything, "e1", (*string)(nil)).Return(dec("50.00"), nil)

	req := dto.CreateTransactionRequest{
		Type:            "REIMBURSEMENT",
		Amount:          dec("160.00"),
		Date:            time.Now(),
		PayeeID:         strPtr("m1"),
		LinkedExpenseID: strPtr("e1"),
	}
	_, err := s.service.CreateTransaction(s.ctx, "h1", req, "m1")
	s.ErrorIs(err, services.ErrExceedsRemaining)

	// Exactly the remaining amount is accepted.
	s.mockTxnRepo.On("SaveTransaction", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	req.Amount = dec("150.00")
	txn, err := s.service.CreateTransaction(s.ctx, "h1", req, "m1")
	s.Require().NoError(err)
	s.Equal(domain.Reimbursement, txn.Type)
}

func (s *TransactionServiceTestSuite) TestCreateReimbursement_MissingLinkedExpense() {
	s.authorize("m1", "h1")
	s.mockTxnRepo.On("FindTransactionByID", mock.Anything, "h1", "e9").Return(nil, apperrors.ErrNotFound)

	req := dto.CreateTransactionRequest{
		Type:            "REIMBURSEMENT",
		Amount:          dec("10.00"),
		Date:            time.Now(),
		PayeeID:         strPtr("m1"),
		LinkedExpenseID: strPtr("e9"),
	}
	_, err := s.service.CreateTransaction(s.ctx, "h1", req, "m1")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_StructuralValidation() {
	s.authorize("m1", "h1")

	// A settlement paying oneself is rejected before any persistence.
	req := dto.CreateTransactionRequest{
		Type:    "SETTLEMENT",
		Amount:  dec("20.00"),
		Date:    time.Now(),
		PayerID: strPtr("m1"),
		PayeeID: strPtr("m1"),
	}
	_, err := s.service.CreateTransaction(s.ctx, "h1", req, "m1")
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_Forbidden() {
	s.mockMemberSvc.On("AuthorizeMemberAction", mock.Anything, "intruder", "h1").Return(apperrors.ErrForbidden)

	req := dto.CreateTransactionRequest{Type: "EXPENSE", Amount: dec("10.00"), Date: time.Now()}
	_, err := s.service.CreateTransaction(s.ctx, "h1", req, "intruder")
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *TransactionServiceTestSuite) TestUpdateReimbursement_ExcludesItselfFromCap() {
	s.authorize("m1", "h1")

	existing := &domain.Transaction{
		TransactionID:   "r1",
		HouseholdID:     "h1",
		Type:            domain.Reimbursement,
		Amount:          dec("50.00"),
		PayeeID:         strPtr("m1"),
		LinkedExpenseID: strPtr("e1"),
	}
	expense := &domain.Transaction{
		TransactionID: "e1",
		HouseholdID:   "h1",
		Type:          domain.Expense,
		Amount:        dec("200.00"),
	}
	s.mockTxnRepo.On("FindTransactionByID", mock.Anything, "h1", "r1").Return(existing, nil)
	s.mockTxnRepo.On("FindTransactionByID", mock.Anything, "h1", "e1").Return(expense, nil)
	s.mockTxnRepo.On("SumLinkedReimbursements", mock.Anything, "e1", mock.MatchedBy(func(p *string) bool {
		return p != nil && *p == "r1"
	})).Return(dec("50.00"), nil)
	s.mockTxnRepo.On("UpdateTransaction", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	req := dto.UpdateTransactionRequest{
		Amount:          dec("150.00"),
		Date:            time.Now(),
		PayeeID:         strPtr("m1"),
		LinkedExpenseID: strPtr("e1"),
	}
	txn, err := s.service.UpdateTransaction(s.ctx, "h1", "r1", req, "m1")
	s.Require().NoError(err)
	s.True(txn.Amount.Equal(dec("150.00")))
	s.mockTxnRepo.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestGetTransactionByID_RecognizesPattern() {
	s.authorize("m1", "h1")

	txn := &domain.Transaction{
		TransactionID: "t1",
		HouseholdID:   "h1",
		Type:          domain.Expense,
		Amount:        dec("100.00"),
		SplitMode:     domain.SplitMode{Kind: domain.SplitEqual},
	}
	splits := []domain.MemberSplit{
		{TransactionID: "t1", MemberID: "m1", OwedAmount: dec("33.34"), PaidAmount: dec("100.00")},
		{TransactionID: "t1", MemberID: "m2", OwedAmount: dec("33.33")},
		{TransactionID: "t1", MemberID: "m3", OwedAmount: dec("33.33")},
	}
	s.mockTxnRepo.On("FindTransactionByID", mock.Anything, "h1", "t1").Return(txn, nil)
	s.mockTxnRepo.On("FindSplitsByTransactionID", mock.Anything, "t1").Return(splits, nil)

	resp, err := s.service.GetTransactionByID(s.ctx, "h1", "t1", "m1")
	s.Require().NoError(err)
	s.Require().NotNil(resp.Recognized)
	s.Equal(domain.SplitEqual, resp.Recognized.Split.Mode.Kind)
	s.Equal(domain.SplitMemberOnly, resp.Recognized.PaidBy.Mode.Kind)
	s.Equal("m1", resp.Recognized.PaidBy.Mode.MemberID)
	s.Len(resp.Splits, 3)
}

func (s *TransactionServiceTestSuite) TestDeleteExpense_BlockedByLinkedReimbursements() {
	s.authorize("m1", "h1")

	expense := &domain.Transaction{
		TransactionID: "e1",
		HouseholdID:   "h1",
		Type:          domain.Expense,
		Amount:        dec("200.00"),
	}
	s.mockTxnRepo.On("FindTransactionByID", mock.Anything, "h1", "e1").Return(expense, nil)
	s.mockTxnRepo.On("SumLinkedReimbursements", mock.Anything, "e1", (*string)(nil)).Return(dec("50.00"), nil)

	err := s.service.DeleteTransaction(s.ctx, "h1", "e1", "m1")
	s.ErrorIs(err, services.ErrReimbursementsAttached)
	s.mockTxnRepo.AssertNotCalled(s.T(), "DeleteTransaction", mock.Anything, "h1", "e1")
}

func (s *TransactionServiceTestSuite) TestDeleteExpense_Success() {
	s.authorize("m1", "h1")

	expense := &domain.Transaction{
		TransactionID: "e1",
		HouseholdID:   "h1",
		Type:          domain.Expense,
		Amount:        dec("200.00"),
	}
	s.mockTxnRepo.On("FindTransactionByID", mock.Anything, "h1", "e1").Return(expense, nil)
	s.mockTxnRepo.On("SumLinkedReimbursements", mock.Anything, "e1", (*string)(nil)).Return(dec("0.00"), nil)
	s.mockTxnRepo.On("DeleteTransaction", mock.Anything, "h1", "e1").Return(nil)

	err := s.service.DeleteTransaction(s.ctx, "h1", "e1", "m1")
	s.Require().NoError(err)
	s.mockTxnRepo.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestListTransactions_BatchesSplits() {
	s.authorize("m1", "h1")

	transactions := []domain.Transaction{
		{TransactionID: "t1", HouseholdID: "h1", Type: domain.Expense, Amount: dec("60.00")},
		{TransactionID: "t2", HouseholdID: "h1", Type: domain.Settlement, Amount: dec("10.00"), PayerID: strPtr("m2"), PayeeID: strPtr("m1")},
	}
	splits := map[string][]domain.MemberSplit{
		"t1": {
			{TransactionID: "t1", MemberID: "m1", OwedAmount: dec("30.00"), PaidAmount: dec("60.00")},
			{TransactionID: "t1", MemberID: "m2", OwedAmount: dec("30.00")},
		},
	}
	s.mockTxnRepo.On("ListTransactionsByHousehold", mock.Anything, "h1", 50, 0).Return(transactions, nil)
	s.mockTxnRepo.On("FindSplitsByTransactionIDs", mock.Anything, []string{"t1"}).Return(splits, nil)

	resp, err := s.service.ListTransactions(s.ctx, "h1", "m1", dto.ListTransactionsParams{})
	s.Require().NoError(err)
	s.Require().Len(resp.Transactions, 2)
	s.Len(resp.Transactions[0].Splits, 2)
	s.Empty(resp.Transactions[1].Splits)
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
