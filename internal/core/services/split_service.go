package services

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
	portssvc "github.com/hearthsplit/household_ledger_app/internal/core/ports/services"
	"github.com/hearthsplit/household_ledger_app/internal/utils/allocation"
	"github.com/shopspring/decimal"
)

var (
	ErrAmountMismatch   = errors.New("split amounts do not sum to the transaction amount")
	ErrUnknownSplitMode = errors.New("unknown split mode")
	ErrNotParticipant   = errors.New("split mode references a member outside the participant set")
	ErrSideMismatch     = errors.New("owed and paid rows cover different participants")
)

// amountTolerance is the validation tolerance on split sums ($0.01).
var amountTolerance = decimal.New(1, -2)

var hundred = decimal.NewFromInt(100)

// splitService implements the split specification engine: it turns a total,
// a participant set, and split/paid-by modes into concrete per-member rows.
// All methods are pure.
type splitService struct{}

// NewSplitService creates a new split engine service.
func NewSplitService() portssvc.SplitSvcFacade {
	return &splitService{}
}

var _ portssvc.SplitSvcFacade = (*splitService)(nil)

// sortedParticipants returns a copy of participants ordered by member ID.
// Allocation indexes are always assigned in this order so remainder cents
// land deterministically regardless of caller ordering.
func sortedParticipants(participants []domain.Member) []domain.Member {
	out := make([]domain.Member, len(participants))
	copy(out, participants)
	sort.Slice(out, func(i, j int) bool { return out[i].MemberID < out[j].MemberID })
	return out
}

// BuildSplit produces one row per participant with both sides populated.
func (s *splitService) BuildSplit(total decimal.Decimal, participants []domain.Member, splitMode, paidByMode domain.SplitMode, priorRows []domain.MemberSplit) ([]domain.MemberSplit, error) {
	owed, err := s.BuildSplitSide(total, participants, splitMode, portssvc.OwedSide, priorRows)
	if err != nil {
		return nil, err
	}
	paid, err := s.BuildSplitSide(total, participants, paidByMode, portssvc.PaidSide, priorRows)
	if err != nil {
		return nil, err
	}
	return s.CombineSides(owed, paid)
}

// BuildSplitSide computes the owed or paid side for every participant.
func (s *splitService) BuildSplitSide(total decimal.Decimal, participants []domain.Member, mode domain.SplitMode, side portssvc.SplitSide, priorRows []domain.MemberSplit) ([]domain.MemberSplit, error) {
	if len(participants) == 0 {
		return nil, allocation.ErrNoParticipants
	}
	mode = mode.Normalize()
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSplitMode, mode.Kind)
	}

	ordered := sortedParticipants(participants)
	rows := make([]domain.MemberSplit, len(ordered))
	for i, m := range ordered {
		rows[i] = domain.MemberSplit{MemberID: m.MemberID}
	}

	switch mode.Kind {
	case domain.SplitEqual:
		amounts, err := allocation.EqualShares(total, len(ordered))
		if err != nil {
			return nil, err
		}
		percentages, err := allocation.EqualShares(hundred, len(ordered))
		if err != nil {
			return nil, err
		}
		for i := range rows {
			setSide(&rows[i], side, amounts[i], percentages[i])
		}

	case domain.SplitMemberOnly:
		idx := -1
		for i, m := range ordered {
			if m.MemberID == mode.MemberID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: member %s", ErrNotParticipant, mode.MemberID)
		}
		setSide(&rows[idx], side, total, hundred)

	case domain.SplitCustom:
		prior := indexRowsByMember(priorRows)
		for i, m := range ordered {
			pct := decimal.Zero
			if p, ok := prior[m.MemberID]; ok {
				pct = sidePercentage(p, side)
			}
			amount := total.Mul(pct).DivRound(hundred, 2)
			setSide(&rows[i], side, amount, pct)
		}
	}

	// A zero total zeroes both amount and percentage on every row.
	if total.IsZero() {
		for i := range rows {
			setSide(&rows[i], side, decimal.Zero, decimal.Zero)
		}
	}

	return rows, nil
}

// BuildEqualSubset allocates total equally among the subset members only,
// in ascending member-ID order, and leaves the other participants at zero.
// The result is persisted as plain CUSTOM rows.
func (s *splitService) BuildEqualSubset(total decimal.Decimal, participants []domain.Member, subsetIDs []string, side portssvc.SplitSide) ([]domain.MemberSplit, error) {
	if len(participants) == 0 {
		return nil, allocation.ErrNoParticipants
	}

	inSubset := make(map[string]bool, len(subsetIDs))
	for _, id := range subsetIDs {
		inSubset[id] = true
	}

	ordered := sortedParticipants(participants)
	subsetCount := 0
	for _, m := range ordered {
		if inSubset[m.MemberID] {
			subsetCount++
		}
	}
	if subsetCount == 0 {
		return nil, allocation.ErrNoParticipants
	}

	amounts, err := allocation.EqualShares(total, subsetCount)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.MemberSplit, len(ordered))
	subsetIdx := 0
	for i, m := range ordered {
		rows[i] = domain.MemberSplit{MemberID: m.MemberID}
		if !inSubset[m.MemberID] {
			continue
		}
		amount := amounts[subsetIdx]
		subsetIdx++
		setSide(&rows[i], side, amount, allocation.Percentage(amount, total))
	}
	return rows, nil
}

// CombineSides merges the owed side of owedRows with the paid side of
// paidRows into single rows.
func (s *splitService) CombineSides(owedRows, paidRows []domain.MemberSplit) ([]domain.MemberSplit, error) {
	if len(owedRows) != len(paidRows) {
		return nil, ErrSideMismatch
	}
	rows := make([]domain.MemberSplit, len(owedRows))
	for i := range owedRows {
		if owedRows[i].MemberID != paidRows[i].MemberID {
			return nil, fmt.Errorf("%w: %s vs %s at index %d", ErrSideMismatch, owedRows[i].MemberID, paidRows[i].MemberID, i)
		}
		rows[i] = domain.MemberSplit{
			MemberID:       owedRows[i].MemberID,
			OwedAmount:     owedRows[i].OwedAmount,
			OwedPercentage: owedRows[i].OwedPercentage,
			PaidAmount:     paidRows[i].PaidAmount,
			PaidPercentage: paidRows[i].PaidPercentage,
		}
	}
	return rows, nil
}

// ValidateSplit fails when the owed amounts do not sum to total within $0.01.
func (s *splitService) ValidateSplit(rows []domain.MemberSplit, total decimal.Decimal) error {
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.OwedAmount)
	}
	if sum.Sub(total).Abs().GreaterThan(amountTolerance) {
		return fmt.Errorf("%w: owed sum %s vs amount %s", ErrAmountMismatch, sum.StringFixed(2), total.StringFixed(2))
	}
	return nil
}

// ValidatePaidBy is the paid-side counterpart of ValidateSplit.
func (s *splitService) ValidatePaidBy(rows []domain.MemberSplit, total decimal.Decimal) error {
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.PaidAmount)
	}
	if sum.Sub(total).Abs().GreaterThan(amountTolerance) {
		return fmt.Errorf("%w: paid sum %s vs amount %s", ErrAmountMismatch, sum.StringFixed(2), total.StringFixed(2))
	}
	return nil
}

func setSide(row *domain.MemberSplit, side portssvc.SplitSide, amount, percentage decimal.Decimal) {
	if side == portssvc.PaidSide {
		row.PaidAmount = amount
		row.PaidPercentage = percentage
		return
	}
	row.OwedAmount = amount
	row.OwedPercentage = percentage
}

func sidePercentage(row domain.MemberSplit, side portssvc.SplitSide) decimal.Decimal {
	if side == portssvc.PaidSide {
		return row.PaidPercentage
	}
	return row.OwedPercentage
}

func indexRowsByMember(rows []domain.MemberSplit) map[string]domain.MemberSplit {
	out := make(map[string]domain.MemberSplit, len(rows))
	for _, r := range rows {
		out[r.MemberID] = r
	}
	return out
}
