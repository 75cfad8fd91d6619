package services

import (
	"sort"

	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
	"github.com/hearthsplit/household_ledger_app/internal/utils/allocation"
	"github.com/shopspring/decimal"
)

// recognitionTolerance is the per-row tolerance ($0.02) when deciding whether
// stored amounts look like an equal allocation. Looser than the validation
// tolerance because stored rows accumulate rounding from older writers.
var recognitionTolerance = decimal.New(2, -2)

// RecognizeSplitPattern classifies the owed and paid sides of persisted rows
// independently. It is a display heuristic for round-trip editing: anything
// that does not cleanly match an equal allocation degrades to CUSTOM, never
// to an error.
func (s *splitService) RecognizeSplitPattern(rows []domain.MemberSplit, total decimal.Decimal) domain.RecognizedPattern {
	ordered := make([]domain.MemberSplit, len(rows))
	copy(ordered, rows)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].MemberID < ordered[j].MemberID })

	return domain.RecognizedPattern{
		Split: recognizeSide(ordered, total, func(r domain.MemberSplit) decimal.Decimal {
			return r.OwedAmount
		}),
		PaidBy: recognizeSide(ordered, total, func(r domain.MemberSplit) decimal.Decimal {
			return r.PaidAmount
		}),
	}
}

// recognizeSide classifies one side of the rows. Rows must already be ordered
// by member ID. An empty result (zero-value mode) means the side has no
// amounts at all and the caller should leave the split state untouched.
func recognizeSide(rows []domain.MemberSplit, total decimal.Decimal, amountOf func(domain.MemberSplit) decimal.Decimal) domain.RecognizedSide {
	withAmount := make([]domain.MemberSplit, 0, len(rows))
	for _, r := range rows {
		if amountOf(r).GreaterThan(decimal.Zero) {
			withAmount = append(withAmount, r)
		}
	}
	if len(withAmount) == 0 {
		return domain.RecognizedSide{}
	}

	memberIDs := make([]string, 0, len(withAmount))
	for _, r := range withAmount {
		memberIDs = append(memberIDs, r.MemberID)
	}

	if looksEqual(withAmount, total, amountOf) && rebuildMatches(withAmount, total, amountOf) {
		if len(withAmount) == 1 {
			return domain.RecognizedSide{
				Mode:      domain.SplitMode{Kind: domain.SplitMemberOnly, MemberID: memberIDs[0]},
				MemberIDs: memberIDs,
			}
		}
		return domain.RecognizedSide{
			Mode:      domain.SplitMode{Kind: domain.SplitEqual},
			MemberIDs: memberIDs,
		}
	}

	return domain.RecognizedSide{
		Mode:      domain.SplitMode{Kind: domain.SplitCustom},
		MemberIDs: memberIDs,
	}
}

// looksEqual reports whether every amount is within tolerance of total/count.
func looksEqual(rows []domain.MemberSplit, total decimal.Decimal, amountOf func(domain.MemberSplit) decimal.Decimal) bool {
	expected := total.Div(decimal.NewFromInt(int64(len(rows))))
	for _, r := range rows {
		if amountOf(r).Sub(expected).Abs().GreaterThan(recognitionTolerance) {
			return false
		}
	}
	return true
}

// rebuildMatches confirms idempotence: reallocating total across the same
// members reproduces the stored amounts within tolerance. Rows are ordered by
// member ID, matching the allocator's index assignment.
func rebuildMatches(rows []domain.MemberSplit, total decimal.Decimal, amountOf func(domain.MemberSplit) decimal.Decimal) bool {
	shares, err := allocation.EqualShares(total, len(rows))
	if err != nil {
		return false
	}
	for i, r := range rows {
		if amountOf(r).Sub(shares[i]).Abs().GreaterThan(recognitionTolerance) {
			return false
		}
	}
	return true
}
