package services

import (
	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SplitBuilderSvc derives per-member owed/paid rows from a split
// specification. All operations are pure; callers pass fresh snapshots.
type SplitBuilderSvc interface {
	// BuildSplit produces one MemberSplit row per participant for the given
	// total and modes. priorRows supply the authoritative percentages for
	// CUSTOM modes; they are ignored for the computed modes.
	BuildSplit(total decimal.Decimal, participants []domain.Member, splitMode, paidByMode domain.SplitMode, priorRows []domain.MemberSplit) ([]domain.MemberSplit, error)

	// BuildSplitSide computes a single side (owed or paid), leaving the
	// other side zeroed. Rows come back one per participant, ordered by
	// member ID.
	BuildSplitSide(total decimal.Decimal, participants []domain.Member, mode domain.SplitMode, side SplitSide, priorRows []domain.MemberSplit) ([]domain.MemberSplit, error)

	// BuildEqualSubset allocates total equally across the given subset and
	// returns rows meant to be stored as plain CUSTOM rows. The subset-equal
	// selection is a presentation concept, never a persisted mode.
	BuildEqualSubset(total decimal.Decimal, participants []domain.Member, subsetIDs []string, side SplitSide) ([]domain.MemberSplit, error)

	// CombineSides merges the owed side of owedRows with the paid side of
	// paidRows. Both slices must cover the same participants in the same
	// order.
	CombineSides(owedRows, paidRows []domain.MemberSplit) ([]domain.MemberSplit, error)
}

// SplitSide selects which side of a split an operation applies to.
type SplitSide int

const (
	OwedSide SplitSide = iota
	PaidSide
)

// SplitValidatorSvc checks split rows against the transaction amount.
type SplitValidatorSvc interface {
	// ValidateSplit fails with ErrAmountMismatch when the owed amounts do
	// not sum to total within $0.01.
	ValidateSplit(rows []domain.MemberSplit, total decimal.Decimal) error
	// ValidatePaidBy is the paid-side counterpart of ValidateSplit.
	ValidatePaidBy(rows []domain.MemberSplit, total decimal.Decimal) error
}

// SplitRecognizerSvc reconstructs presentation-level modes from stored rows.
type SplitRecognizerSvc interface {
	// RecognizeSplitPattern classifies the owed and paid sides of the rows
	// independently. Inconsistent rows degrade to CUSTOM, never an error.
	RecognizeSplitPattern(rows []domain.MemberSplit, total decimal.Decimal) domain.RecognizedPattern
}

// SplitSvcFacade combines all split engine interfaces.
type SplitSvcFacade interface {
	SplitBuilderSvc
	SplitValidatorSvc
	SplitRecognizerSvc
}
