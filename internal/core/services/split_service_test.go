package services_test

import (
	"testing"

	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
	portssvc "github.com/hearthsplit/household_ledger_app/internal/core/ports/services"
	"github.com/hearthsplit/household_ledger_app/internal/core/services"
	"github.com/hearthsplit/household_ledger_app/internal/utils/allocation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func members(ids ...string) []domain.Member {
	out := make([]domain.Member, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Member{MemberID: id, IsActive: true})
	}
	return out
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBuildSplit_EqualOwedMemberOnlyPaid(t *testing.T) {
	svc := services.NewSplitService()

	// Participants intentionally unsorted; rows must come back by member ID.
	rows, err := svc.BuildSplit(
		dec("100.00"),
		members("m3", "m1", "m2"),
		domain.SplitMode{Kind: domain.SplitEqual},
		domain.SplitMode{Kind: domain.SplitMemberOnly, MemberID: "m1"},
		nil,
	)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "m1", rows[0].MemberID)
	assert.Equal(t, "m2", rows[1].MemberID)
	assert.Equal(t, "m3", rows[2].MemberID)

	// Remainder cent lands on the lowest index.
	assert.True(t, rows[0].OwedAmount.Equal(dec("33.34")), "got %s", rows[0].OwedAmount)
	assert.True(t, rows[1].OwedAmount.Equal(dec("33.33")))
	assert.True(t, rows[2].OwedAmount.Equal(dec("33.33")))

	sum := rows[0].OwedAmount.Add(rows[1].OwedAmount).Add(rows[2].OwedAmount)
	assert.True(t, sum.Equal(dec("100.00")), "owed sum %s", sum)

	assert.True(t, rows[0].PaidAmount.Equal(dec("100.00")))
	assert.True(t, rows[0].PaidPercentage.Equal(dec("100")))
	assert.True(t, rows[1].PaidAmount.IsZero())
	assert.True(t, rows[2].PaidAmount.IsZero())
}

func TestBuildSplitSide_CustomUsesPriorPercentages(t *testing.T) {
	svc := services.NewSplitService()

	prior := []domain.MemberSplit{
		{MemberID: "m1", OwedPercentage: dec("60")},
		{MemberID: "m2", OwedPercentage: dec("40")},
	}
	rows, err := svc.BuildSplitSide(
		dec("50.00"),
		members("m1", "m2"),
		domain.SplitMode{Kind: domain.SplitCustom},
		portssvc.OwedSide,
		prior,
	)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].OwedAmount.Equal(dec("30.00")), "got %s", rows[0].OwedAmount)
	assert.True(t, rows[1].OwedAmount.Equal(dec("20.00")))
	// Members without a prior row default to zero percent.
	rows, err = svc.BuildSplitSide(
		dec("50.00"),
		members("m1", "m2", "m3"),
		domain.SplitMode{Kind: domain.SplitCustom},
		portssvc.OwedSide,
		prior,
	)
	require.NoError(t, err)
	assert.True(t, rows[2].OwedAmount.IsZero())
}

func TestBuildSplitSide_PayerOnlyNormalizesToCustom(t *testing.T) {
	svc := services.NewSplitService()

	rows, err := svc.BuildSplitSide(
		dec("10.00"),
		members("m1", "m2"),
		domain.SplitMode{Kind: domain.SplitPayerOnly},
		portssvc.OwedSide,
		nil,
	)
	require.NoError(t, err)
	for _, r := range rows {
		assert.True(t, r.OwedAmount.IsZero())
	}
}

func TestBuildSplitSide_Errors(t *testing.T) {
	svc := services.NewSplitService()

	tests := []struct {
		name         string
		participants []domain.Member
		mode         domain.SplitMode
		wantErr      error
	}{
		{
			name:         "no participants",
			participants: nil,
			mode:         domain.SplitMode{Kind: domain.SplitEqual},
			wantErr:      allocation.ErrNoParticipants,
		},
		{
			name:         "unknown mode",
			participants: members("m1"),
			mode:         domain.SplitMode{Kind: "WEIGHTED"},
			wantErr:      services.ErrUnknownSplitMode,
		},
		{
			name:         "member only without member",
			participants: members("m1"),
			mode:         domain.SplitMode{Kind: domain.SplitMemberOnly},
			wantErr:      services.ErrUnknownSplitMode,
		},
		{
			name:         "member outside participant set",
			participants: members("m1", "m2"),
			mode:         domain.SplitMode{Kind: domain.SplitMemberOnly, MemberID: "m9"},
			wantErr:      services.ErrNotParticipant,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.BuildSplitSide(dec("100.00"), tc.participants, tc.mode, portssvc.OwedSide, nil)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestBuildSplitSide_ZeroTotalZeroesEverything(t *testing.T) {
	svc := services.NewSplitService()

	rows, err := svc.BuildSplitSide(
		decimal.Zero,
		members("m1", "m2", "m3"),
		domain.SplitMode{Kind: domain.SplitEqual},
		portssvc.OwedSide,
		nil,
	)
	require.NoError(t, err)
	for _, r := range rows {
		assert.True(t, r.OwedAmount.IsZero())
		assert.True(t, r.OwedPercentage.IsZero())
	}
}

func TestBuildEqualSubset(t *testing.T) {
	svc := services.NewSplitService()

	rows, err := svc.BuildEqualSubset(
		dec("10.00"),
		members("m1", "m2", "m3", "m4"),
		[]string{"m3", "m1"},
		portssvc.OwedSide,
	)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.True(t, rows[0].OwedAmount.Equal(dec("5.00")))
	assert.True(t, rows[1].OwedAmount.IsZero())
	assert.True(t, rows[2].OwedAmount.Equal(dec("5.00")))
	assert.True(t, rows[3].OwedAmount.IsZero())
	assert.True(t, rows[0].OwedPercentage.Equal(dec("50.00")), "got %s", rows[0].OwedPercentage)
}

func TestBuildEqualSubset_ExactSumWithRemainder(t *testing.T) {
	svc := services.NewSplitService()

	// 10.00 over three subset members cannot come from percentages alone;
	// amounts are allocated directly so the sum stays exact.
	rows, err := svc.BuildEqualSubset(
		dec("10.00"),
		members("m1", "m2", "m3", "m4"),
		[]string{"m1", "m2", "m3"},
		portssvc.OwedSide,
	)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.OwedAmount)
	}
	assert.True(t, sum.Equal(dec("10.00")), "subset sum %s", sum)
	assert.True(t, rows[0].OwedAmount.Equal(dec("3.34")))
	assert.True(t, rows[1].OwedAmount.Equal(dec("3.33")))
	assert.True(t, rows[2].OwedAmount.Equal(dec("3.33")))
}

func TestBuildEqualSubset_EmptySubset(t *testing.T) {
	svc := services.NewSplitService()

	_, err := svc.BuildEqualSubset(dec("10.00"), members("m1", "m2"), nil, portssvc.OwedSide)
	assert.ErrorIs(t, err, allocation.ErrNoParticipants)
}

func TestCombineSides_MismatchedParticipants(t *testing.T) {
	svc := services.NewSplitService()

	owed := []domain.MemberSplit{{MemberID: "m1"}, {MemberID: "m2"}}
	paid := []domain.MemberSplit{{MemberID: "m1"}, {MemberID: "m3"}}
	_, err := svc.CombineSides(owed, paid)
	assert.ErrorIs(t, err, services.ErrSideMismatch)

	_, err = svc.CombineSides(owed, paid[:1])
	assert.ErrorIs(t, err, services.ErrSideMismatch)
}

func TestValidateSplit(t *testing.T) {
	svc := services.NewSplitService()

	tests := []struct {
		name    string
		amounts []string
		total   string
		wantErr bool
	}{
		{"exact", []string{"40.00", "35.00", "25.00"}, "100.00", false},
		{"within tolerance", []string{"40.00", "35.00", "25.01"}, "100.00", false},
		{"beyond tolerance", []string{"40.00", "35.00", "25.02"}, "100.00", true},
		{"undershoot beyond tolerance", []string{"40.00", "35.00", "24.98"}, "100.00", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rows := make([]domain.MemberSplit, len(tc.amounts))
			for i, a := range tc.amounts {
				rows[i] = domain.MemberSplit{MemberID: string(rune('a' + i)), OwedAmount: dec(a)}
			}
			err := svc.ValidateSplit(rows, dec(tc.total))
			if tc.wantErr {
				assert.ErrorIs(t, err, services.ErrAmountMismatch)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePaidBy(t *testing.T) {
	svc := services.NewSplitService()

	rows := []domain.MemberSplit{
		{MemberID: "m1", PaidAmount: dec("60.00")},
		{MemberID: "m2", PaidAmount: dec("39.00")},
	}
	err := svc.ValidatePaidBy(rows, dec("100.00"))
	assert.ErrorIs(t, err, services.ErrAmountMismatch)

	rows[1].PaidAmount = dec("40.00")
	assert.NoError(t, svc.ValidatePaidBy(rows, dec("100.00")))
}
