package allocation

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNoParticipants indicates an allocation was requested for an empty
// participant set. This is a caller precondition violation, not user input.
var ErrNoParticipants = errors.New("allocation requires at least one participant")

// minorUnitExp is the currency minor unit (cents).
const minorUnitExp = 2

// EqualShare returns the share for participant `index` when `total` is split
// equally among `count` participants, exact to the minor currency unit.
//
// The base share is total/count truncated to cents; leftover cents are handed
// out one at a time to the lowest indexes. Callers that allocate within a
// member subset must assign indexes by ascending member ID so the remainder
// placement is deterministic across call sites.
//
// Guarantees: the count shares sum to total exactly, and any two shares
// differ by at most one cent. Calling with total=100 yields the matching
// percentage split.
func EqualShare(total decimal.Decimal, count, index int) (decimal.Decimal, error) {
	if count <= 0 {
		return decimal.Zero, ErrNoParticipants
	}
	if index < 0 || index >= count {
		return decimal.Zero, fmt.Errorf("allocation index %d out of range [0, %d)", index, count)
	}

	neg := total.IsNegative()
	if neg {
		total = total.Neg()
	}

	cents := total.Round(minorUnitExp).Shift(minorUnitExp).IntPart()
	base := cents / int64(count)
	remainder := cents % int64(count)

	share := base
	if int64(index) < remainder {
		share++
	}

	result := decimal.New(share, -minorUnitExp)
	if neg {
		result = result.Neg()
	}
	return result, nil
}

// EqualShares returns all count shares of total in index order.
func EqualShares(total decimal.Decimal, count int) ([]decimal.Decimal, error) {
	if count <= 0 {
		return nil, ErrNoParticipants
	}
	shares := make([]decimal.Decimal, count)
	for i := 0; i < count; i++ {
		share, err := EqualShare(total, count, i)
		if err != nil {
			return nil, err
		}
		shares[i] = share
	}
	return shares, nil
}

// Percentage returns 100 * amount / total rounded to two decimals, or zero
// when total is not positive.
func Percentage(amount, total decimal.Decimal) decimal.Decimal {
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return amount.Mul(decimal.NewFromInt(100)).DivRound(total, minorUnitExp)
}
