// Package split computes validated per-member obligations for one expense.
// It is pure computation: no side effects, no I/O.
package split

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PavanMeka09/expense-server/internal/models"
	"github.com/PavanMeka09/expense-server/internal/money"
)

// Input carries everything needed to split one expense.
type Input struct {
	// Title is the expense title; validated non-empty after trimming.
	Title string

	// Amount is the full expense amount; must be strictly positive.
	Amount money.Money

	// Participants is the non-empty set of member ids sharing the expense.
	Participants []string

	// Type selects the policy: models.SplitEqual or models.SplitCustom.
	Type models.SplitType

	// CustomAmounts maps participant id to their requested share. Required
	// for SplitCustom; ignored for SplitEqual. A participant missing from
	// the map contributes zero, which surfaces as a SplitMismatchError.
	CustomAmounts map[string]money.Money
}

// Compute validates the input and produces the per-member obligations.
//
// Checks run in a fixed order so malformed input always reports the same
// failure: empty title, then non-positive amount, then empty participants,
// then (custom only) negative amounts, then (custom only) sum mismatch.
//
// The returned obligations always sum exactly to in.Amount; this is verified
// as a post-condition before returning.
func Compute(in Input) ([]models.Obligation, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrEmptyTitle
	}
	if !in.Amount.IsPositive() {
		return nil, money.ErrInvalidAmount
	}
	if len(in.Participants) == 0 {
		return nil, ErrEmptyParticipants
	}

	// Deterministic order: ascending member id. Duplicates would double a
	// member's share, so they are collapsed here.
	participants := dedupeSorted(in.Participants)

	var obligations []models.Obligation
	var err error
	switch in.Type {
	case models.SplitEqual:
		obligations = splitEqual(in.Amount, participants)
	case models.SplitCustom:
		obligations, err = splitCustom(in.Amount, participants, in.CustomAmounts)
	default:
		err = fmt.Errorf("unknown split type: %q", in.Type)
	}
	if err != nil {
		return nil, err
	}

	var total money.Money
	for _, ob := range obligations {
		total = total.Add(ob.Amount)
	}
	if !total.Equal(in.Amount) {
		return nil, fmt.Errorf("split invariant violated: obligations sum to %s, expense amount is %s", total, in.Amount)
	}
	return obligations, nil
}

// splitEqual divides amount into len(participants) shares. Integer minor
// units may not divide evenly; the remainder is handed out one unit at a time
// in ascending member-id order, so no two shares differ by more than one
// minor unit and the total is always exact.
func splitEqual(amount money.Money, participants []string) []models.Obligation {
	n := int64(len(participants))
	base := amount.Cents / n
	remainder := amount.Cents % n

	obligations := make([]models.Obligation, len(participants))
	for i, member := range participants {
		share := base
		if int64(i) < remainder {
			share++
		}
		obligations[i] = models.Obligation{MemberID: member, Amount: money.FromMinor(share)}
	}
	return obligations
}

// splitCustom uses the caller-supplied amounts. Every amount must be
// non-negative and the total must equal the expense amount exactly.
func splitCustom(amount money.Money, participants []string, custom map[string]money.Money) ([]models.Obligation, error) {
	for _, member := range participants {
		if custom[member].IsNegative() {
			return nil, ErrNegativeSplit
		}
	}

	obligations := make([]models.Obligation, len(participants))
	var total money.Money
	for i, member := range participants {
		share := custom[member]
		total = total.Add(share)
		obligations[i] = models.Obligation{MemberID: member, Amount: share}
	}

	if !total.Equal(amount) {
		return nil, &SplitMismatchError{Want: amount, Got: total}
	}
	return obligations, nil
}

func dedupeSorted(members []string) []string {
	out := make([]string, len(members))
	copy(out, members)
	sort.Strings(out)

	unique := out[:0]
	for i, m := range out {
		if i == 0 || m != out[i-1] {
			unique = append(unique, m)
		}
	}
	return unique
}
