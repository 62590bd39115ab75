package expense

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/finance-engine/finance"
)

// Split divides an expense equally across its participants. The payer is
// included only if listed as a participant. Shares sum exactly to the
// expense amount; remainder cents go to the first participant.
func Split(e Expense) []Share {
	if len(e.Participants) == 0 || !e.Amount.IsPositive() {
		return nil
	}

	n := decimal.NewFromInt(int64(len(e.Participants)))
	each := finance.Round2(e.Amount.Div(n))

	shares := make([]Share, len(e.Participants))
	allocated := decimal.Zero
	for i, p := range e.Participants {
		shares[i] = Share{Participant: p, Amount: each}
		allocated = allocated.Add(each)
	}
	shares[0].Amount = shares[0].Amount.Add(e.Amount.Sub(allocated))
	return shares
}

// Settlements nets all expense balances and suggests transfers that
// clear them: each participant's net = paid out minus their shares, then
// the largest debtor repeatedly pays the largest creditor.
func Settlements(expenses []Expense) []Transfer {
	net := map[string]decimal.Decimal{}
	for _, e := range expenses {
		shares := Split(e)
		if len(shares) == 0 {
			continue
		}
		net[e.PaidBy] = net[e.PaidBy].Add(e.Amount)
		for _, s := range shares {
			net[s.Participant] = net[s.Participant].Sub(s.Amount)
		}
	}

	type balance struct {
		who    string
		amount decimal.Decimal
	}
	var creditors, debtors []balance
	for who, amount := range net {
		switch {
		case amount.IsPositive():
			creditors = append(creditors, balance{who, amount})
		case amount.IsNegative():
			debtors = append(debtors, balance{who, amount.Neg()})
		}
	}
	// Largest first; names break ties so output is deterministic.
	byAmount := func(list []balance) func(i, j int) bool {
		return func(i, j int) bool {
			if !list[i].amount.Equal(list[j].amount) {
				return list[i].amount.GreaterThan(list[j].amount)
			}
			return list[i].who < list[j].who
		}
	}
	sort.SliceStable(creditors, byAmount(creditors))
	sort.SliceStable(debtors, byAmount(debtors))

	var transfers []Transfer
	ci, di := 0, 0
	for ci < len(creditors) && di < len(debtors) {
		pay := finance.MinDecimal(creditors[ci].amount, debtors[di].amount)
		if pay.IsPositive() {
			transfers = append(transfers, Transfer{
				From:   debtors[di].who,
				To:     creditors[ci].who,
				Amount: pay,
			})
		}
		creditors[ci].amount = creditors[ci].amount.Sub(pay)
		debtors[di].amount = debtors[di].amount.Sub(pay)
		if !creditors[ci].amount.IsPositive() {
			ci++
		}
		if !debtors[di].amount.IsPositive() {
			di++
		}
	}
	return transfers
}
