package reports

import (
	"context"
	"sort"
	"time"

	"negocio/internal/core"
	"negocio/internal/log"
)

// PartnerBalanceReport attributes the period's completed-sale revenue to
// the two partner accounts. Business rule: each account is credited
// exactly half of total revenue, regardless of which payment method or
// bank account the money actually went through. Transfer totals per
// account and the half share of card-paid expenses are reported
// alongside, purely as information.
func (s *Service) PartnerBalanceReport(ctx context.Context, start, end time.Time) (*PartnerBalanceReport, error) {
	now := s.clock.Now()
	start, end = s.defaultRange(start, end, now)

	data, err := s.fetchRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	completed := completedSales(data.sales)
	combinedRevenue := Sum(completed, saleAmount)
	combinedWithdrawals := Sum(data.withdrawals, withdrawalAmount)

	cardExpenses := Sum(filterCardExpenses(data.expenses), expenseAmount)

	withdrawalsByAccount := GroupSum(data.withdrawals,
		func(w core.Withdrawal) core.Account { return w.BankAccount },
		withdrawalAmount)

	// Halves are split so the two shares always recompose the exact
	// total, odd cents included.
	accounts := core.PartnerAccounts()
	incomeShares := splitHalf(combinedRevenue)
	cardShares := splitHalf(cardExpenses)

	balances := make([]PartnerBalance, 0, len(accounts))
	for i, account := range accounts {
		income := incomeShares[i]
		withdrawn := withdrawalsByAccount[account]
		balances = append(balances, PartnerBalance{
			Account:           account,
			TotalIncome:       income,
			TotalWithdrawals:  withdrawn,
			AvailableBalance:  income.Sub(withdrawn),
			TransfersReceived: transfersReceived(completed, account),
			CardExpenseShare:  cardShares[i],
		})
	}

	report := &PartnerBalanceReport{
		Start:               start,
		End:                 end,
		CombinedRevenue:     combinedRevenue,
		CombinedWithdrawals: combinedWithdrawals,
		Accounts:            balances,
		History:             withdrawalHistory(data.withdrawals),
	}

	s.logger.DebugContext(ctx, "partner balance report assembled",
		log.FieldRangeStart, DayKey(start),
		log.FieldRangeEnd, DayKey(end),
		"withdrawals", len(report.History))
	return report, nil
}

// splitHalf divides an amount into two shares that sum back exactly.
func splitHalf(total core.Money) [2]core.Money {
	first := core.Money{Cents: total.Cents / 2}
	return [2]core.Money{first, total.Sub(first)}
}

func filterCardExpenses(expenses []core.Expense) []core.Expense {
	var out []core.Expense
	for _, e := range expenses {
		if e.PaymentMethod == core.PaymentCard {
			out = append(out, e)
		}
	}
	return out
}

func transfersReceived(sales []core.Sale, account core.Account) core.Money {
	var total core.Money
	for _, sale := range sales {
		total = total.Add(sale.TransfersTo(account))
	}
	return total
}

// withdrawalHistory orders the period's withdrawals newest first.
func withdrawalHistory(withdrawals []core.Withdrawal) []WithdrawalEntry {
	ordered := make([]core.Withdrawal, len(withdrawals))
	copy(ordered, withdrawals)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.After(ordered[j].Date)
	})

	history := make([]WithdrawalEntry, 0, len(ordered))
	for _, w := range ordered {
		history = append(history, WithdrawalEntry{
			Date:        DayKey(w.Date),
			Account:     w.BankAccount,
			Amount:      w.Amount,
			Description: w.Description,
		})
	}
	return history
}
