package calculator

import (
	"sort"

	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/shopspring/decimal"
)

// SummarizeProfitLoss splits realized results into gains and losses. TotalLoss is reported as a positive amount.
func SummarizeProfitLoss(records []model.ProfitLoss) model.ProfitLossSummary {
	profit, loss := decimal.Zero, decimal.Zero
	for _, r := range records {
		switch {
		case r.ProfitOrLoss.IsPositive():
			profit = profit.Add(r.ProfitOrLoss)
		case r.ProfitOrLoss.IsNegative():
			loss = loss.Add(r.ProfitOrLoss)
		}
	}
	loss = loss.Abs()
	return model.ProfitLossSummary{
		TotalProfit: profit,
		TotalLoss:   loss,
		NetProfit:   profit.Sub(loss),
	}
}

func TotalProfitLoss(records []model.ProfitLoss) model.ProfitLossTotal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.ProfitOrLoss)
	}
	return model.ProfitLossTotal{TotalProfitOrLoss: total}
}

func ProfitLossBySymbol(records []model.ProfitLoss) []model.SymbolProfitLoss {
	totals := make(map[string]decimal.Decimal)
	for _, r := range records {
		totals[r.StockSymbol] = totals[r.StockSymbol].Add(r.ProfitOrLoss)
	}

	res := make([]model.SymbolProfitLoss, 0, len(totals))
	for symbol, total := range totals {
		res = append(res, model.SymbolProfitLoss{StockSymbol: symbol, TotalProfitOrLoss: total})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].StockSymbol < res[j].StockSymbol })
	return res
}

// ProfitLossByDay groups by the UTC calendar day of the sell date, ascending.
func ProfitLossByDay(records []model.ProfitLoss) []model.DailyProfitLoss {
	totals := make(map[string]decimal.Decimal)
	for _, r := range records {
		day := r.SellDate.UTC().Format(model.DateLayout)
		totals[day] = totals[day].Add(r.ProfitOrLoss)
	}

	res := make([]model.DailyProfitLoss, 0, len(totals))
	for day, total := range totals {
		res = append(res, model.DailyProfitLoss{Date: day, TotalProfitOrLoss: total})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Date < res[j].Date })
	return res
}
