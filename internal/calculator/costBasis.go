// Package calculator holds the pure folds behind holdings and profit/loss figures.
//
// The average purchase price is not time-sliced: it is taken over every Buy
// ever recorded for the symbol, including Buys dated after a given Sell.
package calculator

import (
	"sort"

	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type position struct {
	buyQuantity  decimal.Decimal
	buyAmount    decimal.Decimal
	sellQuantity decimal.Decimal
}

func (p *position) add(trade model.TradeEntry) {
	switch trade.TransactionType {
	case model.Buy:
		p.buyQuantity = p.buyQuantity.Add(trade.Quantity)
		p.buyAmount = p.buyAmount.Add(trade.Quantity.Mul(trade.Price))
	case model.Sell:
		p.sellQuantity = p.sellQuantity.Add(trade.Quantity)
	}
}

func (p *position) holding(symbol string) model.Holding {
	h := model.Holding{
		StockSymbol:          symbol,
		TotalQuantity:        p.buyQuantity.Sub(p.sellQuantity),
		AveragePurchasePrice: decimal.Zero,
	}
	if p.buyQuantity.IsPositive() {
		h.AveragePurchasePrice = p.buyAmount.Div(p.buyQuantity)
	}
	return h
}

// CostBasis returns net quantity and weighted average Buy price of symbol over trades.
// Trades of other symbols are ignored; symbols compare case-sensitively.
func CostBasis(trades []model.TradeEntry, symbol string) model.Holding {
	var p position
	for _, trade := range trades {
		if trade.StockSymbol == symbol {
			p.add(trade)
		}
	}
	return p.holding(symbol)
}

// AggregateHoldings groups trades by symbol in a single pass.
// The result is sorted by symbol and matches CostBasis applied to every symbol.
func AggregateHoldings(trades []model.TradeEntry) []model.Holding {
	positions := make(map[string]*position)
	for _, trade := range trades {
		p, ok := positions[trade.StockSymbol]
		if !ok {
			p = &position{}
			positions[trade.StockSymbol] = p
		}
		p.add(trade)
	}

	holdings := make([]model.Holding, 0, len(positions))
	for symbol, p := range positions {
		holdings = append(holdings, p.holding(symbol))
	}

	sort.Slice(holdings, func(i, j int) bool {
		return holdings[i].StockSymbol < holdings[j].StockSymbol
	})

	return holdings
}

// OpenHoldings keeps positions with a positive net quantity.
func OpenHoldings(holdings []model.Holding) []model.Holding {
	open := make([]model.Holding, 0, len(holdings))
	for _, h := range holdings {
		if h.IsOpen() {
			open = append(open, h)
		}
	}
	return open
}

// RealizedProfitLoss is (sellPrice - averagePurchasePrice) * sellQuantity.
func RealizedProfitLoss(sellPrice, averagePurchasePrice, sellQuantity decimal.Decimal) decimal.Decimal {
	return sellPrice.Sub(averagePurchasePrice).Mul(sellQuantity)
}

// PercentageChange returns (current - base) / base * 100, or 0 when base is 0.
func PercentageChange(base, current decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return current.Sub(base).Div(base).Mul(hundred)
}

// ExcludeTrade returns trades without the one with the given id.
func ExcludeTrade(trades []model.TradeEntry, tradeID string) []model.TradeEntry {
	res := make([]model.TradeEntry, 0, len(trades))
	for _, trade := range trades {
		if trade.ID != tradeID {
			res = append(res, trade)
		}
	}
	return res
}
