package calculator

import (
	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/shopspring/decimal"
)

// Valuate prices open holdings. A symbol missing from prices is valued at 0.
func Valuate(holdings []model.Holding, prices map[string]decimal.Decimal) model.PortfolioValuation {
	res := model.PortfolioValuation{
		Holdings:           make([]model.HoldingValuation, 0, len(holdings)),
		TotalInvested:      decimal.Zero,
		TotalPnL:           decimal.Zero,
		CurrentMarketValue: decimal.Zero,
		PercentageChange:   decimal.Zero,
	}

	for _, h := range holdings {
		if !h.IsOpen() {
			continue
		}

		price, ok := prices[h.StockSymbol]
		if !ok {
			price = decimal.Zero
		}

		pnl := price.Sub(h.AveragePurchasePrice).Mul(h.TotalQuantity)
		res.Holdings = append(res.Holdings, model.HoldingValuation{
			Holding:            h,
			CurrentMarketPrice: price,
			PnL:                pnl,
			Percentage:         PercentageChange(h.AveragePurchasePrice, price),
		})

		res.TotalInvested = res.TotalInvested.Add(h.AveragePurchasePrice.Mul(h.TotalQuantity))
		res.CurrentMarketValue = res.CurrentMarketValue.Add(price.Mul(h.TotalQuantity))
		res.TotalPnL = res.TotalPnL.Add(pnl)
	}

	res.PercentageChange = PercentageChange(res.TotalInvested, res.CurrentMarketValue)

	return res
}
