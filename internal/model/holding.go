package model

import "github.com/shopspring/decimal"

type Holding struct {
	StockSymbol          string          `json:"stockSymbol"`
	TotalQuantity        decimal.Decimal `json:"totalQuantity"`
	AveragePurchasePrice decimal.Decimal `json:"averagePurchasePrice"`
}

func (h Holding) IsOpen() bool {
	return h.TotalQuantity.IsPositive()
}

type HoldingValuation struct {
	Holding
	CurrentMarketPrice decimal.Decimal `json:"currentMarketPrice"`
	PnL                decimal.Decimal `json:"pnl"`
	Percentage         decimal.Decimal `json:"percentage"`
}

type PortfolioValuation struct {
	Holdings           []HoldingValuation `json:"holdings"`
	TotalInvested      decimal.Decimal    `json:"totalInvested"`
	TotalPnL           decimal.Decimal    `json:"totalPnL"`
	CurrentMarketValue decimal.Decimal    `json:"currentMarketValue"`
	PercentageChange   decimal.Decimal    `json:"percentageChange"`
}
