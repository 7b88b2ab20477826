package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProfitLoss is the realized result of one Sell trade.
type ProfitLoss struct {
	ID                   string          `json:"id"`
	UserID               string          `json:"user"`
	StockSymbol          string          `json:"stockSymbol"`
	SellTradeID          string          `json:"sellTradeId"`
	SellDate             time.Time       `json:"sellDate"`
	SellPrice            decimal.Decimal `json:"sellPrice"`
	SellQuantity         decimal.Decimal `json:"sellQuantity"`
	AveragePurchasePrice decimal.Decimal `json:"averagePurchasePrice"`
	ProfitOrLoss         decimal.Decimal `json:"profitOrLoss"`
	CreatedAt            time.Time       `json:"createdAt"`
}

type ProfitLossSummary struct {
	TotalProfit decimal.Decimal `json:"totalProfit"`
	TotalLoss   decimal.Decimal `json:"totalLoss"`
	NetProfit   decimal.Decimal `json:"netProfit"`
}

type ProfitLossTotal struct {
	TotalProfitOrLoss decimal.Decimal `json:"totalProfitOrLoss"`
}

type SymbolProfitLoss struct {
	StockSymbol       string          `json:"stockSymbol"`
	TotalProfitOrLoss decimal.Decimal `json:"totalProfitOrLoss"`
}

type DailyProfitLoss struct {
	Date              string          `json:"date"`
	TotalProfitOrLoss decimal.Decimal `json:"totalProfitOrLoss"`
}
