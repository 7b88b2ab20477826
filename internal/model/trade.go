package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	Buy  TransactionType = "Buy"
	Sell TransactionType = "Sell"
)

func (t TransactionType) Valid() bool {
	return t == Buy || t == Sell
}

type TradeStatus string

const (
	StatusOpen   TradeStatus = "Open"
	StatusClosed TradeStatus = "Closed"
)

func (s TradeStatus) Valid() bool {
	return s == StatusOpen || s == StatusClosed
}

type TradeEntry struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user"`
	StockSymbol     string          `json:"stockSymbol"`
	TransactionType TransactionType `json:"transactionType"`
	Quantity        decimal.Decimal `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	TradeDate       time.Time       `json:"tradeDate"`
	Status          TradeStatus     `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// TradeInput carries the user-editable fields of a trade. Status is optional and defaults to Open.
type TradeInput struct {
	StockSymbol     string
	TransactionType TransactionType
	Quantity        decimal.Decimal
	Price           decimal.Decimal
	TradeDate       time.Time
	Status          TradeStatus
}

type TradeFilter struct {
	StockSymbol string
	DateRange   DateRange
}
