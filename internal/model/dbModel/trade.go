package dbModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type TradeEntry struct {
	ID              string          `db:"trade_id"`
	UserID          string          `db:"user_id"`
	StockSymbol     string          `db:"stock_symbol"`
	TransactionType string          `db:"transaction_type"`
	Quantity        decimal.Decimal `db:"quantity"`
	Price           decimal.Decimal `db:"price"`
	TradeDate       time.Time       `db:"trade_date"`
	Status          string          `db:"status"`
	CreatedAt       time.Time       `db:"dt_create"`
	UpdatedAt       time.Time       `db:"dt_update"`
}

type TelegramChat struct {
	ChatID int64  `db:"chat_id"`
	UserID string `db:"user_id"`
}
