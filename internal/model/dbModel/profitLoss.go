package dbModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProfitLoss struct {
	ID                   string          `db:"profit_loss_id"`
	UserID               string          `db:"user_id"`
	StockSymbol          string          `db:"stock_symbol"`
	SellTradeID          string          `db:"sell_trade_id"`
	SellDate             time.Time       `db:"sell_date"`
	SellPrice            decimal.Decimal `db:"sell_price"`
	SellQuantity         decimal.Decimal `db:"sell_quantity"`
	AveragePurchasePrice decimal.Decimal `db:"average_purchase_price"`
	ProfitOrLoss         decimal.Decimal `db:"profit_or_loss"`
	CreatedAt            time.Time       `db:"dt_create"`
}
