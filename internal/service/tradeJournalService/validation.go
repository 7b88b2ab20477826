package tradeJournalService

import (
	"strings"

	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/KotFed0t/trade_journal/internal/service"
)

// normalizeTradeInput trims the symbol, defaults the status and rejects malformed fields.
// Symbol case is preserved.
func normalizeTradeInput(in model.TradeInput) (model.TradeInput, error) {
	verr := &service.ValidationError{}

	in.StockSymbol = strings.TrimSpace(in.StockSymbol)
	if in.StockSymbol == "" {
		verr.Add("stockSymbol", "stockSymbol is required")
	}
	if !in.TransactionType.Valid() {
		verr.Add("transactionType", "transactionType must be one of [Buy, Sell]")
	}
	if !in.Quantity.IsPositive() {
		verr.Add("quantity", "quantity must be a positive number")
	}
	if !in.Price.IsPositive() {
		verr.Add("price", "price must be a positive number")
	}
	if in.TradeDate.IsZero() {
		verr.Add("tradeDate", "tradeDate is required")
	}
	if in.Status == "" {
		in.Status = model.StatusOpen
	} else if !in.Status.Valid() {
		verr.Add("status", "status must be one of [Open, Closed]")
	}

	return in, verr.OrNil()
}

func validateDateRange(r model.DateRange) error {
	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		return service.NewValidationError("dateRange", "startDate must not be after endDate")
	}
	return nil
}

func validateUserID(userID string) error {
	if userID == "" {
		return service.NewValidationError("user", "user is required")
	}
	return nil
}
