package telebotConverter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/shopspring/decimal"
)

var ErrBadArgs = errors.New("bad command arguments")

// TradeInputFromArgs parses "SYMBOL QTY PRICE [YYYY-MM-DD]". The trade date defaults to now.
func TradeInputFromArgs(args []string, transactionType model.TransactionType, now time.Time) (model.TradeInput, error) {
	if len(args) < 3 || len(args) > 4 {
		return model.TradeInput{}, ErrBadArgs
	}

	qty, err := decimal.NewFromString(args[1])
	if err != nil {
		return model.TradeInput{}, fmt.Errorf("%w: quantity %q", ErrBadArgs, args[1])
	}

	price, err := decimal.NewFromString(strings.ReplaceAll(args[2], ",", "."))
	if err != nil {
		return model.TradeInput{}, fmt.Errorf("%w: price %q", ErrBadArgs, args[2])
	}

	tradeDate := now
	if len(args) == 4 {
		tradeDate, err = time.Parse(model.DateLayout, args[3])
		if err != nil {
			return model.TradeInput{}, fmt.Errorf("%w: date %q", ErrBadArgs, args[3])
		}
	}

	return model.TradeInput{
		StockSymbol:     strings.ToUpper(args[0]),
		TransactionType: transactionType,
		Quantity:        qty,
		Price:           price,
		TradeDate:       tradeDate,
	}, nil
}

func TradeResponse(trade model.TradeEntry) string {
	action := "Покупка"
	if trade.TransactionType == model.Sell {
		action = "Продажа"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ %s записана\n", action))
	sb.WriteString(fmt.Sprintf("%s: %s шт. по %s\n", trade.StockSymbol, trade.Quantity, trade.Price.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Дата: %s\n", trade.TradeDate.Format(model.DateLayout)))
	sb.WriteString(fmt.Sprintf("ID: %s", trade.ID))
	return sb.String()
}

func HoldingsResponse(holdings []model.Holding) string {
	if len(holdings) == 0 {
		return "Открытых позиций нет"
	}

	var sb strings.Builder
	sb.WriteString("📋 Открытые позиции:\n\n")
	for _, h := range holdings {
		sb.WriteString(fmt.Sprintf("%s\n", h.StockSymbol))
		sb.WriteString(fmt.Sprintf("   ▸ Кол-во: %s шт.\n", h.TotalQuantity))
		sb.WriteString(fmt.Sprintf("   ▸ Средняя цена: %s\n\n", h.AveragePurchasePrice.StringFixed(2)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func ValuationResponse(v model.PortfolioValuation) string {
	if len(v.Holdings) == 0 {
		return "Открытых позиций нет"
	}

	var sb strings.Builder
	sb.WriteString("📊 Портфель\n")
	sb.WriteString(fmt.Sprintf("💰 Вложено: %s\n", v.TotalInvested.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("💼 Стоимость: %s\n", v.CurrentMarketValue.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("%s P&L: %s (%s%%)\n\n", sign(v.TotalPnL), v.TotalPnL.StringFixed(2), v.PercentageChange.StringFixed(2)))

	for _, h := range v.Holdings {
		sb.WriteString(fmt.Sprintf("%s %s\n", sign(h.PnL), h.StockSymbol))
		sb.WriteString(fmt.Sprintf("   ▸ Кол-во: %s шт.\n", h.TotalQuantity))
		sb.WriteString(fmt.Sprintf("   ▸ Цена: %s (средняя %s)\n", h.CurrentMarketPrice.StringFixed(2), h.AveragePurchasePrice.StringFixed(2)))
		sb.WriteString(fmt.Sprintf("   ▸ P&L: %s (%s%%)\n\n", h.PnL.StringFixed(2), h.Percentage.StringFixed(2)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func ProfitLossResponse(summary model.ProfitLossSummary, bySymbol []model.SymbolProfitLoss) string {
	var sb strings.Builder
	sb.WriteString("📈 Зафиксированный результат\n")
	sb.WriteString(fmt.Sprintf("Прибыль: %s\n", summary.TotalProfit.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Убыток: %s\n", summary.TotalLoss.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("%s Итого: %s", sign(summary.NetProfit), summary.NetProfit.StringFixed(2)))

	if len(bySymbol) > 0 {
		sb.WriteString("\n\nПо бумагам:")
		for _, s := range bySymbol {
			sb.WriteString(fmt.Sprintf("\n   ▸ %s: %s", s.StockSymbol, s.TotalProfitOrLoss.StringFixed(2)))
		}
	}
	return sb.String()
}

func sign(d decimal.Decimal) string {
	switch {
	case d.IsPositive():
		return "🟢"
	case d.IsNegative():
		return "🔴"
	default:
		return "⚪"
	}
}
