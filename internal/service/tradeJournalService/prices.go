package tradeJournalService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/trade_journal/utils"
	"github.com/shopspring/decimal"
)

var errNegativePrice = errors.New("negative price")

// GetStockPrice never fails: any lookup problem is logged and reported as a zero price.
func (s *TradeJournalService) GetStockPrice(ctx context.Context, symbol string) decimal.Decimal {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradeJournalService.GetStockPrice"

	if s.priceCache != nil {
		price, err := s.priceCache.GetPrice(ctx, symbol)
		if err == nil {
			return price
		}
	}

	price, err := s.lookupPrice(ctx, symbol)
	if err != nil {
		slog.Warn(
			"UpstreamPriceUnavailable",
			slog.String("rqID", rqID),
			slog.String("op", op),
			slog.String("symbol", symbol),
			slog.String("err", err.Error()),
		)
		return decimal.Zero
	}

	if s.priceCache != nil {
		go func() {
			_ = s.priceCache.SetPrice(context.WithoutCancel(ctx), symbol, price)
		}()
	}

	return price
}

func (s *TradeJournalService) lookupPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if s.cfg.Prices.LookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Prices.LookupTimeout)
		defer cancel()
	}

	price, err := s.prices.GetPrice(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s", errNegativePrice, price)
	}
	return price, nil
}

// RefreshPriceCache pre-warms the price cache for every symbol some user holds.
func (s *TradeJournalService) RefreshPriceCache(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradeJournalService.RefreshPriceCache"

	if s.priceCache == nil {
		return nil
	}

	symbols, err := s.repo.GetOpenSymbols(ctx)
	if err != nil {
		slog.Error("got error from repo.GetOpenSymbols", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	prices := make(map[string]decimal.Decimal, len(symbols))
	for _, symbol := range symbols {
		price, err := s.lookupPrice(ctx, symbol)
		if err != nil {
			slog.Warn("UpstreamPriceUnavailable", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol), slog.String("err", err.Error()))
			continue
		}
		prices[symbol] = price
	}

	if len(prices) == 0 {
		return nil
	}

	slog.Info("refreshing price cache", slog.String("rqID", rqID), slog.Int("symbols", len(symbols)), slog.Int("priced", len(prices)))

	return s.priceCache.SetPrices(ctx, prices)
}
