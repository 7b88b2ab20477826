package tradeJournalService

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/trade_journal/internal/calculator"
	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/KotFed0t/trade_journal/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// GetHoldings returns every symbol the user ever traded; open positions are filtered by callers via Holding.IsOpen.
func (s *TradeJournalService) GetHoldings(ctx context.Context, userID string) ([]model.Holding, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradeJournalService.GetHoldings"

	trades, err := s.repo.GetTradesByUser(ctx, userID, model.TradeFilter{})
	if err != nil {
		slog.Error("got error from repo.GetTradesByUser", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, readErr(err)
	}

	return calculator.AggregateHoldings(trades), nil
}

func (s *TradeJournalService) GetOpenHoldings(ctx context.Context, userID string) ([]model.Holding, error) {
	holdings, err := s.GetHoldings(ctx, userID)
	if err != nil {
		return nil, err
	}
	return calculator.OpenHoldings(holdings), nil
}

func (s *TradeJournalService) GetCostBasis(ctx context.Context, userID, symbol string) (model.Holding, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradeJournalService.GetCostBasis"

	trades, err := s.repo.GetTradesByUser(ctx, userID, model.TradeFilter{StockSymbol: symbol})
	if err != nil {
		slog.Error("got error from repo.GetTradesByUser", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Holding{}, readErr(err)
	}

	return calculator.CostBasis(trades, symbol), nil
}

// GetPortfolioValuation prices open holdings concurrently. A symbol whose price
// can't be fetched is valued at 0 without failing the whole valuation.
func (s *TradeJournalService) GetPortfolioValuation(ctx context.Context, userID string) (valuation model.PortfolioValuation, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradeJournalService.GetPortfolioValuation"

	slog.Debug("GetPortfolioValuation start", slog.String("rqID", rqID), slog.String("op", op), slog.String("userID", userID))
	defer func() {
		slog.Debug("GetPortfolioValuation finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	holdings, err := s.GetOpenHoldings(ctx, userID)
	if err != nil {
		return model.PortfolioValuation{}, err
	}

	prices := make([]decimal.Decimal, len(holdings))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.cfg.Prices.MaxParallel))
	for i, holding := range holdings {
		g.Go(func() error {
			prices[i] = s.GetStockPrice(gCtx, holding.StockSymbol)
			return nil
		})
	}
	// GetStockPrice falls back to 0 instead of failing, so Wait has no error to report
	_ = g.Wait()

	bySymbol := make(map[string]decimal.Decimal, len(holdings))
	for i, holding := range holdings {
		bySymbol[holding.StockSymbol] = prices[i]
	}

	return calculator.Valuate(holdings, bySymbol), nil
}
