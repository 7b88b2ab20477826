package tradeJournalService

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/trade_journal/internal/calculator"
	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/KotFed0t/trade_journal/utils"
)

func (s *TradeJournalService) ListProfitLossRecords(ctx context.Context, userID string, dateRange model.DateRange) ([]model.ProfitLoss, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradeJournalService.ListProfitLossRecords"

	if err := validateDateRange(dateRange); err != nil {
		return nil, err
	}

	records, err := s.repo.GetProfitLosses(ctx, userID, dateRange)
	if err != nil {
		slog.Error("got error from repo.GetProfitLosses", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, readErr(err)
	}

	return records, nil
}

func (s *TradeJournalService) GetProfitLossSummary(ctx context.Context, userID string, dateRange model.DateRange) (model.ProfitLossSummary, error) {
	records, err := s.ListProfitLossRecords(ctx, userID, dateRange)
	if err != nil {
		return model.ProfitLossSummary{}, err
	}
	return calculator.SummarizeProfitLoss(records), nil
}

func (s *TradeJournalService) GetTotalProfitLoss(ctx context.Context, userID string, dateRange model.DateRange) (model.ProfitLossTotal, error) {
	records, err := s.ListProfitLossRecords(ctx, userID, dateRange)
	if err != nil {
		return model.ProfitLossTotal{}, err
	}
	return calculator.TotalProfitLoss(records), nil
}

func (s *TradeJournalService) GetSymbolWiseProfitLoss(ctx context.Context, userID string, dateRange model.DateRange) ([]model.SymbolProfitLoss, error) {
	records, err := s.ListProfitLossRecords(ctx, userID, dateRange)
	if err != nil {
		return nil, err
	}
	return calculator.ProfitLossBySymbol(records), nil
}

func (s *TradeJournalService) GetDailyProfitLoss(ctx context.Context, userID string, dateRange model.DateRange) ([]model.DailyProfitLoss, error) {
	records, err := s.ListProfitLossRecords(ctx, userID, dateRange)
	if err != nil {
		return nil, err
	}
	return calculator.ProfitLossByDay(records), nil
}
