package tradeJournalService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/trade_journal/data/repository"
	"github.com/KotFed0t/trade_journal/internal/calculator"
	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/KotFed0t/trade_journal/internal/service"
	"github.com/KotFed0t/trade_journal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var timeNow = time.Now

// CreateTrade records a trade. A Sell is checked against the current net holding
// and gets its ProfitLoss record in the same call.
func (s *TradeJournalService) CreateTrade(ctx context.Context, userID string, in model.TradeInput) (trade model.TradeEntry, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradeJournalService.CreateTrade"

	slog.Debug("CreateTrade start", slog.String("rqID", rqID), slog.String("op", op), slog.String("userID", userID), slog.Any("input", in))
	defer func() {
		if err != nil {
			slog.Debug("CreateTrade failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("CreateTrade completed", slog.String("rqID", rqID), slog.String("op", op), slog.String("tradeID", trade.ID))
		}
	}()

	if err = validateUserID(userID); err != nil {
		return model.TradeEntry{}, err
	}
	in, err = normalizeTradeInput(in)
	if err != nil {
		return model.TradeEntry{}, err
	}

	now := timeNow().UTC()
	trade = model.TradeEntry{
		ID:              uuid.NewString(),
		UserID:          userID,
		StockSymbol:     in.StockSymbol,
		TransactionType: in.TransactionType,
		Quantity:        in.Quantity,
		Price:           in.Price,
		TradeDate:       in.TradeDate,
		Status:          in.Status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if trade.TransactionType == model.Buy {
		if err = s.repo.InsertTrade(ctx, trade); err != nil {
			slog.Error("got error from repo.InsertTrade", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return model.TradeEntry{}, storeErr(err)
		}
		return trade, nil
	}

	unlock := s.locker.Lock(userID, trade.StockSymbol)
	defer unlock()

	history, err := s.symbolTrades(ctx, userID, trade.StockSymbol)
	if err != nil {
		return model.TradeEntry{}, storeErr(err)
	}

	held := calculator.CostBasis(history, trade.StockSymbol).TotalQuantity
	if trade.Quantity.GreaterThan(held) {
		slog.Info(
			"sell exceeds holdings",
			slog.String("rqID", rqID),
			slog.String("op", op),
			slog.String("userID", userID),
			slog.String("symbol", trade.StockSymbol),
			slog.String("held", held.String()),
			slog.String("requested", trade.Quantity.String()),
		)
		return model.TradeEntry{}, fmt.Errorf("%w: %s held %s, requested %s", service.ErrInsufficientHoldings, trade.StockSymbol, held, trade.Quantity)
	}

	if err = s.repo.InsertTrade(ctx, trade); err != nil {
		slog.Error("got error from repo.InsertTrade", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.TradeEntry{}, storeErr(err)
	}

	if err = s.recordProfitLoss(ctx, trade); err != nil {
		slog.Error(
			"can't record profit/loss, removing sell trade",
			slog.String("rqID", rqID),
			slog.String("op", op),
			slog.String("userID", userID),
			slog.String("symbol", trade.StockSymbol),
			slog.String("tradeID", trade.ID),
			slog.String("err", err.Error()),
		)
		if delErr := s.repo.DeleteTrade(ctx, userID, trade.ID); delErr != nil {
			slog.Error(
				"compensation failed: sell trade left without profit/loss record",
				slog.String("rqID", rqID),
				slog.String("op", op),
				slog.String("userID", userID),
				slog.String("symbol", trade.StockSymbol),
				slog.String("tradeID", trade.ID),
				slog.String("err", delErr.Error()),
			)
		}
		return model.TradeEntry{}, fmt.Errorf("%w: profit/loss for trade %s not recorded", service.ErrDerivedRecordInconsistency, trade.ID)
	}

	return trade, nil
}

// UpdateTrade replaces the editable fields of a trade. Holdings are re-validated
// for every symbol touched and the ProfitLoss record is derived anew.
func (s *TradeJournalService) UpdateTrade(ctx context.Context, userID, tradeID string, in model.TradeInput) (trade model.TradeEntry, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradeJournalService.UpdateTrade"

	slog.Debug("UpdateTrade start", slog.String("rqID", rqID), slog.String("op", op), slog.String("tradeID", tradeID), slog.Any("input", in))
	defer func() {
		if err != nil {
			slog.Debug("UpdateTrade failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpdateTrade completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	if err = validateUserID(userID); err != nil {
		return model.TradeEntry{}, err
	}
	in, err = normalizeTradeInput(in)
	if err != nil {
		return model.TradeEntry{}, err
	}

	old, unlock, err := s.lockTrade(ctx, userID, tradeID, in.StockSymbol)
	if err != nil {
		return model.TradeEntry{}, err
	}
	defer unlock()

	trade = old
	trade.StockSymbol = in.StockSymbol
	trade.TransactionType = in.TransactionType
	trade.Quantity = in.Quantity
	trade.Price = in.Price
	trade.TradeDate = in.TradeDate
	trade.Status = in.Status
	trade.UpdatedAt = timeNow().UTC()

	if err = s.checkUpdatedHoldings(ctx, old, trade); err != nil {
		return model.TradeEntry{}, err
	}

	var oldPL *model.ProfitLoss
	if old.TransactionType == model.Sell {
		var pl model.ProfitLoss
		pl, err = s.repo.DeleteProfitLossBySellTrade(ctx, userID, old.ID)
		if err != nil {
			slog.Error(
				"can't remove profit/loss of updated sell, update aborted",
				slog.String("rqID", rqID),
				slog.String("op", op),
				slog.String("tradeID", old.ID),
				slog.String("err", err.Error()),
			)
			return model.TradeEntry{}, fmt.Errorf("%w: profit/loss for trade %s not removed", service.ErrDerivedRecordInconsistency, old.ID)
		}
		oldPL = &pl
	}

	if err = s.repo.UpdateTrade(ctx, trade); err != nil {
		slog.Error("got error from repo.UpdateTrade", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		if oldPL != nil && !s.restoreProfitLoss(ctx, *oldPL) {
			return model.TradeEntry{}, fmt.Errorf("%w: profit/loss for trade %s lost", service.ErrDerivedRecordInconsistency, old.ID)
		}
		return model.TradeEntry{}, storeErr(err)
	}

	if trade.TransactionType == model.Sell {
		if err = s.recordProfitLoss(ctx, trade); err != nil {
			slog.Error(
				"can't record profit/loss of updated trade, restoring previous state",
				slog.String("rqID", rqID),
				slog.String("op", op),
				slog.String("tradeID", trade.ID),
				slog.String("err", err.Error()),
			)
			if restoreErr := s.repo.UpdateTrade(ctx, old); restoreErr != nil {
				slog.Error(
					"compensation failed: trade not restored",
					slog.String("rqID", rqID),
					slog.String("op", op),
					slog.String("userID", userID),
					slog.String("tradeID", old.ID),
					slog.Any("previous", old),
					slog.String("err", restoreErr.Error()),
				)
			} else if oldPL != nil {
				s.restoreProfitLoss(ctx, *oldPL)
			}
			return model.TradeEntry{}, fmt.Errorf("%w: profit/loss for trade %s not recorded", service.ErrDerivedRecordInconsistency, trade.ID)
		}
	}

	return trade, nil
}

// DeleteTrade removes a trade. For a Sell the ProfitLoss record goes first;
// when it can't be removed the trade stays.
func (s *TradeJournalService) DeleteTrade(ctx context.Context, userID, tradeID string) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradeJournalService.DeleteTrade"

	slog.Debug("DeleteTrade start", slog.String("rqID", rqID), slog.String("op", op), slog.String("tradeID", tradeID))
	defer func() {
		if err != nil {
			slog.Debug("DeleteTrade failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("DeleteTrade completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	trade, unlock, err := s.lockTrade(ctx, userID, tradeID)
	if err != nil {
		return err
	}
	defer unlock()

	if trade.TransactionType == model.Buy {
		if err = s.repo.DeleteTrade(ctx, userID, tradeID); err != nil {
			slog.Error("got error from repo.DeleteTrade", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return storeErr(err)
		}
		return nil
	}

	pl, err := s.repo.DeleteProfitLossBySellTrade(ctx, userID, tradeID)
	if err != nil {
		slog.Error(
			"can't remove profit/loss of sell, delete aborted",
			slog.String("rqID", rqID),
			slog.String("op", op),
			slog.String("userID", userID),
			slog.String("symbol", trade.StockSymbol),
			slog.String("tradeID", tradeID),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("%w: profit/loss for trade %s not removed", service.ErrDerivedRecordInconsistency, tradeID)
	}

	if err = s.repo.DeleteTrade(ctx, userID, tradeID); err != nil {
		slog.Error("got error from repo.DeleteTrade", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		if !s.restoreProfitLoss(ctx, pl) {
			return fmt.Errorf("%w: profit/loss for trade %s lost", service.ErrDerivedRecordInconsistency, tradeID)
		}
		return storeErr(err)
	}

	return nil
}

func (s *TradeJournalService) GetTrade(ctx context.Context, userID, tradeID string) (model.TradeEntry, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradeJournalService.GetTrade"

	trade, err := s.repo.GetTrade(ctx, userID, tradeID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			slog.Debug("got error from repo.GetTrade", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
		return model.TradeEntry{}, readErr(err)
	}

	return trade, nil
}

func (s *TradeJournalService) ListTrades(ctx context.Context, userID string, filter model.TradeFilter) ([]model.TradeEntry, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradeJournalService.ListTrades"

	if err := validateDateRange(filter.DateRange); err != nil {
		return nil, err
	}

	trades, err := s.repo.GetTradesByUser(ctx, userID, filter)
	if err != nil {
		slog.Error("got error from repo.GetTradesByUser", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, readErr(err)
	}

	return trades, nil
}

// lockTrade loads a trade and locks its symbol plus extraSymbols. The trade is
// re-read under the lock; a concurrent symbol change makes it retry.
func (s *TradeJournalService) lockTrade(ctx context.Context, userID, tradeID string, extraSymbols ...string) (model.TradeEntry, func(), error) {
	for {
		trade, err := s.repo.GetTrade(ctx, userID, tradeID)
		if err != nil {
			return model.TradeEntry{}, nil, storeErr(err)
		}

		unlock := s.locker.Lock(userID, append([]string{trade.StockSymbol}, extraSymbols...)...)

		current, err := s.repo.GetTrade(ctx, userID, tradeID)
		if err != nil {
			unlock()
			return model.TradeEntry{}, nil, storeErr(err)
		}
		if current.StockSymbol == trade.StockSymbol {
			return current, unlock, nil
		}
		unlock()

		if err = ctx.Err(); err != nil {
			return model.TradeEntry{}, nil, err
		}
	}
}

func (s *TradeJournalService) symbolTrades(ctx context.Context, userID, symbol string) ([]model.TradeEntry, error) {
	trades, err := s.repo.GetTradesByUser(ctx, userID, model.TradeFilter{StockSymbol: symbol})
	if err != nil {
		slog.Error(
			"got error from repo.GetTradesByUser",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.String("symbol", symbol),
			slog.String("err", err.Error()),
		)
		return nil, err
	}
	return trades, nil
}

// checkUpdatedHoldings rejects an update that drives the net quantity of a
// touched symbol below zero, unless it was already below zero and does not drop further.
func (s *TradeJournalService) checkUpdatedHoldings(ctx context.Context, old, updated model.TradeEntry) error {
	symbols := []string{old.StockSymbol}
	if updated.StockSymbol != old.StockSymbol {
		symbols = append(symbols, updated.StockSymbol)
	}

	for _, symbol := range symbols {
		history, err := s.symbolTrades(ctx, old.UserID, symbol)
		if err != nil {
			return storeErr(err)
		}

		before := calculator.CostBasis(history, symbol).TotalQuantity
		after := calculator.CostBasis(append(calculator.ExcludeTrade(history, old.ID), updated), symbol).TotalQuantity

		if after.IsNegative() && after.LessThan(before) {
			return fmt.Errorf("%w: %s would drop to %s", service.ErrInsufficientHoldings, symbol, after)
		}
	}

	return nil
}

// recordProfitLoss derives and stores the ProfitLoss of a persisted Sell.
func (s *TradeJournalService) recordProfitLoss(ctx context.Context, sell model.TradeEntry) error {
	history, err := s.symbolTrades(ctx, sell.UserID, sell.StockSymbol)
	if err != nil {
		return err
	}

	avg := calculator.CostBasis(history, sell.StockSymbol).AveragePurchasePrice
	pl := newProfitLoss(sell, avg)

	return s.repo.InsertProfitLoss(ctx, pl)
}

func newProfitLoss(sell model.TradeEntry, averagePurchasePrice decimal.Decimal) model.ProfitLoss {
	return model.ProfitLoss{
		ID:                   uuid.NewString(),
		UserID:               sell.UserID,
		StockSymbol:          sell.StockSymbol,
		SellTradeID:          sell.ID,
		SellDate:             sell.TradeDate,
		SellPrice:            sell.Price,
		SellQuantity:         sell.Quantity,
		AveragePurchasePrice: averagePurchasePrice,
		ProfitOrLoss:         calculator.RealizedProfitLoss(sell.Price, averagePurchasePrice, sell.Quantity),
		CreatedAt:            timeNow().UTC(),
	}
}

// restoreProfitLoss re-inserts a removed record and reports whether it succeeded.
func (s *TradeJournalService) restoreProfitLoss(ctx context.Context, pl model.ProfitLoss) bool {
	err := s.repo.InsertProfitLoss(ctx, pl)
	if err != nil {
		slog.Error(
			"compensation failed: profit/loss record not restored",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.String("userID", pl.UserID),
			slog.String("symbol", pl.StockSymbol),
			slog.String("sellTradeID", pl.SellTradeID),
			slog.Any("profitLoss", pl),
			slog.String("err", err.Error()),
		)
		return false
	}
	return true
}
