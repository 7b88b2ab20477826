package tradeJournalService

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/KotFed0t/trade_journal/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTrade_Validation(t *testing.T) {
	s := newTestService(newFaultyRepo(), nil)

	_, err := s.CreateTrade(context.Background(), user, model.TradeInput{
		StockSymbol:     "  ",
		TransactionType: "Hold",
		Quantity:        d("0"),
		Price:           d("-1"),
	})
	require.ErrorIs(t, err, service.ErrValidation)

	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"stockSymbol", "transactionType", "quantity", "price", "tradeDate"}, fields)
}

func TestCreateTrade_DefaultsAndPreservesSymbolCase(t *testing.T) {
	s := newTestService(newFaultyRepo(), nil)

	trade := mustCreate(t, s, input(" aApL ", model.Buy, "1", "10", 1))

	assert.Equal(t, "aApL", trade.StockSymbol)
	assert.Equal(t, model.StatusOpen, trade.Status)
	assert.Equal(t, user, trade.UserID)
	assert.NotEmpty(t, trade.ID)
}

func TestCreateTrade_SellExceedingHoldings(t *testing.T) {
	repo := newFaultyRepo()
	s := newTestService(repo, nil)
	mustCreate(t, s, input("AAPL", model.Buy, "3", "100", 1))

	_, err := s.CreateTrade(context.Background(), user, input("AAPL", model.Sell, "4", "120", 2))

	assert.ErrorIs(t, err, service.ErrInsufficientHoldings)
	assert.Len(t, trades(t, repo), 1)
	assert.Empty(t, profitLosses(t, repo))
}

func TestCreateTrade_SellWithoutAnyHolding(t *testing.T) {
	repo := newFaultyRepo()
	s := newTestService(repo, nil)

	_, err := s.CreateTrade(context.Background(), user, input("AAPL", model.Sell, "1", "120", 2))

	assert.ErrorIs(t, err, service.ErrInsufficientHoldings)
	assert.Empty(t, trades(t, repo))
}

func TestCreateTrade_SymbolsAreCaseSensitive(t *testing.T) {
	s := newTestService(newFaultyRepo(), nil)
	mustCreate(t, s, input("AAPL", model.Buy, "3", "100", 1))

	_, err := s.CreateTrade(context.Background(), user, input("aapl", model.Sell, "1", "120", 2))

	assert.ErrorIs(t, err, service.ErrInsufficientHoldings)
}

func TestCreateTrade_RoundTrip(t *testing.T) {
	repo := newFaultyRepo()
	s := newTestService(repo, nil)

	mustCreate(t, s, input("AAPL", model.Buy, "10", "100", 1))
	sell := mustCreate(t, s, input("AAPL", model.Sell, "10", "150", 2))

	records := profitLosses(t, repo)
	require.Len(t, records, 1)
	assert.Equal(t, sell.ID, records[0].SellTradeID)
	assertDecimal(t, "100", records[0].AveragePurchasePrice)
	assertDecimal(t, "500", records[0].ProfitOrLoss)
	assert.Equal(t, sell.TradeDate, records[0].SellDate)

	holdings, err := s.GetHoldings(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assertDecimal(t, "0", holdings[0].TotalQuantity)

	open, err := s.GetOpenHoldings(context.Background(), user)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestCreateTrade_WeightedAverageScenario(t *testing.T) {
	repo := newFaultyRepo()
	s := newTestService(repo, nil)

	mustCreate(t, s, input("AAPL", model.Buy, "5", "100", 1))
	mustCreate(t, s, input("AAPL", model.Buy, "5", "200", 2))
	mustCreate(t, s, input("AAPL", model.Sell, "4", "180", 3))

	records := profitLosses(t, repo)
	require.Len(t, records, 1)
	assertDecimal(t, "150", records[0].AveragePurchasePrice)
	assertDecimal(t, "120", records[0].ProfitOrLoss)

	basis, err := s.GetCostBasis(context.Background(), user, "AAPL")
	require.NoError(t, err)
	assertDecimal(t, "6", basis.TotalQuantity)
	assertDecimal(t, "150", basis.AveragePurchasePrice)
}

func TestCreateTrade_ProfitLossFailureRemovesSell(t *testing.T) {
	repo := newFaultyRepo()
	s := newTestService(repo, nil)
	mustCreate(t, s, input("AAPL", model.Buy, "10", "100", 1))

	repo.insertProfitLoss = func(model.ProfitLoss) error { return errInjected }
	_, err := s.CreateTrade(context.Background(), user, input("AAPL", model.Sell, "5", "150", 2))

	assert.ErrorIs(t, err, service.ErrDerivedRecordInconsistency)
	list := trades(t, repo)
	require.Len(t, list, 1)
	assert.Equal(t, model.Buy, list[0].TransactionType)
	assert.Empty(t, profitLosses(t, repo))
}

func TestCreateTrade_ConcurrentFullSells(t *testing.T) {
	repo := newFaultyRepo()
	repo.readDelay = 5 * time.Millisecond
	s := newTestService(repo, nil)
	mustCreate(t, s, input("AAPL", model.Buy, "10", "100", 1))

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.CreateTrade(context.Background(), user, input("AAPL", model.Sell, "10", "150", 2))
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, service.ErrInsufficientHoldings)
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, profitLosses(t, repo), 1)
}

func TestDeleteTrade_SellRemovesProfitLoss(t *testing.T) {
	repo := newFaultyRepo()
	s := newTestService(repo, nil)
	mustCreate(t, s, input("AAPL", model.Buy, "10", "100", 1))
	sell := mustCreate(t, s, input("AAPL", model.Sell, "4", "150", 2))

	require.NoError(t, s.DeleteTrade(context.Background(), user, sell.ID))

	assert.Len(t, trades(t, repo), 1)
	assert.Empty(t, profitLosses(t, repo))
}

func TestDeleteTrade_MissingProfitLossAborts(t *testing.T) {
	repo := newFaultyRepo()
	s := newTestService(repo, nil)
	mustCreate(t, s, input("AAPL", model.Buy, "10", "100", 1))
	sell := mustCreate(t, s, input("AAPL", model.Sell, "4", "150", 2))

	_, err := repo.DeleteProfitLossBySellTrade(context.Background(), user, sell.ID)
	require.NoError(t, err)

	for range 2 {
		err = s.DeleteTrade(context.Background(), user, sell.ID)
		assert.ErrorIs(t, err, service.ErrDerivedRecordInconsistency)
	}

	_, err = s.GetTrade(context.Background(), user, sell.ID)
	assert.NoError(t, err)
}

func TestDeleteTrade_TradeDeleteFailureRestoresProfitLoss(t *testing.T) {
	repo := newFaultyRepo()
	s := newTestService(repo, nil)
	mustCreate(t, s, input("AAPL", model.Buy, "10", "100", 1))
	sell := mustCreate(t, s, input("AAPL", model.Sell, "4", "150", 2))

	repo.deleteTrade = func(string) error { return errInjected }
	err := s.DeleteTrade(context.Background(), user, sell.ID)

	assert.ErrorIs(t, err, service.ErrPersistence)
	assert.Len(t, trades(t, repo), 2)
	records := profitLosses(t, repo)
	require.Len(t, records, 1)
	assert.Equal(t, sell.ID, records[0].SellTradeID)
}

func TestDeleteTrade_BuyKeepsProfitLoss(t *testing.T) {
	repo := newFaultyRepo()
	s := newTestService(repo, nil)
	buy := mustCreate(t, s, input("AAPL", model.Buy, "10", "100", 1))
	mustCreate(t, s, input("AAPL", model.Sell, "4", "150", 2))

	require.NoError(t, s.DeleteTrade(context.Background(), user, buy.ID))

	records := profitLosses(t, repo)
	require.Len(t, records, 1)
	assertDecimal(t, "200", records[0].ProfitOrLoss)
}

func TestDeleteTrade_OtherUsersTrade(t *testing.T) {
	repo := newFaultyRepo()
	s := newTestService(repo, nil)
	buy := mustCreate(t, s, input("AAPL", model.Buy, "10", "100", 1))

	err := s.DeleteTrade(context.Background(), "someone-else", buy.ID)

	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Len(t, trades(t, repo), 1)
}

func TestUpdateTrade_RederivesProfitLoss(t *testing.T) {
	repo := newFaultyRepo()
	s := newTestService(repo, nil)
	mustCreate(t, s, input("AAPL", model.Buy, "10", "100", 1))
	sell := mustCreate(t, s, input("AAPL", model.Sell, "4", "150", 2))

	updated, err := s.UpdateTrade(context.Background(), user, sell.ID, input("AAPL", model.Sell, "5", "160", 3))
	require.NoError(t, err)
	assertDecimal(t, "5", updated.Quantity)
	assert.Equal(t, sell.CreatedAt, updated.CreatedAt)

	records := profitLosses(t, repo)
	require.Len(t, records, 1)
	assert.Equal(t, sell.ID, records[0].SellTradeID)
	assertDecimal(t, "300", records[0].ProfitOrLoss)
	assert.Equal(t, day(3), records[0].SellDate)
}

func TestUpdateTrade_SellToBuyDropsProfitLoss(t *testing.T) {
	repo := newFaultyRepo()
	s := newTestService(repo, nil)
	mustCreate(t, s, input("AAPL", model.Buy, "10", "100", 1))
	sell := mustCreate(t, s, input("AAPL", model.Sell, "4", "150", 2))

	_, err := s.UpdateTrade(context.Background(), user, sell.ID, input("AAPL", model.Buy, "4", "150", 2))
	require.NoError(t, err)

	assert.Empty(t, profitLosses(t, repo))
}

func TestUpdateTrade_BuyToSellDerivesProfitLoss(t *testing.T) {
	repo := newFaultyRepo()
	s := newTestService(repo, nil)
	mustCreate(t, s, input("AAPL", model.Buy, "10", "100", 1))
	second := mustCreate(t, s, input("AAPL", model.Buy, "2", "100", 2))

	_, err := s.UpdateTrade(context.Background(), user, second.ID, input("AAPL", model.Sell, "2", "130", 2))
	require.NoError(t, err)

	records := profitLosses(t, repo)
	require.Len(t, records, 1)
	assertDecimal(t, "60", records[0].ProfitOrLoss)
}

func TestUpdateTrade_RejectsNegativeHoldings(t *testing.T) {
	repo := newFaultyRepo()
	s := newTestService(repo, nil)
	buy := mustCreate(t, s, input("AAPL", model.Buy, "10", "100", 1))
	mustCreate(t, s, input("AAPL", model.Sell, "8", "150", 2))

	_, err := s.UpdateTrade(context.Background(), user, buy.ID, input("AAPL", model.Buy, "5", "100", 1))
	assert.ErrorIs(t, err, service.ErrInsufficientHoldings)

	_, err = s.UpdateTrade(context.Background(), user, buy.ID, input("MSFT", model.Buy, "10", "100", 1))
	assert.ErrorIs(t, err, service.ErrInsufficientHoldings)

	current, err := s.GetTrade(context.Background(), user, buy.ID)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", current.StockSymbol)
	assertDecimal(t, "10", current.Quantity)
}

func TestUpdateTrade_StatusOnlyOnAlreadyNegativePosition(t *testing.T) {
	repo := newFaultyRepo()
	s := newTestService(repo, nil)
	buy := mustCreate(t, s, input("AAPL", model.Buy, "10", "100", 1))
	sell := mustCreate(t, s, input("AAPL", model.Sell, "8", "150", 2))
	require.NoError(t, s.DeleteTrade(context.Background(), user, buy.ID))

	in := input("AAPL", model.Sell, "8", "150", 2)
	in.Status = model.StatusClosed
	updated, err := s.UpdateTrade(context.Background(), user, sell.ID, in)

	require.NoError(t, err)
	assert.Equal(t, model.StatusClosed, updated.Status)
}

func TestUpdateTrade_ProfitLossFailureRestoresPreviousState(t *testing.T) {
	repo := newFaultyRepo()
	s := newTestService(repo, nil)
	mustCreate(t, s, input("AAPL", model.Buy, "10", "100", 1))
	sell := mustCreate(t, s, input("AAPL", model.Sell, "4", "150", 2))

	repo.insertProfitLoss = func(pl model.ProfitLoss) error {
		if pl.SellQuantity.Equal(d("5")) {
			return errInjected
		}
		return nil
	}
	_, err := s.UpdateTrade(context.Background(), user, sell.ID, input("AAPL", model.Sell, "5", "160", 3))
	assert.ErrorIs(t, err, service.ErrDerivedRecordInconsistency)

	current, err := s.GetTrade(context.Background(), user, sell.ID)
	require.NoError(t, err)
	assertDecimal(t, "4", current.Quantity)
	assertDecimal(t, "150", current.Price)

	records := profitLosses(t, repo)
	require.Len(t, records, 1)
	assertDecimal(t, "200", records[0].ProfitOrLoss)
}

func TestUpdateTrade_NotFound(t *testing.T) {
	s := newTestService(newFaultyRepo(), nil)

	_, err := s.UpdateTrade(context.Background(), user, "missing", input("AAPL", model.Buy, "1", "1", 1))

	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestListTrades_Filter(t *testing.T) {
	s := newTestService(newFaultyRepo(), nil)
	mustCreate(t, s, input("AAPL", model.Buy, "1", "100", 1))
	mustCreate(t, s, input("MSFT", model.Buy, "1", "100", 2))
	mustCreate(t, s, input("AAPL", model.Buy, "1", "100", 5))

	list, err := s.ListTrades(context.Background(), user, model.TradeFilter{
		StockSymbol: "AAPL",
		DateRange:   model.DateRange{From: day(1), To: day(3)},
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, day(1), list[0].TradeDate)

	_, err = s.ListTrades(context.Background(), user, model.TradeFilter{DateRange: model.DateRange{From: day(3), To: day(1)}})
	assert.ErrorIs(t, err, service.ErrValidation)
}
