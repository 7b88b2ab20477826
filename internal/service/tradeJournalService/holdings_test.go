package tradeJournalService

import (
	"context"
	"testing"
	"time"

	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPortfolioValuation_PriceFailureCountsAsZero(t *testing.T) {
	prices := &fakePrices{prices: map[string]decimal.Decimal{"AAPL": d("120")}}
	s := newTestService(newFaultyRepo(), prices)
	mustCreate(t, s, input("AAPL", model.Buy, "10", "100", 1))
	mustCreate(t, s, input("MSFT", model.Buy, "5", "200", 1))

	v, err := s.GetPortfolioValuation(context.Background(), user)
	require.NoError(t, err)

	require.Len(t, v.Holdings, 2)
	aapl, msft := v.Holdings[0], v.Holdings[1]
	assert.Equal(t, "AAPL", aapl.StockSymbol)
	assertDecimal(t, "120", aapl.CurrentMarketPrice)
	assertDecimal(t, "200", aapl.PnL)
	assertDecimal(t, "20", aapl.Percentage)

	assert.Equal(t, "MSFT", msft.StockSymbol)
	assertDecimal(t, "0", msft.CurrentMarketPrice)
	assertDecimal(t, "-1000", msft.PnL)
	assertDecimal(t, "-100", msft.Percentage)

	assertDecimal(t, "2000", v.TotalInvested)
	assertDecimal(t, "1200", v.CurrentMarketValue)
	assertDecimal(t, "-800", v.TotalPnL)
	assertDecimal(t, "-40", v.PercentageChange)
}

func TestGetPortfolioValuation_SkipsClosedPositions(t *testing.T) {
	prices := &fakePrices{prices: map[string]decimal.Decimal{"AAPL": d("120"), "MSFT": d("1")}}
	s := newTestService(newFaultyRepo(), prices)
	mustCreate(t, s, input("AAPL", model.Buy, "10", "100", 1))
	mustCreate(t, s, input("MSFT", model.Buy, "5", "200", 1))
	mustCreate(t, s, input("MSFT", model.Sell, "5", "210", 2))

	v, err := s.GetPortfolioValuation(context.Background(), user)
	require.NoError(t, err)

	require.Len(t, v.Holdings, 1)
	assert.Equal(t, "AAPL", v.Holdings[0].StockSymbol)
	assert.EqualValues(t, 1, prices.calls.Load())
}

func TestGetPortfolioValuation_Empty(t *testing.T) {
	s := newTestService(newFaultyRepo(), nil)

	v, err := s.GetPortfolioValuation(context.Background(), user)
	require.NoError(t, err)

	assert.Empty(t, v.Holdings)
	assertDecimal(t, "0", v.TotalInvested)
	assertDecimal(t, "0", v.PercentageChange)
}

func TestGetPortfolioValuation_SlowUpstreamTimesOut(t *testing.T) {
	s := newTestService(newFaultyRepo(), &fakePrices{block: true})
	mustCreate(t, s, input("AAPL", model.Buy, "10", "100", 1))
	mustCreate(t, s, input("MSFT", model.Buy, "5", "200", 1))

	started := time.Now()
	v, err := s.GetPortfolioValuation(context.Background(), user)
	require.NoError(t, err)

	assert.Less(t, time.Since(started), 2*time.Second)
	assertDecimal(t, "0", v.CurrentMarketValue)
	assertDecimal(t, "-100", v.PercentageChange)
}

func TestGetHoldings_IncludesClosedPositions(t *testing.T) {
	s := newTestService(newFaultyRepo(), nil)
	mustCreate(t, s, input("MSFT", model.Buy, "5", "200", 1))
	mustCreate(t, s, input("MSFT", model.Sell, "5", "210", 2))
	mustCreate(t, s, input("AAPL", model.Buy, "1", "10", 1))

	holdings, err := s.GetHoldings(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	assert.Equal(t, "AAPL", holdings[0].StockSymbol)
	assert.Equal(t, "MSFT", holdings[1].StockSymbol)
	assertDecimal(t, "0", holdings[1].TotalQuantity)
	assertDecimal(t, "200", holdings[1].AveragePurchasePrice)

	open, err := s.GetOpenHoldings(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "AAPL", open[0].StockSymbol)
}
