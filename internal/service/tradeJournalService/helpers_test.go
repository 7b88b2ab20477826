package tradeJournalService

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KotFed0t/trade_journal/config"
	"github.com/KotFed0t/trade_journal/data/repository/memory"
	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errInjected = errors.New("injected store failure")

const user = "user-1"

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(n int) time.Time {
	return time.Date(2024, 11, n, 12, 0, 0, 0, time.UTC)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s got %s", want, got.String())
}

func input(symbol string, kind model.TransactionType, qty, price string, n int) model.TradeInput {
	return model.TradeInput{
		StockSymbol:     symbol,
		TransactionType: kind,
		Quantity:        d(qty),
		Price:           d(price),
		TradeDate:       day(n),
	}
}

// faultyRepo wraps the in-memory store and lets tests fail single operations.
type faultyRepo struct {
	*memory.Memory
	insertProfitLoss func(pl model.ProfitLoss) error
	deleteTrade      func(tradeID string) error
	readDelay        time.Duration
}

func newFaultyRepo() *faultyRepo {
	return &faultyRepo{Memory: memory.New()}
}

func (r *faultyRepo) InsertProfitLoss(ctx context.Context, pl model.ProfitLoss) error {
	if r.insertProfitLoss != nil {
		if err := r.insertProfitLoss(pl); err != nil {
			return err
		}
	}
	return r.Memory.InsertProfitLoss(ctx, pl)
}

func (r *faultyRepo) DeleteTrade(ctx context.Context, userID, tradeID string) error {
	if r.deleteTrade != nil {
		if err := r.deleteTrade(tradeID); err != nil {
			return err
		}
	}
	return r.Memory.DeleteTrade(ctx, userID, tradeID)
}

func (r *faultyRepo) GetTradesByUser(ctx context.Context, userID string, filter model.TradeFilter) ([]model.TradeEntry, error) {
	trades, err := r.Memory.GetTradesByUser(ctx, userID, filter)
	if r.readDelay > 0 {
		time.Sleep(r.readDelay)
	}
	return trades, err
}

type fakePrices struct {
	prices map[string]decimal.Decimal
	calls  atomic.Int32
	block  bool
}

func (p *fakePrices) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	p.calls.Add(1)
	if p.block {
		<-ctx.Done()
		return decimal.Zero, ctx.Err()
	}
	price, ok := p.prices[symbol]
	if !ok {
		return decimal.Zero, errors.New("upstream unavailable")
	}
	return price, nil
}

type fakePriceCache struct {
	mu     sync.Mutex
	prices map[string]decimal.Decimal
}

func newFakePriceCache() *fakePriceCache {
	return &fakePriceCache{prices: make(map[string]decimal.Decimal)}
}

func (c *fakePriceCache) GetPrice(_ context.Context, symbol string) (decimal.Decimal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	price, ok := c.prices[symbol]
	if !ok {
		return decimal.Zero, errors.New("miss")
	}
	return price, nil
}

func (c *fakePriceCache) SetPrice(ctx context.Context, symbol string, price decimal.Decimal) error {
	return c.SetPrices(ctx, map[string]decimal.Decimal{symbol: price})
}

func (c *fakePriceCache) SetPrices(_ context.Context, prices map[string]decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for symbol, price := range prices {
		c.prices[symbol] = price
	}
	return nil
}

func (c *fakePriceCache) get(symbol string) (decimal.Decimal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	price, ok := c.prices[symbol]
	return price, ok
}

type fakeGenerator struct {
	last model.ReportData
}

func (g *fakeGenerator) Generate(_ context.Context, data model.ReportData) ([]byte, string, error) {
	g.last = data
	return []byte("xlsx"), ".xlsx", nil
}

type fakeStorage struct {
	uploaded map[string][]byte
	deleted  int
}

func (s *fakeStorage) UploadFile(_ context.Context, reader io.Reader, filename string) (string, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	if s.uploaded == nil {
		s.uploaded = make(map[string][]byte)
	}
	s.uploaded[filename] = content
	return "https://files.example/" + filename, nil
}

func (s *fakeStorage) DeleteOldFiles(context.Context) (int, error) {
	return s.deleted, nil
}

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[int64]model.Session
}

func (f *fakeSessions) GetSession(_ context.Context, chatID int64) (model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[chatID]
	if !ok {
		return model.Session{}, errors.New("not found")
	}
	return session, nil
}

func (f *fakeSessions) SetSession(_ context.Context, session model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sessions == nil {
		f.sessions = make(map[int64]model.Session)
	}
	f.sessions[session.ChatID] = session
	return nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Prices.LookupTimeout = 50 * time.Millisecond
	cfg.Prices.MaxParallel = 4
	return cfg
}

func newTestService(repo Repository, prices PriceProvider, opts ...Option) *TradeJournalService {
	if prices == nil {
		prices = &fakePrices{}
	}
	return New(testConfig(), repo, prices, &fakeGenerator{}, opts...)
}

func mustCreate(t *testing.T, s *TradeJournalService, in model.TradeInput) model.TradeEntry {
	t.Helper()
	trade, err := s.CreateTrade(context.Background(), user, in)
	require.NoError(t, err)
	return trade
}

func profitLosses(t *testing.T, repo Repository) []model.ProfitLoss {
	t.Helper()
	records, err := repo.GetProfitLosses(context.Background(), user, model.DateRange{})
	require.NoError(t, err)
	return records
}

func trades(t *testing.T, repo Repository) []model.TradeEntry {
	t.Helper()
	list, err := repo.GetTradesByUser(context.Background(), user, model.TradeFilter{})
	require.NoError(t, err)
	return list
}
