// Package memory is a process-local Ledger Store used for development runs and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/KotFed0t/trade_journal/data/repository"
	"github.com/KotFed0t/trade_journal/internal/calculator"
	"github.com/KotFed0t/trade_journal/internal/model"
)

type Memory struct {
	mu            sync.RWMutex
	trades        map[string]model.TradeEntry
	profitLosses  map[string]model.ProfitLoss // keyed by sell trade id
	telegramChats map[int64]string
}

func New() *Memory {
	return &Memory{
		trades:        make(map[string]model.TradeEntry),
		profitLosses:  make(map[string]model.ProfitLoss),
		telegramChats: make(map[int64]string),
	}
}

func (m *Memory) InsertTrade(_ context.Context, trade model.TradeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.trades[trade.ID]; ok {
		return repository.ErrAlreadyExists
	}
	m.trades[trade.ID] = trade
	return nil
}

func (m *Memory) UpdateTrade(_ context.Context, trade model.TradeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.trades[trade.ID]
	if !ok || existing.UserID != trade.UserID {
		return repository.ErrNotFound
	}
	m.trades[trade.ID] = trade
	return nil
}

func (m *Memory) DeleteTrade(_ context.Context, userID, tradeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.trades[tradeID]
	if !ok || existing.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.trades, tradeID)
	return nil
}

func (m *Memory) GetTrade(_ context.Context, userID, tradeID string) (model.TradeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	trade, ok := m.trades[tradeID]
	if !ok || trade.UserID != userID {
		return model.TradeEntry{}, repository.ErrNotFound
	}
	return trade, nil
}

func (m *Memory) GetTradesByUser(_ context.Context, userID string, filter model.TradeFilter) ([]model.TradeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	trades := make([]model.TradeEntry, 0)
	for _, trade := range m.trades {
		if trade.UserID != userID {
			continue
		}
		if filter.StockSymbol != "" && trade.StockSymbol != filter.StockSymbol {
			continue
		}
		if !filter.DateRange.Contains(trade.TradeDate) {
			continue
		}
		trades = append(trades, trade)
	}

	sort.Slice(trades, func(i, j int) bool {
		if trades[i].TradeDate.Equal(trades[j].TradeDate) {
			return trades[i].CreatedAt.Before(trades[j].CreatedAt)
		}
		return trades[i].TradeDate.Before(trades[j].TradeDate)
	})

	return trades, nil
}

func (m *Memory) GetOpenSymbols(_ context.Context) ([]string, error) {
	m.mu.RLock()
	byUser := make(map[string][]model.TradeEntry)
	for _, trade := range m.trades {
		byUser[trade.UserID] = append(byUser[trade.UserID], trade)
	}
	m.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, userTrades := range byUser {
		for _, h := range calculator.OpenHoldings(calculator.AggregateHoldings(userTrades)) {
			seen[h.StockSymbol] = struct{}{}
		}
	}

	symbols := make([]string, 0, len(seen))
	for symbol := range seen {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols, nil
}

func (m *Memory) InsertProfitLoss(_ context.Context, pl model.ProfitLoss) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profitLosses[pl.SellTradeID]; ok {
		return repository.ErrAlreadyExists
	}
	m.profitLosses[pl.SellTradeID] = pl
	return nil
}

func (m *Memory) DeleteProfitLossBySellTrade(_ context.Context, userID, sellTradeID string) (model.ProfitLoss, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pl, ok := m.profitLosses[sellTradeID]
	if !ok || pl.UserID != userID {
		return model.ProfitLoss{}, repository.ErrNotFound
	}
	delete(m.profitLosses, sellTradeID)
	return pl, nil
}

func (m *Memory) GetProfitLosses(_ context.Context, userID string, dateRange model.DateRange) ([]model.ProfitLoss, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make([]model.ProfitLoss, 0)
	for _, pl := range m.profitLosses {
		if pl.UserID == userID && dateRange.Contains(pl.SellDate) {
			res = append(res, pl)
		}
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].SellDate.Equal(res[j].SellDate) {
			return res[i].CreatedAt.Before(res[j].CreatedAt)
		}
		return res[i].SellDate.Before(res[j].SellDate)
	})

	return res, nil
}

func (m *Memory) UpsertTelegramChat(_ context.Context, chatID int64, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.telegramChats[chatID] = userID
	return nil
}

func (m *Memory) GetTelegramChatUser(_ context.Context, chatID int64) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	userID, ok := m.telegramChats[chatID]
	if !ok {
		return "", repository.ErrNotFound
	}
	return userID, nil
}
