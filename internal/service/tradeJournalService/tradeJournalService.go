// Package tradeJournalService orchestrates the trade ledger, the realized
// profit/loss records derived from Sell trades, and portfolio valuation.
package tradeJournalService

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/KotFed0t/trade_journal/config"
	"github.com/KotFed0t/trade_journal/data/repository"
	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/KotFed0t/trade_journal/internal/service"
	"github.com/shopspring/decimal"
)

type Repository interface {
	InsertTrade(ctx context.Context, trade model.TradeEntry) error
	UpdateTrade(ctx context.Context, trade model.TradeEntry) error
	DeleteTrade(ctx context.Context, userID, tradeID string) error
	GetTrade(ctx context.Context, userID, tradeID string) (model.TradeEntry, error)
	GetTradesByUser(ctx context.Context, userID string, filter model.TradeFilter) ([]model.TradeEntry, error)
	GetOpenSymbols(ctx context.Context) ([]string, error)

	InsertProfitLoss(ctx context.Context, pl model.ProfitLoss) error
	DeleteProfitLossBySellTrade(ctx context.Context, userID, sellTradeID string) (model.ProfitLoss, error)
	GetProfitLosses(ctx context.Context, userID string, dateRange model.DateRange) ([]model.ProfitLoss, error)

	UpsertTelegramChat(ctx context.Context, chatID int64, userID string) error
	GetTelegramChatUser(ctx context.Context, chatID int64) (string, error)
}

type PriceProvider interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

type PriceCache interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	SetPrice(ctx context.Context, symbol string, price decimal.Decimal) error
	SetPrices(ctx context.Context, prices map[string]decimal.Decimal) error
}

type ReportGenerator interface {
	Generate(ctx context.Context, data model.ReportData) (fileBytes []byte, fileExtension string, err error)
}

type ReportStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error)
	DeleteOldFiles(ctx context.Context) (deleted int, err error)
}

type SessionStore interface {
	GetSession(ctx context.Context, chatID int64) (model.Session, error)
	SetSession(ctx context.Context, session model.Session) error
}

// Locker serializes mutations of the same (user, symbol) positions.
type Locker interface {
	Lock(userID string, symbols ...string) (unlock func())
}

type Option func(s *TradeJournalService)

func WithPriceCache(cache PriceCache) Option {
	return func(s *TradeJournalService) { s.priceCache = cache }
}

func WithReportStorage(storage ReportStorage) Option {
	return func(s *TradeJournalService) { s.reportStorage = storage }
}

func WithSessionStore(sessions SessionStore) Option {
	return func(s *TradeJournalService) { s.sessions = sessions }
}

func WithLocker(locker Locker) Option {
	return func(s *TradeJournalService) { s.locker = locker }
}

type TradeJournalService struct {
	cfg           *config.Config
	repo          Repository
	prices        PriceProvider
	reports       ReportGenerator
	priceCache    PriceCache
	reportStorage ReportStorage
	sessions      SessionStore
	locker        Locker
}

func New(cfg *config.Config, repo Repository, prices PriceProvider, reports ReportGenerator, opts ...Option) *TradeJournalService {
	s := &TradeJournalService{
		cfg:     cfg,
		repo:    repo,
		prices:  prices,
		reports: reports,
		locker:  newKeyLocker(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// storeErr maps a repository error of a mutation path to the service taxonomy.
func storeErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return service.ErrNotFound
	}
	return fmt.Errorf("%w: %v", service.ErrPersistence, err)
}

// readErr maps a repository error of a read path.
func readErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return service.ErrNotFound
	}
	return fmt.Errorf("%w: %v", service.ErrComputation, err)
}
