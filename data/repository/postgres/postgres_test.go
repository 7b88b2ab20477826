package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/KotFed0t/trade_journal/config"
	"github.com/KotFed0t/trade_journal/data"
	"github.com/KotFed0t/trade_journal/data/repository"
	"github.com/KotFed0t/trade_journal/data/testContainers"
	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPostgres(t *testing.T) *Postgres {
	t.Helper()

	cfg := &config.Config{}
	testContainers.Postgres(t, cfg)

	db := data.NewPostgresClient(cfg)
	t.Cleanup(func() { _ = db.Close() })

	return NewPostgres(db)
}

func newTrade(userID, symbol string, tt model.TransactionType, qty, price string, tradeDate time.Time) model.TradeEntry {
	now := time.Now().UTC().Truncate(time.Second)
	return model.TradeEntry{
		ID:              uuid.NewString(),
		UserID:          userID,
		StockSymbol:     symbol,
		TransactionType: tt,
		Quantity:        decimal.RequireFromString(qty),
		Price:           decimal.RequireFromString(price),
		TradeDate:       tradeDate,
		Status:          model.StatusOpen,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func day(d int) time.Time {
	return time.Date(2024, 11, d, 12, 0, 0, 0, time.UTC)
}

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, repository.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, repository.ErrAlreadyExists},
		{"malformed uuid", &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}, repository.ErrNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError(tc.err), tc.want)
		})
	}

	other := errors.New("connection reset")
	assert.Equal(t, other, mapError(other))
	assert.NoError(t, mapError(nil))
}

func TestWithinTransaction_Rollback(t *testing.T) {
	repo := newTestPostgres(t)
	ctx := context.Background()
	userID := uuid.NewString()
	trade := newTrade(userID, "AAPL", model.Buy, "1", "1", day(1))

	err := repo.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, repo.InsertTrade(ctx, trade))
		return errors.New("abort")
	})
	require.Error(t, err)

	_, err = repo.GetTrade(ctx, userID, trade.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
