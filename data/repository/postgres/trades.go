package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KotFed0t/trade_journal/internal/converter/dbConverter"
	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/KotFed0t/trade_journal/internal/model/dbModel"
	"github.com/KotFed0t/trade_journal/utils"
)

const tradeColumns = `trade_id, user_id, stock_symbol, transaction_type, quantity, price, trade_date, status, dt_create, dt_update`

func (r *Postgres) InsertTrade(ctx context.Context, trade model.TradeEntry) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.InsertTrade"
	query := `
		INSERT INTO trade_entries(` + tradeColumns + `)
		VALUES (:trade_id, :user_id, :stock_symbol, :transaction_type, :quantity, :price, :trade_date, :status, :dt_create, :dt_update)
	`

	slog.Debug("InsertTrade start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("trade", trade))
	defer func() {
		if err != nil {
			slog.Error("InsertTrade failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertTrade completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	_, err = r.txOrDb(ctx).NamedExecContext(ctx, query, dbConverter.ConvertTradeToDB(trade))
	return mapError(err)
}

func (r *Postgres) UpdateTrade(ctx context.Context, trade model.TradeEntry) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.UpdateTrade"
	query := `
		UPDATE trade_entries
		SET
			stock_symbol = :stock_symbol,
			transaction_type = :transaction_type,
			quantity = :quantity,
			price = :price,
			trade_date = :trade_date,
			status = :status,
			dt_update = :dt_update
		WHERE
			trade_id = :trade_id
			AND user_id = :user_id
	`

	slog.Debug("UpdateTrade start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("trade", trade))
	defer func() {
		if err != nil {
			slog.Error("UpdateTrade failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpdateTrade completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	res, err := r.txOrDb(ctx).NamedExecContext(ctx, query, dbConverter.ConvertTradeToDB(trade))
	if err != nil {
		return mapError(err)
	}

	return expectAffected(res)
}

func (r *Postgres) DeleteTrade(ctx context.Context, userID, tradeID string) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.DeleteTrade"
	params := map[string]any{
		"userID":  userID,
		"tradeID": tradeID,
	}
	query := `
		DELETE FROM trade_entries
		WHERE
			trade_id = $1
			AND user_id = $2
	`

	slog.Debug("DeleteTrade start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("DeleteTrade failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("DeleteTrade completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	res, err := r.txOrDb(ctx).ExecContext(ctx, query, tradeID, userID)
	if err != nil {
		return mapError(err)
	}

	return expectAffected(res)
}

func (r *Postgres) GetTrade(ctx context.Context, userID, tradeID string) (trade model.TradeEntry, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetTrade"
	params := map[string]any{
		"userID":  userID,
		"tradeID": tradeID,
	}
	query := `
		SELECT ` + tradeColumns + `
		FROM trade_entries
		WHERE
			trade_id = $1
			AND user_id = $2
	`

	slog.Debug("GetTrade start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("GetTrade failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetTrade completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	dbTrade := dbModel.TradeEntry{}
	err = r.txOrDb(ctx).QueryRowxContext(ctx, query, tradeID, userID).StructScan(&dbTrade)
	if err != nil {
		return model.TradeEntry{}, mapError(err)
	}

	return dbConverter.ConvertTrade(dbTrade), nil
}

func (r *Postgres) GetTradesByUser(ctx context.Context, userID string, filter model.TradeFilter) (trades []model.TradeEntry, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetTradesByUser"

	conditions := []string{"user_id = $1"}
	args := []any{userID}
	if filter.StockSymbol != "" {
		args = append(args, filter.StockSymbol)
		conditions = append(conditions, fmt.Sprintf("stock_symbol = $%d", len(args)))
	}
	if !filter.DateRange.From.IsZero() {
		args = append(args, filter.DateRange.From)
		conditions = append(conditions, fmt.Sprintf("trade_date >= $%d", len(args)))
	}
	if !filter.DateRange.To.IsZero() {
		args = append(args, filter.DateRange.To)
		conditions = append(conditions, fmt.Sprintf("trade_date <= $%d", len(args)))
	}

	query := `
		SELECT ` + tradeColumns + `
		FROM trade_entries
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY trade_date, dt_create
	`

	slog.Debug("GetTradesByUser start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", args))
	defer func() {
		if err != nil {
			slog.Error("GetTradesByUser failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetTradesByUser completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("count", len(trades)))
		}
	}()

	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	trades = make([]model.TradeEntry, 0)
	for rows.Next() {
		var dbTrade dbModel.TradeEntry
		err = rows.StructScan(&dbTrade)
		if err != nil {
			return nil, err
		}
		trades = append(trades, dbConverter.ConvertTrade(dbTrade))
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return trades, nil
}

// GetOpenSymbols returns every symbol some user still holds a positive quantity of.
func (r *Postgres) GetOpenSymbols(ctx context.Context) (symbols []string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetOpenSymbols"
	query := `
		SELECT DISTINCT stock_symbol FROM (
			SELECT user_id, stock_symbol,
				SUM(CASE WHEN transaction_type = 'Buy' THEN quantity ELSE -quantity END) AS net_quantity
			FROM trade_entries
			GROUP BY user_id, stock_symbol
		) positions
		WHERE net_quantity > 0
		ORDER BY stock_symbol
	`

	slog.Debug("GetOpenSymbols start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetOpenSymbols failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetOpenSymbols completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	symbols = make([]string, 0)
	err = r.txOrDb(ctx).SelectContext(ctx, &symbols, query)
	if err != nil {
		return nil, err
	}

	return symbols, nil
}
