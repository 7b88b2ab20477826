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

const profitLossColumns = `profit_loss_id, user_id, stock_symbol, sell_trade_id, sell_date, sell_price, sell_quantity, average_purchase_price, profit_or_loss, dt_create`

func (r *Postgres) InsertProfitLoss(ctx context.Context, pl model.ProfitLoss) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.InsertProfitLoss"
	query := `
		INSERT INTO profit_losses(` + profitLossColumns + `)
		VALUES (
			:profit_loss_id, :user_id, :stock_symbol, :sell_trade_id, :sell_date,
			:sell_price, :sell_quantity, :average_purchase_price, :profit_or_loss, :dt_create
		)
	`

	slog.Debug("InsertProfitLoss start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("profitLoss", pl))
	defer func() {
		if err != nil {
			slog.Error("InsertProfitLoss failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertProfitLoss completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	_, err = r.txOrDb(ctx).NamedExecContext(ctx, query, dbConverter.ConvertProfitLossToDB(pl))
	return mapError(err)
}

// DeleteProfitLossBySellTrade removes the record derived from sellTradeID and returns it.
func (r *Postgres) DeleteProfitLossBySellTrade(ctx context.Context, userID, sellTradeID string) (pl model.ProfitLoss, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.DeleteProfitLossBySellTrade"
	params := map[string]any{
		"userID":      userID,
		"sellTradeID": sellTradeID,
	}
	query := `
		DELETE FROM profit_losses
		WHERE
			sell_trade_id = $1
			AND user_id = $2
		RETURNING ` + profitLossColumns

	slog.Debug("DeleteProfitLossBySellTrade start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("DeleteProfitLossBySellTrade failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("DeleteProfitLossBySellTrade completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	dbPL := dbModel.ProfitLoss{}
	err = r.txOrDb(ctx).QueryRowxContext(ctx, query, sellTradeID, userID).StructScan(&dbPL)
	if err != nil {
		return model.ProfitLoss{}, mapError(err)
	}

	return dbConverter.ConvertProfitLoss(dbPL), nil
}

func (r *Postgres) GetProfitLosses(ctx context.Context, userID string, dateRange model.DateRange) (records []model.ProfitLoss, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetProfitLosses"

	conditions := []string{"user_id = $1"}
	args := []any{userID}
	if !dateRange.From.IsZero() {
		args = append(args, dateRange.From)
		conditions = append(conditions, fmt.Sprintf("sell_date >= $%d", len(args)))
	}
	if !dateRange.To.IsZero() {
		args = append(args, dateRange.To)
		conditions = append(conditions, fmt.Sprintf("sell_date <= $%d", len(args)))
	}

	query := `
		SELECT ` + profitLossColumns + `
		FROM profit_losses
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY sell_date, dt_create
	`

	slog.Debug("GetProfitLosses start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", args))
	defer func() {
		if err != nil {
			slog.Error("GetProfitLosses failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetProfitLosses completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("count", len(records)))
		}
	}()

	dbRecords := make([]dbModel.ProfitLoss, 0)
	err = r.txOrDb(ctx).SelectContext(ctx, &dbRecords, query, args...)
	if err != nil {
		return nil, err
	}

	records = make([]model.ProfitLoss, 0, len(dbRecords))
	for _, dbPL := range dbRecords {
		records = append(records, dbConverter.ConvertProfitLoss(dbPL))
	}

	return records, nil
}
