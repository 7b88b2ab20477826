package postgres

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/trade_journal/utils"
)

// UpsertTelegramChat links chatID to userID, replacing a previous link of the chat.
func (r *Postgres) UpsertTelegramChat(ctx context.Context, chatID int64, userID string) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.UpsertTelegramChat"
	params := map[string]any{
		"chatID": chatID,
		"userID": userID,
	}

	slog.Debug("UpsertTelegramChat start", slog.String("rqID", rqID), slog.String("op", op), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("UpsertTelegramChat failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpsertTelegramChat completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	return r.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := r.txOrDb(ctx).ExecContext(ctx, `DELETE FROM telegram_chats WHERE chat_id = $1`, chatID)
		if err != nil {
			return err
		}

		_, err = r.txOrDb(ctx).ExecContext(ctx, `INSERT INTO telegram_chats(chat_id, user_id) VALUES($1, $2)`, chatID, userID)
		return mapError(err)
	})
}

func (r *Postgres) GetTelegramChatUser(ctx context.Context, chatID int64) (userID string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetTelegramChatUser"
	query := `SELECT user_id FROM telegram_chats WHERE chat_id = $1`

	slog.Debug("GetTelegramChatUser start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetTelegramChatUser failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetTelegramChatUser completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	err = r.txOrDb(ctx).QueryRowxContext(ctx, query, chatID).Scan(&userID)
	if err != nil {
		return "", mapError(err)
	}

	return userID, nil
}
