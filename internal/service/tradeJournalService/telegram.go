package tradeJournalService

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/KotFed0t/trade_journal/utils"
)

func (s *TradeJournalService) LinkTelegramChat(ctx context.Context, chatID int64, userID string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradeJournalService.LinkTelegramChat"

	if err := validateUserID(userID); err != nil {
		return err
	}

	if err := s.repo.UpsertTelegramChat(ctx, chatID, userID); err != nil {
		slog.Error("got error from repo.UpsertTelegramChat", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return storeErr(err)
	}

	s.cacheSession(ctx, model.Session{ChatID: chatID, UserID: userID})

	return nil
}

// GetTelegramChatUser resolves the journal user linked to chatID.
func (s *TradeJournalService) GetTelegramChatUser(ctx context.Context, chatID int64) (string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradeJournalService.GetTelegramChatUser"

	if s.sessions != nil {
		session, err := s.sessions.GetSession(ctx, chatID)
		if err == nil && session.UserID != "" {
			return session.UserID, nil
		}
	}

	userID, err := s.repo.GetTelegramChatUser(ctx, chatID)
	if err != nil {
		slog.Debug("chat is not linked", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID), slog.String("err", err.Error()))
		return "", readErr(err)
	}

	s.cacheSession(ctx, model.Session{ChatID: chatID, UserID: userID})

	return userID, nil
}

func (s *TradeJournalService) cacheSession(ctx context.Context, session model.Session) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.SetSession(ctx, session); err != nil {
		slog.Warn("can't cache chat session", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
	}
}
