package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/trade_journal/internal/service"
	"github.com/KotFed0t/trade_journal/utils"
	"github.com/google/uuid"
	tele "gopkg.in/telebot.v4"
)

const UserIDKey = "userID"

func Logger() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			now := time.Now()

			rqID := uuid.NewString()
			c.Set("rqID", rqID)

			slog.Info(
				"start request",
				slog.String("rqID", rqID),
				slog.String("text", c.Text()),
			)

			defer func() {
				slog.Info(
					"request finished",
					slog.String("rqID", rqID),
					slog.String("request duration", fmt.Sprintf("%.2fs", time.Since(now).Seconds())),
				)
			}()

			return next(c)
		}
	}
}

type ChatUserResolver interface {
	GetTelegramChatUser(ctx context.Context, chatID int64) (string, error)
}

// Auth lets through only chats linked to a journal user; the user id is stored under UserIDKey.
func Auth(resolver ChatUserResolver) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			ctx := utils.CreateCtxWithRqID(c)

			userID, err := resolver.GetTelegramChatUser(ctx, c.Chat().ID)
			if err != nil {
				if errors.Is(err, service.ErrNotFound) {
					return c.Send("чат не привязан к аккаунту, отправьте /start <токен>")
				}
				slog.Error(
					"got error from GetTelegramChatUser",
					slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
					slog.String("err", err.Error()),
				)
				return c.Send("что-то пошло не так...")
			}

			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}
