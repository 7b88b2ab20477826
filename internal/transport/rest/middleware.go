package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/KotFed0t/trade_journal/internal/auth/jwtAuth"
	"github.com/KotFed0t/trade_journal/utils"
	"github.com/gin-gonic/gin"
)

const (
	requestIDHeader = "X-Request-ID"
	userIDKey       = "userID"
)

type Authenticator interface {
	UserID(token string) (string, error)
}

// RequestID puts the incoming X-Request-ID, or a fresh one, into the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := utils.WithRequestID(c.Request.Context(), c.GetHeader(requestIDHeader))
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestIDHeader, utils.GetRequestIDFromCtx(ctx))
		c.Next()
	}
}

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		rqID := utils.GetRequestIDFromCtx(c.Request.Context())

		slog.Info(
			"start request",
			slog.String("rqID", rqID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)

		c.Next()

		slog.Info(
			"request finished",
			slog.String("rqID", rqID),
			slog.Int("status", c.Writer.Status()),
			slog.String("request duration", fmt.Sprintf("%.3fs", time.Since(now).Seconds())),
		)
	}
}

func Recover() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error(
			"Panic recovered in http handler",
			slog.String("rqID", utils.GetRequestIDFromCtx(c.Request.Context())),
			slog.Any("panic", recovered),
			slog.String("stacktrace", string(debug.Stack())),
		)
		Error(c, http.StatusInternalServerError, "internal server error", nil)
	})
}

// Auth resolves the journal user from the bearer token.
func Auth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := jwtAuth.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			Error(c, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}

		userID, err := auth.UserID(token)
		if err != nil {
			slog.Debug(
				"token rejected",
				slog.String("rqID", utils.GetRequestIDFromCtx(c.Request.Context())),
				slog.String("err", err.Error()),
			)
			Error(c, http.StatusUnauthorized, "invalid token", nil)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
