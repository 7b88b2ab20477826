package utils

import (
	"context"

	"github.com/google/uuid"
	tele "gopkg.in/telebot.v4"
)

type rqIDKey struct{}

func GetRequestIDFromCtx(ctx context.Context) string {
	rqID, ok := ctx.Value(rqIDKey{}).(string)
	if !ok {
		return ""
	}
	return rqID
}

// WithRequestID stores rqID in ctx, generating one when rqID is empty.
func WithRequestID(ctx context.Context, rqID string) context.Context {
	if rqID == "" {
		rqID = uuid.NewString()
	}
	return context.WithValue(ctx, rqIDKey{}, rqID)
}

func CreateCtxWithRqID(c tele.Context) context.Context {
	rqID, _ := c.Get("rqID").(string)
	return WithRequestID(context.Background(), rqID)
}
