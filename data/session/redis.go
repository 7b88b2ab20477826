package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"github.com/KotFed0t/trade_journal/config"
	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/KotFed0t/trade_journal/utils"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session not found")

const sessionPrefix = "session:"

type RedisSession struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisSession(redisClient *redis.Client, cfg *config.Config) *RedisSession {
	return &RedisSession{redis: redisClient, cfg: cfg}
}

func (s *RedisSession) GetSession(ctx context.Context, chatID int64) (model.Session, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	key := sessionPrefix + strconv.FormatInt(chatID, 10)

	res, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Session{}, ErrNotFound
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("key", key))
		return model.Session{}, err
	}

	session := model.Session{}
	if err = json.Unmarshal(res, &session); err != nil {
		slog.Error("can't unmarshall session", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return model.Session{}, err
	}

	return session, nil
}

func (s *RedisSession) SetSession(ctx context.Context, session model.Session) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	key := sessionPrefix + strconv.FormatInt(session.ChatID, 10)

	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}

	err = s.redis.Set(ctx, key, raw, s.cfg.Cache.SessionsExpiration).Err()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("key", key))
		return err
	}

	return nil
}
