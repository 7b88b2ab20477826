package cache

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KotFed0t/trade_journal/config"
	"github.com/KotFed0t/trade_journal/utils"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

var ErrMiss = errors.New("cache miss")

const pricePrefix = "price:"

type RedisCache struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisCache(redisClient *redis.Client, cfg *config.Config) *RedisCache {
	return &RedisCache{redis: redisClient, cfg: cfg}
}

func (r *RedisCache) SetPrices(ctx context.Context, prices map[string]decimal.Decimal) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("start SetPrices", slog.String("rqID", rqID), slog.Int("count", len(prices)))

	pipe := r.redis.Pipeline()
	for symbol, price := range prices {
		pipe.Set(ctx, pricePrefix+symbol, price.String(), r.cfg.Cache.PricesExpiration)
	}

	_, err := pipe.Exec(ctx)
	if err != nil {
		slog.Error("failed on pipe.Exec", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("SetPrices completed", slog.String("rqID", rqID))

	return nil
}

func (r *RedisCache) SetPrice(ctx context.Context, symbol string, price decimal.Decimal) error {
	return r.SetPrices(ctx, map[string]decimal.Decimal{symbol: price})
}

func (r *RedisCache) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("GetPrice start", slog.String("rqID", rqID), slog.String("symbol", symbol))

	res, err := r.redis.Get(ctx, pricePrefix+symbol).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			slog.Debug("price not cached", slog.String("rqID", rqID), slog.String("symbol", symbol))
			return decimal.Zero, ErrMiss
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("symbol", symbol))
		return decimal.Zero, err
	}

	price, err := decimal.NewFromString(res)
	if err != nil {
		slog.Error(
			"can't parse cached price",
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.String("resultFromRedis", res),
		)
		return decimal.Zero, err
	}

	slog.Debug("GetPrice finished", slog.String("rqID", rqID))

	return price, nil
}
