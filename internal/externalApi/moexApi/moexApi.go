package moexApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/KotFed0t/trade_journal/config"
	"github.com/KotFed0t/trade_journal/internal/externalApi"
	"github.com/KotFed0t/trade_journal/utils"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const securitiesURL = "/iss/engines/stock/markets/shares/boards/TQBR/securities.json"

type MoexApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *MoexApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.MoexApi.Url)
	return &MoexApi{client: client}
}

// GetPrice returns the current market price of ticker on the TQBR board.
func (a *MoexApi) GetPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	rqId := utils.GetRequestIDFromCtx(ctx)
	params := map[string]string{
		"iss.meta":           "off",
		"securities.columns": "SECID",
		"marketdata.columns": "SECID,MARKETPRICE,LAST",
		"securities":         ticker,
	}

	slog.Debug("start MoexApi.GetPrice request", slog.String("rqID", rqId), slog.String("ticker", ticker))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(params).
		Get(securitiesURL)
	if err != nil {
		slog.Error("error while dialing MoexApi", slog.String("err", err.Error()), slog.String("rqID", rqId))
		return decimal.Zero, err
	}

	if resp.StatusCode() != http.StatusOK {
		slog.Error("unexpected MoexApi status", slog.Int("status", resp.StatusCode()), slog.String("rqID", rqId))
		return decimal.Zero, fmt.Errorf("%w: status %d", externalApi.ErrBadResponse, resp.StatusCode())
	}

	raw := rawSecurities{}
	err = json.Unmarshal(resp.Body(), &raw)
	if err != nil {
		slog.Error("can't unmarshall MoexApi response", slog.String("err", err.Error()), slog.String("rqID", rqId))
		return decimal.Zero, fmt.Errorf("%w: %w", externalApi.ErrBadResponse, err)
	}

	price, err := parsePrice(raw, ticker)
	if err != nil {
		slog.Warn("can't parse MoexApi price", slog.String("err", err.Error()), slog.String("rqID", rqId), slog.String("ticker", ticker))
		return decimal.Zero, err
	}

	slog.Debug("MoexApi.GetPrice request complete", slog.String("rqID", rqId), slog.String("price", price.String()))

	return price, nil
}

func parsePrice(raw rawSecurities, ticker string) (decimal.Decimal, error) {
	for i := range raw.Marketdata.Data {
		if secID, _ := raw.Marketdata.column(i, "SECID").(string); secID != ticker {
			continue
		}

		// MARKETPRICE is empty outside trading hours, LAST is the fallback
		for _, col := range []string{"MARKETPRICE", "LAST"} {
			if price, ok := raw.Marketdata.column(i, col).(float64); ok && price > 0 {
				return decimal.NewFromFloat(price), nil
			}
		}
		return decimal.Zero, externalApi.ErrNoPrice
	}

	return decimal.Zero, externalApi.ErrNotFound
}
