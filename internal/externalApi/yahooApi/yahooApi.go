package yahooApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/KotFed0t/trade_journal/config"
	"github.com/KotFed0t/trade_journal/internal/externalApi"
	"github.com/KotFed0t/trade_journal/utils"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string   `json:"symbol"`
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				PreviousClose      *float64 `json:"chartPreviousClose"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type YahooApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *YahooApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.YahooApi.Url).
		SetHeader("User-Agent", "Mozilla/5.0")
	return &YahooApi{client: client}
}

// GetPrice returns regularMarketPrice of symbol, falling back to the previous close.
func (a *YahooApi) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	rqId := utils.GetRequestIDFromCtx(ctx)

	slog.Debug("start YahooApi.GetPrice request", slog.String("rqID", rqId), slog.String("symbol", symbol))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(map[string]string{"interval": "1d", "range": "1d"}).
		Get("/v8/finance/chart/" + url.PathEscape(symbol))
	if err != nil {
		slog.Error("error while dialing YahooApi", slog.String("err", err.Error()), slog.String("rqID", rqId))
		return decimal.Zero, err
	}

	if resp.StatusCode() == http.StatusNotFound {
		return decimal.Zero, externalApi.ErrNotFound
	}
	if resp.StatusCode() != http.StatusOK {
		slog.Error("unexpected YahooApi status", slog.Int("status", resp.StatusCode()), slog.String("rqID", rqId))
		return decimal.Zero, fmt.Errorf("%w: status %d", externalApi.ErrBadResponse, resp.StatusCode())
	}

	chart := chartResponse{}
	err = json.Unmarshal(resp.Body(), &chart)
	if err != nil {
		slog.Error("can't unmarshall YahooApi response", slog.String("err", err.Error()), slog.String("rqID", rqId))
		return decimal.Zero, fmt.Errorf("%w: %w", externalApi.ErrBadResponse, err)
	}

	price, err := parsePrice(chart)
	if err != nil {
		return decimal.Zero, err
	}

	slog.Debug("YahooApi.GetPrice request complete", slog.String("rqID", rqId), slog.String("price", price.String()))

	return price, nil
}

func parsePrice(chart chartResponse) (decimal.Decimal, error) {
	if chart.Chart.Error != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", externalApi.ErrNotFound, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return decimal.Zero, externalApi.ErrNotFound
	}

	meta := chart.Chart.Result[0].Meta
	switch {
	case meta.RegularMarketPrice != nil:
		return decimal.NewFromFloat(*meta.RegularMarketPrice), nil
	case meta.PreviousClose != nil:
		return decimal.NewFromFloat(*meta.PreviousClose), nil
	default:
		return decimal.Zero, externalApi.ErrNoPrice
	}
}
