package yahooApi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KotFed0t/trade_journal/config"
	"github.com/KotFed0t/trade_journal/internal/externalApi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApi(t *testing.T, handler http.HandlerFunc) *YahooApi {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.API.Timeout = time.Second
	cfg.API.YahooApi.Url = srv.URL
	return New(cfg)
}

func TestGetPrice(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{"symbol":"AAPL","regularMarketPrice":189.5}}],"error":null}}`))
	})

	price, err := api.GetPrice(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "189.5", price.String())
}

func TestGetPrice_PreviousCloseFallback(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{"symbol":"AAPL","chartPreviousClose":180}}]}}`))
	})

	price, err := api.GetPrice(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "180", price.String())
}

func TestGetPrice_UnknownSymbol(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	})

	_, err := api.GetPrice(context.Background(), "NOPE")
	assert.ErrorIs(t, err, externalApi.ErrNotFound)
}

func TestGetPrice_ServerError(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := api.GetPrice(context.Background(), "AAPL")
	assert.ErrorIs(t, err, externalApi.ErrBadResponse)
}
