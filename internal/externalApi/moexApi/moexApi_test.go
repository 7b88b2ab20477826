package moexApi

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

func newTestApi(t *testing.T, body string) *MoexApi {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, securitiesURL, r.URL.Path)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.API.Timeout = time.Second
	cfg.API.MoexApi.Url = srv.URL
	return New(cfg)
}

func TestGetPrice(t *testing.T) {
	api := newTestApi(t, `{
		"securities": {"columns": ["SECID"], "data": [["SBER"]]},
		"marketdata": {"columns": ["SECID", "MARKETPRICE", "LAST"], "data": [["SBER", 301.25, 301.3]]}
	}`)

	price, err := api.GetPrice(context.Background(), "SBER")
	require.NoError(t, err)
	assert.Equal(t, "301.25", price.String())
}

func TestGetPrice_LastWhenMarketClosed(t *testing.T) {
	api := newTestApi(t, `{
		"securities": {"columns": ["SECID"], "data": [["SBER"]]},
		"marketdata": {"columns": ["SECID", "MARKETPRICE", "LAST"], "data": [["SBER", null, 299]]}
	}`)

	price, err := api.GetPrice(context.Background(), "SBER")
	require.NoError(t, err)
	assert.Equal(t, "299", price.String())
}

func TestGetPrice_NotFound(t *testing.T) {
	api := newTestApi(t, `{
		"securities": {"columns": ["SECID"], "data": []},
		"marketdata": {"columns": ["SECID", "MARKETPRICE", "LAST"], "data": []}
	}`)

	_, err := api.GetPrice(context.Background(), "NOPE")
	assert.ErrorIs(t, err, externalApi.ErrNotFound)
}

func TestGetPrice_NoPrice(t *testing.T) {
	api := newTestApi(t, `{
		"securities": {"columns": ["SECID"], "data": [["SBER"]]},
		"marketdata": {"columns": ["SECID", "MARKETPRICE", "LAST"], "data": [["SBER", null, null]]}
	}`)

	_, err := api.GetPrice(context.Background(), "SBER")
	assert.ErrorIs(t, err, externalApi.ErrNoPrice)
}
