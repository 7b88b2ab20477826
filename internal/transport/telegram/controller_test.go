package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KotFed0t/trade_journal/config"
	"github.com/KotFed0t/trade_journal/data/repository/memory"
	"github.com/KotFed0t/trade_journal/internal/reportGenerator/xslsxGenerator"
	"github.com/KotFed0t/trade_journal/internal/service/tradeJournalService"
	"github.com/KotFed0t/trade_journal/internal/transport/telegram/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

type fakeContext struct {
	tele.Context
	chatID int64
	args   []string
	store  map[string]any
	sent   []any
}

func newFakeContext(chatID int64, args ...string) *fakeContext {
	return &fakeContext{chatID: chatID, args: args, store: map[string]any{}}
}

func (c *fakeContext) Args() []string        { return c.args }
func (c *fakeContext) Chat() *tele.Chat      { return &tele.Chat{ID: c.chatID} }
func (c *fakeContext) Get(key string) any    { return c.store[key] }
func (c *fakeContext) Set(key string, v any) { c.store[key] = v }

func (c *fakeContext) Send(what any, _ ...any) error {
	c.sent = append(c.sent, what)
	return nil
}

func (c *fakeContext) lastText(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, c.sent)
	text, ok := c.sent[len(c.sent)-1].(string)
	require.True(t, ok, "last message is not text")
	return text
}

type stubJWT map[string]string

func (a stubJWT) UserID(token string) (string, error) {
	userID, ok := a[token]
	if !ok {
		return "", errors.New("unknown token")
	}
	return userID, nil
}

type stubPrices map[string]decimal.Decimal

func (p stubPrices) GetPrice(_ context.Context, symbol string) (decimal.Decimal, error) {
	return p[symbol], nil
}

func newTestController(t *testing.T) (*Controller, *tradeJournalService.TradeJournalService) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Prices.LookupTimeout = time.Second
	cfg.Telegram.FileLimitInBytes = 50 << 20

	svc := tradeJournalService.New(cfg, memory.New(), stubPrices{"AAPL": decimal.NewFromInt(120)}, xslsxGenerator.New())
	ctrl := NewController(cfg, svc, stubJWT{"good": "alice"})
	ctrl.now = func() time.Time { return time.Date(2024, 11, 5, 10, 0, 0, 0, time.UTC) }
	return ctrl, svc
}

// authed runs handler behind the auth middleware like the bot does.
func authed(svc middleware.ChatUserResolver, handler tele.HandlerFunc) tele.HandlerFunc {
	return middleware.Auth(svc)(handler)
}

func TestStartLinksChat(t *testing.T) {
	ctrl, svc := newTestController(t)

	c := newFakeContext(42, "bad")
	require.NoError(t, ctrl.Start(c))
	assert.Equal(t, "токен недействителен", c.lastText(t))

	c = newFakeContext(42, "good")
	require.NoError(t, ctrl.Start(c))
	assert.Contains(t, c.lastText(t), "Чат привязан")

	userID, err := svc.GetTelegramChatUser(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "alice", userID)
}

func TestUnlinkedChatIsRejected(t *testing.T) {
	ctrl, svc := newTestController(t)

	c := newFakeContext(7)
	require.NoError(t, authed(svc, ctrl.Holdings)(c))

	assert.Contains(t, c.lastText(t), "/start")
}

func TestTradeCommands(t *testing.T) {
	ctrl, svc := newTestController(t)
	require.NoError(t, svc.LinkTelegramChat(context.Background(), 42, "alice"))

	c := newFakeContext(42, "aapl", "10", "100")
	require.NoError(t, authed(svc, ctrl.Buy)(c))
	assert.Contains(t, c.lastText(t), "AAPL: 10 шт. по 100.00")
	assert.Contains(t, c.lastText(t), "2024-11-05")

	c = newFakeContext(42, "AAPL", "11", "150")
	require.NoError(t, authed(svc, ctrl.Sell)(c))
	assert.Equal(t, "недостаточно бумаг для продажи", c.lastText(t))

	c = newFakeContext(42, "AAPL", "4", "150")
	require.NoError(t, authed(svc, ctrl.Sell)(c))
	assert.Contains(t, c.lastText(t), "Продажа")

	c = newFakeContext(42, "AAPL", "0", "150")
	require.NoError(t, authed(svc, ctrl.Buy)(c))
	assert.Contains(t, c.lastText(t), "quantity must be a positive number")

	c = newFakeContext(42, "AAPL")
	require.NoError(t, authed(svc, ctrl.Buy)(c))
	assert.Contains(t, c.lastText(t), "формат")

	c = newFakeContext(42)
	require.NoError(t, authed(svc, ctrl.Holdings)(c))
	assert.Contains(t, c.lastText(t), "6 шт.")

	c = newFakeContext(42)
	require.NoError(t, authed(svc, ctrl.ProfitLoss)(c))
	assert.Contains(t, c.lastText(t), "Итого: 200.00")

	c = newFakeContext(42)
	require.NoError(t, authed(svc, ctrl.Valuation)(c))
	assert.Contains(t, c.lastText(t), "Стоимость: 720.00")

	c = newFakeContext(42, "missing-id")
	require.NoError(t, authed(svc, ctrl.Delete)(c))
	assert.Equal(t, "сделка не найдена", c.lastText(t))
}

func TestReportCommand(t *testing.T) {
	ctrl, svc := newTestController(t)
	require.NoError(t, svc.LinkTelegramChat(context.Background(), 42, "alice"))

	c := newFakeContext(42, "trade-history")
	require.NoError(t, authed(svc, ctrl.Report)(c))
	require.Len(t, c.sent, 1)
	doc, ok := c.sent[0].(*tele.Document)
	require.True(t, ok)
	assert.Contains(t, doc.FileName, "trade-history_")

	c = newFakeContext(42, "weekly")
	require.NoError(t, authed(svc, ctrl.Report)(c))
	assert.Contains(t, c.lastText(t), "invalid report type")

	// uploads need report storage
	c = newFakeContext(42, "trade-history", "upload")
	require.NoError(t, authed(svc, ctrl.Report)(c))
	assert.Contains(t, c.lastText(t), "некорректные данные")

	ctrl.cfg.Telegram.FileLimitInBytes = 10
	c = newFakeContext(42, "trade-history")
	require.NoError(t, authed(svc, ctrl.Report)(c))
	assert.Equal(t, "отчет слишком большой для отправки", c.lastText(t))
}
