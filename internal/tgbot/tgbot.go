package tgbot

import (
	"log/slog"

	"github.com/KotFed0t/trade_journal/config"
	"github.com/KotFed0t/trade_journal/internal/transport/telegram"
	customMW "github.com/KotFed0t/trade_journal/internal/transport/telegram/middleware"
	tele "gopkg.in/telebot.v4"
	"gopkg.in/telebot.v4/middleware"
)

type TGBot struct {
	bot      *tele.Bot
	ctrl     *telegram.Controller
	resolver customMW.ChatUserResolver
}

func New(cfg *config.Config, ctrl *telegram.Controller, resolver customMW.ChatUserResolver) *TGBot {
	settings := tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &tele.LongPoller{Timeout: cfg.Telegram.UpdTimeout},
	}

	b, err := tele.NewBot(settings)
	if err != nil {
		slog.Error("error while tele.NewBot", slog.String("err", err.Error()))
		panic(err)
	}

	return &TGBot{bot: b, ctrl: ctrl, resolver: resolver}
}

func (b *TGBot) Start() {
	b.bot.Use(middleware.Recover(), customMW.Logger())

	b.setupRoutes()

	go b.bot.Start()
	slog.Info("tgbot started!")
}

func (b *TGBot) Stop() {
	slog.Info("start stopping tgbot")
	b.bot.Stop()
	slog.Info("tgbot stopped")
}

func (b *TGBot) setupRoutes() {
	b.bot.Handle("/start", b.ctrl.Start)
	b.bot.Handle("/help", b.ctrl.Help)

	// только для чатов, привязанных к аккаунту
	linked := b.bot.Group()
	linked.Use(customMW.Auth(b.resolver))

	linked.Handle("/buy", b.ctrl.Buy)
	linked.Handle("/sell", b.ctrl.Sell)
	linked.Handle("/delete", b.ctrl.Delete)
	linked.Handle("/holdings", b.ctrl.Holdings)
	linked.Handle("/valuation", b.ctrl.Valuation)
	linked.Handle("/pnl", b.ctrl.ProfitLoss)
	linked.Handle("/report", b.ctrl.Report)
	linked.Handle(tele.OnText, b.ctrl.Help)
}
