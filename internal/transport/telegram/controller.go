package telegram

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/KotFed0t/trade_journal/config"
	"github.com/KotFed0t/trade_journal/internal/converter/telebotConverter"
	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/KotFed0t/trade_journal/internal/service"
	"github.com/KotFed0t/trade_journal/internal/transport/telegram/middleware"
	"github.com/KotFed0t/trade_journal/utils"
	tele "gopkg.in/telebot.v4"
)

const (
	internalErrMsg = "что-то пошло не так..."
	helpMsg        = `Команды:
/buy ТИКЕР КОЛ-ВО ЦЕНА [ГГГГ-ММ-ДД] - записать покупку
/sell ТИКЕР КОЛ-ВО ЦЕНА [ГГГГ-ММ-ДД] - записать продажу
/delete ID - удалить сделку
/holdings - открытые позиции
/valuation - стоимость портфеля
/pnl - зафиксированный результат
/report cumulative-pnl|symbol-wise-pnl|trade-history [upload] - отчет xlsx`
)

type TradeJournalService interface {
	LinkTelegramChat(ctx context.Context, chatID int64, userID string) error
	GetTelegramChatUser(ctx context.Context, chatID int64) (string, error)

	CreateTrade(ctx context.Context, userID string, in model.TradeInput) (model.TradeEntry, error)
	DeleteTrade(ctx context.Context, userID, tradeID string) error

	GetOpenHoldings(ctx context.Context, userID string) ([]model.Holding, error)
	GetPortfolioValuation(ctx context.Context, userID string) (model.PortfolioValuation, error)
	GetProfitLossSummary(ctx context.Context, userID string, dateRange model.DateRange) (model.ProfitLossSummary, error)
	GetSymbolWiseProfitLoss(ctx context.Context, userID string, dateRange model.DateRange) ([]model.SymbolProfitLoss, error)

	GenerateReport(ctx context.Context, userID string, reportType model.ReportType, dateRange model.DateRange, upload bool) (model.Report, error)
}

type Authenticator interface {
	UserID(token string) (string, error)
}

type Controller struct {
	cfg *config.Config
	svc TradeJournalService
	jwt Authenticator
	now func() time.Time
}

func NewController(cfg *config.Config, svc TradeJournalService, jwt Authenticator) *Controller {
	return &Controller{
		cfg: cfg,
		svc: svc,
		jwt: jwt,
		now: time.Now,
	}
}

// Start links the chat to the user owning the token passed as "/start <token>".
func (ctrl *Controller) Start(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	args := c.Args()
	if len(args) != 1 {
		return c.Send("Привет! Чтобы вести журнал сделок, отправьте /start <токен>")
	}

	userID, err := ctrl.jwt.UserID(args[0])
	if err != nil {
		slog.Debug("token rejected", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send("токен недействителен")
	}

	if err = ctrl.svc.LinkTelegramChat(ctx, c.Chat().ID, userID); err != nil {
		slog.Error("got error from svc.LinkTelegramChat", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	return c.Send("Чат привязан к аккаунту ✅\n\n" + helpMsg)
}

func (ctrl *Controller) Help(c tele.Context) error {
	return c.Send(helpMsg)
}

func (ctrl *Controller) Buy(c tele.Context) error {
	return ctrl.recordTrade(c, model.Buy)
}

func (ctrl *Controller) Sell(c tele.Context) error {
	return ctrl.recordTrade(c, model.Sell)
}

func (ctrl *Controller) recordTrade(c tele.Context, transactionType model.TransactionType) error {
	ctx := utils.CreateCtxWithRqID(c)

	in, err := telebotConverter.TradeInputFromArgs(c.Args(), transactionType, ctrl.now())
	if err != nil {
		return c.Send("формат: ТИКЕР КОЛ-ВО ЦЕНА [ГГГГ-ММ-ДД]")
	}

	trade, err := ctrl.svc.CreateTrade(ctx, userID(c), in)
	if err != nil {
		return ctrl.sendError(ctx, c, err)
	}

	return c.Send(telebotConverter.TradeResponse(trade))
}

func (ctrl *Controller) Delete(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	args := c.Args()
	if len(args) != 1 {
		return c.Send("формат: /delete ID")
	}

	if err := ctrl.svc.DeleteTrade(ctx, userID(c), args[0]); err != nil {
		return ctrl.sendError(ctx, c, err)
	}

	return c.Send("Сделка удалена")
}

func (ctrl *Controller) Holdings(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	holdings, err := ctrl.svc.GetOpenHoldings(ctx, userID(c))
	if err != nil {
		return ctrl.sendError(ctx, c, err)
	}

	return c.Send(telebotConverter.HoldingsResponse(holdings))
}

func (ctrl *Controller) Valuation(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	valuation, err := ctrl.svc.GetPortfolioValuation(ctx, userID(c))
	if err != nil {
		return ctrl.sendError(ctx, c, err)
	}

	return c.Send(telebotConverter.ValuationResponse(valuation))
}

func (ctrl *Controller) ProfitLoss(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	summary, err := ctrl.svc.GetProfitLossSummary(ctx, userID(c), model.DateRange{})
	if err != nil {
		return ctrl.sendError(ctx, c, err)
	}

	bySymbol, err := ctrl.svc.GetSymbolWiseProfitLoss(ctx, userID(c), model.DateRange{})
	if err != nil {
		return ctrl.sendError(ctx, c, err)
	}

	return c.Send(telebotConverter.ProfitLossResponse(summary, bySymbol))
}

// Report sends the spreadsheet as a document. Files over the telegram limit go
// through report storage and only the link is sent.
func (ctrl *Controller) Report(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	args := c.Args()
	if len(args) < 1 || len(args) > 2 || (len(args) == 2 && args[1] != "upload") {
		return c.Send("формат: /report cumulative-pnl|symbol-wise-pnl|trade-history [upload]")
	}
	reportType := model.ReportType(args[0])
	upload := len(args) == 2

	report, err := ctrl.svc.GenerateReport(ctx, userID(c), reportType, model.DateRange{}, upload)
	if err != nil {
		return ctrl.sendError(ctx, c, err)
	}

	if !upload && len(report.Content) > ctrl.cfg.Telegram.FileLimitInBytes {
		if !ctrl.cfg.GoogleDrive.Enabled {
			slog.Warn("report exceeds telegram file limit", slog.String("rqID", rqID), slog.Int("size", len(report.Content)))
			return c.Send("отчет слишком большой для отправки")
		}

		report, err = ctrl.svc.GenerateReport(ctx, userID(c), reportType, model.DateRange{}, true)
		if err != nil {
			return ctrl.sendError(ctx, c, err)
		}
	}

	if report.Link != "" {
		return c.Send("📎 Отчет: " + report.Link)
	}

	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(report.Content)),
		FileName: report.FileName,
	}
	return c.Send(doc)
}

func (ctrl *Controller) sendError(ctx context.Context, c tele.Context, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		msg := "некорректные данные:"
		for _, m := range verr.Messages() {
			msg += "\n - " + m
		}
		return c.Send(msg)
	case errors.Is(err, service.ErrInsufficientHoldings):
		return c.Send("недостаточно бумаг для продажи")
	case errors.Is(err, service.ErrNotFound):
		return c.Send("сделка не найдена")
	case errors.Is(err, service.ErrDerivedRecordInconsistency):
		return c.Send("не удалось согласованно изменить сделку, попробуйте еще раз")
	default:
		slog.Error("request failed", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}
}

func userID(c tele.Context) string {
	userID, _ := c.Get(middleware.UserIDKey).(string)
	return userID
}
