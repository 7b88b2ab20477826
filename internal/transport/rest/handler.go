package rest

import (
	"context"
	"net/http"

	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/gin-gonic/gin"
)

type TradeJournalService interface {
	CreateTrade(ctx context.Context, userID string, in model.TradeInput) (model.TradeEntry, error)
	UpdateTrade(ctx context.Context, userID, tradeID string, in model.TradeInput) (model.TradeEntry, error)
	DeleteTrade(ctx context.Context, userID, tradeID string) error
	GetTrade(ctx context.Context, userID, tradeID string) (model.TradeEntry, error)
	ListTrades(ctx context.Context, userID string, filter model.TradeFilter) ([]model.TradeEntry, error)

	GetOpenHoldings(ctx context.Context, userID string) ([]model.Holding, error)
	GetPortfolioValuation(ctx context.Context, userID string) (model.PortfolioValuation, error)

	GetProfitLossSummary(ctx context.Context, userID string, dateRange model.DateRange) (model.ProfitLossSummary, error)
	GetTotalProfitLoss(ctx context.Context, userID string, dateRange model.DateRange) (model.ProfitLossTotal, error)
	GetSymbolWiseProfitLoss(ctx context.Context, userID string, dateRange model.DateRange) ([]model.SymbolProfitLoss, error)
	GetDailyProfitLoss(ctx context.Context, userID string, dateRange model.DateRange) ([]model.DailyProfitLoss, error)
	ListProfitLossRecords(ctx context.Context, userID string, dateRange model.DateRange) ([]model.ProfitLoss, error)

	GenerateReport(ctx context.Context, userID string, reportType model.ReportType, dateRange model.DateRange, upload bool) (model.Report, error)
}

type Handler struct {
	svc  TradeJournalService
	auth Authenticator
}

func NewHandler(svc TradeJournalService, auth Authenticator) *Handler {
	return &Handler{svc: svc, auth: auth}
}

// NewRouter wires middleware and every route; everything under /api requires a bearer token.
func NewRouter(h *Handler) *gin.Engine {
	useJSONFieldNames()

	r := gin.New()
	r.Use(RequestID(), Logger(), Recover())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", Auth(h.auth))
	h.registerTrades(api.Group("/trades"))
	h.registerProfitLoss(api.Group("/profitloss"))
	h.registerReports(api.Group("/reports"))

	return r
}
