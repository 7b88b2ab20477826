package rest

import (
	"strings"

	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/gin-gonic/gin"
)

func (h *Handler) registerTrades(g *gin.RouterGroup) {
	g.GET("", h.listTrades)
	g.POST("", h.createTrade)
	g.GET("/:id", h.getTrade)
	g.PUT("/:id", h.updateTrade)
	g.DELETE("/:id", h.deleteTrade)

	g.GET("/current/holdings", h.currentHoldings)
	g.GET("/current/pnl", h.currentPnL)
	g.GET("/current/invested", h.currentInvested)
	g.GET("/current/total-pnl", h.currentTotalPnL)
	g.GET("/current/total-percentage-change", h.currentPercentageChange)
	g.GET("/current/valuation", h.currentValuation)
}

func (h *Handler) listTrades(c *gin.Context) {
	dateRange, err := bindDateRange(c, false)
	if err != nil {
		ServiceError(c, err)
		return
	}

	filter := model.TradeFilter{
		StockSymbol: strings.TrimSpace(c.Query("symbol")),
		DateRange:   dateRange,
	}
	trades, err := h.svc.ListTrades(c.Request.Context(), userID(c), filter)
	if err != nil {
		ServiceError(c, err)
		return
	}

	Ok(c, trades)
}

func (h *Handler) bindTrade(c *gin.Context) (model.TradeInput, bool) {
	req := tradeRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		ServiceError(c, bindError(err))
		return model.TradeInput{}, false
	}

	in, err := req.toInput()
	if err != nil {
		ServiceError(c, err)
		return model.TradeInput{}, false
	}
	return in, true
}

func (h *Handler) createTrade(c *gin.Context) {
	in, ok := h.bindTrade(c)
	if !ok {
		return
	}

	trade, err := h.svc.CreateTrade(c.Request.Context(), userID(c), in)
	if err != nil {
		ServiceError(c, err)
		return
	}

	Created(c, trade)
}

func (h *Handler) getTrade(c *gin.Context) {
	trade, err := h.svc.GetTrade(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}

	Ok(c, trade)
}

func (h *Handler) updateTrade(c *gin.Context) {
	in, ok := h.bindTrade(c)
	if !ok {
		return
	}

	trade, err := h.svc.UpdateTrade(c.Request.Context(), userID(c), c.Param("id"), in)
	if err != nil {
		ServiceError(c, err)
		return
	}

	Ok(c, trade)
}

func (h *Handler) deleteTrade(c *gin.Context) {
	tradeID := c.Param("id")
	if err := h.svc.DeleteTrade(c.Request.Context(), userID(c), tradeID); err != nil {
		ServiceError(c, err)
		return
	}

	Ok(c, gin.H{"id": tradeID})
}

func (h *Handler) currentHoldings(c *gin.Context) {
	holdings, err := h.svc.GetOpenHoldings(c.Request.Context(), userID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}

	Ok(c, holdings)
}

func (h *Handler) valuation(c *gin.Context) (model.PortfolioValuation, bool) {
	v, err := h.svc.GetPortfolioValuation(c.Request.Context(), userID(c))
	if err != nil {
		ServiceError(c, err)
		return model.PortfolioValuation{}, false
	}
	return v, true
}

func (h *Handler) currentPnL(c *gin.Context) {
	if v, ok := h.valuation(c); ok {
		Ok(c, v.Holdings)
	}
}

func (h *Handler) currentInvested(c *gin.Context) {
	if v, ok := h.valuation(c); ok {
		Ok(c, gin.H{"totalInvested": v.TotalInvested})
	}
}

func (h *Handler) currentTotalPnL(c *gin.Context) {
	if v, ok := h.valuation(c); ok {
		Ok(c, gin.H{"totalPnL": v.TotalPnL})
	}
}

func (h *Handler) currentPercentageChange(c *gin.Context) {
	if v, ok := h.valuation(c); ok {
		Ok(c, gin.H{
			"totalInvestedAmount": v.TotalInvested,
			"currentMarketValue":  v.CurrentMarketValue,
			"percentageChange":    v.PercentageChange,
		})
	}
}

func (h *Handler) currentValuation(c *gin.Context) {
	if v, ok := h.valuation(c); ok {
		Ok(c, v)
	}
}
