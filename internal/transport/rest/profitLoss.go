package rest

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) registerProfitLoss(g *gin.RouterGroup) {
	g.GET("/summary", h.profitLossSummary)
	g.GET("/symbol-summary", h.symbolSummary(false))
	g.GET("/date-filtered", h.dateFilteredProfitLoss)
	g.GET("/symbol-summary-date", h.symbolSummary(true))
	g.GET("/daily", h.dailyProfitLoss)
	g.GET("/records", h.profitLossRecords)
}

func (h *Handler) profitLossSummary(c *gin.Context) {
	dateRange, err := bindDateRange(c, false)
	if err != nil {
		ServiceError(c, err)
		return
	}

	summary, err := h.svc.GetProfitLossSummary(c.Request.Context(), userID(c), dateRange)
	if err != nil {
		ServiceError(c, err)
		return
	}

	Ok(c, summary)
}

func (h *Handler) symbolSummary(rangeRequired bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		dateRange, err := bindDateRange(c, rangeRequired)
		if err != nil {
			ServiceError(c, err)
			return
		}

		bySymbol, err := h.svc.GetSymbolWiseProfitLoss(c.Request.Context(), userID(c), dateRange)
		if err != nil {
			ServiceError(c, err)
			return
		}

		Ok(c, bySymbol)
	}
}

func (h *Handler) dateFilteredProfitLoss(c *gin.Context) {
	dateRange, err := bindDateRange(c, true)
	if err != nil {
		ServiceError(c, err)
		return
	}

	total, err := h.svc.GetTotalProfitLoss(c.Request.Context(), userID(c), dateRange)
	if err != nil {
		ServiceError(c, err)
		return
	}

	Ok(c, total)
}

func (h *Handler) dailyProfitLoss(c *gin.Context) {
	dateRange, err := bindDateRange(c, false)
	if err != nil {
		ServiceError(c, err)
		return
	}

	daily, err := h.svc.GetDailyProfitLoss(c.Request.Context(), userID(c), dateRange)
	if err != nil {
		ServiceError(c, err)
		return
	}

	Ok(c, daily)
}

func (h *Handler) profitLossRecords(c *gin.Context) {
	dateRange, err := bindDateRange(c, false)
	if err != nil {
		ServiceError(c, err)
		return
	}

	records, err := h.svc.ListProfitLossRecords(c.Request.Context(), userID(c), dateRange)
	if err != nil {
		ServiceError(c, err)
		return
	}

	Ok(c, records)
}
