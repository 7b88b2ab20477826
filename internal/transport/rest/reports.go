package rest

import (
	"fmt"
	"net/http"

	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) registerReports(g *gin.RouterGroup) {
	g.GET("/xlsx", h.report)
	// old path of the same workbook
	g.GET("/csv", h.report)
}

func (h *Handler) report(c *gin.Context) {
	q := reportQuery{}
	if err := c.ShouldBindQuery(&q); err != nil {
		ServiceError(c, bindError(err))
		return
	}

	dateRange, err := q.toDateRange(false)
	if err != nil {
		ServiceError(c, err)
		return
	}

	report, err := h.svc.GenerateReport(c.Request.Context(), userID(c), model.ReportType(q.ReportType), dateRange, q.Upload)
	if err != nil {
		ServiceError(c, err)
		return
	}

	if q.Upload {
		Ok(c, gin.H{"fileName": report.FileName, "link": report.Link})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName))
	c.Data(http.StatusOK, xlsxContentType, report.Content)
}
