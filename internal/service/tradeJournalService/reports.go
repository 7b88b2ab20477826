package tradeJournalService

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/trade_journal/internal/calculator"
	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/KotFed0t/trade_journal/internal/service"
	"github.com/KotFed0t/trade_journal/utils"
)

// GenerateReport builds a spreadsheet of the requested type; with upload set it is
// also stored remotely and Report.Link is filled.
func (s *TradeJournalService) GenerateReport(ctx context.Context, userID string, reportType model.ReportType, dateRange model.DateRange, upload bool) (report model.Report, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradeJournalService.GenerateReport"

	slog.Debug("GenerateReport start", slog.String("rqID", rqID), slog.String("op", op), slog.String("type", string(reportType)))
	defer func() {
		slog.Debug("GenerateReport finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	if !reportType.Valid() {
		return model.Report{}, service.NewValidationError("reportType", "invalid report type")
	}
	if err = validateDateRange(dateRange); err != nil {
		return model.Report{}, err
	}
	if upload && s.reportStorage == nil {
		return model.Report{}, service.NewValidationError("upload", "report upload is not available")
	}

	data := model.ReportData{Type: reportType, DateRange: dateRange}
	switch reportType {
	case model.ReportCumulativePnL, model.ReportSymbolWisePnL:
		records, err := s.ListProfitLossRecords(ctx, userID, dateRange)
		if err != nil {
			return model.Report{}, err
		}
		data.Daily = calculator.ProfitLossByDay(records)
		data.BySymbol = calculator.ProfitLossBySymbol(records)
	case model.ReportTradeHistory:
		data.Trades, err = s.ListTrades(ctx, userID, model.TradeFilter{DateRange: dateRange})
		if err != nil {
			return model.Report{}, err
		}
	}

	content, ext, err := s.reports.Generate(ctx, data)
	if err != nil {
		slog.Error("got error from reports.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Report{}, fmt.Errorf("%w: %v", service.ErrComputation, err)
	}

	report = model.Report{
		FileName: fmt.Sprintf("%s_%s%s", reportType, timeNow().UTC().Format("20060102_150405"), ext),
		Content:  content,
	}

	if upload {
		report.Link, err = s.reportStorage.UploadFile(ctx, bytes.NewReader(content), report.FileName)
		if err != nil {
			slog.Error("got error from reportStorage.UploadFile", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return model.Report{}, fmt.Errorf("%w: %v", service.ErrPersistence, err)
		}
	}

	return report, nil
}

// DeleteOldReports drops expired uploads from report storage.
func (s *TradeJournalService) DeleteOldReports(ctx context.Context) error {
	if s.reportStorage == nil {
		return nil
	}

	deleted, err := s.reportStorage.DeleteOldFiles(ctx)
	if err != nil {
		return err
	}

	slog.Info("old reports deleted", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.Int("deleted", deleted))
	return nil
}
