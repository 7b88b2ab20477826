package xslsxGenerator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/KotFed0t/trade_journal/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

var ErrUnknownReportType = errors.New("unknown report type")

type XSLSXGenerator struct{}

func New() *XSLSXGenerator {
	return &XSLSXGenerator{}
}

func (g *XSLSXGenerator) Generate(ctx context.Context, data model.ReportData) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XSLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op), slog.String("type", string(data.Type)))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	sheetName := sheetTitle(data.Type)
	if sheetName == "" {
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownReportType, data.Type)
	}

	if err = f.SetSheetName(defaultSheet, sheetName); err != nil {
		slog.Error("got error while renaming sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	w, err := newSheetWriter(f, sheetName)
	if err != nil {
		return nil, "", err
	}

	w.title(periodTitle(sheetName, data.DateRange))

	switch data.Type {
	case model.ReportCumulativePnL:
		err = w.cumulative(data.Daily)
	case model.ReportSymbolWisePnL:
		err = w.symbolWise(data.BySymbol)
	case model.ReportTradeHistory:
		err = w.tradeHistory(data.Trades)
	}
	if err != nil {
		slog.Error("got error while filling sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while Saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func sheetTitle(t model.ReportType) string {
	switch t {
	case model.ReportCumulativePnL:
		return "Cumulative PnL"
	case model.ReportSymbolWisePnL:
		return "Symbol-wise PnL"
	case model.ReportTradeHistory:
		return "Trade History"
	}
	return ""
}

func periodTitle(name string, r model.DateRange) string {
	from, to := "beginning", "today"
	if !r.From.IsZero() {
		from = r.From.Format(model.DateLayout)
	}
	if !r.To.IsZero() {
		to = r.To.Format(model.DateLayout)
	}
	return fmt.Sprintf("%s report (%s - %s)", name, from, to)
}

type sheetWriter struct {
	f           *excelize.File
	sheet       string
	row         int
	headerStyle int
	totalStyle  int
}

func newSheetWriter(f *excelize.File, sheet string) (*sheetWriter, error) {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"#cfe2f3"},
		},
	})
	if err != nil {
		return nil, err
	}

	totalStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"#d9ead3"},
		},
	})
	if err != nil {
		return nil, err
	}

	return &sheetWriter{f: f, sheet: sheet, headerStyle: headerStyle, totalStyle: totalStyle}, nil
}

func (w *sheetWriter) cell(col string) string {
	return fmt.Sprintf("%s%d", col, w.row)
}

func (w *sheetWriter) title(text string) {
	w.row++
	_ = w.f.SetCellStr(w.sheet, w.cell("A"), text)
	_ = w.f.SetCellStyle(w.sheet, w.cell("A"), w.cell("A"), w.totalStyle)
	w.row++
}

func (w *sheetWriter) header(columns ...string) error {
	w.row++
	first := w.cell("A")
	if err := w.f.SetSheetRow(w.sheet, first, &columns); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(columns), w.row)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(w.sheet, first, last, w.headerStyle)
}

func (w *sheetWriter) values(values ...any) error {
	w.row++
	return w.f.SetSheetRow(w.sheet, w.cell("A"), &values)
}

func (w *sheetWriter) total(col string, label string, value decimal.Decimal) error {
	w.row++
	_ = w.f.SetCellStr(w.sheet, w.cell("A"), label)
	if err := w.f.SetCellFloat(w.sheet, w.cell(col), value.InexactFloat64(), -1, 64); err != nil {
		return err
	}
	return w.f.SetCellStyle(w.sheet, w.cell("A"), w.cell(col), w.totalStyle)
}

func (w *sheetWriter) cumulative(daily []model.DailyProfitLoss) error {
	if err := w.header("Date", "Profit/Loss", "Cumulative"); err != nil {
		return err
	}

	running := decimal.Zero
	for _, day := range daily {
		running = running.Add(day.TotalProfitOrLoss)
		if err := w.values(day.Date, day.TotalProfitOrLoss.InexactFloat64(), running.InexactFloat64()); err != nil {
			return err
		}
	}

	return w.total("B", "Total", running)
}

func (w *sheetWriter) symbolWise(bySymbol []model.SymbolProfitLoss) error {
	if err := w.header("Stock Symbol", "Profit/Loss"); err != nil {
		return err
	}

	total := decimal.Zero
	for _, s := range bySymbol {
		total = total.Add(s.TotalProfitOrLoss)
		if err := w.values(s.StockSymbol, s.TotalProfitOrLoss.InexactFloat64()); err != nil {
			return err
		}
	}

	return w.total("B", "Total", total)
}

func (w *sheetWriter) tradeHistory(trades []model.TradeEntry) error {
	if err := w.header("Date", "Stock Symbol", "Type", "Quantity", "Price", "Amount", "Status"); err != nil {
		return err
	}

	// buys count as money spent, sells as money received
	net := decimal.Zero
	for _, t := range trades {
		amount := t.Quantity.Mul(t.Price)
		if t.TransactionType == model.Buy {
			net = net.Sub(amount)
		} else {
			net = net.Add(amount)
		}
		err := w.values(
			t.TradeDate.Format(model.DateLayout),
			t.StockSymbol,
			string(t.TransactionType),
			t.Quantity.InexactFloat64(),
			t.Price.InexactFloat64(),
			amount.InexactFloat64(),
			string(t.Status),
		)
		if err != nil {
			return err
		}
	}

	return w.total("F", "Net cash flow", net)
}
