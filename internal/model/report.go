package model

type ReportType string

const (
	ReportCumulativePnL ReportType = "cumulative-pnl"
	ReportSymbolWisePnL ReportType = "symbol-wise-pnl"
	ReportTradeHistory  ReportType = "trade-history"
)

func (t ReportType) Valid() bool {
	switch t {
	case ReportCumulativePnL, ReportSymbolWisePnL, ReportTradeHistory:
		return true
	}
	return false
}

// ReportData holds whatever the requested report type needs; unused slices stay nil.
type ReportData struct {
	Type      ReportType
	DateRange DateRange
	Daily     []DailyProfitLoss
	BySymbol  []SymbolProfitLoss
	Trades    []TradeEntry
}

type Report struct {
	FileName string
	Content  []byte
	Link     string
}
