package rest

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/KotFed0t/trade_journal/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type tradeRequest struct {
	StockSymbol     string          `json:"stockSymbol" binding:"required"`
	TransactionType string          `json:"transactionType" binding:"required,oneof=Buy Sell"`
	Quantity        decimal.Decimal `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	TradeDate       string          `json:"tradeDate" binding:"required"`
	Status          string          `json:"status" binding:"omitempty,oneof=Open Closed"`
}

type dateRangeQuery struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

type reportQuery struct {
	dateRangeQuery
	ReportType string `form:"reportType" binding:"required"`
	Upload     bool   `form:"upload"`
}

var registerTagNames sync.Once

// useJSONFieldNames makes validator report fields by their json/form names.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
	})
}

// bindError turns a gin binding error into field level validation errors.
func bindError(err error) *service.ValidationError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return service.NewValidationError("body", "invalid request body")
	}

	res := &service.ValidationError{}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			res.Add(fe.Field(), fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			res.Add(fe.Field(), fmt.Sprintf("%s must be one of [%s]", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", ")))
		default:
			res.Add(fe.Field(), fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return res
}

func parseTradeDate(raw string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, model.DateLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func (r tradeRequest) toInput() (model.TradeInput, error) {
	tradeDate, ok := parseTradeDate(r.TradeDate)
	if !ok {
		return model.TradeInput{}, service.NewValidationError("tradeDate", "tradeDate must be a date (YYYY-MM-DD or RFC 3339)")
	}

	return model.TradeInput{
		StockSymbol:     r.StockSymbol,
		TransactionType: model.TransactionType(r.TransactionType),
		Quantity:        r.Quantity,
		Price:           r.Price,
		TradeDate:       tradeDate,
		Status:          model.TradeStatus(r.Status),
	}, nil
}

// toDateRange parses YYYY-MM-DD bounds; the end date covers its whole day.
func (q dateRangeQuery) toDateRange(required bool) (model.DateRange, error) {
	verr := &service.ValidationError{}
	res := model.DateRange{}

	if q.StartDate != "" {
		from, err := time.Parse(model.DateLayout, q.StartDate)
		if err != nil {
			verr.Add("startDate", "startDate must be in YYYY-MM-DD format")
		}
		res.From = from
	} else if required {
		verr.Add("startDate", "startDate is required")
	}

	if q.EndDate != "" {
		to, err := time.Parse(model.DateLayout, q.EndDate)
		if err != nil {
			verr.Add("endDate", "endDate must be in YYYY-MM-DD format")
		} else {
			res.To = to.Add(24*time.Hour - time.Nanosecond)
		}
	} else if required {
		verr.Add("endDate", "endDate is required")
	}

	if err := verr.OrNil(); err != nil {
		return model.DateRange{}, err
	}
	return res, nil
}

func bindDateRange(c *gin.Context, required bool) (model.DateRange, error) {
	q := dateRangeQuery{}
	if err := c.ShouldBindQuery(&q); err != nil {
		return model.DateRange{}, bindError(err)
	}
	return q.toDateRange(required)
}
