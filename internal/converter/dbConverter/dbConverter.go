package dbConverter

import (
	"github.com/KotFed0t/trade_journal/internal/model"
	"github.com/KotFed0t/trade_journal/internal/model/dbModel"
)

func ConvertTrade(dbTrade dbModel.TradeEntry) model.TradeEntry {
	return model.TradeEntry{
		ID:              dbTrade.ID,
		UserID:          dbTrade.UserID,
		StockSymbol:     dbTrade.StockSymbol,
		TransactionType: model.TransactionType(dbTrade.TransactionType),
		Quantity:        dbTrade.Quantity,
		Price:           dbTrade.Price,
		TradeDate:       dbTrade.TradeDate,
		Status:          model.TradeStatus(dbTrade.Status),
		CreatedAt:       dbTrade.CreatedAt,
		UpdatedAt:       dbTrade.UpdatedAt,
	}
}

func ConvertTradeToDB(trade model.TradeEntry) dbModel.TradeEntry {
	return dbModel.TradeEntry{
		ID:              trade.ID,
		UserID:          trade.UserID,
		StockSymbol:     trade.StockSymbol,
		TransactionType: string(trade.TransactionType),
		Quantity:        trade.Quantity,
		Price:           trade.Price,
		TradeDate:       trade.TradeDate,
		Status:          string(trade.Status),
		CreatedAt:       trade.CreatedAt,
		UpdatedAt:       trade.UpdatedAt,
	}
}

func ConvertProfitLoss(dbPL dbModel.ProfitLoss) model.ProfitLoss {
	return model.ProfitLoss{
		ID:                   dbPL.ID,
		UserID:               dbPL.UserID,
		StockSymbol:          dbPL.StockSymbol,
		SellTradeID:          dbPL.SellTradeID,
		SellDate:             dbPL.SellDate,
		SellPrice:            dbPL.SellPrice,
		SellQuantity:         dbPL.SellQuantity,
		AveragePurchasePrice: dbPL.AveragePurchasePrice,
		ProfitOrLoss:         dbPL.ProfitOrLoss,
		CreatedAt:            dbPL.CreatedAt,
	}
}

func ConvertProfitLossToDB(pl model.ProfitLoss) dbModel.ProfitLoss {
	return dbModel.ProfitLoss{
		ID:                   pl.ID,
		UserID:               pl.UserID,
		StockSymbol:          pl.StockSymbol,
		SellTradeID:          pl.SellTradeID,
		SellDate:             pl.SellDate,
		SellPrice:            pl.SellPrice,
		SellQuantity:         pl.SellQuantity,
		AveragePurchasePrice: pl.AveragePurchasePrice,
		ProfitOrLoss:         pl.ProfitOrLoss,
		CreatedAt:            pl.CreatedAt,
	}
}
