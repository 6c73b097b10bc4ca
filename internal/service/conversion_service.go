package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/repository"
)

// ConversionRequest moves money out of one fund and into another.
// The two legs have independent amounts and fee percents but share one trade time.
type ConversionRequest struct {
	AccountID      string
	FromFundCode   string
	FromAmount     float64
	FromFeePercent *float64
	ToFundCode     string
	ToAmount       float64
	ToFeePercent   *float64
	TradeDate      time.Time
	AfterCutoff    bool
	Remark         string
}

// ConversionService records fund-to-fund conversions as a sell leg and a buy leg.
type ConversionService struct {
	db             *sql.DB
	conversionRepo *repository.ConversionRepository
	transactions   *TransactionService
	log            *zap.Logger
}

// NewConversionService creates a new ConversionService. Legs are created through transactions.
func NewConversionService(
	db *sql.DB,
	conversionRepo *repository.ConversionRepository,
	transactions *TransactionService,
	log *zap.Logger,
) *ConversionService {
	return &ConversionService{
		db:             db,
		conversionRepo: conversionRepo,
		transactions:   transactions,
		log:            log,
	}
}

// CreateConversion stores the conversion and both legs in one database transaction.
// If either leg is rejected nothing is stored.
func (s *ConversionService) CreateConversion(ctx context.Context, req ConversionRequest) (model.ConversionResponse, error) {
	fromCode := strings.TrimSpace(req.FromFundCode)
	toCode := strings.TrimSpace(req.ToFundCode)
	if fromCode == toCode {
		return model.ConversionResponse{}, fmt.Errorf("%w: %s", apperrors.ErrSameFundConversion, fromCode)
	}

	tradeTime := TradeTimeFor(req.TradeDate, req.AfterCutoff)

	sellPlan, err := s.transactions.planTrade(ctx, TradeRequest{
		AccountID:   req.AccountID,
		FundCode:    fromCode,
		TradeType:   model.TradeTypeSell,
		Amount:      req.FromAmount,
		FeePercent:  req.FromFeePercent,
		TradeDate:   req.TradeDate,
		AfterCutoff: req.AfterCutoff,
		Remark:      req.Remark,
	}, tradeTime)
	if err != nil {
		return model.ConversionResponse{}, fmt.Errorf("sell leg: %w", err)
	}

	buyPlan, err := s.transactions.planTrade(ctx, TradeRequest{
		AccountID:   req.AccountID,
		FundCode:    toCode,
		TradeType:   model.TradeTypeBuy,
		Amount:      req.ToAmount,
		FeePercent:  req.ToFeePercent,
		TradeDate:   req.TradeDate,
		AfterCutoff: req.AfterCutoff,
		Remark:      req.Remark,
	}, tradeTime)
	if err != nil {
		return model.ConversionResponse{}, fmt.Errorf("buy leg: %w", err)
	}

	resp := model.ConversionResponse{
		Conversion: model.Conversion{
			ID:           uuid.New().String(),
			AccountID:    req.AccountID,
			FromFundCode: fromCode,
			ToFundCode:   toCode,
			TradeTime:    tradeTime,
			Remark:       req.Remark,
			CreatedAt:    s.transactions.now(),
		},
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.conversionRepo.WithTx(tx).InsertConversion(ctx, &resp.Conversion); err != nil {
			return err
		}
		conversionID := resp.ID

		sell, err := s.transactions.commitTrade(ctx, tx, sellPlan, &conversionID)
		if err != nil {
			return fmt.Errorf("sell leg: %w", err)
		}
		buy, err := s.transactions.commitTrade(ctx, tx, buyPlan, &conversionID)
		if err != nil {
			return fmt.Errorf("buy leg: %w", err)
		}
		resp.SellTransaction = sell
		resp.BuyTransaction = buy
		return nil
	})
	if err != nil {
		return model.ConversionResponse{}, err
	}

	s.transactions.metrics.TradeCreated(string(resp.SellTransaction.TradeType), string(resp.SellTransaction.Status))
	s.transactions.metrics.TradeCreated(string(resp.BuyTransaction.TradeType), string(resp.BuyTransaction.Status))
	s.log.Info("conversion created",
		zap.String("conversion_id", resp.ID),
		zap.String("account_id", resp.AccountID),
		zap.String("from_fund_code", fromCode),
		zap.String("to_fund_code", toCode),
		zap.String("sell_status", string(resp.SellTransaction.Status)),
		zap.String("buy_status", string(resp.BuyTransaction.Status)),
	)
	return resp, nil
}

// ListConversions returns an account's conversions with their legs, newest first.
// A conversion without exactly one sell and one buy leg fails with ErrDataIntegrity.
func (s *ConversionService) ListConversions(ctx context.Context, accountID string) ([]model.ConversionResponse, error) {
	if _, err := s.transactions.accountRepo.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	conversions, err := s.conversionRepo.GetConversions(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(conversions) == 0 {
		return []model.ConversionResponse{}, nil
	}

	ids := make([]string, len(conversions))
	for i, c := range conversions {
		ids[i] = c.ID
	}
	legs, err := s.transactions.transactionRepo.GetTransactionsByConversion(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]model.ConversionResponse, 0, len(conversions))
	for _, c := range conversions {
		sell, buy, err := splitLegs(c.ID, legs[c.ID])
		if err != nil {
			return nil, err
		}
		result = append(result, model.ConversionResponse{
			Conversion:      c,
			SellTransaction: sell,
			BuyTransaction:  buy,
		})
	}
	return result, nil
}

func splitLegs(conversionID string, legs []model.Transaction) (sell, buy model.Transaction, err error) {
	var sells, buys int
	for _, t := range legs {
		switch t.TradeType {
		case model.TradeTypeSell:
			sell = t
			sells++
		case model.TradeTypeBuy:
			buy = t
			buys++
		}
	}
	if sells != 1 || buys != 1 {
		return model.Transaction{}, model.Transaction{}, fmt.Errorf("%w: conversion %s has %d sell and %d buy legs",
			apperrors.ErrDataIntegrity, conversionID, sells, buys)
	}
	return sell, buy, nil
}
