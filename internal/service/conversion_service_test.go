package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/repository"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/service"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/testutil"
)

// TestConversionService_CreateConversion tests fund-to-fund conversions.
//
// WHY: A conversion is only meaningful as a pair. Storing the header or one leg
// without the other corrupts both holdings.
func TestConversionService_CreateConversion(t *testing.T) {
	ctx := context.Background()

	t.Run("both legs confirm same day and share the trade time", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		account := testutil.NewAccount().WithDefaultBuyFee(0.1).Build(t, db)
		from := testutil.NewHolding(account.ID, "161725").WithBalances(1000, 800).Build(t, db)
		funds := testutil.NewMockFundData().
			WithNav("161725", monday, 1.25).
			WithNav("000001", monday, 2)
		svc := testutil.NewTestConversionService(t, db, testutil.TestDeps{Funds: funds})

		// Execute
		conv, err := svc.CreateConversion(ctx, service.ConversionRequest{
			AccountID:    account.ID,
			FromFundCode: "161725",
			FromAmount:   500,
			ToFundCode:   "000001",
			ToAmount:     500,
			TradeDate:    monday,
			Remark:       "rebalance",
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, model.TradeTypeSell, conv.SellTransaction.TradeType)
		assert.Equal(t, model.TradeTypeBuy, conv.BuyTransaction.TradeType)
		assert.Equal(t, conv.ID, *conv.SellTransaction.ConversionID)
		assert.Equal(t, conv.ID, *conv.BuyTransaction.ConversionID)
		assert.True(t, conv.TradeTime.Equal(conv.SellTransaction.TradeTime))
		assert.True(t, conv.TradeTime.Equal(conv.BuyTransaction.TradeTime))
		assert.Equal(t, 0.0, conv.SellTransaction.FeePercent)
		assert.Equal(t, 0.1, conv.BuyTransaction.FeePercent)
		assert.InDelta(t, 400, conv.SellTransaction.Shares, 1e-9)

		holdings := repository.NewHoldingRepository(db)
		h := getHolding(t, ctx, holdings, from.ID)
		assert.InDelta(t, 500, h.TotalAmount, 1e-9)
		assert.InDelta(t, 400, h.TotalShares, 1e-9)
		to, err := holdings.GetHoldingByFund(ctx, account.ID, "000001")
		require.NoError(t, err)
		assert.InDelta(t, 500, to.TotalAmount, 1e-9)
		assert.InDelta(t, (500-0.5)/2, to.TotalShares, 1e-9)
	})

	t.Run("insufficient sell leg stores nothing", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		account := testutil.NewAccount().Build(t, db)
		from := testutil.NewHolding(account.ID, "161725").WithBalances(1000, 800).Build(t, db)
		funds := testutil.NewMockFundData().
			WithNav("161725", monday, 1.25).
			WithNav("000001", monday, 2)
		svc := testutil.NewTestConversionService(t, db, testutil.TestDeps{Funds: funds})

		// Execute
		_, err := svc.CreateConversion(ctx, service.ConversionRequest{
			AccountID:    account.ID,
			FromFundCode: "161725",
			FromAmount:   1200,
			ToFundCode:   "000001",
			ToAmount:     1200,
			TradeDate:    monday,
		})

		// Assert
		require.ErrorIs(t, err, apperrors.ErrInsufficientHolding)
		testutil.AssertRowCount(t, db, "fund_conversion", 0)
		testutil.AssertRowCount(t, db, "fund_transaction", 0)
		testutil.AssertRowCount(t, db, "holding", 1)
		h := getHolding(t, ctx, repository.NewHoldingRepository(db), from.ID)
		assert.Equal(t, 1000.0, h.TotalAmount)
		assert.Equal(t, 800.0, h.TotalShares)
	})

	t.Run("failing buy leg rolls back the sell", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		account := testutil.NewAccount().Build(t, db)
		from := testutil.NewHolding(account.ID, "161725").WithBalances(1000, 800).Build(t, db)
		funds := testutil.NewMockFundData().WithNav("161725", monday, 1.25)
		svc := testutil.NewTestConversionService(t, db, testutil.TestDeps{Funds: funds})

		_, err := svc.CreateConversion(ctx, service.ConversionRequest{
			AccountID:    account.ID,
			FromFundCode: "161725",
			FromAmount:   500,
			ToFundCode:   "000001",
			ToAmount:     500,
			TradeDate:    monday,
		})

		require.ErrorIs(t, err, apperrors.ErrInvalidNav)
		testutil.AssertRowCount(t, db, "fund_conversion", 0)
		testutil.AssertRowCount(t, db, "fund_transaction", 0)
		h := getHolding(t, ctx, repository.NewHoldingRepository(db), from.ID)
		assert.Equal(t, 1000.0, h.TotalAmount)
	})

	t.Run("same fund on both sides is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		account := testutil.NewAccount().Build(t, db)
		svc := testutil.NewTestConversionService(t, db, testutil.TestDeps{})

		_, err := svc.CreateConversion(ctx, service.ConversionRequest{
			AccountID:    account.ID,
			FromFundCode: "161725",
			FromAmount:   1,
			ToFundCode:   "161725",
			ToAmount:     1,
			TradeDate:    monday,
		})

		assert.ErrorIs(t, err, apperrors.ErrSameFundConversion)
	})
}

// TestConversionService_ListConversions tests reading conversions back with their legs.
func TestConversionService_ListConversions(t *testing.T) {
	ctx := context.Background()

	t.Run("returns both legs", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		account := testutil.NewAccount().Build(t, db)
		conv := testutil.CreateConversionRow(t, db, account.ID, "161725", "000001")
		sell := testutil.NewTransaction(account.ID, "161725").Sell(100).WithConversion(conv.ID).Build(t, db)
		buy := testutil.NewTransaction(account.ID, "000001").Buy(100).WithConversion(conv.ID).Build(t, db)
		svc := testutil.NewTestConversionService(t, db, testutil.TestDeps{})

		list, err := svc.ListConversions(ctx, account.ID)

		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, sell.ID, list[0].SellTransaction.ID)
		assert.Equal(t, buy.ID, list[0].BuyTransaction.ID)
	})

	t.Run("missing leg is a data integrity error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		account := testutil.NewAccount().Build(t, db)
		conv := testutil.CreateConversionRow(t, db, account.ID, "161725", "000001")
		testutil.NewTransaction(account.ID, "161725").Sell(100).WithConversion(conv.ID).Build(t, db)
		svc := testutil.NewTestConversionService(t, db, testutil.TestDeps{})

		_, err := svc.ListConversions(ctx, account.ID)

		assert.ErrorIs(t, err, apperrors.ErrDataIntegrity)
	})

	t.Run("empty account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		account := testutil.NewAccount().Build(t, db)
		svc := testutil.NewTestConversionService(t, db, testutil.TestDeps{})

		list, err := svc.ListConversions(ctx, account.ID)

		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
