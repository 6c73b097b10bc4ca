package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/testutil"
)

// TestFundService_ResolveNavByDate tests the local-first NAV lookup.
//
// WHY: Settlement prices come from here. Each fetched NAV is stored so later
// lookups for the same date do not depend on the provider.
func TestFundService_ResolveNavByDate(t *testing.T) {
	ctx := context.Background()

	t.Run("stored nav is used without calling the provider", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.CreateFundNav(t, db, "161725", monday, 1.25)
		client := testutil.NewMockMarketClient()
		svc := testutil.NewTestFundService(t, db, client)

		nav, err := svc.ResolveNavByDate(ctx, "161725", monday)

		require.NoError(t, err)
		assert.Equal(t, 1.25, nav)
		assert.Equal(t, 0, client.Calls())
	})

	t.Run("fetched nav is stored", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockMarketClient().WithNav("161725", monday, 1.3)
		svc := testutil.NewTestFundService(t, db, client)

		nav, err := svc.ResolveNavByDate(ctx, "161725", monday)
		require.NoError(t, err)
		assert.Equal(t, 1.3, nav)

		again, err := svc.ResolveNavByDate(ctx, "161725", monday)
		require.NoError(t, err)
		assert.Equal(t, 1.3, again)
		assert.Equal(t, 1, client.Calls())
		testutil.AssertRowCount(t, db, "fund_nav", 1)
	})

	t.Run("unknown fund is invalid nav", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db, testutil.NewMockMarketClient().WithError(apperrors.ErrFundNotFound))

		_, err := svc.ResolveNavByDate(ctx, "999999", monday)

		assert.ErrorIs(t, err, apperrors.ErrInvalidNav)
		assert.ErrorIs(t, err, apperrors.ErrFundNotFound)
	})
}

// TestFundService_LatestNav tests the provider-first latest NAV with local fallback.
func TestFundService_LatestNav(t *testing.T) {
	ctx := context.Background()

	t.Run("provider value is stored", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		nav := 1.11
		client := testutil.NewMockMarketClient().WithEstimate(model.FundEstimate{FundCode: "161725", Nav: &nav, NavDate: "2024-10-18"})
		svc := testutil.NewTestFundService(t, db, client)

		latest, err := svc.LatestNav(ctx, "161725")

		require.NoError(t, err)
		assert.Equal(t, 1.11, latest.Nav)
		assert.True(t, friday.Equal(latest.Date))
		testutil.AssertRowCount(t, db, "fund_nav", 1)
	})

	t.Run("falls back to stored series", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.CreateFundNav(t, db, "161725", friday, 1.0)
		testutil.CreateFundNav(t, db, "161725", monday, 1.2)
		svc := testutil.NewTestFundService(t, db, testutil.NewMockMarketClient().WithError(errors.New("timeout")))

		latest, err := svc.LatestNav(ctx, "161725")

		require.NoError(t, err)
		assert.Equal(t, 1.2, latest.Nav)
	})
}

// TestFundService_ImportNav tests operator supplied NAVs.
func TestFundService_ImportNav(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestFundService(t, db, nil)

	_, err := svc.ImportNav(ctx, "161725", monday, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidNav)

	_, err = svc.ImportNav(ctx, "161725", monday, 1.5)
	require.NoError(t, err)
	_, err = svc.ImportNav(ctx, "161725", monday, 1.6)
	require.NoError(t, err)

	nav, err := svc.ResolveNavByDate(ctx, "161725", monday)
	require.NoError(t, err)
	assert.Equal(t, 1.6, nav)
}

// TestFundService_RealtimeEstimate tests estimate passthrough.
func TestFundService_RealtimeEstimate(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	est := 1.42
	client := testutil.NewMockMarketClient().WithEstimate(model.FundEstimate{FundCode: "161725", EstimatedNav: &est})
	svc := testutil.NewTestFundService(t, db, client)

	got, err := svc.RealtimeEstimate(ctx, "161725")
	require.NoError(t, err)
	require.NotNil(t, got.EstimatedNav)
	assert.Equal(t, 1.42, *got.EstimatedNav)

	_, err = svc.RealtimeEstimate(ctx, "000000")
	assert.ErrorIs(t, err, apperrors.ErrFundNotFound)
}
