package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/repository"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/testutil"
)

func TestMarkConfirmedOnlyOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	account := testutil.CreateAccount(t, db, "Main")
	holding := testutil.NewHolding(account.ID, "000001").Build(t, db)
	pending := testutil.NewTransaction(account.ID, "000001").Buy(1000).Build(t, db)

	repo := repository.NewTransactionRepository(db)
	pending.ConfirmedNav = 1.25
	pending.Shares = 800
	pending.HoldingID = &holding.ID

	ok, err := repo.MarkConfirmed(ctx, &pending)
	require.NoError(t, err)
	assert.True(t, ok)

	// WHY: a second sweep racing the first must see the row as already settled.
	ok, err = repo.MarkConfirmed(ctx, &pending)
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.GetTransaction(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TradeStatusConfirmed, stored.Status)
	assert.Equal(t, 800.0, stored.Shares)
	require.NotNil(t, stored.HoldingID)
	assert.Equal(t, holding.ID, *stored.HoldingID)
}

func TestGetDuePending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	account := testutil.CreateAccount(t, db, "Main")

	monday := model.Date(2024, time.October, 21)
	tuesday := model.Date(2024, time.October, 22)
	wednesday := model.Date(2024, time.October, 23)

	late := testutil.NewTransaction(account.ID, "000001").WithNavDate(tuesday).Build(t, db)
	early := testutil.NewTransaction(account.ID, "000001").WithNavDate(monday).Build(t, db)
	testutil.NewTransaction(account.ID, "000001").WithNavDate(wednesday).Build(t, db)
	testutil.NewTransaction(account.ID, "000001").WithNavDate(monday).Confirmed(1, 1000).Build(t, db)

	due, err := repository.NewTransactionRepository(db).GetDuePending(context.Background(), tuesday)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, early.ID, due[0].ID)
	assert.Equal(t, late.ID, due[1].ID)
}

func TestImportTradeDatesSkipsExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	monday := model.Date(2024, time.October, 21)
	tuesday := model.Date(2024, time.October, 22)
	testutil.CreateTradeDates(t, db, monday)

	repo := repository.NewTradeCalendarRepository(db)
	added, err := repo.ImportTradeDates(ctx, []time.Time{monday, tuesday})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	dates, err := repo.LoadTradeDates(ctx)
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.True(t, dates[0].Equal(monday))
	assert.True(t, dates[1].Equal(tuesday))
}

func TestUpsertNavReplacesValue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	date := model.Date(2024, time.October, 21)
	repo := repository.NewFundNavRepository(db)

	_, err := repo.GetLatestNav(ctx, "000001")
	assert.ErrorIs(t, err, apperrors.ErrNavNotFound)

	_, err = repo.UpsertNav(ctx, "000001", date, 1.1)
	require.NoError(t, err)
	_, err = repo.UpsertNav(ctx, "000001", date, 1.2)
	require.NoError(t, err)

	got, err := repo.GetNav(ctx, "000001", date)
	require.NoError(t, err)
	assert.Equal(t, 1.2, got.Nav)
	testutil.AssertRowCount(t, db, "fund_nav", 1)
}
