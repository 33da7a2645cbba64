package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ledger/internal/app"
	"github.com/MrJamesThe3rd/ledger/internal/budget"
	"github.com/MrJamesThe3rd/ledger/internal/config"
	"github.com/MrJamesThe3rd/ledger/internal/record"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	var cfg config.Config
	cfg.DB.Driver = "sqlite"
	cfg.DB.Path = filepath.Join(t.TempDir(), "ledger.db")
	cfg.Ledger.DefaultPaymentMethod = "Cash"
	cfg.Ledger.DefaultThreshold = 1.5

	a, err := app.Open(ctx, &cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	assert.InDelta(t, 1.0, a.DefaultThreshold, 1e-9)

	r, err := a.Records.Add(ctx, record.CreateParams{
		Type:     record.TypeExpense,
		Amount:   4200,
		Date:     time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
		Category: "books",
	})
	require.NoError(t, err)

	methods, err := a.Methods.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cash", methods[r.PaymentMethodID])

	_, err = a.Budgets.SetBudget(ctx, budget.Month("2024-05"), 10000, a.DefaultThreshold)
	require.NoError(t, err)

	p, err := a.Budgets.Progress(ctx, budget.Month("2024-05"))
	require.NoError(t, err)
	assert.Equal(t, int64(4200), p.Spent)
}

func TestOpen_CreatesMissingDirectory(t *testing.T) {
	var cfg config.Config
	cfg.DB.Driver = "sqlite"
	cfg.DB.Path = filepath.Join(t.TempDir(), "nested", "data", "ledger.db")

	a, err := app.Open(context.Background(), &cfg)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	_, err = os.Stat(cfg.DB.Path)
	assert.NoError(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	var cfg config.Config
	cfg.DB.Driver = "oracle"

	_, err := app.Open(context.Background(), &cfg)
	assert.Error(t, err)
}
