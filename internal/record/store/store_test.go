package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	categorystore "github.com/MrJamesThe3rd/ledger/internal/category/store"
	"github.com/MrJamesThe3rd/ledger/internal/database"
	"github.com/MrJamesThe3rd/ledger/internal/database/databasetest"
	paymentstore "github.com/MrJamesThe3rd/ledger/internal/payment/store"
	"github.com/MrJamesThe3rd/ledger/internal/record"
	"github.com/MrJamesThe3rd/ledger/internal/record/store"
)

type fixture struct {
	db      *database.DB
	store   *store.Store
	cash    int64
	wechat  int64
	food    int64
	rent    int64
	clock   *time.Time
	records []*record.Record
}

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}

	return d
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	db := databasetest.New(t)

	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f := &fixture{db: db, clock: &clock}
	f.store = store.New(db, store.WithClock(func() time.Time { return *f.clock }))

	methods := paymentstore.New(db)
	cash, err := methods.GetOrCreate(ctx, "Cash")
	require.NoError(t, err)
	wechat, err := methods.GetOrCreate(ctx, "WeChat")
	require.NoError(t, err)

	cats := categorystore.New(db)
	food, err := cats.GetOrCreate(ctx, "food")
	require.NoError(t, err)
	rent, err := cats.GetOrCreate(ctx, "rent")
	require.NoError(t, err)

	f.cash, f.wechat, f.food, f.rent = cash.ID, wechat.ID, food.ID, rent.ID

	return f
}

func (f *fixture) add(t *testing.T, typ record.Type, amount int64, date string, method int64, cat *int64, note string) *record.Record {
	t.Helper()

	r := &record.Record{
		Type:            typ,
		Amount:          amount,
		Date:            day(date),
		PaymentMethodID: method,
		CategoryID:      cat,
		Note:            note,
	}
	require.NoError(t, f.store.Create(context.Background(), r))

	f.records = append(f.records, r)

	return r
}

func ids(rs []*record.Record) []int64 {
	out := make([]int64, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}

	return out
}

func TestStore_CreateGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.add(t, record.TypeExpense, 1250, "2024-03-15", f.cash, &f.food, "lunch")
	assert.NotZero(t, created.ID)

	got, err := f.store.Get(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, record.TypeExpense, got.Type)
	assert.Equal(t, int64(1250), got.Amount)
	assert.Equal(t, day("2024-03-15"), got.Date)
	assert.Equal(t, f.cash, got.PaymentMethodID)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, f.food, *got.CategoryID)
	assert.Equal(t, "lunch", got.Note)
	assert.True(t, got.CreatedAt.Equal(*f.clock))
	assert.True(t, got.UpdatedAt.Equal(*f.clock))
}

func TestStore_Get_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.Get(context.Background(), 999)
	assert.ErrorIs(t, err, record.ErrNotFound)
}

func TestStore_Update_Partial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r := f.add(t, record.TypeExpense, 1000, "2024-03-15", f.cash, &f.food, "lunch")

	*f.clock = f.clock.Add(time.Hour)
	require.NoError(t, f.store.Update(ctx, r.ID, record.Changes{Amount: new(int64(2000))}))

	got, err := f.store.Get(ctx, r.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(2000), got.Amount)
	assert.Equal(t, record.TypeExpense, got.Type)
	assert.Equal(t, "lunch", got.Note)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, f.food, *got.CategoryID)
	assert.True(t, got.UpdatedAt.Equal(*f.clock))
	assert.True(t, got.CreatedAt.Before(got.UpdatedAt))
}

func TestStore_Update_EmptyIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r := f.add(t, record.TypeExpense, 1000, "2024-03-15", f.cash, nil, "")
	before := *f.clock

	*f.clock = f.clock.Add(time.Hour)
	require.NoError(t, f.store.Update(ctx, r.ID, record.Changes{}))

	got, err := f.store.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.Equal(before))
}

func TestStore_Update_Category(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r := f.add(t, record.TypeExpense, 1000, "2024-03-15", f.cash, &f.food, "")

	require.NoError(t, f.store.Update(ctx, r.ID, record.Changes{CategoryID: &f.rent}))

	got, err := f.store.Get(ctx, r.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, f.rent, *got.CategoryID)

	require.NoError(t, f.store.Update(ctx, r.ID, record.Changes{ClearCategory: true}))

	got, err = f.store.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
}

func TestStore_UpdateDelete_Missing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.NoError(t, f.store.Update(ctx, 404, record.Changes{Note: new("x")}))
	assert.NoError(t, f.store.Delete(ctx, 404))
}

func TestStore_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r := f.add(t, record.TypeIncome, 500, "2024-03-15", f.cash, nil, "")
	require.NoError(t, f.store.Delete(ctx, r.ID))

	_, err := f.store.Get(ctx, r.ID)
	assert.ErrorIs(t, err, record.ErrNotFound)
}

func TestStore_CreateBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	batch := []*record.Record{
		{Type: record.TypeExpense, Amount: 100, Date: day("2024-03-01"), PaymentMethodID: f.cash},
		{Type: record.TypeIncome, Amount: 200, Date: day("2024-03-02"), PaymentMethodID: f.wechat},
	}
	require.NoError(t, f.store.CreateBatch(ctx, batch))

	for _, r := range batch {
		assert.NotZero(t, r.ID)
	}

	all, err := f.store.Search(ctx, record.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStore_CreateBatch_RollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	batch := []*record.Record{
		{Type: record.TypeExpense, Amount: 100, Date: day("2024-03-01"), PaymentMethodID: f.cash},
		{Type: record.TypeExpense, Amount: 100, Date: day("2024-03-01"), PaymentMethodID: 9999},
	}
	assert.Error(t, f.store.CreateBatch(ctx, batch))

	all, err := f.store.Search(ctx, record.Filter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStore_Search(t *testing.T) {
	f := newFixture(t)

	r1 := f.add(t, record.TypeExpense, 500, "2024-03-01", f.cash, &f.food, "breakfast")
	r2 := f.add(t, record.TypeExpense, 2000, "2024-03-05", f.wechat, &f.food, "dinner party")
	r3 := f.add(t, record.TypeIncome, 3000, "2024-03-05", f.wechat, nil, "salary")
	r4 := f.add(t, record.TypeExpense, 4000, "2024-03-10", f.cash, &f.rent, "march rent")
	r5 := f.add(t, record.TypeExpense, 1000, "2024-04-01", f.cash, &f.food, "lunch")

	type testCase struct {
		name   string
		filter record.Filter
		want   []int64
	}

	tests := []testCase{
		{
			name:   "AllDefaultOrder",
			filter: record.Filter{},
			want:   []int64{r5.ID, r4.ID, r3.ID, r2.ID, r1.ID},
		},
		{
			name: "AmountRangeAndType",
			filter: record.Filter{
				MinAmount: new(int64(1000)),
				MaxAmount: new(int64(5000)),
				Type:      new(record.TypeExpense),
			},
			want: []int64{r5.ID, r4.ID, r2.ID},
		},
		{
			name:   "DateRangeInclusive",
			filter: record.Filter{Start: new(day("2024-03-05")), End: new(day("2024-03-10"))},
			want:   []int64{r4.ID, r3.ID, r2.ID},
		},
		{
			name:   "Category",
			filter: record.Filter{CategoryID: &f.food},
			want:   []int64{r5.ID, r2.ID, r1.ID},
		},
		{
			name:   "PaymentMethod",
			filter: record.Filter{PaymentMethodID: &f.wechat},
			want:   []int64{r3.ID, r2.ID},
		},
		{
			name:   "Keyword",
			filter: record.Filter{Keyword: "rent"},
			want:   []int64{r4.ID},
		},
		{
			name:   "DateAsc",
			filter: record.Filter{Order: record.OrderDateAsc},
			want:   []int64{r1.ID, r2.ID, r3.ID, r4.ID, r5.ID},
		},
		{
			name:   "AmountDesc",
			filter: record.Filter{Order: record.OrderAmountDesc},
			want:   []int64{r4.ID, r3.ID, r2.ID, r5.ID, r1.ID},
		},
		{
			name:   "AmountAsc",
			filter: record.Filter{Order: record.OrderAmountAsc},
			want:   []int64{r1.ID, r5.ID, r2.ID, r3.ID, r4.ID},
		},
		{
			name:   "UnknownOrderFallsBack",
			filter: record.Filter{Order: "sideways"},
			want:   []int64{r5.ID, r4.ID, r3.ID, r2.ID, r1.ID},
		},
		{
			name:   "Limit",
			filter: record.Filter{Limit: 2},
			want:   []int64{r5.ID, r4.ID},
		},
		{
			name:   "NoMatch",
			filter: record.Filter{Keyword: "nothing like this"},
			want:   []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.store.Search(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}
