package screens

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinytelemetry/backoffice/internal/browser"
	"github.com/tinytelemetry/backoffice/internal/duckdb"
	"github.com/tinytelemetry/backoffice/internal/mockdata"
	"github.com/tinytelemetry/backoffice/internal/model"
)

var fixedNow = time.Date(2025, time.March, 3, 9, 30, 0, 0, time.UTC)

func newTestCatalog(t *testing.T, n int) (*Catalog, *duckdb.Store, model.Dataset) {
	t.Helper()
	store, err := duckdb.NewStore("")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ds := mockdata.NewDataset(model.DefaultSeed, n)
	require.NoError(t, store.Seed(ds))

	deps := Deps{Store: store, Operator: "tester", Now: func() time.Time { return fixedNow }}
	return NewCatalog(deps), store, ds
}

func openTable(t *testing.T, c *Catalog, id string) Table {
	t.Helper()
	tbl, err := c.Open(id, Options{PageSize: 14})
	require.NoError(t, err)
	t.Cleanup(tbl.Close)
	return tbl
}

func selectRecord(tbl Table, id string) {
	tbl.OpenMenu(id, browser.RectAt(500, 100, 30, 20), 800)
}

func TestCatalog_ScreensAndRoles(t *testing.T) {
	c, _, _ := newTestCatalog(t, 10)

	ids := make([]string, 0)
	for _, s := range c.Screens() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"users", "trades", "card-transactions", "kyc", "signals", "withdrawal-settings", "wallet-adjustments"}, ids)

	assert.Len(t, c.Visible(model.RoleAdmin), 7)

	var compliance []string
	for _, s := range c.Visible(model.RoleCompliance) {
		compliance = append(compliance, s.ID)
	}
	assert.Equal(t, []string{"kyc"}, compliance)

	_, err := c.Open("ledger", Options{})
	assert.ErrorIs(t, err, ErrUnknownScreen)
}

func TestTable_PagesSeededUsers(t *testing.T) {
	c, _, ds := newTestCatalog(t, 256)
	tbl := openTable(t, c, "users")

	v := tbl.View()
	assert.Equal(t, 19, v.Pagination.TotalPages)
	assert.Equal(t, 256, v.Pagination.TotalCount)
	require.Len(t, v.Rows, 14)
	assert.Equal(t, ds.Users[0].ID, v.Rows[0].ID)
	assert.Len(t, v.Rows[0].Cells, len(v.Columns))

	require.True(t, tbl.GoToPage(19))
	v = tbl.View()
	require.Len(t, v.Rows, 4)
	assert.Equal(t, ds.Users[252].ID, v.Rows[0].ID)
	assert.Equal(t, ds.Users[255].ID, v.Rows[3].ID)

	assert.False(t, tbl.GoToPage(20))
	assert.Equal(t, 19, tbl.View().Pagination.CurrentPage)
}

func TestTable_SearchFilterAndEmptyState(t *testing.T) {
	c, _, ds := newTestCatalog(t, 60)
	tbl := openTable(t, c, "users")

	tbl.GoToPage(3)
	tbl.Search(ds.Users[5].ID)
	v := tbl.View()
	assert.Equal(t, 1, v.Pagination.CurrentPage)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, ds.Users[5].ID, v.Rows[0].ID)

	tbl.Search("")
	require.True(t, tbl.SetFilter("status", "no-such-status"))
	v = tbl.View()
	assert.True(t, v.Empty)
	assert.Empty(t, v.Rows)
	assert.Equal(t, browser.PageInfo{CurrentPage: 1}, v.Pagination)
	assert.Empty(t, v.Controls)
}

func TestTable_CycleFilter(t *testing.T) {
	c, _, _ := newTestCatalog(t, 30)
	tbl := openTable(t, c, "signals")

	for _, want := range []string{"active", "paused", ""} {
		require.True(t, tbl.CycleFilter("status"))
		assert.Equal(t, want, filterValue(tbl.View(), "status"))
	}

	require.True(t, tbl.CycleFilter("direction"))
	assert.Equal(t, "long", filterValue(tbl.View(), "direction"))
	for _, r := range tbl.View().Rows {
		assert.Equal(t, "long", r.Cells[2])
	}

	assert.False(t, tbl.CycleFilter("missing"))
}

func filterValue(v View, name string) string {
	for _, f := range v.Filters {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

func TestNextOption(t *testing.T) {
	opts := []string{"a", "b"}
	assert.Equal(t, "a", NextOption(opts, ""))
	assert.Equal(t, "b", NextOption(opts, "a"))
	assert.Equal(t, "", NextOption(opts, "b"))
	assert.Equal(t, "", NextOption(opts, "zzz"))
	assert.Equal(t, "", NextOption(nil, ""))
}

func firstWith[T any](t *testing.T, store *duckdb.Store, kind model.Kind, pred func(T) bool) T {
	t.Helper()
	all, err := duckdb.List[T](store, kind)
	require.NoError(t, err)
	for _, r := range all {
		if pred(r) {
			return r
		}
	}
	t.Fatalf("no %s record matches", kind)
	var zero T
	return zero
}

func TestInvoke_StatusTransition(t *testing.T) {
	c, store, _ := newTestCatalog(t, 40)
	tbl := openTable(t, c, "users")

	u := firstWith(t, store, model.KindUsers, func(u model.User) bool { return u.Status == "active" })

	selectRecord(tbl, u.ID)
	require.NoError(t, tbl.Invoke("suspend", false))
	assert.False(t, tbl.View().Menu.Open)

	var got model.User
	require.NoError(t, store.Get(model.KindUsers, u.ID, &got))
	assert.Equal(t, "suspended", got.Status)

	selectRecord(tbl, u.ID)
	err := tbl.Invoke("suspend", false)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestInvoke_DestructiveDeleteRequiresConfirmation(t *testing.T) {
	c, store, ds := newTestCatalog(t, 40)
	tbl := openTable(t, c, "signals")
	id := ds.Signals[0].ID

	assert.True(t, tbl.RequiresConfirmation("delete"))
	assert.False(t, tbl.RequiresConfirmation("pause"))

	selectRecord(tbl, id)
	require.NoError(t, tbl.Invoke("delete", false))
	var s model.Signal
	require.NoError(t, store.Get(model.KindSignals, id, &s), "declined delete removed the record")

	selectRecord(tbl, id)
	require.NoError(t, tbl.Invoke("delete", true))
	err := store.Get(model.KindSignals, id, &s)
	assert.ErrorIs(t, err, duckdb.ErrNotFound)
	assert.Equal(t, 39, tbl.View().Pagination.TotalCount)
	_, ok := tbl.Record(id)
	assert.False(t, ok)
}

func TestInvoke_WithoutSelection(t *testing.T) {
	c, _, _ := newTestCatalog(t, 5)
	tbl := openTable(t, c, "trades")
	assert.ErrorIs(t, tbl.Invoke("cancel", true), browser.ErrNoSelection)
}

func TestInvoke_KYCReview(t *testing.T) {
	c, store, _ := newTestCatalog(t, 60)
	tbl := openTable(t, c, "kyc")

	k := firstWith(t, store, model.KindKYC, func(k model.KYCApplication) bool { return k.Status == "pending" })

	selectRecord(tbl, k.ID)
	require.NoError(t, tbl.Invoke("accept", false))

	var got model.KYCApplication
	require.NoError(t, store.Get(model.KindKYC, k.ID, &got))
	assert.Equal(t, "accepted", got.Status)
	assert.Equal(t, "tester", got.Reviewer)
	assert.True(t, got.ReviewedAt.Equal(fixedNow))

	selectRecord(tbl, k.ID)
	assert.ErrorIs(t, tbl.Invoke("decline", true), ErrInvalidTransition)
}

func TestAdjustWallet(t *testing.T) {
	c, store, ds := newTestCatalog(t, 20)
	u := ds.Users[0]

	adj, err := AdjustWallet(c.Deps(), "adj_manual1", AdjustmentRequest{UserID: u.ID, Amount: 125.5, Reason: "goodwill credit"})
	require.NoError(t, err)
	assert.Equal(t, "credit", adj.Type)
	assert.Equal(t, "USD", adj.Currency)
	assert.Equal(t, "tester", adj.Operator)

	var got model.User
	require.NoError(t, store.Get(model.KindUsers, u.ID, &got))
	assert.InDelta(t, u.Balance+125.5, got.Balance, 0.01)

	_, err = AdjustWallet(c.Deps(), "adj_manual2", AdjustmentRequest{UserID: u.ID, Amount: -(got.Balance + 1), Reason: "overdraw"})
	assert.ErrorIs(t, err, ErrInvalidAdjustment)

	_, err = AdjustWallet(c.Deps(), "adj_manual3", AdjustmentRequest{UserID: u.ID, Amount: 0, Reason: "noop"})
	assert.ErrorIs(t, err, ErrInvalidAdjustment)

	_, err = AdjustWallet(c.Deps(), "adj_manual4", AdjustmentRequest{UserID: "usr_missing", Amount: 5, Reason: "x"})
	assert.True(t, errors.Is(err, duckdb.ErrNotFound), "err = %v", err)

	tbl := openTable(t, c, "wallet-adjustments")
	assert.Equal(t, 21, tbl.View().Pagination.TotalCount)
}

func TestInvoke_ReverseAdjustment(t *testing.T) {
	c, store, ds := newTestCatalog(t, 20)
	u := ds.Users[1]

	_, err := AdjustWallet(c.Deps(), "adj_rev", AdjustmentRequest{UserID: u.ID, Amount: 10, Reason: "fee refund"})
	require.NoError(t, err)

	tbl := openTable(t, c, "wallet-adjustments")
	selectRecord(tbl, "adj_rev")
	require.NoError(t, tbl.Invoke("reverse", true))

	var got model.User
	require.NoError(t, store.Get(model.KindUsers, u.ID, &got))
	assert.InDelta(t, u.Balance, got.Balance, 0.01)

	var adj model.WalletAdjustment
	require.NoError(t, store.Get(model.KindWalletAdjustments, "adj_rev", &adj))
	assert.Equal(t, "reversed", adj.Status)

	selectRecord(tbl, "adj_rev")
	assert.ErrorIs(t, tbl.Invoke("reverse", true), ErrInvalidTransition)
}

func TestAdjustWallet_ConcurrentCreditsAllApply(t *testing.T) {
	c, store, ds := newTestCatalog(t, 10)
	u := ds.Users[0]

	const n = 40
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := AdjustWallet(c.Deps(), fmt.Sprintf("adj_conc%02d", i), AdjustmentRequest{UserID: u.ID, Amount: 1, Reason: "batch credit"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var got model.User
	require.NoError(t, store.Get(model.KindUsers, u.ID, &got))
	assert.InDelta(t, u.Balance+n, got.Balance, 0.01)
}

func TestReverseAdjustment_ConcurrentReversalsCreditOnce(t *testing.T) {
	c, store, ds := newTestCatalog(t, 10)
	u := ds.Users[2]

	_, err := AdjustWallet(c.Deps(), "adj_twice", AdjustmentRequest{UserID: u.ID, Amount: -5, Reason: "fee"})
	require.NoError(t, err)

	reverse := reverseAdjustment(c.Deps())
	var wg sync.WaitGroup
	results := make(chan error, 2)
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- reverse("adj_twice")
		}()
	}
	wg.Wait()
	close(results)

	var ok, rejected int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrInvalidTransition):
			rejected++
		default:
			t.Fatalf("reverse: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, rejected)

	var got model.User
	require.NoError(t, store.Get(model.KindUsers, u.ID, &got))
	assert.InDelta(t, u.Balance, got.Balance, 0.01)
}

func TestReverseAdjustment_MissingUserLeavesAdjustmentApplied(t *testing.T) {
	c, store, _ := newTestCatalog(t, 10)

	orphan := model.WalletAdjustment{ID: "adj_orphan", UserID: "usr_gone", Type: "credit", Amount: 3, Status: "applied"}
	require.NoError(t, store.Put(model.KindWalletAdjustments, orphan.ID, orphan))

	err := reverseAdjustment(c.Deps())("adj_orphan")
	assert.ErrorIs(t, err, duckdb.ErrNotFound)

	var adj model.WalletAdjustment
	require.NoError(t, store.Get(model.KindWalletAdjustments, "adj_orphan", &adj))
	assert.Equal(t, "applied", adj.Status)
}
