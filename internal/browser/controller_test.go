package browser

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type item struct {
	ID   string
	Name string
	Kind string
}

func items(n int) []item {
	out := make([]item, n)
	for i := range out {
		kind := "even"
		if i%2 == 1 {
			kind = "odd"
		}
		out[i] = item{ID: fmt.Sprintf("r%03d", i), Name: fmt.Sprintf("record %d", i), Kind: kind}
	}
	return out
}

type recorder struct {
	calls []string
}

func (r *recorder) handler(name string) ActionFunc {
	return func(id string) error {
		r.calls = append(r.calls, name+":"+id)
		return nil
	}
}

func newTestController(t *testing.T, n int, opts ...func(*Config[item])) (*Controller[item], *recorder, *PointerHub) {
	t.Helper()
	rec := &recorder{}
	hub := NewPointerHub()
	cfg := Config[item]{
		PageSize: 14,
		RecordID: func(it item) string { return it.ID },
		Search:   FieldSearch(func(it item) []string { return []string{it.Name} }),
		Filters: []Filter[item]{{
			Name:    "kind",
			Options: []string{"even", "odd"},
			Match:   Equals(func(it item) string { return it.Kind }),
		}},
		Actions: []Action{
			{Name: "view", Label: "View", Handler: rec.handler("view")},
			{Name: "delete", Label: "Delete", Destructive: true, Handler: rec.handler("delete")},
		},
		Geometry: Geometry{Width: 160, Gap: 10, Margin: 10, ItemHeight: 30, Padding: 5},
		Pointer:  hub,
	}
	for _, o := range opts {
		o(&cfg)
	}
	c := NewController(cfg)
	c.SetRecords(items(n))
	t.Cleanup(c.Close)
	return c, rec, hub
}

func TestController_PagesThroughRecords(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestController(t, 256)

	info := c.Pagination()
	if info.TotalPages != 19 {
		t.Fatalf("TotalPages = %d, want 19", info.TotalPages)
	}
	if diff := cmp.Diff(items(256)[:14], c.Visible()); diff != "" {
		t.Errorf("page 1 mismatch (-want +got):\n%s", diff)
	}

	if !c.OnPageChange(19) {
		t.Fatal("OnPageChange(19) rejected")
	}
	if diff := cmp.Diff(items(256)[252:], c.Visible()); diff != "" {
		t.Errorf("page 19 mismatch (-want +got):\n%s", diff)
	}
	if got := c.Pagination(); got.RangeStart != 253 || got.RangeEnd != 256 {
		t.Errorf("range = %d - %d, want 253 - 256", got.RangeStart, got.RangeEnd)
	}
}

func TestController_OutOfRangePageIsNoop(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestController(t, 30)
	c.OnPageChange(2)

	for _, p := range []int{0, -1, 4, 100} {
		if c.OnPageChange(p) {
			t.Errorf("OnPageChange(%d) accepted", p)
		}
		if got := c.CurrentPage(); got != 2 {
			t.Errorf("after OnPageChange(%d) page = %d, want 2", p, got)
		}
	}
}

func TestController_SearchAndFilterResetPage(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestController(t, 100)

	c.OnPageChange(3)
	c.OnSearch("record 1")
	if got := c.CurrentPage(); got != 1 {
		t.Errorf("page after search = %d, want 1", got)
	}

	c.OnSearch("")
	c.OnPageChange(4)
	if !c.OnFilterChange("kind", "odd") {
		t.Fatal("OnFilterChange rejected known filter")
	}
	if got := c.CurrentPage(); got != 1 {
		t.Errorf("page after filter = %d, want 1", got)
	}
	if got := c.Pagination().TotalCount; got != 50 {
		t.Errorf("TotalCount with odd filter = %d, want 50", got)
	}

	c.OnPageChange(2)
	if c.OnFilterChange("missing", "x") {
		t.Error("OnFilterChange accepted unknown filter")
	}
	if got := c.CurrentPage(); got != 2 {
		t.Errorf("page after unknown filter = %d, want 2", got)
	}
}

func TestController_EmptyState(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestController(t, 40)
	c.OnSearch("no such record")

	if !c.Empty() {
		t.Fatal("Empty() = false, want true")
	}
	want := PageInfo{CurrentPage: 1}
	if diff := cmp.Diff(want, c.Pagination()); diff != "" {
		t.Errorf("Pagination mismatch (-want +got):\n%s", diff)
	}
	if got := c.Window(); len(got) != 0 {
		t.Errorf("Window() = %v, want none", got)
	}
	if len(c.Visible()) != 0 {
		t.Errorf("Visible() = %v, want empty", c.Visible())
	}
}

func TestController_SingleOpenMenu(t *testing.T) {
	t.Parallel()

	c, _, hub := newTestController(t, 20)

	c.OnActionTrigger("r001", RectAt(500, 100, 30, 20), 800)
	c.OnActionTrigger("r002", RectAt(500, 140, 30, 20), 800)

	m := c.Menu()
	if !m.Open || m.TargetID != "r002" {
		t.Fatalf("menu = %+v, want open on r002", m)
	}
	if diff := cmp.Diff(&Position{Top: 170, Left: 330}, m.Position); diff != "" {
		t.Errorf("position mismatch (-want +got):\n%s", diff)
	}
	if got := hub.Len(); got != 1 {
		t.Errorf("pointer subscriptions = %d, want 1", got)
	}
}

func TestController_OutsidePointerClosesMenu(t *testing.T) {
	t.Parallel()

	c, _, hub := newTestController(t, 20)
	c.OnActionTrigger("r003", RectAt(500, 100, 30, 20), 800)

	// Inside the menu: stays open.
	hub.Dispatch(PointerEvent{X: 340, Y: 140})
	if !c.Menu().Open {
		t.Fatal("pointer inside menu closed it")
	}

	hub.Dispatch(PointerEvent{X: 10, Y: 10})
	if c.Menu().Open {
		t.Fatal("pointer outside menu left it open")
	}
	if got := c.Selected(); got != "" {
		t.Errorf("Selected() = %q, want empty", got)
	}
	if got := hub.Len(); got != 0 {
		t.Errorf("pointer subscriptions after close = %d, want 0", got)
	}
}

func TestController_CloseReleasesSubscription(t *testing.T) {
	t.Parallel()

	c, _, hub := newTestController(t, 20)
	c.OnActionTrigger("r003", RectAt(500, 100, 30, 20), 800)
	c.Close()

	if got := hub.Len(); got != 0 {
		t.Errorf("pointer subscriptions after Close = %d, want 0", got)
	}
}

func TestController_OnAction(t *testing.T) {
	t.Parallel()

	c, rec, _ := newTestController(t, 20)

	if err := c.OnAction("view"); !errors.Is(err, ErrNoSelection) {
		t.Errorf("OnAction without menu err = %v, want ErrNoSelection", err)
	}

	c.OnActionTrigger("r004", RectAt(500, 100, 30, 20), 800)
	if err := c.OnAction("view"); err != nil {
		t.Fatalf("OnAction(view): %v", err)
	}
	if c.Menu().Open {
		t.Error("menu still open after action")
	}

	c.OnActionTrigger("r005", RectAt(500, 100, 30, 20), 800)
	if err := c.OnAction("archive"); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("OnAction(archive) err = %v, want ErrUnknownAction", err)
	}

	if diff := cmp.Diff([]string{"view:r004"}, rec.calls); diff != "" {
		t.Errorf("handler calls mismatch (-want +got):\n%s", diff)
	}
}

func TestController_DestructiveActionNeedsConfirmation(t *testing.T) {
	t.Parallel()

	answer := false
	var asked []string
	c, rec, _ := newTestController(t, 20, func(cfg *Config[item]) {
		cfg.Confirm = func(a Action, id string) bool {
			asked = append(asked, a.Name+":"+id)
			return answer
		}
	})

	c.OnActionTrigger("r006", RectAt(500, 100, 30, 20), 800)
	if err := c.OnAction("delete"); err != nil {
		t.Fatalf("declined delete: %v", err)
	}
	if len(rec.calls) != 0 {
		t.Fatalf("declined delete ran handler: %v", rec.calls)
	}

	answer = true
	c.OnActionTrigger("r006", RectAt(500, 100, 30, 20), 800)
	if err := c.OnAction("delete"); err != nil {
		t.Fatalf("confirmed delete: %v", err)
	}

	if diff := cmp.Diff([]string{"delete:r006", "delete:r006"}, asked); diff != "" {
		t.Errorf("confirmations mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"delete:r006"}, rec.calls); diff != "" {
		t.Errorf("handler calls mismatch (-want +got):\n%s", diff)
	}
}

func TestController_HandlerErrorIsWrapped(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	c, _, _ := newTestController(t, 5, func(cfg *Config[item]) {
		cfg.Actions = []Action{{Name: "fail", Handler: func(string) error { return boom }}}
	})

	c.OnActionTrigger("r001", RectAt(500, 100, 30, 20), 800)
	err := c.OnAction("fail")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	if c.Menu().Open {
		t.Error("menu still open after failed action")
	}
}

func TestController_SetRecordsClampsPage(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestController(t, 30)
	c.OnPageChange(3)
	c.OnActionTrigger("r029", RectAt(500, 100, 30, 20), 800)

	c.SetRecords(items(20))
	if got := c.CurrentPage(); got != 2 {
		t.Errorf("page after shrink = %d, want 2", got)
	}
	if c.Menu().Open {
		t.Error("menu for vanished record still open")
	}
}

func TestController_SearchAndFilterCloseMenuForHiddenRecord(t *testing.T) {
	t.Parallel()

	c, _, hub := newTestController(t, 40)

	// r003 stays on page 1 of the odd filter: the menu survives.
	c.OnActionTrigger("r003", RectAt(500, 100, 30, 20), 800)
	c.OnFilterChange("kind", "odd")
	if !c.Menu().Open {
		t.Fatal("menu closed although its record is still visible")
	}

	c.OnFilterChange("kind", "even")
	if c.Menu().Open {
		t.Error("menu open after filter hid its record")
	}
	if got := hub.Len(); got != 0 {
		t.Errorf("pointer subscriptions = %d, want 0", got)
	}

	c.OnFilterChange("kind", "")
	c.OnPageChange(2)
	c.OnActionTrigger("r020", RectAt(500, 100, 30, 20), 800)
	c.OnSearch("record 3")
	if c.Menu().Open {
		t.Error("menu open after search hid its record")
	}
	if got := c.Selected(); got != "" {
		t.Errorf("Selected() = %q, want empty", got)
	}
}
