package screens

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tinytelemetry/backoffice/internal/browser"
	"github.com/tinytelemetry/backoffice/internal/model"
)

const dateLayout = "2006-01-02 15:04"

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

func view() browser.Action {
	return browser.Action{Name: "view", Label: "View details"}
}

func statusFilter[T any](options []string, field func(T) string) browser.Filter[T] {
	return browser.Filter[T]{Name: "status", Label: "Status", Options: options, Match: browser.Equals(field)}
}

// Users lists customer accounts.
func Users(d Deps) Definition[model.User] {
	status := func(u *model.User) *string { return &u.Status }
	return Definition[model.User]{
		ID:       "users",
		Title:    "Users",
		Kind:     model.KindUsers,
		Roles:    []string{model.RoleAdmin, model.RoleSupport},
		RecordID: func(u model.User) string { return u.ID },
		Columns: []Column[model.User]{
			{Title: "ID", Width: 16, Value: func(u model.User) string { return u.ID }},
			{Title: "Name", Width: 20, Value: func(u model.User) string { return u.Name }},
			{Title: "Email", Width: 30, Value: func(u model.User) string { return u.Email }},
			{Title: "Country", Width: 7, Value: func(u model.User) string { return u.Country }},
			{Title: "Tier", Width: 8, Value: func(u model.User) string { return u.Tier }},
			{Title: "KYC", Width: 3, Value: func(u model.User) string { return strconv.Itoa(u.KYCLevel) }},
			{Title: "Balance", Width: 12, Value: func(u model.User) string { return money(u.Balance) }},
			{Title: "Status", Width: 9, Value: func(u model.User) string { return u.Status }},
		},
		Search: func(u model.User) []string { return []string{u.ID, u.Name, u.Email, u.Phone} },
		Filters: []browser.Filter[model.User]{
			statusFilter([]string{"active", "suspended", "pending"}, func(u model.User) string { return u.Status }),
			{Name: "tier", Label: "Tier", Options: []string{"standard", "gold", "vip"}, Match: browser.Equals(func(u model.User) string { return u.Tier })},
		},
		Actions: []browser.Action{
			view(),
			{Name: "suspend", Label: "Suspend", Handler: statusAction(d, model.KindUsers, status, "suspended", "active", "pending")},
			{Name: "activate", Label: "Activate", Handler: statusAction(d, model.KindUsers, status, "active", "suspended", "pending")},
			{Name: "delete", Label: "Delete", Destructive: true, Handler: deleteAction(d, model.KindUsers)},
		},
	}
}

// Trades lists orders.
func Trades(d Deps) Definition[model.Trade] {
	return Definition[model.Trade]{
		ID:       "trades",
		Title:    "Trades",
		Kind:     model.KindTrades,
		Roles:    []string{model.RoleAdmin, model.RoleAnalyst, model.RoleSupport},
		RecordID: func(t model.Trade) string { return t.ID },
		Columns: []Column[model.Trade]{
			{Title: "ID", Width: 16, Value: func(t model.Trade) string { return t.ID }},
			{Title: "User", Width: 20, Value: func(t model.Trade) string { return t.UserName }},
			{Title: "Symbol", Width: 9, Value: func(t model.Trade) string { return t.Symbol }},
			{Title: "Side", Width: 4, Value: func(t model.Trade) string { return t.Side }},
			{Title: "Type", Width: 6, Value: func(t model.Trade) string { return t.Type }},
			{Title: "Qty", Width: 8, Value: func(t model.Trade) string { return strconv.FormatFloat(t.Quantity, 'f', 2, 64) }},
			{Title: "Price", Width: 10, Value: func(t model.Trade) string { return money(t.Price) }},
			{Title: "Total", Width: 12, Value: func(t model.Trade) string { return money(t.Total()) }},
			{Title: "Status", Width: 9, Value: func(t model.Trade) string { return t.Status }},
			{Title: "Created", Width: 16, Value: func(t model.Trade) string { return stamp(t.CreatedAt) }},
		},
		Search: func(t model.Trade) []string { return []string{t.ID, t.UserName, t.Symbol} },
		Filters: []browser.Filter[model.Trade]{
			statusFilter([]string{"open", "filled", "cancelled"}, func(t model.Trade) string { return t.Status }),
			{Name: "side", Label: "Side", Options: []string{"buy", "sell"}, Match: browser.Equals(func(t model.Trade) string { return t.Side })},
			{Name: "type", Label: "Type", Options: []string{"market", "limit", "stop"}, Match: browser.Equals(func(t model.Trade) string { return t.Type })},
		},
		Actions: []browser.Action{
			view(),
			{Name: "cancel", Label: "Cancel order", Destructive: true, Handler: statusAction(d, model.KindTrades, func(t *model.Trade) *string { return &t.Status }, "cancelled", "open")},
			{Name: "delete", Label: "Delete", Destructive: true, Handler: deleteAction(d, model.KindTrades)},
		},
	}
}

// CardTransactions lists card payments.
func CardTransactions(d Deps) Definition[model.CardTransaction] {
	return Definition[model.CardTransaction]{
		ID:       "card-transactions",
		Title:    "Card Transactions",
		Kind:     model.KindCardTransactions,
		Roles:    []string{model.RoleAdmin, model.RoleSupport},
		RecordID: func(c model.CardTransaction) string { return c.ID },
		Columns: []Column[model.CardTransaction]{
			{Title: "ID", Width: 16, Value: func(c model.CardTransaction) string { return c.ID }},
			{Title: "User", Width: 20, Value: func(c model.CardTransaction) string { return c.UserName }},
			{Title: "Card", Width: 9, Value: func(c model.CardTransaction) string { return "•••• " + c.CardLast4 }},
			{Title: "Merchant", Width: 12, Value: func(c model.CardTransaction) string { return c.Merchant }},
			{Title: "Category", Width: 13, Value: func(c model.CardTransaction) string { return c.Category }},
			{Title: "Amount", Width: 13, Value: func(c model.CardTransaction) string { return money(c.Amount) + " " + c.Currency }},
			{Title: "Status", Width: 9, Value: func(c model.CardTransaction) string { return c.Status }},
			{Title: "Date", Width: 16, Value: func(c model.CardTransaction) string { return stamp(c.CreatedAt) }},
		},
		Search: func(c model.CardTransaction) []string { return []string{c.ID, c.UserName, c.Merchant, c.CardLast4} },
		Filters: []browser.Filter[model.CardTransaction]{
			statusFilter([]string{"approved", "pending", "declined", "refunded"}, func(c model.CardTransaction) string { return c.Status }),
			{Name: "category", Label: "Category", Options: []string{"shopping", "transport", "travel", "subscriptions", "groceries", "fuel", "dining", "electronics"}, Match: browser.Equals(func(c model.CardTransaction) string { return c.Category })},
		},
		Actions: []browser.Action{
			view(),
			{Name: "refund", Label: "Refund", Destructive: true, Handler: statusAction(d, model.KindCardTransactions, func(c *model.CardTransaction) *string { return &c.Status }, "refunded", "approved")},
		},
	}
}

// KYC lists identity verification submissions.
func KYC(d Deps) Definition[model.KYCApplication] {
	return Definition[model.KYCApplication]{
		ID:       "kyc",
		Title:    "KYC Review",
		Kind:     model.KindKYC,
		Roles:    []string{model.RoleAdmin, model.RoleCompliance},
		RecordID: func(k model.KYCApplication) string { return k.ID },
		Columns: []Column[model.KYCApplication]{
			{Title: "ID", Width: 16, Value: func(k model.KYCApplication) string { return k.ID }},
			{Title: "Applicant", Width: 20, Value: func(k model.KYCApplication) string { return k.FullName }},
			{Title: "Document", Width: 16, Value: func(k model.KYCApplication) string { return strings.ReplaceAll(k.DocumentType, "_", " ") }},
			{Title: "Country", Width: 7, Value: func(k model.KYCApplication) string { return k.Country }},
			{Title: "Level", Width: 5, Value: func(k model.KYCApplication) string { return strconv.Itoa(k.Level) }},
			{Title: "Status", Width: 9, Value: func(k model.KYCApplication) string { return k.Status }},
			{Title: "Submitted", Width: 16, Value: func(k model.KYCApplication) string { return stamp(k.SubmittedAt) }},
			{Title: "Reviewer", Width: 10, Value: func(k model.KYCApplication) string { return k.Reviewer }},
		},
		Search: func(k model.KYCApplication) []string { return []string{k.ID, k.UserID, k.FullName} },
		Filters: []browser.Filter[model.KYCApplication]{
			statusFilter([]string{"pending", "accepted", "declined"}, func(k model.KYCApplication) string { return k.Status }),
			{Name: "document", Label: "Document", Options: []string{"passport", "id_card", "driver_license", "residence_permit"}, Match: browser.Equals(func(k model.KYCApplication) string { return k.DocumentType })},
		},
		Actions: []browser.Action{
			view(),
			{Name: "accept", Label: "Accept", Handler: reviewKYC(d, "accepted")},
			{Name: "decline", Label: "Decline", Destructive: true, Handler: reviewKYC(d, "declined")},
		},
	}
}

// Signals lists published trading signals.
func Signals(d Deps) Definition[model.Signal] {
	status := func(s *model.Signal) *string { return &s.Status }
	return Definition[model.Signal]{
		ID:       "signals",
		Title:    "Signals",
		Kind:     model.KindSignals,
		Roles:    []string{model.RoleAdmin, model.RoleAnalyst},
		RecordID: func(s model.Signal) string { return s.ID },
		Columns: []Column[model.Signal]{
			{Title: "ID", Width: 16, Value: func(s model.Signal) string { return s.ID }},
			{Title: "Name", Width: 28, Value: func(s model.Signal) string { return s.Name }},
			{Title: "Dir", Width: 5, Value: func(s model.Signal) string { return s.Direction }},
			{Title: "Entry", Width: 10, Value: func(s model.Signal) string { return money(s.Entry) }},
			{Title: "Target", Width: 10, Value: func(s model.Signal) string { return money(s.Target) }},
			{Title: "Stop", Width: 10, Value: func(s model.Signal) string { return money(s.StopLoss) }},
			{Title: "Conf", Width: 4, Value: func(s model.Signal) string { return fmt.Sprintf("%d%%", s.Confidence) }},
			{Title: "Status", Width: 7, Value: func(s model.Signal) string { return s.Status }},
		},
		Search: func(s model.Signal) []string { return []string{s.ID, s.Name, s.Symbol, s.Strategy} },
		Filters: []browser.Filter[model.Signal]{
			statusFilter([]string{"active", "paused"}, func(s model.Signal) string { return s.Status }),
			{Name: "direction", Label: "Direction", Options: []string{"long", "short"}, Match: browser.Equals(func(s model.Signal) string { return s.Direction })},
		},
		Actions: []browser.Action{
			view(),
			{Name: "pause", Label: "Pause", Handler: statusAction(d, model.KindSignals, status, "paused", "active")},
			{Name: "resume", Label: "Resume", Handler: statusAction(d, model.KindSignals, status, "active", "paused")},
			{Name: "delete", Label: "Delete", Destructive: true, Handler: deleteAction(d, model.KindSignals)},
		},
	}
}

// WithdrawalSettings lists per-asset withdrawal limits.
func WithdrawalSettings(d Deps) Definition[model.WithdrawalSetting] {
	status := func(w *model.WithdrawalSetting) *string { return &w.Status }
	return Definition[model.WithdrawalSetting]{
		ID:       "withdrawal-settings",
		Title:    "Withdrawal Settings",
		Kind:     model.KindWithdrawalSettings,
		Roles:    []string{model.RoleAdmin},
		RecordID: func(w model.WithdrawalSetting) string { return w.ID },
		Columns: []Column[model.WithdrawalSetting]{
			{Title: "ID", Width: 16, Value: func(w model.WithdrawalSetting) string { return w.ID }},
			{Title: "Asset", Width: 5, Value: func(w model.WithdrawalSetting) string { return w.Asset }},
			{Title: "Network", Width: 11, Value: func(w model.WithdrawalSetting) string { return w.Network }},
			{Title: "Min", Width: 10, Value: func(w model.WithdrawalSetting) string { return strconv.FormatFloat(w.MinAmount, 'f', -1, 64) }},
			{Title: "Max", Width: 12, Value: func(w model.WithdrawalSetting) string { return strconv.FormatFloat(w.MaxAmount, 'f', -1, 64) }},
			{Title: "Fee", Width: 8, Value: func(w model.WithdrawalSetting) string { return strconv.FormatFloat(w.Fee, 'f', -1, 64) }},
			{Title: "Status", Width: 8, Value: func(w model.WithdrawalSetting) string { return w.Status }},
			{Title: "Updated", Width: 16, Value: func(w model.WithdrawalSetting) string { return stamp(w.UpdatedAt) }},
		},
		Search: func(w model.WithdrawalSetting) []string { return []string{w.ID, w.Asset, w.Network} },
		Filters: []browser.Filter[model.WithdrawalSetting]{
			statusFilter([]string{"enabled", "disabled"}, func(w model.WithdrawalSetting) string { return w.Status }),
			{Name: "asset", Label: "Asset", Options: []string{"BTC", "ETH", "USDT", "USDC", "SOL", "XRP"}, Match: browser.Equals(func(w model.WithdrawalSetting) string { return w.Asset })},
		},
		Actions: []browser.Action{
			view(),
			{Name: "enable", Label: "Enable", Handler: statusAction(d, model.KindWithdrawalSettings, status, "enabled", "disabled")},
			{Name: "disable", Label: "Disable", Handler: statusAction(d, model.KindWithdrawalSettings, status, "disabled", "enabled")},
		},
	}
}

// WalletAdjustments lists manual wallet credits and debits.
func WalletAdjustments(d Deps) Definition[model.WalletAdjustment] {
	return Definition[model.WalletAdjustment]{
		ID:       "wallet-adjustments",
		Title:    "Wallet Adjustments",
		Kind:     model.KindWalletAdjustments,
		Roles:    []string{model.RoleAdmin},
		RecordID: func(a model.WalletAdjustment) string { return a.ID },
		Columns: []Column[model.WalletAdjustment]{
			{Title: "ID", Width: 16, Value: func(a model.WalletAdjustment) string { return a.ID }},
			{Title: "User", Width: 20, Value: func(a model.WalletAdjustment) string { return a.UserName }},
			{Title: "Type", Width: 6, Value: func(a model.WalletAdjustment) string { return a.Type }},
			{Title: "Amount", Width: 14, Value: func(a model.WalletAdjustment) string { return money(a.Amount) + " " + a.Currency }},
			{Title: "Reason", Width: 18, Value: func(a model.WalletAdjustment) string { return a.Reason }},
			{Title: "Operator", Width: 10, Value: func(a model.WalletAdjustment) string { return a.Operator }},
			{Title: "Status", Width: 8, Value: func(a model.WalletAdjustment) string { return a.Status }},
			{Title: "Date", Width: 16, Value: func(a model.WalletAdjustment) string { return stamp(a.CreatedAt) }},
		},
		Search: func(a model.WalletAdjustment) []string { return []string{a.ID, a.UserID, a.UserName, a.Reason, a.Operator} },
		Filters: []browser.Filter[model.WalletAdjustment]{
			statusFilter([]string{"applied", "reversed"}, func(a model.WalletAdjustment) string { return a.Status }),
			{Name: "type", Label: "Type", Options: []string{"credit", "debit"}, Match: browser.Equals(func(a model.WalletAdjustment) string { return a.Type })},
		},
		Actions: []browser.Action{
			view(),
			{Name: "reverse", Label: "Reverse", Destructive: true, Handler: reverseAdjustment(d)},
		},
	}
}
