package mockdata

import (
	"fmt"
	"math"
	"time"

	"github.com/tinytelemetry/backoffice/internal/model"
)

const year = 365 * 24 * time.Hour

// Users builds n customer accounts.
func Users(g *Generator, n int) []model.User {
	return Generate(g, n, func(g *Generator, _ int) model.User {
		name := g.Name()
		return model.User{
			ID:        g.ID("usr"),
			Name:      name,
			Email:     g.Email(name),
			Phone:     "+" + g.Digits(11),
			Country:   g.Country(),
			Tier:      Pick(g, "standard", "standard", "standard", "gold", "vip"),
			Status:    Pick(g, "active", "active", "active", "suspended", "pending"),
			KYCLevel:  g.Intn(4),
			Balance:   g.Amount(0, 250_000),
			CreatedAt: g.Time(year),
		}
	})
}

var symbols = []string{"BTC/USDT", "ETH/USDT", "SOL/USDT", "XRP/USDT", "ADA/USDT", "EUR/USD", "GBP/USD", "XAU/USD"}

func symbolPrice(g *Generator, symbol string) float64 {
	switch symbol {
	case "BTC/USDT":
		return g.Amount(52_000, 71_000)
	case "ETH/USDT":
		return g.Amount(2_800, 3_900)
	case "SOL/USDT":
		return g.Amount(120, 210)
	case "XAU/USD":
		return g.Amount(2_200, 2_450)
	case "EUR/USD", "GBP/USD":
		return g.Amount(1.05, 1.3)
	default:
		return g.Amount(0.3, 0.7)
	}
}

// Trades builds n orders placed by the given users.
func Trades(g *Generator, n int, users []model.User) []model.Trade {
	return Generate(g, n, func(g *Generator, _ int) model.Trade {
		u := pickUser(g, users)
		symbol := Pick(g, symbols...)
		return model.Trade{
			ID:        g.ID("trd"),
			UserID:    u.ID,
			UserName:  u.Name,
			Symbol:    symbol,
			Side:      Pick(g, "buy", "sell"),
			Type:      Pick(g, "market", "market", "limit", "stop"),
			Quantity:  g.Amount(0.01, 25),
			Price:     symbolPrice(g, symbol),
			Status:    Pick(g, "filled", "filled", "open", "cancelled"),
			CreatedAt: g.Time(year),
		}
	})
}

var merchants = []struct{ name, category string }{
	{"Amazon", "shopping"},
	{"Uber", "transport"},
	{"Lufthansa", "travel"},
	{"Netflix", "subscriptions"},
	{"Carrefour", "groceries"},
	{"Shell", "fuel"},
	{"Starbucks", "dining"},
	{"Booking.com", "travel"},
	{"Apple", "electronics"},
	{"Zara", "shopping"},
}

// CardTransactions builds n card payments by the given users.
func CardTransactions(g *Generator, n int, users []model.User) []model.CardTransaction {
	return Generate(g, n, func(g *Generator, _ int) model.CardTransaction {
		u := pickUser(g, users)
		m := Pick(g, merchants...)
		return model.CardTransaction{
			ID:        g.ID("ctx"),
			UserID:    u.ID,
			UserName:  u.Name,
			CardLast4: g.Digits(4),
			Merchant:  m.name,
			Category:  m.category,
			Amount:    g.Amount(1, 2_500),
			Currency:  Pick(g, "EUR", "USD", "GBP"),
			Status:    Pick(g, "approved", "approved", "approved", "pending", "declined"),
			CreatedAt: g.Time(year),
		}
	})
}

// KYCApplications builds n verification submissions for the given users.
func KYCApplications(g *Generator, n int, users []model.User) []model.KYCApplication {
	reviewers := []string{"j.moreau", "a.okafor", "k.tanaka"}
	return Generate(g, n, func(g *Generator, _ int) model.KYCApplication {
		u := pickUser(g, users)
		app := model.KYCApplication{
			ID:           g.ID("kyc"),
			UserID:       u.ID,
			FullName:     u.Name,
			DocumentType: Pick(g, "passport", "id_card", "driver_license", "residence_permit"),
			Country:      u.Country,
			Level:        g.Between(1, 3),
			Status:       Pick(g, "pending", "pending", "accepted", "declined"),
			SubmittedAt:  g.Time(year),
		}
		if app.Status != "pending" {
			app.Reviewer = Pick(g, reviewers...)
			app.ReviewedAt = app.SubmittedAt.Add(time.Duration(g.Between(1, 72)) * time.Hour)
		}
		return app
	})
}

var strategies = []string{"breakout", "mean-reversion", "momentum", "scalp", "swing"}

// Signals builds n trading signals.
func Signals(g *Generator, n int) []model.Signal {
	return Generate(g, n, func(g *Generator, i int) model.Signal {
		symbol := Pick(g, symbols...)
		direction := Pick(g, "long", "short")
		entry := symbolPrice(g, symbol)
		step := entry * (0.01 + float64(g.Intn(5))/100)
		target, stop := entry+step, entry-step/2
		if direction == "short" {
			target, stop = entry-step, entry+step/2
		}
		strategy := Pick(g, strategies...)
		return model.Signal{
			ID:         g.ID("sig"),
			Name:       fmt.Sprintf("%s %s #%d", symbol, strategy, i+1),
			Symbol:     symbol,
			Direction:  direction,
			Strategy:   strategy,
			Entry:      entry,
			Target:     round4(target),
			StopLoss:   round4(stop),
			Confidence: g.Between(40, 98),
			Status:     Pick(g, "active", "active", "paused"),
			CreatedAt:  g.Time(year),
		}
	})
}

var networks = map[string][]string{
	"BTC":  {"Bitcoin", "Lightning"},
	"ETH":  {"Ethereum", "Arbitrum", "Optimism"},
	"USDT": {"Ethereum", "Tron", "Solana", "BSC"},
	"USDC": {"Ethereum", "Solana", "Base"},
	"SOL":  {"Solana"},
	"XRP":  {"XRP Ledger"},
}

var assets = []string{"BTC", "ETH", "USDT", "USDC", "SOL", "XRP"}

// WithdrawalSettings builds one setting per asset and network, cycling
// through the catalog until n settings exist.
func WithdrawalSettings(g *Generator, n int) []model.WithdrawalSetting {
	type pair struct{ asset, network string }
	var pairs []pair
	for _, a := range assets {
		for _, nw := range networks[a] {
			pairs = append(pairs, pair{a, nw})
		}
	}
	return Generate(g, n, func(g *Generator, i int) model.WithdrawalSetting {
		p := pairs[i%len(pairs)]
		lo := g.Amount(0.001, 20)
		return model.WithdrawalSetting{
			ID:        g.ID("wds"),
			Asset:     p.asset,
			Network:   p.network,
			MinAmount: lo,
			MaxAmount: round4(lo * float64(g.Between(100, 5_000))),
			Fee:       g.Amount(0.0001, 5),
			Status:    Pick(g, "enabled", "enabled", "enabled", "disabled"),
			UpdatedAt: g.Time(year),
		}
	})
}

// WalletAdjustments builds n manual wallet corrections for the given users.
func WalletAdjustments(g *Generator, n int, users []model.User) []model.WalletAdjustment {
	reasons := []string{"goodwill credit", "fee refund", "chargeback", "promo bonus", "reconciliation", "duplicate deposit"}
	operators := []string{"ops.berg", "ops.silva", "ops.haddad"}
	return Generate(g, n, func(g *Generator, _ int) model.WalletAdjustment {
		u := pickUser(g, users)
		return model.WalletAdjustment{
			ID:        g.ID("adj"),
			UserID:    u.ID,
			UserName:  u.Name,
			Type:      Pick(g, "credit", "credit", "debit"),
			Amount:    g.Amount(5, 5_000),
			Currency:  Pick(g, "EUR", "USD", "USDT"),
			Reason:    Pick(g, reasons...),
			Operator:  Pick(g, operators...),
			Status:    Pick(g, "applied", "applied", "applied", "reversed"),
			CreatedAt: g.Time(year),
		}
	})
}

// NewDataset generates every table from one seed. Tables tied to users
// reference the generated users.
func NewDataset(seed int64, n int) model.Dataset {
	g := New(seed)
	users := Users(g, n)
	return model.Dataset{
		Users:              users,
		Trades:             Trades(g, n, users),
		CardTransactions:   CardTransactions(g, n, users),
		KYCApplications:    KYCApplications(g, n, users),
		Signals:            Signals(g, n),
		WithdrawalSettings: WithdrawalSettings(g, n),
		WalletAdjustments:  WalletAdjustments(g, n, users),
	}
}

func pickUser(g *Generator, users []model.User) model.User {
	if len(users) == 0 {
		name := g.Name()
		return model.User{ID: g.ID("usr"), Name: name}
	}
	return users[g.Intn(len(users))]
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
