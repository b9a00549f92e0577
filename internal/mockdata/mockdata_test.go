package mockdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDataset_Deterministic(t *testing.T) {
	t.Parallel()

	a := NewDataset(42, 50)
	b := NewDataset(42, 50)
	assert.Equal(t, a, b, "same seed must yield identical datasets")

	c := NewDataset(43, 50)
	assert.NotEqual(t, a.Users[0].ID, c.Users[0].ID, "different seeds should diverge")
}

func TestNewDataset_Sizes(t *testing.T) {
	t.Parallel()

	ds := NewDataset(7, 256)
	assert.Len(t, ds.Users, 256)
	assert.Len(t, ds.Trades, 256)
	assert.Len(t, ds.CardTransactions, 256)
	assert.Len(t, ds.KYCApplications, 256)
	assert.Len(t, ds.Signals, 256)
	assert.Len(t, ds.WithdrawalSettings, 256)
	assert.Len(t, ds.WalletAdjustments, 256)
}

func TestNewDataset_ReferencesUsers(t *testing.T) {
	t.Parallel()

	ds := NewDataset(1, 30)
	users := make(map[string]string, len(ds.Users))
	for _, u := range ds.Users {
		users[u.ID] = u.Name
	}
	for _, tr := range ds.Trades {
		name, ok := users[tr.UserID]
		require.True(t, ok, "trade %s references unknown user %s", tr.ID, tr.UserID)
		assert.Equal(t, name, tr.UserName)
	}
	for _, k := range ds.KYCApplications {
		_, ok := users[k.UserID]
		require.True(t, ok, "kyc %s references unknown user %s", k.ID, k.UserID)
		if k.Status == "pending" {
			assert.Empty(t, k.Reviewer)
		} else {
			assert.NotEmpty(t, k.Reviewer)
			assert.True(t, k.ReviewedAt.After(k.SubmittedAt))
		}
	}
}

func TestIDsAreUnique(t *testing.T) {
	t.Parallel()

	g := New(99)
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := g.ID("usr")
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		assert.Len(t, id, len("usr_")+12)
	}
}

func TestSignals_TargetsMatchDirection(t *testing.T) {
	t.Parallel()

	for _, s := range Signals(New(5), 100) {
		if s.Direction == "long" {
			assert.Greater(t, s.Target, s.Entry, s.ID)
			assert.Less(t, s.StopLoss, s.Entry, s.ID)
		} else {
			assert.Less(t, s.Target, s.Entry, s.ID)
			assert.Greater(t, s.StopLoss, s.Entry, s.ID)
		}
	}
}

func TestGeneratorHelpers(t *testing.T) {
	t.Parallel()

	g := New(3)
	for i := 0; i < 200; i++ {
		v := g.Between(2, 4)
		assert.GreaterOrEqual(t, v, 2)
		assert.LessOrEqual(t, v, 4)
		a := g.Amount(1, 2)
		assert.GreaterOrEqual(t, a, 1.0)
		assert.LessOrEqual(t, a, 2.0)
	}
	assert.Equal(t, 0, g.Intn(0))
	assert.Len(t, g.Digits(6), 6)
}

func TestGeneratorTime(t *testing.T) {
	t.Parallel()

	g := New(5)
	assert.Equal(t, epoch, g.Time(0))
	assert.Equal(t, epoch, g.Time(-time.Hour))

	ts := g.Time(time.Hour)
	assert.False(t, ts.Before(epoch))
	assert.True(t, ts.Before(epoch.Add(time.Hour)))
}
