package screens

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tinytelemetry/backoffice/internal/model"
)

var (
	// ErrInvalidTransition is returned when an action does not apply to the
	// record's current state.
	ErrInvalidTransition = errors.New("action not allowed in current state")
	// ErrInvalidAdjustment is returned for malformed wallet adjustments.
	ErrInvalidAdjustment = errors.New("invalid wallet adjustment")
)

// Deps are the collaborators action handlers mutate.
type Deps struct {
	Store    model.RecordStore
	Operator string
	Now      func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now().UTC()
}

func (d Deps) operator() string {
	if d.Operator != "" {
		return d.Operator
	}
	return "backoffice"
}

// update loads a record, applies fn, and stores the result within tx.
func update[T any](tx model.RecordTx, kind model.Kind, id string, fn func(*T) error) error {
	var rec T
	if err := tx.Get(kind, id, &rec); err != nil {
		return err
	}
	if err := fn(&rec); err != nil {
		return err
	}
	return tx.Put(kind, id, rec)
}

// updateOne runs update in its own transaction.
func updateOne[T any](store model.RecordStore, kind model.Kind, id string, fn func(*T) error) error {
	return store.Update(func(tx model.RecordTx) error {
		return update(tx, kind, id, fn)
	})
}

// transition moves a status field from one of the allowed states to next.
func transition(status *string, next string, from ...string) error {
	for _, f := range from {
		if *status == f {
			*status = next
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, *status, next)
}

func deleteAction(d Deps, kind model.Kind) func(string) error {
	return func(id string) error {
		if err := d.Store.Delete(kind, id); err != nil {
			return err
		}
		log.Info().Str("kind", string(kind)).Str("record", id).Str("operator", d.operator()).Msg("record deleted")
		return nil
	}
}

func statusAction[T any](d Deps, kind model.Kind, status func(*T) *string, next string, from ...string) func(string) error {
	return func(id string) error {
		err := updateOne(d.Store, kind, id, func(r *T) error {
			return transition(status(r), next, from...)
		})
		if err != nil {
			return err
		}
		log.Info().Str("kind", string(kind)).Str("record", id).Str("status", next).Str("operator", d.operator()).Msg("record updated")
		return nil
	}
}

func reviewKYC(d Deps, next string) func(string) error {
	return func(id string) error {
		err := updateOne(d.Store, model.KindKYC, id, func(k *model.KYCApplication) error {
			if err := transition(&k.Status, next, "pending"); err != nil {
				return err
			}
			k.Reviewer = d.operator()
			k.ReviewedAt = d.now()
			return nil
		})
		if err != nil {
			return err
		}
		log.Info().Str("record", id).Str("decision", next).Str("operator", d.operator()).Msg("kyc reviewed")
		return nil
	}
}

// AdjustmentRequest describes a manual wallet credit or debit.
type AdjustmentRequest struct {
	UserID   string  `json:"userId" binding:"required"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Reason   string  `json:"reason"`
}

// AdjustWallet applies a manual credit (positive amount) or debit (negative
// amount) to a user's balance and records it as a wallet adjustment.
func AdjustWallet(d Deps, id string, req AdjustmentRequest) (model.WalletAdjustment, error) {
	if req.Amount == 0 || math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return model.WalletAdjustment{}, fmt.Errorf("%w: amount must be non-zero", ErrInvalidAdjustment)
	}
	if strings.TrimSpace(req.Reason) == "" {
		return model.WalletAdjustment{}, fmt.Errorf("%w: reason is required", ErrInvalidAdjustment)
	}

	var adj model.WalletAdjustment
	err := d.Store.Update(func(tx model.RecordTx) error {
		var user model.User
		err := update(tx, model.KindUsers, req.UserID, func(u *model.User) error {
			if u.Balance+req.Amount < 0 {
				return fmt.Errorf("%w: debit exceeds balance %.2f", ErrInvalidAdjustment, u.Balance)
			}
			u.Balance = math.Round((u.Balance+req.Amount)*100) / 100
			user = *u
			return nil
		})
		if err != nil {
			return err
		}

		adj = model.WalletAdjustment{
			ID:        id,
			UserID:    user.ID,
			UserName:  user.Name,
			Type:      "credit",
			Amount:    math.Abs(req.Amount),
			Currency:  req.Currency,
			Reason:    req.Reason,
			Operator:  d.operator(),
			Status:    "applied",
			CreatedAt: d.now(),
		}
		if req.Amount < 0 {
			adj.Type = "debit"
		}
		if adj.Currency == "" {
			adj.Currency = "USD"
		}
		return tx.Put(model.KindWalletAdjustments, adj.ID, adj)
	})
	if err != nil {
		return model.WalletAdjustment{}, err
	}
	log.Info().Str("user", adj.UserID).Str("type", adj.Type).Float64("amount", adj.Amount).Str("operator", adj.Operator).Msg("wallet adjusted")
	return adj, nil
}

// reverseAdjustment undoes an applied adjustment against the user balance.
func reverseAdjustment(d Deps) func(string) error {
	return func(id string) error {
		var adj model.WalletAdjustment
		err := d.Store.Update(func(tx model.RecordTx) error {
			err := update(tx, model.KindWalletAdjustments, id, func(a *model.WalletAdjustment) error {
				adj = *a
				return transition(&a.Status, "reversed", "applied")
			})
			if err != nil {
				return err
			}
			delta := -adj.Amount
			if adj.Type == "debit" {
				delta = adj.Amount
			}
			return update(tx, model.KindUsers, adj.UserID, func(u *model.User) error {
				u.Balance = math.Round((u.Balance+delta)*100) / 100
				return nil
			})
		})
		if err != nil {
			return err
		}
		log.Info().Str("record", id).Str("user", adj.UserID).Str("operator", d.operator()).Msg("wallet adjustment reversed")
		return nil
	}
}
