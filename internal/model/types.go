package model

import "time"

// Kind names a table of records.
type Kind string

const (
	KindUsers              Kind = "users"
	KindTrades             Kind = "trades"
	KindCardTransactions   Kind = "card-transactions"
	KindKYC                Kind = "kyc"
	KindSignals            Kind = "signals"
	KindWithdrawalSettings Kind = "withdrawal-settings"
	KindWalletAdjustments  Kind = "wallet-adjustments"
)

// Kinds lists every record kind in display order.
var Kinds = []Kind{
	KindUsers,
	KindTrades,
	KindCardTransactions,
	KindKYC,
	KindSignals,
	KindWithdrawalSettings,
	KindWalletAdjustments,
}

// User is a platform customer account.
type User struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email" yaml:"email"`
	Phone     string    `json:"phone" yaml:"phone"`
	Country   string    `json:"country" yaml:"country"`
	Tier      string    `json:"tier" yaml:"tier"` // standard/gold/vip
	Status    string    `json:"status" yaml:"status"`
	KYCLevel  int       `json:"kycLevel" yaml:"kyc_level"`
	Balance   float64   `json:"balance" yaml:"balance"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// Trade is an order placed by a user.
type Trade struct {
	ID        string    `json:"id" yaml:"id"`
	UserID    string    `json:"userId" yaml:"user_id"`
	UserName  string    `json:"userName" yaml:"user_name"`
	Symbol    string    `json:"symbol" yaml:"symbol"`
	Side      string    `json:"side" yaml:"side"` // buy/sell
	Type      string    `json:"type" yaml:"type"` // market/limit/stop
	Quantity  float64   `json:"quantity" yaml:"quantity"`
	Price     float64   `json:"price" yaml:"price"`
	Status    string    `json:"status" yaml:"status"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// Total returns the notional value of the trade.
func (t Trade) Total() float64 { return t.Quantity * t.Price }

// CardTransaction is a payment made with a platform-issued card.
type CardTransaction struct {
	ID        string    `json:"id" yaml:"id"`
	UserID    string    `json:"userId" yaml:"user_id"`
	UserName  string    `json:"userName" yaml:"user_name"`
	CardLast4 string    `json:"cardLast4" yaml:"card_last4"`
	Merchant  string    `json:"merchant" yaml:"merchant"`
	Category  string    `json:"category" yaml:"category"`
	Amount    float64   `json:"amount" yaml:"amount"`
	Currency  string    `json:"currency" yaml:"currency"`
	Status    string    `json:"status" yaml:"status"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// KYCApplication is an identity verification submission awaiting review.
type KYCApplication struct {
	ID           string    `json:"id" yaml:"id"`
	UserID       string    `json:"userId" yaml:"user_id"`
	FullName     string    `json:"fullName" yaml:"full_name"`
	DocumentType string    `json:"documentType" yaml:"document_type"`
	Country      string    `json:"country" yaml:"country"`
	Level        int       `json:"level" yaml:"level"`
	Status       string    `json:"status" yaml:"status"`
	Reviewer     string    `json:"reviewer,omitempty" yaml:"reviewer,omitempty"`
	SubmittedAt  time.Time `json:"submittedAt" yaml:"submitted_at"`
	ReviewedAt   time.Time `json:"reviewedAt,omitzero" yaml:"reviewed_at,omitempty"`
}

// Signal is a published trading signal.
type Signal struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Symbol     string    `json:"symbol" yaml:"symbol"`
	Direction  string    `json:"direction" yaml:"direction"` // long/short
	Strategy   string    `json:"strategy" yaml:"strategy"`
	Entry      float64   `json:"entry" yaml:"entry"`
	Target     float64   `json:"target" yaml:"target"`
	StopLoss   float64   `json:"stopLoss" yaml:"stop_loss"`
	Confidence int       `json:"confidence" yaml:"confidence"` // 0-100
	Status     string    `json:"status" yaml:"status"`         // active/paused
	CreatedAt  time.Time `json:"createdAt" yaml:"created_at"`
}

// WithdrawalSetting configures withdrawals for one asset on one network.
type WithdrawalSetting struct {
	ID        string    `json:"id" yaml:"id"`
	Asset     string    `json:"asset" yaml:"asset"`
	Network   string    `json:"network" yaml:"network"`
	MinAmount float64   `json:"minAmount" yaml:"min_amount"`
	MaxAmount float64   `json:"maxAmount" yaml:"max_amount"`
	Fee       float64   `json:"fee" yaml:"fee"`
	Status    string    `json:"status" yaml:"status"` // enabled/disabled
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}

// WalletAdjustment is a manual credit or debit applied to a user's wallet.
type WalletAdjustment struct {
	ID        string    `json:"id" yaml:"id"`
	UserID    string    `json:"userId" yaml:"user_id"`
	UserName  string    `json:"userName" yaml:"user_name"`
	Type      string    `json:"type" yaml:"type"` // credit/debit
	Amount    float64   `json:"amount" yaml:"amount"`
	Currency  string    `json:"currency" yaml:"currency"`
	Reason    string    `json:"reason" yaml:"reason"`
	Operator  string    `json:"operator" yaml:"operator"`
	Status    string    `json:"status" yaml:"status"` // applied/reversed
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}
