package model

// RecordReader provides read access to stored records. Payloads are the
// JSON encoding of the record types in this package.
type RecordReader interface {
	Scan(kind Kind, fn func(payload []byte) error) error
	Get(kind Kind, id string, dst any) error
	Counts() (map[Kind]int64, error)
}

// RecordWriter provides mutation of stored records.
type RecordWriter interface {
	Put(kind Kind, id string, record any) error
	Delete(kind Kind, id string) error
}

// RecordTx reads and writes records inside one atomic update.
type RecordTx interface {
	Get(kind Kind, id string, dst any) error
	RecordWriter
}

// RecordStore is the unified store contract used by screens and the API.
// Update commits every change fn makes, or none of them when fn fails.
type RecordStore interface {
	RecordReader
	RecordWriter
	Update(fn func(tx RecordTx) error) error
}

// Dataset holds one generated table per record kind.
type Dataset struct {
	Users              []User
	Trades             []Trade
	CardTransactions   []CardTransaction
	KYCApplications    []KYCApplication
	Signals            []Signal
	WithdrawalSettings []WithdrawalSetting
	WalletAdjustments  []WalletAdjustment
}
