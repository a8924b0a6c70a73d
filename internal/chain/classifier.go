package chain

import "github.com/shopspring/decimal"

// UnknownAction labels transactions no classifier understood.
const UnknownAction = "unknown"

// Classification is what a Classifier derives from one transaction.
type Classification struct {
	ActionType string
	Amount     decimal.NullDecimal
	Burn       decimal.Decimal
}

// Classifier derives action type, amount and burned value from a transaction.
// Implementations must be deterministic.
type Classifier interface {
	Classify(tx Tx) Classification
}

// NoopClassifier labels every transaction UnknownAction with no amount and no burn.
type NoopClassifier struct{}

// Classify implements Classifier.
func (NoopClassifier) Classify(Tx) Classification {
	return Classification{ActionType: UnknownAction, Burn: decimal.Zero}
}
