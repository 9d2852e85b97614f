package enum

// StockAdjustMode selects how a manual quantity update is applied.
type StockAdjustMode string

const (
	// StockAdjustSet replaces the on-hand quantity.
	StockAdjustSet StockAdjustMode = "set"
	// StockAdjustDelta adds a signed amount to the on-hand quantity.
	StockAdjustDelta StockAdjustMode = "adjust"
)

func (m StockAdjustMode) IsValid() bool {
	return m == StockAdjustSet || m == StockAdjustDelta
}

func (m StockAdjustMode) String() string {
	return string(m)
}
