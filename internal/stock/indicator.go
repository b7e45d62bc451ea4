package stock

// State is the display state of a product's inventory.
type State string

const (
	StateInStock    State = "in_stock"
	StateLowStock   State = "low_stock"
	StateOutOfStock State = "out_of_stock"
	StateBackorder  State = "backorder"
)

// Indicator combines the snapshot counters into a render-ready value.
// Available carries the numeric count surfaced alongside the low-stock state.
type Indicator struct {
	State     State `json:"state"`
	Available int   `json:"available"`
}

// Available returns total minus reserved, floored at zero.
func Available(total, reserved int) int {
	available := total - reserved
	if available < 0 {
		return 0
	}
	return available
}

// Indicate maps a stock snapshot to its display state. It is pure: callers
// pass whatever snapshot they hold and recompute on every read.
func Indicate(total, reserved, lowStockThreshold int, allowNegative bool) Indicator {
	available := Available(total, reserved)
	switch {
	case available <= 0 && allowNegative:
		return Indicator{State: StateBackorder, Available: available}
	case available <= 0:
		return Indicator{State: StateOutOfStock, Available: available}
	case available <= lowStockThreshold:
		return Indicator{State: StateLowStock, Available: available}
	default:
		return Indicator{State: StateInStock, Available: available}
	}
}
