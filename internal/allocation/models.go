package allocation

// Allocation earmarks part of the fund's value for a named asset. The sum of
// all allocations may never exceed the fund's current value.
type Allocation struct {
	ID     int64   `json:"-"`
	Asset  string  `json:"asset"`
	Amount float64 `json:"amount"`
}
