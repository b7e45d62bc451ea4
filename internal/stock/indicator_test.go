package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailable(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 10, Available(10, 0))
	assert.Equal(t, 3, Available(10, 7))
	assert.Equal(t, 0, Available(5, 5))
	assert.Equal(t, 0, Available(2, 9))
}

func TestIndicate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name          string
		total         int
		reserved      int
		threshold     int
		allowNegative bool
		want          Indicator
	}{
		{"plenty of stock", 10, 0, 5, false, Indicator{State: StateInStock, Available: 10}},
		{"reservations push into low stock", 10, 7, 5, false, Indicator{State: StateLowStock, Available: 3}},
		{"fully reserved", 5, 5, 5, false, Indicator{State: StateOutOfStock, Available: 0}},
		{"fully reserved with backorder", 5, 5, 5, true, Indicator{State: StateBackorder, Available: 0}},
		{"exactly at threshold", 8, 3, 5, false, Indicator{State: StateLowStock, Available: 5}},
		{"one above threshold", 9, 3, 5, false, Indicator{State: StateInStock, Available: 6}},
		{"oversold without backorder", 2, 9, 5, false, Indicator{State: StateOutOfStock, Available: 0}},
		{"zero threshold never reports low", 4, 0, 0, false, Indicator{State: StateInStock, Available: 4}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Indicate(tc.total, tc.reserved, tc.threshold, tc.allowNegative)
			assert.Equal(t, tc.want, got)
		})
	}
}
