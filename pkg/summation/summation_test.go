package summation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummationVariants(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		want int64
	}{
		{"One", 1, 1},
		{"Five", 5, 15},
		{"Ten", 10, 55},
		{"Hundred", 100, 5050},
		{"Zero", 0, 0},
		{"Negative", -3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Iterative(tt.n))
			assert.Equal(t, tt.want, ClosedForm(tt.n))
			assert.Equal(t, tt.want, Recursive(tt.n))
		})
	}
}

func TestVariantsAgree(t *testing.T) {
	for n := int64(1); n <= 1000; n++ {
		it := Iterative(n)
		assert.Equal(t, it, ClosedForm(n), "closed form disagrees at n=%d", n)
		assert.Equal(t, it, Recursive(n), "recursive disagrees at n=%d", n)
		assert.Equal(t, n*(n+1)/2, it, "iterative disagrees with formula at n=%d", n)
	}
}
