package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatter_Currency(t *testing.T) {
	f := New("en", "Rp")
	assert.Equal(t, "Rp 2,000", f.Currency(2000))
	assert.Equal(t, "Rp 1,234,567", f.Currency(1234567.2))
	assert.Equal(t, "Rp 0", f.Currency(0))
	assert.Equal(t, "Rp 0", f.Currency(math.Copysign(0, -1)))
	assert.Equal(t, "Rp -1,500", f.Currency(-1500))
}

func TestFormatter_NoSymbol(t *testing.T) {
	f := New("en", "")
	assert.Equal(t, "1,999,800", f.Currency(1999800))
}

func TestFormatter_BadLocaleFallsBack(t *testing.T) {
	f := New("!!", "$")
	assert.Equal(t, "$ 12,345", f.Currency(12345))
}

func TestFixed2(t *testing.T) {
	assert.Equal(t, "0.40", Fixed2(0.4))
	assert.Equal(t, "0.67", Fixed2(2.0/3.0))
	assert.Equal(t, "100.00", Fixed2(100))
	assert.Equal(t, "1234.50", Fixed2(1234.5))
	assert.Equal(t, "0.00", Fixed2(math.Copysign(0, -1)))
}
