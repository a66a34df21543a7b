package currency

import (
	"errors"
	"math"
	"sync"

	"github.com/shopspring/decimal"
)

var ErrInvalidRate = errors.New("exchange rate must be a positive finite number")

// DefaultUSDToPKR is used when neither settings nor configuration provide a rate.
var DefaultUSDToPKR = decimal.RequireFromString("278.50")

// Rate is an immutable PKR-per-USD value. Batch operations take one Rate at
// the start of a run so every record in the run uses the same figure.
type Rate struct {
	value decimal.Decimal
}

// NewRate validates rate and wraps it.
func NewRate(rate decimal.Decimal) (Rate, error) {
	if !rate.IsPositive() {
		return Rate{}, ErrInvalidRate
	}
	return Rate{value: rate}, nil
}

// NewRateFromFloat rejects NaN and infinities before delegating to NewRate.
func NewRateFromFloat(rate float64) (Rate, error) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return Rate{}, ErrInvalidRate
	}
	return NewRate(decimal.NewFromFloat(rate))
}

func (r Rate) Value() decimal.Decimal {
	return r.value
}

// ToPKR converts a USD amount to PKR without rounding.
func (r Rate) ToPKR(usd decimal.Decimal) decimal.Decimal {
	return usd.Mul(r.value)
}

// ToUSD converts a PKR amount to USD without rounding.
func (r Rate) ToUSD(pkr decimal.Decimal) decimal.Decimal {
	if r.value.IsZero() {
		return decimal.Zero
	}
	return pkr.Div(r.value)
}

// Converter holds the process-wide USD/PKR rate. It never touches persisted
// amounts; only display conversion depends on the current value.
type Converter struct {
	mu   sync.RWMutex
	rate Rate
}

func NewConverter(rate decimal.Decimal) (*Converter, error) {
	r, err := NewRate(rate)
	if err != nil {
		return nil, err
	}
	return &Converter{rate: r}, nil
}

// SetRate replaces the current rate. The previous rate is kept on error.
func (c *Converter) SetRate(rate decimal.Decimal) error {
	r, err := NewRate(rate)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.rate = r
	c.mu.Unlock()
	return nil
}

func (c *Converter) SetRateFloat(rate float64) error {
	r, err := NewRateFromFloat(rate)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.rate = r
	c.mu.Unlock()
	return nil
}

// Snapshot returns the current rate as an immutable value.
func (c *Converter) Snapshot() Rate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rate
}

func (c *Converter) Rate() decimal.Decimal {
	return c.Snapshot().Value()
}

func (c *Converter) ToPKR(usd decimal.Decimal) decimal.Decimal {
	return c.Snapshot().ToPKR(usd)
}

func (c *Converter) ToUSD(pkr decimal.Decimal) decimal.Decimal {
	return c.Snapshot().ToUSD(pkr)
}

// FormatDual renders a PKR amount followed by its USD equivalent at the current rate.
func (c *Converter) FormatDual(pkr decimal.Decimal) string {
	return FormatPKR(pkr) + " (" + FormatUSD(c.ToUSD(pkr)) + ")"
}
