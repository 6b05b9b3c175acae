package models

import (
	"fmt"
	"math"
	"time"
)

// OptionKind is the contract right.
type OptionKind string

const (
	Call OptionKind = "call"
	Put  OptionKind = "put"
)

// DefaultMultiplier is the standard equity option contract size.
const DefaultMultiplier = 100.0

// OptionContract describes a single listed option. It is immutable; identity
// is Underlying+Strike+Expiration+Kind.
type OptionContract struct {
	Underlying string     `json:"underlying"`
	Kind       OptionKind `json:"kind"`
	Strike     float64    `json:"strike"`
	Expiration time.Time  `json:"expiration"`
	Multiplier float64    `json:"multiplier"`
	Exchange   string     `json:"exchange,omitempty"`
}

// Key returns the contract identity string.
func (c OptionContract) Key() string {
	return fmt.Sprintf("%s-%.2f-%s-%s", c.Underlying, c.Strike, c.Expiration.Format("2006-01-02"), c.Kind)
}

func (c OptionContract) Validate() error {
	if c.Strike <= 0 {
		return &DomainRangeError{Param: "strike", Value: c.Strike, Require: "> 0"}
	}
	if c.Kind != Call && c.Kind != Put {
		return &StrategyDefinitionError{Reason: fmt.Sprintf("unknown option kind %q", c.Kind)}
	}
	if c.Expiration.IsZero() {
		return &StrategyDefinitionError{Reason: "contract has no expiration date"}
	}
	if c.Multiplier <= 0 {
		return &DomainRangeError{Param: "multiplier", Value: c.Multiplier, Require: "> 0"}
	}
	return nil
}

// TimeToExpiry returns the year fraction until expiration, calendar days / 365.
// Expired contracts return 0.
func (c OptionContract) TimeToExpiry(asOf time.Time) float64 {
	t := c.Expiration.Sub(asOf).Hours() / 24 / 365
	if t < 0 {
		return 0
	}
	return t
}

// DaysToExpiry returns whole calendar days remaining, floored at 0.
func (c OptionContract) DaysToExpiry(asOf time.Time) int {
	d := int(c.Expiration.Sub(asOf).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// IntrinsicValue is the per-share exercise value at underlying price s.
func (c OptionContract) IntrinsicValue(s float64) float64 {
	if c.Kind == Call {
		return math.Max(0, s-c.Strike)
	}
	return math.Max(0, c.Strike-s)
}
