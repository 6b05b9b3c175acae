package models

import (
	"bytes"
	"fmt"
)

// StrategyType is the closed set of named strategy variants.
type StrategyType string

const (
	LongCall       StrategyType = "long_call"
	LongPut        StrategyType = "long_put"
	CoveredCall    StrategyType = "covered_call"
	CashSecuredPut StrategyType = "cash_secured_put"
	ProtectivePut  StrategyType = "protective_put"
	Straddle       StrategyType = "straddle"
	Strangle       StrategyType = "strangle"
	VerticalSpread StrategyType = "vertical_spread"
	IronCondor     StrategyType = "iron_condor"
	Butterfly      StrategyType = "butterfly"
	Custom         StrategyType = "custom"
)

// ProfitBound is a P&L extremum that is either a finite amount or unlimited.
type ProfitBound struct {
	Amount    float64
	Unlimited bool
}

// Bounded returns a finite ProfitBound.
func Bounded(amount float64) ProfitBound { return ProfitBound{Amount: amount} }

// UnlimitedBound returns the unbounded ProfitBound.
func UnlimitedBound() ProfitBound { return ProfitBound{Unlimited: true} }

func (b ProfitBound) String() string {
	if b.Unlimited {
		return "unlimited"
	}
	return fmt.Sprintf("%.2f", b.Amount)
}

// MarshalJSON renders an unlimited bound as the string "unlimited".
func (b ProfitBound) MarshalJSON() ([]byte, error) {
	if b.Unlimited {
		return []byte(`"unlimited"`), nil
	}
	return []byte(fmt.Sprintf("%g", b.Amount)), nil
}

// UnmarshalJSON accepts either a number or the string "unlimited".
func (b *ProfitBound) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.Trim(data, `"`), []byte("unlimited")) {
		*b = ProfitBound{Unlimited: true}
		return nil
	}
	var amount float64
	if _, err := fmt.Sscanf(string(data), "%g", &amount); err != nil {
		return fmt.Errorf("invalid profit bound %q: %w", data, err)
	}
	*b = ProfitBound{Amount: amount}
	return nil
}

// OptionsStrategy is an ordered set of legs plus the derived fields computed
// at construction. Strategies are immutable once built: re-analysis produces
// new values, never mutates legs.
//
// StockQuantity and StockCostBasis carry the implicit share position of
// covered calls and protective puts; both are zero for pure option strategies.
type OptionsStrategy struct {
	Type           StrategyType `json:"type"`
	Underlying     string       `json:"underlying"`
	Legs           []OptionsLeg `json:"legs"`
	StockQuantity  float64      `json:"stockQuantity,omitempty"`
	StockCostBasis float64      `json:"stockCostBasis,omitempty"`

	MaxProfit  ProfitBound `json:"maxProfit"`
	MaxLoss    ProfitBound `json:"maxLoss"`
	Breakevens []float64   `json:"breakevens"`
	Collateral float64     `json:"collateral"`
	// NetCredit is the premium cash flow at open: positive for credit
	// strategies, negative for debit strategies.
	NetCredit float64 `json:"netCredit"`
}

// ExpirationPnL evaluates the strategy's profit or loss if the underlying
// finishes at s: the sum of each leg's signed exercise payoff, plus the stock
// position's move from cost basis, plus the opening premium cash flow. Pure
// function of s and the legs, the at-expiration counterpart of the current
// theoretical value.
func (os OptionsStrategy) ExpirationPnL(s float64) float64 {
	pnl := os.NetCredit
	for _, leg := range os.Legs {
		pnl += leg.PayoffAt(s)
	}
	if os.StockQuantity != 0 {
		pnl += os.StockQuantity * (s - os.StockCostBasis)
	}
	return pnl
}

// LegCredit sums the signed premium cash flows across all legs.
func (os OptionsStrategy) LegCredit() float64 {
	credit := 0.0
	for _, leg := range os.Legs {
		credit += leg.NetCredit()
	}
	return credit
}
