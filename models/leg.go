package models

// Side is the direction of a leg.
type Side string

const (
	Long  Side = "long"
	Short Side = "short"
)

// OpenAction is the opening order type for a leg.
type OpenAction string

const (
	BuyToOpen  OpenAction = "buy_to_open"
	SellToOpen OpenAction = "sell_to_open"
)

// OptionsLeg is one component of a strategy. A leg never exists without a
// contract; Quantity is the number of contracts (always positive, direction
// lives in Side).
type OptionsLeg struct {
	Contract   OptionContract `json:"contract"`
	Side       Side           `json:"side"`
	Action     OpenAction     `json:"action"`
	Quantity   int            `json:"quantity"`
	EntryPrice float64        `json:"entryPrice"`
}

// Sign returns +1 for long legs and -1 for short legs.
func (l OptionsLeg) Sign() float64 {
	if l.Side == Short {
		return -1
	}
	return 1
}

// PayoffAt returns the leg's signed expiration payoff at underlying price s,
// in currency (quantity and multiplier applied, premium excluded).
func (l OptionsLeg) PayoffAt(s float64) float64 {
	return l.Sign() * float64(l.Quantity) * l.Contract.Multiplier * l.Contract.IntrinsicValue(s)
}

// NetCredit returns the signed premium cash flow at open: positive when the
// leg was sold, negative when bought.
func (l OptionsLeg) NetCredit() float64 {
	return -l.Sign() * float64(l.Quantity) * l.Contract.Multiplier * l.EntryPrice
}

func (l OptionsLeg) Validate() error {
	if err := l.Contract.Validate(); err != nil {
		return err
	}
	if l.Quantity <= 0 {
		return &DomainRangeError{Param: "quantity", Value: float64(l.Quantity), Require: "> 0"}
	}
	if l.EntryPrice < 0 {
		return &DomainRangeError{Param: "entryPrice", Value: l.EntryPrice, Require: ">= 0"}
	}
	if l.Side != Long && l.Side != Short {
		return &StrategyDefinitionError{Reason: "leg side must be long or short"}
	}
	if l.Side == Long && l.Action == SellToOpen || l.Side == Short && l.Action == BuyToOpen {
		return &StrategyDefinitionError{Reason: "leg side conflicts with opening action"}
	}
	return nil
}
