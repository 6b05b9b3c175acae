// Package strategy builds named multi-leg option strategies from leg
// parameters. Each constructor returns a fully-populated, immutable
// OptionsStrategy with max profit, max loss, breakevens and collateral
// derived on construction. Premiums are quoted per share; derived amounts are
// in currency with quantity and contract multiplier applied.
package strategy

import (
	"fmt"
	"math"
	"time"

	"github.com/optquant/optcore/models"
)

// LongCall builds a single-leg long call.
func LongCall(c models.OptionContract, quantity int, premium float64) (models.OptionsStrategy, error) {
	return singleLeg(models.LongCall, c, models.Call, quantity, premium)
}

// LongPut builds a single-leg long put.
func LongPut(c models.OptionContract, quantity int, premium float64) (models.OptionsStrategy, error) {
	return singleLeg(models.LongPut, c, models.Put, quantity, premium)
}

func singleLeg(st models.StrategyType, c models.OptionContract, kind models.OptionKind, quantity int, premium float64) (models.OptionsStrategy, error) {
	if c.Kind != kind {
		return models.OptionsStrategy{}, &models.StrategyDefinitionError{Strategy: st, Reason: fmt.Sprintf("requires a %s contract, got %s", kind, c.Kind)}
	}
	s := models.OptionsStrategy{
		Type:       st,
		Underlying: c.Underlying,
		Legs:       []models.OptionsLeg{newLeg(c, models.Long, quantity, premium)},
	}
	return finish(s, 0)
}

// CashSecuredPut builds a short put secured by cash collateral equal to the
// full strike value.
func CashSecuredPut(c models.OptionContract, quantity int, premium float64) (models.OptionsStrategy, error) {
	if c.Kind != models.Put {
		return models.OptionsStrategy{}, &models.StrategyDefinitionError{Strategy: models.CashSecuredPut, Reason: "requires a put contract"}
	}
	s := models.OptionsStrategy{
		Type:       models.CashSecuredPut,
		Underlying: c.Underlying,
		Legs:       []models.OptionsLeg{newLeg(c, models.Short, quantity, premium)},
	}
	return finish(s, c.Strike*c.Multiplier*float64(quantity))
}

// CoveredCall builds a short call written against an implicit long stock
// position of quantity*multiplier shares at the given cost basis. The stock
// is context, not a leg.
func CoveredCall(c models.OptionContract, quantity int, premium, stockCostBasis float64) (models.OptionsStrategy, error) {
	if c.Kind != models.Call {
		return models.OptionsStrategy{}, &models.StrategyDefinitionError{Strategy: models.CoveredCall, Reason: "requires a call contract"}
	}
	if stockCostBasis <= 0 {
		return models.OptionsStrategy{}, &models.DomainRangeError{Param: "stockCostBasis", Value: stockCostBasis, Require: "> 0"}
	}
	s := models.OptionsStrategy{
		Type:           models.CoveredCall,
		Underlying:     c.Underlying,
		Legs:           []models.OptionsLeg{newLeg(c, models.Short, quantity, premium)},
		StockQuantity:  float64(quantity) * c.Multiplier,
		StockCostBasis: stockCostBasis,
	}
	return finish(s, 0)
}

// ProtectivePut builds a long put held against an implicit long stock
// position of quantity*multiplier shares at the given cost basis.
func ProtectivePut(c models.OptionContract, quantity int, premium, stockCostBasis float64) (models.OptionsStrategy, error) {
	if c.Kind != models.Put {
		return models.OptionsStrategy{}, &models.StrategyDefinitionError{Strategy: models.ProtectivePut, Reason: "requires a put contract"}
	}
	if stockCostBasis <= 0 {
		return models.OptionsStrategy{}, &models.DomainRangeError{Param: "stockCostBasis", Value: stockCostBasis, Require: "> 0"}
	}
	s := models.OptionsStrategy{
		Type:           models.ProtectivePut,
		Underlying:     c.Underlying,
		Legs:           []models.OptionsLeg{newLeg(c, models.Long, quantity, premium)},
		StockQuantity:  float64(quantity) * c.Multiplier,
		StockCostBasis: stockCostBasis,
	}
	return finish(s, 0)
}

// Straddle builds a long straddle: long call plus long put at the same strike
// and expiration.
func Straddle(call, put models.OptionContract, quantity int, callPremium, putPremium float64) (models.OptionsStrategy, error) {
	if err := samePair(models.Straddle, call, put); err != nil {
		return models.OptionsStrategy{}, err
	}
	if call.Strike != put.Strike {
		return models.OptionsStrategy{}, &models.StrategyDefinitionError{Strategy: models.Straddle, Reason: "call and put strikes must match"}
	}
	s := models.OptionsStrategy{
		Type:       models.Straddle,
		Underlying: call.Underlying,
		Legs: []models.OptionsLeg{
			newLeg(call, models.Long, quantity, callPremium),
			newLeg(put, models.Long, quantity, putPremium),
		},
	}
	return finish(s, 0)
}

// Strangle builds a long strangle: long OTM put below a long OTM call.
func Strangle(put, call models.OptionContract, quantity int, putPremium, callPremium float64) (models.OptionsStrategy, error) {
	if err := samePair(models.Strangle, call, put); err != nil {
		return models.OptionsStrategy{}, err
	}
	if put.Strike >= call.Strike {
		return models.OptionsStrategy{}, &models.StrategyDefinitionError{
			Strategy: models.Strangle,
			Reason:   fmt.Sprintf("put strike %.2f must be below call strike %.2f", put.Strike, call.Strike),
		}
	}
	s := models.OptionsStrategy{
		Type:       models.Strangle,
		Underlying: call.Underlying,
		Legs: []models.OptionsLeg{
			newLeg(put, models.Long, quantity, putPremium),
			newLeg(call, models.Long, quantity, callPremium),
		},
	}
	return finish(s, 0)
}

// VerticalSpread builds a two-leg spread of the same kind and expiration:
// long one strike, short another. Debit or credit follows from the premiums.
func VerticalSpread(long, short models.OptionContract, quantity int, longPremium, shortPremium float64) (models.OptionsStrategy, error) {
	if long.Kind != short.Kind {
		return models.OptionsStrategy{}, &models.StrategyDefinitionError{Strategy: models.VerticalSpread, Reason: "legs must be the same option kind"}
	}
	if err := sameSeries(models.VerticalSpread, long, short); err != nil {
		return models.OptionsStrategy{}, err
	}
	if long.Strike == short.Strike {
		return models.OptionsStrategy{}, &models.StrategyDefinitionError{Strategy: models.VerticalSpread, Reason: "leg strikes must differ"}
	}
	s := models.OptionsStrategy{
		Type:       models.VerticalSpread,
		Underlying: long.Underlying,
		Legs: []models.OptionsLeg{
			newLeg(long, models.Long, quantity, longPremium),
			newLeg(short, models.Short, quantity, shortPremium),
		},
	}
	collateral := 0.0
	if shortPremium > longPremium {
		// Credit spread: margin is the strike width.
		collateral = math.Abs(long.Strike-short.Strike) * long.Multiplier * float64(quantity)
	}
	return finish(s, collateral)
}

// IronCondor builds the four-leg condor from its put and call wings. Strikes
// must be strictly monotonic: putSell < putBuy < callBuy < callSell;
// anything else (e.g. putSell >= putBuy) fails construction.
func IronCondor(putSell, putBuy, callBuy, callSell models.OptionContract, quantity int, putSellPremium, putBuyPremium, callBuyPremium, callSellPremium float64) (models.OptionsStrategy, error) {
	if putSell.Kind != models.Put || putBuy.Kind != models.Put || callBuy.Kind != models.Call || callSell.Kind != models.Call {
		return models.OptionsStrategy{}, &models.StrategyDefinitionError{Strategy: models.IronCondor, Reason: "requires two puts below two calls"}
	}
	if err := sameSeries(models.IronCondor, putSell, putBuy, callBuy, callSell); err != nil {
		return models.OptionsStrategy{}, err
	}
	if !(putSell.Strike < putBuy.Strike && putBuy.Strike < callBuy.Strike && callBuy.Strike < callSell.Strike) {
		return models.OptionsStrategy{}, &models.StrategyDefinitionError{
			Strategy: models.IronCondor,
			Reason: fmt.Sprintf("strikes must be strictly increasing: putSell %.2f, putBuy %.2f, callBuy %.2f, callSell %.2f",
				putSell.Strike, putBuy.Strike, callBuy.Strike, callSell.Strike),
		}
	}
	s := models.OptionsStrategy{
		Type:       models.IronCondor,
		Underlying: putSell.Underlying,
		Legs: []models.OptionsLeg{
			newLeg(putSell, models.Short, quantity, putSellPremium),
			newLeg(putBuy, models.Long, quantity, putBuyPremium),
			newLeg(callBuy, models.Long, quantity, callBuyPremium),
			newLeg(callSell, models.Short, quantity, callSellPremium),
		},
	}
	maxWidth := math.Max(putBuy.Strike-putSell.Strike, callSell.Strike-callBuy.Strike)
	return finish(s, maxWidth*putSell.Multiplier*float64(quantity))
}

// Butterfly builds a long butterfly of one kind: long one wing at each of the
// outer strikes, short two at the body. Wings must be symmetric.
func Butterfly(low, mid, high models.OptionContract, quantity int, lowPremium, midPremium, highPremium float64) (models.OptionsStrategy, error) {
	if low.Kind != mid.Kind || mid.Kind != high.Kind {
		return models.OptionsStrategy{}, &models.StrategyDefinitionError{Strategy: models.Butterfly, Reason: "legs must be the same option kind"}
	}
	if err := sameSeries(models.Butterfly, low, mid, high); err != nil {
		return models.OptionsStrategy{}, err
	}
	if !(low.Strike < mid.Strike && mid.Strike < high.Strike) {
		return models.OptionsStrategy{}, &models.StrategyDefinitionError{
			Strategy: models.Butterfly,
			Reason:   fmt.Sprintf("strikes must be strictly increasing: %.2f, %.2f, %.2f", low.Strike, mid.Strike, high.Strike),
		}
	}
	if math.Abs((mid.Strike-low.Strike)-(high.Strike-mid.Strike)) > 1e-9 {
		return models.OptionsStrategy{}, &models.StrategyDefinitionError{Strategy: models.Butterfly, Reason: "wings must be symmetric around the body"}
	}
	s := models.OptionsStrategy{
		Type:       models.Butterfly,
		Underlying: low.Underlying,
		Legs: []models.OptionsLeg{
			newLeg(low, models.Long, quantity, lowPremium),
			newLeg(mid, models.Short, 2*quantity, midPremium),
			newLeg(high, models.Long, quantity, highPremium),
		},
	}
	return finish(s, 0)
}

// NewCustom builds a strategy from arbitrary legs and derives its bounds
// numerically from the expiration payoff. All legs must share an underlying.
func NewCustom(legs []models.OptionsLeg) (models.OptionsStrategy, error) {
	if len(legs) == 0 {
		return models.OptionsStrategy{}, &models.StrategyDefinitionError{Strategy: models.Custom, Reason: "at least one leg required"}
	}
	underlying := legs[0].Contract.Underlying
	for _, leg := range legs[1:] {
		if leg.Contract.Underlying != underlying {
			return models.OptionsStrategy{}, &models.StrategyDefinitionError{Strategy: models.Custom, Reason: "legs span multiple underlyings"}
		}
	}
	s := models.OptionsStrategy{
		Type:       models.Custom,
		Underlying: underlying,
		Legs:       append([]models.OptionsLeg(nil), legs...),
	}
	return finish(s, 0)
}

func newLeg(c models.OptionContract, side models.Side, quantity int, premium float64) models.OptionsLeg {
	action := models.BuyToOpen
	if side == models.Short {
		action = models.SellToOpen
	}
	if c.Multiplier == 0 {
		c.Multiplier = models.DefaultMultiplier
	}
	return models.OptionsLeg{
		Contract:   c,
		Side:       side,
		Action:     action,
		Quantity:   quantity,
		EntryPrice: premium,
	}
}

// finish validates the legs, derives P&L bounds and breakevens from the
// expiration payoff and freezes the strategy.
func finish(s models.OptionsStrategy, collateral float64) (models.OptionsStrategy, error) {
	for i := range s.Legs {
		if err := s.Legs[i].Validate(); err != nil {
			return models.OptionsStrategy{}, fmt.Errorf("leg %d: %w", i, err)
		}
	}
	s.NetCredit = s.LegCredit()
	s.MaxProfit, s.MaxLoss, s.Breakevens = payoffBounds(s)
	s.Collateral = collateral
	if collateral == 0 && s.StockQuantity == 0 && s.NetCredit > 0 && !s.MaxLoss.Unlimited {
		// Credit received against a defined risk: margin the max loss.
		// Stock-covered positions need no extra margin, the shares cover.
		s.Collateral = s.MaxLoss.Amount
	}
	return s, nil
}

func samePair(st models.StrategyType, call, put models.OptionContract) error {
	if call.Kind != models.Call || put.Kind != models.Put {
		return &models.StrategyDefinitionError{Strategy: st, Reason: "requires one call and one put"}
	}
	return sameSeries(st, call, put)
}

func sameSeries(st models.StrategyType, contracts ...models.OptionContract) error {
	first := contracts[0]
	for _, c := range contracts[1:] {
		if c.Underlying != first.Underlying {
			return &models.StrategyDefinitionError{Strategy: st, Reason: "legs span multiple underlyings"}
		}
		if !c.Expiration.Equal(first.Expiration) {
			return &models.StrategyDefinitionError{Strategy: st, Reason: "legs span multiple expirations"}
		}
	}
	return nil
}

// EntryCost returns the cash needed to open the strategy at its recorded
// entry prices: positive for debit strategies, negative when premium was
// collected. Stock cost for covered positions is not included.
func EntryCost(s models.OptionsStrategy) float64 {
	return -s.NetCredit
}

// DaysToExpiration returns the nearest leg expiration in whole calendar days.
func DaysToExpiration(s models.OptionsStrategy, asOf time.Time) int {
	days := math.MaxInt32
	for _, leg := range s.Legs {
		if d := leg.Contract.DaysToExpiry(asOf); d < days {
			days = d
		}
	}
	if days == math.MaxInt32 {
		return 0
	}
	return days
}
