package strategy

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/optquant/optcore/models"
)

func genLeg() gopter.Gen {
	return gopter.CombineGens(
		gen.Bool(),
		gen.Bool(),
		gen.Float64Range(50, 150),
		gen.IntRange(1, 3),
		gen.Float64Range(0.5, 10),
	).Map(func(vals []interface{}) models.OptionsLeg {
		kind, side := models.Call, models.Long
		action := models.BuyToOpen
		if vals[0].(bool) {
			kind = models.Put
		}
		if vals[1].(bool) {
			side, action = models.Short, models.SellToOpen
		}
		c := series(kind, vals[2].(float64))
		return models.OptionsLeg{
			Contract:   c,
			Side:       side,
			Action:     action,
			Quantity:   vals[3].(int),
			EntryPrice: vals[4].(float64),
		}
	})
}

func TestDerivedBoundsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("bounds and breakevens agree with the payoff", prop.ForAll(
		func(legs []models.OptionsLeg) bool {
			s, err := NewCustom(legs)
			if err != nil {
				return false
			}

			// Every reported breakeven is a zero of the expiration P&L.
			for _, be := range s.Breakevens {
				if math.Abs(s.ExpirationPnL(be)) > 1e-6 {
					return false
				}
			}

			// No grid point may beat a finite bound.
			for price := 0.0; price <= 300; price += 0.25 {
				pnl := s.ExpirationPnL(price)
				if !s.MaxProfit.Unlimited && pnl > s.MaxProfit.Amount+1e-6 {
					return false
				}
				if !s.MaxLoss.Unlimited && pnl < -s.MaxLoss.Amount-1e-6 {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(3, genLeg()),
	))

	properties.TestingRun(t)
}
