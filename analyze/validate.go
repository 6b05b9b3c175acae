package analyze

import (
	"fmt"

	"github.com/optquant/optcore/models"
)

// Severity classifies a validation finding. Errors block the strategy;
// warnings are informational and never fail the call.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// RiskLevel is the 3-bucket classification from |maxLoss/maxProfit|.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ValidationIssue is one independent finding.
type ValidationIssue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

// StrategyValidation is the full validation result. Findings are returned
// alongside success so the caller decides; only error-severity issues fail it.
type StrategyValidation struct {
	Passed    bool              `json:"passed"`
	RiskLevel RiskLevel         `json:"riskLevel"`
	Issues    []ValidationIssue `json:"issues"`
}

// Constraints bound what the caller is willing to trade.
type Constraints struct {
	MaxLegs      int   `json:"maxLegs"`
	MinLegVolume int64 `json:"minLegVolume"`
}

// DefaultConstraints allows up to six legs and requires some volume on each.
func DefaultConstraints() Constraints {
	return Constraints{MaxLegs: 6, MinLegVolume: 10}
}

// MarketConditions carries the per-leg and regime context supplied by the
// market-data collaborator. LegVolumes aligns with the strategy's legs; a
// missing entry skips the liquidity check for that leg.
type MarketConditions struct {
	UnderlyingPrice  float64 `json:"underlyingPrice"`
	VolatilityRank   float64 `json:"volatilityRank"` // 0..100 percentile of current IV in its own history
	DaysToExpiration int     `json:"daysToExpiration"`
	LegVolumes       []int64 `json:"legVolumes"`
}

const (
	assignmentWindowDays = 30
	highVolRank          = 80.0
	lowVolRank           = 20.0
)

// ValidateStrategy runs every check independently and classifies overall
// risk. Validation findings are never hard failures of this call itself.
func ValidateStrategy(s models.OptionsStrategy, constraints Constraints, market MarketConditions) StrategyValidation {
	if constraints.MaxLegs <= 0 {
		constraints.MaxLegs = DefaultConstraints().MaxLegs
	}

	var issues []ValidationIssue

	if len(s.Legs) == 0 {
		issues = append(issues, ValidationIssue{SeverityError, "leg_count", "strategy has no legs"})
	} else if len(s.Legs) > constraints.MaxLegs {
		issues = append(issues, ValidationIssue{
			SeverityError, "leg_count",
			fmt.Sprintf("%d legs exceeds the maximum of %d", len(s.Legs), constraints.MaxLegs),
		})
	}

	issues = append(issues, assignmentIssues(s, market)...)
	issues = append(issues, liquidityIssues(s, constraints, market)...)
	issues = append(issues, regimeIssues(s, market)...)

	passed := true
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			passed = false
			break
		}
	}

	return StrategyValidation{
		Passed:    passed,
		RiskLevel: classifyRisk(s),
		Issues:    issues,
	}
}

// assignmentIssues flags short in-the-money legs close to expiration, where
// early assignment becomes likely.
func assignmentIssues(s models.OptionsStrategy, market MarketConditions) []ValidationIssue {
	if market.UnderlyingPrice <= 0 || market.DaysToExpiration >= assignmentWindowDays {
		return nil
	}
	var issues []ValidationIssue
	for _, leg := range s.Legs {
		if leg.Side != models.Short {
			continue
		}
		if leg.Contract.IntrinsicValue(market.UnderlyingPrice) <= 0 {
			continue
		}
		issues = append(issues, ValidationIssue{
			SeverityWarning, "early_assignment",
			fmt.Sprintf("short %s at %.2f is in the money with %d days to expiration",
				leg.Contract.Kind, leg.Contract.Strike, market.DaysToExpiration),
		})
	}
	return issues
}

func liquidityIssues(s models.OptionsStrategy, constraints Constraints, market MarketConditions) []ValidationIssue {
	var issues []ValidationIssue
	for i := range s.Legs {
		if i >= len(market.LegVolumes) {
			break
		}
		if market.LegVolumes[i] < constraints.MinLegVolume {
			issues = append(issues, ValidationIssue{
				SeverityWarning, "liquidity",
				fmt.Sprintf("leg %d volume %d below minimum %d", i, market.LegVolumes[i], constraints.MinLegVolume),
			})
		}
	}
	return issues
}

// regimeIssues flags strategy/volatility-regime mismatches: buying premium
// when the volatility rank is already extreme, or selling it when there is no
// premium to collect.
func regimeIssues(s models.OptionsStrategy, market MarketConditions) []ValidationIssue {
	buysPremium := s.Type == models.Straddle || s.Type == models.Strangle ||
		(s.NetCredit < 0 && s.Type == models.Custom)
	sellsPremium := s.NetCredit > 0

	var issues []ValidationIssue
	if buysPremium && market.VolatilityRank > highVolRank {
		issues = append(issues, ValidationIssue{
			SeverityWarning, "vol_regime",
			fmt.Sprintf("buying premium with volatility rank %.0f: implied volatility is already extreme", market.VolatilityRank),
		})
	}
	if sellsPremium && market.VolatilityRank > 0 && market.VolatilityRank < lowVolRank {
		issues = append(issues, ValidationIssue{
			SeverityWarning, "vol_regime",
			fmt.Sprintf("selling premium with volatility rank %.0f: little premium to collect", market.VolatilityRank),
		})
	}
	return issues
}

// classifyRisk buckets |maxLoss/maxProfit|: above 3 high, above 1 medium,
// else low. Unbounded loss is always high.
func classifyRisk(s models.OptionsStrategy) RiskLevel {
	if s.MaxLoss.Unlimited {
		return RiskHigh
	}
	if s.MaxProfit.Unlimited {
		return RiskLow
	}
	if s.MaxProfit.Amount <= 0 {
		return RiskHigh
	}
	ratio := s.MaxLoss.Amount / s.MaxProfit.Amount
	switch {
	case ratio > 3:
		return RiskHigh
	case ratio > 1:
		return RiskMedium
	default:
		return RiskLow
	}
}
