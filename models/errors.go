package models

import "fmt"

// StrategyDefinitionError reports an invalid strategy build request: strikes
// out of order for the variant, wrong leg arity, mismatched contracts. It is
// fatal to the construction call and never retried.
type StrategyDefinitionError struct {
	Strategy StrategyType
	Reason   string
}

func (e *StrategyDefinitionError) Error() string {
	if e.Strategy == "" {
		return fmt.Sprintf("invalid strategy definition: %s", e.Reason)
	}
	return fmt.Sprintf("invalid %s definition: %s", e.Strategy, e.Reason)
}

// ConvergenceError reports an iterative solver that hit its iteration cap
// without meeting tolerance. The caller should retry with different inputs or
// accept a stale value; the solver never fabricates a result.
type ConvergenceError struct {
	Method     string
	Iterations int
	LastValue  float64
	PriceError float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s did not converge after %d iterations (last value %.6f, price error %.6f)",
		e.Method, e.Iterations, e.LastValue, e.PriceError)
}

// DomainRangeError reports a numeric input outside its valid domain, e.g. a
// non-positive strike or negative volatility. Malformed market inputs are
// rejected with this error, never substituted with synthetic values.
type DomainRangeError struct {
	Param   string
	Value   float64
	Require string
}

func (e *DomainRangeError) Error() string {
	return fmt.Sprintf("%s = %g out of range, require %s", e.Param, e.Value, e.Require)
}
