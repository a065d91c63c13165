package analytics

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/bobmcallan/vire-analytics/internal/models"
)

var (
	// ErrInsufficientFlows: XIRR needs at least one negative and one positive flow.
	ErrInsufficientFlows = errors.New("xirr: need at least one outflow and one inflow")
	// ErrNoSignChange: NPV does not change sign anywhere in the rate domain.
	ErrNoSignChange = errors.New("xirr: no root in rate bracket")
	// ErrNoConvergence: the root-finder used its whole iteration budget.
	ErrNoConvergence = errors.New("xirr: did not converge")
)

// XIRROptions bounds the XIRR root-finder.
type XIRROptions struct {
	Guess         float64
	Lower         float64 // rate domain floor; must stay above -1
	Upper         float64
	Tolerance     float64 // absolute tolerance on the rate
	MaxIterations int
}

// DefaultXIRROptions returns the standard solver settings: rates in
// [-0.999, 10], starting from 10%, to 1e-7 within 100 iterations.
func DefaultXIRROptions() XIRROptions {
	return XIRROptions{
		Guess:         0.1,
		Lower:         -0.999,
		Upper:         10,
		Tolerance:     1e-7,
		MaxIterations: 100,
	}
}

// BuildCashFlows derives the investor cash-flow schedule for [start, end]:
//   - an opening outflow of openingValue at start, standing in for positions
//     bought before the window;
//   - each transaction's signed cash amount (buys, fees, taxes negative;
//     sales, dividends positive; splits and FX events carry no cash);
//   - a terminal inflow of currentValue at end, liquidating the portfolio.
//
// The result is sorted chronologically.
func BuildCashFlows(txs []models.Transaction, start, end time.Time, openingValue, currentValue float64) []models.CashFlow {
	start, end = models.Day(start), models.Day(end)

	var flows []models.CashFlow
	if openingValue > 0 {
		flows = append(flows, models.CashFlow{Date: start, Amount: -openingValue})
	}

	for _, t := range txs {
		d := t.TradeDate()
		if d.Before(start) || d.After(end) {
			continue
		}
		amount := t.CashAmount()
		if amount == 0 {
			continue
		}
		flows = append(flows, models.CashFlow{Date: d, Amount: amount})
	}

	if currentValue > 0 {
		flows = append(flows, models.CashFlow{Date: end, Amount: currentValue})
	}

	sort.SliceStable(flows, func(i, j int) bool {
		return flows[i].Date.Before(flows[j].Date)
	})
	return flows
}

// CalculateXIRR finds the annual rate r with Σ CF_i / (1+r)^(days_i/365) = 0,
// days measured from the earliest flow. It returns an error instead of a guess
// when no root is bracketed or the solver does not converge.
func CalculateXIRR(flows []models.CashFlow, opts XIRROptions) (float64, error) {
	hasNeg, hasPos := false, false
	for _, f := range flows {
		if f.Amount < 0 {
			hasNeg = true
		}
		if f.Amount > 0 {
			hasPos = true
		}
	}
	if !hasNeg || !hasPos {
		return 0, ErrInsufficientFlows
	}

	base := flows[0].Date
	for _, f := range flows {
		if f.Date.Before(base) {
			base = f.Date
		}
	}
	years := make([]float64, len(flows))
	for i, f := range flows {
		years[i] = f.Date.Sub(base).Hours() / 24 / 365
	}

	npv := func(rate float64) float64 {
		sum := 0.0
		for i, f := range flows {
			sum += f.Amount / math.Pow(1+rate, years[i])
		}
		return sum
	}

	lo, hi := opts.Lower, opts.Upper
	guess := math.Min(math.Max(opts.Guess, lo), hi)

	fLo, fGuess, fHi := npv(lo), npv(guess), npv(hi)
	if !isFinite(fLo) || !isFinite(fGuess) || !isFinite(fHi) {
		return 0, ErrNoConvergence
	}
	if fGuess == 0 {
		return guess, nil
	}

	// Search the half of the domain, split at the guess, that holds a sign change.
	switch {
	case fLo*fGuess < 0:
		return brent(npv, lo, guess, fLo, fGuess, opts.Tolerance, opts.MaxIterations)
	case fGuess*fHi < 0:
		return brent(npv, guess, hi, fGuess, fHi, opts.Tolerance, opts.MaxIterations)
	case fLo == 0:
		return lo, nil
	case fHi == 0:
		return hi, nil
	default:
		return 0, ErrNoSignChange
	}
}

// brent finds a root of f in [a, b], where fa and fb have opposite signs.
// Inverse quadratic interpolation or secant steps are taken when they stay
// inside the bracket and shrink it fast enough; otherwise it bisects.
func brent(f func(float64) float64, a, b, fa, fb, tol float64, maxIter int) (float64, error) {
	const eps = 2.220446049250313e-16

	c, fc := b, fb
	var d, e float64

	for iter := 0; iter < maxIter; iter++ {
		if (fb > 0 && fc > 0) || (fb < 0 && fc < 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol1 := 2*eps*math.Abs(b) + 0.5*tol
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 || fb == 0 {
			return b, nil
		}

		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			s := fb / fa
			var p, q float64
			if a == c {
				// secant
				p = 2 * xm * s
				q = 1 - s
			} else {
				// inverse quadratic interpolation
				qq := fa / fc
				r := fb / fc
				p = s * (2*xm*qq*(qq-r) - (b-a)*(r-1))
				q = (qq - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			if 2*p < math.Min(3*xm*q-math.Abs(tol1*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}

		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		fb = f(b)
		if !isFinite(fb) {
			return 0, ErrNoConvergence
		}
	}
	return 0, ErrNoConvergence
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
