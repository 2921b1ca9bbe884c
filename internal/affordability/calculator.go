// Package affordability estimates the proposed EMI and checks the
// obligations-to-income ratio (FOIR) against the policy ceiling.
package affordability

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"creditdesk/internal/domain"
	"creditdesk/internal/policy"
)

// Result is one affordability assessment. EstimatedEMI is always defined,
// even when the check fails, so it can be reported on the envelope.
type Result struct {
	Affordable   bool
	EstimatedEMI decimal.Decimal
	Finding      *domain.Finding
}

// EstimateEMI computes the fixed monthly payment by the standard
// amortization formula at the given annual rate. Zero rate or tenure falls
// back to an even principal split.
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
func EstimateEMI(principal decimal.Decimal, annualRatePct decimal.Decimal, tenureMonths int) decimal.Decimal {
	if tenureMonths <= 0 {
		return principal
	}

	monthlyRate := annualRatePct.InexactFloat64() / 12.0 / 100.0
	if monthlyRate <= 0 {
		return principal.Div(decimal.NewFromInt(int64(tenureMonths))).Round(2)
	}

	// Float for the power term, decimal for the money. Same approach as a
	// fixed-payment amortization schedule.
	factor := math.Pow(1+monthlyRate, float64(tenureMonths))
	payment := principal.InexactFloat64() * monthlyRate * factor / (factor - 1)
	return decimal.NewFromFloat(payment).Round(2)
}

// Compute prices the requested loan at the midpoint of the policy rate band
// and checks FOIR = (existing EMIs + proposed EMI) / total income against
// the policy ceiling. Non-positive income fails closed.
func Compute(applicant *domain.ApplicantProfile, p *policy.Policy) Result {
	rate := p.AffordabilityRateRange().Midpoint()
	emi := EstimateEMI(applicant.RequestedLoanAmount, rate, applicant.RequestedTenureMonths)

	totalIncome := applicant.TotalIncome()
	if !totalIncome.IsPositive() {
		return Result{Affordable: false, EstimatedEMI: emi}
	}

	foir := applicant.ExistingEMIs.Add(emi).Div(totalIncome)
	maxFOIR := p.EffectiveMaxFOIR()

	if foir.GreaterThan(maxFOIR) {
		return Result{
			EstimatedEMI: emi,
			Finding: &domain.Finding{
				Rule:     domain.RuleFOIR,
				Actual:   foir,
				Required: maxFOIR,
				Message: fmt.Sprintf("FOIR %s exceeds limit of %s",
					domain.FormatPercent(foir), domain.FormatPercent(maxFOIR)),
				Waivable: true,
				Severity: domain.SeverityHigh,
			},
		}
	}

	return Result{
		Affordable:   true,
		EstimatedEMI: emi,
		Finding: &domain.Finding{
			Rule:     domain.RuleFOIR,
			Passed:   true,
			Actual:   foir,
			Required: maxFOIR,
			Message: fmt.Sprintf("FOIR %s within acceptable limit",
				domain.FormatPercent(foir)),
			Waivable: true,
			Severity: domain.SeverityMedium,
		},
	}
}
