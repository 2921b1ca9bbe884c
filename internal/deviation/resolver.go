// Package deviation implements the OSR (on-sanction-risk) layer: deciding
// whether borderline policy failures can be carried under conditions instead
// of rejecting outright.
package deviation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"creditdesk/internal/domain"
)

// Factors is the compensating-factor snapshot, computed once per call from
// the applicant and bureau data.
type Factors struct {
	StrongCoApplicant   bool
	ExistingCustomer    bool
	HasCollateral       bool
	CollateralMargin    decimal.Decimal
	StableEmployment    bool
	CleanPaymentHistory bool
	LowUtilization      bool
}

var (
	strongCoApplicantIncome = decimal.NewFromInt(50_000)
	lowUtilizationCeiling   = decimal.RequireFromString("0.30")
	collateralMarginFloor   = decimal.RequireFromString("0.20")
	incomeShortfallFloor    = decimal.RequireFromString("0.85")
	foirReductionRatio      = decimal.RequireFromString("0.90")
	ltvCap                  = decimal.RequireFromString("0.80")
)

// SnapshotFactors identifies the positive attributes that may offset policy
// deviations.
func SnapshotFactors(applicant *domain.ApplicantProfile, bureau *domain.CreditBureauResult) Factors {
	f := Factors{
		ExistingCustomer:    applicant.IsExistingCustomer,
		HasCollateral:       applicant.HasCollateral,
		StableEmployment:    applicant.YearsOfExperience >= 3,
		CleanPaymentHistory: bureau.CleanPaymentHistory(),
		LowUtilization:      bureau.UtilizationRatio.LessThan(lowUtilizationCeiling),
	}

	if applicant.HasCoApplicant {
		if applicant.CoApplicantIncome.GreaterThanOrEqual(strongCoApplicantIncome) ||
			applicant.CoApplicantCreditScore >= 750 {
			f.StrongCoApplicant = true
		}
	}

	if applicant.HasCollateral && applicant.CollateralValue.IsPositive() &&
		applicant.RequestedLoanAmount.IsPositive() {
		margin := applicant.CollateralValue.Sub(applicant.RequestedLoanAmount).
			Div(applicant.RequestedLoanAmount)
		if margin.IsPositive() {
			f.CollateralMargin = margin
		}
	}

	return f
}

// Outcome is the resolver's verdict. AdjustedAmount is zero when the
// requested amount stands.
type Outcome struct {
	Approvable      bool
	Conditions      []string
	AdjustedAmount  decimal.Decimal
	RejectionReason string
}

// compensation is a single strategy's offer: conditions plus an optional
// reduced amount.
type compensation struct {
	conditions     []string
	adjustedAmount decimal.Decimal
}

// strategy decides whether the factor snapshot can carry one waivable
// failure. The table over RuleID is closed: rules without an entry are never
// compensable.
type strategy func(f domain.Finding, factors Factors, applicant *domain.ApplicantProfile) (compensation, bool)

var strategies = map[domain.RuleID]strategy{
	domain.RuleCreditScore:       compensateCreditScore,
	domain.RuleMinimumIncome:     compensateIncome,
	domain.RuleCoApplicantIncome: compensateIncome,
	domain.RuleFOIR:              compensateFOIR,
	domain.RuleAgeAtMaturity:     compensateAgeAtMaturity,
	domain.RuleLTVRatio:          compensateLTV,
	domain.RuleMaximumLoanAmount: compensateMaxAmount,
}

// Resolve partitions the collected findings and negotiates each waivable
// failure against the compensating factors. Any non-waivable failure, or a
// CRITICAL risk level, ends the negotiation immediately.
func Resolve(applicant *domain.ApplicantProfile, bureau *domain.CreditBureauResult,
	findings []domain.Finding, riskLevel domain.RiskLevel) Outcome {

	if riskLevel == domain.RiskCritical {
		return Outcome{RejectionReason: "Risk level too high for OSR consideration"}
	}

	var waivable []domain.Finding
	var blockers []string
	for _, f := range findings {
		if f.Passed {
			continue
		}
		if !f.Waivable {
			blockers = append(blockers, f.Message)
			continue
		}
		waivable = append(waivable, f)
	}

	if len(blockers) > 0 {
		return Outcome{RejectionReason: strings.Join(blockers, "; ")}
	}

	factors := SnapshotFactors(applicant, bureau)

	var conditions []string
	adjusted := decimal.Decimal{}
	haveAdjusted := false

	for _, f := range waivable {
		comp, ok := compensate(f, factors, applicant)
		if !ok {
			return Outcome{RejectionReason: "Cannot compensate for: " + f.Message}
		}
		conditions = append(conditions, comp.conditions...)
		if comp.adjustedAmount.IsPositive() {
			// Several strategies may reduce the amount; the most
			// conservative one wins.
			if !haveAdjusted || comp.adjustedAmount.LessThan(adjusted) {
				adjusted = comp.adjustedAmount
				haveAdjusted = true
			}
		}
	}

	switch riskLevel {
	case domain.RiskHigh:
		conditions = append(conditions, "Requires Credit Head approval")
	case domain.RiskMedium:
		conditions = append(conditions, "Requires Senior Credit Officer approval")
	}

	out := Outcome{Approvable: true, Conditions: conditions}
	if haveAdjusted {
		out.AdjustedAmount = adjusted
	}
	return out
}

func compensate(f domain.Finding, factors Factors, applicant *domain.ApplicantProfile) (compensation, bool) {
	s, ok := strategies[f.Rule]
	if !ok {
		return compensation{}, false
	}
	return s(f, factors, applicant)
}

func compensateCreditScore(_ domain.Finding, factors Factors, _ *domain.ApplicantProfile) (compensation, bool) {
	if factors.StrongCoApplicant {
		return compensation{conditions: []string{"Co-applicant to be added as co-borrower"}}, true
	}
	if factors.HasCollateral && factors.CollateralMargin.GreaterThan(collateralMarginFloor) {
		return compensation{conditions: []string{"Collateral security mandatory"}}, true
	}
	return compensation{}, false
}

func compensateIncome(f domain.Finding, factors Factors, applicant *domain.ApplicantProfile) (compensation, bool) {
	if factors.StrongCoApplicant {
		return compensation{conditions: []string{"Co-applicant income to be considered for eligibility"}}, true
	}

	// Within 15% of the requirement: scale the loan down proportionally.
	if f.Actual.IsPositive() && f.Required.IsPositive() {
		ratio := f.Actual.Div(f.Required)
		if ratio.GreaterThanOrEqual(incomeShortfallFloor) {
			adjusted := applicant.RequestedLoanAmount.Mul(ratio).Round(0)
			return compensation{
				conditions:     []string{fmt.Sprintf("Loan amount reduced to %s", domain.FormatINR(adjusted))},
				adjustedAmount: adjusted,
			}, true
		}
	}
	return compensation{}, false
}

func compensateFOIR(_ domain.Finding, factors Factors, applicant *domain.ApplicantProfile) (compensation, bool) {
	if factors.StableEmployment || factors.ExistingCustomer {
		adjusted := applicant.RequestedLoanAmount.Mul(foirReductionRatio).Round(0)
		return compensation{
			conditions: []string{
				fmt.Sprintf("Loan amount reduced to %s", domain.FormatINR(adjusted)),
				"Salary account to be maintained with bank",
			},
			adjustedAmount: adjusted,
		}, true
	}
	return compensation{}, false
}

func compensateAgeAtMaturity(_ domain.Finding, _ Factors, _ *domain.ApplicantProfile) (compensation, bool) {
	return compensation{conditions: []string{"Tenure to be reduced to meet age limit at maturity"}}, true
}

func compensateLTV(_ domain.Finding, factors Factors, applicant *domain.ApplicantProfile) (compensation, bool) {
	if !factors.HasCollateral {
		return compensation{}, false
	}
	adjusted := applicant.CollateralValue.Mul(ltvCap).Round(0)
	return compensation{
		conditions:     []string{fmt.Sprintf("Loan amount capped at %s (80%% LTV)", domain.FormatINR(adjusted))},
		adjustedAmount: adjusted,
	}, true
}

func compensateMaxAmount(f domain.Finding, _ Factors, _ *domain.ApplicantProfile) (compensation, bool) {
	adjusted := f.Required
	return compensation{
		conditions:     []string{fmt.Sprintf("Loan amount reduced to maximum eligible: %s", domain.FormatINR(adjusted))},
		adjustedAmount: adjusted,
	}, true
}
