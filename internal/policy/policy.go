// Package policy resolves (bank, loan type) pairs to immutable policy
// records, optionally enhanced from a document-retrieval collaborator.
package policy

import (
	"github.com/shopspring/decimal"

	"creditdesk/internal/domain"
)

// Provenance records where a resolved policy came from.
type Provenance string

const (
	SourceStatic      Provenance = "static"
	SourceRAGEnhanced Provenance = "rag_enhanced"
	SourceRAGOnly     Provenance = "rag_only"
)

// RateRange is an indicative annual interest band in percent.
type RateRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Midpoint is the annual rate the engine prices estimates at.
func (r RateRange) Midpoint() decimal.Decimal {
	return r.Min.Add(r.Max).Div(decimal.NewFromInt(2))
}

func (r RateRange) String() string {
	return r.Min.String() + "% - " + r.Max.String() + "%"
}

// Policy is one bank x loan-type record. Records are loaded once at startup
// and never mutated; enhancement produces a new merged copy.
type Policy struct {
	ProductName string `json:"product_name,omitempty"`

	MinCreditScore      int `json:"min_credit_score,omitempty"`
	MinCoApplicantScore int `json:"min_co_applicant_score,omitempty"`

	MinCoApplicantIncome  decimal.Decimal `json:"min_co_applicant_income,omitempty"`
	MinIncomeSalaried     decimal.Decimal `json:"min_income_salaried,omitempty"`
	MinIncomeSelfEmployed decimal.Decimal `json:"min_income_self_employed,omitempty"`
	MinIncome             decimal.Decimal `json:"min_income,omitempty"`
	MaxFOIR               decimal.Decimal `json:"max_foir,omitempty"`

	MinAmount                  decimal.Decimal `json:"min_amount,omitempty"`
	MaxAmount                  decimal.Decimal `json:"max_amount,omitempty"`
	MaxAmountIndia             decimal.Decimal `json:"max_amount_india,omitempty"`
	MaxAmountAbroad            decimal.Decimal `json:"max_amount_abroad,omitempty"`
	MaxAmountWithCollateral    decimal.Decimal `json:"max_amount_with_collateral,omitempty"`
	MaxAmountWithoutCollateral decimal.Decimal `json:"max_amount_without_collateral,omitempty"`
	MaxIncomeMultiplier        int             `json:"max_multiplier_of_income,omitempty"`

	CollateralThreshold decimal.Decimal `json:"collateral_threshold,omitempty"`
	LTVRatio            decimal.Decimal `json:"ltv_ratio,omitempty"`

	MinTenureMonths  int `json:"min_tenure_months,omitempty"`
	MaxTenureMonths  int `json:"max_tenure_months,omitempty"`
	MaxTenureYears   int `json:"max_tenure_years,omitempty"`
	MoratoriumMonths int `json:"moratorium_months,omitempty"`

	InterestType    string     `json:"interest_type,omitempty"`
	RateRange       *RateRange `json:"rate_range,omitempty"`
	RateRangeIndia  *RateRange `json:"rate_range_india,omitempty"`
	RateRangeAbroad *RateRange `json:"rate_range_abroad,omitempty"`
	RateRangeNew    *RateRange `json:"rate_range_new,omitempty"`
	RateRangeUsed   *RateRange `json:"rate_range_used,omitempty"`

	ProcessingFeePercentage decimal.Decimal `json:"processing_fee_percentage,omitempty"`

	MinAge           int `json:"min_age,omitempty"`
	MaxAge           int `json:"max_age,omitempty"`
	MaxAgeAtMaturity int `json:"max_age_at_maturity,omitempty"`

	AllowNoCreditHistory bool `json:"allow_no_credit_history,omitempty"`
	RequireCoApplicant   bool `json:"require_co_applicant,omitempty"`

	Source Provenance `json:"source"`
}

// Conservative fallbacks applied when a policy record leaves a field unset.
var (
	defaultRateRange = RateRange{Min: decimal.NewFromInt(10), Max: decimal.NewFromInt(12)}

	defaultMinAmount        = decimal.NewFromInt(50_000)
	defaultMaxAmount        = decimal.NewFromInt(10_000_000)
	defaultEducationCeiling = decimal.NewFromInt(5_000_000)

	defaultMaxFOIR           = decimal.RequireFromString("0.50")
	defaultLTV               = decimal.RequireFromString("0.80")
	defaultProcessingFee     = decimal.NewFromInt(1)
	defaultSalariedIncome    = decimal.NewFromInt(15_000)
	defaultSelfEmployedFloor = decimal.NewFromInt(25_000)
	defaultCoApplicantFloor  = decimal.NewFromInt(25_000)
)

func (p *Policy) EffectiveMinAge() int {
	if p.MinAge > 0 {
		return p.MinAge
	}
	return 21
}

func (p *Policy) EffectiveMaxAge() int {
	if p.MaxAge > 0 {
		return p.MaxAge
	}
	return 65
}

func (p *Policy) EffectiveMaxAgeAtMaturity() int {
	if p.MaxAgeAtMaturity > 0 {
		return p.MaxAgeAtMaturity
	}
	return 70
}

func (p *Policy) EffectiveMinCreditScore() int {
	if p.MinCreditScore > 0 {
		return p.MinCreditScore
	}
	return 650
}

func (p *Policy) EffectiveMinAmount() decimal.Decimal {
	if p.MinAmount.IsPositive() {
		return p.MinAmount
	}
	return defaultMinAmount
}

func (p *Policy) EffectiveMaxFOIR() decimal.Decimal {
	if p.MaxFOIR.IsPositive() {
		return p.MaxFOIR
	}
	return defaultMaxFOIR
}

func (p *Policy) EffectiveLTV() decimal.Decimal {
	if p.LTVRatio.IsPositive() {
		return p.LTVRatio
	}
	return defaultLTV
}

func (p *Policy) EffectiveProcessingFee() decimal.Decimal {
	if p.ProcessingFeePercentage.IsPositive() {
		return p.ProcessingFeePercentage
	}
	return defaultProcessingFee
}

// MinIncomeFor returns the income floor for the applicant's employment type.
func (p *Policy) MinIncomeFor(employment domain.EmploymentType) decimal.Decimal {
	if employment == domain.EmploymentSalaried {
		if p.MinIncomeSalaried.IsPositive() {
			return p.MinIncomeSalaried
		}
		if p.MinIncome.IsPositive() {
			return p.MinIncome
		}
		return defaultSalariedIncome
	}
	if p.MinIncomeSelfEmployed.IsPositive() {
		return p.MinIncomeSelfEmployed
	}
	if p.MinIncome.IsPositive() {
		return p.MinIncome
	}
	return defaultSelfEmployedFloor
}

// EffectiveMinCoApplicantIncome is the co-applicant income floor used for
// education loans.
func (p *Policy) EffectiveMinCoApplicantIncome() decimal.Decimal {
	if p.MinCoApplicantIncome.IsPositive() {
		return p.MinCoApplicantIncome
	}
	return defaultCoApplicantFloor
}

// MaxAmountFor computes the loan-type-dependent ceiling. Education loans key
// on collateral presence; other products are capped by the income multiplier
// when the policy defines one.
func (p *Policy) MaxAmountFor(applicant *domain.ApplicantProfile) decimal.Decimal {
	if applicant.LoanType == domain.LoanEducation {
		max := p.MaxAmountAbroad
		if !max.IsPositive() {
			max = p.MaxAmountIndia
		}
		if !max.IsPositive() {
			max = defaultEducationCeiling
		}
		if applicant.HasCollateral {
			if p.MaxAmountWithCollateral.IsPositive() {
				max = p.MaxAmountWithCollateral
			}
			return max
		}
		if p.MaxAmountWithoutCollateral.IsPositive() && p.MaxAmountWithoutCollateral.LessThan(max) {
			max = p.MaxAmountWithoutCollateral
		}
		return max
	}

	max := p.MaxAmount
	if !max.IsPositive() {
		max = defaultMaxAmount
	}
	if p.MaxIncomeMultiplier > 0 && applicant.MonthlyIncome.IsPositive() {
		incomeBased := applicant.MonthlyIncome.Mul(decimal.NewFromInt(int64(p.MaxIncomeMultiplier)))
		if incomeBased.LessThan(max) {
			max = incomeBased
		}
	}
	return max
}

// AffordabilityRateRange is the band used for the EMI estimate.
func (p *Policy) AffordabilityRateRange() RateRange {
	if p.RateRange != nil {
		return *p.RateRange
	}
	return defaultRateRange
}

// SanctionRateRange resolves the band quoted on sanction data: generic range
// first, then type-specific variants, then the placeholder band.
func (p *Policy) SanctionRateRange() RateRange {
	switch {
	case p.RateRange != nil:
		return *p.RateRange
	case p.RateRangeIndia != nil:
		return *p.RateRangeIndia
	case p.RateRangeNew != nil:
		return *p.RateRangeNew
	default:
		return defaultRateRange
	}
}

// EffectiveInterestType defaults to floating.
func (p *Policy) EffectiveInterestType() string {
	if p.InterestType != "" {
		return p.InterestType
	}
	return "Floating"
}

// RequiresCollateral reports whether the requested amount crosses the
// collateral threshold. A policy without a threshold never requires it.
func (p *Policy) RequiresCollateral(amount decimal.Decimal) bool {
	return p.CollateralThreshold.IsPositive() && amount.GreaterThan(p.CollateralThreshold)
}
