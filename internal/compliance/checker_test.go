package compliance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditdesk/internal/domain"
	"creditdesk/internal/policy"
)

func inr(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func cleanBureau() *domain.CreditBureauResult {
	return &domain.CreditBureauResult{
		CreditScore: 760,
		ScoreBucket: domain.BucketExcellent,
	}
}

func personalApplicant() *domain.ApplicantProfile {
	return &domain.ApplicantProfile{
		Name:                  "Ravi Kumar",
		Age:                   32,
		EmploymentType:        domain.EmploymentSalaried,
		MonthlyIncome:         inr(80_000),
		RequestedLoanAmount:   inr(500_000),
		RequestedTenureMonths: 48,
		LoanType:              domain.LoanPersonal,
	}
}

func findingFor(t *testing.T, r Result, rule domain.RuleID) domain.Finding {
	t.Helper()
	for _, f := range r.Findings {
		if f.Rule == rule {
			return f
		}
	}
	t.Fatalf("no finding for rule %s", rule)
	return domain.Finding{}
}

func hasFinding(r Result, rule domain.RuleID) bool {
	for _, f := range r.Findings {
		if f.Rule == rule {
			return true
		}
	}
	return false
}

func TestCheckAllRulesPass(t *testing.T) {
	p := &policy.Policy{MinCreditScore: 700, MinIncomeSalaried: inr(20_000)}

	result := Check(personalApplicant(), cleanBureau(), p, "HDFC")

	assert.True(t, result.Passed)
	for _, f := range result.Findings {
		assert.True(t, f.Passed, "rule %s", f.Rule)
	}
	// Passing runs still record the evaluated rules for audit.
	assert.True(t, hasFinding(result, domain.RuleCreditScore))
	assert.True(t, hasFinding(result, domain.RuleMinimumIncome))
	assert.True(t, hasFinding(result, domain.RuleLoanAmount))
}

func TestCheckFindingOrderIsFixed(t *testing.T) {
	applicant := personalApplicant()
	applicant.Age = 19
	applicant.MonthlyIncome = inr(10_000)
	bureau := cleanBureau()
	bureau.CreditScore = 640
	bureau.ScoreBucket = domain.BucketPoor

	result := Check(applicant, bureau, &policy.Policy{MinCreditScore: 700}, "SBI")

	require.GreaterOrEqual(t, len(result.Findings), 3)
	assert.Equal(t, domain.RuleMinimumAge, result.Findings[0].Rule)
	assert.Equal(t, domain.RuleCreditScore, result.Findings[1].Rule)
	assert.Equal(t, domain.RuleMinimumIncome, result.Findings[2].Rule)
}

func TestCheckAgeRules(t *testing.T) {
	p := &policy.Policy{MinAge: 21, MaxAge: 60, MaxAgeAtMaturity: 70}

	t.Run("below minimum is waivable", func(t *testing.T) {
		applicant := personalApplicant()
		applicant.Age = 19
		result := Check(applicant, cleanBureau(), p, "SBI")

		f := findingFor(t, result, domain.RuleMinimumAge)
		assert.False(t, f.Passed)
		assert.True(t, f.Waivable)
		assert.True(t, f.Actual.Equal(inr(19)))
		assert.True(t, f.Required.Equal(inr(21)))
	})

	t.Run("above maximum is a hard gate", func(t *testing.T) {
		applicant := personalApplicant()
		applicant.Age = 64
		result := Check(applicant, cleanBureau(), p, "SBI")

		f := findingFor(t, result, domain.RuleMaximumAge)
		assert.False(t, f.Passed)
		assert.False(t, f.Waivable)
		assert.Equal(t, domain.SeverityHigh, f.Severity)
	})

	t.Run("maturity breach is waivable", func(t *testing.T) {
		applicant := personalApplicant()
		applicant.Age = 58
		applicant.RequestedTenureMonths = 180 // matures at 73
		result := Check(applicant, cleanBureau(), p, "SBI")

		f := findingFor(t, result, domain.RuleAgeAtMaturity)
		assert.False(t, f.Passed)
		assert.True(t, f.Waivable)
		assert.True(t, f.Required.Equal(inr(70)))
	})
}

func TestCheckCreditScore(t *testing.T) {
	p := &policy.Policy{MinCreditScore: 700}

	t.Run("below minimum is waivable", func(t *testing.T) {
		bureau := cleanBureau()
		bureau.CreditScore = 680
		bureau.ScoreBucket = domain.BucketFair
		result := Check(personalApplicant(), bureau, p, "HDFC")

		f := findingFor(t, result, domain.RuleCreditScore)
		assert.False(t, f.Passed)
		assert.True(t, f.Waivable)
		assert.Contains(t, f.Message, "HDFC")
		assert.True(t, f.Actual.Equal(inr(680)))
		assert.True(t, f.Required.Equal(inr(700)))
	})

	t.Run("no history rejected without policy allowance", func(t *testing.T) {
		bureau := &domain.CreditBureauResult{ScoreBucket: domain.BucketNoHistory}
		result := Check(personalApplicant(), bureau, p, "HDFC")

		f := findingFor(t, result, domain.RuleCreditScore)
		assert.False(t, f.Passed)
		assert.False(t, f.Waivable)
	})

	t.Run("no history accepted when policy allows", func(t *testing.T) {
		allowing := &policy.Policy{MinCreditScore: 700, AllowNoCreditHistory: true}
		bureau := &domain.CreditBureauResult{ScoreBucket: domain.BucketNoHistory}
		result := Check(personalApplicant(), bureau, allowing, "SBI")

		f := findingFor(t, result, domain.RuleCreditScore)
		assert.True(t, f.Passed)
	})
}

func TestCheckIncomeEducationUsesCoApplicant(t *testing.T) {
	p := &policy.Policy{MinCoApplicantIncome: inr(25_000)}

	applicant := personalApplicant()
	applicant.LoanType = domain.LoanEducation
	applicant.MonthlyIncome = decimal.Zero

	t.Run("no co-applicant fails with zero actual", func(t *testing.T) {
		result := Check(applicant, cleanBureau(), p, "SBI")

		f := findingFor(t, result, domain.RuleCoApplicantIncome)
		assert.False(t, f.Passed)
		assert.True(t, f.Actual.IsZero())
		assert.True(t, f.Required.Equal(inr(25_000)))
	})

	t.Run("qualifying co-applicant passes", func(t *testing.T) {
		withCo := *applicant
		withCo.HasCoApplicant = true
		withCo.CoApplicantIncome = inr(40_000)
		result := Check(&withCo, cleanBureau(), p, "SBI")

		f := findingFor(t, result, domain.RuleCoApplicantIncome)
		assert.True(t, f.Passed)
	})
}

func TestCheckIncomeByEmploymentType(t *testing.T) {
	p := &policy.Policy{
		MinIncomeSalaried:     inr(20_000),
		MinIncomeSelfEmployed: inr(35_000),
	}

	applicant := personalApplicant()
	applicant.EmploymentType = domain.EmploymentSelfEmployedBusiness
	applicant.MonthlyIncome = inr(30_000)

	result := Check(applicant, cleanBureau(), p, "ICICI")

	f := findingFor(t, result, domain.RuleMinimumIncome)
	assert.False(t, f.Passed)
	assert.True(t, f.Required.Equal(inr(35_000)))
}

func TestCheckLoanAmountBounds(t *testing.T) {
	p := &policy.Policy{MinAmount: inr(100_000), MaxAmount: inr(4_000_000)}

	t.Run("below minimum", func(t *testing.T) {
		applicant := personalApplicant()
		applicant.RequestedLoanAmount = inr(60_000)
		result := Check(applicant, cleanBureau(), p, "HDFC")

		f := findingFor(t, result, domain.RuleMinimumLoanAmount)
		assert.False(t, f.Passed)
		assert.Equal(t, domain.SeverityLow, f.Severity)
	})

	t.Run("above maximum carries the computed ceiling", func(t *testing.T) {
		applicant := personalApplicant()
		applicant.RequestedLoanAmount = inr(5_000_000)
		result := Check(applicant, cleanBureau(), p, "HDFC")

		f := findingFor(t, result, domain.RuleMaximumLoanAmount)
		assert.False(t, f.Passed)
		assert.True(t, f.Required.Equal(inr(4_000_000)))
	})

	t.Run("income multiplier tightens the ceiling", func(t *testing.T) {
		capped := &policy.Policy{MinAmount: inr(100_000), MaxAmount: inr(4_000_000), MaxIncomeMultiplier: 24}
		applicant := personalApplicant()
		applicant.MonthlyIncome = inr(50_000)
		applicant.RequestedLoanAmount = inr(2_000_000)
		result := Check(applicant, cleanBureau(), capped, "HDFC")

		f := findingFor(t, result, domain.RuleMaximumLoanAmount)
		assert.False(t, f.Passed)
		assert.True(t, f.Required.Equal(inr(1_200_000)))
	})
}

func TestCheckCollateral(t *testing.T) {
	p := &policy.Policy{
		CollateralThreshold: inr(750_000),
		LTVRatio:            decimal.RequireFromString("0.85"),
	}

	t.Run("below threshold is not checked", func(t *testing.T) {
		applicant := personalApplicant()
		applicant.RequestedLoanAmount = inr(500_000)
		result := Check(applicant, cleanBureau(), p, "SBI")

		assert.False(t, hasFinding(result, domain.RuleCollateralRequired))
		assert.False(t, hasFinding(result, domain.RuleLTVRatio))
	})

	t.Run("missing collateral above threshold is a hard gate", func(t *testing.T) {
		applicant := personalApplicant()
		applicant.RequestedLoanAmount = inr(900_000)
		result := Check(applicant, cleanBureau(), p, "SBI")

		f := findingFor(t, result, domain.RuleCollateralRequired)
		assert.False(t, f.Passed)
		assert.False(t, f.Waivable)
	})

	t.Run("insufficient collateral value breaches LTV", func(t *testing.T) {
		applicant := personalApplicant()
		applicant.RequestedLoanAmount = inr(900_000)
		applicant.HasCollateral = true
		applicant.CollateralValue = inr(1_000_000)
		result := Check(applicant, cleanBureau(), p, "SBI")

		f := findingFor(t, result, domain.RuleLTVRatio)
		assert.False(t, f.Passed)
		assert.True(t, f.Waivable)
		assert.True(t, f.Actual.Equal(decimal.RequireFromString("0.9")))
	})

	t.Run("adequate collateral passes silently", func(t *testing.T) {
		applicant := personalApplicant()
		applicant.RequestedLoanAmount = inr(900_000)
		applicant.HasCollateral = true
		applicant.CollateralValue = inr(2_000_000)
		result := Check(applicant, cleanBureau(), p, "SBI")

		assert.True(t, result.Passed)
		assert.False(t, hasFinding(result, domain.RuleLTVRatio))
	})

	t.Run("no threshold disables the check", func(t *testing.T) {
		applicant := personalApplicant()
		applicant.RequestedLoanAmount = inr(9_000_000)
		result := Check(applicant, cleanBureau(), &policy.Policy{}, "SBI")

		assert.False(t, hasFinding(result, domain.RuleCollateralRequired))
	})
}
