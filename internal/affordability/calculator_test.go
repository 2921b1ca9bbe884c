package affordability

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditdesk/internal/domain"
	"creditdesk/internal/policy"
)

func inr(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestEstimateEMI(t *testing.T) {
	t.Run("standard amortization", func(t *testing.T) {
		emi := EstimateEMI(inr(1_000_000), inr(10), 120)
		assert.True(t, emi.Equal(decimal.RequireFromString("13215.07")), "got %s", emi)
	})

	t.Run("home loan at band midpoint", func(t *testing.T) {
		emi := EstimateEMI(inr(2_000_000), decimal.RequireFromString("9.025"), 240)
		assert.True(t, emi.Equal(decimal.RequireFromString("18026.69")), "got %s", emi)
	})

	t.Run("zero rate splits principal evenly", func(t *testing.T) {
		emi := EstimateEMI(inr(120_000), decimal.Zero, 12)
		assert.True(t, emi.Equal(inr(10_000)))
	})

	t.Run("zero tenure returns principal", func(t *testing.T) {
		emi := EstimateEMI(inr(120_000), inr(10), 0)
		assert.True(t, emi.Equal(inr(120_000)))
	})
}

func TestComputeWithinLimit(t *testing.T) {
	p := &policy.Policy{
		MaxFOIR:   decimal.RequireFromString("0.50"),
		RateRange: &policy.RateRange{Min: decimal.RequireFromString("8.4"), Max: decimal.RequireFromString("9.65")},
	}
	applicant := &domain.ApplicantProfile{
		MonthlyIncome:         inr(90_000),
		ExistingEMIs:          inr(10_000),
		RequestedLoanAmount:   inr(2_000_000),
		RequestedTenureMonths: 240,
	}

	result := Compute(applicant, p)

	assert.True(t, result.Affordable)
	assert.True(t, result.EstimatedEMI.Equal(decimal.RequireFromString("18026.69")))
	require.NotNil(t, result.Finding)
	assert.True(t, result.Finding.Passed)
	assert.Equal(t, domain.RuleFOIR, result.Finding.Rule)
}

func TestComputeExceedsLimit(t *testing.T) {
	p := &policy.Policy{MaxFOIR: decimal.RequireFromString("0.40")}
	applicant := &domain.ApplicantProfile{
		MonthlyIncome:         inr(30_000),
		ExistingEMIs:          inr(8_000),
		RequestedLoanAmount:   inr(1_000_000),
		RequestedTenureMonths: 60,
	}

	result := Compute(applicant, p)

	assert.False(t, result.Affordable)
	require.NotNil(t, result.Finding)
	assert.False(t, result.Finding.Passed)
	assert.True(t, result.Finding.Waivable)
	assert.True(t, result.Finding.Actual.GreaterThan(result.Finding.Required))
	assert.Contains(t, result.Finding.Message, "exceeds limit")
}

func TestComputeFailsClosedOnZeroIncome(t *testing.T) {
	applicant := &domain.ApplicantProfile{
		RequestedLoanAmount:   inr(500_000),
		RequestedTenureMonths: 60,
	}

	result := Compute(applicant, &policy.Policy{})

	assert.False(t, result.Affordable)
	assert.Nil(t, result.Finding)
	assert.True(t, result.EstimatedEMI.IsPositive())
}

func TestComputeCoApplicantIncomeCounts(t *testing.T) {
	p := &policy.Policy{MaxFOIR: decimal.RequireFromString("0.50")}
	applicant := &domain.ApplicantProfile{
		MonthlyIncome:         inr(25_000),
		RequestedLoanAmount:   inr(1_000_000),
		RequestedTenureMonths: 120,
	}

	alone := Compute(applicant, p)
	assert.False(t, alone.Affordable)

	applicant.HasCoApplicant = true
	applicant.CoApplicantIncome = inr(40_000)
	together := Compute(applicant, p)
	assert.True(t, together.Affordable)
}

func TestComputeFOIRGrowsWithObligations(t *testing.T) {
	p := &policy.Policy{MaxFOIR: decimal.RequireFromString("0.50")}
	base := &domain.ApplicantProfile{
		MonthlyIncome:         inr(80_000),
		RequestedLoanAmount:   inr(1_000_000),
		RequestedTenureMonths: 120,
	}

	prev := decimal.Zero
	for _, emis := range []int64{0, 5_000, 15_000, 25_000} {
		applicant := *base
		applicant.ExistingEMIs = inr(emis)
		result := Compute(&applicant, p)
		require.NotNil(t, result.Finding)
		assert.True(t, result.Finding.Actual.GreaterThanOrEqual(prev))
		prev = result.Finding.Actual
	}
}
