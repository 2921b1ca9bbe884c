// Package compliance evaluates the fixed battery of eligibility rules
// against an applicant and a resolved bank policy.
package compliance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"creditdesk/internal/domain"
	"creditdesk/internal/policy"
)

// Result is the outcome of one compliance run. Findings keep their original
// order and include passing checks; the full list flows into deviation
// resolution and the audit trail.
type Result struct {
	Findings []domain.Finding
	Passed   bool
}

// Check runs every rule in fixed order: age, credit score, income, loan
// amount, collateral. The aggregate is the logical AND of all checks. Pure
// and call-scoped; safe under concurrent calls.
func Check(applicant *domain.ApplicantProfile, bureau *domain.CreditBureauResult, p *policy.Policy, bank string) Result {
	c := &checker{applicant: applicant, bureau: bureau, policy: p, bank: bank, passed: true}

	c.checkAge()
	c.checkCreditScore()
	c.checkIncome()
	c.checkLoanAmount()
	c.checkCollateral()

	return Result{Findings: c.findings, Passed: c.passed}
}

type checker struct {
	applicant *domain.ApplicantProfile
	bureau    *domain.CreditBureauResult
	policy    *policy.Policy
	bank      string

	findings []domain.Finding
	passed   bool
}

func (c *checker) add(f domain.Finding) {
	if !f.Passed {
		c.passed = false
	}
	c.findings = append(c.findings, f)
}

func (c *checker) checkAge() {
	minAge := c.policy.EffectiveMinAge()
	maxAge := c.policy.EffectiveMaxAge()
	maxAtMaturity := c.policy.EffectiveMaxAgeAtMaturity()

	age := c.applicant.Age
	tenureYears := decimal.NewFromInt(int64(c.applicant.RequestedTenureMonths)).Div(decimal.NewFromInt(12))
	ageAtMaturity := decimal.NewFromInt(int64(age)).Add(tenureYears)

	if age < minAge {
		c.add(domain.Finding{
			Rule:     domain.RuleMinimumAge,
			Actual:   decimal.NewFromInt(int64(age)),
			Required: decimal.NewFromInt(int64(minAge)),
			Message:  fmt.Sprintf("Applicant age %d is below minimum %d", age, minAge),
			Waivable: true,
			Severity: domain.SeverityHigh,
		})
	}

	if age > maxAge {
		// Hard gate: lending past the age ceiling is never negotiated.
		c.add(domain.Finding{
			Rule:     domain.RuleMaximumAge,
			Actual:   decimal.NewFromInt(int64(age)),
			Required: decimal.NewFromInt(int64(maxAge)),
			Message:  fmt.Sprintf("Applicant age %d exceeds maximum %d", age, maxAge),
			Waivable: false,
			Severity: domain.SeverityHigh,
		})
	}

	if ageAtMaturity.GreaterThan(decimal.NewFromInt(int64(maxAtMaturity))) {
		c.add(domain.Finding{
			Rule:     domain.RuleAgeAtMaturity,
			Actual:   ageAtMaturity,
			Required: decimal.NewFromInt(int64(maxAtMaturity)),
			Message: fmt.Sprintf("Age at loan maturity (%s) exceeds limit (%d)",
				ageAtMaturity.Round(0).String(), maxAtMaturity),
			Waivable: true,
			Severity: domain.SeverityMedium,
		})
	}
}

func (c *checker) checkCreditScore() {
	minScore := c.policy.EffectiveMinCreditScore()
	required := decimal.NewFromInt(int64(minScore))

	if c.bureau.ScoreBucket == domain.BucketNoHistory {
		if c.policy.AllowNoCreditHistory {
			c.add(domain.Finding{
				Rule:     domain.RuleCreditScore,
				Passed:   true,
				Required: required,
				Message:  "No credit history - accepted per policy",
				Waivable: true,
				Severity: domain.SeverityMedium,
			})
			return
		}
		c.add(domain.Finding{
			Rule:     domain.RuleCreditScore,
			Required: required,
			Message:  fmt.Sprintf("%s requires credit history for this product", c.bank),
			Waivable: false,
			Severity: domain.SeverityHigh,
		})
		return
	}

	actual := decimal.NewFromInt(int64(c.bureau.CreditScore))
	if c.bureau.CreditScore < minScore {
		// Waivable: a strong co-applicant or collateral margin can carry it.
		c.add(domain.Finding{
			Rule:     domain.RuleCreditScore,
			Actual:   actual,
			Required: required,
			Message: fmt.Sprintf("Credit score %d below %s minimum of %d",
				c.bureau.CreditScore, c.bank, minScore),
			Waivable: true,
			Severity: domain.SeverityHigh,
		})
		return
	}

	c.add(domain.Finding{
		Rule:     domain.RuleCreditScore,
		Passed:   true,
		Actual:   actual,
		Required: required,
		Message:  fmt.Sprintf("Credit score %d meets requirement", c.bureau.CreditScore),
		Waivable: true,
		Severity: domain.SeverityMedium,
	})
}

func (c *checker) checkIncome() {
	// Education loans lean on the co-applicant, not the (usually student)
	// applicant.
	if c.applicant.LoanType == domain.LoanEducation {
		required := c.policy.EffectiveMinCoApplicantIncome()
		actual := decimal.Zero
		if c.applicant.HasCoApplicant {
			actual = c.applicant.CoApplicantIncome
		}
		if actual.LessThan(required) {
			c.add(domain.Finding{
				Rule:     domain.RuleCoApplicantIncome,
				Actual:   actual,
				Required: required,
				Message: fmt.Sprintf("Co-applicant income %s below minimum %s",
					domain.FormatINR(actual), domain.FormatINR(required)),
				Waivable: true,
				Severity: domain.SeverityMedium,
			})
			return
		}
		c.add(domain.Finding{
			Rule:     domain.RuleCoApplicantIncome,
			Passed:   true,
			Actual:   actual,
			Required: required,
			Message:  "Co-applicant income requirement met",
			Waivable: true,
			Severity: domain.SeverityMedium,
		})
		return
	}

	required := c.policy.MinIncomeFor(c.applicant.EmploymentType)
	actual := c.applicant.MonthlyIncome
	if actual.LessThan(required) {
		c.add(domain.Finding{
			Rule:     domain.RuleMinimumIncome,
			Actual:   actual,
			Required: required,
			Message: fmt.Sprintf("Monthly income %s below minimum %s",
				domain.FormatINR(actual), domain.FormatINR(required)),
			Waivable: true,
			Severity: domain.SeverityHigh,
		})
		return
	}

	c.add(domain.Finding{
		Rule:     domain.RuleMinimumIncome,
		Passed:   true,
		Actual:   actual,
		Required: required,
		Message:  "Income requirement met",
		Waivable: true,
		Severity: domain.SeverityMedium,
	})
}

func (c *checker) checkLoanAmount() {
	amount := c.applicant.RequestedLoanAmount

	minAmount := c.policy.EffectiveMinAmount()
	if amount.LessThan(minAmount) {
		c.add(domain.Finding{
			Rule:     domain.RuleMinimumLoanAmount,
			Actual:   amount,
			Required: minAmount,
			Message: fmt.Sprintf("Requested %s is below minimum %s",
				domain.FormatINR(amount), domain.FormatINR(minAmount)),
			Waivable: true,
			Severity: domain.SeverityLow,
		})
		return
	}

	maxAmount := c.policy.MaxAmountFor(c.applicant)
	if amount.GreaterThan(maxAmount) {
		c.add(domain.Finding{
			Rule:     domain.RuleMaximumLoanAmount,
			Actual:   amount,
			Required: maxAmount,
			Message: fmt.Sprintf("Requested %s exceeds maximum %s",
				domain.FormatINR(amount), domain.FormatINR(maxAmount)),
			Waivable: true,
			Severity: domain.SeverityMedium,
		})
		return
	}

	c.add(domain.Finding{
		Rule:     domain.RuleLoanAmount,
		Passed:   true,
		Actual:   amount,
		Required: maxAmount,
		Message:  "Loan amount within limits",
		Waivable: true,
		Severity: domain.SeverityMedium,
	})
}

func (c *checker) checkCollateral() {
	amount := c.applicant.RequestedLoanAmount
	if !c.policy.RequiresCollateral(amount) {
		return
	}

	threshold := c.policy.CollateralThreshold
	if !c.applicant.HasCollateral {
		// The one hard business gate besides the age ceiling.
		c.add(domain.Finding{
			Rule:     domain.RuleCollateralRequired,
			Actual:   amount,
			Required: threshold,
			Message:  fmt.Sprintf("Loans above %s require collateral", domain.FormatINR(threshold)),
			Waivable: false,
			Severity: domain.SeverityHigh,
		})
		return
	}

	ltv := c.policy.EffectiveLTV()
	maxOnCollateral := c.applicant.CollateralValue.Mul(ltv)
	if amount.GreaterThan(maxOnCollateral) {
		actualLTV := decimal.Zero
		if c.applicant.CollateralValue.IsPositive() {
			actualLTV = amount.Div(c.applicant.CollateralValue)
		}
		c.add(domain.Finding{
			Rule:     domain.RuleLTVRatio,
			Actual:   actualLTV,
			Required: ltv,
			Message: fmt.Sprintf("Loan amount exceeds %s of collateral value",
				domain.FormatPercent(ltv)),
			Waivable: true,
			Severity: domain.SeverityMedium,
		})
	}
}
