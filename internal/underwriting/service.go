// Package underwriting is the decision engine: it gates on verification,
// resolves the bank policy, scores risk, runs compliance and affordability,
// negotiates deviations, and assembles the decision envelope.
package underwriting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"creditdesk/internal/affordability"
	"creditdesk/internal/compliance"
	"creditdesk/internal/deviation"
	"creditdesk/internal/domain"
	"creditdesk/internal/policy"
	"creditdesk/internal/risk"
	"creditdesk/internal/underwriting/metrics"
	apperrors "creditdesk/pkg/errors"
	"creditdesk/pkg/logger"
	"creditdesk/pkg/validator"
)

// Application is the complete input for one decision call.
type Application struct {
	Bank         string                    `json:"bank" validate:"required"`
	Applicant    domain.ApplicantProfile   `json:"applicant"`
	Bureau       domain.CreditBureauResult `json:"bureau"`
	Verification domain.VerificationResult `json:"verification"`
}

// Service evaluates credit applications. Safe for concurrent use: all
// per-call state is scoped to Evaluate.
type Service struct {
	policies  *policy.Repository
	validator *validator.Validator
	metrics   *metrics.Metrics
	log       logger.Logger
}

func NewService(policies *policy.Repository, v *validator.Validator, m *metrics.Metrics, log logger.Logger) *Service {
	return &Service{
		policies:  policies,
		validator: v,
		metrics:   m,
		log:       log,
	}
}

// Evaluate runs the full underwriting pipeline and returns exactly one
// terminal decision. Business outcomes are always envelopes; the error return
// is reserved for malformed input.
func (s *Service) Evaluate(ctx context.Context, app *Application) (*domain.DecisionEnvelope, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveEvaluateLatency(time.Since(start))
	}()

	if err := s.validator.Validate(app); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidApplication, err)
	}

	env := &domain.DecisionEnvelope{
		ApplicationID: uuid.New(),
		Mode:          domain.ModeInternal,
		Bank:          app.Bank,
		EvaluatedAt:   time.Now().UTC(),
	}

	if err := s.screen(app); err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrUnknownBank):
			finding := domain.Finding{
				Rule:     domain.RuleBankValidation,
				Passed:   false,
				Message:  fmt.Sprintf("Bank not supported: %s", app.Bank),
				Waivable: false,
				Severity: domain.SeverityCritical,
			}
			return s.reject(env, domain.RiskCritical, []domain.Finding{finding}, "Bank not supported: "+app.Bank), nil
		case apperrors.Is(err, apperrors.ErrVerificationIncomplete):
			// Incomplete KYC hands the application back to the verification
			// collaborator; policy is never evaluated.
			env.Mode = domain.ModeAgentSwitch
			return s.reject(env, domain.RiskCritical, nil, "KYC verification incomplete, application returned for verification"), nil
		default:
			finding := domain.Finding{
				Rule:     domain.RuleAMLCheck,
				Passed:   false,
				Message:  "AML screening not cleared",
				Waivable: false,
				Severity: domain.SeverityCritical,
			}
			return s.reject(env, domain.RiskCritical, []domain.Finding{finding}, "AML checks not cleared"), nil
		}
	}

	pol, err := s.policies.Lookup(ctx, app.Bank, app.Applicant.LoanType)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrPolicyNotFound) {
			reason := fmt.Sprintf("No %s loan policy available for %s", app.Applicant.LoanType, app.Bank)
			return s.reject(env, domain.RiskCritical, nil, reason), nil
		}
		return nil, apperrors.Wrap(err, "policy lookup")
	}

	riskLevel := risk.Score(&app.Bureau, pol)
	s.metrics.IncrementRiskLevel(app.Bank, string(riskLevel))

	checks := compliance.Check(&app.Applicant, &app.Bureau, pol, app.Bank)
	afford := affordability.Compute(&app.Applicant, pol)

	findings := checks.Findings
	if afford.Finding != nil {
		findings = append(findings, *afford.Finding)
	}

	if checks.Passed && afford.Affordable {
		if riskLevel == domain.RiskCritical {
			return s.reject(env, riskLevel, findings, "Credit risk assessed as Critical"), nil
		}
		return s.approve(env, riskLevel, findings, pol, &app.Applicant, afford.EstimatedEMI, decimal.Decimal{}, nil), nil
	}

	outcome := deviation.Resolve(&app.Applicant, &app.Bureau, findings, riskLevel)
	if !outcome.Approvable {
		return s.reject(env, riskLevel, findings, outcome.RejectionReason), nil
	}

	env.CreditDecision = domain.DecisionConditionallyApproved
	return s.approve(env, riskLevel, findings, pol, &app.Applicant, afford.EstimatedEMI, outcome.AdjustedAmount, outcome.Conditions), nil
}

// screen runs the hard gates in order: bank, KYC, AML. The first failure
// wins and is classified by sentinel.
func (s *Service) screen(app *Application) error {
	if !s.policies.HasBank(app.Bank) {
		return fmt.Errorf("%w: %s", apperrors.ErrUnknownBank, app.Bank)
	}
	if !app.Verification.KYCVerified {
		return apperrors.ErrVerificationIncomplete
	}
	if !app.Verification.AMLCleared {
		return apperrors.ErrAMLNotCleared
	}
	return nil
}

func (s *Service) reject(env *domain.DecisionEnvelope, level domain.RiskLevel, findings []domain.Finding, reason string) *domain.DecisionEnvelope {
	env.CreditDecision = domain.DecisionRejected
	env.RiskSummary = level
	env.PolicyFindings = findingMessages(findings)
	env.RejectionReason = reason

	s.metrics.IncrementDecision(env.Bank, string(domain.DecisionRejected))
	s.log.Info("application rejected", map[string]interface{}{
		"application_id": env.ApplicationID.String(),
		"bank":           env.Bank,
		"mode":           string(env.Mode),
		"risk_level":     string(level),
		"reason":         reason,
	})
	return env
}

func (s *Service) approve(env *domain.DecisionEnvelope, level domain.RiskLevel, findings []domain.Finding,
	pol *policy.Policy, applicant *domain.ApplicantProfile, estimatedEMI decimal.Decimal,
	adjustedAmount decimal.Decimal, conditions []string) *domain.DecisionEnvelope {

	if env.CreditDecision == "" {
		env.CreditDecision = domain.DecisionApproved
	}
	env.RiskSummary = level
	env.PolicyFindings = findingMessages(findings)
	env.Conditions = conditions

	amount := applicant.RequestedLoanAmount
	emi := estimatedEMI
	if adjustedAmount.IsPositive() && adjustedAmount.LessThan(amount) {
		// The recompute is priced at the same band quoted on the sanction.
		amount = adjustedAmount
		emi = affordability.EstimateEMI(amount, pol.SanctionRateRange().Midpoint(), applicant.RequestedTenureMonths)
	}

	env.SanctionData = &domain.SanctionData{
		ApprovedAmount:          amount,
		TenureMonths:            applicant.RequestedTenureMonths,
		InterestType:            pol.EffectiveInterestType(),
		TentativeRateRange:      pol.SanctionRateRange().String(),
		EstimatedEMI:            emi,
		MoratoriumApplicable:    pol.MoratoriumMonths > 0,
		MoratoriumMonths:        pol.MoratoriumMonths,
		ProcessingFeePercentage: pol.EffectiveProcessingFee(),
		ValidityDays:            domain.SanctionValidityDays,
	}

	s.metrics.IncrementDecision(env.Bank, string(env.CreditDecision))
	s.log.Info("application approved", map[string]interface{}{
		"application_id":  env.ApplicationID.String(),
		"bank":            env.Bank,
		"decision":        string(env.CreditDecision),
		"risk_level":      string(level),
		"approved_amount": amount.String(),
		"estimated_emi":   emi.String(),
	})
	return env
}

func findingMessages(findings []domain.Finding) []string {
	messages := make([]string, 0, len(findings))
	for _, f := range findings {
		messages = append(messages, f.Message)
	}
	return messages
}
