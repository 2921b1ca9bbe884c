package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditDecision is the terminal outcome of one underwriting call.
type CreditDecision string

const (
	DecisionApproved              CreditDecision = "Approved"
	DecisionConditionallyApproved CreditDecision = "Conditionally Approved"
	DecisionRejected              CreditDecision = "Rejected"
)

// RiskLevel is the ordinal credit risk classification.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// Mode is the engine operating state. Each call starts in ModeInternal and
// transitions at most once; nothing persists past the call.
type Mode string

const (
	ModeInternal    Mode = "internal"
	ModeAgentSwitch Mode = "agent_switch"
)

// RuleID identifies one policy rule. The set is closed: the deviation
// resolver dispatches on it through a fixed strategy table.
type RuleID string

const (
	RuleMinimumAge         RuleID = "minimum_age"
	RuleMaximumAge         RuleID = "maximum_age"
	RuleAgeAtMaturity      RuleID = "age_at_maturity"
	RuleCreditScore        RuleID = "credit_score"
	RuleMinimumIncome      RuleID = "minimum_income"
	RuleCoApplicantIncome  RuleID = "co_applicant_income"
	RuleMinimumLoanAmount  RuleID = "minimum_loan_amount"
	RuleMaximumLoanAmount  RuleID = "maximum_loan_amount"
	RuleLoanAmount         RuleID = "loan_amount"
	RuleCollateralRequired RuleID = "collateral_required"
	RuleLTVRatio           RuleID = "ltv_ratio"
	RuleFOIR               RuleID = "foir_check"
	RuleBankValidation     RuleID = "bank_validation"
	RuleAMLCheck           RuleID = "aml_check"
)

// Severity grades a finding.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Finding is one rule outcome. Actual and Required are canonical numeric
// values; prose lives in Message only.
type Finding struct {
	Rule     RuleID          `json:"rule"`
	Passed   bool            `json:"passed"`
	Actual   decimal.Decimal `json:"actual_value"`
	Required decimal.Decimal `json:"required_value"`
	Message  string          `json:"message"`
	Waivable bool            `json:"is_waivable"`
	Severity Severity        `json:"severity"`
}

// SanctionData is the sanction-ready payload built on any approval path.
// The downstream sanction collaborator must not re-derive it.
type SanctionData struct {
	ApprovedAmount          decimal.Decimal `json:"approved_amount"`
	TenureMonths            int             `json:"tenure_months"`
	InterestType            string          `json:"interest_type"`
	TentativeRateRange      string          `json:"tentative_rate_range"`
	EstimatedEMI            decimal.Decimal `json:"estimated_emi"`
	MoratoriumApplicable    bool            `json:"moratorium_applicable"`
	MoratoriumMonths        int             `json:"moratorium_months"`
	ProcessingFeePercentage decimal.Decimal `json:"processing_fee_percentage"`
	ValidityDays            int             `json:"validity_days"`
}

// SanctionValidityDays is the fixed validity window for sanction data.
const SanctionValidityDays = 90

// DecisionEnvelope is the JSON-serializable result of one underwriting call.
// It carries exactly one terminal decision and the full ordered finding
// messages for audit.
type DecisionEnvelope struct {
	ApplicationID   uuid.UUID      `json:"application_id"`
	Mode            Mode           `json:"mode"`
	Bank            string         `json:"bank"`
	CreditDecision  CreditDecision `json:"credit_decision"`
	RiskSummary     RiskLevel      `json:"risk_summary"`
	PolicyFindings  []string       `json:"policy_findings"`
	Conditions      []string       `json:"conditions,omitempty"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	SanctionData    *SanctionData  `json:"sanction_data,omitempty"`
	EvaluatedAt     time.Time      `json:"evaluated_at"`
}
