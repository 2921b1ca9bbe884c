package domain

import (
	"github.com/shopspring/decimal"
)

// EmploymentType classifies an applicant for income assessment.
type EmploymentType string

const (
	EmploymentSalaried                 EmploymentType = "salaried"
	EmploymentSelfEmployedProfessional EmploymentType = "self_employed_professional"
	EmploymentSelfEmployedBusiness     EmploymentType = "self_employed_business"
	EmploymentRetired                  EmploymentType = "retired"
	EmploymentStudent                  EmploymentType = "student"
)

// LoanType is the loan product category.
type LoanType string

const (
	LoanEducation LoanType = "education"
	LoanHome      LoanType = "home"
	LoanPersonal  LoanType = "personal"
	LoanVehicle   LoanType = "vehicle"
	LoanBusiness  LoanType = "business"
	LoanGold      LoanType = "gold"
)

// CreditScoreBucket groups bureau scores for decisioning.
type CreditScoreBucket string

const (
	BucketExcellent CreditScoreBucket = "excellent"  // 750+
	BucketGood      CreditScoreBucket = "good"       // 700-749
	BucketFair      CreditScoreBucket = "fair"       // 650-699
	BucketPoor      CreditScoreBucket = "poor"       // below 650
	BucketNoHistory CreditScoreBucket = "no_history" // new to credit
)

// ApplicantProfile is the complete applicant input for one decision call.
// It is immutable for the duration of the call.
type ApplicantProfile struct {
	Name   string `json:"name" validate:"required"`
	Age    int    `json:"age" validate:"required,gte=18,lte=100"`
	Gender string `json:"gender,omitempty"`

	EmploymentType    EmploymentType  `json:"employment_type" validate:"required,employment_type"`
	EmployerName      string          `json:"employer_name,omitempty"`
	MonthlyIncome     decimal.Decimal `json:"monthly_income" validate:"gte=0"`
	AnnualIncome      decimal.Decimal `json:"annual_income" validate:"gte=0"`
	YearsOfExperience int             `json:"years_of_experience" validate:"gte=0"`

	ExistingEMIs   decimal.Decimal `json:"existing_emis" validate:"gte=0"`
	CreditCardDues decimal.Decimal `json:"credit_card_dues" validate:"gte=0"`
	OtherLoans     []string        `json:"other_loans,omitempty"`

	RequestedLoanAmount   decimal.Decimal `json:"requested_loan_amount" validate:"gt=0"`
	RequestedTenureMonths int             `json:"requested_tenure_months" validate:"gt=0"`
	LoanType              LoanType        `json:"loan_type" validate:"required,loan_type"`
	LoanPurpose           string          `json:"loan_purpose,omitempty"`

	HasCoApplicant          bool            `json:"has_co_applicant"`
	CoApplicantIncome       decimal.Decimal `json:"co_applicant_income" validate:"gte=0"`
	CoApplicantCreditScore  int             `json:"co_applicant_credit_score" validate:"gte=0,lte=900"`
	CoApplicantRelationship string          `json:"co_applicant_relationship,omitempty"`

	HasCollateral   bool            `json:"has_collateral"`
	CollateralType  string          `json:"collateral_type,omitempty"`
	CollateralValue decimal.Decimal `json:"collateral_value" validate:"gte=0"`

	IsExistingCustomer bool `json:"is_existing_customer"`
}

// TotalIncome is the applicant income plus co-applicant income when present.
func (a *ApplicantProfile) TotalIncome() decimal.Decimal {
	if a.HasCoApplicant {
		return a.MonthlyIncome.Add(a.CoApplicantIncome)
	}
	return a.MonthlyIncome
}

// CreditBureauResult is the bureau pull consumed by the risk scorer and
// compliance checker. Immutable input.
type CreditBureauResult struct {
	CreditScore int               `json:"credit_score" validate:"gte=0,lte=900"`
	ScoreBucket CreditScoreBucket `json:"score_bucket" validate:"required,score_bucket"`

	TotalAccounts   int `json:"total_accounts"`
	ActiveAccounts  int `json:"active_accounts"`
	OverdueAccounts int `json:"overdue_accounts"`

	DaysPastDue30 int `json:"days_past_due_30" validate:"gte=0"`
	DaysPastDue60 int `json:"days_past_due_60" validate:"gte=0"`
	DaysPastDue90 int `json:"days_past_due_90" validate:"gte=0"`

	TotalCreditLimit decimal.Decimal `json:"total_credit_limit"`
	CurrentBalance   decimal.Decimal `json:"current_balance"`
	UtilizationRatio decimal.Decimal `json:"utilization_ratio" validate:"gte=0"`

	HasWriteOffs   bool `json:"has_write_offs"`
	HasSettlements bool `json:"has_settlements"`

	RecentInquiries int `json:"recent_inquiries" validate:"gte=0"`
}

// CleanPaymentHistory reports zero delinquency across all DPD counters.
func (c *CreditBureauResult) CleanPaymentHistory() bool {
	return c.DaysPastDue30 == 0 && c.DaysPastDue60 == 0 && c.DaysPastDue90 == 0
}

// VerificationResult is the verification collaborator's output, consumed
// read-only as a precondition gate.
type VerificationResult struct {
	KYCVerified       bool `json:"kyc_verified"`
	AMLCleared        bool `json:"aml_cleared"`
	DocumentsVerified bool `json:"documents_verified"`

	IdentityDocsOK     bool `json:"identity_docs_ok"`
	AddressDocsOK      bool `json:"address_docs_ok"`
	IncomeDocsOK       bool `json:"income_docs_ok"`
	EmploymentVerified bool `json:"employment_verified"`

	VerificationFlags []string `json:"verification_flags,omitempty"`
}
