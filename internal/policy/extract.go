package policy

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"creditdesk/internal/domain"
)

// Patch is a partial policy override extracted from retrieved passages.
// Extracted fields are lower-trust and are merged on top of the static
// baseline; absent fields inherit.
type Patch struct {
	RateRange           *RateRange       `json:"rate_range,omitempty"`
	MaxAmount           *decimal.Decimal `json:"max_amount,omitempty"`
	MaxAmountAbroad     *decimal.Decimal `json:"max_amount_abroad,omitempty"`
	CollateralThreshold *decimal.Decimal `json:"collateral_threshold,omitempty"`
	MaxTenureYears      *int             `json:"max_tenure_years,omitempty"`
	MoratoriumMonths    *int             `json:"moratorium_months,omitempty"`
}

// IsZero reports whether extraction found nothing usable.
func (p Patch) IsZero() bool {
	return p.RateRange == nil && p.MaxAmount == nil && p.MaxAmountAbroad == nil &&
		p.CollateralThreshold == nil && p.MaxTenureYears == nil && p.MoratoriumMonths == nil
}

// Apply merges the patch over a baseline record, returning a new copy.
func (p Patch) Apply(base Policy) Policy {
	merged := base
	if p.RateRange != nil {
		rr := *p.RateRange
		merged.RateRange = &rr
	}
	if p.MaxAmount != nil {
		merged.MaxAmount = *p.MaxAmount
	}
	if p.MaxAmountAbroad != nil {
		merged.MaxAmountAbroad = *p.MaxAmountAbroad
	}
	if p.CollateralThreshold != nil {
		merged.CollateralThreshold = *p.CollateralThreshold
	}
	if p.MaxTenureYears != nil {
		merged.MaxTenureYears = *p.MaxTenureYears
	}
	if p.MoratoriumMonths != nil {
		merged.MoratoriumMonths = *p.MoratoriumMonths
	}
	return merged
}

var (
	reRateBand    = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*%?\s*(?:-|–|to)\s*(\d+(?:\.\d+)?)\s*%`)
	reRateOnwards = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*%\s*onwards`)
	reRateLoose   = regexp.MustCompile(`(?i)interest.*?(\d+(?:\.\d+)?)\s*%`)

	reAmountUpTo = regexp.MustCompile(`(?i)up\s*to\s*₹?\s*([\d,]+)\s*(lakh|crore)?`)
	reAmountMax  = regexp.MustCompile(`(?i)maximum.*?₹?\s*([\d,]+)\s*(lakh|crore)?`)

	reCollateralFree = regexp.MustCompile(`(?i)no\s*collateral.*?up\s*to\s*₹?\s*([\d,]+)\s*(lakh)?`)
	reTenureYears    = regexp.MustCompile(`(?i)tenure.*?(\d+)\s*years?|up\s*to\s*(\d+)\s*years?`)
	reMoratorium     = regexp.MustCompile(`(?i)moratorium.*?(\d+)\s*months?|course.*?\+\s*(\d+)\s*months?`)
)

// ExtractPatch pulls structured policy fields out of retrieved passages by
// best-effort pattern matching. It never fails: malformed or irrelevant text
// simply contributes no fields.
func ExtractPatch(passages []Passage, bank string, loanType domain.LoanType) Patch {
	var b strings.Builder
	for _, passage := range passages {
		b.WriteString(passage.Content)
		b.WriteByte('\n')
	}
	text := b.String()
	if text == "" {
		return Patch{}
	}

	// Passages that never mention the bank are noise, not overrides.
	if !strings.Contains(strings.ToLower(text), strings.ToLower(bank)) {
		return Patch{}
	}

	var patch Patch
	patch.RateRange = extractRateRange(text)

	if amount, ok := extractScaledAmount(text, reAmountUpTo, reAmountMax); ok {
		if loanType == domain.LoanEducation {
			patch.MaxAmountAbroad = &amount
		} else {
			patch.MaxAmount = &amount
		}
	}

	if m := reCollateralFree.FindStringSubmatch(text); m != nil {
		if amount, ok := parseAmount(m[1]); ok {
			if strings.EqualFold(m[2], "lakh") {
				amount = amount.Mul(lakh)
			}
			patch.CollateralThreshold = &amount
		}
	}

	if m := reTenureYears.FindStringSubmatch(text); m != nil {
		if years, ok := firstInt(m[1:]); ok {
			patch.MaxTenureYears = &years
		}
	}

	if m := reMoratorium.FindStringSubmatch(text); m != nil {
		if months, ok := firstInt(m[1:]); ok {
			patch.MoratoriumMonths = &months
		}
	}

	return patch
}

var (
	lakh  = decimal.NewFromInt(100_000)
	crore = decimal.NewFromInt(10_000_000)
)

func extractRateRange(text string) *RateRange {
	if m := reRateBand.FindStringSubmatch(text); m != nil {
		min, okMin := parseRate(m[1])
		max, okMax := parseRate(m[2])
		if okMin && okMax && !max.LessThan(min) {
			return &RateRange{Min: min, Max: max}
		}
	}
	for _, re := range []*regexp.Regexp{reRateOnwards, reRateLoose} {
		if m := re.FindStringSubmatch(text); m != nil {
			if min, ok := parseRate(m[1]); ok {
				return &RateRange{Min: min, Max: min.Add(decimal.NewFromInt(2))}
			}
		}
	}
	return nil
}

func extractScaledAmount(text string, patterns ...*regexp.Regexp) (decimal.Decimal, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		amount, ok := parseAmount(m[1])
		if !ok {
			continue
		}
		switch strings.ToLower(m[2]) {
		case "lakh":
			amount = amount.Mul(lakh)
		case "crore":
			amount = amount.Mul(crore)
		}
		return amount, true
	}
	return decimal.Decimal{}, false
}

func parseAmount(raw string) (decimal.Decimal, bool) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	d, err := decimal.NewFromString(cleaned)
	if err != nil || !d.IsPositive() {
		return decimal.Decimal{}, false
	}
	return d, true
}

func parseRate(raw string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, false
	}
	return d, true
}

func firstInt(groups []string) (int, bool) {
	for _, g := range groups {
		if g == "" {
			continue
		}
		if n, err := strconv.Atoi(g); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}
