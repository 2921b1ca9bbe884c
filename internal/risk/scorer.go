// Package risk converts a credit-bureau report into an ordinal risk level.
package risk

import (
	"github.com/shopspring/decimal"

	"creditdesk/internal/domain"
	"creditdesk/internal/policy"
)

var (
	utilizationHigh     = decimal.RequireFromString("0.80")
	utilizationElevated = decimal.RequireFromString("0.60")
)

// Score accumulates five weighted factors into a single additive score and
// maps it to a risk level. Pure: no side effects, no I/O, total over all
// bureau inputs.
func Score(bureau *domain.CreditBureauResult, p *policy.Policy) domain.RiskLevel {
	points := 0

	// Credit score against the policy minimum. The dominant factor.
	// First-time borrowers have no numeric score: priced as moderate risk
	// when the policy admits them, as below-minimum otherwise.
	if bureau.ScoreBucket == domain.BucketNoHistory {
		if p.AllowNoCreditHistory {
			points += 30
		} else {
			points += 80
		}
	} else {
		score := bureau.CreditScore
		minRequired := p.EffectiveMinCreditScore()
		switch {
		case score >= 750:
			// no points
		case score >= 700:
			points += 15
		case score >= minRequired:
			points += 30
		case score >= minRequired-50:
			points += 50
		default:
			points += 80
		}
	}

	// Delinquency: most severe bracket wins, never stacked.
	switch {
	case bureau.DaysPastDue90 > 0:
		points += 40
	case bureau.DaysPastDue60 > 0:
		points += 25
	case bureau.DaysPastDue30 > 2:
		points += 15
	}

	// Derogatory flags stack: a settled account on top of a write-off is
	// worse than either alone.
	if bureau.HasWriteOffs {
		points += 50
	}
	if bureau.HasSettlements {
		points += 30
	}

	// Utilization.
	if bureau.UtilizationRatio.GreaterThan(utilizationHigh) {
		points += 15
	} else if bureau.UtilizationRatio.GreaterThan(utilizationElevated) {
		points += 8
	}

	// Recent inquiries.
	if bureau.RecentInquiries > 5 {
		points += 10
	} else if bureau.RecentInquiries > 3 {
		points += 5
	}

	return Level(points)
}

// Level buckets an additive score into the four ordinal levels.
func Level(points int) domain.RiskLevel {
	switch {
	case points <= 20:
		return domain.RiskLow
	case points <= 45:
		return domain.RiskMedium
	case points <= 70:
		return domain.RiskHigh
	default:
		return domain.RiskCritical
	}
}
