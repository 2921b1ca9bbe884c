package risk

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"creditdesk/internal/domain"
	"creditdesk/internal/policy"
)

func TestLevelBuckets(t *testing.T) {
	tests := []struct {
		points int
		want   domain.RiskLevel
	}{
		{0, domain.RiskLow},
		{20, domain.RiskLow},
		{21, domain.RiskMedium},
		{45, domain.RiskMedium},
		{46, domain.RiskHigh},
		{70, domain.RiskHigh},
		{71, domain.RiskCritical},
		{200, domain.RiskCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Level(tt.points), "points=%d", tt.points)
	}
}

func TestLevelIsTotalAndMonotonic(t *testing.T) {
	valid := map[domain.RiskLevel]int{
		domain.RiskLow: 0, domain.RiskMedium: 1, domain.RiskHigh: 2, domain.RiskCritical: 3,
	}

	prev := -1
	for points := 0; points <= 300; points++ {
		rank, ok := valid[Level(points)]
		assert.True(t, ok, "points=%d must map to a level", points)
		assert.GreaterOrEqual(t, rank, prev, "bucketing must not decrease at points=%d", points)
		prev = rank
	}
}

func TestScoreCleanProfile(t *testing.T) {
	bureau := &domain.CreditBureauResult{
		CreditScore:      790,
		ScoreBucket:      domain.BucketExcellent,
		UtilizationRatio: decimal.RequireFromString("0.20"),
	}

	assert.Equal(t, domain.RiskLow, Score(bureau, &policy.Policy{}))
}

func TestScoreCreditScoreFactor(t *testing.T) {
	p := &policy.Policy{MinCreditScore: 700}

	tests := []struct {
		name  string
		score int
		want  domain.RiskLevel
	}{
		{"excellent adds nothing", 760, domain.RiskLow},
		{"good band", 710, domain.RiskLow},
		{"at policy minimum", 700, domain.RiskLow},
		{"below minimum within 50", 680, domain.RiskHigh},
		{"far below minimum", 600, domain.RiskCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bureau := &domain.CreditBureauResult{CreditScore: tt.score, ScoreBucket: domain.BucketFair}
			assert.Equal(t, tt.want, Score(bureau, p))
		})
	}
}

func TestScoreNoHistoryBucket(t *testing.T) {
	bureau := &domain.CreditBureauResult{ScoreBucket: domain.BucketNoHistory}

	admitting := &policy.Policy{AllowNoCreditHistory: true}
	assert.Equal(t, domain.RiskMedium, Score(bureau, admitting))

	assert.Equal(t, domain.RiskCritical, Score(bureau, &policy.Policy{}))
}

func TestScoreDelinquencyMostSevereBracketOnly(t *testing.T) {
	p := &policy.Policy{}

	// All brackets populated: only the 90-day bracket counts.
	bureau := &domain.CreditBureauResult{
		CreditScore:   760,
		DaysPastDue30: 5,
		DaysPastDue60: 2,
		DaysPastDue90: 1,
	}
	// 40 points -> Medium. Stacking would have given 40+25+15 -> Critical.
	assert.Equal(t, domain.RiskMedium, Score(bureau, p))

	bureau = &domain.CreditBureauResult{CreditScore: 760, DaysPastDue60: 1}
	assert.Equal(t, domain.RiskMedium, Score(bureau, p))

	// 30-day bracket needs more than two occurrences.
	bureau = &domain.CreditBureauResult{CreditScore: 760, DaysPastDue30: 2}
	assert.Equal(t, domain.RiskLow, Score(bureau, p))
}

func TestScoreDerogatoryFlagsStack(t *testing.T) {
	p := &policy.Policy{}

	bureau := &domain.CreditBureauResult{CreditScore: 760, HasWriteOffs: true}
	assert.Equal(t, domain.RiskHigh, Score(bureau, p))

	bureau = &domain.CreditBureauResult{CreditScore: 760, HasSettlements: true}
	assert.Equal(t, domain.RiskMedium, Score(bureau, p))

	bureau = &domain.CreditBureauResult{CreditScore: 760, HasWriteOffs: true, HasSettlements: true}
	assert.Equal(t, domain.RiskCritical, Score(bureau, p))
}

func TestScoreUtilizationAndInquiries(t *testing.T) {
	p := &policy.Policy{}

	bureau := &domain.CreditBureauResult{
		CreditScore:      760,
		UtilizationRatio: decimal.RequireFromString("0.85"),
		RecentInquiries:  7,
	}
	// 15 + 10 = 25 -> Medium.
	assert.Equal(t, domain.RiskMedium, Score(bureau, p))

	bureau = &domain.CreditBureauResult{
		CreditScore:      760,
		UtilizationRatio: decimal.RequireFromString("0.65"),
		RecentInquiries:  4,
	}
	// 8 + 5 = 13 -> Low.
	assert.Equal(t, domain.RiskLow, Score(bureau, p))
}

func TestScoreWorstCase(t *testing.T) {
	bureau := &domain.CreditBureauResult{
		CreditScore:      550,
		ScoreBucket:      domain.BucketPoor,
		DaysPastDue90:    2,
		HasWriteOffs:     true,
		HasSettlements:   true,
		UtilizationRatio: decimal.RequireFromString("0.95"),
		RecentInquiries:  9,
	}

	assert.Equal(t, domain.RiskCritical, Score(bureau, &policy.Policy{MinCreditScore: 700}))
}
