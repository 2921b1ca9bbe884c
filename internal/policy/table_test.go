package policy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTable(t *testing.T) {
	table, err := LoadTable()
	require.NoError(t, err)

	assert.Equal(t, []string{"Axis", "HDFC", "ICICI", "SBI"}, table.Banks())

	for _, bank := range table.Banks() {
		for _, product := range []string{"education", "home", "personal", "vehicle", "business"} {
			_, found := table.Get(bank, product)
			assert.True(t, found, "%s/%s missing", bank, product)
		}
	}
}

func TestTableGetMarksProvenance(t *testing.T) {
	table := MustLoadTable()

	p, found := table.Get("SBI", "home")
	require.True(t, found)

	assert.Equal(t, SourceStatic, p.Source)
	assert.Equal(t, "SBI Home Loan", p.ProductName)
	assert.Equal(t, 650, p.MinCreditScore)
	require.NotNil(t, p.RateRange)
	assert.True(t, p.RateRange.Min.Equal(decimal.RequireFromString("8.4")))
}

func TestTableGetUnknown(t *testing.T) {
	table := MustLoadTable()

	_, found := table.Get("Chase", "home")
	assert.False(t, found)

	_, found = table.Get("SBI", "gold")
	assert.False(t, found)

	assert.False(t, table.HasBank("sbi"), "bank names are exact-match")
}

func TestTableGetReturnsCopy(t *testing.T) {
	table := MustLoadTable()

	first, _ := table.Get("HDFC", "personal")
	first.MinCreditScore = 1

	second, _ := table.Get("HDFC", "personal")
	assert.Equal(t, 700, second.MinCreditScore)
}
