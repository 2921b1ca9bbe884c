package policy

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"creditdesk/pkg/errors"
)

//go:embed policies.json
var policiesJSON []byte

// Table is the static baseline policy table, keyed by bank then loan type.
// It is immutable after load.
type Table struct {
	banks map[string]map[string]Policy
}

// LoadTable parses the embedded policy table. A malformed table is a
// programmer error and must fail at startup, not per request.
func LoadTable() (*Table, error) {
	var banks map[string]map[string]Policy
	if err := json.Unmarshal(policiesJSON, &banks); err != nil {
		return nil, errors.Wrap(err, "parse embedded policy table")
	}

	for bank, products := range banks {
		if len(products) == 0 {
			return nil, fmt.Errorf("policy table: bank %q has no products", bank)
		}
		for product, p := range products {
			if rr := p.RateRange; rr != nil && rr.Max.LessThan(rr.Min) {
				return nil, fmt.Errorf("policy table: %s/%s rate range inverted", bank, product)
			}
		}
	}

	return &Table{banks: banks}, nil
}

// MustLoadTable is LoadTable for process bootstrap.
func MustLoadTable() *Table {
	t, err := LoadTable()
	if err != nil {
		panic(err)
	}
	return t
}

// HasBank reports whether the bank exists in the baseline table.
func (t *Table) HasBank(bank string) bool {
	_, ok := t.banks[bank]
	return ok
}

// Banks lists the known banks, sorted.
func (t *Table) Banks() []string {
	names := make([]string, 0, len(t.banks))
	for name := range t.banks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a copy of the baseline record for the pair.
func (t *Table) Get(bank, loanType string) (Policy, bool) {
	products, ok := t.banks[bank]
	if !ok {
		return Policy{}, false
	}
	p, ok := products[loanType]
	if !ok {
		return Policy{}, false
	}
	p.Source = SourceStatic
	return p, true
}
