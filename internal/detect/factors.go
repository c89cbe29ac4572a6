package detect

// Factor names one dimension of missing information in a query.
type Factor string

const (
	FactorCriteria Factor = "criteria_missing"
	FactorRegion   Factor = "region_missing"
	FactorAudience Factor = "audience_missing"
	FactorLength   Factor = "length_missing"
	FactorLanguage Factor = "language_missing"
	FactorReferent Factor = "referent_missing"
)

// factorRank is the fixed total order used everywhere factors are
// sorted or selected: criteria > region > audience > length > language.
// Referent sorts last; it carries no clarification template.
var factorRank = map[Factor]int{
	FactorCriteria: 0,
	FactorRegion:   1,
	FactorAudience: 2,
	FactorLength:   3,
	FactorLanguage: 4,
	FactorReferent: 5,
}

// Rank returns the factor's position in the fixed priority order.
// Unknown factors sort after all known ones.
func (f Factor) Rank() int {
	if r, ok := factorRank[f]; ok {
		return r
	}
	return len(factorRank)
}
