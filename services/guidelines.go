package services

import (
	"math"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// DefaultDetailDuration is shown in Invitro detail views when a study cannot
// be resolved. Aggregate totals use 0 instead.
const DefaultDetailDuration = 30

// Lookup resolves a (category, study name) pair to its reference record.
type Lookup interface {
	Resolve(category, studyName string) (ReferenceRecord, bool)
}

// Resolver searches the concatenation of a fixed list of reference tables.
type Resolver struct {
	records []ReferenceRecord
}

// NewResolver builds a resolver over the given tables, searched in order.
func NewResolver(tables ...[]ReferenceRecord) *Resolver {
	var records []ReferenceRecord
	for _, t := range tables {
		records = append(records, t...)
	}
	return &Resolver{records: records}
}

// Resolve returns the first record whose therapeutic area and study name both
// match exactly. The second result is false when nothing matches.
func (r *Resolver) Resolve(category, studyName string) (ReferenceRecord, bool) {
	for _, rec := range r.records {
		if rec.TherapeuticArea == category && rec.StudyName == studyName {
			return rec, true
		}
	}
	return ReferenceRecord{}, false
}

// StudiesInArea returns every record filed under category, in table order.
func (r *Resolver) StudiesInArea(category string) []ReferenceRecord {
	var out []ReferenceRecord
	for _, rec := range r.records {
		if rec.TherapeuticArea == category {
			out = append(out, rec)
		}
	}
	return out
}

type resolverSet struct {
	invitro      *Resolver
	toxicity     *Resolver
	microbiology *Resolver
}

func buildResolvers(tables map[string][]ReferenceRecord) resolverSet {
	invitro := make([][]ReferenceRecord, 0, len(ProductTypeKeys))
	for _, key := range ProductTypeKeys {
		invitro = append(invitro, tables[key])
	}
	return resolverSet{
		invitro:      NewResolver(invitro...),
		toxicity:     NewResolver(tables[TableToxicity]),
		microbiology: NewResolver(tables[TableDisinfectants]),
	}
}

func currentResolvers() resolverSet {
	tablesMu.RLock()
	defer tablesMu.RUnlock()
	return resolvers
}

// Resolve looks up an Invitro study across all product-type tables.
func Resolve(category, studyName string) (ReferenceRecord, bool) {
	return currentResolvers().invitro.Resolve(category, studyName)
}

// ResolverFor returns the resolver used to price items of the given study type.
func ResolverFor(studyType StudyType) *Resolver {
	r := currentResolvers()
	switch studyType {
	case StudyTypeToxicity:
		return r.toxicity
	case StudyTypeMicrobiology:
		return r.microbiology
	default:
		return r.invitro
	}
}

// ListTherapeuticAreas returns the unique therapeutic areas of a table,
// case preserved and sorted alphabetically.
func ListTherapeuticAreas(tableKey string) []string {
	seen := make(map[string]bool)
	var areas []string
	for _, rec := range LoadTable(tableKey) {
		if seen[rec.TherapeuticArea] {
			continue
		}
		seen[rec.TherapeuticArea] = true
		areas = append(areas, rec.TherapeuticArea)
	}
	sort.Strings(areas)
	return areas
}

// AllAreasSelected reports whether selected covers every therapeutic area of
// the table. It drives the "select all" checkbox state.
func AllAreasSelected(tableKey string, selected []string) bool {
	chosen := make(map[string]bool, len(selected))
	for _, s := range selected {
		chosen[s] = true
	}
	for _, area := range ListTherapeuticAreas(tableKey) {
		if !chosen[area] {
			return false
		}
	}
	return true
}

// ParsePercent converts "5%", "5 %" or "5" to 5. Unparseable input yields 0.
func ParsePercent(s string) float64 {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	pct, err := cast.ToFloat64E(trimmed)
	if err != nil {
		return 0
	}
	return pct
}

// TotalDuration returns base inflated by the percentage: a "10%" discount on a
// 60 day study yields 66 days. The field is called discount in the reference
// data but it lengthens the turnaround, it never shortens it.
func TotalDuration(base int, discountPercent string) int {
	b := float64(base)
	return int(math.Round(b + b*ParsePercent(discountPercent)/100))
}

// DetailDuration is the inflated duration shown on a study detail line, or
// DefaultDetailDuration when the study is unknown.
func DetailDuration(lookup Lookup, category, studyName string) int {
	rec, ok := lookup.Resolve(category, studyName)
	if !ok {
		return DefaultDetailDuration
	}
	return TotalDuration(rec.Duration, rec.Discount)
}
