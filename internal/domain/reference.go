package domain

// Placeholder allergen ids used by the product catalog for "not applicable"
// and "unknown" rows. They are catalog bookkeeping, not allergens, and must
// never match a user's declared allergen set.
const (
	AllergenIDNone    int64 = 998
	AllergenIDUnknown int64 = 999
)

// Allergen is static reference data identifying a declarable allergen.
type Allergen struct {
	ID   int64
	Name string
}

// Matchable reports whether this allergen may participate in conflict
// matching. Placeholder rows (998/999) are excluded.
func (a Allergen) Matchable() bool { return MatchableAllergenID(a.ID) }

// MatchableAllergenID reports whether an allergen id may participate in
// conflict matching.
func MatchableAllergenID(id int64) bool {
	return id != AllergenIDNone && id != AllergenIDUnknown
}

// Disease is static reference data identifying a declarable condition.
type Disease struct {
	ID   int64
	Name string
}

// Sweetener is an ingredient category with a glycemic-impact classification.
type Sweetener struct {
	ID             int64
	Name           string
	GlycemicImpact GlycemicImpact
}

// SweetenerDiseaseRule restricts a sweetener for users with a given disease.
// At most one active rule exists per (SweetenerID, DiseaseID) pair.
type SweetenerDiseaseRule struct {
	SweetenerID int64
	DiseaseID   int64
	Level       RestrictionLevel
	Message     string
	Active      bool
}

// RefData is the raw row form of the reference tables. It exists for
// transport and caching: unlike RefSnapshot it is flat and serializable.
type RefData struct {
	Allergens  []Allergen             `json:"allergens"`
	Diseases   []Disease              `json:"diseases"`
	Sweeteners []Sweetener            `json:"sweeteners"`
	Rules      []SweetenerDiseaseRule `json:"rules"`
}

// Snapshot assembles the indexed view of the raw rows.
func (d RefData) Snapshot() *RefSnapshot {
	return NewRefSnapshot(d.Allergens, d.Diseases, d.Sweeteners, d.Rules)
}

// RefSnapshot is an immutable, in-memory view of the reference tables,
// loaded once per evaluation and shared read-only across a batch.
type RefSnapshot struct {
	Allergens  map[int64]Allergen
	Diseases   map[int64]Disease
	Sweeteners map[int64]Sweetener

	// rulesBySweetener indexes active rules by sweetener id; within one
	// sweetener, rules keep their load order for deterministic output.
	rulesBySweetener map[int64][]SweetenerDiseaseRule
}

// NewRefSnapshot builds a snapshot from raw reference rows. Inactive rules
// are dropped; a duplicate active rule for the same (sweetener, disease)
// pair keeps only the first occurrence, preserving the at-most-one invariant
// even against bad data.
func NewRefSnapshot(allergens []Allergen, diseases []Disease, sweeteners []Sweetener, rules []SweetenerDiseaseRule) *RefSnapshot {
	s := &RefSnapshot{
		Allergens:        make(map[int64]Allergen, len(allergens)),
		Diseases:         make(map[int64]Disease, len(diseases)),
		Sweeteners:       make(map[int64]Sweetener, len(sweeteners)),
		rulesBySweetener: make(map[int64][]SweetenerDiseaseRule),
	}
	for _, a := range allergens {
		s.Allergens[a.ID] = a
	}
	for _, d := range diseases {
		s.Diseases[d.ID] = d
	}
	for _, sw := range sweeteners {
		s.Sweeteners[sw.ID] = sw
	}

	seen := make(map[[2]int64]bool, len(rules))
	for _, r := range rules {
		if !r.Active {
			continue
		}
		key := [2]int64{r.SweetenerID, r.DiseaseID}
		if seen[key] {
			continue
		}
		seen[key] = true
		s.rulesBySweetener[r.SweetenerID] = append(s.rulesBySweetener[r.SweetenerID], r)
	}
	return s
}

// RulesForSweetener returns the active rules declared for a sweetener,
// in load order.
func (s *RefSnapshot) RulesForSweetener(sweetenerID int64) []SweetenerDiseaseRule {
	return s.rulesBySweetener[sweetenerID]
}

// AllergenName returns the canonical name for an allergen id, or "" when the
// id is unknown to the snapshot.
func (s *RefSnapshot) AllergenName(id int64) string {
	return s.Allergens[id].Name
}

// SweetenerName returns the canonical name for a sweetener id, or "" when
// the id is unknown to the snapshot.
func (s *RefSnapshot) SweetenerName(id int64) string {
	return s.Sweeteners[id].Name
}
