package domain

import "strings"

// diabetesNameMarker identifies diabetes-class diseases by canonical name
// ("당뇨병" and variants). The profile store has no dedicated flag for it.
const diabetesNameMarker = "당뇨"

// Profile is a user's declared allergen and disease sets, loaded once per
// evaluation session and immutable for its duration. An unauthenticated or
// profile-less user has the zero sets, which simply produce no structured
// warnings downstream.
type Profile struct {
	UserID int64

	AllergenIDs   map[int64]bool
	AllergenNames []string

	DiseaseIDs   map[int64]bool
	DiseaseNames []string
}

// EmptyProfile returns a profile with no declared allergens or diseases.
func EmptyProfile(userID int64) *Profile {
	return &Profile{
		UserID:      userID,
		AllergenIDs: map[int64]bool{},
		DiseaseIDs:  map[int64]bool{},
	}
}

// IsEmpty reports whether the profile declares nothing at all.
func (p *Profile) IsEmpty() bool {
	return len(p.AllergenIDs) == 0 && len(p.DiseaseIDs) == 0
}

// HasAllergen reports whether the user declared the given allergen id.
// Placeholder ids (998/999) never match regardless of the stored sets.
func (p *Profile) HasAllergen(id int64) bool {
	return MatchableAllergenID(id) && p.AllergenIDs[id]
}

// HasDisease reports whether the user declared the given disease id.
func (p *Profile) HasDisease(id int64) bool {
	return p.DiseaseIDs[id]
}

// HasDiabetes reports whether any declared disease is diabetes-class.
func (p *Profile) HasDiabetes() bool {
	for _, name := range p.DiseaseNames {
		if strings.Contains(name, diabetesNameMarker) {
			return true
		}
	}
	return false
}
