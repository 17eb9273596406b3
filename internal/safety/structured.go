package safety

import (
	"fmt"
	"strings"

	"github.com/greenplate/foodsafe-backend/internal/domain"
)

// Message templates for structured warnings. They mirror what the UI renders
// verbatim; golden-output tests depend on them.
const (
	allergyTitle      = "알러지 주의"
	allergyMessageFmt = "%s 성분이 포함되어 있습니다."

	diseaseTitleFmt       = "지병 주의 (%s)"
	diseaseDefaultMessage = "섭취 주의가 필요합니다."
)

// matchStructured intersects the product's declared tags with the profile.
//
// Allergen conflicts collapse into a single ALLERGY/WARN warning whose
// message enumerates matched allergen names in the order they were declared
// on the product. Sweetener conflicts emit one DISEASE warning per active
// (sweetener, disease) rule matching the profile, deduped so duplicate tag
// rows never produce a second warning for the same rule.
func matchStructured(product domain.Product, profile *domain.Profile, ref *domain.RefSnapshot) []domain.Warning {
	var warnings []domain.Warning

	var matchedNames []string
	seenAllergens := make(map[int64]bool)
	for _, id := range product.AllergenTags {
		if seenAllergens[id] || !profile.HasAllergen(id) {
			continue
		}
		seenAllergens[id] = true
		name := ref.AllergenName(id)
		if name == "" {
			name = fmt.Sprintf("#%d", id)
		}
		matchedNames = append(matchedNames, name)
	}
	if len(matchedNames) > 0 {
		joined := strings.Join(matchedNames, ", ")
		warnings = append(warnings, domain.Warning{
			Type:      domain.WarningTypeAllergy,
			Level:     domain.WarningLevelWarn,
			Title:     allergyTitle,
			Message:   fmt.Sprintf(allergyMessageFmt, joined),
			SourceRef: joined,
			Source:    domain.SourceStructured,
		})
	}

	seenRules := make(map[[2]int64]bool)
	for _, sweetenerID := range product.SweetenerTags {
		for _, rule := range ref.RulesForSweetener(sweetenerID) {
			if !profile.HasDisease(rule.DiseaseID) {
				continue
			}
			key := [2]int64{rule.SweetenerID, rule.DiseaseID}
			if seenRules[key] {
				continue
			}
			seenRules[key] = true

			message := rule.Message
			if message == "" {
				message = diseaseDefaultMessage
			}
			warnings = append(warnings, domain.Warning{
				Type:      domain.WarningTypeDisease,
				Level:     rule.Level.WarningLevel(),
				Title:     fmt.Sprintf(diseaseTitleFmt, ref.SweetenerName(sweetenerID)),
				Message:   message,
				SourceRef: fmt.Sprintf("rule:%d:%d", rule.SweetenerID, rule.DiseaseID),
				Source:    domain.SourceStructured,
			})
		}
	}

	return warnings
}
