package safety

import (
	"fmt"
	"strings"

	"github.com/greenplate/foodsafe-backend/internal/domain"
	"github.com/greenplate/foodsafe-backend/internal/safety/dictionary"
)

// Free-text heuristic templates. The sugar heuristic has two framings: a
// disease warning for diabetic profiles and an informational note otherwise.
const (
	sugarRef = "sugar"

	sugarDiabeticTitle        = "당뇨 주의 (당분 함유)"
	sugarDiabeticTermsFmt     = "혈당을 급격히 높일 수 있는 원재료(%s)가 포함되어 있습니다."
	sugarDiabeticNutrientOnly = "영양성분에 당류가 확인됩니다. 혈당 관리에 유의하세요."

	sugarInfoTitle        = "상세 성분 정보 (당류)"
	sugarInfoTermsFmt     = "원재료에 %s 등이 포함되어 있습니다."
	sugarInfoNutrientOnly = "영양성분에 당류가 포함되어 있습니다."

	synonymTitleFmt   = "알러지 주의 (%s 관련성분)"
	synonymMessageFmt = "원재료에 %s 관련 성분(%s)이 포함되어 있습니다."
)

// Nutrient-text markers for the sugars declaration. "당류" with an explicit
// zero does not count as a signal.
const (
	nutrientSugarMarker = "당류"
	nutrientSugarZeroA  = "당류 0g"
	nutrientSugarZeroB  = "당류0g"
)

// matchHeuristic scans the product's free-text fields against the keyword
// dictionaries. It is a fallback for products with missing or incomplete
// structured tags, not a replacement for matchStructured.
//
// Missing text fields are empty strings and simply match nothing.
func matchHeuristic(texts domain.ProductTexts, profile *domain.Profile, dicts *dictionary.Dictionaries, policy Policy) []domain.Warning {
	var warnings []domain.Warning

	if w, ok := sugarWarning(texts, profile, dicts, policy); ok {
		warnings = append(warnings, w)
	}
	warnings = append(warnings, synonymWarnings(texts.IngredientText, profile, dicts)...)

	return warnings
}

// sugarWarning emits at most one sugar-related warning per product. Two
// independent signals feed it: sugar-bearing terms in the ingredient list and
// a nonzero sugars declaration in the nutrition text.
func sugarWarning(texts domain.ProductTexts, profile *domain.Profile, dicts *dictionary.Dictionaries, policy Policy) (domain.Warning, bool) {
	var detected []string
	for _, term := range dicts.SugarTerms {
		if strings.Contains(texts.IngredientText, term) {
			detected = append(detected, term)
		}
	}

	hasSugarNutrient := strings.Contains(texts.NutrientText, nutrientSugarMarker) &&
		!strings.Contains(texts.NutrientText, nutrientSugarZeroA) &&
		!strings.Contains(texts.NutrientText, nutrientSugarZeroB)

	if len(detected) == 0 && !hasSugarNutrient {
		return domain.Warning{}, false
	}

	diabetic := profile.HasDiabetes()

	var title, message string
	if diabetic {
		title = sugarDiabeticTitle
		if len(detected) > 0 {
			message = fmt.Sprintf(sugarDiabeticTermsFmt, strings.Join(detected, ", "))
		} else {
			message = sugarDiabeticNutrientOnly
		}
	} else {
		title = sugarInfoTitle
		if len(detected) > 0 {
			message = fmt.Sprintf(sugarInfoTermsFmt, strings.Join(detected, ", "))
		} else {
			message = sugarInfoNutrientOnly
		}
	}

	w := domain.Warning{
		Type:      domain.WarningTypeInfo,
		Level:     policy.SugarDefaultLevel,
		Title:     title,
		Message:   message,
		SourceRef: sugarRef,
		Source:    domain.SourceHeuristic,
	}
	if diabetic {
		w.Type = domain.WarningTypeDisease
		w.Level = policy.SugarDiabeticLevel
	}
	return w, true
}

// synonymWarnings maps each declared allergen name to its synonym group and
// scans the ingredient text for the group's keywords in declaration order.
// One warning per group, even when several declared names resolve to it.
func synonymWarnings(ingredientText string, profile *domain.Profile, dicts *dictionary.Dictionaries) []domain.Warning {
	if ingredientText == "" || len(profile.AllergenNames) == 0 {
		return nil
	}

	var warnings []domain.Warning
	warned := make(map[string]bool)

	for _, group := range dicts.SynonymGroups {
		if warned[group.Name] || !profileDeclaresGroup(profile, group.Name) {
			continue
		}

		var detected []string
		for _, kw := range group.Keywords {
			if strings.Contains(ingredientText, kw) {
				detected = append(detected, kw)
			}
		}
		if len(detected) == 0 {
			continue
		}

		warned[group.Name] = true
		warnings = append(warnings, domain.Warning{
			Type:      domain.WarningTypeAllergy,
			Level:     domain.WarningLevelWarn,
			Title:     fmt.Sprintf(synonymTitleFmt, group.Name),
			Message:   fmt.Sprintf(synonymMessageFmt, group.Name, strings.Join(detected, ", ")),
			SourceRef: group.Name,
			Source:    domain.SourceHeuristic,
		})
	}

	return warnings
}

// profileDeclaresGroup reports whether any declared allergen name refers to
// the group. Catalog names can be qualified ("조개류(굴, 전복, 홍합 포함)"),
// so containment, not equality, is the match rule.
func profileDeclaresGroup(profile *domain.Profile, groupName string) bool {
	for _, name := range profile.AllergenNames {
		if strings.Contains(name, groupName) {
			return true
		}
	}
	return false
}
