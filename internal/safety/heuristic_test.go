package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenplate/foodsafe-backend/internal/domain"
	"github.com/greenplate/foodsafe-backend/internal/safety/dictionary"
)

func testDicts() *dictionary.Dictionaries {
	return dictionary.Default()
}

func TestSugarWarning_DiabeticWithTerms(t *testing.T) {
	t.Parallel()

	texts := domain.ProductTexts{IngredientText: "정제수, 액상과당, 설탕, 향료"}
	profile := profileWith(nil, map[int64]string{1: "당뇨병"})

	warnings := matchHeuristic(texts, profile, testDicts(), DefaultPolicy())

	require.Len(t, warnings, 1)
	w := warnings[0]
	assert.Equal(t, domain.WarningTypeDisease, w.Type)
	assert.Equal(t, domain.WarningLevelWarn, w.Level)
	assert.Equal(t, "당뇨 주의 (당분 함유)", w.Title)
	// Terms are reported in dictionary declaration order, not text order.
	assert.Equal(t, "혈당을 급격히 높일 수 있는 원재료(설탕, 액상과당)가 포함되어 있습니다.", w.Message)
	assert.Equal(t, domain.SourceHeuristic, w.Source)
}

func TestSugarWarning_NonDiabeticIsInformational(t *testing.T) {
	t.Parallel()

	texts := domain.ProductTexts{IngredientText: "설탕, 소금"}
	profile := profileWith(nil, map[int64]string{2: "고혈압"})

	warnings := matchHeuristic(texts, profile, testDicts(), DefaultPolicy())

	require.Len(t, warnings, 1)
	w := warnings[0]
	assert.Equal(t, domain.WarningTypeInfo, w.Type)
	assert.Equal(t, domain.WarningLevelInfo, w.Level)
	assert.Equal(t, "상세 성분 정보 (당류)", w.Title)
	assert.Equal(t, "원재료에 설탕 등이 포함되어 있습니다.", w.Message)
}

func TestSugarWarning_NutrientTextOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		nutrientText string
		diabetic     bool
		wantCount    int
		wantMessage  string
	}{
		{"nonzero sugars, diabetic", "탄수화물 30g, 당류 12g", true, 1, "영양성분에 당류가 확인됩니다. 혈당 관리에 유의하세요."},
		{"nonzero sugars, non-diabetic", "탄수화물 30g, 당류 12g", false, 1, "영양성분에 당류가 포함되어 있습니다."},
		{"explicit zero with space", "탄수화물 30g, 당류 0g", true, 0, ""},
		{"explicit zero no space", "탄수화물 30g, 당류0g", true, 0, ""},
		{"no sugars declaration", "탄수화물 30g, 단백질 2g", true, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var diseases map[int64]string
			if tt.diabetic {
				diseases = map[int64]string{1: "당뇨병"}
			} else {
				diseases = map[int64]string{2: "고혈압"}
			}
			profile := profileWith(nil, diseases)

			warnings := matchHeuristic(domain.ProductTexts{NutrientText: tt.nutrientText}, profile, testDicts(), DefaultPolicy())
			require.Len(t, warnings, tt.wantCount)
			if tt.wantCount > 0 {
				assert.Equal(t, tt.wantMessage, warnings[0].Message)
			}
		})
	}
}

func TestSugarWarning_ExactlyOnePerProduct(t *testing.T) {
	t.Parallel()

	// Many terms plus a nutrient signal must still collapse into one warning.
	texts := domain.ProductTexts{
		IngredientText: "설탕, 물엿, 올리고당, 포도당",
		NutrientText:   "당류 25g",
	}
	profile := profileWith(nil, map[int64]string{1: "당뇨병"})

	warnings := matchHeuristic(texts, profile, testDicts(), DefaultPolicy())
	assert.Len(t, warnings, 1)
}

func TestSugarWarning_PolicyOverride(t *testing.T) {
	t.Parallel()

	policy := DefaultPolicy()
	policy.SugarDiabeticLevel = domain.WarningLevelContra
	policy.SugarDefaultLevel = domain.WarningLevelCaution

	texts := domain.ProductTexts{IngredientText: "설탕"}

	diabetic := matchHeuristic(texts, profileWith(nil, map[int64]string{1: "당뇨병"}), testDicts(), policy)
	require.Len(t, diabetic, 1)
	assert.Equal(t, domain.WarningLevelContra, diabetic[0].Level)

	other := matchHeuristic(texts, profileWith(nil, map[int64]string{2: "고혈압"}), testDicts(), policy)
	require.Len(t, other, 1)
	assert.Equal(t, domain.WarningLevelCaution, other[0].Level)
}

func TestSynonymWarnings_MilkDerivatives(t *testing.T) {
	t.Parallel()

	texts := domain.ProductTexts{IngredientText: "소맥분, 유청, 카제인, 식물성유지"}
	profile := profileWith(map[int64]string{2: "우유"}, nil)

	warnings := matchHeuristic(texts, profile, testDicts(), DefaultPolicy())

	require.Len(t, warnings, 1)
	w := warnings[0]
	assert.Equal(t, domain.WarningTypeAllergy, w.Type)
	assert.Equal(t, "알러지 주의 (우유 관련성분)", w.Title)
	assert.Equal(t, "원재료에 우유 관련 성분(카제인, 유청)이 포함되어 있습니다.", w.Message)
	assert.Equal(t, "우유", w.SourceRef)
}

func TestSynonymWarnings_QualifiedProfileName(t *testing.T) {
	t.Parallel()

	// The catalog name "조개류(굴, 전복, 홍합 포함)" must resolve to the 조개 group.
	texts := domain.ProductTexts{IngredientText: "굴 추출물, 소금"}
	profile := profileWith(map[int64]string{17: "조개류(굴, 전복, 홍합 포함)"}, nil)

	warnings := matchHeuristic(texts, profile, testDicts(), DefaultPolicy())

	require.Len(t, warnings, 1)
	assert.Equal(t, "알러지 주의 (조개 관련성분)", warnings[0].Title)
}

func TestSynonymWarnings_NoDeclaredAllergens(t *testing.T) {
	t.Parallel()

	texts := domain.ProductTexts{IngredientText: "우유, 설탕"}

	warnings := matchHeuristic(texts, domain.EmptyProfile(7), testDicts(), DefaultPolicy())
	assert.Empty(t, warnings)
}

func TestSynonymWarnings_EmptyTextMatchesNothing(t *testing.T) {
	t.Parallel()

	profile := profileWith(map[int64]string{2: "우유"}, nil)

	warnings := matchHeuristic(domain.ProductTexts{}, profile, testDicts(), DefaultPolicy())
	assert.Empty(t, warnings)
}

func TestMatchHeuristic_Deterministic(t *testing.T) {
	t.Parallel()

	texts := domain.ProductTexts{
		IngredientText: "설탕, 물엿, 유청, 대두, 밀가루",
		NutrientText:   "당류 10g",
	}
	profile := profileWith(map[int64]string{2: "우유", 5: "대두", 6: "밀"}, map[int64]string{1: "당뇨병"})

	first := matchHeuristic(texts, profile, testDicts(), DefaultPolicy())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, matchHeuristic(texts, profile, testDicts(), DefaultPolicy()))
	}
}
