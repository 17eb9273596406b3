package domain

// WarningType partitions warnings into the sections the UI renders:
// allergy conflicts first, then disease conflicts, then informational notes.
type WarningType string

const (
	WarningTypeAllergy WarningType = "ALLERGY"
	WarningTypeDisease WarningType = "DISEASE"
	WarningTypeInfo    WarningType = "INFO"
)

func (t WarningType) String() string { return string(t) }

func (t WarningType) IsValid() bool {
	switch t {
	case WarningTypeAllergy, WarningTypeDisease, WarningTypeInfo:
		return true
	}
	return false
}

// sectionRank orders warning types for output: ALLERGY < DISEASE < INFO.
func (t WarningType) sectionRank() int {
	switch t {
	case WarningTypeAllergy:
		return 0
	case WarningTypeDisease:
		return 1
	default:
		return 2
	}
}

// Less reports whether t sorts before other in the output section order.
func (t WarningType) Less(other WarningType) bool {
	return t.sectionRank() < other.sectionRank()
}

// WarningLevel is the severity tier of a single warning.
type WarningLevel string

const (
	WarningLevelInfo    WarningLevel = "INFO"
	WarningLevelCaution WarningLevel = "CAUTION"
	WarningLevelWarn    WarningLevel = "WARN"
	WarningLevelContra  WarningLevel = "CONTRA"
)

func (l WarningLevel) String() string { return string(l) }

func (l WarningLevel) IsValid() bool {
	switch l {
	case WarningLevelInfo, WarningLevelCaution, WarningLevelWarn, WarningLevelContra:
		return true
	}
	return false
}

// RestrictionLevel is the severity tier on a sweetener-disease rule.
// It maps one-to-one onto a WarningLevel.
type RestrictionLevel string

const (
	RestrictionInfo    RestrictionLevel = "INFO"
	RestrictionCaution RestrictionLevel = "CAUTION"
	RestrictionContra  RestrictionLevel = "CONTRA"
)

func (l RestrictionLevel) String() string { return string(l) }

func (l RestrictionLevel) IsValid() bool {
	switch l {
	case RestrictionInfo, RestrictionCaution, RestrictionContra:
		return true
	}
	return false
}

// WarningLevel converts a rule's restriction level into the warning level
// surfaced to the UI.
func (l RestrictionLevel) WarningLevel() WarningLevel {
	switch l {
	case RestrictionInfo:
		return WarningLevelInfo
	case RestrictionContra:
		return WarningLevelContra
	default:
		return WarningLevelCaution
	}
}

// GlycemicImpact classifies a sweetener's effect on blood sugar.
type GlycemicImpact string

const (
	GlycemicNeutral GlycemicImpact = "NEUTRAL"
	GlycemicRaises  GlycemicImpact = "RAISES"
	GlycemicLowers  GlycemicImpact = "LOWERS"
	GlycemicUnknown GlycemicImpact = "UNKNOWN"
)

func (g GlycemicImpact) String() string { return string(g) }

func (g GlycemicImpact) IsValid() bool {
	switch g {
	case GlycemicNeutral, GlycemicRaises, GlycemicLowers, GlycemicUnknown:
		return true
	}
	return false
}
