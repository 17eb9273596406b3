package domain

// WarningSource records which matcher produced a warning. Within one output
// section, structured-source warnings precede heuristic-source warnings.
type WarningSource int

const (
	SourceStructured WarningSource = iota
	SourceHeuristic
)

// Warning is a single conflict surfaced to the caller. Warnings are
// ephemeral: computed per (product, profile) pair and never persisted by the
// engine.
type Warning struct {
	Type    WarningType  `json:"type"`
	Level   WarningLevel `json:"level"`
	Title   string       `json:"title"`
	Message string       `json:"message"`

	// SourceRef names the underlying allergen group, sweetener/disease rule,
	// or heuristic that triggered the warning. Two warnings of the same type
	// with the same SourceRef describe the same conflict and are deduped.
	SourceRef string `json:"-"`

	// Source is the matcher of origin; it drives intra-section ordering and
	// is not part of the wire shape.
	Source WarningSource `json:"-"`
}
