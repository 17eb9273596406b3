package refdata

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/greenplate/foodsafe-backend/internal/adapter/postgres"
	"github.com/greenplate/foodsafe-backend/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo loads the reference tables (allergens, diseases, sweeteners and the
// sweetener-disease rules) into an immutable in-memory snapshot.
type Repo struct {
	q postgres.Querier
}

func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

type refRow struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type sweetenerRow struct {
	ID             int64  `db:"id"`
	Name           string `db:"name"`
	GlycemicImpact string `db:"glycemic_impact"`
}

type ruleRow struct {
	SweetenerID int64  `db:"sweetener_id"`
	DiseaseID   int64  `db:"disease_id"`
	Level       string `db:"level"`
	Message     string `db:"message"`
	Active      bool   `db:"active"`
}

// Snapshot reads all four reference tables and assembles a RefSnapshot.
// Rule load order is the (sweetener_id, disease_id, id) order, which fixes
// the output order of disease warnings for a product.
func (r *Repo) Snapshot(ctx context.Context) (*domain.RefSnapshot, error) {
	data, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	return data.Snapshot(), nil
}

// Load reads the reference tables in their raw row form, for callers that
// cache or serialize them.
func (r *Repo) Load(ctx context.Context) (*domain.RefData, error) {
	allergens, err := r.loadAllergens(ctx)
	if err != nil {
		return nil, err
	}
	diseases, err := r.loadDiseases(ctx)
	if err != nil {
		return nil, err
	}
	sweeteners, err := r.loadSweeteners(ctx)
	if err != nil {
		return nil, err
	}
	rules, err := r.loadRules(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.RefData{
		Allergens:  allergens,
		Diseases:   diseases,
		Sweeteners: sweeteners,
		Rules:      rules,
	}, nil
}

func (r *Repo) loadAllergens(ctx context.Context) ([]domain.Allergen, error) {
	sql, args, err := psql.Select("id", "name").From("allergens").OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []refRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "allergens", "all")
	}

	allergens := make([]domain.Allergen, 0, len(rows))
	for _, row := range rows {
		allergens = append(allergens, domain.Allergen{ID: row.ID, Name: row.Name})
	}
	return allergens, nil
}

func (r *Repo) loadDiseases(ctx context.Context) ([]domain.Disease, error) {
	sql, args, err := psql.Select("id", "name").From("diseases").OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []refRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "diseases", "all")
	}

	diseases := make([]domain.Disease, 0, len(rows))
	for _, row := range rows {
		diseases = append(diseases, domain.Disease{ID: row.ID, Name: row.Name})
	}
	return diseases, nil
}

func (r *Repo) loadSweeteners(ctx context.Context) ([]domain.Sweetener, error) {
	sql, args, err := psql.Select("id", "name", "glycemic_impact").
		From("sweeteners").OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []sweetenerRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "sweeteners", "all")
	}

	sweeteners := make([]domain.Sweetener, 0, len(rows))
	for _, row := range rows {
		impact := domain.GlycemicImpact(row.GlycemicImpact)
		if !impact.IsValid() {
			impact = domain.GlycemicUnknown
		}
		sweeteners = append(sweeteners, domain.Sweetener{
			ID:             row.ID,
			Name:           row.Name,
			GlycemicImpact: impact,
		})
	}
	return sweeteners, nil
}

func (r *Repo) loadRules(ctx context.Context) ([]domain.SweetenerDiseaseRule, error) {
	sql, args, err := psql.Select("sweetener_id", "disease_id", "level", "COALESCE(message, '') AS message", "active").
		From("sweetener_disease_rules").
		OrderBy("sweetener_id ASC", "disease_id ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []ruleRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "sweetener rules", "all")
	}

	rules := make([]domain.SweetenerDiseaseRule, 0, len(rows))
	for _, row := range rows {
		level := domain.RestrictionLevel(row.Level)
		if !level.IsValid() {
			level = domain.RestrictionCaution
		}
		rules = append(rules, domain.SweetenerDiseaseRule{
			SweetenerID: row.SweetenerID,
			DiseaseID:   row.DiseaseID,
			Level:       level,
			Message:     row.Message,
			Active:      row.Active,
		})
	}
	return rules, nil
}
