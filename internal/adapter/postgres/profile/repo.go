package profile

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/greenplate/foodsafe-backend/internal/adapter/postgres"
	"github.com/greenplate/foodsafe-backend/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo reads a user's declared allergens and diseases, joined with the
// reference tables so the engine gets canonical names alongside the ids.
type Repo struct {
	q postgres.Querier
}

func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

type allergenRow struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type diseaseRow struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// AllergensByUserID returns the user's declared allergens in declaration
// order. An unknown user id yields an empty slice, not an error: a user with
// no profile rows simply has nothing declared.
func (r *Repo) AllergensByUserID(ctx context.Context, userID int64) ([]domain.Allergen, error) {
	query := psql.Select("a.id", "a.name").
		From("user_allergens ua").
		Join("allergens a ON a.id = ua.allergen_id").
		Where(squirrel.Eq{"ua.user_id": userID}).
		OrderBy("ua.position ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []allergenRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "user allergens", strconv.FormatInt(userID, 10))
	}

	allergens := make([]domain.Allergen, 0, len(rows))
	for _, row := range rows {
		allergens = append(allergens, domain.Allergen{ID: row.ID, Name: row.Name})
	}
	return allergens, nil
}

// DiseasesByUserID returns the user's declared diseases in declaration order.
func (r *Repo) DiseasesByUserID(ctx context.Context, userID int64) ([]domain.Disease, error) {
	query := psql.Select("d.id", "d.name").
		From("user_diseases ud").
		Join("diseases d ON d.id = ud.disease_id").
		Where(squirrel.Eq{"ud.user_id": userID}).
		OrderBy("ud.position ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []diseaseRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "user diseases", strconv.FormatInt(userID, 10))
	}

	diseases := make([]domain.Disease, 0, len(rows))
	for _, row := range rows {
		diseases = append(diseases, domain.Disease{ID: row.ID, Name: row.Name})
	}
	return diseases, nil
}
