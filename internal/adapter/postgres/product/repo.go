package product

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/greenplate/foodsafe-backend/internal/adapter/postgres"
	"github.com/greenplate/foodsafe-backend/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides read access to the product catalog: base product rows,
// structured tag links and the free-text fields the heuristic matcher scans.
type Repo struct {
	q postgres.Querier
}

func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

type productRow struct {
	ReportNo       string `db:"report_no"`
	Name           string `db:"name"`
	Seller         string `db:"seller"`
	Capacity       string `db:"capacity"`
	ImageURL       string `db:"image_url"`
	IngredientText string `db:"ingredient_text"`
	NutrientText   string `db:"nutrient_text"`
}

type tagRow struct {
	ReportNo string `db:"report_no"`
	TagID    int64  `db:"tag_id"`
}

func productColumns() []string {
	return []string{
		"report_no",
		"name",
		"COALESCE(seller, '') AS seller",
		"COALESCE(capacity, '') AS capacity",
		"COALESCE(image_url, '') AS image_url",
		"COALESCE(ingredient_text, '') AS ingredient_text",
		"COALESCE(nutrient_text, '') AS nutrient_text",
	}
}

func (r productRow) toDomain() domain.Product {
	return domain.Product{
		ReportNo:       r.ReportNo,
		Name:           r.Name,
		Seller:         r.Seller,
		Capacity:       r.Capacity,
		ImageURL:       r.ImageURL,
		IngredientText: r.IngredientText,
		NutrientText:   r.NutrientText,
	}
}

// GetByReportNo returns a single catalog product without its tag links.
// Returns domain.ErrNotFound when the report number is unknown.
func (r *Repo) GetByReportNo(ctx context.Context, reportNo string) (*domain.Product, error) {
	query := psql.Select(productColumns()...).
		From("products").
		Where(squirrel.Eq{"report_no": reportNo})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row productRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "product", reportNo)
	}

	p := row.toDomain()
	return &p, nil
}

// Search returns catalog products whose name or report number contains the
// query substring, case-insensitively, ordered by name.
func (r *Repo) Search(ctx context.Context, term string, limit int) ([]domain.Product, error) {
	pattern := "%" + term + "%"
	query := psql.Select(productColumns()...).
		From("products").
		Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"report_no": pattern},
		}).
		OrderBy("name ASC", "report_no ASC").
		Limit(uint64(limit))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []productRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "product search", term)
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toDomain())
	}
	return products, nil
}

// Random samples catalog products for the recommendation fallback.
func (r *Repo) Random(ctx context.Context, limit int) ([]domain.Product, error) {
	query := psql.Select(productColumns()...).
		From("products").
		OrderBy("random()").
		Limit(uint64(limit))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []productRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "product sample", "random")
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toDomain())
	}
	return products, nil
}

// AllergenTagsByReportNos bulk-loads allergen tag links for a set of report
// numbers in one query. Tag order per product follows the declaration order
// on the product record (the position column).
func (r *Repo) AllergenTagsByReportNos(ctx context.Context, reportNos []string) (map[string][]int64, error) {
	return r.tagsByReportNos(ctx, "product_allergens", "allergen_id", reportNos)
}

// SweetenerTagsByReportNos bulk-loads sweetener tag links for a set of report
// numbers in one query, position-ordered per product.
func (r *Repo) SweetenerTagsByReportNos(ctx context.Context, reportNos []string) (map[string][]int64, error) {
	return r.tagsByReportNos(ctx, "product_sweeteners", "sweetener_id", reportNos)
}

func (r *Repo) tagsByReportNos(ctx context.Context, table, idColumn string, reportNos []string) (map[string][]int64, error) {
	tags := make(map[string][]int64, len(reportNos))
	if len(reportNos) == 0 {
		return tags, nil
	}

	query := psql.Select("report_no", idColumn+" AS tag_id").
		From(table).
		Where(squirrel.Eq{"report_no": reportNos}).
		OrderBy("report_no ASC", "position ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []tagRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, table, "bulk")
	}

	for _, row := range rows {
		tags[row.ReportNo] = append(tags[row.ReportNo], row.TagID)
	}
	return tags, nil
}

// TextsByReportNos bulk-loads the free-text fields for a set of report
// numbers. Report numbers absent from the result are not in the catalog.
func (r *Repo) TextsByReportNos(ctx context.Context, reportNos []string) (map[string]domain.ProductTexts, error) {
	texts := make(map[string]domain.ProductTexts, len(reportNos))
	if len(reportNos) == 0 {
		return texts, nil
	}

	query := psql.Select(
		"report_no",
		"COALESCE(ingredient_text, '') AS ingredient_text",
		"COALESCE(nutrient_text, '') AS nutrient_text",
	).
		From("products").
		Where(squirrel.Eq{"report_no": reportNos})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	type textRow struct {
		ReportNo       string `db:"report_no"`
		IngredientText string `db:"ingredient_text"`
		NutrientText   string `db:"nutrient_text"`
	}
	var rows []textRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "product texts", "bulk")
	}

	for _, row := range rows {
		texts[row.ReportNo] = domain.ProductTexts{
			IngredientText: row.IngredientText,
			NutrientText:   row.NutrientText,
		}
	}
	return texts, nil
}
