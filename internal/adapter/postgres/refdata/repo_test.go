package refdata

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/greenplate/foodsafe-backend/internal/domain"
)

func newMockRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return New(mock), mock
}

func expectReferenceTables(mock pgxmock.PgxPoolIface) {
	mock.ExpectQuery(`SELECT id, name FROM allergens ORDER BY id ASC`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
			AddRow(int64(2), "우유").
			AddRow(int64(998), "해당 없음").
			AddRow(int64(999), "불명"))

	mock.ExpectQuery(`SELECT id, name FROM diseases ORDER BY id ASC`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), "당뇨병"))

	mock.ExpectQuery(`SELECT id, name, glycemic_impact FROM sweeteners ORDER BY id ASC`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "glycemic_impact"}).
			AddRow(int64(10), "아스파탐", "NEUTRAL").
			AddRow(int64(11), "액상과당", "RAISES").
			AddRow(int64(12), "스테비아", "whatever"))

	mock.ExpectQuery(`SELECT sweetener_id, disease_id, level, COALESCE\(message, ''\) AS message, active FROM sweetener_disease_rules ORDER BY sweetener_id ASC, disease_id ASC, id ASC`).
		WillReturnRows(pgxmock.NewRows([]string{"sweetener_id", "disease_id", "level", "message", "active"}).
			AddRow(int64(11), int64(1), "CAUTION", "혈당이 상승할 수 있습니다.", true).
			AddRow(int64(10), int64(1), "CONTRA", "", false))
}

func TestRepo_Snapshot(t *testing.T) {
	repo, mock := newMockRepo(t)
	expectReferenceTables(mock)

	snap, err := repo.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: unexpected error: %v", err)
	}

	if got := snap.AllergenName(2); got != "우유" {
		t.Errorf("AllergenName(2) = %q, want 우유", got)
	}
	if got := snap.SweetenerName(11); got != "액상과당" {
		t.Errorf("SweetenerName(11) = %q, want 액상과당", got)
	}
	if len(snap.Diseases) != 1 {
		t.Errorf("got %d diseases, want 1", len(snap.Diseases))
	}

	// Unrecognized glycemic impact degrades to UNKNOWN.
	if got := snap.Sweeteners[12].GlycemicImpact; got != domain.GlycemicUnknown {
		t.Errorf("GlycemicImpact for 12 = %q, want UNKNOWN", got)
	}

	// Active rule survives, inactive rule is dropped by the snapshot.
	rules := snap.RulesForSweetener(11)
	if len(rules) != 1 || rules[0].DiseaseID != 1 || rules[0].Level != domain.RestrictionCaution {
		t.Errorf("RulesForSweetener(11) = %+v", rules)
	}
	if got := snap.RulesForSweetener(10); len(got) != 0 {
		t.Errorf("RulesForSweetener(10) = %+v, want none", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_Snapshot_AllergenLoadFailure(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT id, name FROM allergens`).
		WillReturnError(errors.New("relation does not exist"))

	_, err := repo.Snapshot(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRepo_Snapshot_RuleLoadFailure(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT id, name FROM allergens`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}))
	mock.ExpectQuery(`SELECT id, name FROM diseases`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}))
	mock.ExpectQuery(`SELECT id, name, glycemic_impact FROM sweeteners`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "glycemic_impact"}))
	mock.ExpectQuery(`SELECT sweetener_id, disease_id, level`).
		WillReturnError(errors.New("timeout"))

	_, err := repo.Snapshot(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
}
