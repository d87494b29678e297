package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"

	"storefront/internal/adapter/postgres/migrations"
	"storefront/internal/domain"
)

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, domain.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), domain.ErrNotFound},
		{"unique", &pq.Error{Code: "23505", Constraint: "categories_name_key"}, domain.ErrConflict},
		{"foreign key", &pq.Error{Code: "23503", Constraint: "products_category_id_fkey"}, domain.ErrConflict},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := mapError(tc.in)
			if tc.want == nil {
				if got != nil {
					t.Errorf("expected nil, got %v", got)
				}
				return
			}
			if !errors.Is(got, tc.want) {
				t.Errorf("mapError(%v) = %v; want %v", tc.in, got, tc.want)
			}
		})
	}

	other := &pq.Error{Code: "42P01"}
	if got := mapError(other); got != other {
		t.Errorf("unrelated errors must pass through, got %v", got)
	}
}

func TestMustAffect(t *testing.T) {
	if err := mustAffect(fakeResult{rows: 1}, nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := mustAffect(fakeResult{rows: 0}, nil); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	fk := &pq.Error{Code: "23503"}
	if err := mustAffect(nil, fk); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	if _, err := migrations.FS.Open("00001_init.sql"); err != nil {
		t.Fatalf("expected embedded migration: %v", err)
	}
}

func TestNullableStock(t *testing.T) {
	if v := nullableStock(nil); v.Valid {
		t.Error("nil stock must be NULL")
	}
	n := 7
	if v := nullableStock(&n); !v.Valid || v.Int64 != 7 {
		t.Errorf("unexpected %+v", v)
	}
}
