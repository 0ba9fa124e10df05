package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandaruwank/AgroPulze/internal/domain"
	"github.com/sandaruwank/AgroPulze/internal/domain/entity"
)

// failingQuerier devuelve err en todas las consultas.
type failingQuerier struct{ err error }

func (q failingQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, q.err
}

func (q failingQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, q.err
}

func (q failingQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{q.err}
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func TestProductRepo_IDNoUUID_EsNoEncontrado(t *testing.T) {
	repo := NewProductRepository(failingQuerier{err: &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"}})
	ctx := context.Background()

	p, err := repo.GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, p)

	assert.ErrorIs(t, repo.Delete(ctx, "abc"), domain.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &entity.Product{ID: "abc", Category: entity.CategoryImported}), domain.ErrNotFound)
}

func TestProductRepo_ErroresDeRestriccion(t *testing.T) {
	ctx := context.Background()

	dup := NewProductRepository(failingQuerier{err: &pgconn.PgError{Code: "23505"}})
	assert.ErrorIs(t, dup.Create(ctx, &entity.Product{ID: "x"}), domain.ErrDuplicate)

	check := NewProductRepository(failingQuerier{err: &pgconn.PgError{Code: "23514"}})
	assert.ErrorIs(t, check.Create(ctx, &entity.Product{ID: "x"}), domain.ErrInvalidInput)

	down := NewProductRepository(failingQuerier{err: errors.New("conexión rechazada")})
	err := down.Delete(ctx, "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound, "un fallo de conexión no se disfraza de 404")
}
