package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eaaniwezi/anirecs/internal/domain"
	"github.com/eaaniwezi/anirecs/pkg/database"
	apperrors "github.com/eaaniwezi/anirecs/pkg/errors"
)

func setupGenreRepo(t *testing.T) (*GenreRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return NewGenreRepository(mock), mock
}

func TestGenreRepository_Create_Success(t *testing.T) {
	repo, mock := setupGenreRepo(t)
	defer mock.Close()

	g := &domain.Genre{Name: "Action"}

	mock.ExpectQuery("INSERT INTO genres").
		WithArgs(g.Name).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))

	err := repo.Create(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, int64(3), g.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenreRepository_Create_DuplicateName(t *testing.T) {
	repo, mock := setupGenreRepo(t)
	defer mock.Close()

	g := &domain.Genre{Name: "Action"}

	mock.ExpectQuery("INSERT INTO genres").
		WithArgs(g.Name).
		WillReturnError(errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.Create(context.Background(), g)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenreRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupGenreRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM genres WHERE id").
		WithArgs(int64(999)).
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByID(context.Background(), 999)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenreRepository_List_Success(t *testing.T) {
	repo, mock := setupGenreRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM genres").
		WithArgs("").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), "Action").
			AddRow(int64(2), "Romance"))

	genres, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, genres, 2)
	assert.Equal(t, "Action", genres[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenreRepository_Update_Duplicate(t *testing.T) {
	repo, mock := setupGenreRepo(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE genres SET name").
		WithArgs("Action", int64(2)).
		WillReturnError(errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.Update(context.Background(), &domain.Genre{ID: 2, Name: "Action"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenreRepository_Delete_Success(t *testing.T) {
	repo, mock := setupGenreRepo(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM genres").
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.Delete(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}
