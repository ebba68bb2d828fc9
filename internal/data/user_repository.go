package data

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"deadline_tracker/internal/model"
)

const userColumns = `
	id, email, password_hash,
	first_name, last_name,
	created_at, edited_at`

type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, input *model.RepositoryCreateUserInput) (*model.User, error) {
	query := `
INSERT INTO users (id, email, password_hash, first_name, last_name)
VALUES ($1, $2, $3, $4, $5)
RETURNING` + userColumns

	var user model.User
	err := pgxscan.Get(ctx, r.db, &user, query,
		input.Id,
		input.Email,
		input.PasswordHash,
		input.FirstName,
		input.LastName,
	)
	if err != nil {
		return nil, handleError(err)
	}
	return &user, nil
}

func (r *UserRepository) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT` + userColumns + `
FROM users
WHERE id = $1
`
	var user model.User
	err := pgxscan.Get(ctx, r.db, &user, query, id)
	if err != nil {
		return nil, handleError(err)
	}
	return &user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT` + userColumns + `
FROM users
WHERE email = $1
`
	var user model.User
	err := pgxscan.Get(ctx, r.db, &user, query, email)
	if err != nil {
		return nil, handleError(err)
	}
	return &user, nil
}
