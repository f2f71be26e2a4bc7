package guard

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var updateRememberTokenSQL = `UPDATE "users" AS "usr"
SET
	"remember_token" = ?
WHERE
	"usr"."deleted_at" IS NULL
AND (
	"usr"."id" = ?
) RETURNING *;`

var updatePasswordHashSQL = `UPDATE "users" AS "usr"
SET
	"password_hash" = ?
WHERE
	"usr"."deleted_at" IS NULL
AND (
	"usr"."id" = ?
) RETURNING *;`

// credentialColumns whitelists the columns a credential lookup may target.
var credentialColumns = map[string]string{
	"id":       "id",
	"email":    "email",
	"username": "username",
}

// Users is the persistence surface the reference UserProvider runs on.
type Users interface {
	repository.Repository[*User]

	GetByUUID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByField(ctx context.Context, field, value string) (*User, error)

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)

	UpdateRememberToken(ctx context.Context, id uuid.UUID, token string) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByUUID(ctx context.Context, id uuid.UUID) (*User, error) {
	return a.GetByField(ctx, "id", id.String())
}

func (a *users) GetByField(ctx context.Context, field, value string) (*User, error) {
	column, ok := credentialColumns[strings.ToLower(strings.TrimSpace(field))]
	if !ok {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"field": field,
			})
	}

	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where(fmt.Sprintf("?TableAlias.%s = ?", column), value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"field": field,
					"value": value,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user)
	return a.Repository.CreateTx(ctx, tx, user)
}

func (a *users) UpdateRememberToken(ctx context.Context, id uuid.UUID, token string) error {
	return a.rawUpdate(ctx, updateRememberTokenSQL, token, id)
}

func (a *users) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return a.rawUpdate(ctx, updatePasswordHashSQL, passwordHash, id)
}

func (a *users) rawUpdate(ctx context.Context, sql string, value string, id uuid.UUID) error {
	res, err := a.Repository.RawTx(ctx, a.db, sql, value, id.String())
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.Role == "" {
		record.Role = RoleUser
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
