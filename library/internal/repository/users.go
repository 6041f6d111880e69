package repository

import (
	"context"
	"strings"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

var userColumns = []string{"id", "name", "email", "password_hash", "role", "email_verified_at", "created_at", "updated_at"}

const userNotFound = "User not found"

func (r *repository) CreateUser(ctx context.Context, u model.NewUser) (model.User, error) {
	q := qb.Insert(usersTableName).
		Columns("name", "email", "password_hash", "role").
		Values(u.Name, strings.ToLower(u.Email), u.PasswordHash, u.Role).
		Suffix("returning " + strings.Join(userColumns, ", "))

	user, err := collectOne[model.User](ctx, r.db, q, userNotFound)
	if err != nil {
		return model.User{}, mapPgErr(err)
	}
	return user, nil
}

func (r *repository) GetUser(ctx context.Context, id int) (model.User, error) {
	return collectOne[model.User](ctx, r.db,
		qb.Select(userColumns...).From(usersTableName).Where(sq.Eq{"id": id}),
		userNotFound)
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return collectOne[model.User](ctx, r.db,
		qb.Select(userColumns...).From(usersTableName).Where(sq.Eq{"email": strings.ToLower(email)}),
		userNotFound)
}

func (r *repository) ListUsers(ctx context.Context, role string) ([]model.User, error) {
	q := qb.Select(userColumns...).From(usersTableName).OrderBy("id")
	if role != "" {
		q = q.Where(sq.Eq{"role": role})
	}
	return collect[model.User](ctx, r.db, q)
}

func (r *repository) UpdateUser(ctx context.Context, id int, req model.UpdateUserRequest) (model.User, error) {
	set := map[string]interface{}{"updated_at": sq.Expr("now()")}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Email != nil {
		set["email"] = strings.ToLower(*req.Email)
	}
	if req.Role != nil {
		set["role"] = *req.Role
	}
	q := qb.Update(usersTableName).
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix("returning " + strings.Join(userColumns, ", "))

	user, err := collectOne[model.User](ctx, r.db, q, userNotFound)
	if err != nil {
		return model.User{}, mapPgErr(err)
	}
	return user, nil
}

func (r *repository) DeleteUser(ctx context.Context, id int) error {
	n, err := exec(ctx, r.db, qb.Delete(usersTableName).Where(sq.Eq{"id": id}))
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NewNotFound(userNotFound)
	}
	return nil
}

func (r *repository) CountUsers(ctx context.Context, role string) (int, error) {
	q := qb.Select("count(*)").From(usersTableName)
	if role != "" {
		q = q.Where(sq.Eq{"role": role})
	}
	return scalar[int](ctx, r.db, q)
}

func (r *repository) CreateSession(ctx context.Context, s model.Session) error {
	_, err := exec(ctx, r.db, qb.Insert(sessionsTableName).
		Columns("id", "user_id", "expires_at").
		Values(s.ID, s.UserID, s.ExpiresAt))
	return err
}

// SessionRole returns the current role of the session's user; ok is false
// once the session is gone or expired.
func (r *repository) SessionRole(ctx context.Context, sessionID string, userID int) (string, bool, error) {
	role, err := scalar[string](ctx, r.db, qb.Select("u.role").
		From(sessionsTableName+" s").
		Join(usersTableName+" u on u.id = s.user_id").
		Where(sq.Eq{"s.id": sessionID, "s.user_id": userID}).
		Where("s.expires_at > now()"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, errors.Wrap(err, "SessionRole")
	}
	return role, true, nil
}

func (r *repository) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := exec(ctx, r.db, qb.Delete(sessionsTableName).Where(sq.Eq{"id": sessionID}))
	return err
}
