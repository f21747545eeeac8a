package user

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Create inserts a new user record into the database. Unique-constraint
// violations are translated into the field-specific conflict errors.
func (r *repository) Create(ctx context.Context, user *User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	query, args, err := r.psql.Insert("users").
		Columns("id", "full_name", "username", "email", "phone", "national_id",
			"password_hash", "role", "verified", "google_id", "created_at", "updated_at").
		Values(user.ID, user.FullName, user.Username, user.Email, user.Phone, user.NationalID,
			user.PasswordHash, string(user.Role), user.Verified, user.GoogleID, user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}

	if _, err = r.db.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return conflictForConstraint(pgErr.ConstraintName).WithCause(err)
		}
		return err
	}
	return nil
}

func conflictForConstraint(name string) *DomainError {
	switch name {
	case "users_email_key":
		return ErrEmailExists
	case "users_username_key":
		return ErrUsernameExists
	case "users_phone_key":
		return ErrPhoneExists
	case "users_national_id_key":
		return ErrNationalIDExists
	default:
		return ErrConflict
	}
}

// FindByEmail retrieves a user by email, including the password hash.
// It returns ErrNotFound if no user is found.
func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, squirrel.Eq{"email": email})
}

// FindByID retrieves a user by their unique id.
func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

// FindConflict returns the first existing user sharing any of the given unique
// fields, so registration can report which field conflicts.
func (r *repository) FindConflict(ctx context.Context, email, username, phone string) (*User, error) {
	return r.findOne(ctx, squirrel.Or{
		squirrel.Eq{"email": email},
		squirrel.Eq{"username": username},
		squirrel.Eq{"phone": phone},
	})
}

// Update modifies an existing user's mutable details.
func (r *repository) Update(ctx context.Context, user *User) error {
	user.UpdatedAt = time.Now()

	query, args, err := r.psql.Update("users").
		Set("full_name", user.FullName).
		Set("phone", user.Phone).
		Set("national_id", user.NationalID).
		Set("verified", user.Verified).
		Set("google_id", user.GoogleID).
		Set("updated_at", user.UpdatedAt).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkVerified flips the verification flag to true. The flag never transitions
// back to false through this layer.
func (r *repository) MarkVerified(ctx context.Context, userID string) error {
	query, args, err := r.psql.Update("users").
		Set("verified", true).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return err
	}
	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordLogout stamps the advisory last-logout timestamp. Outstanding tokens
// stay valid until expiry.
func (r *repository) RecordLogout(ctx context.Context, userID string, at time.Time) error {
	query, args, err := r.psql.Update("users").
		Set("last_logout_at", at).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return err
	}
	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetResetToken stores the hashed reset token and its expiry for a user.
func (r *repository) SetResetToken(ctx context.Context, userID string, tokenHash string, expiry time.Time) error {
	query, args, err := r.psql.Update("users").
		Set("reset_token_hash", tokenHash).
		Set("reset_token_expiry", expiry).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return err
	}
	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword sets a new password hash and clears any reset token, keeping
// the token/expiry pair set-or-absent together.
func (r *repository) UpdatePassword(ctx context.Context, userID string, newPasswordHash string) error {
	query, args, err := r.psql.Update("users").
		Set("password_hash", newPasswordHash).
		Set("reset_token_hash", nil).
		Set("reset_token_expiry", nil).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return err
	}
	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByResetTokenHash finds a user by their hashed password reset token.
func (r *repository) FindByResetTokenHash(ctx context.Context, tokenHash string) (*User, error) {
	return r.findOne(ctx, squirrel.Eq{"reset_token_hash": tokenHash})
}

func (r *repository) findOne(ctx context.Context, condition squirrel.Sqlizer) (*User, error) {
	query, args, err := r.psql.Select(userColumns...).
		From("users").
		Where(condition).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var user User
	if err := pgxscan.Get(ctx, r.db, &user, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound.WithCause(err)
		}
		return nil, err
	}
	return &user, nil
}
