package sqldb

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/domain"
	"github.com/aussiebroadwan/adaptive/internal/adaptive/store"
	"github.com/aussiebroadwan/adaptive/pkg/jwtx"
)

type principalsRepo struct {
	c conn
}

const principalColumns = `id, email, full_name, password_hash, role, active, totp_secret, created_at, updated_at`

func scanPrincipal(row interface{ Scan(...any) error }) (domain.Principal, error) {
	var (
		p                    domain.Principal
		role                 string
		totp                 sql.NullString
		createdAt, updatedAt int64
	)
	if err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.PasswordHash, &role, &p.Active, &totp, &createdAt, &updatedAt); err != nil {
		return domain.Principal{}, err
	}
	p.Role = jwtx.Role(role)
	p.TOTPSecret = mapNullStringPtr(totp)
	p.CreatedAt = fromNanos(createdAt)
	p.UpdatedAt = fromNanos(updatedAt)
	return p, nil
}

func (r *principalsRepo) GetPrincipalByID(ctx context.Context, id string) (domain.Principal, error) {
	p, err := scanPrincipal(r.c.queryRow(ctx, `SELECT `+principalColumns+` FROM principals WHERE id = ?`, id))
	if err != nil {
		return domain.Principal{}, mapNotFound(err)
	}
	return p, nil
}

func (r *principalsRepo) GetPrincipalByEmail(ctx context.Context, email string) (domain.Principal, error) {
	p, err := scanPrincipal(r.c.queryRow(ctx, `SELECT `+principalColumns+` FROM principals WHERE email = ?`, email))
	if err != nil {
		return domain.Principal{}, mapNotFound(err)
	}
	return p, nil
}

func (r *principalsRepo) CreatePrincipal(ctx context.Context, p domain.Principal) error {
	_, err := r.c.exec(ctx,
		`INSERT INTO principals (`+principalColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Email, p.FullName, p.PasswordHash, string(p.Role), p.Active,
		mapOptionalString(p.TOTPSecret), toNanos(p.CreatedAt), toNanos(p.UpdatedAt),
	)
	if r.c.d.uniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *principalsRepo) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	res, err := r.c.exec(ctx, `UPDATE principals SET active = ?, updated_at = ? WHERE id = ?`, active, toNanos(at), id)
	return expectOne(res, err)
}

func (r *principalsRepo) UpdatePasswordHash(ctx context.Context, id, hash string, at time.Time) error {
	res, err := r.c.exec(ctx, `UPDATE principals SET password_hash = ?, updated_at = ? WHERE id = ?`, hash, toNanos(at), id)
	return expectOne(res, err)
}

func (r *principalsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var n int64
	if err := r.c.queryRow(ctx, `SELECT COUNT(*) FROM principals`).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

// expectOne turns an update that matched no row into ErrNotFound.
func expectOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
