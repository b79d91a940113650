package local

import (
	"context"
	"database/sql"
	"errors"

	"medai/internal/common"
	"medai/internal/dbx"
	"medai/internal/session"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Identity implements session.Identity with a single locally stored account.
type Identity struct {
	db *sql.DB
}

func NewIdentity(db *sql.DB) *Identity {
	return &Identity{db: db}
}

// SignUp creates the local account and its initial documents in one
// transaction. Only one account can exist per database file.
func (i *Identity) SignUp(ctx context.Context, email, password string, profile session.Profile) error {
	var existing string
	err := i.db.QueryRowContext(ctx, `SELECT email FROM account WHERE id = 1`).Scan(&existing)
	if err == nil {
		return errors.New("an account already exists on this device")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, i.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO account (id, uid, email, password_hash) VALUES (1, ?, ?, ?)`,
			uuid.NewString(), email, string(hash))
		if err != nil {
			return err
		}

		store := NewStore(tx)
		if err := store.SaveProfile(ctx, &profile); err != nil {
			return err
		}
		return store.SaveHistory(ctx, []session.HistoryEntry{})
	})
}

func (i *Identity) SignIn(ctx context.Context, email, password string) (*session.Account, error) {
	var uid, storedEmail, hash string
	err := i.db.QueryRowContext(ctx,
		`SELECT uid, email, password_hash FROM account WHERE id = 1`).Scan(&uid, &storedEmail, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorUnauthorized
	}
	if err != nil {
		return nil, err
	}

	if storedEmail != email {
		return nil, common.ErrorUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	return &session.Account{UID: uid, Email: storedEmail}, nil
}

func (i *Identity) SignOut(ctx context.Context) error {
	// Nothing to revoke locally.
	return nil
}

func (i *Identity) ChangePassword(ctx context.Context, current, next string) error {
	var hash string
	err := i.db.QueryRowContext(ctx, `SELECT password_hash FROM account WHERE id = 1`).Scan(&hash)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(current)) != nil {
		return common.ErrorUnauthorized
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = i.db.ExecContext(ctx, `UPDATE account SET password_hash = ? WHERE id = 1`, string(newHash))
	return err
}

func (i *Identity) UpdateEmail(ctx context.Context, email string) error {
	_, err := i.db.ExecContext(ctx, `UPDATE account SET email = ? WHERE id = 1`, email)
	return err
}
