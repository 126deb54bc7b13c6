package repositories

import (
	"context"
	"database/sql"
	"time"

	"accounthilfe/internal/models"
)

type UserRepository struct {
	DB *sql.DB
}

// UpsertByEmail creates the user or, when the email already exists, overwrites
// the contact and address fields with the latest submission's values. Latest
// submission wins, no merging.
func (r *UserRepository) UpsertByEmail(ctx context.Context, user models.User) (models.User, error) {
	now := time.Now()
	res, err := r.DB.ExecContext(ctx, `
        INSERT INTO users (email, vorname, nachname, telefon, strasse, plz, stadt, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE
            vorname = VALUES(vorname),
            nachname = VALUES(nachname),
            telefon = VALUES(telefon),
            strasse = VALUES(strasse),
            plz = VALUES(plz),
            stadt = VALUES(stadt),
            updated_at = VALUES(updated_at),
            id = LAST_INSERT_ID(id)
    `, user.Email, user.Vorname, user.Nachname, nullIfEmpty(user.Telefon),
		user.Strasse, user.PLZ, user.Stadt, now, now)
	if err != nil {
		return models.User{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	user.ID = int(id)
	user.UpdatedAt = now
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (models.User, error) {
	var user models.User
	var telefon sql.NullString
	err := r.DB.QueryRowContext(ctx, `
        SELECT id, email, vorname, nachname, telefon, strasse, plz, stadt, created_at, updated_at
        FROM users
        WHERE id = ?
    `, id).Scan(
		&user.ID, &user.Email, &user.Vorname, &user.Nachname, &telefon,
		&user.Strasse, &user.PLZ, &user.Stadt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	user.Telefon = telefon.String
	return user, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
