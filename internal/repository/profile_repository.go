package repository

import (
	"context"
	"database/sql"

	"github.com/sauvesaveurs/marketplace-api/internal/model"
)

// ProfileRepo manages the clients and employees profile tables.  Both
// tables have the same shape (user_id PK referencing users.id, full_name,
// phone, image_url, timestamps), so one repository serves both with the
// table picked by user type.
type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

// tableFor maps a user type to its profile table.  Only the two known
// types are accepted; anything else falls back to clients, which the
// role middleware makes unreachable in practice.
func tableFor(userType string) string {
	if userType == model.NotifyEmployee {
		return "employees"
	}
	return "clients"
}

// Create inserts a profile row for a freshly registered user.
func (r *ProfileRepo) Create(ctx context.Context, userType string, userID uint64, fullName string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO "+tableFor(userType)+" (user_id, full_name) VALUES (?,?)",
		userID, fullName)
	return err
}

// Get fetches the profile for a user.  sql.ErrNoRows is returned when
// the profile does not exist.
func (r *ProfileRepo) Get(ctx context.Context, userType string, userID uint64) (model.Profile, error) {
	var p model.Profile
	var phone, image sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, full_name, phone, image_url, created_at, updated_at FROM "+tableFor(userType)+" WHERE user_id=? LIMIT 1",
		userID).Scan(&p.UserID, &p.FullName, &phone, &image, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Profile{}, err
	}
	p.Phone = phone.String
	p.ImageURL = image.String
	return p, nil
}

// Update overwrites the mutable profile fields.
func (r *ProfileRepo) Update(ctx context.Context, userType string, userID uint64, fullName, phone, imageURL string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE "+tableFor(userType)+" SET full_name=?, phone=?, image_url=? WHERE user_id=?",
		fullName, phone, imageURL, userID)
	return err
}

// Delete removes the profile row as part of account deletion.
func (r *ProfileRepo) Delete(ctx context.Context, userType string, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM "+tableFor(userType)+" WHERE user_id=?", userID)
	return err
}

// FullName returns just the display name, used when decorating
// reservation listings for employees.
func (r *ProfileRepo) FullName(ctx context.Context, userType string, userID uint64) (string, error) {
	var name string
	err := r.DB.QueryRowContext(ctx,
		"SELECT full_name FROM "+tableFor(userType)+" WHERE user_id=? LIMIT 1",
		userID).Scan(&name)
	return name, err
}
