package repositories

import (
	"context"

	"orgflow-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepository struct {
	DB *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{DB: db}
}

func (r *AdminRepository) Get(ctx context.Context, id int) (*models.Admin, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, username, profile_name, profile_pic, password_hash, created_at, updated_at
         FROM admins WHERE id=$1`, id)

	var a models.Admin
	err := row.Scan(&a.ID, &a.Username, &a.ProfileName, &a.ProfilePic,
		&a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, username, profile_name, profile_pic, password_hash, created_at, updated_at
         FROM admins WHERE username=$1`, username)

	var a models.Admin
	err := row.Scan(&a.ID, &a.Username, &a.ProfileName, &a.ProfilePic,
		&a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// EnsureExists seeds the admin account on first startup. An existing
// username is left untouched so a redeploy never resets the password.
func (r *AdminRepository) EnsureExists(ctx context.Context, username, profileName, passwordHash string) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO admins(username, profile_name, password_hash)
         VALUES($1, $2, $3)
         ON CONFLICT (username) DO NOTHING`,
		username, profileName, passwordHash)
	return err
}

// UpdateProfile updates the admin display name and avatar
func (r *AdminRepository) UpdateProfile(ctx context.Context, id int, profileName, profilePic string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE admins SET profile_name=$1, profile_pic=$2, updated_at=NOW() WHERE id=$3`,
		profileName, profilePic, id)
	return err
}
