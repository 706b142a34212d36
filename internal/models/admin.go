package models

import "time"

type Admin struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	ProfileName  string    `json:"profile_name"`
	ProfilePic   string    `json:"profile_pic,omitempty"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
