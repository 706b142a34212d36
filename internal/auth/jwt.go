package auth

import (
	"errors"
	"time"

	"orgflow-backend/internal/config"
	"orgflow-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carry the principal's identity and scope. Role and active status
// are re-checked against the database on every request by the auth
// middleware; the claims only locate the record.
type Claims struct {
	PrincipalID int    `json:"principal_id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	CompanyID   int    `json:"company_id,omitempty"`
	BranchID    int    `json:"branch_id,omitempty"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	cfg *config.Config
}

func NewJWTManager(cfg *config.Config) *JWTManager {
	return &JWTManager{cfg: cfg}
}

// GenerateToken creates a new JWT token for an authenticated principal
func (j *JWTManager) GenerateToken(p *models.Principal) (string, error) {
	now := time.Now()
	expirationTime := now.Add(time.Duration(j.cfg.JWT.ExpirationHours) * time.Hour)

	claims := &Claims{
		PrincipalID: p.ID,
		Username:    p.Username,
		Role:        p.Role,
		CompanyID:   p.CompanyID,
		BranchID:    p.BranchID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.cfg.JWT.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.JWT.Secret))
}

// ValidateToken verifies a JWT token and returns the claims
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(j.cfg.JWT.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
