package session

import (
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/entnt-dental/clinic-service/internal/store"
)

const (
	// TokenIssuer identifies tokens minted by this service.
	TokenIssuer = "dental-clinic-service"

	// TokenTTL bounds how long a session cookie stays valid.
	TokenTTL = 12 * time.Hour
)

// defaultSigningKey is a development fallback; set SESSION_SECRET in any
// real deployment.
const defaultSigningKey = "dev-session-secret-change-me"

// Codec signs Principals into compact session tokens and verifies them
// back. The signed token is what the HTTP layer stores in a
// session-scoped cookie, making the browser's cookie jar serve as the
// ephemeral session slot.
type Codec struct {
	key    []byte
	issuer string
}

// NewCodec creates a codec reading SESSION_SECRET from the environment.
func NewCodec() *Codec {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = defaultSigningKey
	}
	return NewCodecWithKey([]byte(secret))
}

// NewCodecWithKey creates a codec with an explicit signing key.
func NewCodecWithKey(key []byte) *Codec {
	return &Codec{key: key, issuer: TokenIssuer}
}

// Mint signs the Principal into a compact token.
func (c *Codec) Mint(p Principal) (string, error) {
	now := jwt.TimeFunc()
	claims := jwt.MapClaims{
		"iss":   c.issuer,
		"sub":   p.UserID,
		"jti":   uuid.NewString(),
		"email": p.Email,
		"role":  string(p.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(TokenTTL).Unix(),
	}
	if p.PatientID != "" {
		claims["patientId"] = p.PatientID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.key)
}

// Parse verifies a session token and returns the Principal it carries.
func (c *Codec) Parse(tokenString string) (*Principal, error) {
	if tokenString == "" {
		return nil, ErrNoToken
	}
	tokenString = strings.TrimSpace(tokenString)
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		// enforce HS256
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.key, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if iss, _ := claims["iss"].(string); iss != c.issuer {
		return nil, ErrInvalidIssuer
	}
	if !claims.VerifyExpiresAt(jwt.TimeFunc().Unix(), true) {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	patientID, _ := claims["patientId"].(string)

	return &Principal{
		UserID:    sub,
		Role:      store.Role(role),
		Email:     email,
		PatientID: patientID,
	}, nil
}
