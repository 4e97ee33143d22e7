package helper

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/dto"
	"golang.org/x/crypto/bcrypt"
)

const (
	LocalUser   = "user"
	LocalUserID = "userID"

	defaultTokenTTL = 24 * time.Hour
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

type Auth struct {
	Secret string
	TTL    time.Duration
	now    func() time.Time
}

type accessClaims struct {
	UserID uint     `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

func SetupAuth(s string) Auth {
	return Auth{
		Secret: s,
		TTL:    defaultTokenTTL,
		now:    time.Now,
	}
}

// WithClock returns a copy of a that reads the time from now.
func (a Auth) WithClock(now func() time.Time) Auth {
	a.now = now
	return a
}

func (a Auth) clock() time.Time {
	if a.now == nil {
		return time.Now()
	}
	return a.now()
}

func (a Auth) GenerateToken(userID uint, email string, roles []string) (string, error) {
	if userID == 0 || email == "" {
		return "", errors.New("required inputs are missing to generate token")
	}
	ttl := a.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	now := a.clock()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		UserID: userID,
		Email:  email,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	tokenStr, err := token.SignedString([]byte(a.Secret))
	if err != nil {
		return "", errors.New("unable to sign the token")
	}
	return tokenStr, nil
}

// VerifyToken accepts either "Bearer <token>" or the bare token.
func (a Auth) VerifyToken(tokenString string) (dto.AuthResponse, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return dto.AuthResponse{}, ErrMissingToken
	}
	if strings.HasPrefix(strings.ToLower(tokenString), "bearer ") {
		tokenString = strings.TrimSpace(tokenString[len("bearer "):])
		if tokenString == "" {
			return dto.AuthResponse{}, ErrMissingToken
		}
	}

	var claims accessClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(a.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.clock),
	)
	if err != nil || !token.Valid {
		return dto.AuthResponse{}, ErrInvalidToken
	}
	if claims.UserID == 0 {
		return dto.AuthResponse{}, ErrInvalidToken
	}

	resp := dto.AuthResponse{
		UserID: claims.UserID,
		Email:  claims.Email,
		Roles:  claims.Roles,
	}
	if claims.IssuedAt != nil {
		resp.Iat = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		resp.Expiry = claims.ExpiresAt.Unix()
	}
	return resp, nil
}

func (a Auth) GetCurrentUser(ctx *fiber.Ctx) (dto.AuthResponse, error) {
	claims, ok := ctx.Locals(LocalUser).(dto.AuthResponse)
	if !ok || claims.UserID == 0 {
		return dto.AuthResponse{}, errors.New("missing auth user in context")
	}
	return claims, nil
}

func (a Auth) HashPassword(plain string) (string, error) {
	if len(plain) < 8 {
		return "", errors.New("password must be at least 8 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (a Auth) VerifyPassword(plain, hashed string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)); err != nil {
		return errors.New("invalid email or password")
	}
	return nil
}
