package services

import (
	"time"

	"spotless/config"
	. "spotless/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated principal extracted from a bearer token.
// Subject carries the external identity-provider ID that profiles key on.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

type TokenService struct {
	secret []byte
	log    logger.Logger
}

func NewTokenService(config config.Config) *TokenService {
	return &TokenService{
		secret: []byte(config.AuthTokenSecret),
		log:    logger.New("TokenService"),
	}
}

// Validate parses and verifies an HS256 bearer token and returns the
// identity it asserts.
func (s *TokenService) Validate(tokenString string) (*Identity, error) {
	log := s.log.Function("Validate")

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		return nil, log.Err("failed to parse token", err)
	}
	if !token.Valid {
		return nil, ErrUnauthorized
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, log.ErrMsg("token missing subject claim")
	}

	identity := &Identity{Subject: subject}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		identity.Name = name
	}

	return identity, nil
}

// Issue signs a token for the given identity. Used by tests; production
// tokens come from the identity provider sharing the same secret.
func (s *TokenService) Issue(identity Identity, ttl time.Duration) (string, error) {
	log := s.log.Function("Issue")

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   identity.Subject,
		"email": identity.Email,
		"name":  identity.Name,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", log.Err("failed to sign token", err)
	}

	return signed, nil
}
