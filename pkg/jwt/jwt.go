package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más la identidad y los roles del usuario,
// para que el middleware RBAC decida sin consultar la base.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Roles    []string `json:"roles"`
}

// HasRole indica si alguno de los roles del token coincide.
func (c *Claims) HasRole(roles ...string) bool {
	for _, have := range c.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Identity datos del usuario que viajan en el token.
type Identity struct {
	UserID   string
	Username string
	Email    string
	FullName string
	Roles    []string
}

// Issuer firma y valida tokens HS256 con un secreto compartido.
type Issuer struct {
	secret     []byte
	issuer     string
	audience   string
	expiration time.Duration
}

// NewIssuer construye el emisor. expMinutes <= 0 usa 60 minutos.
func NewIssuer(secret, issuer, audience string, expMinutes int) *Issuer {
	if expMinutes <= 0 {
		expMinutes = 60
	}
	return &Issuer{
		secret:     []byte(secret),
		issuer:     issuer,
		audience:   audience,
		expiration: time.Duration(expMinutes) * time.Minute,
	}
}

// Expiration vigencia de los tokens emitidos.
func (i *Issuer) Expiration() time.Duration { return i.expiration }

// Generate genera un token firmado para la identidad dada.
func (i *Issuer) Generate(id Identity) (string, time.Time, error) {
	if len(i.secret) == 0 {
		return "", time.Time{}, errors.New("jwt: secret vacío")
	}
	now := time.Now()
	exp := now.Add(i.expiration)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID:   id.UserID,
		Username: id.Username,
		Email:    id.Email,
		FullName: id.FullName,
		Roles:    id.Roles,
	}
	if i.audience != "" {
		claims.Audience = jwt.ClaimStrings{i.audience}
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse valida firma, expiración, emisor y audiencia, y devuelve los claims.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	if len(i.secret) == 0 {
		return nil, errors.New("jwt: secret vacío")
	}
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}
	if i.audience != "" {
		opts = append(opts, jwt.WithAudience(i.audience))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return i.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("claims inválidos")
	}
	return claims, nil
}
