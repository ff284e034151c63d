package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/phuong1932/logistics-deploy/internal/application/dto"
	"github.com/phuong1932/logistics-deploy/pkg/jwt"
)

// LocalClaims clave de c.Locals con los claims del token.
const LocalClaims = "claims"

// AuthMiddleware valida el Bearer Token JWT y deja los claims en c.Locals.
func AuthMiddleware(issuer *jwt.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := issuer.Parse(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalClaims, claims)
		return c.Next()
	}
}

// RequireRole deja pasar si el token tiene alguno de los roles indicados.
// Debe montarse después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := GetClaims(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "autenticación requerida"})
		}
		if !claims.HasRole(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para este recurso"})
		}
		return c.Next()
	}
}

// GetClaims devuelve los claims del contexto (después del middleware de auth).
func GetClaims(c *fiber.Ctx) *jwt.Claims {
	claims, _ := c.Locals(LocalClaims).(*jwt.Claims)
	return claims
}

// GetUserID devuelve el UserID del token.
func GetUserID(c *fiber.Ctx) string {
	if claims := GetClaims(c); claims != nil {
		return claims.UserID
	}
	return ""
}

// GetUsername devuelve el nombre de usuario del token.
func GetUsername(c *fiber.Ctx) string {
	if claims := GetClaims(c); claims != nil {
		return claims.Username
	}
	return ""
}

// GetRoles devuelve todos los roles del token.
func GetRoles(c *fiber.Ctx) []string {
	if claims := GetClaims(c); claims != nil {
		return claims.Roles
	}
	return nil
}

// GetRole devuelve el primer rol del token; vacío si no hay.
func GetRole(c *fiber.Ctx) string {
	if roles := GetRoles(c); len(roles) > 0 {
		return roles[0]
	}
	return ""
}
