package middleware

import (
	"errors"
	"strings"

	"ingestion-service/internal/api/responses"
	"ingestion-service/internal/domain"
	apperrors "ingestion-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userContextKey = "uploader"

// Claims é o conteúdo do token emitido pelo serviço de autenticação.
type Claims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// RequireUser valida o Bearer token (HS256) e guarda a identidade no contexto.
// Token ausente ou inválido: 401. Papel restrito: 403.
func RequireUser(secret []byte, restrictedRoles []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(raw) == "" {
			responses.AppError(c, apperrors.Unauthorized("token de acesso ausente"))
			c.Abort()
			return
		}

		claims, err := ParseToken(strings.TrimSpace(raw), secret)
		if err != nil {
			responses.AppError(c, apperrors.Unauthorized("token de acesso inválido ou expirado"))
			c.Abort()
			return
		}

		user := domain.UserContext{UploadedBy: claims.Username, Roles: claims.Roles}
		if user.UploadedBy == "" {
			responses.AppError(c, apperrors.Unauthorized("token sem identificação de usuário"))
			c.Abort()
			return
		}
		if user.HasRole(restrictedRoles...) {
			responses.AppError(c, apperrors.Forbidden("seu perfil não tem permissão para enviar arquivos"))
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// ParseToken valida assinatura, algoritmo e expiração do token.
func ParseToken(raw string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token inválido")
	}
	return claims, nil
}

// UserFrom devolve a identidade gravada por RequireUser.
func UserFrom(c *gin.Context) (domain.UserContext, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return domain.UserContext{}, false
	}
	user, ok := v.(domain.UserContext)
	return user, ok
}
