package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"

	"github.com/clinicore/agenda-api/internal/handler"
	"github.com/clinicore/agenda-api/internal/repository"
	"github.com/clinicore/agenda-api/pkg/auth"
)

// AuthMiddleware resolves the bearer token into an explicit doctor ID.
// Downstream code receives the ID through the context and never reads
// session state itself. Doctor existence checks are memoized so a hot
// calendar view does not hit the doctors table on every request.
type AuthMiddleware struct {
	tokens  auth.TokenService
	doctors repository.DoctorRepository
	cache   *gocache.Cache
}

func NewAuthMiddleware(tokens auth.TokenService, doctors repository.DoctorRepository) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:  tokens,
		doctors: doctors,
		cache:   gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// Authenticate verifies the JWT and sets the doctor ID in context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.tokens.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		key := claims.DoctorID.String()
		if _, known := m.cache.Get(key); !known {
			if _, err := m.doctors.Get(c.Request.Context(), claims.DoctorID); err != nil {
				c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unknown doctor"))
				c.Abort()
				return
			}
			m.cache.Set(key, struct{}{}, gocache.DefaultExpiration)
		}

		c.Set(handler.ContextDoctorID, claims.DoctorID)
		c.Set("doctorEmail", claims.Email)
		c.Next()
	}
}
