package controller

import (
	"strconv"
	"time"

	"cems/auth"
	"cems/utils"

	"github.com/gin-contrib/cache"
	"github.com/gin-contrib/cache/persistence"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RouteInfo struct {
	Method        string
	Path          string
	HandlerFunc   gin.HandlerFunc
	Authenticated bool
	RoleRequired  []string
	CacheTimeout  time.Duration
}

func SetRoutes(r *gin.Engine, db *gorm.DB, cacheStore persistence.CacheStore) {
	routes := make([]RouteInfo, 0)
	routes = append(routes, setupTeamController(db)...)
	routes = append(routes, setupAttendanceController(db)...)
	routes = append(routes, setupLeaderboardController(db)...)
	routes = append(routes, setupCertificateController(db)...)
	for _, route := range routes {
		handlerfuncs := make([]gin.HandlerFunc, 0)
		if route.Authenticated {
			handlerfuncs = append(handlerfuncs, AuthMiddleware(route.RoleRequired))
		}
		if route.CacheTimeout > 0 {
			handlerfuncs = append(handlerfuncs, cache.CachePage(cacheStore, route.CacheTimeout, route.HandlerFunc))
		} else {
			handlerfuncs = append(handlerfuncs, route.HandlerFunc)
		}
		r.Handle(route.Method, "/api"+route.Path, handlerfuncs...)
	}
}

func AuthMiddleware(roles []string) gin.HandlerFunc {
	return func(r *gin.Context) {
		authCookie, err := r.Cookie("auth")
		if err != nil {
			r.JSON(401, gin.H{"error": "Unauthenticated"})
			r.Abort()
			return
		}
		token, err := auth.ParseToken(authCookie)
		if err != nil || !token.Valid {
			r.JSON(401, gin.H{"error": "Unauthenticated"})
			r.Abort()
			return
		}
		claims := &auth.Claims{}
		claims.FromJWTClaims(token.Claims)
		if err := claims.Valid(); err != nil {
			r.JSON(401, gin.H{"error": "Unauthenticated"})
			r.Abort()
			return
		}
		r.Set("claims", claims)
		if len(roles) == 0 {
			r.Next()
			return
		}
		for _, requiredRole := range roles {
			if utils.Contains(claims.Permissions, requiredRole) {
				r.Next()
				return
			}
		}
		r.JSON(403, gin.H{"error": "Unauthorized"})
		r.Abort()
	}
}

func getClaims(c *gin.Context) *auth.Claims {
	value, ok := c.Get("claims")
	if !ok {
		return nil
	}
	claims, ok := value.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

func pathInt(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return 0, false
	}
	return value, true
}

func queryInt(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		c.JSON(400, gin.H{"error": name + " must be an integer"})
		return 0, false
	}
	return value, true
}
