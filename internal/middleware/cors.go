package middleware

import (
	"time"

	"pm-go/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS builds the cross-origin policy from configuration
func CORS(cfg *config.Config) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     cfg.CORS.AllowMethods,
		AllowHeaders:     cfg.CORS.AllowHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}

	allowAll := len(cfg.CORS.Origins) == 0
	for _, o := range cfg.CORS.Origins {
		if o == "*" {
			allowAll = true
			break
		}
	}
	switch {
	case allowAll && cfg.CORS.AllowCredentials:
		// credentials forbid the literal wildcard, echo the caller instead
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	case allowAll:
		corsCfg.AllowAllOrigins = true
	default:
		corsCfg.AllowOrigins = cfg.CORS.Origins
	}

	return cors.New(corsCfg)
}
