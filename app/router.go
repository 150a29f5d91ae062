// Package app wires the HTTP routes to their handlers
package app

import (
	"bitwise74/account-api/app/image"
	"bitwise74/account-api/app/root"
	"bitwise74/account-api/app/user"
	"bitwise74/account-api/internal"
	"bitwise74/account-api/pkg/middleware"
	"bitwise74/account-api/pkg/util"
	"net/http"
	"slices"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const uploadsPrefix = "/uploads"

// NewRouter builds the engine. Background work started here is stopped by d.Close.
func NewRouter(d *internal.Deps) *gin.Engine {
	cfg := d.Config

	router := gin.New()

	if len(cfg.Host.CORS) > 0 {
		corsCfg := cors.Config{
			AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS", "HEAD"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}

		if slices.Contains(cfg.Host.CORS, "*") {
			corsCfg.AllowAllOrigins = true
			corsCfg.AllowCredentials = false
		} else {
			corsCfg.AllowOrigins = cfg.Host.CORS
		}

		router.Use(cors.New(corsCfg))
	}

	router.Use(
		ginzap.RecoveryWithZap(zap.L(), true),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	if cfg.Security.RateLimit > 0 {
		rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.Security.RateLimit,
			Burst:             cfg.Security.RateLimit * 2,
		})
		d.OnClose(rl.Stop)

		router.Use(rl.Middleware())
	}

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 8 << 20

	router.NoRoute(func(c *gin.Context) {
		util.Abort(c, http.StatusNotFound, "Not found")
	})
	router.NoMethod(func(c *gin.Context) {
		util.Abort(c, http.StatusMethodNotAllowed, "Method not allowed")
	})

	if d.ResponseCache == nil {
		d.ResponseCache = persist.NewMemoryStore(time.Minute)
	}
	cacheFor := func(sec int) gin.HandlerFunc {
		return cache.CacheByRequestPath(d.ResponseCache, time.Second*time.Duration(sec))
	}

	jwt := middleware.NewJWTMiddleware(d.Tokens)
	turnstile := middleware.NewTurnstileMiddleware(middleware.TurnstileConfig{
		Enabled: cfg.Turnstile.Enabled,
		Secret:  cfg.Turnstile.Secret,
	})
	jsonBody := middleware.BodySizeLimiter(1 << 20)
	// Leave room for the multipart framing around the file
	uploadBody := middleware.BodySizeLimiter(cfg.Upload.MaxSize + 1<<20)

	// HEAD /heartbeat 		-> Used to check if the server is alive
	router.HEAD("/heartbeat", root.Heartbeat)

	if cfg.Storage.Type == "local" {
		// GET /uploads/:name	-> Serves uploaded files
		router.Static(uploadsPrefix, cfg.Storage.UploadDir)
	}

	u := router.Group("/users")
	{
		// POST /users/signup		-> Registers a new user and sends them an OTP
		u.POST("/signup", turnstile, jsonBody, func(c *gin.Context) { user.UserSignUp(c, d) })

		// POST /users/confirm-otp	-> Checks an OTP
		u.POST("/confirm-otp", jsonBody, func(c *gin.Context) { user.UserConfirmOTP(c, d) })

		// POST /users/resend-otp	-> Sends a fresh OTP to an existing user
		u.POST("/resend-otp", turnstile, jsonBody, func(c *gin.Context) { user.UserResendOTP(c, d) })

		// POST /users/signin		-> Returns an access token and sets the refresh token cookie
		u.POST("/signin", jsonBody, func(c *gin.Context) { user.UserSignIn(c, d) })

		// POST /users/refresh		-> Returns a new access token for the refresh token cookie
		u.POST("/refresh", func(c *gin.Context) { user.UserRefresh(c, d) })

		// GET /users/me		-> Returns the name and email of the signed in user
		u.GET("/me", jwt, func(c *gin.Context) { user.UserProfile(c, d) })

		// PATCH /users/update/:id	-> Updates a user
		u.PATCH("/update/:id", jwt, jsonBody, func(c *gin.Context) { user.UserUpdate(c, d) })

		// DELETE /users/:id		-> Deletes a user
		u.DELETE("/:id", jwt, func(c *gin.Context) { user.UserDelete(c, d) })

		// POST /users/upload-profile-image	-> Uploads an image for the signed in user
		u.POST("/upload-profile-image", jwt, uploadBody, func(c *gin.Context) { image.ImageUpload(c, d) })

		// DELETE /users/delete-image/:id	-> Deletes an uploaded image
		u.DELETE("/delete-image/:id", jwt, func(c *gin.Context) { image.ImageDelete(c, d) })
	}

	i := router.Group("/images")
	{
		// GET /images			-> Lists every uploaded image
		i.GET("", cacheFor(30), func(c *gin.Context) { image.ImageList(c, d) })

		// POST /images/upload		-> Uploads an image from the "file" form field
		i.POST("/upload", uploadBody, func(c *gin.Context) { image.ImageUpload(c, d) })

		// DELETE /images/:id		-> Deletes an image and its stored file
		i.DELETE("/:id", func(c *gin.Context) { image.ImageDelete(c, d) })
	}

	return router
}
