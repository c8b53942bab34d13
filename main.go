package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	apphandler "github.com/careerbridge/careerbridge/backend/go-services/internal/application/handler"
	apprepo "github.com/careerbridge/careerbridge/backend/go-services/internal/application/repository"
	appservice "github.com/careerbridge/careerbridge/backend/go-services/internal/application/service"
	"github.com/careerbridge/careerbridge/backend/go-services/handlers"
	"github.com/careerbridge/careerbridge/backend/go-services/internal/audit"
	"github.com/careerbridge/careerbridge/backend/go-services/internal/config"
	"github.com/careerbridge/careerbridge/backend/go-services/internal/database"
	"github.com/careerbridge/careerbridge/backend/go-services/internal/oidc"
	postingrepo "github.com/careerbridge/careerbridge/backend/go-services/internal/posting/repository"
	"github.com/careerbridge/careerbridge/backend/go-services/internal/review"
	"github.com/careerbridge/careerbridge/backend/go-services/internal/rostercache"
	"github.com/careerbridge/careerbridge/backend/go-services/internal/storage"
	"github.com/careerbridge/careerbridge/backend/go-services/internal/tokens"
	"github.com/careerbridge/careerbridge/backend/go-services/internal/upload"
	"github.com/careerbridge/careerbridge/backend/go-services/internal/users"
	"github.com/careerbridge/careerbridge/backend/go-services/pkg/logger"
	"github.com/careerbridge/careerbridge/backend/go-services/pkg/metrics"
	"github.com/careerbridge/careerbridge/backend/go-services/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: keycloak=%v mongo=%v redis=%v", cfg.Keycloak.URL != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "")

	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple — production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// shared runtime vars used by handlers/readiness
	var verifier middleware.Verifier
	var userSvc *users.Service
	var uploadSvc *upload.Service

	// Global middlewares: logging + recovery
	r.Use(gin.Logger(), gin.Recovery())

	// Connect to Redis early so the rate-limiter and roster cache can use it when configured
	var importedRedis *redis.Client
	if cfg.Redis.Host != "" {
		importedRedis = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password})

		// validate connection
		if err := importedRedis.Ping(context.Background()).Err(); err == nil {
			logger.Infof("Connected to Redis (early) for optional features: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		} else {
			logger.Warnf("failed to connect to Redis early (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			importedRedis = nil
		}
	}

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		// use Redis-backed limiter when configured and Redis client is available
		if cfg.RateLimit.UseRedis && importedRedis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(importedRedis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Basic health endpoint
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness endpoint — return 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		// blob storage readiness: uploads are only served when MinIO came up
		deps["storage"] = (uploadSvc != nil)
		if uploadSvc == nil {
			ready = false
		}
		// user service rides on MongoDB; roster identities degrade without it
		deps["users"] = (userSvc != nil)

		// OIDC readiness: if Keycloak URL was configured we expect a verifier (or ALLOW_INSECURE_TOKEN)
		if cfg.Keycloak.URL != "" {
			if verifier == nil {
				deps["oidc"] = false
				ready = false
			} else {
				deps["oidc"] = true
			}
		} else {
			// not configured -> consider OK
			deps["oidc"] = true
		}

		// Redis readiness when used for rate-limiter or the roster cache
		if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis {
			deps["redis"] = importedRedis != nil
			if !deps["redis"] {
				ready = false
			}
		} else {
			deps["redis"] = true
		}

		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": fmt.Sprintf("%s", time.Since(startTime))})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": fmt.Sprintf("%s", time.Since(startTime))})
	})

	// Keycloak OIDC verifier
	ctx := context.Background()
	if cfg.Keycloak.URL != "" && cfg.Keycloak.ClientID != "" && cfg.Keycloak.Realm != "" {
		issuer := strings.TrimRight(cfg.Keycloak.URL, "/") + "/realms/" + cfg.Keycloak.Realm
		ver, err := oidc.NewVerifier(ctx, issuer, cfg.Keycloak.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			verifier = ver
		}
	} else if cfg.Keycloak.URL != "" && cfg.Keycloak.ClientID != "" {
		// Fallback: try URL as issuer (older deployments may expose realm path in URL)
		ver, err := oidc.NewVerifier(ctx, cfg.Keycloak.URL, cfg.Keycloak.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier (fallback): %v", err)
		} else {
			verifier = ver
		}
	}

	// Locally issued HS256 tokens when no OIDC provider is configured
	if verifier == nil && cfg.JWT.Secret != "" {
		verifier = tokens.NewVerifier(cfg.JWT.Secret)
		logger.Infof("using local JWT verifier (no OIDC provider configured)")
	}

	// Optional insecure verifier for integration tests: parse token claims without signature verification
	if verifier == nil {
		val := strings.ToLower(strings.TrimSpace(os.Getenv("ALLOW_INSECURE_TOKEN")))
		if val == "true" {
			logger.Warn("enabling insecure token verifier (integration mode)")
			verifier = oidc.NewInsecureVerifier()
		}
	}

	// Connect to MongoDB and initialize persistence. Memory repositories keep
	// the review API usable when Mongo is down (dev/demo mode); uploads and
	// roster identities need the real backends.
	var postings apphandler.PostingStore = postingrepo.NewMemoryRepo()
	var applications apprepo.Repository = apprepo.NewMemoryRepo()
	var auditStore *audit.Store

	if cfg.MongoDB.URI != "" {
		// Retry/backoff when connecting to MongoDB to tolerate startup races
		const maxAttempts = 5
		backoff := time.Second
		var client *mongo.Client
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			client, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
		} else {
			defer func() { _ = client.Disconnect(ctx) }()
			db := client.Database(cfg.MongoDB.Database)
			userSvc = users.NewService(users.NewMongoUserRepository(db.Collection("users")))
			postings = postingrepo.NewMongoRepo(db.Collection("postings"))
			applications = apprepo.NewMongoRepo(db.Collection("applications"))
			auditStore = audit.NewStore(db.Collection("status_transitions"))
			logger.Infof("MongoDB-backed repositories initialized (db=%s)", cfg.MongoDB.Database)
		}
	}

	// MinIO blob storage for resume/photo intake
	mcfg := storage.LoadMinIOConfig()
	if mcfg.Endpoint != "" {
		ms, err := storage.NewMinIOStorage(mcfg)
		if err != nil {
			logger.Warnf("failed to initialize MinIO storage: %v", err)
		} else {
			uploadSvc = upload.NewService(ms)
			logger.Infof("MinIO storage ready (bucket=%s)", mcfg.Bucket)
		}
	}

	// Roster cache rides on the early Redis connection
	var roster *rostercache.Cache
	if importedRedis != nil {
		roster = rostercache.New(importedRedis, "roster:", cfg.Upload.RosterCacheTTL)
	}

	appSvc := appservice.NewService(applications)
	if auditStore != nil {
		appSvc = appSvc.WithRecorder(auditStore)
	}

	var identity review.IdentityResolver
	if userSvc != nil {
		identity = userSvc
	}

	// Register document intake routes when blob storage is available
	if uploadSvc != nil {
		handlers.RegisterUploadRoutes(r, uploadSvc, userSvc)
	} else {
		logger.Warnf("upload routes not registered because blob storage is unavailable")
	}

	// Minimal Swagger UI + JSON for API documentation
	handlers.RegisterSwagger(r)

	api := r.Group("/api/v1")
	reviewHandler := apphandler.New(appSvc, postings, identity, roster)
	reviewHandler.Register(api)

	if verifier != nil {
		api.GET("/me", middleware.AuthMiddleware(verifier), func(c *gin.Context) {
			claims, _ := c.Get("claims")
			if userSvc != nil {
				if cm, ok := claims.(map[string]interface{}); ok {
					u, err := userSvc.UpsertFromClaims(c.Request.Context(), cm)
					if err == nil && u != nil {
						c.JSON(http.StatusOK, gin.H{"user": u})
						return
					}
				}
			}
			// fallback: return claims
			c.JSON(http.StatusOK, gin.H{"claims": claims})
		})
	} else {
		api.GET("/me", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "token verification not configured"})
		})
	}

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	// brief runtime configuration summary to help with debugging early exits
	logger.Infof("Config summary: keycloak=%v mongo=%v redis=%v jwt_secret_set=%v", cfg.Keycloak.URL != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.JWT.Secret != "")
	logger.Debugf("services: user=%v upload=%v verifier=%v", userSvc != nil, uploadSvc != nil, verifier != nil)
	logger.Infof("Starting portal core service on %s", addr)
	// run server in goroutine and keep process alive — defensive: prevents
	// the container from exiting silently if r.Run ever returns.
	go func() {
		if err := r.Run(addr); err != nil {
			logger.Fatalf("server failed: %v", err)
		}
	}()
	select {}
}
