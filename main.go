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

	"github.com/shotbuilder/backend/handlers"
	"github.com/shotbuilder/backend/internal/comment"
	"github.com/shotbuilder/backend/internal/config"
	"github.com/shotbuilder/backend/internal/database"
	"github.com/shotbuilder/backend/internal/export"
	"github.com/shotbuilder/backend/internal/flags"
	"github.com/shotbuilder/backend/internal/library"
	"github.com/shotbuilder/backend/internal/models"
	"github.com/shotbuilder/backend/internal/oidc"
	"github.com/shotbuilder/backend/internal/presence"
	"github.com/shotbuilder/backend/internal/project"
	"github.com/shotbuilder/backend/internal/pull"
	"github.com/shotbuilder/backend/internal/sessions"
	"github.com/shotbuilder/backend/internal/shot"
	"github.com/shotbuilder/backend/internal/storage"
	"github.com/shotbuilder/backend/internal/store"
	"github.com/shotbuilder/backend/internal/users"
	"github.com/shotbuilder/backend/pkg/logger"
	"github.com/shotbuilder/backend/pkg/metrics"
	"github.com/shotbuilder/backend/pkg/middleware"
)

var startTime = time.Now()

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: keycloak=%v mongo=%v redis=%v", cfg.Keycloak.URL != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "")

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS for the web client; tighten the origin in production.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	ctx := context.Background()

	// Redis: sessions, blacklist, presence, flags, optional rate limiter.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis ping failed (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			sessions.SetBlacklistClient(redisClient)
			logger.Infof("connected to redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// MongoDB with retry, startup races against the DB container are common.
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		backoff := time.Second
		for attempt := 1; attempt <= 5; attempt++ {
			mongoClient, err = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if err == nil {
				break
			}
			logger.Warnf("attempt %d/5: failed to connect to MongoDB: %v", attempt, err)
			time.Sleep(backoff)
			backoff *= 2
		}
		if err != nil {
			logger.Fatalf("could not connect to MongoDB: %v", err)
		}
		defer func() { _ = mongoClient.Disconnect(ctx) }()
	} else {
		logger.Fatalf("MONGODB_URI is required")
	}
	db := mongoClient.Database(cfg.MongoDB.Database)

	// OIDC verifier for access tokens issued by the identity provider.
	var verifier middleware.Verifier
	if cfg.Keycloak.URL != "" && cfg.Keycloak.ClientID != "" && cfg.Keycloak.Realm != "" {
		issuer := strings.TrimRight(cfg.Keycloak.URL, "/") + "/realms/" + cfg.Keycloak.Realm
		ver, err := oidc.NewVerifier(ctx, issuer, cfg.Keycloak.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			verifier = ver
		}
	}
	if verifier == nil && strings.EqualFold(strings.TrimSpace(os.Getenv("ALLOW_INSECURE_TOKEN")), "true") {
		logger.Warn("enabling insecure OIDC verifier (integration mode)")
		verifier = oidc.NewInsecureVerifier()
	}

	// Object storage for shot imagery; optional, exports fall back to HTTP
	// sources when absent.
	var objectStore *storage.MinIOStorage
	if cfg.MinIO.Endpoint != "" {
		objectStore, err = storage.NewMinIOStorage(&storage.MinIOConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			UseSSL:    cfg.MinIO.UseSSL,
			Bucket:    cfg.MinIO.Bucket,
		})
		if err != nil {
			logger.Warnf("object storage unavailable: %v", err)
		}
	}

	// Domain services.
	st := store.New(db)
	userSvc := users.NewService(users.NewMongoUserRepository(db.Collection("users")))

	var sessionsSvc *sessions.Service
	if redisClient != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(redisClient, "session:"))
	} else {
		sessionsSvc = sessions.NewService(sessions.NewMongoRepository(db.Collection("sessions")))
	}

	projectSvc := project.NewService(project.NewStoreRepository(st))
	shotRepo := shot.NewStoreRepository(st)
	shotSvc := shot.NewService(shotRepo, cfg)
	migrator := shot.NewMigrator(shotRepo, projectSvc)
	pullSvc := pull.NewService(pull.NewStoreRepository(st), cfg)
	librarySvc := library.NewService(library.NewRepository(st))
	commentSvc := comment.NewService(comment.NewStoreRepository(st))

	exportSvc := export.NewService(cfg, export.NewJobStore(db), objectFetcher(objectStore))

	var presenceStore *presence.Store
	var flagStore *flags.Store
	if redisClient != nil {
		presenceStore = presence.NewStore(redisClient, cfg.Presence.TTL)
		flagStore = flags.NewStore(redisClient)
	}

	// Health, readiness, metrics.
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{
			"mongo": mongoClient != nil,
			"redis": redisClient != nil || cfg.Redis.Host == "",
			"oidc":  verifier != nil || cfg.Keycloak.URL == "",
		}
		ready := deps["mongo"] && deps["redis"] && deps["oidc"]
		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes: login/refresh/logout plus token-based share views.
	handlers.NewAuthHandler(cfg, userSvc, sessionsSvc).Register(r.Group("/"))
	pullHandler := pull.NewHandler(pullSvc)
	shotHandler := shot.NewHandler(shotSvc, migrator)
	public := r.Group("/api/v1")
	pullHandler.RegisterPublic(public)
	shotHandler.RegisterPublic(public)

	// Authenticated API. Reads need a session and a tenant; mutations need a
	// non-viewer role; the repair tool is admin only.
	api := r.Group("/api/v1")
	if verifier != nil {
		api.Use(middleware.AuthMiddleware(verifier))
	}
	api.Use(middleware.RequireTenant())

	mutate := api.Group("", middleware.RequireRole(
		string(models.RoleAdmin), string(models.RoleProducer),
		string(models.RoleCrew), string(models.RoleWardrobe),
	))
	admin := api.Group("", middleware.RequireRole(string(models.RoleAdmin)))

	api.GET("/me", func(c *gin.Context) {
		claims, _ := c.Get("claims")
		if cm, ok := claims.(map[string]interface{}); ok {
			if u, err := userSvc.UpsertFromClaims(c.Request.Context(), cm); err == nil && u != nil {
				c.JSON(http.StatusOK, gin.H{"user": u})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"claims": claims})
	})
	api.GET("/members", func(c *gin.Context) {
		members, err := userSvc.ListMembers(c.Request.Context(), middleware.TenantID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list members"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"members": members})
	})
	admin.PUT("/members/:sub/role", func(c *gin.Context) {
		var req struct {
			Role string `json:"role" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := userSvc.AssignRole(c.Request.Context(), c.Param("sub"), models.Role(req.Role)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// stale role claims die with the sessions
		revoked, err := sessionsSvc.RevokeUser(c.Request.Context(), c.Param("sub"))
		if err != nil {
			logger.Warnf("session revocation after role change failed: %v", err)
		}
		c.JSON(http.StatusOK, gin.H{"sub": c.Param("sub"), "role": req.Role, "sessionsRevoked": revoked})
	})

	project.NewHandler(projectSvc).Register(api, mutate)
	shotHandler.Register(api, mutate, admin)
	pullHandler.Register(api, mutate)
	library.NewHandler(librarySvc).Register(api, mutate)
	comment.NewHandler(commentSvc).Register(api, mutate)
	export.NewHandler(exportSvc).Register(api)
	if presenceStore != nil {
		presence.NewHandler(presenceStore).Register(api)
	}
	if flagStore != nil {
		flags.NewHandler(flagStore).Register(api)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting shot builder api on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

// objectFetcher keeps the export service free of a nil-interface trap when
// storage is not configured.
func objectFetcher(s *storage.MinIOStorage) export.ObjectFetcher {
	if s == nil {
		return nil
	}
	return s
}
