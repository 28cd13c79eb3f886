package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"classtrack/internal/attendance"
	"classtrack/internal/auth"
	"classtrack/internal/config"
	"classtrack/internal/handler"
	"classtrack/internal/httpmiddleware"
	"classtrack/internal/roster"
	"classtrack/internal/session"
	"classtrack/internal/store"
	"classtrack/internal/timetable"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func run(cfg config.App) error {
	// Catalog and timetable live in process memory; the composition root
	// owns the single instance of each store.
	rosterStore := roster.NewStore()
	schedule := timetable.NewStore()
	registry := auth.NewRegistry()

	if cfg.AdminEmail != "" {
		err := registry.Add(auth.User{
			Name:       "Head of Department",
			Email:      cfg.AdminEmail,
			Role:       auth.RoleHOD,
			Department: cfg.AdminDepartment,
		}, cfg.AdminPassword)
		if err != nil {
			return err
		}
	}

	var redisClient *store.Redis
	var lock session.Lock = session.NewMemoryLock()
	if cfg.LockBackend == "redis" {
		redisClient = store.NewRedis(cfg.RedisAddr)
		lock = session.NewRedisLock(redisClient.Client, "classtrack:session", cfg.SessionLockTTL)
		log.Println("session lock backend: redis")
	} else {
		log.Println("session lock backend: memory")
	}

	ctx := context.Background()
	var db *store.DB
	var sink attendance.Sink = attendance.NewMemorySink()
	if cfg.SinkBackend == "postgres" {
		var err error
		db, err = store.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		sink, err = attendance.NewPostgresSink(ctx, db.Client)
		if err != nil {
			return err
		}
		log.Println("attendance sink backend: postgres")
	} else {
		log.Println("attendance sink backend: memory")
	}

	att := attendance.NewService(sink, lock, rosterStore)
	h := handler.New(cfg, registry, rosterStore, schedule, att)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		status := http.StatusOK
		health := gin.H{"status": "ok"}
		if redisClient != nil {
			ok := redisClient.Healthy(c.Request.Context())
			health["redis"] = ok
			if !ok {
				status = http.StatusServiceUnavailable
			}
		}
		if db != nil {
			ok := db.Healthy(c.Request.Context())
			health["db"] = ok
			if !ok {
				status = http.StatusServiceUnavailable
			}
		}
		c.JSON(status, health)
	})

	r.POST("/v1/login", h.Login)
	r.POST("/v1/register", h.Register)

	v1 := r.Group("/v1", auth.RequireAuth(cfg.JWTSigningKey, cfg.JWTIssuer))

	v1.GET("/faculty", h.ListFaculty)

	hod := v1.Group("", auth.RequireHOD())
	hod.PUT("/faculty/:email/blocked", h.SetFacultyBlocked)
	hod.POST("/classes", h.CreateClass)
	hod.DELETE("/classes/:id", h.DeleteClass)
	hod.PUT("/classes/:id/teacher", h.SetClassTeacher)
	hod.PUT("/classes/:id/coordinator", h.SetYearCoordinator)

	v1.GET("/classes", h.ListClasses)
	v1.GET("/divisions", h.ListDivisionsForClassName)
	v1.PUT("/classes/:id", h.UpdateClass)

	v1.POST("/subjects", h.CreateSubject)
	v1.GET("/subjects", h.ListSubjects)
	v1.PUT("/subjects/:id/teacher", h.AssignSubjectTeacher)
	v1.DELETE("/subjects/:id", h.DeleteSubject)

	v1.POST("/practicals", h.CreatePractical)
	v1.GET("/practicals", h.ListPracticals)
	v1.DELETE("/practicals/:id", h.DeletePractical)

	v1.POST("/students", h.CreateStudent)
	v1.GET("/students", h.ListStudents)
	v1.DELETE("/students/:id", h.DeleteStudent)
	v1.PUT("/students/:id/mentor", h.AssignMentor)
	v1.GET("/mentees", h.ListMentees)
	v1.POST("/mentees/sessions", h.RecordMenteeSession)

	v1.POST("/timetable", h.CreateSlot)
	v1.PUT("/timetable/:id", h.UpdateSlot)
	v1.DELETE("/timetable/:id", h.DeleteSlot)
	v1.GET("/timetable", h.ListSlots)
	v1.GET("/timetable/teacher", h.MySchedule)

	v1.GET("/sessions/today", h.TodaySessions)
	v1.POST("/attendance", h.SubmitAttendance)
	v1.GET("/attendance/students/:id", h.StudentAttendance)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced shutdown: %v", err)
	}

	log.Println("server exited")
	return nil
}

// CORS middleware for browser requests.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
