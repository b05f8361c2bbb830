package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"faculty-hub/config"
	"faculty-hub/models"
	"faculty-hub/services"
	"faculty-hub/storage"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	openPathCounter      prometheus.Counter
	facultyTotalGauge    prometheus.Gauge
	departmentTotalGauge prometheus.Gauge
	avgHIndexGauge       prometheus.Gauge
)

func init() {
	openPathCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mind_map_open_path_total",
			Help: "Total number of open-path resolutions requested.",
		},
	)
	facultyTotalGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "directory_faculty_total",
			Help: "Number of faculty records in the directory.",
		},
	)
	departmentTotalGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "directory_departments_total",
			Help: "Number of department records in the directory.",
		},
	)
	avgHIndexGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "directory_avg_h_index",
			Help: "Average h-index across all faculty records.",
		},
	)
	prometheus.MustRegister(openPathCounter, facultyTotalGauge, departmentTotalGauge, avgHIndexGauge)
}

// respondOK writes the project-wide success envelope.
func respondOK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{"success": true, "message": message, "data": data})
}

// respondError maps service errors onto HTTP status codes and the standard
// error envelope. Unknown errors are logged and reported as 500.
func respondError(c *gin.Context, logging *zap.Logger, err error) {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation Error", "errors": vErr.Errors})
		return
	}
	switch {
	case errors.Is(err, services.ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	default:
		logging.Error("Unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
	}
}

// authMiddleware requires a valid Bearer token. With roles given, the token's
// role must additionally be one of them.
func authMiddleware(auth *services.AuthService, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "No token provided"})
			return
		}
		claims, err := auth.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid token"})
			return
		}
		if len(roles) > 0 {
			allowed := false
			for _, r := range roles {
				if claims.Role == r {
					allowed = true
					break
				}
			}
			if !allowed {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "You do not have permission to perform this action"})
				return
			}
		}
		c.Set("claims", claims)
		c.Next()
	}
}

// claimsFrom returns the identity stored by authMiddleware.
func claimsFrom(c *gin.Context) *services.Claims {
	if v, ok := c.Get("claims"); ok {
		if claims, ok := v.(*services.Claims); ok {
			return claims
		}
	}
	return nil
}

// optionalIdentity resolves the identity of endpoints that accept both
// authenticated and anonymous callers (likes, comments). No header means
// anonymous; a present but invalid header is rejected.
func optionalIdentity(auth *services.AuthService, c *gin.Context) (*services.Claims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, true
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}
	claims, err := auth.VerifyToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, false
	}
	return claims, true
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Weak references are part of the data model: no FK constraints, callers
	// decide per operation how to treat dangling ids.
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to database.")

	logging.Info("Running database auto-migration...")
	if err := db.AutoMigrate(
		&models.Department{}, &models.Faculty{},
		&models.ResearchPaper{}, &models.PaperAuthor{}, &models.Thesis{},
		&models.User{}, &models.Content{}, &models.ContentLike{}, &models.Comment{},
	); err != nil {
		logging.Fatal("Auto-migration failed", zap.Error(err))
	}

	s3Client, err := storage.NewS3Client(cfg)
	if err != nil {
		logging.Fatal("S3 client creation failed", zap.Error(err))
	}

	authService := services.NewAuthService(db, logging, cfg.JWTSecret, cfg.TokenExpiry)
	directoryService := services.NewDirectoryService(db, logging, cfg.InstituteName)
	mindMapService := services.NewMindMapService(db, logging)

	router := gin.Default()
	router.Use(corsMiddleware(cfg))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/", func(c *gin.Context) {
		respondOK(c, http.StatusOK, "The service is healthy and running!", nil)
	})

	setupUserRoutes(router, authService, logging)
	setupContentRoutes(router, db, s3Client, cfg, authService, logging)
	setupDirectoryRoutes(router, directoryService, logging)
	setupMindMapRoutes(router, mindMapService, logging)

	refreshDirectoryStats(db, logging)
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.StatsCronSchedule, func() {
		refreshDirectoryStats(db, logging)
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	if cfg.AllowedOrigins == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = strings.Split(cfg.AllowedOrigins, ",")
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Authorization", "Content-Type", "X-Requested-With"}
	return cors.New(corsCfg)
}

// refreshDirectoryStats updates the directory gauges exposed on /metrics.
func refreshDirectoryStats(db *gorm.DB, log *zap.Logger) {
	var facultyCount, departmentCount int64
	if err := db.Model(&models.Faculty{}).Count(&facultyCount).Error; err != nil {
		log.Warn("Failed to count faculties for metrics", zap.Error(err))
		return
	}
	if err := db.Model(&models.Department{}).Count(&departmentCount).Error; err != nil {
		log.Warn("Failed to count departments for metrics", zap.Error(err))
		return
	}
	var avg struct{ Avg float64 }
	if err := db.Model(&models.Faculty{}).Select("COALESCE(AVG(h_index), 0) AS avg").Scan(&avg).Error; err != nil {
		log.Warn("Failed to compute average h-index for metrics", zap.Error(err))
		return
	}
	facultyTotalGauge.Set(float64(facultyCount))
	departmentTotalGauge.Set(float64(departmentCount))
	avgHIndexGauge.Set(avg.Avg)
}

func setupUserRoutes(router *gin.Engine, auth *services.AuthService, log *zap.Logger) {
	rg := router.Group("/api/user")

	rg.POST("/register", func(c *gin.Context) {
		var req struct {
			Email      string `json:"email"`
			Password   string `json:"password"`
			ProfileImg string `json:"profile_img"`
			Role       string `json:"role"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, log, services.ErrBadRequest)
			return
		}
		user, err := auth.Register(req.Email, req.Password, req.ProfileImg, req.Role)
		if err != nil {
			respondError(c, log, err)
			return
		}
		respondOK(c, http.StatusCreated, "User created successfully", user)
	})

	rg.POST("/login", func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, log, services.ErrBadRequest)
			return
		}
		token, err := auth.Login(req.Email, req.Password)
		if err != nil {
			respondError(c, log, err)
			return
		}
		respondOK(c, http.StatusOK, "Login successful", gin.H{"token": token})
	})
}

func setupDirectoryRoutes(router *gin.Engine, directory *services.DirectoryService, log *zap.Logger) {
	rg := router.Group("/api/directory")

	rg.GET("", func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "9"))
		result, err := directory.ListFaculty(page, limit, c.DefaultQuery("sortBy", "hIndex"), c.Query("order"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		respondOK(c, http.StatusOK, "Faculties fetched successfully", result)
	})

	rg.GET("/grouped", func(c *gin.Context) {
		result, err := directory.GroupedByDepartment(c.Query("category"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		respondOK(c, http.StatusOK, "Grouped faculties fetched successfully", result)
	})

	rg.GET("/search", func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		result, err := directory.Search(c.Query("q"), limit)
		if err != nil {
			respondError(c, log, err)
			return
		}
		message := "Search completed"
		if result.Total == 0 && len(strings.TrimSpace(c.Query("q"))) < 2 {
			message = "Search query too short"
		}
		respondOK(c, http.StatusOK, message, result)
	})

	rg.GET("/:id", func(c *gin.Context) {
		faculty, err := directory.GetFaculty(c.Param("id"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		respondOK(c, http.StatusOK, "Faculty fetched successfully", faculty)
	})

	rg.GET("/coworkers/:id", func(c *gin.Context) {
		result, err := directory.Coworkers(c.Param("id"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		respondOK(c, http.StatusOK, "Coworkers fetched successfully", result)
	})
}

func setupMindMapRoutes(router *gin.Engine, mindMap *services.MindMapService, log *zap.Logger) {
	rg := router.Group("/api/mind-map")

	listResponse := func(c *gin.Context, data any, count int, err error) {
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": count, "data": data})
	}

	rg.GET("/categories", func(c *gin.Context) {
		categories := mindMap.Categories()
		listResponse(c, categories, len(categories), nil)
	})

	rg.GET("/departments", func(c *gin.Context) {
		nodes, err := mindMap.DepartmentsByBucket(services.BucketDepartments)
		listResponse(c, nodes, len(nodes), err)
	})

	rg.GET("/schools", func(c *gin.Context) {
		nodes, err := mindMap.DepartmentsByBucket(services.BucketSchools)
		listResponse(c, nodes, len(nodes), err)
	})

	rg.GET("/centres", func(c *gin.Context) {
		nodes, err := mindMap.DepartmentsByBucket(services.BucketCentres)
		listResponse(c, nodes, len(nodes), err)
	})

	rg.GET("/faculties/:departmentId", func(c *gin.Context) {
		nodes, err := mindMap.FacultiesByDepartment(c.Param("departmentId"))
		listResponse(c, nodes, len(nodes), err)
	})

	rg.GET("/project-type", func(c *gin.Context) {
		types := mindMap.ProjectTypes()
		listResponse(c, types, len(types), nil)
	})

	rg.GET("/phd-thesis/:facultyId", func(c *gin.Context) {
		nodes, err := mindMap.ThesesByFaculty(c.Param("facultyId"))
		listResponse(c, nodes, len(nodes), err)
	})

	rg.GET("/phd-thesis/card/:thesisId", func(c *gin.Context) {
		thesis, err := mindMap.ThesisByID(c.Param("thesisId"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": thesis})
	})

	rg.GET("/research/:facultyId", func(c *gin.Context) {
		nodes, err := mindMap.ResearchByFaculty(c.Param("facultyId"))
		listResponse(c, nodes, len(nodes), err)
	})

	rg.GET("/research/card/:researchId", func(c *gin.Context) {
		paper, err := mindMap.ResearchByID(c.Param("researchId"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": paper})
	})

	rg.POST("/open-path", func(c *gin.Context) {
		var doc map[string]any
		if err := c.ShouldBindJSON(&doc); err != nil {
			respondError(c, log, services.ErrBadRequest)
			return
		}
		openPathCounter.Inc()
		path, err := mindMap.ResolveOpenPath(doc)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": path})
	})
}

func setupContentRoutes(router *gin.Engine, db *gorm.DB, s3Client *s3.Client, cfg *config.Config, auth *services.AuthService, log *zap.Logger) {
	rg := router.Group("/api/content")

	// uploadHeroImage stores the multipart "hero_img" file, if any, and
	// returns its public URL.
	uploadHeroImage := func(c *gin.Context) (string, error) {
		file, err := c.FormFile("hero_img")
		if err != nil {
			return "", nil // no file sent
		}
		src, err := file.Open()
		if err != nil {
			return "", err
		}
		defer src.Close()
		data, err := io.ReadAll(src)
		if err != nil {
			return "", err
		}
		key := fmt.Sprintf("posts/%d-%s", time.Now().UnixNano(), file.Filename)
		contentType := file.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		return storage.UploadImage(c.Request.Context(), s3Client, cfg, key, data, contentType)
	}

	rg.GET("", func(c *gin.Context) {
		var content []models.Content
		if err := db.Find(&content).Error; err != nil {
			respondError(c, log, err)
			return
		}
		respondOK(c, http.StatusOK, "Content fetched successfully", content)
	})

	rg.GET("/paginated", func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "9"))
		if limit < 1 {
			limit = 9
		}
		status := c.Query("status")

		query := db.Model(&models.Content{})
		if status != "" {
			query = query.Where("status = ?", status)
		}
		var totalCount int64
		if err := query.Count(&totalCount).Error; err != nil {
			respondError(c, log, err)
			return
		}
		totalPages := int((totalCount + int64(limit) - 1) / int64(limit))

		var content []models.Content
		err := query.Order("created_at desc").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&content).Error
		if err != nil {
			respondError(c, log, err)
			return
		}

		respondOK(c, http.StatusOK, "Content fetched successfully", gin.H{
			"magazines": content,
			"pagination": gin.H{
				"currentPage": page,
				"totalPages":  totalPages,
				"totalCount":  totalCount,
				"limit":       limit,
				"hasNextPage": page < totalPages,
				"hasPrevPage": page > 1,
			},
		})
	})

	rg.GET("/:id", func(c *gin.Context) {
		var content models.Content
		if err := db.First(&content, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, log, services.ErrNotFound)
				return
			}
			respondError(c, log, err)
			return
		}

		var comments []models.Comment
		if err := db.Where("content_id = ?", content.ID).Order("created_at asc").Find(&comments).Error; err != nil {
			respondError(c, log, err)
			return
		}
		var likesCount int64
		if err := db.Model(&models.ContentLike{}).Where("content_id = ?", content.ID).Count(&likesCount).Error; err != nil {
			respondError(c, log, err)
			return
		}

		type contentWithAnalytics struct {
			models.Content
			AuthorEmail   string           `json:"author_email,omitempty"`
			Comments      []models.Comment `json:"comments"`
			LikesCount    int64            `json:"likesCount"`
			CommentsCount int              `json:"commentsCount"`
		}
		enriched := contentWithAnalytics{
			Content:       content,
			Comments:      comments,
			LikesCount:    likesCount,
			CommentsCount: len(comments),
		}
		var author models.User
		if err := db.First(&author, content.CreatedByID).Error; err == nil {
			enriched.AuthorEmail = author.Email
		}
		respondOK(c, http.StatusOK, "Content fetched successfully", enriched)
	})

	rg.POST("", authMiddleware(auth), func(c *gin.Context) {
		claims := claimsFrom(c)
		heroImg, err := uploadHeroImage(c)
		if err != nil {
			log.Error("Hero image upload failed", zap.Error(err))
			respondError(c, log, err)
			return
		}

		title := c.PostForm("title")
		subtitle := c.PostForm("subtitle")
		body := c.PostForm("body")
		estReadTime, _ := strconv.Atoi(c.PostForm("est_read_time"))

		var fields []services.FieldError
		if title == "" {
			fields = append(fields, services.FieldError{Field: "title", Message: "Title is required"})
		}
		if subtitle == "" {
			fields = append(fields, services.FieldError{Field: "subtitle", Message: "Subtitle is required"})
		}
		if heroImg == "" {
			fields = append(fields, services.FieldError{Field: "hero_img", Message: "Hero Image is required"})
		}
		if body == "" {
			fields = append(fields, services.FieldError{Field: "body", Message: "Body is required"})
		}
		if estReadTime == 0 {
			fields = append(fields, services.FieldError{Field: "est_read_time", Message: "Estimated Read Time is required"})
		}
		if len(fields) > 0 {
			respondError(c, log, &services.ValidationError{Errors: fields})
			return
		}

		content := models.Content{
			Title:       title,
			Subtitle:    subtitle,
			ImageURL:    heroImg,
			Body:        body,
			EstReadTime: estReadTime,
			CreatedByID: claims.UserID,
		}
		if err := db.Create(&content).Error; err != nil {
			respondError(c, log, err)
			return
		}
		log.Info("Content created", zap.Uint("id", content.ID), zap.String("title", content.Title))
		respondOK(c, http.StatusCreated, "Content created successfully", content)
	})

	rg.PUT("", authMiddleware(auth), func(c *gin.Context) {
		claims := claimsFrom(c)
		id, _ := strconv.ParseUint(c.PostForm("id"), 10, 64)
		if id == 0 {
			respondError(c, log, services.ErrBadRequest)
			return
		}
		var content models.Content
		if err := db.First(&content, uint(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, log, services.ErrNotFound)
				return
			}
			respondError(c, log, err)
			return
		}
		if content.CreatedByID != claims.UserID && claims.Role != "admin" {
			respondError(c, log, services.ErrForbidden)
			return
		}

		heroImg, err := uploadHeroImage(c)
		if err != nil {
			respondError(c, log, err)
			return
		}
		if heroImg != "" && content.ImageURL != "" {
			if err := storage.DeleteImageByURL(c.Request.Context(), s3Client, cfg, content.ImageURL); err != nil {
				log.Warn("Failed to delete replaced hero image", zap.String("url", content.ImageURL), zap.Error(err))
			}
		}

		if title := c.PostForm("title"); title != "" {
			content.Title = title
		}
		if subtitle := c.PostForm("subtitle"); subtitle != "" {
			content.Subtitle = subtitle
		}
		if heroImg != "" {
			content.ImageURL = heroImg
		}
		if body := c.PostForm("body"); body != "" {
			content.Body = body
		}
		if est, _ := strconv.Atoi(c.PostForm("est_read_time")); est > 0 {
			content.EstReadTime = est
		}
		if err := db.Save(&content).Error; err != nil {
			respondError(c, log, err)
			return
		}
		respondOK(c, http.StatusOK, "Content updated successfully", content)
	})

	rg.DELETE("", authMiddleware(auth), func(c *gin.Context) {
		claims := claimsFrom(c)
		var req struct {
			ID uint `json:"id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ID == 0 {
			respondError(c, log, services.ErrBadRequest)
			return
		}
		var content models.Content
		if err := db.First(&content, req.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, log, services.ErrNotFound)
				return
			}
			respondError(c, log, err)
			return
		}
		if content.CreatedByID != claims.UserID && claims.Role != "admin" {
			respondError(c, log, services.ErrForbidden)
			return
		}
		if content.ImageURL != "" {
			if err := storage.DeleteImageByURL(c.Request.Context(), s3Client, cfg, content.ImageURL); err != nil {
				log.Warn("Failed to delete hero image", zap.String("url", content.ImageURL), zap.Error(err))
			}
		}
		if err := db.Delete(&content).Error; err != nil {
			respondError(c, log, err)
			return
		}
		// Drop the associated likes and comments as well.
		db.Where("content_id = ?", content.ID).Delete(&models.ContentLike{})
		db.Where("content_id = ?", content.ID).Delete(&models.Comment{})
		respondOK(c, http.StatusOK, "Content deleted successfully", nil)
	})

	rg.PATCH("/status", authMiddleware(auth), func(c *gin.Context) {
		claims := claimsFrom(c)
		var req struct {
			ContentID uint   `json:"contentId"`
			Status    string `json:"status"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, log, services.ErrBadRequest)
			return
		}
		var fields []services.FieldError
		if req.ContentID == 0 {
			fields = append(fields, services.FieldError{Field: "contentId", Message: "Content ID is required"})
		}
		if req.Status == "" {
			fields = append(fields, services.FieldError{Field: "status", Message: "Status is required"})
		}
		if len(fields) > 0 {
			respondError(c, log, &services.ValidationError{Errors: fields})
			return
		}
		if req.Status != models.StatusPending && req.Status != models.StatusArchived && req.Status != models.StatusOnline {
			respondError(c, log, services.ErrBadRequest)
			return
		}
		var content models.Content
		if err := db.First(&content, req.ContentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, log, services.ErrNotFound)
				return
			}
			respondError(c, log, err)
			return
		}
		// Publishing is admin-only; other transitions are open to the author.
		if req.Status == models.StatusOnline {
			if claims.Role != "admin" {
				respondError(c, log, services.ErrForbidden)
				return
			}
		} else if claims.Role != "admin" && content.CreatedByID != claims.UserID {
			respondError(c, log, services.ErrForbidden)
			return
		}
		content.Status = req.Status
		content.IsApproved = req.Status == models.StatusOnline
		if err := db.Save(&content).Error; err != nil {
			respondError(c, log, err)
			return
		}
		respondOK(c, http.StatusOK, "Status changed successfully", content)
	})

	rg.POST("/like", func(c *gin.Context) {
		claims, ok := optionalIdentity(auth, c)
		if !ok {
			respondError(c, log, services.ErrUnauthorized)
			return
		}
		var req struct {
			ContentID uint `json:"contentId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ContentID == 0 {
			respondError(c, log, services.ErrBadRequest)
			return
		}
		ip := c.ClientIP()

		// One like per user, or per IP for anonymous callers.
		var existing int64
		if claims != nil {
			db.Model(&models.ContentLike{}).
				Where("content_id = ? AND user_id = ?", req.ContentID, claims.UserID).
				Count(&existing)
		} else {
			db.Model(&models.ContentLike{}).
				Where("content_id = ? AND ip_address = ? AND user_id IS NULL", req.ContentID, ip).
				Count(&existing)
		}
		if existing > 0 {
			respondError(c, log, services.ErrBadRequest)
			return
		}

		like := models.ContentLike{ContentID: req.ContentID, IPAddress: ip}
		if claims != nil {
			like.UserID = &claims.UserID
		}
		if err := db.Create(&like).Error; err != nil {
			respondError(c, log, err)
			return
		}
		var likesCount int64
		db.Model(&models.ContentLike{}).Where("content_id = ?", req.ContentID).Count(&likesCount)
		respondOK(c, http.StatusOK, "Like added successfully", gin.H{"likesCount": likesCount})
	})

	rg.POST("/dislike", func(c *gin.Context) {
		claims, ok := optionalIdentity(auth, c)
		if !ok {
			respondError(c, log, services.ErrUnauthorized)
			return
		}
		var req struct {
			ContentID uint `json:"contentId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ContentID == 0 {
			respondError(c, log, services.ErrBadRequest)
			return
		}
		ip := c.ClientIP()

		query := db.Where("content_id = ?", req.ContentID)
		if claims != nil {
			query = query.Where("user_id = ?", claims.UserID)
		} else {
			query = query.Where("ip_address = ? AND user_id IS NULL", ip)
		}
		result := query.Delete(&models.ContentLike{})
		if result.Error != nil {
			respondError(c, log, result.Error)
			return
		}
		if result.RowsAffected == 0 {
			respondError(c, log, services.ErrNotFound)
			return
		}
		var likesCount int64
		db.Model(&models.ContentLike{}).Where("content_id = ?", req.ContentID).Count(&likesCount)
		respondOK(c, http.StatusOK, "Like removed successfully", gin.H{"likesCount": likesCount})
	})

	rg.POST("/comment", func(c *gin.Context) {
		claims, ok := optionalIdentity(auth, c)
		if !ok {
			respondError(c, log, services.ErrUnauthorized)
			return
		}
		var req struct {
			ContentID uint   `json:"contentId"`
			Body      string `json:"body"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ContentID == 0 || strings.TrimSpace(req.Body) == "" {
			respondError(c, log, services.ErrBadRequest)
			return
		}
		ip := c.ClientIP()

		// One comment per user (or per anonymous IP) and content.
		var existing int64
		if claims != nil {
			db.Model(&models.Comment{}).
				Where("content_id = ? AND created_by_id = ?", req.ContentID, claims.UserID).
				Count(&existing)
		} else {
			db.Model(&models.Comment{}).
				Where("content_id = ? AND ip_address = ? AND created_by_id IS NULL", req.ContentID, ip).
				Count(&existing)
		}
		if existing > 0 {
			respondError(c, log, services.ErrBadRequest)
			return
		}

		comment := models.Comment{
			ContentID: req.ContentID,
			Body:      strings.TrimSpace(req.Body),
			IPAddress: ip,
		}
		if claims != nil {
			comment.CreatedByID = &claims.UserID
		}
		if err := db.Create(&comment).Error; err != nil {
			respondError(c, log, err)
			return
		}
		respondOK(c, http.StatusCreated, "Comment added successfully", comment)
	})

	rg.POST("/uncomment", func(c *gin.Context) {
		claims, ok := optionalIdentity(auth, c)
		if !ok {
			respondError(c, log, services.ErrUnauthorized)
			return
		}
		var req struct {
			ContentID uint `json:"contentId"`
			CommentID uint `json:"commentId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ContentID == 0 || req.CommentID == 0 {
			respondError(c, log, services.ErrBadRequest)
			return
		}
		ip := c.ClientIP()

		var comment models.Comment
		if err := db.Where("id = ? AND content_id = ?", req.CommentID, req.ContentID).First(&comment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, log, services.ErrNotFound)
				return
			}
			respondError(c, log, err)
			return
		}

		isAdmin := claims != nil && claims.Role == "admin"
		isCreator := (claims != nil && comment.CreatedByID != nil && *comment.CreatedByID == claims.UserID) ||
			(claims == nil && comment.CreatedByID == nil && comment.IPAddress == ip)
		if !isAdmin && !isCreator {
			respondError(c, log, services.ErrForbidden)
			return
		}
		if err := db.Delete(&comment).Error; err != nil {
			respondError(c, log, err)
			return
		}
		respondOK(c, http.StatusOK, "Comment deleted successfully", nil)
	})
}
