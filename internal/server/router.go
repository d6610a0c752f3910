package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MarcoPoloResearchLab/gripmetrics/internal/export"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/notices"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/training"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultHeartbeatInterval = 25 * time.Second

var (
	errMissingTrainingService = errors.New("training service dependency required")
	errMissingStore           = errors.New("data store dependency required")
	errMissingExporter        = errors.New("exporter dependency required")
	errMissingNotices         = errors.New("notice dispatcher dependency required")
)

// DataStore is the destructive store surface the adapter needs.
type DataStore interface {
	ClearAll(ctx context.Context) error
}

type Dependencies struct {
	Training          *training.Service
	Store             DataStore
	Exporter          *export.Service
	Notices           *notices.Dispatcher
	Logger            *zap.Logger
	AllowedOrigins    []string
	HeartbeatInterval time.Duration
}

func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Training == nil {
		return nil, errMissingTrainingService
	}
	if deps.Store == nil {
		return nil, errMissingStore
	}
	if deps.Exporter == nil {
		return nil, errMissingExporter
	}
	if deps.Notices == nil {
		return nil, errMissingNotices
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	heartbeat := deps.HeartbeatInterval
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeatInterval
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(deps.AllowedOrigins))

	handler := &httpHandler{
		training:          deps.Training,
		store:             deps.Store,
		exporter:          deps.Exporter,
		notices:           deps.Notices,
		logger:            logger,
		heartbeatInterval: heartbeat,
	}

	api := router.Group("/api")
	api.GET("/workouts", handler.handleListWorkouts)
	api.GET("/workouts/:id", handler.handleGetWorkout)
	api.POST("/workouts", handler.handleCreateWorkout)
	api.DELETE("/workouts/:id", handler.handleDeleteWorkout)
	api.GET("/feedbacks", handler.handleListFeedbacks)
	api.POST("/feedbacks", handler.handleSubmitFeedback)
	api.GET("/evaluations", handler.handleListEvaluations)
	api.POST("/evaluations", handler.handleSaveEvaluation)
	api.POST("/metrics/preview", handler.handleMetricsPreview)
	api.GET("/stats/categories", handler.handleCategoryStats)
	api.GET("/stats/summary", handler.handleSummary)
	api.GET("/export/json", handler.handleExportJSON)
	api.GET("/export/csv", handler.handleExportCSV)
	api.POST("/import", handler.handleImport)
	api.DELETE("/data", handler.handleClearData)
	api.GET("/notices/stream", handler.handleNoticeStream)

	return router, nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	})
}

type httpHandler struct {
	training          *training.Service
	store             DataStore
	exporter          *export.Service
	notices           *notices.Dispatcher
	logger            *zap.Logger
	heartbeatInterval time.Duration
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": code, "message": message})
}

// respondFailure maps validation errors to 400 and everything else to 500.
// Either way the user gets an error notice.
func (h *httpHandler) respondFailure(c *gin.Context, operation string, err error) {
	if validationErr, ok := training.AsValidationError(err); ok {
		h.notices.Notify(validationErr.Message, notices.KindError)
		writeError(c, http.StatusBadRequest, validationErr.Code, validationErr.Message)
		return
	}
	h.logger.Error("request failed", zap.String("operation", operation), zap.Error(err))
	h.notices.Notify("Something went wrong, please try again.", notices.KindError)
	writeError(c, http.StatusInternalServerError, operation+"_failed", "Something went wrong, please try again.")
}
