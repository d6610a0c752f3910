package server

import (
	"net/http"

	"github.com/MarcoPoloResearchLab/gripmetrics/internal/metrics"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/notices"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/training"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	noticeWorkoutSaved   = "Workout saved successfully!"
	noticeWorkoutRemoved = "Workout removed."
	noticeFeedbackSent   = "Feedback sent!"
	noticeEvaluationSave = "Evaluation saved!"
)

type blockPayload struct {
	Category       string  `json:"category"`
	Qty            int     `json:"qty"`
	IntensityType  string  `json:"intensityType"`
	IntensityValue string  `json:"intensityValue"`
	Minutes        float64 `json:"minutes"`
	Notes          string  `json:"notes"`
}

type workoutRequestPayload struct {
	Date    string         `json:"date"`
	Athlete string         `json:"athlete"`
	Goal    string         `json:"goal"`
	Blocks  []blockPayload `json:"blocks"`
}

type feedbackRequestPayload struct {
	WorkoutID string  `json:"workoutId"`
	Status    string  `json:"status"`
	Pain      float64 `json:"pain"`
	RPE       float64 `json:"rpe"`
	Comment   string  `json:"comment"`
}

type evaluationRequestPayload struct {
	Date        string  `json:"date"`
	Athlete     string  `json:"athlete"`
	Duration    float64 `json:"duration"`
	Attempts    float64 `json:"attempts"`
	Conclusions string  `json:"conclusions"`
	RPE         float64 `json:"rpe"`
	Technique   float64 `json:"technique"`
	Focus       float64 `json:"focus"`
	Confidence  float64 `json:"confidence"`
	Stress      float64 `json:"stress"`
	Motivation  float64 `json:"motivation"`
}

func (p evaluationRequestPayload) input() training.EvaluationInput {
	return training.EvaluationInput{
		Date:        p.Date,
		Athlete:     p.Athlete,
		Duration:    p.Duration,
		Attempts:    p.Attempts,
		Conclusions: p.Conclusions,
		RPE:         p.RPE,
		Technique:   p.Technique,
		Focus:       p.Focus,
		Confidence:  p.Confidence,
		Stress:      p.Stress,
		Motivation:  p.Motivation,
	}
}

func (p evaluationRequestPayload) metricsInput() metrics.Input {
	return metrics.Input{
		RPE:        p.RPE,
		Duration:   p.Duration,
		Technique:  p.Technique,
		Focus:      p.Focus,
		Confidence: p.Confidence,
		Stress:     p.Stress,
		Motivation: p.Motivation,
		Attempts:   p.Attempts,
	}
}

func (h *httpHandler) handleListWorkouts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"workouts": h.training.Workouts(c.Request.Context())})
}

func (h *httpHandler) handleGetWorkout(c *gin.Context) {
	workout, found := h.training.Workout(c.Request.Context(), c.Param("id"))
	if !found {
		writeError(c, http.StatusNotFound, "not_found", "Workout not found.")
		return
	}
	c.JSON(http.StatusOK, workout)
}

func (h *httpHandler) handleCreateWorkout(c *gin.Context) {
	var request workoutRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", "Request body must be a workout.")
		return
	}

	draft := h.training.NewDraft()
	for _, block := range request.Blocks {
		if _, err := draft.AddBlock(training.BlockInput{
			Category:       block.Category,
			Qty:            block.Qty,
			IntensityType:  block.IntensityType,
			IntensityValue: block.IntensityValue,
			Minutes:        block.Minutes,
			Notes:          block.Notes,
		}); err != nil {
			h.respondFailure(c, "add_block", err)
			return
		}
	}

	workout, err := h.training.SaveWorkout(c.Request.Context(), training.WorkoutHeader{
		Date:    request.Date,
		Athlete: request.Athlete,
		Goal:    request.Goal,
	}, draft)
	if err != nil {
		h.respondFailure(c, "save_workout", err)
		return
	}
	h.notices.Notify(noticeWorkoutSaved, notices.KindSuccess)
	c.JSON(http.StatusCreated, workout)
}

func (h *httpHandler) handleDeleteWorkout(c *gin.Context) {
	id := c.Param("id")
	removed, err := h.training.DeleteWorkout(c.Request.Context(), id)
	if err != nil {
		h.respondFailure(c, "delete_workout", err)
		return
	}
	if !removed {
		writeError(c, http.StatusNotFound, "not_found", "Workout not found.")
		return
	}
	h.logger.Info("workout removed", zap.String("workout_id", id))
	h.notices.Notify(noticeWorkoutRemoved, notices.KindSuccess)
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleListFeedbacks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"feedbacks": h.training.Feedbacks(c.Request.Context())})
}

func (h *httpHandler) handleSubmitFeedback(c *gin.Context) {
	var request feedbackRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", "Request body must be a feedback.")
		return
	}
	feedback, err := h.training.SubmitFeedback(c.Request.Context(), training.FeedbackInput{
		WorkoutID: request.WorkoutID,
		Status:    request.Status,
		Pain:      request.Pain,
		RPE:       request.RPE,
		Comment:   request.Comment,
	})
	if err != nil {
		h.respondFailure(c, "submit_feedback", err)
		return
	}
	h.notices.Notify(noticeFeedbackSent, notices.KindSuccess)
	c.JSON(http.StatusCreated, feedback)
}

func (h *httpHandler) handleListEvaluations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"evaluations": h.training.Evaluations(c.Request.Context())})
}

func (h *httpHandler) handleSaveEvaluation(c *gin.Context) {
	var request evaluationRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", "Request body must be an evaluation.")
		return
	}
	evaluation, err := h.training.SaveEvaluation(c.Request.Context(), request.input())
	if err != nil {
		h.respondFailure(c, "save_evaluation", err)
		return
	}
	h.notices.Notify(noticeEvaluationSave, notices.KindSuccess)
	c.JSON(http.StatusCreated, evaluation)
}

// handleMetricsPreview scores the form as typed. Nothing is validated or stored.
func (h *httpHandler) handleMetricsPreview(c *gin.Context) {
	var request evaluationRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", "Request body must be an evaluation.")
		return
	}
	c.JSON(http.StatusOK, metrics.Calculate(request.metricsInput()))
}
