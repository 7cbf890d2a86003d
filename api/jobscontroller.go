package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clipsmith/editor"
	"clipsmith/jobstore"
	"clipsmith/types"
)

// RegisterJobRoutes registers edit-job endpoints.
func RegisterJobRoutes(r *gin.Engine, deps Deps) {
	g := r.Group("/api/jobs")
	g.POST("", func(c *gin.Context) { handleSubmitJob(c, deps) })
	g.GET("/:id", func(c *gin.Context) { handleGetJob(c, deps) })
}

// SubmitJobResponse acknowledges an accepted edit job.
type SubmitJobResponse struct {
	JobID   string `json:"job_id"`
	Message string `json:"message"`
}

// handleSubmitJob accepts a job record and runs the pipeline asynchronously.
// POST /api/jobs
func handleSubmitJob(c *gin.Context, deps Deps) {
	var job types.Job
	if err := c.ShouldBindJSON(&job); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if job.SourceVideoKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source_video_key is required"})
		return
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	job.Status = types.JobStatusPending

	if err := deps.Store.Save(c.Request.Context(), job); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist job: " + err.Error()})
		return
	}

	// Pipeline runs detached from the request; progress is visible via the
	// job record.
	go func(job types.Job) {
		updated, err := deps.Processor.ProcessJob(context.Background(), job)
		if err != nil && !errors.Is(err, editor.ErrNoSourceVideo) {
			log.Printf("job %s failed: %v", job.ID, err)
		}
		if err := deps.Store.Save(context.Background(), updated); err != nil {
			log.Printf("failed to persist job %s: %v", job.ID, err)
		}
	}(job)

	c.JSON(http.StatusAccepted, SubmitJobResponse{
		JobID:   job.ID,
		Message: "edit job accepted",
	})
}

// handleGetJob returns the stored job record.
// GET /api/jobs/:id
func handleGetJob(c *gin.Context, deps Deps) {
	job, err := deps.Store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, jobstore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, job)
}
