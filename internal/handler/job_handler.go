package handler

import (
	"net/http"
	"strconv"

	"jobpilot-service/internal/apperror"
	"jobpilot-service/internal/dto"
	"jobpilot-service/internal/jobquery"
	"jobpilot-service/internal/middleware"
	"jobpilot-service/internal/service"
	"jobpilot-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type JobHandler struct {
	jobs *service.JobService
}

func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// Create handles POST /api/jobs
func (h *JobHandler) Create(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: "Not authorized, no token."})
	}

	var req dto.JobRequest
	if err := c.Bind(&req); err != nil {
		logger.FromEcho(c).Warn("Failed to parse job request", zap.Error(err))
		return badRequest(c, "Invalid job data.")
	}

	resp, err := h.jobs.Create(c.Request().Context(), user.ID, &req)
	if err != nil {
		return respondError(c, err, "Server error while posting job.")
	}
	return c.JSON(http.StatusCreated, resp)
}

// ListMine handles GET /api/jobs/my-jobs
func (h *JobHandler) ListMine(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: "Not authorized, no token."})
	}

	q := jobquery.Parse(user.ID, c.QueryParams())
	resp, err := h.jobs.List(c.Request().Context(), q)
	if err != nil {
		return respondError(c, err, "Server error while fetching your jobs.")
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/jobs/:id; it is public
func (h *JobHandler) Get(c echo.Context) error {
	id, ok := jobID(c)
	if !ok {
		return respondError(c, apperror.NotFound("Job not found."), "")
	}

	resp, err := h.jobs.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Server error while fetching job details.")
	}
	return c.JSON(http.StatusOK, resp)
}

// Update handles PUT /api/jobs/:id
func (h *JobHandler) Update(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: "Not authorized, no token."})
	}
	id, ok := jobID(c)
	if !ok {
		return respondError(c, apperror.NotFound("Job not found."), "")
	}

	var req dto.JobRequest
	if err := c.Bind(&req); err != nil {
		logger.FromEcho(c).Warn("Failed to parse job update", zap.Error(err))
		return badRequest(c, "Invalid job data.")
	}

	resp, err := h.jobs.Update(c.Request().Context(), user.ID, id, &req)
	if err != nil {
		return respondError(c, err, "Server error while updating job.")
	}
	return c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /api/jobs/:id
func (h *JobHandler) Delete(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: "Not authorized, no token."})
	}
	id, ok := jobID(c)
	if !ok {
		return respondError(c, apperror.NotFound("Job not found."), "")
	}

	if err := h.jobs.Delete(c.Request().Context(), user.ID, id); err != nil {
		return respondError(c, err, "Server error while deleting job.")
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Job deleted successfully."})
}

// jobID parses the :id path parameter. Ids that cannot name a job are
// reported by callers as not found.
func jobID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
