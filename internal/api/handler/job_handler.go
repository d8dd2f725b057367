package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/chainlance/marketplace-api/internal/api/metrics"
	"github.com/chainlance/marketplace-api/internal/core/domain"
	"github.com/chainlance/marketplace-api/internal/core/ports"
)

// JobHandler handles HTTP requests for the job lifecycle.
type JobHandler struct {
	service ports.JobService
}

func NewJobHandler(service ports.JobService) *JobHandler {
	return &JobHandler{service: service}
}

// Create handles POST /jobs. Employer-only (enforced by route middleware).
//
// @Summary      Post a new job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createJobRequest  true  "Job details"
// @Success      201   {object}  jobResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /jobs [post]
func (h *JobHandler) Create(c echo.Context) error {
	var req createJobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	wallet, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	job, err := h.service.Create(c.Request().Context(), ports.CreateJobInput{
		Employer:    wallet,
		PaymentType: domain.PaymentType(req.PaymentType),
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		return err
	}

	metrics.JobTransitionsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, toJobResponse(job))
}

// Update handles PUT /jobs/:id. A non-empty employee_address triggers the
// assignment transition; finish=true triggers completion. Illegal transitions
// return 409, wrong-owner calls 403.
//
// @Summary      Assign or finish a job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Job id"
// @Param        body  body      updateJobRequest  true  "Transition request"
// @Success      200   {object}  jobResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /jobs/{id} [put]
func (h *JobHandler) Update(c echo.Context) error {
	var req updateJobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	wallet, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	jobID := c.Param("id")

	switch {
	case req.EmployeeAddress != "":
		job, err := h.service.Assign(c.Request().Context(), jobID, req.EmployeeAddress, wallet)
		if err != nil {
			return err
		}
		metrics.JobTransitionsTotal.WithLabelValues("assign").Inc()
		return c.JSON(http.StatusOK, toJobResponse(job))

	case req.Finish:
		job, err := h.service.Finish(c.Request().Context(), jobID, wallet)
		if err != nil {
			return err
		}
		metrics.JobTransitionsTotal.WithLabelValues("finish").Inc()
		return c.JSON(http.StatusOK, toJobResponse(job))

	default:
		return echo.NewHTTPError(http.StatusBadRequest, "either employee_address or finish must be set")
	}
}

// Get handles GET /jobs/:id. Public read.
//
// @Summary      Get a job
// @Tags         jobs
// @Produce      json
// @Param        id  path      string  true  "Job id"
// @Success      200 {object}  jobResponse
// @Failure      404 {object}  errorResponse
// @Router       /jobs/{id} [get]
func (h *JobHandler) Get(c echo.Context) error {
	job, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toJobResponse(job))
}

// List handles GET /jobs. Public marketplace listing.
//
// @Summary      List jobs
// @Tags         jobs
// @Produce      json
// @Param        status  query     string  false  "Filter by status"
// @Param        tag     query     string  false  "Filter by tag"
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  listJobsResponse
// @Router       /jobs [get]
func (h *JobHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), ports.ListJobsFilter{
		Status: c.QueryParam("status"),
		Tag:    c.QueryParam("tag"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return err
	}

	items := make([]jobResponse, len(result.Items))
	for i, job := range result.Items {
		items[i] = toJobResponse(job)
	}

	return c.JSON(http.StatusOK, listJobsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

func toJobResponse(job *domain.Job) jobResponse {
	tags := job.Tags
	if tags == nil {
		tags = []string{}
	}
	return jobResponse{
		ID:              job.ID,
		PaymentType:     string(job.PaymentType),
		Title:           job.Title,
		Description:     job.Description,
		Tags:            tags,
		EmployerAddress: job.EmployerAddress,
		WorkerAddress:   job.WorkerAddress,
		Status:          string(job.Status),
		CreatedAt:       job.CreatedAt.UTC(),
	}
}
