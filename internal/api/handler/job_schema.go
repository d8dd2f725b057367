package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type createJobRequest struct {
	PaymentType string   `json:"payment_type" validate:"required,oneof=WEEKLY ONE_OFF"`
	Title       string   `json:"title"        validate:"required,max=140"`
	Description string   `json:"description"  validate:"max=8192"`
	Tags        []string `json:"tags"         validate:"max=16,dive,max=32"`
}

// updateJobRequest drives both lifecycle transitions: a non-empty
// employee_address requests assignment, finish=true requests completion.
type updateJobRequest struct {
	EmployeeAddress string `json:"employee_address,omitempty"`
	Finish          bool   `json:"finish,omitempty"`
}

type jobResponse struct {
	ID              string    `json:"id"`
	PaymentType     string    `json:"payment_type"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Tags            []string  `json:"tags"`
	EmployerAddress string    `json:"employer_address"`
	WorkerAddress   string    `json:"worker_address,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listJobsResponse struct {
	Data       []jobResponse      `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
