package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"ldb/src/app/http/dto"
	"ldb/src/app/http/response"
	"ldb/src/app/middleware"
	"ldb/src/core/usecase"
)

// QueryHandler handles statement execution and generation.
type QueryHandler struct {
	queryService *usecase.QueryService
}

func NewQueryHandler(queryService *usecase.QueryService) *QueryHandler {
	return &QueryHandler{queryService: queryService}
}

// Execute runs one statement, or an array of statements as a transaction.
// A single statement answers with its result, an array with the list of
// results.
// POST /v1/execute
func (h *QueryHandler) Execute(c *gin.Context) {
	var req dto.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload: "+err.Error(), middleware.GetRequestID(c))
		return
	}

	c.Set(middleware.StatementCountKey, len(req.Statements.Statements()))

	results, err := h.queryService.Execute(c.Request.Context(), req.ToInput())
	if err != nil {
		// Attach error for middleware logging
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}

	if !req.Statements.IsSequence() && len(results) == 1 {
		response.OK(c, results[0])
		return
	}
	response.OK(c, results)
}

// Insert builds an INSERT statement.
// POST /v1/statements/insert
func (h *QueryHandler) Insert(c *gin.Context) {
	h.build(c, h.queryService.BuildInsert)
}

// Update builds an UPDATE statement.
// POST /v1/statements/update
func (h *QueryHandler) Update(c *gin.Context) {
	h.build(c, h.queryService.BuildUpdate)
}

type buildFunc func(ctx context.Context, in usecase.BuildInput) (*usecase.BuildOutput, error)

func (h *QueryHandler) build(c *gin.Context, fn buildFunc) {
	var req dto.BuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload: "+err.Error(), middleware.GetRequestID(c))
		return
	}

	out, err := fn(c.Request.Context(), req.ToInput())
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}

	response.OK(c, dto.StatementResponse{}.FromOutput(out))
}
