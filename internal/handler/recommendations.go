package handler

import (
	"context"
	"net/http"
	"strconv"

	"recommendations/internal/apierror"
	"recommendations/internal/dto"
	"recommendations/internal/service"

	"github.com/gin-gonic/gin"
)

type RecommendationsHandler struct {
	svc      service.RecommendationService
	maxLimit int
}

// NewRecommendationsHandler builds the handler. maxLimit bounds the list
// page size; zero leaves it unbounded.
func NewRecommendationsHandler(svc service.RecommendationService, maxLimit int) *RecommendationsHandler {
	return &RecommendationsHandler{svc: svc, maxLimit: maxLimit}
}

// Create godoc
// @Summary Create a recommendation
// @Tags recommendations
// @Accept json
// @Produce json
// @Param body body object true "product_id, recommended_id, recommendation_type, status, like, dislike"
// @Success 201 {object} dto.RecommendationResponse
// @Failure 400 {object} apierror.APIError
// @Failure 415 {object} apierror.APIError
// @Router /recommendations [post]
func (h *RecommendationsHandler) Create(c *gin.Context) {
	if !requireJSON(c) {
		return
	}
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", "/recommendations/"+strconv.FormatInt(resp.ID, 10))
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary List recommendations
// @Description Equality filters are ANDed. Pagination applies only when page or limit is given.
// @Tags recommendations
// @Produce json
// @Param product_id query int false "Product id"
// @Param recommended_id query int false "Recommended product id"
// @Param recommendation_type query string false "cross-sell, up-sell or accessory"
// @Param status query string false "active, expired or draft"
// @Param created_at_min query string false "RFC 3339 timestamp or YYYY-MM-DD"
// @Param created_at_max query string false "RFC 3339 timestamp or YYYY-MM-DD (a date includes that whole day)"
// @Param sort_by query string false "created_at, product_id, recommended_id or last_updated"
// @Param order query string false "asc or desc"
// @Param page query int false "1-based page"
// @Param limit query int false "Page size"
// @Success 200 {array} dto.RecommendationResponse
// @Failure 400 {object} apierror.APIError
// @Router /recommendations [get]
func (h *RecommendationsHandler) List(c *gin.Context) {
	var q dto.RecommendationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(http.StatusBadRequest, "Invalid page or limit: must be a positive integer"))
		return
	}
	filter, err := q.ToFilter(h.maxLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Read a recommendation
// @Tags recommendations
// @Produce json
// @Param id path int true "Recommendation id"
// @Success 200 {object} dto.RecommendationResponse
// @Failure 404 {object} apierror.APIError
// @Router /recommendations/{id} [get]
func (h *RecommendationsHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary Replace a recommendation
// @Description All business fields are required. Sending last_updated makes the write conditional on it.
// @Tags recommendations
// @Accept json
// @Produce json
// @Param id path int true "Recommendation id"
// @Param body body object true "Full recommendation"
// @Success 200 {object} dto.RecommendationResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Failure 415 {object} apierror.APIError
// @Router /recommendations/{id} [put]
func (h *RecommendationsHandler) Update(c *gin.Context) {
	h.write(c, h.svc.Update)
}

// Patch godoc
// @Summary Partially update a recommendation
// @Tags recommendations
// @Accept json
// @Produce json
// @Param id path int true "Recommendation id"
// @Param body body object true "Fields to change"
// @Success 200 {object} dto.RecommendationResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Failure 415 {object} apierror.APIError
// @Router /recommendations/{id} [patch]
func (h *RecommendationsHandler) Patch(c *gin.Context) {
	h.write(c, h.svc.Patch)
}

// Like godoc
// @Summary Like a recommendation
// @Tags recommendations
// @Produce json
// @Param id path int true "Recommendation id"
// @Success 200 {object} dto.RecommendationResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /recommendations/{id}/like [put]
func (h *RecommendationsHandler) Like(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Like(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary Delete a recommendation
// @Description Deleting a missing id also answers 204.
// @Tags recommendations
// @Param id path int true "Recommendation id"
// @Success 204
// @Failure 500 {object} apierror.APIError
// @Router /recommendations/{id} [delete]
func (h *RecommendationsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type writeFunc func(ctx context.Context, id int64, payload any) (dto.RecommendationResponse, error)

func (h *RecommendationsHandler) write(c *gin.Context, fn writeFunc) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if !requireJSON(c) {
		return
	}
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	resp, err := fn(c.Request.Context(), id, payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
