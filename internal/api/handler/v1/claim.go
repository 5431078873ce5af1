package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/attendly/attendance-api/internal/api/handler/v1/request"
	"github.com/attendly/attendance-api/internal/api/handler/v1/response"
	"github.com/attendly/attendance-api/internal/api/middleware"
	"github.com/attendly/attendance-api/internal/domain"
	"github.com/attendly/attendance-api/internal/service"
)

type ClaimService interface {
	ClaimAttendance(ctx context.Context, userID uint, claimCode string) (domain.ClaimResult, error)
}

type ClaimHandler struct {
	svc ClaimService
}

func NewClaimHandler(svc ClaimService) *ClaimHandler {
	return &ClaimHandler{
		svc: svc,
	}
}

// HandleClaimAttendance godoc
// @Summary      Redeem a claim code for an attendance NFT
// @Tags         nfts
// @Produce      json
// @Param        request   body      request.ClaimRequest true "request body"
// @Success      200      {object}   response.ClaimResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /nfts/claim [post]
func (h *ClaimHandler) HandleClaimAttendance(ctx *gin.Context) {
	var req request.ClaimRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	userID := middleware.UserIDFromContext(ctx)

	result, err := h.svc.ClaimAttendance(ctx.Request.Context(), userID, req.ClaimCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingUser):
			response.RenderErr(ctx, response.ErrUnauthorized(service.ErrMissingUser))
		case errors.Is(err, service.ErrInvalidClaimCode):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrInvalidClaimCode))
		case errors.Is(err, service.ErrEventInactive):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrEventInactive))
		case errors.Is(err, service.ErrAlreadyClaimed):
			response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyClaimed))
		case errors.Is(err, service.ErrSupplyExhausted):
			response.RenderErr(ctx, response.ErrConflict(service.ErrSupplyExhausted))
		case errors.Is(err, service.ErrMetadataPublish):
			response.RenderErr(ctx, response.ErrBadGateway(service.ErrMetadataPublish))
		default:
			err = fmt.Errorf("v1.HandleClaimAttendance -> h.svc.ClaimAttendance -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.NewClaimResponse(result))
}
