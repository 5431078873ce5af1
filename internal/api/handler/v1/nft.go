package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/attendly/attendance-api/internal/api/handler/v1/response"
	"github.com/attendly/attendance-api/internal/api/middleware"
	"github.com/attendly/attendance-api/internal/domain"
	"github.com/attendly/attendance-api/internal/pkg/nftmeta"
	"github.com/attendly/attendance-api/internal/service"
)

type NFTService interface {
	GetUserClaims(ctx context.Context, userID uint) ([]domain.Claim, error)
	GetClaim(ctx context.Context, id uint) (domain.Claim, error)
	GetTokenMetadata(ctx context.Context, tokenID string) (nftmeta.Document, error)
}

type NFTHandler struct {
	svc NFTService
}

func NewNFTHandler(svc NFTService) *NFTHandler {
	return &NFTHandler{
		svc: svc,
	}
}

// HandleGetUserNFTs godoc
// @Summary      List the authenticated user's attendance NFTs
// @Tags         nfts
// @Produce      json
// @Success      200      {object}   response.NFTListResponse
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /nfts [get]
func (h *NFTHandler) HandleGetUserNFTs(ctx *gin.Context) {
	userID := middleware.UserIDFromContext(ctx)
	if userID == 0 {
		response.RenderErr(ctx, response.ErrUnauthorized(service.ErrMissingUser))
		return
	}

	claims, err := h.svc.GetUserClaims(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetUserNFTs -> h.svc.GetUserClaims -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewNFTListResponse(claims))
}

// HandleGetNFT godoc
// @Summary      Get one attendance NFT by ID
// @Tags         nfts
// @Produce      json
// @Param        nftID    path       int  true  "NFT ID"
// @Success      200      {object}   response.NFT
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /nfts/{nftID} [get]
func (h *NFTHandler) HandleGetNFT(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("nftID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid NFT ID")))
		return
	}

	claim, err := h.svc.GetClaim(ctx.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrClaimNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrClaimNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleGetNFT -> h.svc.GetClaim -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	// Claims are visible only to their owner; anything else reads as absent.
	if claim.UserID != middleware.UserIDFromContext(ctx) {
		response.RenderErr(ctx, response.ErrNotFound(service.ErrClaimNotFound))
		return
	}

	ctx.JSON(http.StatusOK, response.NewNFT(claim))
}

// HandleGetTokenMetadata godoc
// @Summary      Public ERC-721 metadata for a token (wallets, marketplaces)
// @Tags         nfts
// @Produce      json
// @Param        tokenID  path       string  true  "Token ID"
// @Success      200      {object}   nftmeta.Document
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /nft/metadata/{tokenID} [get]
func (h *NFTHandler) HandleGetTokenMetadata(ctx *gin.Context) {
	doc, err := h.svc.GetTokenMetadata(ctx.Request.Context(), ctx.Param("tokenID"))
	if err != nil {
		if errors.Is(err, service.ErrClaimNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrClaimNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleGetTokenMetadata -> h.svc.GetTokenMetadata -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, doc)
}
