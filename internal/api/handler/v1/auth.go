package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/attendly/attendance-api/internal/api/handler/v1/request"
	"github.com/attendly/attendance-api/internal/api/handler/v1/response"
	"github.com/attendly/attendance-api/internal/config"
	"github.com/attendly/attendance-api/internal/domain"
	"github.com/attendly/attendance-api/internal/pkg/jwthelper"
	"github.com/attendly/attendance-api/internal/service"
)

type AuthService interface {
	Login(ctx context.Context, didToken string) (domain.User, error)
	ProvisionUser(ctx context.Context, email, walletAddress string) (domain.User, error)
}

type AuthHandler struct {
	conf *config.APIConfig
	svc  AuthService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService) *AuthHandler {
	return &AuthHandler{
		conf: conf,
		svc:  svc,
	}
}

// HandleLogin godoc
// @Summary      Exchange a DID token for a session token
// @Tags         auth
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	var req request.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.Login(ctx.Request.Context(), req.DIDToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLoginToken) {
			response.RenderErr(ctx, response.ErrUnauthorized(service.ErrInvalidLoginToken))
			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if req.WalletAddress != "" {
		user, err = h.svc.ProvisionUser(ctx.Request.Context(), user.Email, req.WalletAddress)
		if err != nil {
			err = fmt.Errorf("v1.HandleLogin -> h.svc.ProvisionUser -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}
	}

	token, err := jwthelper.CreateToken([]byte(h.conf.JWTSigningKey), user.ID, user.Role)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.CreateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token: token,
		User:  user,
	})
}
