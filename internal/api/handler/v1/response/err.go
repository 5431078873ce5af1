package response

import (
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Err struct {
	StatusCode int    `json:"-"`
	Msg        string `json:"error"`
}

func (e *Err) Error() string {
	return e.Msg
}

func NewErr(statusCode int, err error) *Err {
	return &Err{
		StatusCode: statusCode,
		Msg:        err.Error(),
	}
}

func ErrBadRequest(err error) *Err {
	return NewErr(http.StatusBadRequest, err)
}

func ErrUnauthorized(err error) *Err {
	return NewErr(http.StatusUnauthorized, err)
}

func ErrForbidden(err error) *Err {
	return NewErr(http.StatusForbidden, err)
}

func ErrNotFound(err error) *Err {
	return NewErr(http.StatusNotFound, err)
}

func ErrConflict(err error) *Err {
	return NewErr(http.StatusConflict, err)
}

func ErrBadGateway(err error) *Err {
	return NewErr(http.StatusBadGateway, err)
}

func ErrInternalServerError(err error) *Err {
	return NewErr(http.StatusInternalServerError, err)
}

// RenderErr writes the error response. Internal errors are logged with the
// request ID and masked so internals never leak to callers.
func RenderErr(ctx *gin.Context, err *Err) {
	if err.StatusCode == http.StatusInternalServerError {
		zap.L().Error("internal server error",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("error", err.Msg),
		)

		err.Msg = "something went wrong"
	}

	ctx.AbortWithStatusJSON(err.StatusCode, err)
}
