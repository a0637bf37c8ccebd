package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusFromGRPC maps a status error to an HTTP status, a stable code and a
// client-safe message. Non-status errors become 500 INTERNAL.
func StatusFromGRPC(err error) (int, string, string) {
	st, ok := status.FromError(err)
	if !ok {
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}

	switch st.Code() {
	case codes.InvalidArgument:
		return http.StatusBadRequest, "INVALID_ARGUMENT", st.Message()
	case codes.FailedPrecondition:
		return http.StatusBadRequest, "FAILED_PRECONDITION", st.Message()
	case codes.NotFound:
		return http.StatusNotFound, "NOT_FOUND", st.Message()
	case codes.Unauthenticated:
		return http.StatusUnauthorized, "UNAUTHENTICATED", st.Message()
	case codes.PermissionDenied:
		return http.StatusForbidden, "PERMISSION_DENIED", st.Message()
	case codes.Unavailable, codes.DeadlineExceeded:
		return http.StatusServiceUnavailable, "UNAVAILABLE", st.Message()
	default:
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}
}

func WriteError(c *gin.Context, err error) {
	httpStatus, code, msg := StatusFromGRPC(err)
	if httpStatus >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(httpStatus, gin.H{"error": ErrorBody{Code: code, Message: msg}})
}

// BadRequest reports a request that failed binding before reaching a service.
func BadRequest(c *gin.Context, err error) {
	WriteError(c, status.Error(codes.InvalidArgument, err.Error()))
}
