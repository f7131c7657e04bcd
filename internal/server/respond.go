package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/glr-works/glreport/internal/common"
)

const timeFormat = time.RFC3339Nano

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": errorBody{Code: code, Message: message}})
}

// handleRunError maps the pipeline error taxonomy onto HTTP statuses: input
// errors are the caller's to fix, service errors are surfaced verbatim as an
// upstream failure, everything else is internal.
func handleRunError(c *gin.Context, err error) {
	var appErr *common.AppError
	code := "RUN_FAILED"
	if errors.As(err, &appErr) {
		code = appErr.Code
	}

	switch {
	case common.IsInputError(err):
		respondError(c, http.StatusUnprocessableEntity, code, err.Error())
	case common.IsServiceError(err):
		respondError(c, http.StatusBadGateway, code, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, code, err.Error())
	}
}
