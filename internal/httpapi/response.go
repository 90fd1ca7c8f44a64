package httpapi

import (
	"net/http"

	e "coursebook/internal/errors"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, em e.ErrorMessage, err error) {
	msg := em.Message
	if err != nil {
		msg = err.Error()
	}
	c.JSON(em.Status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    em.Code,
		},
	})
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
