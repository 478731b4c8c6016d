package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tourhub/tourhub-api/pkg/apperror"
	"github.com/tourhub/tourhub-api/pkg/response"
)

// respondErr classifies the error and writes the envelope. How much detail
// crosses the boundary is the renderer's call, not the handler's.
func respondErr(c *gin.Context, r apperror.Renderer, err error) {
	status, msg, detail := r.Render(err)
	response.Error[any](c, status, msg, detail)
}
