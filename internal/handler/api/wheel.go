package api

import (
	"errors"
	"net/http"

	resdto "revqr-engine/internal/handler/dto/response"
	"revqr-engine/internal/handler/middleware"
	"revqr-engine/internal/pkg/errs"
	"revqr-engine/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WheelHandler struct {
	spinCommands commands.SpinCommands
}

func NewWheelHandler(spinCommands commands.SpinCommands) *WheelHandler {
	return &WheelHandler{spinCommands: spinCommands}
}

// @Summary Spin reward wheel
// @Description Resolve one server-authoritative wheel spin
// @Tags wheels
// @Produce json
// @Security BearerAuth
// @Param id path string true "Wheel ID"
// @Success 200 {object} resdto.SpinResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /wheels/{id}/spin [post]
func (h *WheelHandler) Spin(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	wheelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid wheel ID format",
		})
		return
	}

	result, err := h.spinCommands.SpinWheel(c.Request.Context(), wheelID, userID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNoActiveRewards):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Wheel has no active rewards",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromSpinResult(result))
}
