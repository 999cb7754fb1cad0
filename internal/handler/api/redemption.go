package api

import (
	"errors"
	"net/http"

	reqdto "revqr-engine/internal/handler/dto/request"
	resdto "revqr-engine/internal/handler/dto/response"
	"revqr-engine/internal/pkg/errs"
	"revqr-engine/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type RedemptionHandler struct {
	purchaseCommands commands.PurchaseCommands
}

func NewRedemptionHandler(purchaseCommands commands.PurchaseCommands) *RedemptionHandler {
	return &RedemptionHandler{purchaseCommands: purchaseCommands}
}

// @Summary Redeem purchase code
// @Description Validate an operator-presented code and mark the purchase redeemed
// @Tags redemptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.RedeemRequest true "Redemption request"
// @Success 200 {object} resdto.PurchaseResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Router /redemptions [post]
func (h *RedemptionHandler) Redeem(c *gin.Context) {
	var req reqdto.RedeemRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	p, err := h.purchaseCommands.RedeemCode(c.Request.Context(), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrPurchaseNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Purchase code not found",
			})
		case errors.Is(err, errs.ErrAlreadyRedeemed):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Purchase code already redeemed",
			})
		case errors.Is(err, errs.ErrPurchaseExpired):
			c.JSON(http.StatusGone, gin.H{
				"error": "Purchase code expired",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromPurchase(p))
}
