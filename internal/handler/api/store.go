package api

import (
	"errors"
	"net/http"

	resdto "revqr-engine/internal/handler/dto/response"
	"revqr-engine/internal/handler/middleware"
	"revqr-engine/internal/pkg/errs"
	"revqr-engine/internal/usecase/commands"
	"revqr-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StoreHandler struct {
	quoteQueries     queries.QuoteQueries
	purchaseCommands commands.PurchaseCommands
}

func NewStoreHandler(quoteQueries queries.QuoteQueries, purchaseCommands commands.PurchaseCommands) *StoreHandler {
	return &StoreHandler{
		quoteQueries:     quoteQueries,
		purchaseCommands: purchaseCommands,
	}
}

// @Summary Quote item price
// @Description Get the current QR-coin cost of an item with a full breakdown
// @Tags items
// @Produce json
// @Param id path string true "Store item ID"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /items/{id}/quote [get]
func (h *StoreHandler) Quote(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID format",
		})
		return
	}

	view, err := h.quoteQueries.QuotePrice(c.Request.Context(), itemID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Item not found",
			})
		case errors.Is(err, errs.ErrInvalidInput):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Item price or discount is invalid",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromQuoteView(view))
}

// @Summary Purchase item
// @Description Debit the user's wallet and create a pending purchase
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param id path string true "Store item ID"
// @Success 201 {object} resdto.PurchaseResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 402 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /items/{id}/purchase [post]
func (h *StoreHandler) Purchase(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID format",
		})
		return
	}

	p, err := h.purchaseCommands.PurchaseItem(c.Request.Context(), itemID, userID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Item not found",
			})
		case errors.Is(err, errs.ErrItemInactive):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Item is not active",
			})
		case errors.Is(err, errs.ErrSoldOut):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Purchase limit reached for this item",
			})
		case errors.Is(err, errs.ErrInsufficientBalance):
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error": "Insufficient QR coin balance",
			})
		case errors.Is(err, errs.ErrInvalidInput):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Item price or discount is invalid",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromPurchase(p))
}
