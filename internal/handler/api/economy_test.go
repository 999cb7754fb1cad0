//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"revqr-engine/internal/domain/purchase"
	"revqr-engine/internal/domain/wheel"
	"revqr-engine/internal/handler/api"
	"revqr-engine/internal/pkg/errs"
	"revqr-engine/internal/usecase/commands"
	"revqr-engine/internal/usecase/queries"
	"revqr-engine/tests/common/builder"
	"revqr-engine/tests/common/httptest"
	commandsmock "revqr-engine/tests/mock/commands"
	queriesmock "revqr-engine/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type EconomyHandlerTestSuite struct {
	suite.Suite
	router               *gin.Engine
	mockCtrl             *gomock.Controller
	mockQuoteQueries     *queriesmock.MockQuoteQueries
	mockPurchaseCommands *commandsmock.MockPurchaseCommands
	mockSpinCommands     *commandsmock.MockSpinCommands
}

func (s *EconomyHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQuoteQueries = queriesmock.NewMockQuoteQueries(s.mockCtrl)
	s.mockPurchaseCommands = commandsmock.NewMockPurchaseCommands(s.mockCtrl)
	s.mockSpinCommands = commandsmock.NewMockSpinCommands(s.mockCtrl)

	storeHandler := api.NewStoreHandler(s.mockQuoteQueries, s.mockPurchaseCommands)
	redemptionHandler := api.NewRedemptionHandler(s.mockPurchaseCommands)
	wheelHandler := api.NewWheelHandler(s.mockSpinCommands)

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		c.Set("user_id", uuid.New())
		c.Next()
	}

	s.router.GET("/api/items/:id/quote", storeHandler.Quote)
	s.router.POST("/api/items/:id/purchase", authMiddleware, storeHandler.Purchase)
	s.router.POST("/api/redemptions", authMiddleware, redemptionHandler.Redeem)
	s.router.POST("/api/wheels/:id/spin", authMiddleware, wheelHandler.Spin)
}

func (s *EconomyHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestEconomyHandlerSuite(t *testing.T) {
	suite.Run(t, new(EconomyHandlerTestSuite))
}

func (s *EconomyHandlerTestSuite) pendingPurchase() *purchase.Purchase {
	p, err := builder.NewPurchaseBuilder().BuildDomain()
	s.Require().NoError(err)
	return p
}

// ================================================================================
// Quote
// ================================================================================

func (s *EconomyHandlerTestSuite) TestQuote() {
	itemID := uuid.New()
	url := "/api/items/" + itemID.String() + "/quote"

	s.Run("success: returns the price breakdown", func() {
		view := &queries.QuoteView{
			ItemID:            itemID,
			ItemName:          "Free Coffee",
			RegularPriceCents: 500,
			DiscountPct:       10,
			DiscountCents:     50,
			CoinCost:          500,
			BaseCost:          500,
		}
		s.mockQuoteQueries.EXPECT().QuotePrice(gomock.Any(), itemID).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(itemID.String(), body["item_id"])
		s.Equal(float64(500), body["qr_coin_cost"])
		s.Equal(float64(50), body["discount_cents"])
	})

	s.Run("error: 404 for unknown item", func() {
		s.mockQuoteQueries.EXPECT().QuotePrice(gomock.Any(), itemID).Return(nil, errs.ErrItemNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Item not found")
	})

	s.Run("error: 400 for malformed item id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/items/not-a-uuid/quote", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid item ID")
	})

	s.Run("error: 422 for unquotable item", func() {
		s.mockQuoteQueries.EXPECT().QuotePrice(gomock.Any(), itemID).Return(nil, errs.ErrInvalidInput)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "")
	})
}

// ================================================================================
// Purchase
// ================================================================================

func (s *EconomyHandlerTestSuite) TestPurchase() {
	itemID := uuid.New()
	url := "/api/items/" + itemID.String() + "/purchase"

	s.Run("success: returns 201 with the purchase code", func() {
		p := s.pendingPurchase()
		s.mockPurchaseCommands.EXPECT().PurchaseItem(gomock.Any(), itemID, gomock.Any()).Return(p, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(p.Code().String(), body["purchase_code"])
		s.Equal("pending", body["status"])
	})

	s.Run("error: 401 without a token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	cases := []struct {
		name       string
		returnErr  error
		expectCode int
	}{
		{name: "404 for unknown item", returnErr: errs.ErrItemNotFound, expectCode: http.StatusNotFound},
		{name: "409 for inactive item", returnErr: errs.ErrItemInactive, expectCode: http.StatusConflict},
		{name: "409 when the per-user cap is reached", returnErr: errs.ErrSoldOut, expectCode: http.StatusConflict},
		{name: "402 for insufficient balance", returnErr: errs.ErrInsufficientBalance, expectCode: http.StatusPaymentRequired},
		{name: "422 for unquotable item", returnErr: errs.ErrInvalidInput, expectCode: http.StatusUnprocessableEntity},
		{name: "500 for unexpected errors", returnErr: errs.ErrDatabaseOperationFailed, expectCode: http.StatusInternalServerError},
	}
	for _, c := range cases {
		s.Run("error: "+c.name, func() {
			s.mockPurchaseCommands.EXPECT().PurchaseItem(gomock.Any(), itemID, gomock.Any()).Return(nil, c.returnErr)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
			httptest.AssertErrorResponse(s.T(), rec, c.expectCode, "")
		})
	}
}

// ================================================================================
// Redeem
// ================================================================================

func (s *EconomyHandlerTestSuite) TestRedeem() {
	url := "/api/redemptions"

	s.Run("success: returns the redeemed purchase", func() {
		p := s.pendingPurchase()
		s.Require().NoError(p.Redeem(time.Now()))
		s.mockPurchaseCommands.EXPECT().RedeemCode(gomock.Any(), p.Code().String()).Return(p, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"code": p.Code().String()}, "bearer-token")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("redeemed", body["status"])
		s.NotEmpty(body["redeemed_at"])
	})

	s.Run("error: 400 without a code", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	cases := []struct {
		name       string
		returnErr  error
		expectCode int
	}{
		{name: "404 for unknown code", returnErr: errs.ErrPurchaseNotFound, expectCode: http.StatusNotFound},
		{name: "409 for already redeemed code", returnErr: errs.ErrAlreadyRedeemed, expectCode: http.StatusConflict},
		{name: "410 for expired code", returnErr: errs.ErrPurchaseExpired, expectCode: http.StatusGone},
	}
	for _, c := range cases {
		s.Run("error: "+c.name, func() {
			s.mockPurchaseCommands.EXPECT().RedeemCode(gomock.Any(), gomock.Any()).Return(nil, c.returnErr)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
				map[string]any{"code": "AAAAAAAAAAAAAAAAAAAA"}, "bearer-token")
			httptest.AssertErrorResponse(s.T(), rec, c.expectCode, "")
		})
	}
}

// ================================================================================
// Spin
// ================================================================================

func (s *EconomyHandlerTestSuite) TestSpin() {
	wheelID := uuid.New()
	url := "/api/wheels/" + wheelID.String() + "/spin"

	s.Run("success: returns the resolved reward", func() {
		reward, err := wheel.NewReward(uuid.New(), wheelID, "free drink", 3, true)
		s.Require().NoError(err)
		draw := wheel.NewSpinDraw(wheelID, uuid.New(), wheel.Outcome{Reward: reward, DrawValue: 0.3}, time.Now())

		s.mockSpinCommands.EXPECT().SpinWheel(gomock.Any(), wheelID, gomock.Any()).
			Return(&commands.SpinResult{Draw: draw, Reward: reward}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("free drink", body["reward_name"])
		s.Equal(false, body["nothing"])
	})

	s.Run("success: nothing outcome omits the reward", func() {
		draw := wheel.NewSpinDraw(wheelID, uuid.New(), wheel.Outcome{Nothing: true, DrawValue: 0.95}, time.Now())

		s.mockSpinCommands.EXPECT().SpinWheel(gomock.Any(), wheelID, gomock.Any()).
			Return(&commands.SpinResult{Draw: draw, Nothing: true}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(true, body["nothing"])
		s.NotContains(body, "reward_id")
	})

	s.Run("error: 400 for malformed wheel id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/wheels/nope/spin", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid wheel ID")
	})

	s.Run("error: 409 for an empty wheel", func() {
		s.mockSpinCommands.EXPECT().SpinWheel(gomock.Any(), wheelID, gomock.Any()).
			Return(nil, errs.ErrNoActiveRewards)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "no active rewards")
	})
}
