package request

type RedeemRequest struct {
	Code string `json:"code" binding:"required"`
}
