package dto

type RecordDonationRequest struct {
	NGOID   int64   `json:"ngo_id" binding:"required"`
	Amount  float64 `json:"amount" binding:"required,gt=0"`
	Message string  `json:"message"`
}
