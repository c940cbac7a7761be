package models

type DealRequest struct {
	BetCents int64 `json:"bet_cents" binding:"required,min=1"`
}

type ActionRequest struct {
	Action    string `json:"action" binding:"required"`
	HandIndex int    `json:"hand_index" binding:"min=0"`
}
