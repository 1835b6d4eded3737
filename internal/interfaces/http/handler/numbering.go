package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/logiport/backend/internal/domain/trade"
)

// NumberingService allocates transaction numbers
type NumberingService interface {
	NextNumber(ctx context.Context) (string, error)
	SyncCounter(ctx context.Context) (int64, error)
	ObserveNumber(ctx context.Context, transactionNo string) (bool, error)
}

// NumberingHandler handles transaction numbering endpoints
type NumberingHandler struct {
	BaseHandler
	service NumberingService
}

// NewNumberingHandler creates a new NumberingHandler
func NewNumberingHandler(service NumberingService) *NumberingHandler {
	return &NumberingHandler{service: service}
}

// NextNumberResponse carries an allocated transaction number
// @name HandlerNextNumberResponse
type NextNumberResponse struct {
	TransactionNo string `json:"transaction_no" example:"260007"`
	// Fallback is set when the store was unavailable and a timestamp number was issued
	Fallback bool `json:"fallback" example:"false"`
}

// SyncCounterResponse carries the resynchronized counter
// @name HandlerSyncCounterResponse
type SyncCounterResponse struct {
	LastNumber int64 `json:"last_number" example:"260006"`
}

// ObserveNumberRequest reports a manually entered transaction number
type ObserveNumberRequest struct {
	TransactionNo string `json:"transaction_no" binding:"required,max=64" example:"260120"`
}

// ObserveNumberResponse tells whether the counter moved
// @name HandlerObserveNumberResponse
type ObserveNumberResponse struct {
	TransactionNo string `json:"transaction_no" example:"260120"`
	Auto          bool   `json:"auto" example:"true"`
	Raised        bool   `json:"raised" example:"true"`
}

// NextNumber godoc
// @ID           nextTransactionNumber
// @Summary      Allocate the next transaction number
// @Description  Returns the next free automatic number and advances the counter.
// @Description  When the store is unavailable a timestamp number T{YYYYMMDDHHMMSS}-{suffix} is returned.
// @Tags         numbering
// @Produce      json
// @Success      200 {object} APIResponse[NextNumberResponse]
// @Router       /numbering/next [post]
func (h *NumberingHandler) NextNumber(c *gin.Context) {
	no, err := h.service.NextNumber(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, NextNumberResponse{
		TransactionNo: no,
		Fallback:      !trade.IsAutoNumber(no),
	})
}

// SyncCounter godoc
// @ID           syncTransactionCounter
// @Summary      Resynchronize the transaction counter
// @Description  Sets the counter to the highest automatic number in use; called after deleting transactions
// @Tags         numbering
// @Produce      json
// @Success      200 {object} APIResponse[SyncCounterResponse]
// @Failure      500 {object} ErrorResponse
// @Router       /numbering/sync [post]
func (h *NumberingHandler) SyncCounter(c *gin.Context) {
	last, err := h.service.SyncCounter(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, SyncCounterResponse{LastNumber: last})
}

// ObserveNumber godoc
// @ID           observeTransactionNumber
// @Summary      Record a manually entered transaction number
// @Description  Raises the counter to the numeric part of the number when it is larger
// @Tags         numbering
// @Accept       json
// @Produce      json
// @Param        request body ObserveNumberRequest true "Saved transaction number"
// @Success      200 {object} APIResponse[ObserveNumberResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /numbering/observe [post]
func (h *NumberingHandler) ObserveNumber(c *gin.Context) {
	var req ObserveNumberRequest
	if !h.BindJSON(c, &req) {
		return
	}

	raised, err := h.service.ObserveNumber(c.Request.Context(), req.TransactionNo)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ObserveNumberResponse{
		TransactionNo: req.TransactionNo,
		Auto:          trade.IsAutoNumber(req.TransactionNo),
		Raised:        raised,
	})
}
