package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tonkonan/materrax/internal/models"
	"github.com/tonkonan/materrax/internal/service"
)

type LedgerHandler struct {
	ledgerService *service.LedgerService
	logger        *slog.Logger
}

func NewLedgerHandler(ledgerService *service.LedgerService, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

func (h *LedgerHandler) ListRequests(c *gin.Context) {
	requests, err := h.ledgerService.ListRequests(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "failed to fetch requests")
		return
	}

	c.JSON(http.StatusOK, requests)
}

func (h *LedgerHandler) CreateRequest(c *gin.Context) {
	identity, _ := CurrentIdentity(c)

	input := &models.CreateRequestInput{}
	if err := c.ShouldBindJSON(input); err != nil {
		h.logger.Debug("Malformed request body", "user_id", identity.ID, "error", err)
		if fieldErr := fieldTypeError(err); fieldErr != nil {
			h.rejectBody(c, h.ledgerService.AuthorizeRequest(identity), fieldErr)
			return
		}
		input = nil
	}

	request, err := h.ledgerService.CreateRequest(c.Request.Context(), identity, input)
	if err != nil {
		respondError(c, h.logger, err, "failed to create request")
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *LedgerHandler) ListOffers(c *gin.Context) {
	offers, err := h.ledgerService.ListOffers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "failed to fetch offers")
		return
	}

	c.JSON(http.StatusOK, offers)
}

func (h *LedgerHandler) CreateOffer(c *gin.Context) {
	identity, _ := CurrentIdentity(c)

	input := &models.CreateOfferInput{}
	if err := c.ShouldBindJSON(input); err != nil {
		h.logger.Debug("Malformed offer body", "user_id", identity.ID, "error", err)
		if fieldErr := fieldTypeError(err); fieldErr != nil {
			h.rejectBody(c, h.ledgerService.AuthorizeOffer(identity), fieldErr)
			return
		}
		input = nil
	}

	offer, err := h.ledgerService.CreateOffer(c.Request.Context(), identity, input)
	if err != nil {
		respondError(c, h.logger, err, "failed to create offer")
		return
	}

	c.JSON(http.StatusCreated, offer)
}

// rejectBody answers a body with a mistyped field. A role failure still takes
// precedence over the payload.
func (h *LedgerHandler) rejectBody(c *gin.Context, authErr, fieldErr error) {
	if authErr != nil {
		respondError(c, h.logger, authErr, "forbidden")
		return
	}
	respondError(c, h.logger, fieldErr, "invalid body")
}
