package http

import (
	"encoding/json"
	"net/http"

	"github.com/akshadgujarkar/fair-ticketing/internal/domain"
)

const (
	codeMethodNotAllowed       = "method_not_allowed"
	codeNotFound               = "not_found"
	codeInvalidRequestBody     = "invalid_request_body"
	codeInvalidID              = "invalid_id"
	codeInvalidQuantity        = "invalid_quantity"
	codeInvalidPrice           = "invalid_price"
	codeInvalidSupply          = "invalid_supply"
	codeInvalidWalletLimit     = "invalid_wallet_limit"
	codeInvalidSchedule        = "invalid_schedule"
	codeInvalidRoyalty         = "invalid_royalty"
	codeEventNameRequired      = "event_name_required"
	codeWalletRequired         = "wallet_required"
	codeEventNotFound          = "event_not_found"
	codeTicketNotFound         = "ticket_not_found"
	codeListingNotFound        = "listing_not_found"
	codeInsufficientSupply     = "insufficient_supply"
	codePurchaseLimitExceeded  = "purchase_limit_exceeded"
	codeResaleLocked           = "resale_locked"
	codePriceCapExceeded       = "price_cap_exceeded"
	codeNotOwner               = "not_owner"
	codeNotSeller              = "not_seller"
	codeSelfTrade              = "self_trade"
	codeInvalidState           = "invalid_state"
	codeTicketAlreadyUsed      = "ticket_already_used"
	codeConflict               = "conflict"
	codeForbidden              = "forbidden"
	codeInternalError          = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps service sentinels onto stable HTTP statuses and codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrInvalidQuantity:
		writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
	case domain.ErrInvalidPrice:
		writeError(w, http.StatusBadRequest, codeInvalidPrice, err.Error())
	case domain.ErrInvalidSupply:
		writeError(w, http.StatusBadRequest, codeInvalidSupply, err.Error())
	case domain.ErrInvalidWalletLimit:
		writeError(w, http.StatusBadRequest, codeInvalidWalletLimit, err.Error())
	case domain.ErrInvalidSchedule:
		writeError(w, http.StatusBadRequest, codeInvalidSchedule, err.Error())
	case domain.ErrInvalidRoyalty:
		writeError(w, http.StatusBadRequest, codeInvalidRoyalty, err.Error())
	case domain.ErrEventNameRequired:
		writeError(w, http.StatusBadRequest, codeEventNameRequired, err.Error())
	case domain.ErrWalletRequired:
		writeError(w, http.StatusBadRequest, codeWalletRequired, err.Error())
	case domain.ErrEventNotFound:
		writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
	case domain.ErrTicketNotFound:
		writeError(w, http.StatusNotFound, codeTicketNotFound, err.Error())
	case domain.ErrListingNotFound:
		writeError(w, http.StatusNotFound, codeListingNotFound, err.Error())
	case domain.ErrInsufficientSupply:
		writeError(w, http.StatusConflict, codeInsufficientSupply, err.Error())
	case domain.ErrPurchaseLimitExceeded:
		writeError(w, http.StatusConflict, codePurchaseLimitExceeded, err.Error())
	case domain.ErrResaleLocked:
		writeError(w, http.StatusConflict, codeResaleLocked, err.Error())
	case domain.ErrPriceCapExceeded:
		writeError(w, http.StatusConflict, codePriceCapExceeded, err.Error())
	case domain.ErrInvalidState:
		writeError(w, http.StatusConflict, codeInvalidState, err.Error())
	case domain.ErrTicketAlreadyUsed:
		writeError(w, http.StatusConflict, codeTicketAlreadyUsed, err.Error())
	case domain.ErrConflict:
		writeError(w, http.StatusConflict, codeConflict, err.Error())
	case domain.ErrNotOwner:
		writeError(w, http.StatusForbidden, codeNotOwner, err.Error())
	case domain.ErrNotSeller:
		writeError(w, http.StatusForbidden, codeNotSeller, err.Error())
	case domain.ErrSelfTrade:
		writeError(w, http.StatusConflict, codeSelfTrade, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
