package web

import (
	"encoding/json"
	"net/http"

	"github.com/swapmeet/swapmeet/types"
)

type createTradeOfferReqBody struct {
	FromItemID string  `json:"fromItemID"`
	ToItemID   string  `json:"toItemID"`
	Message    *string `json:"message"`
}

func (h *Handler) createTradeOffer(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var reqBody createTradeOfferReqBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		h.respondErr(w, errBadRequest)
		return
	}

	out, err := h.Service.CreateTradeOffer(r.Context(), types.CreateTradeOffer{
		FromItemID: reqBody.FromItemID,
		ToItemID:   reqBody.ToItemID,
		Message:    reqBody.Message,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusCreated)
}

func (h *Handler) tradeOffers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pageArgs, err := parsePageArgs(q)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	in := types.ListTradeOffers{
		Direction: types.TradeOfferDirection(q.Get("direction")),
		PageArgs:  pageArgs,
	}
	if q.Has("status") {
		status := types.TradeOfferStatus(q.Get("status"))
		in.Status = &status
	}

	page, err := h.Service.TradeOffers(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if page.Items == nil {
		page.Items = []types.TradeOffer{} // non null array
	}

	h.respond(w, page, http.StatusOK)
}

func (h *Handler) tradeOffer(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.TradeOffer(r.Context(), types.RetrieveTradeOffer{
		TradeOfferID: r.PathValue("tradeOfferID"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *Handler) acceptTradeOffer(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.AcceptTradeOffer(r.Context(), types.TransitionTradeOffer{
		TradeOfferID: r.PathValue("tradeOfferID"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *Handler) rejectTradeOffer(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.RejectTradeOffer(r.Context(), types.TransitionTradeOffer{
		TradeOfferID: r.PathValue("tradeOfferID"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *Handler) cancelTradeOffer(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.CancelTradeOffer(r.Context(), types.TransitionTradeOffer{
		TradeOfferID: r.PathValue("tradeOfferID"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *Handler) deleteTradeOffer(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteTradeOffer(r.Context(), types.DeleteTradeOffer{
		TradeOfferID: r.PathValue("tradeOfferID"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
