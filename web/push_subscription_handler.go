package web

import (
	"encoding/json"
	"net/http"

	"github.com/swapmeet/swapmeet/types"
)

type pushSubscriptionReqBody struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256DH string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

func (h *Handler) vapidPublicKey(w http.ResponseWriter, r *http.Request) {
	h.respond(w, map[string]string{"publicKey": h.VAPIDPublicKey}, http.StatusOK)
}

func (h *Handler) createPushSubscription(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var reqBody pushSubscriptionReqBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		h.respondErr(w, errBadRequest)
		return
	}

	err := h.Service.CreatePushSubscription(r.Context(), types.CreatePushSubscription{
		Endpoint: reqBody.Endpoint,
		P256DH:   reqBody.Keys.P256DH,
		Auth:     reqBody.Keys.Auth,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deletePushSubscription(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var reqBody pushSubscriptionReqBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		h.respondErr(w, errBadRequest)
		return
	}

	err := h.Service.DeletePushSubscription(r.Context(), types.DeletePushSubscription{
		Endpoint: reqBody.Endpoint,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
