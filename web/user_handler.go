package web

import (
	"net/http"

	"github.com/swapmeet/swapmeet/types"
)

func (h *Handler) user(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.User(r.Context(), types.RetrieveUser{
		UserID: r.PathValue("userID"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *Handler) userItems(w http.ResponseWriter, r *http.Request) {
	pageArgs, err := parsePageArgs(r.URL.Query())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	page, err := h.Service.UserItems(r.Context(), types.ListUserItems{
		UserID:   r.PathValue("userID"),
		PageArgs: pageArgs,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if page.Items == nil {
		page.Items = []types.Item{} // non null array
	}

	h.respond(w, page, http.StatusOK)
}

func (h *Handler) item(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Item(r.Context(), types.RetrieveItem{
		ItemID: r.PathValue("itemID"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}
