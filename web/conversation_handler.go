package web

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/swapmeet/swapmeet/types"
)

type createConversationReqBody struct {
	OtherUserID  string  `json:"otherUserID"`
	TradeOfferID *string `json:"tradeOfferID"`
}

func (h *Handler) createConversation(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var reqBody createConversationReqBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		h.respondErr(w, errBadRequest)
		return
	}

	out, err := h.Service.Conversation(r.Context(), types.RetrieveConversation{
		OtherUserID:  reqBody.OtherUserID,
		TradeOfferID: reqBody.TradeOfferID,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *Handler) conversations(w http.ResponseWriter, r *http.Request) {
	if a, _, err := mime.ParseMediaType(r.Header.Get("Accept")); err == nil && a == "text/event-stream" {
		h.conversationStream(w, r)
		return
	}

	pageArgs, err := parsePageArgs(r.URL.Query())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	page, err := h.Service.Conversations(r.Context(), types.ListConversations{
		PageArgs: pageArgs,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if page.Items == nil {
		page.Items = []types.Conversation{} // non null array
	}

	h.respond(w, page, http.StatusOK)
}

func (h *Handler) conversationStream(w http.ResponseWriter, r *http.Request) {
	f, ok := w.(http.Flusher)
	if !ok {
		h.respondErr(w, errStreamingUnsupported)
		return
	}

	ctx := r.Context()
	cc, err := h.Service.ConversationStream(ctx)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	header := w.Header()
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("Content-Type", "text/event-stream; charset=utf-8")

	for {
		select {
		case conversations, ok := <-cc:
			if !ok {
				return
			}

			if conversations == nil {
				conversations = []types.Conversation{} // non null array
			}

			h.writeSSE(w, conversations)
			f.Flush()
		case <-ctx.Done():
			return
		}
	}
}

func (h *Handler) deleteConversation(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteConversation(r.Context(), types.DeleteConversation{
		ConversationID: r.PathValue("conversationID"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) readConversation(w http.ResponseWriter, r *http.Request) {
	err := h.Service.ReadConversation(r.Context(), types.ReadConversation{
		ConversationID: r.PathValue("conversationID"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
