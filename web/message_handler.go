package web

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/swapmeet/swapmeet/types"
)

type createMessageReqBody struct {
	ToUserID     string  `json:"toUserID"`
	Content      *string `json:"content"`
	ImageURL     *string `json:"imageURL"`
	TradeOfferID *string `json:"tradeOfferID"`
}

func (h *Handler) createMessage(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var reqBody createMessageReqBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		h.respondErr(w, errBadRequest)
		return
	}

	out, err := h.Service.CreateMessage(r.Context(), types.CreateMessage{
		ToUserID:     reqBody.ToUserID,
		Content:      reqBody.Content,
		ImageURL:     reqBody.ImageURL,
		TradeOfferID: reqBody.TradeOfferID,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusCreated)
}

func (h *Handler) messages(w http.ResponseWriter, r *http.Request) {
	if a, _, err := mime.ParseMediaType(r.Header.Get("Accept")); err == nil && a == "text/event-stream" {
		h.messageStream(w, r)
		return
	}

	pageArgs, err := parsePageArgs(r.URL.Query())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	page, err := h.Service.Messages(r.Context(), types.ListMessages{
		ConversationID: r.PathValue("conversationID"),
		PageArgs:       pageArgs,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if page.Items == nil {
		page.Items = []types.Message{} // non null array
	}

	h.respond(w, page, http.StatusOK)
}

func (h *Handler) messageStream(w http.ResponseWriter, r *http.Request) {
	f, ok := w.(http.Flusher)
	if !ok {
		h.respondErr(w, errStreamingUnsupported)
		return
	}

	ctx := r.Context()
	mm, err := h.Service.MessageStream(ctx, r.PathValue("conversationID"))
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
		case msg, ok := <-mm:
			if !ok {
				return
			}

			h.writeSSE(w, msg)
			f.Flush()
		case <-ctx.Done():
			return
		}
	}
}
