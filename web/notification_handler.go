package web

import (
	"mime"
	"net/http"

	"github.com/swapmeet/swapmeet/types"
)

func (h *Handler) notifications(w http.ResponseWriter, r *http.Request) {
	if a, _, err := mime.ParseMediaType(r.Header.Get("Accept")); err == nil && a == "text/event-stream" {
		h.notificationStream(w, r)
		return
	}

	pageArgs, err := parsePageArgs(r.URL.Query())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	page, err := h.Service.Notifications(r.Context(), types.ListNotifications{
		PageArgs: pageArgs,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if page.Items == nil {
		page.Items = []types.Notification{} // non null array
	}

	h.respond(w, page, http.StatusOK)
}

func (h *Handler) notificationStream(w http.ResponseWriter, r *http.Request) {
	f, ok := w.(http.Flusher)
	if !ok {
		h.respondErr(w, errStreamingUnsupported)
		return
	}

	ctx := r.Context()
	nn, err := h.Service.NotificationStream(ctx)
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
		case n, ok := <-nn:
			if !ok {
				return
			}

			h.writeSSE(w, n)
			f.Flush()
		case <-ctx.Done():
			return
		}
	}
}

func (h *Handler) readNotification(w http.ResponseWriter, r *http.Request) {
	err := h.Service.ReadNotification(r.Context(), types.ReadNotification{
		NotificationID: r.PathValue("notificationID"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) readNotifications(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.ReadNotifications(r.Context()); err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) hasUnreadNotifications(w http.ResponseWriter, r *http.Request) {
	unread, err := h.Service.HasUnreadNotifications(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, map[string]bool{"unread": unread}, http.StatusOK)
}
