package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swapmeet/swapmeet/service"
)

type Handler struct {
	Service        *service.Service
	Logger         *slog.Logger
	SessionStore   scs.Store
	VAPIDPublicKey string

	sess     *scs.SessionManager
	handler  http.Handler
	requests *prometheus.CounterVec
	once     sync.Once
}

func (h *Handler) init() {
	h.sess = scs.New()
	h.sess.Store = h.SessionStore
	h.sess.Lifetime = time.Hour * 24 * 7 // 7 days
	h.sess.ErrorFunc = func(w http.ResponseWriter, r *http.Request, err error) {
		h.respondErr(w, fmt.Errorf("session error: %w", err))
	}

	h.requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "swapmeet",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, by route pattern and status code.",
	}, []string{"pattern", "status"})

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/login", h.login)
	mux.HandleFunc("POST /api/logout", h.logout)
	mux.HandleFunc("GET /api/me", h.me)

	mux.HandleFunc("POST /api/trade-offers", h.createTradeOffer)
	mux.HandleFunc("GET /api/trade-offers", h.tradeOffers)
	mux.HandleFunc("GET /api/trade-offers/{tradeOfferID}", h.tradeOffer)
	mux.HandleFunc("POST /api/trade-offers/{tradeOfferID}/accept", h.acceptTradeOffer)
	mux.HandleFunc("POST /api/trade-offers/{tradeOfferID}/reject", h.rejectTradeOffer)
	mux.HandleFunc("POST /api/trade-offers/{tradeOfferID}/cancel", h.cancelTradeOffer)
	mux.HandleFunc("DELETE /api/trade-offers/{tradeOfferID}", h.deleteTradeOffer)

	mux.HandleFunc("POST /api/conversations", h.createConversation)
	mux.HandleFunc("GET /api/conversations", h.conversations)
	mux.HandleFunc("DELETE /api/conversations/{conversationID}", h.deleteConversation)
	mux.HandleFunc("POST /api/conversations/{conversationID}/read", h.readConversation)
	mux.HandleFunc("GET /api/conversations/{conversationID}/messages", h.messages)
	mux.HandleFunc("POST /api/messages", h.createMessage)

	mux.HandleFunc("GET /api/notifications", h.notifications)
	mux.HandleFunc("POST /api/notifications/read", h.readNotifications)
	mux.HandleFunc("POST /api/notifications/{notificationID}/read", h.readNotification)
	mux.HandleFunc("GET /api/notifications/unread", h.hasUnreadNotifications)

	mux.HandleFunc("GET /api/push-subscriptions/vapid-public-key", h.vapidPublicKey)
	mux.HandleFunc("POST /api/push-subscriptions", h.createPushSubscription)
	mux.HandleFunc("DELETE /api/push-subscriptions", h.deletePushSubscription)

	mux.HandleFunc("GET /api/users/{userID}", h.user)
	mux.HandleFunc("GET /api/users/{userID}/items", h.userItems)
	mux.HandleFunc("GET /api/items/{itemID}", h.item)

	mux.Handle("GET /metrics", promhttp.Handler())

	h.handler = h.withMetrics(mux)
	h.handler = h.withUser(h.handler)
	h.handler = h.sess.LoadAndSave(h.handler)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.once.Do(h.init)
	h.handler.ServeHTTP(w, r)
}

func (h *Handler) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		pattern := r.Pattern
		if pattern == "" {
			pattern = "unmatched"
		}
		h.requests.WithLabelValues(pattern, fmt.Sprint(rec.status())).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.code == 0 {
		rec.code = code
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) status() int {
	if rec.code == 0 {
		return http.StatusOK
	}
	return rec.code
}

// Flush keeps the recorder usable for the event streams.
func (rec *statusRecorder) Flush() {
	if f, ok := rec.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
