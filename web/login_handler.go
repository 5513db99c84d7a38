package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/swapmeet/swapmeet/auth"
	"github.com/swapmeet/swapmeet/errs"
	"github.com/swapmeet/swapmeet/types"
)

type loginReqBody struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var reqBody loginReqBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		h.respondErr(w, errBadRequest)
		return
	}

	if reqBody.Username == "" {
		reqBody.Username = strings.SplitN(reqBody.Email, "@", 2)[0]
	}

	ctx := r.Context()
	out, err := h.Service.UpsertUser(ctx, types.UpsertUser{
		Email:    reqBody.Email,
		Username: reqBody.Username,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.sess.Put(ctx, "logged_in_user_id", out.ID)

	if err := h.sess.RenewToken(ctx); err != nil {
		h.respondErr(w, fmt.Errorf("renew session token: %w", err))
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.sess.Remove(ctx, "logged_in_user_id")
	if err := h.sess.RenewToken(ctx); err != nil {
		h.respondErr(w, fmt.Errorf("renew session token: %w", err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	loggedInUser, loggedIn := auth.UserFromContext(r.Context())
	if !loggedIn {
		h.respondErr(w, errs.Unauthenticated)
		return
	}

	h.respond(w, loggedInUser, http.StatusOK)
}

func (h *Handler) withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if !h.sess.Exists(ctx, "logged_in_user_id") {
			next.ServeHTTP(w, r)
			return
		}

		loggedInUserID := h.sess.GetString(ctx, "logged_in_user_id")
		user, err := h.Service.User(ctx, types.RetrieveUser{
			UserID: loggedInUserID,
		})
		if err != nil {
			h.respondErr(w, fmt.Errorf("get logged in user: %w", err))
			return
		}

		ctx = auth.ContextWithUser(ctx, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
