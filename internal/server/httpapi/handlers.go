// Package httpapi exposes the public HTTP surface: subscription intake and
// confirmation, publisher login, and newsletter publication.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/dmitrijs2005/newsletter/internal/domain"
	"github.com/dmitrijs2005/newsletter/internal/logging"
	"github.com/dmitrijs2005/newsletter/internal/secret"
	"github.com/dmitrijs2005/newsletter/internal/server/auth"
	"github.com/dmitrijs2005/newsletter/internal/server/services"
	"github.com/google/uuid"
)

// SubscriptionProcessor is the subscription lifecycle consumed by handlers.
type SubscriptionProcessor interface {
	Subscribe(ctx context.Context, req domain.NewSubscription) (*domain.Subscription, error)
	Confirm(ctx context.Context, token string) error
}

// IssuePublisher delivers one newsletter issue to confirmed subscribers.
type IssuePublisher interface {
	PublishIssue(ctx context.Context, issue services.Issue) (*services.PublishReport, error)
}

// TokenAuthority validates credentials and bearer tokens for publishers.
type TokenAuthority interface {
	ValidateCredentials(ctx context.Context, creds auth.Credentials) (uuid.UUID, error)
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)
	IssueToken(userID uuid.UUID) (string, error)
}

type Handler struct {
	subscriptions SubscriptionProcessor
	newsletters   IssuePublisher
	authority     TokenAuthority
	logger        logging.Logger
}

func NewHandler(subscriptions SubscriptionProcessor, newsletters IssuePublisher, authority TokenAuthority, logger logging.Logger) *Handler {
	return &Handler{
		subscriptions: subscriptions,
		newsletters:   newsletters,
		authority:     authority,
		logger:        logger,
	}
}

type subscribeRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type publishRequest struct {
	Title    string `json:"title"`
	HTMLBody string `json:"html_body"`
	TextBody string `json:"text_body"`
}

// Subscribe handles POST /subscriptions. It accepts a JSON body or a
// classic form post, validates the fields, and drives the lifecycle.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSubscribeRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	email, err := domain.ParseSubscriberEmail(req.Email)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name, err := domain.ParseSubscriberName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sub, err := h.subscriptions.Subscribe(r.Context(), domain.NewSubscription{Email: email, Name: name})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(sub.Status)})
}

// Confirm handles GET /subscriptions/confirm?token=...; this is the link
// subscribers click in the confirmation email.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "missing token parameter")
		return
	}

	if err := h.subscriptions.Confirm(r.Context(), token); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(domain.StatusConfirmed)})
}

// Login handles POST /login and exchanges publisher credentials for a
// bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, err := h.authority.ValidateCredentials(r.Context(), auth.Credentials{
		Username: req.Username,
		Password: secret.NewString(req.Password),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	token, err := h.authority.IssueToken(userID)
	if err != nil {
		h.logger.Error(r.Context(), "token issue failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Publish handles POST /newsletters. The auth middleware guarantees a valid
// bearer token before this runs.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.newsletters.PublishIssue(r.Context(), services.Issue{
		Title:    req.Title,
		HTMLBody: req.HTMLBody,
		TextBody: req.TextBody,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"delivered": report.Delivered,
		"failed":    report.Failed,
	})
}

// Healthz reports process liveness.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeSubscribeRequest(r *http.Request) (*subscribeRequest, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return nil, errors.New("invalid form body")
		}
		return &subscribeRequest{
			Email: r.PostFormValue("email"),
			Name:  r.PostFormValue("name"),
		}, nil
	}

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.New("invalid request body")
	}
	return &req, nil
}

// writeServiceError maps service-layer sentinel errors onto HTTP statuses.
// Internal details never reach the client; 5xx causes are logged instead.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, common.ErrEmailDelivery):
		h.logger.Error(r.Context(), "email delivery failed", "error", err)
		writeError(w, http.StatusInternalServerError, "email delivery failed, please retry")
	default:
		h.logger.Error(r.Context(), "request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
