package pushnotification

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/skyras/skyras/internal/config"
	"github.com/skyras/skyras/internal/pushsubscription"
	"github.com/skyras/skyras/pkg/cerr"
)

// Handler exposes subscription management over JSON HTTP.
type Handler struct {
	vapidEnv *config.VAPIDEnv
	repo     pushsubscription.Repository
}

func NewHandler(vapidEnv *config.VAPIDEnv, repo pushsubscription.Repository) *Handler {
	return &Handler{
		vapidEnv: vapidEnv,
		repo:     repo,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/push/vapid-public-key", h.getVapidPublicKey)
	r.Post("/push/subscriptions", h.registerSubscription)
	r.Delete("/push/subscriptions/{id}", h.deleteSubscription)
}

func (h *Handler) getVapidPublicKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.vapidEnv.VAPIDPublicKey == "" {
		cerr.SetNewJSONError(ctx, cerr.FailedPrecondition, "VAPID keys not configured", nil)
		return
	}
	cerr.SetJSONResponse(ctx, map[string]string{"publicKey": h.vapidEnv.VAPIDPublicKey})
}

type registerSubscriptionRequest struct {
	Endpoint  string `json:"endpoint"`
	P256dhKey string `json:"p256dhKey"`
	AuthKey   string `json:"authKey"`
}

func (h *Handler) registerSubscription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid JSON body", err)
		return
	}
	if req.Endpoint == "" {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "endpoint is required", nil)
		return
	}
	if req.P256dhKey == "" {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "p256dhKey is required", nil)
		return
	}
	if req.AuthKey == "" {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "authKey is required", nil)
		return
	}

	// Idempotent: re-registering an endpoint replaces the old keys.
	if existing, err := h.repo.FindByEndpoint(ctx, req.Endpoint); err == nil && existing != nil {
		if err := h.repo.Delete(ctx, existing.ID); err != nil {
			cerr.SetJSONError(ctx, err)
			return
		}
	}

	sub := &pushsubscription.Subscription{
		ID:        ulid.Make().String(),
		Endpoint:  req.Endpoint,
		P256dhKey: req.P256dhKey,
		AuthKey:   req.AuthKey,
		CreatedAt: time.Now(),
	}
	if err := h.repo.Create(ctx, sub); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, map[string]string{"id": sub.ID})
}

func (h *Handler) deleteSubscription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	if err := h.repo.Delete(ctx, id); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, map[string]bool{"deleted": true})
}
