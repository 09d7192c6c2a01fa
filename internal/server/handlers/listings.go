package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Paladinnu/paladinspalace/internal/config"
	"github.com/Paladinnu/paladinspalace/internal/core"
	"github.com/Paladinnu/paladinspalace/internal/core/listings"
	apperrors "github.com/Paladinnu/paladinspalace/internal/errors"
	"github.com/Paladinnu/paladinspalace/internal/ratelimit"
)

// userIDHeader carries the caller identity established by the upstream auth
// layer.
const userIDHeader = "X-User-ID"

// API serves the listing and audit endpoints.
type API struct {
	listings *listings.Service
	limiter  *ratelimit.Limiter
	policies config.RateLimitsConfig
	validate *validator.Validate
}

// NewAPI creates the API handler set.
func NewAPI(svc *listings.Service, limiter *ratelimit.Limiter, policies config.RateLimitsConfig) *API {
	return &API{
		listings: svc,
		limiter:  limiter,
		policies: policies,
		validate: validator.New(),
	}
}

// SearchListings handles GET /api/listings. Malformed filter values are
// coerced to absent rather than rejected, so a stale or hand-edited URL still
// returns results.
func (a *API) SearchListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := core.ListingFilter{
		Limit:    intValue(q.Get("limit")),
		Query:    q.Get("q"),
		SellerID: q.Get("seller"),
		Sort:     core.ParseSort(q.Get("sort")),

		PriceMin: int64Param(q.Get("priceMin")),
		PriceMax: int64Param(q.Get("priceMax")),

		Brand: q.Get("brand"),
		Vtype: q.Get("vtype"),

		WeaponGroup: q.Get("armeGrup"),
		WeaponItem:  q.Get("armeTip"),
		WeaponStare: q.Get("armeStare"),

		DrugTip:    q.Get("droguriTip"),
		DrugUnit:   q.Get("droguriUnitate"),
		DrugQtyMin: floatParam(q.Get("droguriCantMin")),
		DrugQtyMax: floatParam(q.Get("droguriCantMax")),

		ExchangeAction:  q.Get("baniActiune"),
		ExchangePercent: int64Param(q.Get("baniProcent")),
		ExchangeSumMin:  floatParam(q.Get("baniSumaMin")),
		ExchangeSumMax:  floatParam(q.Get("baniSumaMax")),
	}
	if c := core.Category(q.Get("category")); core.ValidCategory(c) {
		f.Category = &c
	}
	if cursor := q.Get("cursor"); cursor != "" {
		f.Cursor = &cursor
	}

	page, err := a.listings.Search(r.Context(), f)
	if err != nil {
		apperrors.Respond(w, r, apperrors.WrapDatabase(err))
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetListing handles GET /api/listings/{id}.
func (a *API) GetListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	l, err := a.listings.Get(r.Context(), id)
	if err != nil {
		apperrors.Respond(w, r, apperrors.WrapDatabase(err))
		return
	}
	if l == nil {
		apperrors.Respond(w, r, apperrors.NewNotFound("Listing not found"))
		return
	}
	writeJSON(w, http.StatusOK, l)
}

type createListingRequest struct {
	Title       string         `json:"title" validate:"required,min=3,max=120"`
	Description string         `json:"description" validate:"max=2000"`
	Price       *int64         `json:"price" validate:"omitempty,gte=0"`
	Category    string         `json:"category" validate:"omitempty,oneof=arme droguri masini bani iteme servicii"`
	Attributes  map[string]any `json:"attributes"`
	IsGold      bool           `json:"isGold"`
}

// CreateListing handles POST /api/listings. Creation is throttled per
// (user, category) pair so a burst in one category does not lock a seller out
// of the others.
func (a *API) CreateListing(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		apperrors.Respond(w, r, apperrors.NewUnauthorized("Caller identity is required"))
		return
	}

	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.Respond(w, r, apperrors.NewInvalidInput("Request body is not valid JSON"))
		return
	}
	if err := a.validate.Struct(req); err != nil {
		apperrors.Respond(w, r, validationError(err))
		return
	}

	category := "none"
	if req.Category != "" {
		category = req.Category
	}
	key := fmt.Sprintf("listingCat:%s:%s", userID, category)
	if res := a.limiter.ConsumePolicy(r.Context(), key, a.policies.ListingCreate); !res.Allowed {
		apperrors.Respond(w, r, apperrors.NewThrottled(res.RetryAfter(time.Now())))
		return
	}

	in := listings.CreateInput{
		SellerID:    userID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Attributes:  req.Attributes,
		IsGold:      req.IsGold,
	}
	if req.Category != "" {
		c := core.Category(req.Category)
		in.Category = &c
	}

	l, err := a.listings.Create(r.Context(), in)
	if err != nil {
		apperrors.Respond(w, r, apperrors.WrapDatabase(err))
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// DeleteListing handles DELETE /api/listings/{id}.
func (a *API) DeleteListing(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		apperrors.Respond(w, r, apperrors.NewUnauthorized("Caller identity is required"))
		return
	}

	deleted, err := a.listings.Delete(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		apperrors.Respond(w, r, apperrors.WrapDatabase(err))
		return
	}
	if !deleted {
		apperrors.Respond(w, r, apperrors.NewNotFound("Listing not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AuditTrail handles GET /api/audit.
func (a *API) AuditTrail(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := core.AuditFilter{
		Limit:      intValue(q.Get("limit")),
		Action:     q.Get("action"),
		UserID:     q.Get("userId"),
		EntityType: q.Get("entityType"),
	}
	if cursor := q.Get("cursor"); cursor != "" {
		f.Cursor = &cursor
	}

	page, err := a.listings.AuditTrail(r.Context(), f)
	if err != nil {
		apperrors.Respond(w, r, apperrors.WrapDatabase(err))
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func validationError(err error) *apperrors.AppError {
	app := apperrors.NewValidationFailed("Request body failed validation")
	var fields validator.ValidationErrors
	if errors.As(err, &fields) {
		for _, fe := range fields {
			app = app.WithDetail(fe.Field(), fe.Tag())
		}
	}
	return app
}

// intValue parses a positive integer, returning zero for anything else.
func intValue(raw string) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// int64Param parses an optional integer parameter, coercing bad input to
// absent.
func int64Param(raw string) *int64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// floatParam parses an optional numeric parameter, coercing bad input to
// absent.
func floatParam(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
