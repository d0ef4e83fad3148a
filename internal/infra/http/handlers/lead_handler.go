package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/localauthority/leadengine/internal/infra/http/middleware"
	"github.com/localauthority/leadengine/internal/usecase"
)

// LeadHandler is the single public ingestion endpoint. The generated
// sites POST their contact forms here with the site slug in a hidden
// field; a 2xx confirms storage, not routing completion.
type LeadHandler struct {
	storeLeadUC *usecase.StoreLeadUseCase
	rateLimiter *RateLimiter
}

func NewLeadHandler(storeLeadUC *usecase.StoreLeadUseCase) *LeadHandler {
	return &LeadHandler{
		storeLeadUC: storeLeadUC,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

type LeadResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	LeadID        string `json:"lead_id,omitempty"`
	RoutingStatus string `json:"routing_status,omitempty"`
}

// Handle accepts both form-encoded posts (the generated sites submit
// plain HTML forms) and JSON.
func (h *LeadHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeJSON(w, http.StatusTooManyRequests, LeadResponse{
			Success: false,
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	input, err := decodeLeadInput(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, LeadResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	output, err := h.storeLeadUC.Execute(ctx, input)
	if err != nil {
		status, msg := leadErrorResponse(err)
		writeJSON(w, status, LeadResponse{Success: false, Message: msg})
		return
	}

	middleware.RecordLeadReceived(string(output.RoutingStatus))

	writeJSON(w, http.StatusCreated, LeadResponse{
		Success:       true,
		Message:       output.Message,
		LeadID:        output.LeadID,
		RoutingStatus: string(output.RoutingStatus),
	})
}

func decodeLeadInput(r *http.Request) (usecase.StoreLeadInput, error) {
	var input usecase.StoreLeadInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		err := json.NewDecoder(r.Body).Decode(&input)
		return input, err
	}

	if err := r.ParseForm(); err != nil {
		return input, err
	}

	input.SiteSlug = r.PostFormValue("site_slug")
	input.Name = r.PostFormValue("name")
	input.Phone = r.PostFormValue("phone")
	input.Email = r.PostFormValue("email")
	input.Service = r.PostFormValue("service")
	input.Message = r.PostFormValue("message")
	return input, nil
}

func leadErrorResponse(err error) (int, string) {
	var domainErr *usecase.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case usecase.CodeInvalidLeadData:
			return http.StatusBadRequest, domainErr.Message
		case usecase.CodeSiteDeactivated:
			return http.StatusGone, "This site is no longer active."
		default:
			return http.StatusUnprocessableEntity, domainErr.Message
		}
	}
	return http.StatusInternalServerError, "Failed to store lead"
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
