package http

import (
	"context"
	"net/http"
	"strings"

	"crown-hotels-booking/internal/config"
	"crown-hotels-booking/internal/logger"
	"crown-hotels-booking/internal/security"

	"github.com/gorilla/mux"
)

type staffKey struct{}

// StaffFromContext returns the claims of the authenticated operator, if any.
func StaffFromContext(ctx context.Context) (*security.StaffClaims, bool) {
	claims, ok := ctx.Value(staffKey{}).(*security.StaffClaims)
	return claims, ok
}

// auditStaffAction records which operator attempted a front-desk action.
func auditStaffAction(r *http.Request, action, reference string) {
	staff, ok := StaffFromContext(r.Context())
	if !ok {
		logger.WarnContext(r.Context(), "Staff action without operator identity", "action", action, "reference", reference)
		return
	}
	logger.InfoContext(r.Context(), "Staff action", "action", action, "reference", reference, "staff", staff.Username, "role", staff.Role)
}

type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

// Handler authenticates requests whose route requires a staff token.
// It must run after route matching so the path template is known.
func (a *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level := config.SecurityPublic
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				level = config.SecurityFor(r.Method, tmpl)
			}
		}

		// Public endpoint - skip auth
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := extractToken(r)
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "Unauthorized", "authorization token is not provided")
			return
		}

		claims, err := a.tokenManager.ValidateToken(token)
		if err != nil {
			logger.Warn("Rejected staff token", "path", r.URL.Path, "error", err)
			writeJSONError(w, http.StatusUnauthorized, "Unauthorized", "invalid token: "+err.Error())
			return
		}
		if claims.Type != security.TokenTypeAccess {
			writeJSONError(w, http.StatusForbidden, "Forbidden", "access token required")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), staffKey{}, claims)))
	})
}

func extractToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	// Remove Bearer prefix if present
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		header = strings.TrimSpace(header[7:])
	}
	return header, header != ""
}
