package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	ViewerIDKey contextKey = "viewer_id"
	// ViewerVerifiedKey is true when the viewer id came from a valid token
	ViewerVerifiedKey contextKey = "viewer_verified"

	// ViewerCookie and ViewerHeader carry the signed viewer token
	ViewerCookie = "sf_viewer"
	ViewerHeader = "X-Viewer-Token"

	viewerIssuer = "storefront"
)

// ViewerTokens signs and verifies the anonymous viewer tokens that tie
// page views to one browser.
type ViewerTokens struct {
	secret []byte
	ttl    time.Duration
}

// NewViewerTokens creates a token issuer with an HMAC secret
func NewViewerTokens(secret string, ttl time.Duration) *ViewerTokens {
	return &ViewerTokens{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for viewerID
func (t *ViewerTokens) Issue(viewerID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   viewerID,
		Issuer:    viewerIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify returns the viewer id of a valid token
func (t *ViewerTokens) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithIssuer(viewerIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", errors.New("viewer token subject is not a viewer id")
	}
	return claims.Subject, nil
}

func viewerToken(r *http.Request) string {
	if token := r.Header.Get(ViewerHeader); token != "" {
		return token
	}
	if cookie, err := r.Cookie(ViewerCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// ViewerMiddleware identifies the viewer of every request. Requests
// without a valid token are given a fresh viewer id, returned both as a
// cookie and in the X-Viewer-Token header.
func ViewerMiddleware(tokens *ViewerTokens, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewerID, err := tokens.Verify(viewerToken(r))
			verified := err == nil
			if !verified {
				viewerID = uuid.NewString()
				token, err := tokens.Issue(viewerID)
				if err != nil {
					logger.Error("Failed to issue viewer token", zap.Error(err))
					RespondWithError(w, http.StatusInternalServerError, "internal server error")
					return
				}

				http.SetCookie(w, &http.Cookie{
					Name:     ViewerCookie,
					Value:    token,
					Path:     "/",
					MaxAge:   int(tokens.ttl.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
				w.Header().Set(ViewerHeader, token)
				logger.Debug("Viewer token issued", zap.String("viewer_id", viewerID))
			}

			ctx := context.WithValue(r.Context(), ViewerIDKey, viewerID)
			ctx = context.WithValue(ctx, ViewerVerifiedKey, verified)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetViewerID extracts the viewer id from request context
func GetViewerID(ctx context.Context) (string, bool) {
	viewerID, ok := ctx.Value(ViewerIDKey).(string)
	return viewerID, ok
}

// IsVerifiedViewer reports whether the request presented a valid viewer
// token, as opposed to being issued a new one
func IsVerifiedViewer(ctx context.Context) bool {
	verified, _ := ctx.Value(ViewerVerifiedKey).(bool)
	return verified
}
