// Package auth implements the request authorization gate: it turns a bearer
// header into an authenticated account id on the request context, or
// rejects the request.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/taskdeck/service-task-go/internal/apperror"
)

// ErrSubjectNotFound is what a Lookup returns when the token subject no
// longer maps to a live account.
var ErrSubjectNotFound = errors.New("subject not found")

// TokenVerifier resolves the subject id from a bearer access token.
type TokenVerifier interface {
	VerifyAccess(token string) (string, error)
}

// Lookup confirms that a token subject still maps to a live account. It
// returns ErrSubjectNotFound for deleted or unknown subjects.
type Lookup func(ctx context.Context, id string) error

// RequireAuth returns middleware enforcing the auth gate state machine:
// no credential -> 401; credential present but verification fails -> 403;
// verified but subject gone -> 401; otherwise the subject id is attached to
// the request context. The account lookup runs only after cryptographic
// verification, so forged tokens never touch the database.
func RequireAuth(tokens TokenVerifier, lookup Lookup, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				reject(w, apperror.Unauthenticated("access token required"))
				return
			}

			subjectID, err := tokens.VerifyAccess(tokenString)
			if err != nil {
				logger.Debugw("token verification failed", "remote", r.RemoteAddr)
				reject(w, apperror.InvalidToken())
				return
			}

			if err := lookup(r.Context(), subjectID); err != nil {
				if errors.Is(err, ErrSubjectNotFound) {
					// token outlived its account; treat as stale identity
					reject(w, apperror.Unauthenticated("account no longer exists"))
					return
				}
				logger.Errorw("account lookup failed", "account_id", subjectID, "err", err)
				reject(w, apperror.Internal(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSubjectID(r.Context(), subjectID)))
		})
	}
}

// bearerToken extracts the credential from the Authorization header.
// Returns "" when the header is absent or not a bearer scheme.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func reject(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperror.StatusCode(err))
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   apperror.SafeKind(err),
		"message": apperror.SafeMessage(err),
	})
}
