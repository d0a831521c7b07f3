package middleware

import (
	"net/http"

	pnet "replyguard/internal/platform/net"
)

// AuthPort identifies the caller of a control request
type AuthPort interface {
	// Parse returns a client id from the request or an error
	Parse(r *http.Request) (clientID string, err error)
}

// Auth passes everything through when p is nil, otherwise rejects requests the port refuses
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			cid, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Reply(0, nil, err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			next.ServeHTTP(w, r.WithContext(pnet.WithClient(r.Context(), cid)))
		})
	}
}
