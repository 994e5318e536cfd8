package common

import (
	"net/http"
	"strconv"
	"time"

	"github.com/matst80/slask-facets/pkg/tracking"
)

const sessionCookie = "sid"

func generateSessionId() int {
	return int(time.Now().UnixNano())
}

func setSessionCookie(w http.ResponseWriter, sessionId int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    strconv.Itoa(sessionId),
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		MaxAge:   60 * 60 * 24 * 30,
		Path:     "/",
	})
}

// HandleSessionCookie returns the session id of the request, starting a new
// session (and tracking it) when the cookie is missing or broken.
func HandleSessionCookie(trk tracking.Tracking, w http.ResponseWriter, r *http.Request) int {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if sessionId, err := strconv.Atoi(c.Value); err == nil {
			return sessionId
		}
	}
	sessionId := generateSessionId()
	if trk != nil {
		go trk.TrackSession(sessionId, r)
	}
	setSessionCookie(w, sessionId)
	return sessionId
}
