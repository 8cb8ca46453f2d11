package httpx

import (
	"net/http"

	"github.com/novelpress/novelpress/internal/session"
)

// RespondError maps auth errors to RFC7807 responses. Errors without a
// session kind fall through to a bare 500; handlers map their own domain
// errors before reaching here.
func RespondError(w http.ResponseWriter, err error) {
	switch session.ErrorKind(err) {
	case session.KindAuthentication:
		Problem(w, http.StatusUnauthorized, "Login Failed", err.Error())
	case session.KindAuthorization:
		Problem(w, http.StatusUnauthorized, "Session Expired", err.Error())
	case session.KindNotFound:
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case session.KindNetwork:
		Problem(w, http.StatusBadGateway, "Upstream Unavailable", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
