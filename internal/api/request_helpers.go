package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/odata-api/internal/api/shared"
	"github.com/phrazzld/odata-api/internal/odata"
)

// errInvalidPathID is returned for a {pid} path segment that is not a
// positive integer.
var errInvalidPathID = errors.New("invalid pid")

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// getPathPID extracts a positive integer PID from the URL path parameters.
func getPathPID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	pid, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidPathID, raw)
	}
	return pid, nil
}

// queryFromRequest returns the OData options parsed by the ParseOData
// middleware. A request without a query string yields a nil query and no
// error.
func queryFromRequest(r *http.Request) (*odata.Query, error) {
	outcome, ok := shared.GetOData(r.Context())
	if !ok {
		return nil, nil
	}
	return outcome.Query, outcome.Err
}

// respondWithQueryFormat writes data as XML when $format=xml, as JSONP when
// $callback is set, and as JSON otherwise.
func respondWithQueryFormat(w http.ResponseWriter, r *http.Request, q *odata.Query, status int, data interface{}) {
	if q != nil && q.Format != nil && *q.Format == odata.FormatXML {
		shared.RespondWithXML(w, r, status, data)
		return
	}
	respondWithCallback(w, r, q, status, data)
}

// respondWithCallback writes data as JSONP when $callback is set, and as
// JSON otherwise.
func respondWithCallback(w http.ResponseWriter, r *http.Request, q *odata.Query, status int, data interface{}) {
	if q == nil || q.Callback == nil {
		shared.RespondWithJSON(w, r, status, data)
		return
	}
	if !shared.ValidCallback(*q.Callback) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid $callback parameter")
		return
	}
	shared.RespondWithJSONP(w, r, status, *q.Callback, data)
}
