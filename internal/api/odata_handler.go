package api

import (
	"net/http"

	"github.com/phrazzld/odata-api/internal/api/shared"
	"github.com/phrazzld/odata-api/internal/odata"
)

// ODataHandler exposes the query parser itself.
type ODataHandler struct{}

// NewODataHandler creates a new ODataHandler.
func NewODataHandler() *ODataHandler {
	return &ODataHandler{}
}

// Echo handles GET /api/odata requests by returning the parsed options of
// the request, or 400 with the parse error. $callback is honored; $format
// is not, since a filter tree has no XML form.
func (h *ODataHandler) Echo(w http.ResponseWriter, r *http.Request) {
	outcome, ok := shared.GetOData(r.Context())
	if !ok {
		outcome = odata.Outcome{Query: &odata.Query{}}
	}

	if !outcome.OK() {
		shared.RespondWithError(w, r, http.StatusBadRequest, outcome.Err.Error())
		return
	}

	respondWithCallback(w, r, outcome.Query, http.StatusOK, outcome)
}
