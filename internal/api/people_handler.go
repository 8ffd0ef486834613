package api

import (
	"net/http"

	"github.com/phrazzld/odata-api/internal/api/shared"
	"github.com/phrazzld/odata-api/internal/platform/logger"
	"github.com/phrazzld/odata-api/internal/service"
)

// PeopleHandler serves the people collection.
type PeopleHandler struct {
	personService service.PersonService
}

// NewPeopleHandler creates a new PeopleHandler.
func NewPeopleHandler(personService service.PersonService) *PeopleHandler {
	return &PeopleHandler{personService: personService}
}

// List handles GET /api/people requests.
func (h *PeopleHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromRequest(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var selected []string
	if q != nil {
		selected = q.Select
	}
	fields, err := viewFields(selected)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		return
	}

	page, err := h.personService.QueryPeople(r.Context(), q)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	logger.FromContext(r.Context()).Debug("people page served", "size", len(page.People))
	respondWithQueryFormat(w, r, q, http.StatusOK, newPeopleResponse(page.People, page.Count, fields))
}

// Get handles GET /api/people/{pid} requests. Only $select, $format and
// $callback apply to a single person.
func (h *PeopleHandler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromRequest(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	pid, err := getPathPID(r, "pid")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var selected []string
	if q != nil {
		selected = q.Select
	}
	fields, err := viewFields(selected)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		return
	}

	person, err := h.personService.GetPerson(r.Context(), pid)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	respondWithQueryFormat(w, r, q, http.StatusOK, personView{person: person, fields: fields})
}
