package api

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"slices"

	"github.com/phrazzld/odata-api/internal/domain"
	"github.com/phrazzld/odata-api/internal/store"
)

// TokenRequest defines the payload for the client credentials endpoint.
type TokenRequest struct {
	ClientID     string `json:"client_id"     validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required"`
	Scope        string `json:"scope"         validate:"required"`
}

// PeopleResponse is a page of the people collection. Count is present only
// when the request asked for it.
type PeopleResponse struct {
	XMLName xml.Name     `json:"-"                      xml:"people"`
	Value   []personView `json:"value"                  xml:"person"`
	Count   *int64       `json:"@odata.count,omitempty" xml:"count,attr,omitempty"`
}

// personView renders the listed properties of a person, in order. Missing
// dates render as JSON null and are left out of XML.
type personView struct {
	person *domain.Person
	fields []string
}

func (v personView) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range v.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value, _ := v.person.Property(field)
		if d, ok := value.(domain.Date); ok && d.IsZero() {
			buf.WriteString("null")
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", field, err)
		}
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (v personView) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "person"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, field := range v.fields {
		value, _ := v.person.Property(field)
		if d, ok := value.(domain.Date); ok && d.IsZero() {
			continue
		}
		if err := e.EncodeElement(value, xml.StartElement{Name: xml.Name{Local: field}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// viewFields resolves $select against the person properties. No selection
// means every property.
func viewFields(selected []string) ([]string, error) {
	if len(selected) == 0 {
		return domain.PersonProperties, nil
	}

	fields := make([]string, 0, len(selected))
	for _, name := range selected {
		if !slices.Contains(domain.PersonProperties, name) {
			return nil, fmt.Errorf("%w: %q", store.ErrUnknownProperty, name)
		}
		if !slices.Contains(fields, name) {
			fields = append(fields, name)
		}
	}
	return fields, nil
}

func newPeopleResponse(people []domain.Person, count *int64, fields []string) PeopleResponse {
	views := make([]personView, len(people))
	for i := range people {
		views[i] = personView{person: &people[i], fields: fields}
	}
	return PeopleResponse{Value: views, Count: count}
}
