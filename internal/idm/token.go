package idm

import (
	"encoding/json"
	"fmt"
	"slices"
)

// StringList is a claim that the gateway sends either as a single string or
// as an array of strings.
type StringList []string

// UnmarshalJSON accepts a string, an array of strings, or null.
func (l *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = StringList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected string or array of strings: %w", err)
	}
	*l = many
	return nil
}

// MarshalJSON writes a single value as a plain string.
func (l StringList) MarshalJSON() ([]byte, error) {
	if len(l) == 1 {
		return json.Marshal(l[0])
	}
	return json.Marshal([]string(l))
}

// First returns the first value, or "" for an empty list.
func (l StringList) First() string {
	if len(l) == 0 {
		return ""
	}
	return l[0]
}

// Contains reports whether v is one of the values.
func (l StringList) Contains(v string) bool {
	return slices.Contains(l, v)
}

// AccessToken is a decoded access token as returned by the gateway's
// validation endpoint.
type AccessToken struct {
	AccessToken string `json:"access_token,omitempty"`
	// Sub identifies the user. Prefer it over FLID, which is empty for
	// single sign-on and deactivated users.
	Sub      StringList `json:"sub"`
	FLID     string     `json:"flid,omitempty"`
	ClientID string     `json:"client_id"`

	Role           StringList `json:"role,omitempty"`
	OrganizationID StringList `json:"organizationid,omitempty"`
	Employee       string     `json:"employee,omitempty"`

	AbsTimeOrgUserStage    string `json:"abs_time_orguser_stage,omitempty"`
	AbsTimeCampusUserStage string `json:"abs_time_campususer_stage,omitempty"`
	AbsTimeEmployeeStage   string `json:"abs_time_employee_stage,omitempty"`
	AbsTimeOrgUser         string `json:"abs_time_orguser,omitempty"`
	AbsTimeCampusUser      string `json:"abs_time_campususer,omitempty"`
	AbsTimeEmployee        string `json:"abs_time_employee,omitempty"`
}

// AppToken is an application-to-application token from the client
// credentials grant. It never has a subject.
type AppToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// GrantClientCredentials is the only grant type ClientCredentialsToken sends.
const GrantClientCredentials = "client_credentials"

// ClientCredentialsRequest is the form body of a client credentials grant.
type ClientCredentialsRequest struct {
	ClientID     string `validate:"required"`
	ClientSecret string `validate:"required"`
	Scope        string `validate:"required"`
	GrantType    string `validate:"required,eq=client_credentials"`
}
