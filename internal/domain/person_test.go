package domain

import (
	"encoding/json"
	"encoding/xml"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPerson() Person {
	return Person{
		PID:       1234,
		FirstName: "Ada",
		LastName:  "Lovelace",
		DOB:       NewDate(1980, time.December, 10),
		StartDate: NewDate(2010, time.March, 1),
	}
}

func TestPersonValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Person)
		wantErr error
	}{
		{"valid", func(*Person) {}, nil},
		{"zero pid", func(p *Person) { p.PID = 0 }, ErrInvalidPersonID},
		{"blank last name", func(p *Person) { p.LastName = "  " }, ErrEmptyPersonLastName},
		{"start before birth", func(p *Person) { p.StartDate = NewDate(1970, time.January, 1) }, ErrStartBeforeBirth},
		{"unknown dates", func(p *Person) { p.DOB = Date{}; p.StartDate = Date{} }, nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := validPerson()
			tt.mutate(&p)
			if tt.wantErr == nil {
				assert.NoError(t, p.Validate())
				return
			}
			assert.ErrorIs(t, p.Validate(), tt.wantErr)
		})
	}
}

func TestPersonProperty(t *testing.T) {
	t.Parallel()

	p := validPerson()
	for _, name := range PersonProperties {
		_, ok := p.Property(name)
		assert.True(t, ok, name)
	}

	v, ok := p.Property(PersonLastName)
	require.True(t, ok)
	assert.Equal(t, "Lovelace", v)

	_, ok = p.Property("salary")
	assert.False(t, ok)
}

func TestPersonJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(validPerson())
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"pid":1234,"firstName":"Ada","lastName":"Lovelace","dob":"1980-12-10","startDate":"2010-03-01"}`,
		string(b))
}

func TestDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2001-02-03")
	require.NoError(t, err)
	assert.Equal(t, "2001-02-03", d.String())

	_, err = ParseDate("03/02/2001")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	var scanned Date
	require.NoError(t, scanned.Scan(time.Date(2001, 2, 3, 15, 4, 5, 0, time.FixedZone("X", 3600))))
	assert.Equal(t, d, scanned)

	require.NoError(t, scanned.Scan([]byte("1999-12-31")))
	assert.Equal(t, "1999-12-31", scanned.String())

	assert.ErrorIs(t, scanned.Scan(42), ErrInvalidFormat)

	require.NoError(t, scanned.Scan(nil))
	assert.True(t, scanned.IsZero())

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, d.Time, v)

	out, err := xml.Marshal(struct {
		XMLName xml.Name `xml:"p"`
		D       Date     `xml:"d"`
	}{D: d})
	require.NoError(t, err)
	assert.Equal(t, "<p><d>2001-02-03</d></p>", string(out))
}

func TestDateJSONRoundTrip(t *testing.T) {
	t.Parallel()

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2020-05-06"`), &d))
	assert.Equal(t, NewDate(2020, time.May, 6), d)

	assert.Error(t, json.Unmarshal([]byte(`20200506`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"2020-13-01"`), &d))
}
