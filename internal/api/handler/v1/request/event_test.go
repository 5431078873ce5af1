package request_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/attendly/attendance-api/internal/api/handler/v1/request"
)

func validCreateEventRequest() request.CreateEventRequest {
	return request.CreateEventRequest{
		Name:      "GopherCon 2024",
		Date:      "2024-06-15T09:00:00Z",
		ClaimCode: "CONF24",
	}
}

func TestCreateEventRequest_Validate(t *testing.T) {
	req := validCreateEventRequest()

	assert.NoError(t, req.Validate())
}

func TestCreateEventRequest_ClaimCodeShapes(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		valid bool
	}{
		{"letters and digits", "CONF24", true},
		{"lowercase accepted", "conf24", true},
		{"minimum length", "AB12", true},
		{"maximum length", "ABCDEFGH12345678", true},
		{"too short", "A1", false},
		{"too long", "ABCDEFGH123456789", false},
		{"letters only", "CONFERENCE", false},
		{"digits only", "20240615", false},
		{"punctuation", "CONF-24", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateEventRequest()
			req.ClaimCode = tt.code

			err := req.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCreateEventRequest_InvalidDate(t *testing.T) {
	req := validCreateEventRequest()
	req.Date = "June 15th 2024"

	assert.Error(t, req.Validate())
}

func TestCreateEventRequest_InvalidMaxSupply(t *testing.T) {
	zero := 0
	req := validCreateEventRequest()
	req.MaxSupply = &zero

	assert.Error(t, req.Validate())
}

func TestCreateEventRequest_ParsedDate(t *testing.T) {
	req := validCreateEventRequest()

	date := req.ParsedDate()

	assert.Equal(t, 2024, date.Year())
	assert.Equal(t, "2024-06-15T09:00:00Z", date.Format("2006-01-02T15:04:05Z07:00"))
}

func TestUpdateEventRequest_Validate(t *testing.T) {
	name := "Updated"
	date := "2024-07-01T09:00:00Z"
	req := request.UpdateEventRequest{Name: &name, Date: &date}

	assert.NoError(t, req.Validate())
}

func TestUpdateEventRequest_InvalidFields(t *testing.T) {
	shortName := "A"
	badDate := "yesterday"
	zero := 0

	assert.Error(t, (&request.UpdateEventRequest{Name: &shortName}).Validate())
	assert.Error(t, (&request.UpdateEventRequest{Date: &badDate}).Validate())
	assert.Error(t, (&request.UpdateEventRequest{MaxSupply: &zero}).Validate())
}
