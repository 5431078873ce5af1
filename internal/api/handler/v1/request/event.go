package request

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/dlclark/regexp2"
)

// Claim codes are entered by attendees, so creation enforces a shape that
// is unambiguous to type: 4-16 upper-case alphanumerics with at least one
// letter and one digit. Lookup stays case-insensitive.
const claimCodePattern = `^(?=.*[A-Z])(?=.*\d)[A-Z0-9]{4,16}$`

var (
	claimCodeExp = regexp2.MustCompile(claimCodePattern, regexp2.None)

	errInvalidClaimCode = errors.New("claim code must be 4-16 upper-case letters and digits, with at least one of each")
	errInvalidDate      = errors.New("date must be a valid RFC 3339 timestamp")
	errInvalidMaxSupply = errors.New("max supply must be greater than zero")
)

type CreateEventRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	Location    string `json:"location,omitempty"`
	ClaimCode   string `json:"claim_code"`
	MaxSupply   *int   `json:"max_supply,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

func (req *CreateEventRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 120)),
		validation.Field(&req.Date, validation.Required),
		validation.Field(&req.ClaimCode, validation.Required),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.Location, validation.Length(0, 200)),
	)
	if err != nil {
		return err
	}

	if _, err = time.Parse(time.RFC3339, req.Date); err != nil {
		return errInvalidDate
	}

	ok, err := claimCodeExp.MatchString(strings.ToUpper(req.ClaimCode))
	if err != nil || !ok {
		return errInvalidClaimCode
	}

	if req.MaxSupply != nil && *req.MaxSupply <= 0 {
		return errInvalidMaxSupply
	}

	return nil
}

func (req *CreateEventRequest) ParsedDate() time.Time {
	date, _ := time.Parse(time.RFC3339, req.Date)
	return date
}

type UpdateEventRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
	Location    *string `json:"location,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	MaxSupply   *int    `json:"max_supply,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

func (req *UpdateEventRequest) Validate() error {
	if req.Name != nil {
		if err := validation.Validate(*req.Name, validation.Required, validation.Length(2, 120)); err != nil {
			return err
		}
	}
	if req.Date != nil {
		if _, err := time.Parse(time.RFC3339, *req.Date); err != nil {
			return errInvalidDate
		}
	}
	if req.MaxSupply != nil && *req.MaxSupply <= 0 {
		return errInvalidMaxSupply
	}

	return nil
}
