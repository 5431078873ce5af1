package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type ClaimRequest struct {
	ClaimCode string `json:"claim_code"`
}

func (req *ClaimRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ClaimCode, validation.Required, validation.Length(1, 64)),
	)
}
