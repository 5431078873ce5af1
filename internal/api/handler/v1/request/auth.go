package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/dlclark/regexp2"
)

var (
	walletAddressExp = regexp2.MustCompile(`^0x[0-9a-fA-F]{40}$`, regexp2.None)

	errInvalidWalletAddress = errors.New("wallet address must be a 0x-prefixed 40-hex-digit address")
)

type LoginRequest struct {
	DIDToken string `json:"did_token"`
	// WalletAddress optionally overrides the address reported by the
	// identity provider, for users bringing their own wallet.
	WalletAddress string `json:"wallet_address,omitempty"`
}

func (req *LoginRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.DIDToken, validation.Required),
	)
	if err != nil {
		return err
	}

	if req.WalletAddress != "" {
		ok, err := walletAddressExp.MatchString(req.WalletAddress)
		if err != nil || !ok {
			return errInvalidWalletAddress
		}
	}

	return nil
}
