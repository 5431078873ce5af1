// Package magicauth validates Magic DID tokens. Login-link delivery happens
// entirely on the Magic side; this package only verifies the resulting
// token and extracts the identity it proves.
package magicauth

import (
	"fmt"

	magic "github.com/magiclabs/magic-admin-go"
	magicclient "github.com/magiclabs/magic-admin-go/client"
	"github.com/magiclabs/magic-admin-go/token"

	"github.com/attendly/attendance-api/internal/config"
	"github.com/attendly/attendance-api/internal/service"
)

type Verifier struct {
	client *magicclient.API
}

func NewVerifier(conf *config.MagicConfig) *Verifier {
	return &Verifier{
		client: magicclient.New(conf.SecretKey, magic.NewDefaultClient()),
	}
}

func (v *Verifier) Verify(didToken string) (service.VerifiedIdentity, error) {
	tk, err := token.NewToken(didToken)
	if err != nil {
		return service.VerifiedIdentity{}, fmt.Errorf("token.NewToken -> %w", err)
	}

	if err = tk.Validate(); err != nil {
		return service.VerifiedIdentity{}, fmt.Errorf("tk.Validate -> %w", err)
	}

	meta, err := v.client.User.GetMetadataByIssuer(tk.GetIssuer())
	if err != nil {
		return service.VerifiedIdentity{}, fmt.Errorf("v.client.User.GetMetadataByIssuer -> %w", err)
	}

	return service.VerifiedIdentity{
		Email:         meta.Email,
		WalletAddress: meta.PublicAddress,
	}, nil
}
