// Package publisher persists metadata documents and images to
// content-addressed storage. Publishing identical content twice yields the
// same URI, so re-publication is a no-op upstream.
package publisher

import "context"

// Publisher is the content-publishing capability the claim workflow consumes.
type Publisher interface {
	// PublishJSON stores the document and returns a content-addressed URI.
	PublishJSON(ctx context.Context, doc interface{}) (string, error)
	// PublishBytes stores raw bytes under a display name and returns a
	// content-addressed URI.
	PublishBytes(ctx context.Context, data []byte, name string) (string, error)
	// ResolveGatewayURL rewrites a content-addressed URI into an
	// HTTP-fetchable URL. URIs not using the publisher's scheme pass
	// through unchanged.
	ResolveGatewayURL(uri string) string
}
