package publisher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendance-api/internal/config"
)

func newTestPublisher(serverURL string) *PinataPublisher {
	p := NewPinataPublisher(&config.PinataConfig{
		JWT:        "test-jwt",
		GatewayURL: "https://gateway.example.com",
	})
	p.baseURL = serverURL

	return p
}

func TestPublishJSON(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]string{"IpfsHash": "QmTestHash"})
	}))
	defer server.Close()

	p := newTestPublisher(server.URL)

	uri, err := p.PublishJSON(context.Background(), map[string]string{"name": "badge"})

	require.NoError(t, err)
	assert.Equal(t, "ipfs://QmTestHash", uri)
	assert.Equal(t, "/pinning/pinJSONToIPFS", gotPath)
	assert.Equal(t, "Bearer test-jwt", gotAuth)
	assert.Equal(t, "badge", gotBody["name"])
}

func TestPublishJSON_KeyPairAuth(t *testing.T) {
	var gotKey, gotSecret string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("pinata_api_key")
		gotSecret = r.Header.Get("pinata_secret_api_key")

		_ = json.NewEncoder(w).Encode(map[string]string{"IpfsHash": "QmTestHash"})
	}))
	defer server.Close()

	p := NewPinataPublisher(&config.PinataConfig{APIKey: "key", APISecret: "secret"})
	p.baseURL = server.URL

	_, err := p.PublishJSON(context.Background(), map[string]string{})

	require.NoError(t, err)
	assert.Equal(t, "key", gotKey)
	assert.Equal(t, "secret", gotSecret)
}

func TestPublishJSON_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := newTestPublisher(server.URL)

	_, err := p.PublishJSON(context.Background(), map[string]string{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestPublishJSON_EmptyHash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	p := newTestPublisher(server.URL)

	_, err := p.PublishJSON(context.Background(), map[string]string{})

	require.Error(t, err)
}

func TestPublishBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "badge.png", header.Filename)
		assert.Equal(t, "/pinning/pinFileToIPFS", r.URL.Path)

		_ = json.NewEncoder(w).Encode(map[string]string{"IpfsHash": "QmFileHash"})
	}))
	defer server.Close()

	p := newTestPublisher(server.URL)

	uri, err := p.PublishBytes(context.Background(), []byte("png bytes"), "badge.png")

	require.NoError(t, err)
	assert.Equal(t, "ipfs://QmFileHash", uri)
}

func TestResolveGatewayURL(t *testing.T) {
	p := NewPinataPublisher(&config.PinataConfig{GatewayURL: "https://gateway.example.com/"})

	tests := []struct {
		name string
		uri  string
		want string
	}{
		{"ipfs uri", "ipfs://QmHash", "https://gateway.example.com/ipfs/QmHash"},
		{"https passthrough", "https://cdn.example.com/img.png", "https://cdn.example.com/img.png"},
		{"relative passthrough", "/placeholder.svg?height=500", "/placeholder.svg?height=500"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.ResolveGatewayURL(tt.uri))
		})
	}
}

func TestResolveGatewayURL_DefaultGateway(t *testing.T) {
	p := NewPinataPublisher(&config.PinataConfig{})

	assert.Equal(t, "https://gateway.pinata.cloud/ipfs/QmHash", p.ResolveGatewayURL("ipfs://QmHash"))
}
