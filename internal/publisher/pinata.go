package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/attendly/attendance-api/internal/config"
)

const (
	pinataBaseURL        = "https://api.pinata.cloud"
	defaultPinataGateway = "https://gateway.pinata.cloud"

	ipfsScheme = "ipfs://"
)

// PinataPublisher pins content to IPFS through the Pinata API. The returned
// URIs use the ipfs:// scheme with the content hash as the path.
type PinataPublisher struct {
	baseURL    string
	gatewayURL string
	jwt        string
	apiKey     string
	apiSecret  string
	client     *http.Client
}

func NewPinataPublisher(conf *config.PinataConfig) *PinataPublisher {
	gateway := conf.GatewayURL
	if gateway == "" {
		gateway = defaultPinataGateway
	}

	return &PinataPublisher{
		baseURL:    pinataBaseURL,
		gatewayURL: strings.TrimRight(gateway, "/"),
		jwt:        conf.JWT,
		apiKey:     conf.APIKey,
		apiSecret:  conf.APISecret,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

type pinataPinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

func (p *PinataPublisher) PublishJSON(ctx context.Context, doc interface{}) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("json.Marshal -> %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/pinning/pinJSONToIPFS", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	p.authorize(req)

	hash, err := p.doPin(req)
	if err != nil {
		return "", err
	}

	return ipfsScheme + hash, nil
}

func (p *PinataPublisher) PublishBytes(ctx context.Context, data []byte, name string) (string, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("writer.CreateFormFile -> %w", err)
	}
	if _, err = part.Write(data); err != nil {
		return "", fmt.Errorf("part.Write -> %w", err)
	}
	if err = writer.Close(); err != nil {
		return "", fmt.Errorf("writer.Close -> %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/pinning/pinFileToIPFS", &buf)
	if err != nil {
		return "", fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	p.authorize(req)

	hash, err := p.doPin(req)
	if err != nil {
		return "", err
	}

	return ipfsScheme + hash, nil
}

// ResolveGatewayURL rewrites an ipfs:// URI into a gateway URL. Anything
// else passes through unchanged.
func (p *PinataPublisher) ResolveGatewayURL(uri string) string {
	if !strings.HasPrefix(uri, ipfsScheme) {
		return uri
	}

	return p.gatewayURL + "/ipfs/" + strings.TrimPrefix(uri, ipfsScheme)
}

func (p *PinataPublisher) authorize(req *http.Request) {
	if p.jwt != "" {
		req.Header.Set("Authorization", "Bearer "+p.jwt)
		return
	}

	req.Header.Set("pinata_api_key", p.apiKey)
	req.Header.Set("pinata_secret_api_key", p.apiSecret)
}

func (p *PinataPublisher) doPin(req *http.Request) (string, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("p.client.Do -> %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("pinata returned status %v: %v", resp.StatusCode, string(body))
	}

	var pinResp pinataPinResponse
	if err = json.NewDecoder(resp.Body).Decode(&pinResp); err != nil {
		return "", fmt.Errorf("json.Decode -> %w", err)
	}
	if pinResp.IpfsHash == "" {
		return "", fmt.Errorf("pinata returned an empty hash")
	}

	return pinResp.IpfsHash, nil
}
