package publisher

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/attendly/attendance-api/internal/config"
)

const s3Scheme = "cas://"

// S3Publisher stores content in an S3-compatible bucket keyed by the
// sha256 of the content, which makes publishing idempotent by content.
// Works against AWS S3 and Cloudflare R2.
type S3Publisher struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

func NewS3Publisher(ctx context.Context, conf *config.StorageConfig) (*S3Publisher, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(conf.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			conf.AccessKeyID, conf.AccessKeySecret, "",
		)),
	}
	if conf.Endpoint != "" {
		endpoint := conf.Endpoint
		opts = append(opts, awsconfig.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{URL: endpoint}, nil
			}),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("awsconfig.LoadDefaultConfig -> %w", err)
	}

	return &S3Publisher{
		client:        s3.NewFromConfig(cfg),
		bucket:        conf.Bucket,
		publicBaseURL: strings.TrimRight(conf.PublicBaseURL, "/"),
	}, nil
}

func (p *S3Publisher) PublishJSON(ctx context.Context, doc interface{}) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("json.Marshal -> %w", err)
	}

	return p.put(ctx, body, "application/json")
}

func (p *S3Publisher) PublishBytes(ctx context.Context, data []byte, name string) (string, error) {
	return p.put(ctx, data, "application/octet-stream")
}

func (p *S3Publisher) ResolveGatewayURL(uri string) string {
	if !strings.HasPrefix(uri, s3Scheme) {
		return uri
	}

	return p.publicBaseURL + "/" + strings.TrimPrefix(uri, s3Scheme)
}

func (p *S3Publisher) put(ctx context.Context, data []byte, contentType string) (string, error) {
	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("p.client.PutObject -> %w", err)
	}

	return s3Scheme + key, nil
}
