package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"
)

// DefaultRegion is used when no region is given.
const DefaultRegion = "us-west-2"

// accessDeniedCodes are API error codes reported as ErrAccessDenied.
var accessDeniedCodes = map[string]bool{
	"AccessDeniedException":       true,
	"UnrecognizedClientException": true,
	"InvalidSignatureException":   true,
	"ExpiredTokenException":       true,
}

// SecretsManagerAPI is the subset of the Secrets Manager client used here.
// Tests substitute a fake.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Config holds the settings used to build a Client.
// Static credentials are only used when both keys are set; otherwise the
// default AWS credential chain applies.
type Config struct {
	Region          string
	Endpoint        string // LocalStack or testing
	AccessKeyID     string
	SecretAccessKey string
}

// Client retrieves secrets from one region.
type Client struct {
	api    SecretsManagerAPI
	region string
}

// Option configures a Client.
type Option func(*Client)

// WithAPI sets the Secrets Manager implementation, skipping AWS config
// loading.
func WithAPI(api SecretsManagerAPI) Option {
	return func(c *Client) {
		c.api = api
	}
}

// New builds a Client for cfg.Region (DefaultRegion when empty).
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	c := &Client{region: cfg.Region}
	if c.region == "" {
		c.region = DefaultRegion
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.api != nil {
		return c, nil
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(c.region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	var clientOpts []func(*secretsmanager.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *secretsmanager.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	c.api = secretsmanager.NewFromConfig(awsCfg, clientOpts...)

	return c, nil
}

// Region returns the region the client reads from.
func (c *Client) Region() string {
	return c.region
}

// GetSecret returns the current value of the named secret.
//
// The string value is returned when present; otherwise the binary value
// is returned decoded as UTF-8. A secret with neither yields ErrEmptySecret.
func (c *Client) GetSecret(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", ErrInvalidName
	}

	out, err := c.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return "", classify(err, name)
	}

	switch {
	case out.SecretString != nil:
		return *out.SecretString, nil
	case out.SecretBinary != nil:
		if !utf8.Valid(out.SecretBinary) {
			return "", fmt.Errorf("secret %q: binary value is not valid UTF-8", name)
		}
		return string(out.SecretBinary), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrEmptySecret, name)
	}
}

// GetSecretJSON reads a secret holding a JSON object and returns the value
// under key. Non-string values are returned in their JSON encoding.
func (c *Client) GetSecretJSON(ctx context.Context, name, key string) (string, error) {
	raw, err := c.GetSecret(ctx, name)
	if err != nil {
		return "", err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return "", fmt.Errorf("secret %q is not a JSON object: %w", name, err)
	}

	value, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %q in %q", ErrKeyNotFound, key, name)
	}

	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s, nil
	}
	return string(value), nil
}

// GetSecret retrieves a secret from region (DefaultRegion when empty)
// using the default AWS credential chain.
func GetSecret(ctx context.Context, name, region string) (string, error) {
	c, err := New(ctx, Config{Region: region})
	if err != nil {
		return "", err
	}
	return c.GetSecret(ctx, name)
}

// classify maps AWS errors onto the package sentinels.
func classify(err error, name string) error {
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %q: %w", ErrSecretNotFound, name, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && accessDeniedCodes[apiErr.ErrorCode()] {
		return fmt.Errorf("%w: %q: %w", ErrAccessDenied, name, err)
	}

	return fmt.Errorf("getting secret %q: %w", name, err)
}
