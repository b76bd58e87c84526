package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	version "github.com/hashicorp/go-version"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// CocConfig represents the configuration required to create a Clash of Clans session.
type CocConfig struct {
	BearerToken  string         `yaml:"bearer_token" validate:"required"` // API key issued by the developer portal.
	Endpoint     string         `yaml:"endpoint" validate:"required,url"` // Base URL of the API, without the version segment.
	ApiVersion   string         `yaml:"api_version" validate:"required"`  // Version path segment, e.g. "v1".
	ExtractItems *bool          `yaml:"extract_items"`                    // Normalize responses (default) or return raw transport responses.
	RespectProxy bool           `yaml:"respect_proxy"`                    // Whether to respect HTTP_PROXY, HTTPS_PROXY and NO_PROXY.
	Timeout      *time.Duration `yaml:"timeout"`                          // HTTP client timeout. If nil, a default is applied by validators.
	UserAgent    string         `yaml:"user_agent"`                       // Optional custom User-Agent header.
	StrictRoutes bool           `yaml:"strict_routes"`                    // Reject calls whose path is not a documented API route.

	// Transport optionally replaces the default HTTP transport (e.g. for tests or custom TLS).
	Transport http.RoundTripper `yaml:"-"`

	// Logger receives request and response logs. If nil, one is derived from the COC_LOG
	// environment variable ("debug" or "info"); an empty variable disables logging.
	Logger *zap.Logger `yaml:"-"`

	// BeforeRequestFn is an optional function hook executed before an API request is sent.
	// It allows for request inspection, mutation, or logging.
	//
	// Parameters:
	//   - ctx: The request context for managing deadlines and cancellations.
	//   - req: Request object
	//   - verb: The HTTP method (GET or POST).
	//   - url: The rendered URL (path and query parameters).
	//
	// Return:
	//   - error: Any error returned will abort the request.
	BeforeRequestFn func(ctx context.Context, r *http.Request, verb, url string) error `yaml:"-"`

	// AfterRequestFn is an optional function hook executed after a response was normalized.
	// It can be used for post-processing, transformation, or logging of the response.
	//
	// Returns:
	//   - A potentially modified Result.
	//   - An error, if processing the response fails.
	AfterRequestFn func(ctx context.Context, response Result) (Result, error) `yaml:"-"`
}

// CocConfigFunc defines a function that can modify or validate a CocConfig.
type CocConfigFunc func(*CocConfig) error

// Validate applies the given CocConfigFunc validators to the config in order
// and stops at the first failure.
func (config *CocConfig) Validate(validators ...CocConfigFunc) error {
	for _, fn := range validators {
		if err := fn(config); err != nil {
			return err
		}
	}
	return nil
}

// DefaultValidators returns the validator chain used by NewCocSession callers.
func DefaultValidators() []CocConfigFunc {
	return []CocConfigFunc{
		WithEndpoint(DefaultEndpoint),
		WithApiVersion(DefaultApiVersion),
		WithExtractItems(true),
		WithTimeout(30 * time.Second),
		WithAuth,
		WithUserAgent,
		WithLogger,
		WithStructValidation,
	}
}

// WithEndpoint returns a CocConfigFunc that sets a default endpoint if none is provided.
// A trailing slash is stripped so that URL joining never produces "//".
func WithEndpoint(defaultEndpoint string) CocConfigFunc {
	return func(config *CocConfig) error {
		if config.Endpoint == "" {
			config.Endpoint = defaultEndpoint
		}
		config.Endpoint = strings.TrimRight(config.Endpoint, "/")
		return nil
	}
}

// WithApiVersion sets a default API version and validates it.
// Both "v1" and "1" are accepted; the stored form is always prefixed with "v".
func WithApiVersion(defaultVer string) CocConfigFunc {
	return func(config *CocConfig) error {
		if config.ApiVersion == "" {
			config.ApiVersion = defaultVer
		}
		normalized, err := normalizeApiVersion(config.ApiVersion)
		if err != nil {
			return err
		}
		config.ApiVersion = normalized
		return nil
	}
}

func normalizeApiVersion(apiVersion string) (string, error) {
	raw := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(apiVersion)), "v")
	if _, err := version.NewVersion(raw); err != nil {
		return "", fmt.Errorf("invalid api version %q: %w", apiVersion, err)
	}
	return "v" + raw, nil
}

// WithExtractItems returns a CocConfigFunc that sets the response extraction mode
// if not explicitly provided.
func WithExtractItems(extract bool) CocConfigFunc {
	return func(config *CocConfig) error {
		if config.ExtractItems == nil {
			config.ExtractItems = &extract
		}
		return nil
	}
}

// WithTimeout returns a CocConfigFunc that sets a default timeout if none is provided.
func WithTimeout(timeout time.Duration) CocConfigFunc {
	return func(config *CocConfig) error {
		if config.Timeout == nil {
			config.Timeout = &timeout
		}
		return nil
	}
}

// WithAuth validates that a bearer token is provided.
func WithAuth(config *CocConfig) error {
	if strings.TrimSpace(config.BearerToken) == "" {
		return errors.New("bearer token must be provided")
	}
	return nil
}

// WithUserAgent sets a default User-Agent header if none is provided in the config.
func WithUserAgent(config *CocConfig) error {
	if config.UserAgent == "" {
		config.UserAgent = defaultUserAgent()
	}
	return nil
}

// WithLogger installs a logger derived from the COC_LOG environment variable
// when the config does not carry one.
func WithLogger(config *CocConfig) error {
	if config.Logger != nil {
		return nil
	}
	logger, err := newLogger(os.Getenv("COC_LOG"))
	if err != nil {
		return err
	}
	config.Logger = logger
	return nil
}

// WithStructValidation checks the `validate` struct tags of the config.
// It should run after the defaulting validators.
func WithStructValidation(config *CocConfig) error {
	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfigFile reads a YAML config file. ${VAR} references are expanded from
// the environment before parsing, so tokens can stay out of the file.
func LoadConfigFile(path string) (*CocConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML config data with environment expansion.
func ParseConfig(data []byte) (*CocConfig, error) {
	expanded := os.Expand(string(data), os.Getenv)
	config := &CocConfig{}
	if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}
