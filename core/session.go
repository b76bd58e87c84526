package core

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// RESTSession performs HTTP exchanges for ApiCall. It is the transport
// collaborator: it renders nothing, it only sends what it is given.
type RESTSession interface {
	Do(ctx context.Context, verb, url string, headers http.Header) (*RawResponse, error)
	GetConfig() *CocConfig
	GetAuthenticator() Authenticator
}

type CocSession struct {
	config *CocConfig
	client *http.Client
	auth   Authenticator
}

// NewCocSession creates a session from a validated config.
func NewCocSession(config *CocConfig) (*CocSession, error) {
	if config == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if config.Logger == nil {
		if err := WithLogger(config); err != nil {
			return nil, err
		}
	}
	transport := config.Transport
	if transport == nil {
		defaultTransport := http.DefaultTransport.(*http.Transport).Clone()
		if !config.RespectProxy {
			defaultTransport.Proxy = nil
		}
		transport = defaultTransport
	}
	client := &http.Client{Transport: transport}
	if config.Timeout != nil {
		client.Timeout = *config.Timeout
	}
	authenticator, err := createAuthenticator(config)
	if err != nil {
		return nil, err
	}
	return &CocSession{
		config: config,
		client: client,
		auth:   authenticator,
	}, nil
}

func (s *CocSession) GetConfig() *CocConfig {
	return s.config
}

func (s *CocSession) GetAuthenticator() Authenticator {
	return s.auth
}

// Do performs one HTTP request. Transport failures are returned as *TransportError;
// any HTTP status, including 4xx and 5xx, is a successful exchange.
func (s *CocSession) Do(ctx context.Context, verb, url string, headers http.Header) (*RawResponse, error) {
	req, err := http.NewRequestWithContext(ctx, verb, url, nil)
	if err != nil {
		return nil, err
	}
	if err = setupHeaders(s, req, headers); err != nil {
		return nil, err
	}
	if err = doBeforeRequest(ctx, s.config, req, verb, url); err != nil {
		return nil, err
	}
	response, err := s.client.Do(req)
	if err != nil {
		return nil, &TransportError{Method: verb, URL: url, Err: err}
	}
	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &TransportError{Method: verb, URL: url, Err: err}
	}
	return &RawResponse{
		Status: response.StatusCode,
		Header: response.Header,
		Body:   body,
		Method: verb,
		URL:    url,
	}, nil
}

// setupHeaders applies the caller headers, then the defaults that are still missing,
// then the authentication header.
func setupHeaders(s RESTSession, r *http.Request, headers http.Header) error {
	for key, values := range headers {
		for _, value := range values {
			r.Header.Add(key, value)
		}
	}
	if r.Header.Get(HeaderAccept) == "" {
		r.Header.Set(HeaderAccept, ContentTypeJSON)
	}
	if r.Header.Get(HeaderUserAgent) == "" && s.GetConfig().UserAgent != "" {
		r.Header.Set(HeaderUserAgent, s.GetConfig().UserAgent)
	}
	if auth := s.GetAuthenticator(); auth != nil {
		auth.setAuthHeader(&r.Header)
	}
	return nil
}
