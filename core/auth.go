package core

import (
	"errors"
	"net/http"
)

// Authenticator decorates outgoing requests with credentials.
type Authenticator interface {
	setAuthHeader(headers *http.Header)
	equal(other Authenticator) bool
}

// createAuthenticator creates the Authenticator for a session.
// The API only supports static bearer tokens (developer API keys).
func createAuthenticator(config *CocConfig) (Authenticator, error) {
	if config.BearerToken == "" {
		return nil, errors.New("createAuthenticator: bearer token is not provided")
	}
	return &BearerAuthenticator{Token: config.BearerToken}, nil
}

type BearerAuthenticator struct {
	Token string
}

// setAuthHeader sets "Authorization: Bearer <token>" unless the request already
// carries credentials (an ApiCall renders its own token).
func (auth *BearerAuthenticator) setAuthHeader(headers *http.Header) {
	if headers.Get(HeaderAuthorization) != "" {
		return
	}
	headers.Set(HeaderAuthorization, AuthTypeBearer+" "+auth.Token)
}

func (auth *BearerAuthenticator) equal(other Authenticator) bool {
	otherAuth, ok := other.(*BearerAuthenticator)
	if !ok {
		return false
	}
	return auth.Token == otherAuth.Token
}
