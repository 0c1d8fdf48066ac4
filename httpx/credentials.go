package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/oauth"
	"github.com/mbolis/work-requests/config"
	"github.com/mbolis/work-requests/store"
	"golang.org/x/crypto/bcrypt"
)

const refreshTokenTTL = 8760 * time.Hour

var errNotAdmin = errors.New("user is not an administrator")

type credentialsVerifier struct {
	store *store.Store
	cfg   config.Config
}

func CredentialsVerifier(st *store.Store, cfg config.Config) oauth.CredentialsVerifier {
	return &credentialsVerifier{st, cfg}
}

func NewBearerServer(st *store.Store, cfg config.Config) *oauth.BearerServer {
	return oauth.NewBearerServer(cfg.TokenSecret, cfg.TokenTTL, CredentialsVerifier(st, cfg), nil)
}

func (cs *credentialsVerifier) ValidateUser(username string, password string, scope string, r *http.Request) error {
	if !cs.cfg.IsAdmin(username) {
		return errNotAdmin
	}
	hash, err := cs.store.PasswordHash(r.Context(), username)
	if err != nil {
		return err
	}

	return bcrypt.CompareHashAndPassword(hash, []byte(password))
}
func (cs *credentialsVerifier) StoreTokenID(tokenType oauth.TokenType, credential string, tokenID string, refreshTokenID string) error {
	return cs.store.StoreToken(context.Background(), credential, tokenID, refreshTokenID, time.Now().UTC().Add(refreshTokenTTL))
}
func (cs *credentialsVerifier) ValidateTokenID(tokenType oauth.TokenType, credential string, tokenID string, refreshTokenID string) error {
	if !cs.cfg.IsAdmin(credential) {
		return errNotAdmin
	}
	if err := cs.store.ConsumeToken(context.Background(), credential, tokenID, refreshTokenID); err != nil {
		return errors.New("could not refresh")
	}
	return nil
}
func (*credentialsVerifier) AddClaims(tokenType oauth.TokenType, credential string, tokenID string, scope string, r *http.Request) (map[string]string, error) {
	return map[string]string{"roles": "admin"}, nil
}
func (*credentialsVerifier) AddProperties(tokenType oauth.TokenType, credential string, tokenID string, scope string, r *http.Request) (map[string]string, error) {
	return map[string]string{}, nil
}
func (*credentialsVerifier) ValidateClient(clientID string, clientSecret string, scope string, r *http.Request) error {
	return errors.New("not supported")
}
