package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/tweetsched/tweetsched/pkg/logger"
)

// OAuthConfig describes the Twitter OAuth 2.0 application settings.
type OAuthConfig struct {
	ClientID     string        `env:"TWITTER_CLIENT_ID,required"`
	ClientSecret string        `env:"TWITTER_CLIENT_SECRET,required"`
	CallbackURL  string        `env:"TWITTER_CALLBACK_URL,required"`
	AuthURL      string        `env:"TWITTER_AUTH_URL" envDefault:"https://twitter.com/i/oauth2/authorize"`
	TokenURL     string        `env:"TWITTER_TOKEN_URL" envDefault:"https://api.twitter.com/2/oauth2/token"`
	UserInfoURL  string        `env:"TWITTER_USERINFO_URL" envDefault:"https://api.twitter.com/2/users/me"`
	StateTTL     time.Duration `env:"TWITTER_OAUTH_STATE_TTL" envDefault:"10m"`
}

// OAuthService implements the Twitter OAuth 2.0 + PKCE handshake and
// persists the resulting credentials through the user repository. It is
// transport glue around the scheduling core, not part of it.
type OAuthService struct {
	oauth       *oauth2.Config
	userInfoURL string
	repo        Repository
	states      *stateStore
	log         *slog.Logger
}

// NewOAuthService creates the OAuth glue service.
func NewOAuthService(cfg OAuthConfig, repo Repository, log *slog.Logger) *OAuthService {
	if log == nil {
		log = slog.Default()
	}
	return &OAuthService{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"tweet.read", "tweet.write", "users.read", "offline.access"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		userInfoURL: cfg.UserInfoURL,
		repo:        repo,
		states:      newStateStore(cfg.StateTTL),
		log:         log,
	}
}

// Begin redirects the browser to the provider's consent page. The PKCE
// verifier is held server-side, keyed by the state parameter.
func (s *OAuthService) Begin(w http.ResponseWriter, r *http.Request) {
	state := oauth2.GenerateVerifier()
	verifier := oauth2.GenerateVerifier()
	s.states.Put(state, verifier)

	url := s.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// Callback completes the handshake: validates the single-use state,
// exchanges the code, resolves the provider account id, and upserts the
// user with fresh credentials.
func (s *OAuthService) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")

	verifier, ok := s.states.Take(state)
	if !ok {
		s.log.ErrorContext(ctx, "oauth callback with unknown state")
		writeOAuthError(w, http.StatusBadRequest, "invalid authentication state")
		return
	}

	token, err := s.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		s.log.ErrorContext(ctx, "oauth code exchange failed", logger.Error(err))
		writeOAuthError(w, http.StatusInternalServerError, "authentication failed")
		return
	}

	twitterID, err := s.fetchTwitterID(ctx, token)
	if err != nil {
		s.log.ErrorContext(ctx, "fetching authenticated user failed", logger.Error(err))
		writeOAuthError(w, http.StatusInternalServerError, "authentication failed")
		return
	}

	user, err := s.repo.UpsertByTwitterID(ctx, twitterID, token.AccessToken, token.RefreshToken)
	if err != nil {
		s.log.ErrorContext(ctx, "persisting user credentials failed", logger.Error(err))
		writeOAuthError(w, http.StatusInternalServerError, "authentication failed")
		return
	}

	s.log.InfoContext(ctx, "oauth login completed", logger.UserID(user.ID))

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message": "Authentication successful",
		"user_id": user.ID,
	})
}

type userInfoResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (s *OAuthService) fetchTwitterID(ctx context.Context, token *oauth2.Token) (string, error) {
	client := s.oauth.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return "", fmt.Errorf("build userinfo request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("fetch userinfo: status %d: %s", resp.StatusCode, detail)
	}

	var info userInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Data.ID == "" {
		return "", errors.New("userinfo response missing account id")
	}
	return info.Data.ID, nil
}

func writeOAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
