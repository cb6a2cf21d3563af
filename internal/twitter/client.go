// Package twitter fetches tweet texts from the Twitter v1.1 search API.
package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// AuthMode selects how the client authenticates.
type AuthMode string

const (
	// AuthModeUser signs each request with OAuth 1.0a using all four credentials.
	AuthModeUser AuthMode = "user"
	// AuthModeApp exchanges the consumer key and secret for an app-only bearer token.
	AuthModeApp AuthMode = "app"
)

const (
	DefaultBaseURL = "https://api.twitter.com"
	ResultCount    = 20 // results requested and returned per search
	DefaultTimeout = 10 * time.Second

	searchPath = "/1.1/search/tweets.json"
	tokenPath  = "/oauth2/token"
)

// Config holds the credentials and endpoint settings for the client.
type Config struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string

	BaseURL  string
	AuthMode AuthMode
	Timeout  time.Duration
}

// Client is a synchronous Twitter search client.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a client. Credentials are checked on every FetchResults call so a
// misconfigured process still starts and reports the failure per request.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.AuthMode == "" {
		cfg.AuthMode = AuthModeUser
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		cfg:        cfg,
		httpClient: newHTTPClient(cfg),
		logger:     logger,
	}
}

func newHTTPClient(cfg Config) *http.Client {
	base := &http.Client{Timeout: cfg.Timeout}

	var client *http.Client
	switch cfg.AuthMode {
	case AuthModeApp:
		cc := &clientcredentials.Config{
			ClientID:     cfg.ConsumerKey,
			ClientSecret: cfg.ConsumerSecret,
			TokenURL:     cfg.BaseURL + tokenPath,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		client = cc.Client(context.WithValue(context.Background(), oauth2.HTTPClient, base))
	default:
		oc := oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret)
		token := oauth1.NewToken(cfg.AccessToken, cfg.AccessTokenSecret)
		client = oc.Client(context.WithValue(context.Background(), oauth1.HTTPClient, base), token)
	}
	client.Timeout = cfg.Timeout
	return client
}

type searchResponse struct {
	Statuses []status `json:"statuses"`
}

type status struct {
	IDStr    string `json:"id_str"`
	Text     string `json:"text"`
	FullText string `json:"full_text"`
}

type apiErrorResponse struct {
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchResults returns up to ResultCount tweet texts matching phrase.
// It fails with *AuthenticationError or *QueryError, and never returns a partial list with an error.
func (c *Client) FetchResults(ctx context.Context, phrase string) ([]string, error) {
	if err := c.checkCredentials(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(phrase) == "" {
		return nil, &QueryError{Query: phrase, Message: "query parameters are missing"}
	}

	params := url.Values{}
	params.Set("q", phrase)
	params.Set("count", strconv.Itoa(ResultCount))
	params.Set("tweet_mode", "extended")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+searchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("twitter search", zap.String("phrase", phrase), zap.Int("count", ResultCount))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyResponse(phrase, resp.StatusCode, body)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: unmarshal response: %w", ErrUpstream, err)
	}

	results := make([]string, 0, len(parsed.Statuses))
	for _, s := range parsed.Statuses {
		if len(results) == ResultCount {
			break
		}
		text := s.FullText
		if text == "" {
			text = s.Text
		}
		results = append(results, text)
	}
	return results, nil
}

func (c *Client) checkCredentials() error {
	missing := []string{}
	if c.cfg.ConsumerKey == "" {
		missing = append(missing, "consumer key")
	}
	if c.cfg.ConsumerSecret == "" {
		missing = append(missing, "consumer secret")
	}
	if c.cfg.AuthMode == AuthModeUser {
		if c.cfg.AccessToken == "" {
			missing = append(missing, "access token")
		}
		if c.cfg.AccessTokenSecret == "" {
			missing = append(missing, "access token secret")
		}
	}
	if len(missing) > 0 {
		return &AuthenticationError{Message: "blank credentials: " + strings.Join(missing, ", ")}
	}
	return nil
}

// transportError maps a failed round trip. Token endpoint rejections in app mode
// surface here as *oauth2.RetrieveError.
func (c *Client) transportError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		code := retrieveErr.Response.StatusCode
		if code == http.StatusUnauthorized || code == http.StatusForbidden {
			apiCode, msg := parseAPIError(retrieveErr.Body)
			if msg == "" {
				msg = "token request rejected"
			}
			return &AuthenticationError{StatusCode: code, Code: apiCode, Message: msg, Err: err}
		}
	}
	return fmt.Errorf("%w: do request: %w", ErrUpstream, err)
}

func classifyResponse(phrase string, statusCode int, body []byte) error {
	code, msg := parseAPIError(body)
	if msg == "" {
		msg = http.StatusText(statusCode)
	}

	switch {
	case statusCode == http.StatusUnauthorized || authErrorCodes[code]:
		return &AuthenticationError{StatusCode: statusCode, Code: code, Message: msg}
	case statusCode == http.StatusBadRequest || statusCode == http.StatusForbidden:
		return &QueryError{Query: phrase, StatusCode: statusCode, Code: code, Message: msg}
	default:
		return fmt.Errorf("%w: status %d: %s", ErrUpstream, statusCode, msg)
	}
}

func parseAPIError(body []byte) (int, string) {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || len(apiErr.Errors) == 0 {
		return 0, ""
	}
	return apiErr.Errors[0].Code, apiErr.Errors[0].Message
}
