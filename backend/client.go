package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Cookie names and paths are fixed by the backend service.
const (
	sessionCookieName  = "B1SESSION"
	affinityCookieName = "ROUTEID"

	loginPath  = "/Login"
	logoutPath = "/Logout"

	defaultTimeout = 30 * time.Second
)

// Session represents one authenticated conversation with the backend.
// The client does not hold on to sessions - callers pass the token back in
// on every operation.
type Session struct {
	Token          string
	CompanyID      string
	Version        string
	TimeoutMinutes int
	CreatedAt      time.Time
}

// Client talks the backend's cookie-authenticated REST protocol. It owns the
// outbound transport and the current load-balancer affinity token; everything
// else about a conversation is passed in per call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
	nowTime    func() time.Time

	// affinity is the last ROUTEID value observed from any response. It is
	// deliberately client-scoped rather than session-scoped: one client
	// instance serves one backend cluster behind one load balancer, so every
	// session sharing the instance is pinned to the same node. Last writer
	// wins.
	affinityMu sync.RWMutex
	affinity   string
}

// Option defines a function type to modify a Client instance.
type Option func(*Client)

// WithHTTPClient replaces the owned transport (primarily for testing).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the overall per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets the logger used for non-propagated failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(c *Client) {
		c.nowTime = nowFunc
	}
}

// New creates a Client for the backend service rooted at baseURL.
func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     log.Logger,
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

type loginRequest struct {
	CompanyDB string `json:"CompanyDB"`
	UserName  string `json:"UserName"`
	Password  string `json:"Password"`
}

type loginResponse struct {
	SessionID      string `json:"SessionId"`
	Version        string `json:"Version"`
	SessionTimeout int    `json:"SessionTimeout"`
}

// Login performs the backend's authentication handshake and returns the new
// Session. A best-effort preflight request is issued first so the load
// balancer can assign an affinity token before the credentials go over the
// wire; preflight failures are logged and ignored.
func (c *Client) Login(ctx context.Context, companyID, username, password string) (*Session, error) {
	c.preflight(ctx)

	payload, err := json.Marshal(loginRequest{CompanyDB: companyID, UserName: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("[Client Login] failed to encode credentials: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, loginPath, "", nil, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("[Client Login] failed to read response: %w", err)
	}

	if !successStatus(resp.StatusCode) {
		return nil, newStatusError(AuthenticationFailedErr, "login", resp.StatusCode, string(body))
	}

	var lr loginResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, fmt.Errorf("[Client Login] failed to decode login response: %w", err)
	}

	return &Session{
		Token:          lr.SessionID,
		CompanyID:      companyID,
		Version:        lr.Version,
		TimeoutMinutes: lr.SessionTimeout,
		CreatedAt:      c.nowTime(),
	}, nil
}

// Logout invalidates the given session on the backend.
func (c *Client) Logout(ctx context.Context, sessionToken string) error {
	resp, err := c.do(ctx, http.MethodPost, logoutPath, sessionToken, nil, nil)
	if err != nil {
		return err
	}
	body, err := readBody(resp)
	if err != nil {
		return fmt.Errorf("[Client Logout] failed to read response: %w", err)
	}
	if !successStatus(resp.StatusCode) {
		return newStatusError(BackendRejectedErr, "logout", resp.StatusCode, string(body))
	}
	return nil
}

// preflight lets the load balancer reveal an affinity token before the real
// call. Its outcome never influences the caller.
func (c *Client) preflight(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Msg("backend preflight failed, continuing without affinity")
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	c.captureAffinity(resp)
}

// do issues a single request against path with the cookies the protocol
// requires, classifies transport failures and harvests any affinity token
// the response carries. The HTTP status is left for the caller to interpret.
func (c *Client) do(ctx context.Context, method, path, sessionToken string, query url.Values, body io.Reader) (*http.Response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("[Client do] failed to build request %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range buildCookies(sessionToken, c.currentAffinity()) {
		req.AddCookie(cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: method + " " + path, Err: err}
	}
	c.captureAffinity(resp)
	return resp, nil
}

// buildCookies assembles the outbound cookie set as a pure function of the
// session token and the current affinity token. The session cookie rides
// along whenever a token is supplied; the affinity cookie whenever one has
// been observed.
func buildCookies(sessionToken, affinity string) []*http.Cookie {
	var cookies []*http.Cookie
	if sessionToken != "" {
		cookies = append(cookies, &http.Cookie{Name: sessionCookieName, Value: sessionToken})
	}
	if affinity != "" {
		cookies = append(cookies, &http.Cookie{Name: affinityCookieName, Value: affinity})
	}
	return cookies
}

func (c *Client) captureAffinity(resp *http.Response) {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == affinityCookieName && cookie.Value != "" {
			c.affinityMu.Lock()
			c.affinity = cookie.Value
			c.affinityMu.Unlock()
		}
	}
}

func (c *Client) currentAffinity() string {
	c.affinityMu.RLock()
	defer c.affinityMu.RUnlock()
	return c.affinity
}

func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func successStatus(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}
