// Package api is the HTTP client for the book-my-seat backend. The
// backend is the authority for restaurants and bookings; this client
// only moves data and classifies failures.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/np-mndp/book-my-seat/internal/models"
)

// Client calls the backend REST API with bearer-token auth and an
// optional Redis read-through cache for restaurant queries.
type Client struct {
	baseURL    string
	httpClient *http.Client

	token string

	redis    *redis.Client
	cacheTTL time.Duration
}

// NewClient constructs a client for baseURL. Timeout applies to every
// request; zero means 10s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// UseRedisCache configures optional Redis caching for GET endpoints.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// SetToken installs the bearer token used on authenticated calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// LoginResponse is returned by POST /api/user/login.
type LoginResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Login authenticates with email/password and returns user and token.
// The token is not installed automatically; the session gate owns that
// decision.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	endpoint := c.baseURL + "/api/user/login"
	body := map[string]string{"email": email, "password": password}

	var resp LoginResponse
	if err := c.doPost(ctx, endpoint, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Restaurants fetches candidates around the given origin. The server
// guarantees neither distance nor order; ranking happens client-side.
// Radius is kilometers end to end.
func (c *Client) Restaurants(ctx context.Context, origin models.Coordinate, radiusKm float64) ([]models.RestaurantSummary, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(origin.Lat, 'f', -1, 64))
	params.Set("lng", strconv.FormatFloat(origin.Long, 'f', -1, 64))
	params.Set("radius", strconv.FormatFloat(radiusKm, 'f', -1, 64))
	endpoint := c.baseURL + "/api/restaurants?" + params.Encode()

	cacheKey := "restaurants:" + params.Encode()
	var list []models.RestaurantSummary

	if c.readCache(ctx, cacheKey, &list) {
		return list, nil
	}

	if err := c.doGet(ctx, endpoint, &list); err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKey, list)
	return list, nil
}

// BookingsResponse mirrors GET /api/bookings: the backend
// pre-partitions, but the partition may be stale relative to the
// device clock, so callers re-derive it through the classifier.
type BookingsResponse struct {
	Bookings     []models.Booking `json:"bookings"`
	PastBookings []models.Booking `json:"pastBookings"`
}

// Bookings fetches the authenticated user's bookings.
func (c *Client) Bookings(ctx context.Context) (*BookingsResponse, error) {
	endpoint := c.baseURL + "/api/bookings"
	var resp BookingsResponse
	if err := c.doGet(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateBooking submits a draft. On 2xx the returned booking is
// authoritative. A refusal becomes a *RejectedError carrying the
// server's reason verbatim; transport failures and bare 5xx responses
// become a *NetworkError.
func (c *Client) CreateBooking(ctx context.Context, draft models.BookingDraft) (*models.Booking, error) {
	endpoint := c.baseURL + "/api/bookings"
	var booking models.Booking
	if err := c.doPost(ctx, endpoint, draft, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), out) == nil
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.cacheTTL).Err()
}

func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) doPost(ctx context.Context, endpoint string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(data)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: req.Method + " " + req.URL.Path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errorFromResponse(req, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: req.Method + " " + req.URL.Path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorFromResponse classifies a non-2xx response. A server-provided
// reason from a structured error body is carried verbatim so the UI
// can show it untouched. A 5xx without such a body is a transport-tier
// failure (proxy, overload), not a refusal of the request, and comes
// back as a retryable *NetworkError.
func errorFromResponse(req *http.Request, resp *http.Response) error {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &body)

	reason := body.Error
	if reason == "" {
		reason = body.Message
	}
	if reason == "" && resp.StatusCode >= 500 {
		return &NetworkError{
			Op:  req.Method + " " + req.URL.Path,
			Err: fmt.Errorf("server unavailable: http %d", resp.StatusCode),
		}
	}
	if reason == "" {
		reason = fmt.Sprintf("http %d", resp.StatusCode)
	}
	return &RejectedError{StatusCode: resp.StatusCode, Reason: reason}
}
