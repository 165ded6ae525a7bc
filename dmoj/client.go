package dmoj

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Ninjaclasher/DMOJ-Bot/domain/entities"
	"github.com/Ninjaclasher/DMOJ-Bot/domain/interfaces"
)

// Config holds the DMOJ client configuration.
type Config struct {
	BaseURL string // e.g. https://dmoj.ca
	APIPath string // e.g. api/v2
	APIKey  string
	Delays  map[string]time.Duration
}

// Client consumes the DMOJ JSON API. Every request passes through the
// rate limiter first. Upstream and network failures are logged and
// surfaced to callers as absent (nil) results, never as errors, so
// command handlers can degrade to "not found" / "try later" messages.
type Client struct {
	httpClient *http.Client
	limiter    *RateLimiter
	baseURL    string
	apiPath    string
	apiKey     string
}

var _ interfaces.DMOJClient = (*Client)(nil)

// NewClient creates a DMOJ API client.
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    NewRateLimiter(cfg.Delays),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiPath:    strings.Trim(cfg.APIPath, "/"),
		apiKey:     cfg.APIKey,
	}
}

// GetUser fetches a single user's API profile.
func (c *Client) GetUser(ctx context.Context, username string) (*entities.Profile, error) {
	body, ok := c.loadJSON(ctx, joinURL(c.apiPath, "user", url.PathEscape(username)), RateDefault)
	if !ok {
		return nil, nil
	}

	var envelope struct {
		Data struct {
			Object *entities.Profile `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		log.WithFields(log.Fields{"username": username, "error": err}).Warn("Failed to decode DMOJ user response")
		return nil, nil
	}
	return envelope.Data.Object, nil
}

// GetUsers fetches every user profile, requesting page 1, 2, 3... until a
// page reports has_more = false. If a page fetch fails, the profiles
// gathered so far are returned rather than an error, so a resync can
// still make partial progress.
func (c *Client) GetUsers(ctx context.Context) ([]*entities.Profile, error) {
	var profiles []*entities.Profile
	for page := 1; ; page++ {
		body, ok := c.loadJSON(ctx, fmt.Sprintf("%s?page=%d", joinURL(c.apiPath, "users"), page), RateLong)
		if !ok {
			break
		}

		var envelope struct {
			Data struct {
				Objects []*entities.Profile `json:"objects"`
				HasMore bool                `json:"has_more"`
			} `json:"data"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			log.WithFields(log.Fields{"page": page, "error": err}).Warn("Failed to decode DMOJ users page")
			break
		}

		profiles = append(profiles, envelope.Data.Objects...)
		if !envelope.Data.HasMore {
			break
		}
	}
	return profiles, nil
}

// GetContest fetches a single contest.
func (c *Client) GetContest(ctx context.Context, key string) (*entities.Contest, error) {
	body, ok := c.loadJSON(ctx, joinURL(c.apiPath, "contest", url.PathEscape(key)), RateDefault)
	if !ok {
		return nil, nil
	}

	var envelope struct {
		Data struct {
			Object *struct {
				Key      string `json:"key"`
				Name     string `json:"name"`
				Rankings []struct {
					User    string `json:"user"`
					EndTime string `json:"end_time"`
				} `json:"rankings"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		log.WithFields(log.Fields{"contest": key, "error": err}).Warn("Failed to decode DMOJ contest response")
		return nil, nil
	}
	if envelope.Data.Object == nil {
		return nil, nil
	}

	contest := &entities.Contest{
		Key:  envelope.Data.Object.Key,
		Name: envelope.Data.Object.Name,
	}
	for _, ranking := range envelope.Data.Object.Rankings {
		endTime, err := time.Parse(time.RFC3339, ranking.EndTime)
		if err != nil {
			log.WithFields(log.Fields{"contest": key, "user": ranking.User, "error": err}).Warn("Skipping ranking with unparseable end time")
			continue
		}
		contest.Rankings = append(contest.Rankings, entities.ContestRanking{
			User:    ranking.User,
			EndTime: endTime,
		})
	}
	return contest, nil
}

// GetUserAbout fetches the raw text of a user's public profile page,
// which is where the challenge token is expected to appear.
func (c *Client) GetUserAbout(ctx context.Context, username string) (*string, error) {
	status, body, ok := c.makeRequest(ctx, joinURL("user", url.PathEscape(username)), RateDefault)
	if !ok || status != http.StatusOK {
		return nil, nil
	}
	text := string(body)
	return &text, nil
}

// loadJSON performs a rate-limited GET and returns the body only for a
// 200 response.
func (c *Client) loadJSON(ctx context.Context, path, class string) ([]byte, bool) {
	status, body, ok := c.makeRequest(ctx, path, class)
	if !ok || status != http.StatusOK {
		return nil, false
	}
	return body, true
}

// makeRequest issues a single authenticated GET, gated by the rate
// limiter. Returns ok = false on any failure; the failure is logged here
// so callers can simply treat the result as absent.
func (c *Client) makeRequest(ctx context.Context, path, class string) (int, []byte, bool) {
	if err := c.limiter.Acquire(ctx, class); err != nil {
		log.WithFields(log.Fields{"path": path, "class": class, "error": err}).Error("Failed to acquire rate limit slot")
		return 0, nil, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, joinURL(c.baseURL, path), nil)
	if err != nil {
		log.WithFields(log.Fields{"path": path, "error": err}).Error("Failed to build DMOJ request")
		return 0, nil, false
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithFields(log.Fields{"path": path, "error": err}).Warn("DMOJ request failed")
		return 0, nil, false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.WithFields(log.Fields{"path": path, "error": err}).Warn("Failed to read DMOJ response body")
		return 0, nil, false
	}

	if resp.StatusCode != http.StatusOK {
		log.WithFields(log.Fields{"path": path, "status": resp.StatusCode}).Warn("DMOJ request returned non-200 status")
	}
	return resp.StatusCode, body, true
}

// joinURL joins URL parts with single separators.
func joinURL(parts ...string) string {
	return strings.Join(parts, "/")
}
