// Package placeholder implements the service.Service interface over the
// JSONPlaceholder-style REST API (/todos with _page/_limit paging).
package placeholder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"taskdash/internal/config"
	"taskdash/internal/service"
)

const (
	// TodosPath is the collection path of the remote API.
	TodosPath = "todos"

	// TotalCountHeader carries the collection size on paged responses.
	TotalCountHeader = "X-Total-Count"

	// DefaultOwnerID is the owner sent with every created task.
	DefaultOwnerID = 1

	contentType = "application/json; charset=UTF-8"
)

// Client implements service.Service over HTTP.
type Client struct {
	http    *http.Client
	baseURL *url.URL
	timeout time.Duration
	log     *slog.Logger
}

// wireTask is the task shape on the wire.
type wireTask struct {
	UserID    int    `json:"userId"`
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

func (w wireTask) toTask() service.Task {
	return service.Task{
		OwnerID:   w.UserID,
		ID:        w.ID,
		Title:     w.Title,
		Completed: w.Completed,
	}
}

// New creates a client for cfg.BaseURL.
// When cfg.Token is set every request carries it as a bearer token.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Client, error) {
	httpClient := http.DefaultClient
	if cfg.Token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
		httpClient = oauth2.NewClient(ctx, src)
	}

	c, err := NewWithHTTPClient(cfg.BaseURL, httpClient)
	if err != nil {
		return nil, err
	}
	c.timeout = cfg.RequestTimeout
	if log != nil {
		c.log = log
	}
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url: %s", baseURL)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return &Client{
		http:    httpClient,
		baseURL: u,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// FetchPage returns one page of tasks and the total count from the
// X-Total-Count header. A missing or malformed header counts as zero.
func (c *Client) FetchPage(ctx context.Context, page, limit int) (service.Page, error) {
	if page < 1 || limit < 1 {
		return service.Page{}, fmt.Errorf("invalid page request: page=%d limit=%d", page, limit)
	}

	query := url.Values{}
	query.Set("_page", strconv.Itoa(page))
	query.Set("_limit", strconv.Itoa(limit))

	var items []wireTask
	header, err := c.do(ctx, http.MethodGet, query, nil, &items, TodosPath)
	if err != nil {
		return service.Page{}, err
	}

	total, err := strconv.Atoi(header.Get(TotalCountHeader))
	if err != nil || total < 0 {
		total = 0
	}

	result := service.Page{
		Items:      make([]service.Task, 0, len(items)),
		TotalCount: total,
	}
	for _, item := range items {
		result.Items = append(result.Items, item.toTask())
	}
	return result, nil
}

// SetCompleted patches a task's completion flag.
func (c *Client) SetCompleted(ctx context.Context, id int64, completed bool) (service.Task, error) {
	body := map[string]bool{"completed": completed}

	var echo wireTask
	if _, err := c.do(ctx, http.MethodPatch, nil, body, &echo, TodosPath, strconv.FormatInt(id, 10)); err != nil {
		return service.Task{}, err
	}
	return echo.toTask(), nil
}

// CreateTask posts a new, incomplete task owned by DefaultOwnerID.
func (c *Client) CreateTask(ctx context.Context, title string) (service.Task, error) {
	body := wireTask{UserID: DefaultOwnerID, Title: title, Completed: false}

	var created wireTask
	if _, err := c.do(ctx, http.MethodPost, nil, body, &created, TodosPath); err != nil {
		return service.Task{}, err
	}
	return created.toTask(), nil
}

// do performs one round trip, decoding a JSON response into out.
func (c *Client) do(ctx context.Context, method string, query url.Values, body, out any, path ...string) (http.Header, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := c.baseURL.JoinPath(path...)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("remote call failed", "method", method, "path", u.Path, "err", err)
		return nil, wrapError(err)
	}
	defer resp.Body.Close()

	c.log.Debug("remote call", "method", method, "path", u.Path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, wrapError(err)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("invalid response: %w", err)
		}
	}
	return resp.Header, nil
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return errors.New("request timed out")
	}
	if errors.Is(err, context.Canceled) {
		return errors.New("cancelled")
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound:
			return service.ErrNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("token rejected (status %d, check %s_TOKEN)", apiErr.Code, config.EnvPrefix)
		default:
			return fmt.Errorf("unexpected status %d", apiErr.Code)
		}
	}

	return err
}
