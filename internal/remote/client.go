// Package remote talks to the todo REST service.
//
// The service exposes one resource over four endpoint groups:
//
//	GET    {list}/Todo/        -> {"items": [{id, name, done}, ...]}
//	POST   {create}/Todo/      <- {id, name, done}
//	PUT    {update}/Todo/{id}  <- {id, name, done}
//	DELETE {delete}/Todo/{id}
//
// Every group may live under its own base URL.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/todo/internal/model"
)

// DefaultResource is the path segment the items live under.
const DefaultResource = "Todo"

// Endpoints holds the base URL of each endpoint group.
type Endpoints struct {
	List   string
	Create string
	Update string
	Delete string
}

// SameBase routes every operation to one base URL.
func SameBase(base string) Endpoints {
	return Endpoints{List: base, Create: base, Update: base, Delete: base}
}

// Client is a thin JSON-over-HTTP client. It never retries.
type Client struct {
	list, create, update, del *url.URL

	resource string
	http     *http.Client
	schema   *jsonschema.Schema
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithResource changes the path segment (default "Todo").
func WithResource(name string) Option {
	return func(c *Client) {
		if name = strings.Trim(name, "/"); name != "" {
			c.resource = name
		}
	}
}

// WithTimeout bounds each request. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// New validates the endpoint URLs and builds a Client.
func New(ep Endpoints, opts ...Option) (*Client, error) {
	c := &Client{
		resource: DefaultResource,
		http:     &http.Client{},
	}
	var err error
	if c.list, err = parseBase("list", ep.List); err != nil {
		return nil, err
	}
	if c.create, err = parseBase("create", ep.Create); err != nil {
		return nil, err
	}
	if c.update, err = parseBase("update", ep.Update); err != nil {
		return nil, err
	}
	if c.del, err = parseBase("delete", ep.Delete); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.schema, err = compileListSchema(); err != nil {
		return nil, err
	}
	return c, nil
}

func parseBase(name, raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%s endpoint: empty url", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s endpoint: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%s endpoint: unsupported scheme %q", name, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%s endpoint: missing host", name)
	}
	return u, nil
}

// List fetches every item.
func (c *Client) List(ctx context.Context) ([]model.Item, error) {
	data, err := c.do(ctx, "list", http.MethodGet, c.collectionURL(c.list), nil)
	if err != nil {
		return nil, err
	}
	if err := validateList(c.schema, data); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	var body struct {
		Items []model.Item `json:"items"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("list: %w: %v", ErrMalformedBody, err)
	}
	if body.Items == nil {
		body.Items = []model.Item{}
	}
	return body.Items, nil
}

// Create posts it. When the reply carries an id, that id replaces the
// client-generated one; nothing else is taken from the reply.
func (c *Client) Create(ctx context.Context, it model.Item) (model.Item, error) {
	data, err := c.do(ctx, "create", http.MethodPost, c.collectionURL(c.create), it)
	if err != nil {
		return model.Item{}, err
	}
	if len(bytes.TrimSpace(data)) > 0 {
		var echoed model.Item
		if json.Unmarshal(data, &echoed) == nil && echoed.ID != "" {
			it.ID = echoed.ID
		}
	}
	return it, nil
}

// Update puts it at its item-scoped URL.
func (c *Client) Update(ctx context.Context, it model.Item) error {
	_, err := c.do(ctx, "update", http.MethodPut, c.itemURL(c.update, it.ID), it)
	return err
}

// Delete removes the item with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, "delete", http.MethodDelete, c.itemURL(c.del, id), nil)
	return err
}

func (c *Client) collectionURL(base *url.URL) string {
	return base.JoinPath(c.resource + "/").String()
}

func (c *Client) itemURL(base *url.URL, id string) string {
	return base.JoinPath(c.resource, url.PathEscape(id)).String()
}

func (c *Client) do(ctx context.Context, op, method, target string, body any) ([]byte, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: marshal: %w", op, err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return nil, fmt.Errorf("%s: new request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Op: op, Method: method, URL: target, Code: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}
	return data, nil
}
