// Package webdriver is a minimal WebDriver protocol client, covering the
// commands tauri-browse needs to drive a Tauri app through tauri-driver.
package webdriver

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// webElementKey is the W3C WebDriver element identifier key.
const webElementKey = "element-6066-11e4-a52e-4f735466cecf"

// Client talks to a WebDriver server over HTTP/JSON. Every call is bounded
// by Timeout; exceeding it fails with a TimeoutError and performs no retry.
type Client struct {
	Base    string        // server base URL, e.g. http://localhost:4444
	Timeout time.Duration // per-request bound
	hc      *http.Client
}

// New returns a Client for the WebDriver server at base.
func New(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{Base: base, Timeout: timeout, hc: &http.Client{}}
}

// value is the standard WebDriver response envelope.
type value[T any] struct {
	Value T `json:"value"`
}

// errValue is the error payload inside a non-2xx WebDriver response.
type errValue struct {
	Value struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	} `json:"value"`
}

// do issues one protocol request bounded by c.Timeout. Out, when non-nil,
// receives the decoded response body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	return c.doTimeout(ctx, method, path, body, out, c.Timeout)
}

// doTimeout is do with an explicit per-request bound.
func (c *Client) doTimeout(ctx context.Context, method, path string, body, out any, timeout time.Duration) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := c.Base + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &TimeoutError{Method: method, URL: url, Timeout: timeout}
		}
		return &ConnectionError{Endpoint: c.Base, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ev errValue
		if json.Unmarshal(data, &ev) == nil && ev.Value.Error != "" {
			return &ProtocolError{Kind: ev.Value.Error, Message: ev.Value.Message}
		}
		return &ProtocolError{Kind: "unknown", Message: string(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func sessionPath(sid, suffix string) string {
	return "/session/" + sid + suffix
}

// NewSession launches a Tauri application through tauri-driver and returns
// the remote session id. Launch is slower than regular commands, so the
// request is given a longer bound.
func (c *Client) NewSession(ctx context.Context, binary string) (string, error) {
	timeout := c.Timeout
	if timeout < 30*time.Second {
		timeout = 30 * time.Second
	}

	var out value[struct {
		SessionID string `json:"sessionId"`
	}]
	err := c.doTimeout(ctx, http.MethodPost, "/session", map[string]any{
		"capabilities": map[string]any{
			"alwaysMatch": map[string]any{
				"browserName": "wry",
				"tauri:options": map[string]any{
					"application": binary,
				},
			},
		},
	}, &out, timeout)
	if err != nil {
		return "", err
	}
	return out.Value.SessionID, nil
}

// DeleteSession ends the remote session.
func (c *Client) DeleteSession(ctx context.Context, sid string) error {
	return c.do(ctx, http.MethodDelete, sessionPath(sid, ""), nil, nil)
}

// Navigate loads url in the session's webview.
func (c *Client) Navigate(ctx context.Context, sid, url string) error {
	return c.do(ctx, http.MethodPost, sessionPath(sid, "/url"), map[string]string{"url": url}, nil)
}

// Back navigates one step back in the session history.
func (c *Client) Back(ctx context.Context, sid string) error {
	return c.do(ctx, http.MethodPost, sessionPath(sid, "/back"), map[string]any{}, nil)
}

// Forward navigates one step forward in the session history.
func (c *Client) Forward(ctx context.Context, sid string) error {
	return c.do(ctx, http.MethodPost, sessionPath(sid, "/forward"), map[string]any{}, nil)
}

// Refresh reloads the current page.
func (c *Client) Refresh(ctx context.Context, sid string) error {
	return c.do(ctx, http.MethodPost, sessionPath(sid, "/refresh"), map[string]any{}, nil)
}

// URL returns the current page URL.
func (c *Client) URL(ctx context.Context, sid string) (string, error) {
	var out value[string]
	if err := c.do(ctx, http.MethodGet, sessionPath(sid, "/url"), nil, &out); err != nil {
		return "", err
	}
	return out.Value, nil
}

// Title returns the current page title.
func (c *Client) Title(ctx context.Context, sid string) (string, error) {
	var out value[string]
	if err := c.do(ctx, http.MethodGet, sessionPath(sid, "/title"), nil, &out); err != nil {
		return "", err
	}
	return out.Value, nil
}

// FindElement resolves a CSS selector to a single element id.
func (c *Client) FindElement(ctx context.Context, sid, selector string) (string, error) {
	var out value[map[string]string]
	err := c.do(ctx, http.MethodPost, sessionPath(sid, "/element"), map[string]string{
		"using": "css selector",
		"value": selector,
	}, &out)
	if err != nil {
		return "", err
	}
	if id, ok := out.Value[webElementKey]; ok {
		return id, nil
	}
	// Some drivers use a legacy key; take whatever single value came back.
	for _, id := range out.Value {
		return id, nil
	}
	return "", &ProtocolError{Kind: "no such element", Message: "empty element response for " + selector}
}

// FindElements resolves a CSS selector to all matching element ids, in
// document order.
func (c *Client) FindElements(ctx context.Context, sid, selector string) ([]string, error) {
	var out value[[]map[string]string]
	err := c.do(ctx, http.MethodPost, sessionPath(sid, "/elements"), map[string]string{
		"using": "css selector",
		"value": selector,
	}, &out)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(out.Value))
	for _, m := range out.Value {
		if id, ok := m[webElementKey]; ok {
			ids = append(ids, id)
			continue
		}
		for _, id := range m {
			ids = append(ids, id)
			break
		}
	}
	return ids, nil
}

// Click clicks the element.
func (c *Client) Click(ctx context.Context, sid, elementID string) error {
	return c.do(ctx, http.MethodPost, sessionPath(sid, "/element/"+elementID+"/click"), map[string]any{}, nil)
}

// Clear clears an editable element's value.
func (c *Client) Clear(ctx context.Context, sid, elementID string) error {
	return c.do(ctx, http.MethodPost, sessionPath(sid, "/element/"+elementID+"/clear"), map[string]any{}, nil)
}

// SendKeys types text into the element.
func (c *Client) SendKeys(ctx context.Context, sid, elementID, text string) error {
	return c.do(ctx, http.MethodPost, sessionPath(sid, "/element/"+elementID+"/value"), map[string]string{"text": text}, nil)
}

// ElementText returns the element's rendered text.
func (c *Client) ElementText(ctx context.Context, sid, elementID string) (string, error) {
	var out value[string]
	if err := c.do(ctx, http.MethodGet, sessionPath(sid, "/element/"+elementID+"/text"), nil, &out); err != nil {
		return "", err
	}
	return out.Value, nil
}

// ExecuteSync runs script in the page with args and decodes the script's
// return value into out (pass nil to discard it).
func (c *Client) ExecuteSync(ctx context.Context, sid, script string, args []any, out any) error {
	if args == nil {
		args = []any{}
	}
	body := map[string]any{"script": script, "args": args}
	if out == nil {
		return c.do(ctx, http.MethodPost, sessionPath(sid, "/execute/sync"), body, nil)
	}
	raw := &value[json.RawMessage]{}
	if err := c.do(ctx, http.MethodPost, sessionPath(sid, "/execute/sync"), body, raw); err != nil {
		return err
	}
	if len(raw.Value) == 0 || string(raw.Value) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw.Value, out); err != nil {
		return fmt.Errorf("decode script result: %w", err)
	}
	return nil
}

// Screenshot returns the webview screenshot as PNG bytes.
func (c *Client) Screenshot(ctx context.Context, sid string) ([]byte, error) {
	var out value[string]
	if err := c.do(ctx, http.MethodGet, sessionPath(sid, "/screenshot"), nil, &out); err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(out.Value)
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	return data, nil
}

// Cookie is a browser cookie as the protocol represents it.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Path     string  `json:"path,omitempty"`
	Domain   string  `json:"domain,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
	HTTPOnly bool    `json:"httpOnly,omitempty"`
	Expiry   float64 `json:"expiry,omitempty"`
}

// Cookies returns all cookies visible to the current page.
func (c *Client) Cookies(ctx context.Context, sid string) ([]Cookie, error) {
	var out value[[]Cookie]
	if err := c.do(ctx, http.MethodGet, sessionPath(sid, "/cookie"), nil, &out); err != nil {
		return nil, err
	}
	return out.Value, nil
}

// AddCookie sets one cookie on the current page.
func (c *Client) AddCookie(ctx context.Context, sid string, cookie Cookie) error {
	return c.do(ctx, http.MethodPost, sessionPath(sid, "/cookie"), map[string]any{"cookie": cookie}, nil)
}

// DeleteCookies removes all cookies visible to the current page.
func (c *Client) DeleteCookies(ctx context.Context, sid string) error {
	return c.do(ctx, http.MethodDelete, sessionPath(sid, "/cookie"), nil, nil)
}

// PressKey sends a key-down/key-up pair for the given key value.
func (c *Client) PressKey(ctx context.Context, sid, keyValue string) error {
	return c.do(ctx, http.MethodPost, sessionPath(sid, "/actions"), map[string]any{
		"actions": []map[string]any{{
			"type": "key",
			"id":   "keyboard",
			"actions": []map[string]any{
				{"type": "keyDown", "value": keyValue},
				{"type": "keyUp", "value": keyValue},
			},
		}},
	}, nil)
}
