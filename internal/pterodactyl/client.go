package pterodactyl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var ErrUnreachable = errors.New("pterodactyl API unreachable")

// Client talks to the panel creation endpoint and to the per-cluster
// application API for listings.
type Client struct {
	createURL  string
	httpClient *http.Client
	scheme     string // listing URL scheme, overridable in tests
}

func NewClient(createURL string) *Client {
	return &Client{
		createURL:  createURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		scheme:     "https",
	}
}

// CreatePanel issues the provisioning call. A transport or parse failure is
// returned as an error wrapping ErrUnreachable; any decoded upstream
// response, success or not, comes back as a CreateResult for the caller to
// forward verbatim.
func (c *Client) CreatePanel(ctx context.Context, p CreateParams) (*CreateResult, error) {
	params := url.Values{}
	params.Set("username", p.Username)
	params.Set("ram", p.RAM)
	params.Set("disk", p.Disk)
	params.Set("cpu", p.CPU)
	params.Set("eggid", p.Config.EggID)
	params.Set("nestid", p.Config.NestID)
	params.Set("loc", p.Config.Loc)
	params.Set("domain", p.Config.Domain)
	params.Set("ptla", p.Config.PTLA)
	params.Set("ptlc", p.Config.PTLC)

	reqURL := c.createURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnreachable, err)
	}

	var envelope struct {
		Status  bool              `json:"status"`
		Message string            `json:"message"`
		Result  *PanelCredentials `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnreachable, err)
	}

	return &CreateResult{
		StatusCode: resp.StatusCode,
		Body:       body,
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300 && envelope.Status,
		Message:    envelope.Message,
		Result:     envelope.Result,
	}, nil
}

// ListNodes queries a cluster's node listing.
func (c *Client) ListNodes(ctx context.Context, b Backend) (*NodeList, error) {
	var payload struct {
		listMeta
		Data []struct {
			Attributes Node `json:"attributes"`
		} `json:"data"`
	}
	if err := c.list(ctx, b, "nodes", &payload); err != nil {
		return nil, err
	}

	nodes := make([]Node, len(payload.Data))
	for i, d := range payload.Data {
		nodes[i] = d.Attributes
	}
	return &NodeList{Total: payload.Meta.Pagination.Total, Nodes: nodes}, nil
}

// ListServers queries a cluster's server listing.
func (c *Client) ListServers(ctx context.Context, b Backend) (*ServerList, error) {
	var payload struct {
		listMeta
		Data []struct {
			Attributes Server `json:"attributes"`
		} `json:"data"`
	}
	if err := c.list(ctx, b, "servers", &payload); err != nil {
		return nil, err
	}

	servers := make([]Server, len(payload.Data))
	for i, d := range payload.Data {
		servers[i] = d.Attributes
	}
	return &ServerList{Total: payload.Meta.Pagination.Total, Servers: servers}, nil
}

type listMeta struct {
	Meta struct {
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	} `json:"meta"`
}

func (c *Client) list(ctx context.Context, b Backend, resource string, out any) error {
	reqURL := fmt.Sprintf("%s://%s/api/application/%s", c.scheme, b.Domain, resource)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build list request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "Application/vnd.pterodactyl.v1+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New(apiErrorDetail(body, resp.StatusCode))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("invalid listing response (%d): %w", resp.StatusCode, err)
	}
	return nil
}

// apiErrorDetail pulls the upstream's own error description out of a failed
// response when the payload carries one.
func apiErrorDetail(body []byte, statusCode int) string {
	var payload struct {
		Errors []struct {
			Detail string `json:"detail"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Errors) > 0 && payload.Errors[0].Detail != "" {
		return payload.Errors[0].Detail
	}
	return fmt.Sprintf("unexpected Pterodactyl response (%d)", statusCode)
}
