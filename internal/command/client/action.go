package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261018-go-pkg-simplate/internal/command"
	"github.com/lwmacct/261018-go-pkg-simplate/internal/config"
)

func healthAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := command.Load(cmd)
	if err != nil {
		return err
	}

	var out map[string]string
	if err := newClient(cfg.Client).do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.Root().Writer, out["status"])

	return err
}

func renderAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := command.Load(cmd)
	if err != nil {
		return err
	}

	tmpl, err := command.ReadTemplate(cmd.Root().Reader, cmd.String("template"), cmd.Args().First())
	if err != nil {
		return err
	}

	values, err := parsePairs(cmd.StringSlice("set"))
	if err != nil {
		return err
	}

	result, err := newClient(cfg.Client).render(ctx, tmpl, values)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(cmd.Root().Writer, result)

	return err
}

func parsePairs(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	values := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid pair %q, want name=value", pair)
		}
		values[name] = value
	}

	return values, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// HTTP 客户端
// ═══════════════════════════════════════════════════════════════════════════

// errStatus 表示服务端返回的非 2xx 响应，不重试。
type errStatus struct {
	Code    int
	Message string
}

func (e *errStatus) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

type client struct {
	baseURL string
	retries int
	backoff time.Duration
	http    *http.Client
}

func newClient(cfg config.ClientConfig) *client {
	return &client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		retries: cfg.Retries,
		backoff: 200 * time.Millisecond,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *client) render(ctx context.Context, tmpl string, values map[string]any) (string, error) {
	req := map[string]any{"template": tmpl}
	if len(values) > 0 {
		req["values"] = values
	}

	var out struct {
		Result string `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, "/render", req, &out); err != nil {
		return "", err
	}

	return out.Result, nil
}

// do 发送请求并解码 JSON 响应，网络错误按 retries 重试。
func (c *client) do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return err
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			slog.Debug("Retrying request", "path", path, "attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
		}

		lastErr = c.once(ctx, method, path, payload, out)
		var status *errStatus
		if lastErr == nil || errors.As(lastErr, &status) {
			return lastErr
		}
	}

	return fmt.Errorf("request %s failed after %d attempts: %w", path, c.retries+1, lastErr)
}

func (c *client) once(ctx context.Context, method, path string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)

		return &errStatus{Code: resp.StatusCode, Message: e.Error}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
