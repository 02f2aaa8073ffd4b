// Package gateway 封装对评分/评论两个外部微服务的 HTTP 调用。
// 每次调用的结果被归为三类：成功、远端不存在（ErrNotFound）、服务不可用（ErrUnavailable）。
// 远端不存在是正常结果，不是故障；超时、5xx、连接拒绝等一律归为不可用。
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

var (
	// ErrNotFound 远端实体不存在
	ErrNotFound = errors.New("remote entity not found")
	// ErrUnavailable 远端服务不可用（超时/5xx/连接失败）
	ErrUnavailable = errors.New("remote service unavailable")
)

// client 两个微服务客户端共用的 HTTP 封装
type client struct {
	baseURL    string
	name       string // 日志用的服务名
	httpClient *http.Client
}

func newClient(baseURL, name string, timeout time.Duration) *client {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &client{
		baseURL: baseURL,
		name:    name,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// getJSON 发送 GET 请求并解析 JSON 响应，按状态码归类结果
func (c *client) getJSON(ctx context.Context, path string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// 超时和连接失败都算服务不可用，记录日志以便运维发现故障
		log.Printf("[Gateway] %s 请求失败 (GET %s): %v", c.name, path, err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := c.classify(resp, http.MethodGet, path); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: 读取响应失败: %v", ErrUnavailable, err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%w: 解析JSON失败: %v", ErrUnavailable, err)
	}
	return nil
}

// postJSON 发送 POST 请求写入远端（upsert 语义，没有 NotFound 结果）
func (c *client) postJSON(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[Gateway] %s 请求失败 (POST %s): %v", c.name, path, err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// 写入场景下 404 同样视为服务异常
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[Gateway] %s 返回异常状态码 (POST %s): %d", c.name, path, resp.StatusCode)
		return fmt.Errorf("%w: 状态码 %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// delete 发送 DELETE 请求
func (c *client) delete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[Gateway] %s 请求失败 (DELETE %s): %v", c.name, path, err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	return c.classify(resp, http.MethodDelete, path)
}

// classify 按状态码归类结果：2xx 成功，404 为 NotFound，其余一律不可用
func (c *client) classify(resp *http.Response, method, path string) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	default:
		log.Printf("[Gateway] %s 返回异常状态码 (%s %s): %d", c.name, method, path, resp.StatusCode)
		return fmt.Errorf("%w: 状态码 %d", ErrUnavailable, resp.StatusCode)
	}
}
