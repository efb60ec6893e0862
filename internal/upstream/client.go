// Package upstream 是外部考勤/报表服务的只读直通客户端。
//
// 本服务不缓存任何数据，每次调用都带上发起请求的用户 Token 直接访问外部服务。
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"punchdesk/config"
	"punchdesk/internal/model"
	apperrors "punchdesk/pkg/errors"
	"punchdesk/pkg/metrics"
)

// maxBodySize 外部响应体读取上限
const maxBodySize = 8 << 20

// AttendanceAPI 外部考勤/报表服务
type AttendanceAPI interface {
	// ── 员工 ──
	PunchIn(ctx context.Context) (*model.PunchInResult, error)
	PunchOut(ctx context.Context) (*model.PunchOutResult, error)
	GetPunchStatus(ctx context.Context) (*model.PunchStatus, error)
	GetHistory(ctx context.Context, startDate, endDate string) ([]model.PunchRecord, error)
	GetDailySummary(ctx context.Context, date string) (*model.DailySummary, error)
	GetWeeklySummary(ctx context.Context, startDate, endDate string) (*model.WeeklySummary, error)
	GetUserDetails(ctx context.Context) (*model.Employee, error)

	// ── 管理员 ──
	GetAllUsers(ctx context.Context) ([]model.Employee, error)
	GetDailyReport(ctx context.Context, date string) (*model.DailyReport, error)
	GetWeeklyReport(ctx context.Context, startDate, endDate string) (*model.WeeklyReport, error)
	GetUserPunches(ctx context.Context, uid, startDate, endDate string) ([]model.PunchRecord, error)
	UpdatePunch(ctx context.Context, punchID string, update model.PunchUpdate) (*model.PunchUpdateResult, error)
	AssignSchedule(ctx context.Context, uid string, req model.ScheduleAssignment) (*model.Employee, error)
	GrantAdmin(ctx context.Context, uid string) (string, error)
	RevokeAdmin(ctx context.Context, uid string) (string, error)
}

// Client HTTP 实现
type Client struct {
	baseURL        string
	httpClient     *http.Client
	profileTimeout time.Duration
	logger         *zap.Logger
	metrics        *metrics.Metrics
}

// NewClient 创建外部服务客户端；m 可为 nil
func NewClient(cfg *config.UpstreamConfig, logger *zap.Logger, m *metrics.Metrics) *Client {
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:     &http.Client{Timeout: cfg.RequestTimeout},
		profileTimeout: cfg.ProfileTimeout,
		logger:         logger,
		metrics:        m,
	}
}

// ── 请求执行 ──

type call struct {
	op     string // 指标标签
	label  string // 失败提示中的动作名
	method string
	path   string
	query  url.Values
	body   interface{}
	out    interface{}
	// emptyOn404 该时段无数据时外部服务返回 404，视为空结果
	emptyOn404 bool
	// identity 身份类接口，403 同样视为认证失败
	identity bool
	timeout  time.Duration
}

func (c *Client) do(ctx context.Context, cl call) (err error) {
	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.UpstreamDuration.WithLabelValues(cl.op, outcome(err)).Observe(time.Since(start).Seconds())
		}
	}()

	token, ok := TokenFrom(ctx)
	if !ok {
		return apperrors.ErrUnauthenticated
	}

	if cl.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cl.timeout)
		defer cancel()
	}

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var reader io.Reader
	if cl.body != nil {
		buf, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("序列化请求体失败: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, reader)
	if err != nil {
		return fmt.Errorf("构造请求失败: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			c.logger.Warn("外部服务超时", zap.String("op", cl.op), zap.Error(err))
			return apperrors.ErrTimeout
		}
		c.logger.Error("外部服务请求失败", zap.String("op", cl.op), zap.Error(err))
		return &apperrors.ServiceError{Status: http.StatusBadGateway, Message: fmt.Sprintf("%s失败：无法连接外部服务", cl.label)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if isTimeout(ctx, err) {
			return apperrors.ErrTimeout
		}
		c.logger.Error("读取外部服务响应失败", zap.String("op", cl.op), zap.Error(err))
		return &apperrors.ServiceError{Status: http.StatusBadGateway, Message: fmt.Sprintf("%s失败：外部服务响应中断", cl.label)}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound && cl.emptyOn404:
		return nil
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden && cl.identity:
		return apperrors.ErrUnauthenticated
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &apperrors.ServiceError{Status: resp.StatusCode, Message: errorMessage(data, cl.label, resp.StatusCode)}
	}

	if cl.out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, cl.out); err != nil {
		c.logger.Error("外部服务响应解析失败", zap.String("op", cl.op), zap.Error(err))
		return &apperrors.ServiceError{Status: http.StatusBadGateway, Message: fmt.Sprintf("%s失败：响应格式无效", cl.label)}
	}
	return nil
}

// errorMessage 依次取 JSON message、纯文本响应、默认文案
func errorMessage(data []byte, label string, status int) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	} else if text := strings.TrimSpace(string(data)); text != "" && len(text) <= 512 {
		return text
	}
	return fmt.Sprintf("%s失败 (%d)", label, status)
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func outcome(err error) string {
	var se *apperrors.ServiceError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperrors.ErrTimeout):
		return "timeout"
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return "unauthenticated"
	case errors.As(err, &se):
		return "service_error"
	default:
		return "error"
	}
}

func period(startDate, endDate string) url.Values {
	q := url.Values{}
	if startDate != "" {
		q.Set("startDate", startDate)
	}
	if endDate != "" {
		q.Set("endDate", endDate)
	}
	return q
}
