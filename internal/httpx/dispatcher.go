package httpx

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
	"strconv"
	"strings"
	"time"

	"shipcalc/pkg/errorx"
)

// requestTimeout 外呼请求固定超时
const requestTimeout = 10 * time.Second

// maxBodyBytes 响应体读取上限
const maxBodyBytes = 1 << 20

// MaskFunc 脱敏回调
// path 为点分路径（如 request.params.key），返回脱敏后的值
type MaskFunc func(path string, value string) string

// defaultClient 共享 HTTP 客户端（固定超时）
var defaultClient = &http.Client{Timeout: requestTimeout}

// Dispatcher 单次外呼请求的执行与响应自省
// Get/Post 立即执行；执行后通过访问器读取结果
type Dispatcher struct {
	method   string
	url      string
	params   *Params
	headers  *Headers
	mask     MaskFunc
	code     int
	rawBody  []byte
	bodyJSON map[string]interface{}
	err      error
}

// Get 执行 GET 请求（params 追加为查询串）
func Get(ctx context.Context, rawURL string, params *Params, headers *Headers, mask MaskFunc) *Dispatcher {
	d := newDispatcher(http.MethodGet, rawURL, params, headers, mask)

	target, err := d.buildQueryURL()
	if err != nil {
		d.err = err
		return d
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		d.err = errorx.Wrap(err, errorx.KindNetworkError)
		return d
	}

	d.execute(req)
	return d
}

// Post 执行 POST 请求（params 序列化为 JSON body）
func Post(ctx context.Context, rawURL string, params *Params, headers *Headers, mask MaskFunc) *Dispatcher {
	d := newDispatcher(http.MethodPost, rawURL, params, headers, mask)

	body, err := json.Marshal(d.params.All())
	if err != nil {
		d.err = errorx.Wrap(err, errorx.KindInvalidArgument)
		return d
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		d.err = errorx.Wrap(err, errorx.KindNetworkError)
		return d
	}
	req.Header.Set("Content-Type", "application/json")

	d.execute(req)
	return d
}

func newDispatcher(method, rawURL string, params *Params, headers *Headers, mask MaskFunc) *Dispatcher {
	if params == nil {
		params = NewParams()
	}
	if headers == nil {
		headers = NewHeaders()
	}
	return &Dispatcher{
		method:  method,
		url:     rawURL,
		params:  params,
		headers: headers,
		mask:    mask,
	}
}

// buildQueryURL 将参数编码为查询串
func (d *Dispatcher) buildQueryURL() (string, error) {
	u, err := url.Parse(d.url)
	if err != nil {
		return "", errorx.Newf(errorx.KindInvalidArgument, "invalid url: %q", d.url)
	}

	q := u.Query()
	for _, key := range d.params.Keys() {
		q.Set(key, fmt.Sprint(d.params.Get(key)))
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// execute 发送请求并解析响应
// JSON 解析失败不报错，bodyJSON 保持为 nil，由 GetJSONPath 的 fallback 兜底
func (d *Dispatcher) execute(req *http.Request) {
	for _, key := range d.headers.Keys() {
		req.Header.Set(key, d.headers.Get(key))
	}

	resp, err := defaultClient.Do(req)
	if err != nil {
		d.err = classifyTransportError(err)
		return
	}
	defer resp.Body.Close()

	d.code = resp.StatusCode

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		d.err = errorx.Wrap(err, errorx.KindNetworkError)
		return
	}
	d.rawBody = body

	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err == nil {
		d.bodyJSON = parsed
	}

	if d.code < 200 || d.code >= 300 {
		d.err = errorx.Newf(errorx.KindProviderError, "unexpected response status: %d", d.code)
	}
}

// classifyTransportError 区分超时与一般网络错误
func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errorx.New(errorx.KindNetworkTimeout, "request timed out: "+err.Error())
	}
	return errorx.Wrap(err, errorx.KindNetworkError)
}

// IsError 请求是否失败（传输失败或非 2xx 响应）
func (d *Dispatcher) IsError() bool {
	return d.err != nil
}

// Err 返回失败原因
func (d *Dispatcher) Err() error {
	return d.err
}

// Method 返回请求方法
func (d *Dispatcher) Method() string {
	return d.method
}

// URL 返回请求地址（不含查询串）
func (d *Dispatcher) URL() string {
	return d.url
}

// ResponseCode 返回响应状态码（未收到响应为 0）
func (d *Dispatcher) ResponseCode() int {
	return d.code
}

// ResponseBodyJSON 返回解析后的响应体（解析失败为 nil）
func (d *Dispatcher) ResponseBodyJSON() map[string]interface{} {
	return d.bodyJSON
}

// GetJSONPath 按路径读取响应体字段
// 路径元素为 map 键或数组下标；路径缺失与 JSON 解析失败同样返回 fallback
func (d *Dispatcher) GetJSONPath(path []string, fallback interface{}) interface{} {
	var cur interface{} = d.bodyJSON
	if cur == nil {
		return fallback
	}

	for _, seg := range path {
		switch node := cur.(type) {
		case map[string]interface{}:
			v, ok := node[seg]
			if !ok {
				return fallback
			}
			cur = v
		case []interface{}:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return fallback
			}
			cur = node[idx]
		default:
			return fallback
		}
	}

	return cur
}

// ToDebugMap 导出脱敏后的请求/响应快照
// 所有写入日志的请求/响应数据必须经由本方法产出
func (d *Dispatcher) ToDebugMap() map[string]interface{} {
	out := map[string]interface{}{
		"method": d.method,
		"url":    d.url,
		"request": map[string]interface{}{
			"params":  d.maskValue("request.params", d.params.All()),
			"headers": d.maskValue("request.headers", headersToAny(d.headers.All())),
		},
		"response": map[string]interface{}{
			"code": d.code,
			"body": d.maskValue("response.body", d.bodyJSON),
		},
	}

	if d.err != nil {
		out["error"] = d.err.Error()
	}

	return out
}

// maskValue 递归遍历结构，对每个字符串叶子应用脱敏回调
func (d *Dispatcher) maskValue(path string, value interface{}) interface{} {
	switch node := value.(type) {
	case string:
		if d.mask == nil {
			return node
		}
		return d.mask(path, node)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(node))
		for k, v := range node {
			out[k] = d.maskValue(path+"."+k, v)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(node))
		for i, v := range node {
			out[i] = d.maskValue(path+"."+strconv.Itoa(i), v)
		}
		return out
	default:
		return value
	}
}

func headersToAny(headers map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(headers))
	for k, v := range headers {
		out[k] = v
	}
	return out
}

// SuffixMask 构造按路径后缀匹配的脱敏回调
// 命中后缀的字符串叶子整体替换为 ***
func SuffixMask(suffixes ...string) MaskFunc {
	return func(path string, value string) string {
		for _, suffix := range suffixes {
			if strings.HasSuffix(path, suffix) {
				return "***"
			}
		}
		return value
	}
}
