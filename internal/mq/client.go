package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/streamweld/streamweld/pkg/logger"
)

// DefaultRequestTimeout bounds one round trip to a cluster master.
const DefaultRequestTimeout = 10 * time.Second

// webAPIPath is the master admin endpoint all operations go through.
const webAPIPath = "/webapi.htm"

// MasterClient issues admin operations against one cluster master.
type MasterClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewMasterClient creates a client for the master at addr (host:port).
func NewMasterClient(addr string, timeout time.Duration, log *logger.Logger) *MasterClient {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &MasterClient{
		baseURL:    "http://" + addr,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

// masterResponse is the raw envelope the master answers with.
type masterResponse struct {
	Result  bool            `json:"result"`
	ErrCode int             `json:"errCode"`
	ErrMsg  string          `json:"errMsg"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Request sends req to the master and maps its envelope to a Result.
func (c *MasterClient) Request(ctx context.Context, req Request) (*Result, error) {
	body, err := c.get(ctx, req.Params())
	if err != nil {
		return nil, err
	}

	var resp masterResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding master response: %w", err)
	}

	result := &Result{ErrCode: resp.ErrCode, ErrMsg: resp.ErrMsg}
	if !resp.Result && resp.ErrCode == 0 {
		result.ErrCode = -1
	}
	if len(resp.Data) > 0 {
		var data interface{}
		if err := json.Unmarshal(resp.Data, &data); err == nil {
			result.Data = data
		}
	}
	return result, nil
}

// QueryTopics looks up topic records on the master.
func (c *MasterClient) QueryTopics(ctx context.Context, topicName string) ([]TopicView, error) {
	params := url.Values{}
	params.Set("method", OpQueryTopicInfo)
	params.Set("type", TypeOpQuery)
	params.Set("topicName", topicName)

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var resp masterResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding master response: %w", err)
	}
	if resp.ErrCode != 0 {
		return nil, fmt.Errorf("master rejected query: %s", resp.ErrMsg)
	}

	var topics []TopicView
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &topics); err != nil {
			return nil, fmt.Errorf("decoding topic records: %w", err)
		}
	}
	return topics, nil
}

// QueryCanWrite reports whether the topic exists and currently accepts
// producers on this cluster.
func (c *MasterClient) QueryCanWrite(ctx context.Context, topicName string) (*Result, error) {
	topics, err := c.QueryTopics(ctx, topicName)
	if err != nil {
		return nil, err
	}
	for _, topic := range topics {
		if topic.TopicName == topicName {
			return SuccessResult(map[string]bool{"canWrite": topic.AcceptPublish}), nil
		}
	}
	return ErrorResult(fmt.Sprintf("topic %s not found", topicName)), nil
}

// QueryRaw forwards arbitrary query parameters to the master and returns the
// response body untouched. Used by the read-only passthrough endpoints.
func (c *MasterClient) QueryRaw(ctx context.Context, params url.Values) ([]byte, error) {
	return c.get(ctx, params)
}

// QueryURL renders the full master URL for the given parameters.
func (c *MasterClient) QueryURL(params url.Values) string {
	return c.baseURL + webAPIPath + "?" + params.Encode()
}

func (c *MasterClient) get(ctx context.Context, params url.Values) ([]byte, error) {
	reqURL := c.QueryURL(params)
	if c.logger != nil {
		c.logger.Debugf("querying master: %s", reqURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building master request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying master: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("master returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
