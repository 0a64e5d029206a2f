package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/streamweld/streamweld/internal/mq"
)

// maxProxyBodySize caps the request body accepted by the topic proxy.
const maxProxyBodySize = 1 << 20

// TopicHandlers forwards topic management operations to the cluster masters.
type TopicHandlers struct {
	engine *Engine
}

func NewTopicHandlers(engine *Engine) *TopicHandlers {
	return &TopicHandlers{engine: engine}
}

// ProxyMethod is the single entry point for topic operations. The method
// query parameter selects the operation; anything outside the closed set is
// rejected before the body is interpreted.
func (h *TopicHandlers) ProxyMethod(w http.ResponseWriter, r *http.Request) {
	h.engine.TrackOperation()
	defer h.engine.UntrackOperation()

	method := r.URL.Query().Get("method")
	h.logf("received topic proxy method: %s", method)

	if !mq.IsValidMethod(method) {
		h.logf("invalid topic proxy method: %s", method)
		writeResult(w, mq.ErrorResult(mq.ErrMsgInvalidMethod))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxProxyBodySize))
	if err != nil {
		writeResult(w, mq.ErrorResult(mq.ErrMsgInvalidJSON))
		return
	}
	if !json.Valid(body) {
		h.logf("invalid JSON body for method %s", method)
		writeResult(w, mq.ErrorResult(mq.ErrMsgInvalidJSON))
		return
	}

	ctx := r.Context()
	switch method {
	case mq.MethodAdd:
		var req mq.AddTopicReq
		h.decodeAndForward(ctx, w, body, &req)
	case mq.MethodClone:
		h.cloneTopic(ctx, w, body)
	case mq.MethodAuthControl:
		h.setAuthControl(ctx, w, body)
	case mq.MethodModify:
		var req mq.ModifyTopicReq
		h.decodeAndForward(ctx, w, body, &req)
	case mq.MethodDelete:
		h.deleteTopic(ctx, w, body, mq.OpDeleteTopic)
	case mq.MethodRemove:
		h.deleteTopic(ctx, w, body, mq.OpRemoveTopic)
	case mq.MethodQueryCanWrite:
		h.queryCanWrite(ctx, w, body)
	case mq.MethodPublish:
		var req mq.SetPublishReq
		h.decodeAndForward(ctx, w, body, &req)
	case mq.MethodSubscribe:
		var req mq.SetSubscribeReq
		h.decodeAndForward(ctx, w, body, &req)
	default:
		writeResult(w, mq.ErrorResult(mq.ErrMsgNoSuchMethod))
	}
}

// decodeAndForward unmarshals body into req and forwards it to the master of
// the cluster the request names.
func (h *TopicHandlers) decodeAndForward(ctx context.Context, w http.ResponseWriter, body []byte, req mq.Request) {
	if err := json.Unmarshal(body, req); err != nil {
		writeResult(w, mq.ErrorResult(mq.ErrMsgInvalidJSON))
		return
	}
	h.forward(ctx, w, req)
}

func (h *TopicHandlers) forward(ctx context.Context, w http.ResponseWriter, req mq.Request) {
	client, err := h.engine.MasterClient(req.GetClusterID())
	if err != nil {
		writeResult(w, mq.ErrorResult(err.Error()))
		return
	}

	result, err := client.Request(ctx, req)
	if err != nil {
		h.engine.trackError()
		h.logf("master request failed: %v", err)
		writeResult(w, mq.ErrorResult(err.Error()))
		return
	}
	writeResult(w, result)
}

// setAuthControl stamps the privileged fields before forwarding. Callers
// cannot choose the createUser for authorization changes.
func (h *TopicHandlers) setAuthControl(ctx context.Context, w http.ResponseWriter, body []byte) {
	var req mq.SetAuthControlReq
	if err := json.Unmarshal(body, &req); err != nil {
		writeResult(w, mq.ErrorResult(mq.ErrMsgInvalidJSON))
		return
	}
	req.CreateUser = mq.AdminUser
	h.forward(ctx, w, &req)
}

func (h *TopicHandlers) deleteTopic(ctx context.Context, w http.ResponseWriter, body []byte, op string) {
	var req mq.DeleteTopicReq
	if err := json.Unmarshal(body, &req); err != nil {
		writeResult(w, mq.ErrorResult(mq.ErrMsgInvalidJSON))
		return
	}
	req.Op = op
	h.forward(ctx, w, &req)
}

func (h *TopicHandlers) queryCanWrite(ctx context.Context, w http.ResponseWriter, body []byte) {
	var req mq.QueryCanWriteReq
	if err := json.Unmarshal(body, &req); err != nil {
		writeResult(w, mq.ErrorResult(mq.ErrMsgInvalidJSON))
		return
	}
	if !req.Legal() {
		writeResult(w, mq.ErrorResult(mq.ErrMsgParamIllegal))
		return
	}

	client, err := h.engine.MasterClient(req.ClusterID)
	if err != nil {
		writeResult(w, mq.ErrorResult(err.Error()))
		return
	}

	result, err := client.QueryCanWrite(ctx, req.TopicName)
	if err != nil {
		h.engine.trackError()
		writeResult(w, mq.ErrorResult(err.Error()))
		return
	}
	writeResult(w, result)
}

// cloneTopic copies the source topic's configuration onto the target brokers
// of the same cluster.
func (h *TopicHandlers) cloneTopic(ctx context.Context, w http.ResponseWriter, body []byte) {
	var req mq.CloneTopicReq
	if err := json.Unmarshal(body, &req); err != nil {
		writeResult(w, mq.ErrorResult(mq.ErrMsgInvalidJSON))
		return
	}
	if req.SourceTopicName == "" || len(req.BrokerIDs) == 0 {
		writeResult(w, mq.ErrorResult(mq.ErrMsgParamIllegal))
		return
	}

	client, err := h.engine.MasterClient(req.ClusterID)
	if err != nil {
		writeResult(w, mq.ErrorResult(err.Error()))
		return
	}

	topics, err := client.QueryTopics(ctx, req.SourceTopicName)
	if err != nil {
		h.engine.trackError()
		writeResult(w, mq.ErrorResult(err.Error()))
		return
	}

	var source *mq.TopicView
	for i := range topics {
		if topics[i].TopicName == req.SourceTopicName {
			source = &topics[i]
			break
		}
	}
	if source == nil {
		writeResult(w, mq.ErrorResult(fmt.Sprintf("source topic %s not found", req.SourceTopicName)))
		return
	}

	targetName := req.TargetTopicName
	if targetName == "" {
		targetName = req.SourceTopicName
	}

	addReq := &mq.AddTopicReq{
		BaseReq:      req.BaseReq,
		TopicNames:   []string{targetName},
		PartitionNum: source.PartitionNum,
		BrokerIDs:    req.BrokerIDs,
	}
	h.forward(ctx, w, addReq)
}

// QueryConsumerAuth passes a consumer group query through to the master and
// returns its response untouched.
func (h *TopicHandlers) QueryConsumerAuth(w http.ResponseWriter, r *http.Request) {
	h.passthrough(w, r, mq.OpQueryConsumers)
}

// QueryTopicConfig passes a topic config query through to the master and
// returns its response untouched.
func (h *TopicHandlers) QueryTopicConfig(w http.ResponseWriter, r *http.Request) {
	h.passthrough(w, r, mq.OpQueryTopicInfo)
}

func (h *TopicHandlers) passthrough(w http.ResponseWriter, r *http.Request, masterOp string) {
	h.engine.TrackOperation()
	defer h.engine.UntrackOperation()

	query := r.URL.Query()
	clusterID := int64(0)
	if raw := query.Get("clusterId"); raw != "" {
		if _, err := fmt.Sscan(raw, &clusterID); err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "bad request", "clusterId must be an integer")
			return
		}
	}

	client, err := h.engine.MasterClient(clusterID)
	if err != nil {
		writeErrorResponse(w, http.StatusBadGateway, "master unavailable", err.Error())
		return
	}

	// The master method is fixed per endpoint; everything else is caller
	// supplied query state.
	params := url.Values{}
	for key, values := range query {
		if key == "clusterId" || key == "method" {
			continue
		}
		for _, v := range values {
			params.Add(key, v)
		}
	}
	params.Set("method", masterOp)
	params.Set("type", mq.TypeOpQuery)

	body, err := client.QueryRaw(r.Context(), params)
	if err != nil {
		h.engine.trackError()
		writeErrorResponse(w, http.StatusBadGateway, "master query failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (h *TopicHandlers) logf(format string, args ...interface{}) {
	if h.engine.logger != nil {
		h.engine.logger.Infof(format, args...)
	}
}
