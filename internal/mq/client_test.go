package mq

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMaster(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *MasterClient) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	addr := strings.TrimPrefix(server.URL, "http://")
	return server, NewMasterClient(addr, 0, nil)
}

func TestIsValidMethod(t *testing.T) {
	for _, m := range []string{"add", "clone", "authControl", "modify", "delete", "remove", "queryCanWrite", "publish", "subscribe"} {
		assert.True(t, IsValidMethod(m), m)
	}
	assert.False(t, IsValidMethod("drop"))
	assert.False(t, IsValidMethod(""))
	assert.False(t, IsValidMethod("Add"))
}

func TestRequestMapsMasterEnvelope(t *testing.T) {
	var gotQuery url.Values
	_, client := newTestMaster(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"result":true,"errCode":0,"errMsg":"OK","data":[{"topicName":"t1"}]}`))
	})

	req := &AddTopicReq{
		BaseReq:      BaseReq{ClusterID: 1, User: "alice"},
		TopicNames:   []string{"t1", "t2"},
		PartitionNum: 3,
		BrokerIDs:    []int64{101, 102},
	}

	result, err := client.Request(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ErrCode)
	assert.Equal(t, "OK", result.ErrMsg)
	assert.NotNil(t, result.Data)

	assert.Equal(t, OpAddTopic, gotQuery.Get("method"))
	assert.Equal(t, TypeOpModify, gotQuery.Get("type"))
	assert.Equal(t, "t1,t2", gotQuery.Get("topicName"))
	assert.Equal(t, "3", gotQuery.Get("numPartitions"))
	assert.Equal(t, "101,102", gotQuery.Get("brokerId"))
	assert.Equal(t, "alice", gotQuery.Get("createUser"))
}

func TestRequestMasterFailureEnvelope(t *testing.T) {
	_, client := newTestMaster(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":false,"errCode":0,"errMsg":"duplicate topic"}`))
	})

	result, err := client.Request(context.Background(), &ModifyTopicReq{TopicName: "t"})
	require.NoError(t, err)
	assert.Equal(t, -1, result.ErrCode)
	assert.Equal(t, "duplicate topic", result.ErrMsg)
}

func TestRequestMasterDown(t *testing.T) {
	server, client := newTestMaster(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := client.Request(context.Background(), &ModifyTopicReq{TopicName: "t"})
	assert.Error(t, err)
}

func TestRequestMasterHTTPError(t *testing.T) {
	_, client := newTestMaster(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Request(context.Background(), &ModifyTopicReq{TopicName: "t"})
	assert.Error(t, err)
}

func TestQueryCanWrite(t *testing.T) {
	_, client := newTestMaster(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, OpQueryTopicInfo, r.URL.Query().Get("method"))
		w.Write([]byte(`{"result":true,"errCode":0,"errMsg":"OK",
			"data":[{"topicName":"events","numPartitions":3,"acceptPublish":true}]}`))
	})

	result, err := client.QueryCanWrite(context.Background(), "events")
	require.NoError(t, err)
	assert.Equal(t, 0, result.ErrCode)
	assert.Equal(t, map[string]bool{"canWrite": true}, result.Data)
}

func TestQueryCanWriteUnknownTopic(t *testing.T) {
	_, client := newTestMaster(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":true,"errCode":0,"errMsg":"OK","data":[]}`))
	})

	result, err := client.QueryCanWrite(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, -1, result.ErrCode)
	assert.Contains(t, result.ErrMsg, "not found")
}

func TestQueryRawPassthrough(t *testing.T) {
	_, client := newTestMaster(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "admin_query_consumer_group_info", r.URL.Query().Get("method"))
		w.Write([]byte(`{"groups":["g1"]}`))
	})

	params := url.Values{}
	params.Set("method", "admin_query_consumer_group_info")
	body, err := client.QueryRaw(context.Background(), params)
	require.NoError(t, err)
	assert.JSONEq(t, `{"groups":["g1"]}`, string(body))
}

func TestQueryCanWriteReqLegal(t *testing.T) {
	assert.True(t, (&QueryCanWriteReq{BaseReq: BaseReq{ClusterID: 1}, TopicName: "t"}).Legal())
	assert.False(t, (&QueryCanWriteReq{BaseReq: BaseReq{ClusterID: 1}}).Legal())
	assert.False(t, (&QueryCanWriteReq{TopicName: "t"}).Legal())
}

func TestDeleteTopicReqOpStamping(t *testing.T) {
	req := &DeleteTopicReq{TopicName: "t"}
	assert.Equal(t, OpDeleteTopic, req.Params().Get("method"))

	req.Op = OpRemoveTopic
	assert.Equal(t, OpRemoveTopic, req.Params().Get("method"))
}

func TestSetAuthControlReqParams(t *testing.T) {
	req := &SetAuthControlReq{TopicName: "t", Enable: true, CreateUser: AdminUser}
	params := req.Params()
	assert.Equal(t, OpSetAuthControl, params.Get("method"))
	assert.Equal(t, TypeOpModify, params.Get("type"))
	assert.Equal(t, "true", params.Get("isEnable"))
	assert.Equal(t, AdminUser, params.Get("createUser"))
}
