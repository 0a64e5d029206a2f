package mq

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Result is the envelope every proxy and master operation resolves to.
// ErrCode 0 means success; anything else carries a message.
type Result struct {
	ErrCode int         `json:"errCode"`
	ErrMsg  string      `json:"errMsg"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResult builds a failed Result with the given message.
func ErrorResult(msg string) *Result {
	return &Result{ErrCode: -1, ErrMsg: msg}
}

// SuccessResult builds a successful Result carrying data.
func SuccessResult(data interface{}) *Result {
	return &Result{ErrCode: 0, ErrMsg: "OK", Data: data}
}

// Request is a master admin operation expressible as query parameters.
type Request interface {
	Params() url.Values
	GetClusterID() int64
}

// BaseReq carries the fields shared by every master request.
type BaseReq struct {
	ClusterID int64  `json:"clusterId"`
	User      string `json:"user,omitempty"`
}

// GetClusterID returns the target cluster.
func (r *BaseReq) GetClusterID() int64 {
	return r.ClusterID
}

func (r *BaseReq) baseParams(method, opType string) url.Values {
	v := url.Values{}
	v.Set("method", method)
	v.Set("type", opType)
	if r.User != "" {
		v.Set("createUser", r.User)
	}
	return v
}

// AddTopicReq creates topics on a set of brokers.
type AddTopicReq struct {
	BaseReq
	TopicNames   []string `json:"topicNames"`
	PartitionNum int      `json:"partitionNum,omitempty"`
	BrokerIDs    []int64  `json:"brokerIds,omitempty"`
}

// Params renders the master query parameters.
func (r *AddTopicReq) Params() url.Values {
	v := r.baseParams(OpAddTopic, TypeOpModify)
	v.Set("topicName", strings.Join(r.TopicNames, ","))
	if r.PartitionNum > 0 {
		v.Set("numPartitions", strconv.Itoa(r.PartitionNum))
	}
	if len(r.BrokerIDs) > 0 {
		v.Set("brokerId", joinInt64(r.BrokerIDs))
	}
	return v
}

// ModifyTopicReq updates an existing topic's configuration.
type ModifyTopicReq struct {
	BaseReq
	TopicName    string `json:"topicName"`
	PartitionNum int    `json:"partitionNum,omitempty"`
	Comment      string `json:"comment,omitempty"`
}

// Params renders the master query parameters.
func (r *ModifyTopicReq) Params() url.Values {
	v := r.baseParams(OpModifyTopic, TypeOpModify)
	v.Set("topicName", r.TopicName)
	if r.PartitionNum > 0 {
		v.Set("numPartitions", strconv.Itoa(r.PartitionNum))
	}
	if r.Comment != "" {
		v.Set("comment", r.Comment)
	}
	return v
}

// DeleteTopicReq removes a topic. Op selects soft delete or hard removal and
// is stamped by the proxy, never by the caller.
type DeleteTopicReq struct {
	BaseReq
	TopicName string  `json:"topicName"`
	BrokerIDs []int64 `json:"brokerIds,omitempty"`
	Op        string  `json:"-"`
}

// Params renders the master query parameters.
func (r *DeleteTopicReq) Params() url.Values {
	op := r.Op
	if op == "" {
		op = OpDeleteTopic
	}
	v := r.baseParams(op, TypeOpModify)
	v.Set("topicName", r.TopicName)
	if len(r.BrokerIDs) > 0 {
		v.Set("brokerId", joinInt64(r.BrokerIDs))
	}
	return v
}

// SetAuthControlReq toggles topic authorization enforcement. Method, type and
// createUser are stamped by the proxy.
type SetAuthControlReq struct {
	BaseReq
	TopicName  string `json:"topicName"`
	Enable     bool   `json:"enable"`
	CreateUser string `json:"-"`
}

// Params renders the master query parameters.
func (r *SetAuthControlReq) Params() url.Values {
	v := r.baseParams(OpSetAuthControl, TypeOpModify)
	v.Set("topicName", r.TopicName)
	v.Set("isEnable", strconv.FormatBool(r.Enable))
	if r.CreateUser != "" {
		v.Set("createUser", r.CreateUser)
	}
	return v
}

// QueryCanWriteReq asks whether a topic currently accepts producers.
type QueryCanWriteReq struct {
	BaseReq
	TopicName string `json:"topicName"`
}

// Legal reports whether the request carries everything the check needs.
func (r *QueryCanWriteReq) Legal() bool {
	return r.TopicName != "" && r.ClusterID > 0
}

// Params renders the master query parameters.
func (r *QueryCanWriteReq) Params() url.Values {
	v := r.baseParams(OpQueryTopicInfo, TypeOpQuery)
	v.Set("topicName", r.TopicName)
	return v
}

// SetPublishReq toggles whether a topic accepts producers.
type SetPublishReq struct {
	BaseReq
	TopicName string  `json:"topicName"`
	Publish   bool    `json:"publish"`
	BrokerIDs []int64 `json:"brokerIds,omitempty"`
}

// Params renders the master query parameters.
func (r *SetPublishReq) Params() url.Values {
	v := r.baseParams(OpSetReadWrite, TypeOpModify)
	v.Set("topicName", r.TopicName)
	v.Set("acceptPublish", strconv.FormatBool(r.Publish))
	if len(r.BrokerIDs) > 0 {
		v.Set("brokerId", joinInt64(r.BrokerIDs))
	}
	return v
}

// SetSubscribeReq toggles whether a topic accepts consumers.
type SetSubscribeReq struct {
	BaseReq
	TopicName string  `json:"topicName"`
	Subscribe bool    `json:"subscribe"`
	BrokerIDs []int64 `json:"brokerIds,omitempty"`
}

// Params renders the master query parameters.
func (r *SetSubscribeReq) Params() url.Values {
	v := r.baseParams(OpSetReadWrite, TypeOpModify)
	v.Set("topicName", r.TopicName)
	v.Set("acceptSubscribe", strconv.FormatBool(r.Subscribe))
	if len(r.BrokerIDs) > 0 {
		v.Set("brokerId", joinInt64(r.BrokerIDs))
	}
	return v
}

// CloneTopicReq copies a topic's configuration onto additional brokers.
type CloneTopicReq struct {
	BaseReq
	SourceTopicName string  `json:"sourceTopicName"`
	TargetTopicName string  `json:"targetTopicName,omitempty"`
	BrokerIDs       []int64 `json:"brokerIds"`
}

// Params renders the query used to look up the source topic.
func (r *CloneTopicReq) Params() url.Values {
	v := r.baseParams(OpQueryTopicInfo, TypeOpQuery)
	v.Set("topicName", r.SourceTopicName)
	return v
}

// TopicView is the subset of master topic info the proxy interprets.
type TopicView struct {
	TopicName       string `json:"topicName"`
	PartitionNum    int    `json:"numPartitions"`
	AcceptPublish   bool   `json:"acceptPublish"`
	AcceptSubscribe bool   `json:"acceptSubscribe"`
	AuthData        struct {
		Enable bool `json:"enableAuthControl"`
	} `json:"authData"`
}

func joinInt64(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}
