// Package mq talks to StreamWeld message-queue cluster masters over their
// HTTP admin API and defines the closed set of topic management methods the
// proxy accepts.
package mq

// Topic proxy methods. The proxy rejects anything outside this set before
// touching the request body.
const (
	MethodAdd           = "add"
	MethodClone         = "clone"
	MethodAuthControl   = "authControl"
	MethodModify        = "modify"
	MethodDelete        = "delete"
	MethodRemove        = "remove"
	MethodQueryCanWrite = "queryCanWrite"
	MethodPublish       = "publish"
	MethodSubscribe     = "subscribe"
)

var allowedMethods = map[string]bool{
	MethodAdd:           true,
	MethodClone:         true,
	MethodAuthControl:   true,
	MethodModify:        true,
	MethodDelete:        true,
	MethodRemove:        true,
	MethodQueryCanWrite: true,
	MethodPublish:       true,
	MethodSubscribe:     true,
}

// IsValidMethod reports whether method belongs to the closed proxy set.
func IsValidMethod(method string) bool {
	return allowedMethods[method]
}

// Master admin API operations. These are the method values sent to the
// cluster master, not the proxy methods above.
const (
	OpAddTopic       = "admin_add_new_topic_record"
	OpModifyTopic    = "admin_modify_topic_info"
	OpDeleteTopic    = "admin_delete_topic_info"
	OpRemoveTopic    = "admin_remove_topic_info"
	OpQueryTopicInfo = "admin_query_topic_info"
	OpSetAuthControl = "admin_set_topic_authorize_control"
	OpSetReadWrite   = "admin_set_topic_read_write"
	OpQueryConsumers = "admin_query_consumer_group_info"
)

// Master request type values.
const (
	TypeOpModify = "op_modify"
	TypeOpQuery  = "op_query"
)

// AdminUser is stamped as createUser on privileged master operations issued
// by the proxy itself.
const AdminUser = "weldadmin"

// Error messages returned to proxy callers.
const (
	ErrMsgInvalidMethod = "Invalid method value."
	ErrMsgInvalidJSON   = "Invalid JSON format."
	ErrMsgNoSuchMethod  = "no such method"
	ErrMsgParamIllegal  = "illegal parameter"
	ErrMsgNoSuchCluster = "no master configured for cluster"
)
