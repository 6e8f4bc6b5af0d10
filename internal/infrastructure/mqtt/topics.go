package mqtt

import "strings"

// DefaultTopicPrefix is the root of every topic the studio uses.
const DefaultTopicPrefix = "graymotion"

// Topics builds the studio's MQTT topics under a common prefix.
//
//	topics := mqtt.NewTopics("graymotion")
//	topics.StateSnapshot() // "graymotion/state/snapshot"
type Topics struct {
	prefix string
}

// NewTopics returns topic builders rooted at prefix. Surrounding slashes
// are trimmed; an empty prefix uses DefaultTopicPrefix.
func NewTopics(prefix string) Topics {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return Topics{prefix: prefix}
}

// Prefix returns the topic root.
func (t Topics) Prefix() string {
	if t.prefix == "" {
		return DefaultTopicPrefix
	}
	return t.prefix
}

// StateSnapshot carries one batched message per emitted snapshot.
//
// Example: graymotion/state/snapshot
func (t Topics) StateSnapshot() string {
	return t.Prefix() + "/state/snapshot"
}

// StateReport is where the game bridge reports the property values it
// currently holds.
//
// Example: graymotion/state/report
func (t Topics) StateReport() string {
	return t.Prefix() + "/state/report"
}

// Command carries raw console command lines.
//
// Example: graymotion/command
func (t Topics) Command() string {
	return t.Prefix() + "/command"
}

// SystemStatus carries the retained online/offline status and the LWT.
//
// Example: graymotion/system/status
func (t Topics) SystemStatus() string {
	return t.Prefix() + "/system/status"
}

// All matches every studio topic.
//
// Example: graymotion/#
func (t Topics) All() string {
	return t.Prefix() + "/#"
}
