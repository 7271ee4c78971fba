package mqtt

import "fmt"

// Topic prefixes for Relay Core publications.
//
// All topics live under a single root: relaycore/{category}/...
const (
	// TopicPrefix is the root of all Relay Core topics.
	TopicPrefix = "relaycore"

	// TopicPrefixEvent is the base for actuation event topics.
	TopicPrefixEvent = "relaycore/event"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "relaycore/system"
)

// Topics provides builders for Relay Core MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	eventTopic := topics.PulseEvent(23)
//	// Returns: "relaycore/event/pulse/23"
type Topics struct{}

// PulseEvent returns the topic for a completed actuation on the given pin.
//
// Example: relaycore/event/pulse/23
func (Topics) PulseEvent(pin int) string {
	return fmt.Sprintf("%s/pulse/%d", TopicPrefixEvent, pin)
}

// SystemStatus returns the retained topic carrying the service's
// online/offline status (also the LWT topic).
//
// Example: relaycore/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}
