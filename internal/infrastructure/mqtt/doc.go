// Package mqtt provides the optional MQTT event announcer for Relay Core.
//
// This package manages:
//   - Connection to a broker with auto-reconnect and exponential backoff
//   - Publishing actuation events with QoS guarantees
//   - Retained online/offline status with Last Will and Testament (LWT)
//   - Connection health monitoring
//
// # Architecture
//
// The announcer is strictly one-way: Relay Core publishes, it never
// subscribes. Commands must arrive through the authenticated HTTP endpoint;
// accepting trigger commands over MQTT would bypass the body-HMAC
// authentication entirely, so no command topic exists.
//
//	Relay Core → MQTT Broker → building automation / home assistant / dashboards
//
// The announcer is disabled by default and the actuation pipeline never
// depends on it: a broker outage costs event visibility, never actuations.
//
// # Security Considerations
//
//   - TLS is recommended for brokers outside the local host
//   - Published payloads carry actuation outcomes only, never secrets
//   - Anonymous broker access is only for local development
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.PulseEvent(23)
//	client.Publish(topic, payload, 1, false)
package mqtt
