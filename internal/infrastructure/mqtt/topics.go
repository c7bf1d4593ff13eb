package mqtt

import "strings"

// Topic namespace constants.
const (
	// topicPrefix is the root of all gucfop topics.
	topicPrefix = "gucfop"

	// pointsSegment carries JSON point records for the ingest pump.
	pointsSegment = "points"

	// statusSegment carries retained online/offline status per client.
	statusSegment = "status"
)

// Topics provides builders for the gucfop topic hierarchy.
//
//	gucfop/points/{measurement}   point records, one JSON record per message
//	gucfop/status/{client_id}     retained client status (online/offline)
//
// Topics is stateless; use the zero value: mqtt.Topics{}.Points("cpu").
type Topics struct{}

// Points returns the topic carrying records for one measurement.
func (Topics) Points(measurement string) string {
	return join(topicPrefix, pointsSegment, measurement)
}

// AllPoints returns the wildcard topic matching every measurement.
func (Topics) AllPoints() string {
	return join(topicPrefix, pointsSegment, "#")
}

// Status returns the retained status topic for a client.
func (Topics) Status(clientID string) string {
	return join(topicPrefix, statusSegment, clientID)
}

// MeasurementFromTopic extracts the measurement segment of a points topic.
// It returns false for topics outside gucfop/points/.
func MeasurementFromTopic(topic string) (string, bool) {
	prefix := join(topicPrefix, pointsSegment) + "/"
	rest, ok := strings.CutPrefix(topic, prefix)
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}

func join(parts ...string) string {
	return strings.Join(parts, "/")
}
