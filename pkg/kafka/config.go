package kafka

import "time"

// Config holds Kafka connection parameters.
type Config struct {
	ClientID string

	// SASL configuration for authentication.
	SASLMechanism string // "PLAIN", "SCRAM-SHA-256" or "SCRAM-SHA-512"
	SASLUsername  string
	SASLPassword  string

	Brokers []string

	// BatchTimeout bounds how long a partial batch waits before it is flushed.
	BatchTimeout time.Duration

	// TLS enables TLS for Kafka connections.
	TLS         bool
	SASLEnabled bool
}
