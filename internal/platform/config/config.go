package config

import "os"

// Server captures process level configuration.
type Server struct {
	Addr            string
	DefaultNetwork  string
	IdentityAddress string
	RedisURL        string
	PostgresURL     string
	KafkaBrokers    string
	AuditTopic      string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("UPORT_AGENT_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	network := os.Getenv("UPORT_DEFAULT_NETWORK")
	if network == "" {
		// Rinkeby, matching the wallet's historical default.
		network = "0x4"
	}

	address := os.Getenv("UPORT_IDENTITY_ADDRESS")
	if address == "" {
		address = "did:ethr:0xf3beac30c498d9e26865f34fcaa57dbb935b0d74"
	}

	topic := os.Getenv("UPORT_AUDIT_TOPIC")
	if topic == "" {
		topic = "uport.interactions"
	}

	return Server{
		Addr:            addr,
		DefaultNetwork:  network,
		IdentityAddress: address,
		RedisURL:        os.Getenv("UPORT_REDIS_URL"),
		PostgresURL:     os.Getenv("UPORT_POSTGRES_URL"),
		KafkaBrokers:    os.Getenv("UPORT_KAFKA_BROKERS"),
		AuditTopic:      topic,
	}
}
