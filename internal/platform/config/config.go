package config

import (
	"os"
	"strings"
	"time"
)

// Config captures process configuration. It is built once in main and injected
// into adapters at construction; nothing reads the environment after startup.
type Config struct {
	Addr        string
	CatalogPath string

	Ledger LedgerConfig
	Pin    PinConfig
	Kafka  KafkaConfig

	RedisURL       string
	VerifyCacheTTL time.Duration

	DatabaseURL string
}

// LedgerConfig configures the registry-contract RPC adapter. An empty RPCURL
// means no real chain is configured and the in-memory ledger is used instead.
type LedgerConfig struct {
	RPCURL          string
	ContractAddress string
	SenderAddress   string
	ExplorerBase    string
	SupportsCID     bool
	ReceiptTimeout  time.Duration
	ReceiptInterval time.Duration
}

// PinConfig configures content-store providers. Precedence is decided by which
// fields are set, never by failover at upload time.
type PinConfig struct {
	PinataJWT        string
	PinataEndpoint   string
	NFTStorageToken  string
	NFTStorageAPI    string
	Web3StorageToken string
}

// KafkaConfig configures the optional audit sink. Empty Brokers keeps audit
// events in memory.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Addr:        getenv("CISATTEST_ADDR", ":8080"),
		CatalogPath: getenv("CATALOG_PATH", "cis_v8_safeguards.json"),
		Ledger: LedgerConfig{
			RPCURL:          strings.TrimSpace(os.Getenv("RPC_URL")),
			ContractAddress: strings.TrimSpace(os.Getenv("CONTRACT_ADDRESS")),
			SenderAddress:   strings.TrimSpace(os.Getenv("SENDER_ADDRESS")),
			ExplorerBase:    getenv("EXPLORER_BASE", "https://sepolia.etherscan.io"),
			SupportsCID:     os.Getenv("CONTRACT_SUPPORTS_CID") != "false",
			ReceiptTimeout:  getenvDuration("RECEIPT_TIMEOUT", 90*time.Second),
			ReceiptInterval: getenvDuration("RECEIPT_INTERVAL", 2*time.Second),
		},
		Pin: PinConfig{
			PinataJWT:        strings.TrimSpace(os.Getenv("PINATA_JWT")),
			PinataEndpoint:   getenv("PINATA_ENDPOINT", "https://api.pinata.cloud/pinning/pinJSONToIPFS"),
			NFTStorageToken:  strings.TrimSpace(os.Getenv("NFT_STORAGE_TOKEN")),
			NFTStorageAPI:    getenv("NFT_STORAGE_API", "https://api.nft.storage/upload"),
			Web3StorageToken: strings.TrimSpace(os.Getenv("WEB3_STORAGE_TOKEN")),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getenv("KAFKA_AUDIT_TOPIC", "cisattest.audit"),
		},
		RedisURL:       strings.TrimSpace(os.Getenv("REDIS_URL")),
		VerifyCacheTTL: getenvDuration("VERIFY_CACHE_TTL", 5*time.Minute),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
