package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/newsletter/internal/flagx"
	"github.com/dmitrijs2005/newsletter/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its non-zero fields are copied into the runtime
// Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	EmailBaseURL          string         `json:"email_base_url"`
	EmailSenderAddr       string         `json:"email_sender_addr"`
	EmailAuthToken        string         `json:"email_auth_token"`
	EmailSendTimeout      timex.Duration `json:"email_send_timeout"`
	ConfirmBaseURL        string         `json:"confirm_base_url"`
	RateLimitRPS          int            `json:"rate_limit_rps"`
	RateLimitBurst        int            `json:"rate_limit_burst"`
	HashWorkers           int            `json:"hash_workers"`
	HashQueueSize         int            `json:"hash_queue_size"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; if neither
// is set, no JSON file is loaded. Fields absent from the file keep their
// current values. If the file cannot be read or contains invalid JSON, the
// function panics.
//
// The caller is expected to merge these values with defaults and
// command-line flags as part of the full configuration process.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = time.Duration(c.TokenValidityDuration.Duration)
	}
	if c.EmailBaseURL != "" {
		config.EmailBaseURL = c.EmailBaseURL
	}
	if c.EmailSenderAddr != "" {
		config.EmailSenderAddr = c.EmailSenderAddr
	}
	if c.EmailAuthToken != "" {
		config.EmailAuthToken = c.EmailAuthToken
	}
	if c.EmailSendTimeout.Duration != 0 {
		config.EmailSendTimeout = time.Duration(c.EmailSendTimeout.Duration)
	}
	if c.ConfirmBaseURL != "" {
		config.ConfirmBaseURL = c.ConfirmBaseURL
	}
	if c.RateLimitRPS != 0 {
		config.RateLimitRPS = c.RateLimitRPS
	}
	if c.RateLimitBurst != 0 {
		config.RateLimitBurst = c.RateLimitBurst
	}
	if c.HashWorkers != 0 {
		config.HashWorkers = c.HashWorkers
	}
	if c.HashQueueSize != 0 {
		config.HashQueueSize = c.HashQueueSize
	}
}
