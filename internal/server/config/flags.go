package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/newsletter/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      bearer token validity, minutes
//	-m string   email provider base URL
//	-f string   email sender address
//	-k string   email provider auth token
//	-e int      email send timeout, seconds
//	-l string   public base URL for confirmation links
//	-r int      rate limit, requests per second
//	-b int      rate limit burst
//	-w int      password hashing workers
//	-q int      password hashing queue size
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers and then converted to
//     time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:],
		[]string{"-a", "-d", "-s", "-t", "-m", "-f", "-k", "-e", "-l", "-r", "-b", "-w", "-q"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidityDuration := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token_validity_duration (in minutes)")

	fs.StringVar(&config.EmailBaseURL, "m", config.EmailBaseURL, "email provider base URL")
	fs.StringVar(&config.EmailSenderAddr, "f", config.EmailSenderAddr, "email sender address")
	fs.StringVar(&config.EmailAuthToken, "k", config.EmailAuthToken, "email provider auth token")

	emailSendTimeout := fs.Int("e", int(config.EmailSendTimeout.Seconds()), "email_send_timeout (in seconds)")

	fs.StringVar(&config.ConfirmBaseURL, "l", config.ConfirmBaseURL, "public base URL for confirmation links")
	fs.IntVar(&config.RateLimitRPS, "r", config.RateLimitRPS, "rate limit, requests per second")
	fs.IntVar(&config.RateLimitBurst, "b", config.RateLimitBurst, "rate limit burst")
	fs.IntVar(&config.HashWorkers, "w", config.HashWorkers, "password hashing workers")
	fs.IntVar(&config.HashQueueSize, "q", config.HashQueueSize, "password hashing queue size")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidityDuration) * time.Minute
	config.EmailSendTimeout = time.Duration(*emailSendTimeout) * time.Second
}
