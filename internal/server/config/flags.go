package config

import (
	"flag"
	"os"
	"time"

	"github.com/kids-learning/auth-service/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3001")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token time-to-live, minutes
//	-g int      bcrypt cost for guardian passwords
//	-p int      bcrypt cost for dependent passwords
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with other components.
//   - The TTL flag is accepted as an integer in minutes and then converted
//     to a time.Duration value.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-g", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Address, "a", config.Address, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.JWTSecret, "s", config.JWTSecret, "JWT signing secret")

	tokenTTL := fs.Int("t", int(config.TokenTTL.Minutes()), "token_ttl (in minutes)")

	fs.IntVar(&config.BcryptCostGuardian, "g", config.BcryptCostGuardian, "bcrypt cost for guardian passwords")
	fs.IntVar(&config.BcryptCostDependent, "p", config.BcryptCostDependent, "bcrypt cost for dependent passwords")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Overwrite TokenTTL only when -t was actually passed, so a sub-minute
	// TTL from the environment survives untouched.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenTTL = time.Duration(*tokenTTL) * time.Minute
		}
	})
}
