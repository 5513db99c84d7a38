package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

type Config struct {
	CockroachURL      string        `ff:"long: cockroach-url, default: postgresql://root@127.0.0.1:26257/defaultdb?sslmode=disable, usage: URL for the CockroachDB database"`
	NATSURL           string        `ff:"long: nats-url, default: nats://127.0.0.1:4222, usage: URL for the NATS server"`
	Port              uint32        `ff:"long: port, short: p, default: 4242, usage: Port for the HTTP server"`
	BaseURL           string        `ff:"long: base-url, default: http://localhost:4242, usage: Public base URL used in push notification deep links"`
	VAPIDPublicKey    string        `ff:"long: vapid-public-key, usage: VAPID public key for web push, nodefault"`
	VAPIDPrivateKey   string        `ff:"long: vapid-private-key, usage: VAPID private key for web push, nodefault"`
	VAPIDSubscriber   string        `ff:"long: vapid-subscriber, default: mailto:admin@swapmeet.local, usage: VAPID subscriber contact for web push"`
	BackgroundTimeout time.Duration `ff:"long: background-timeout, default: 15s, usage: Timeout for background notification work"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	fs := ff.NewFlagSetFrom("swapmeet", &cfg)
	err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("SWAPMEET"))
	if errors.Is(err, ff.ErrHelp) {
		fmt.Println(ffhelp.Flags(fs))
		os.Exit(0)
	}

	return cfg, err
}
