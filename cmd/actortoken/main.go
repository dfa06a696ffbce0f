// Command actortoken prints a signed actor token for the Authorization header.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"courierdesk/internal/config"
	"courierdesk/internal/mw"
)

func main() {
	fs := pflag.NewFlagSet("actortoken", pflag.ExitOnError)
	name := fs.StringP("name", "n", "", "manager name to embed in the token (required)")
	ttl := fs.DurationP("ttl", "t", 24*time.Hour, "token lifetime, 0 for no expiry")
	_ = fs.Parse(os.Args[1:])

	if *name == "" {
		fmt.Fprintln(os.Stderr, "actortoken: --name is required")
		fs.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "actortoken:", err)
		os.Exit(1)
	}

	token, err := mw.IssueActorToken(cfg.Actor.Secret, *name, *ttl, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, "actortoken:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
