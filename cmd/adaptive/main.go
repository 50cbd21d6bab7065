package main

import (
	"fmt"
	"log"
	"os"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/app"
	"github.com/spf13/pflag"
)

func main() {
	configFile := pflag.StringP("config", "c", "", "optional config file (yaml, json, toml or env); environment variables take precedence")
	version := pflag.BoolP("version", "v", false, "print the version and exit")
	pflag.Parse()

	if *version {
		fmt.Fprintln(os.Stdout, app.BuildVersion)
		return
	}

	cfg, err := app.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
