package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/MKhiriev/go-ftp-keeper/internal/client"
	"github.com/MKhiriev/go-ftp-keeper/internal/config"
	"github.com/MKhiriev/go-ftp-keeper/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	log := logger.NewLogger("ftpkeeper")

	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	if args := flag.Args(); len(args) > 0 && args[0] == "version" {
		printBuildInfo()
		return
	}

	app, err := client.NewApp(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "ftpkeeper: %v\n", err)
		os.Exit(1)
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
