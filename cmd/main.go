package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"study-assistant/internal/config"
	"study-assistant/internal/server"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	flag.Parse()

	path := *configPath
	if _, err := os.Stat(path); os.IsNotExist(err) && path == configFilePath {
		// no config file: run on defaults plus env vars
		path = ""
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	log.Debug().Interface("config", cfg).Msg("Loaded config")

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
