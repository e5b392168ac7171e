package main

import (
	"os"

	"github.com/bmc/pkg/cmd"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	if err := cmd.Run(); err != nil {
		log.Error().Msg(err.Error())
		os.Exit(1)
	}
}
