package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := App().Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("envdep failed")
	}
}
