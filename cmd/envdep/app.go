package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/gburgyan/go-envdep"
	"github.com/gburgyan/go-envdep/config"
	"github.com/gburgyan/go-envdep/logging"
)

func App() *cli.Command {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Usage:   "Path to config file",
		Aliases: []string{"c"},
		Sources: cli.EnvVars("ENVDEP_CONFIG_PATH"),
	}

	return &cli.Command{
		Name:  "envdep",
		Usage: "Detect the hosting environment and wire dependency injection into it",
		Commands: []*cli.Command{
			{
				Name:  "detect",
				Usage: "Show the available capabilities and the container that would be selected",
				Flags: []cli.Flag{configFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig(ctx, c)
					if err != nil {
						return err
					}
					return runDetect(c.Root().Writer, cfg)
				},
			},
			{
				Name:  "serve",
				Usage: "Bootstrap a demo web application and serve it",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Listen address",
						Value:   ":8080",
						Sources: cli.EnvVars("ENVDEP_ADDR"),
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig(ctx, c)
					if err != nil {
						return err
					}
					return runServe(ctx, cfg, c.String("addr"))
				},
			},
		},
	}
}

func loadConfig(ctx context.Context, c *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(ctx, c.String("config"))
	if err != nil {
		return nil, err
	}
	logging.SetupLogger(cfg.Log)
	envdep.EnableTiming = cfg.TimingMode()
	return cfg, nil
}

func runDetect(w io.Writer, cfg *config.Config) error {
	if w == nil {
		w = os.Stdout
	}
	prober := cfg.Prober(envdep.DefaultRegistry)

	_, _ = fmt.Fprintln(w, "registered capabilities:")
	caps := envdep.DefaultRegistry.List()
	if len(caps) == 0 {
		_, _ = fmt.Fprintln(w, "  (none)")
	}
	for _, c := range caps {
		_, _ = fmt.Fprintf(w, "  %s\n", c)
	}

	cc := envdep.NewContainerContext(envdep.NewWebContext(), nil, envdep.WithCapabilities(prober))
	_, _ = fmt.Fprintln(w, "containers:")
	var selected string
	for _, c := range envdep.DefaultContainers {
		touched := c.Touch(cc)
		_, _ = fmt.Fprintf(w, "  %-10s detected=%t\n", c.Name(), touched)
		if touched && selected == "" {
			selected = c.Name()
		}
	}

	switch {
	case cfg.Container != "":
		_, _ = fmt.Fprintf(w, "selected: %s (configured)\n", cfg.Container)
	case selected != "":
		_, _ = fmt.Fprintf(w, "selected: %s\n", selected)
	default:
		_, _ = fmt.Fprintln(w, "selected: none, injection disabled")
	}
	return nil
}
