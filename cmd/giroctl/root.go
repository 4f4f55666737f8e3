package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/giroscopio/internal/client"
)

const defaultAgent = "http://localhost:5000"

type globalOptions struct {
	agent   string
	prefix  string
	timeout time.Duration
	json    bool
}

func (o *globalOptions) client() *client.Client {
	cfg := client.DefaultConfig(o.agent)
	cfg.APIPrefix = o.prefix
	if o.timeout > 0 {
		cfg.Timeout = o.timeout
	}
	return client.New(cfg)
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	agent := os.Getenv("GIROCTL_AGENT")
	if agent == "" {
		agent = defaultAgent
	}

	root := &cobra.Command{
		Use:   "giroctl",
		Short: "Control a giroscopio agent from the command line",
		Long: `giroctl sends actions to a giroscopio remote control agent: open the
word processor, the browser or the media player, launch programs and run
shell commands on the agent's machine.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.agent, "agent", "a", agent, "Agent base URL (env GIROCTL_AGENT)")
	root.PersistentFlags().StringVar(&opts.prefix, "prefix", "/api", "API path prefix")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "Request timeout (default 3s)")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "Print raw JSON")

	root.AddCommand(
		newPingCmd(opts),
		newStatsCmd(opts),
		newWatchCmd(opts),
		newOfficeCmd(opts),
		newWebCmd(opts),
		newMediaCmd(opts),
		newCustomCmd(opts),
		newCommandCmd(opts),
		newExecuteCmd(opts),
	)
	return root
}
