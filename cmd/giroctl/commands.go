package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/giroscopio/internal/client"
	"github.com/GriffinCanCode/giroscopio/internal/domain/stats"
)

func newPingCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the agent is online",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := opts.client().Status(cmd.Context())
			if opts.json {
				if err := printJSON(cmd.OutOrStdout(), st); err != nil {
					return err
				}
			} else {
				printStatus(cmd.OutOrStdout(), st)
			}
			if !st.Connected {
				return fmt.Errorf("agent %s is unreachable", st.BackendURL)
			}
			return nil
		},
	}
}

func newStatsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show request and device statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := opts.client().Stats(cmd.Context())
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), snap)
			}
			printStats(cmd.OutOrStdout(), *snap)
			return nil
		},
	}
}

func newWatchCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream statistics as actions happen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return opts.client().Watch(ctx, func(snap stats.Snapshot) {
				if opts.json {
					_ = printJSON(out, snap)
					return
				}
				printStatsLine(out, snap)
			})
		},
	}
}

// actionCmd builds a command whose RunE sends one action.
func actionCmd(opts *globalOptions, use, short string, args cobra.PositionalArgs, send func(c *client.Client, cmd *cobra.Command, args []string) (*client.Result, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := send(opts.client(), cmd, args)
			if err != nil {
				return err
			}
			if opts.json {
				if err := printJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
			} else {
				printResult(cmd.OutOrStdout(), res)
			}
			if !res.Success {
				return fmt.Errorf("%s failed on the agent", res.Action)
			}
			return nil
		},
	}
}

func newOfficeCmd(opts *globalOptions) *cobra.Command {
	return actionCmd(opts, "office", "Open the word processor", cobra.NoArgs,
		func(c *client.Client, cmd *cobra.Command, _ []string) (*client.Result, error) {
			return c.Office(cmd.Context())
		})
}

func newWebCmd(opts *globalOptions) *cobra.Command {
	return actionCmd(opts, "web [url]", "Open the browser, on url if given", cobra.MaximumNArgs(1),
		func(c *client.Client, cmd *cobra.Command, args []string) (*client.Result, error) {
			url := ""
			if len(args) == 1 {
				url = args[0]
			}
			return c.Web(cmd.Context(), url)
		})
}

func newMediaCmd(opts *globalOptions) *cobra.Command {
	return actionCmd(opts, "media", "Open the media player", cobra.NoArgs,
		func(c *client.Client, cmd *cobra.Command, _ []string) (*client.Result, error) {
			return c.Media(cmd.Context())
		})
}

func newCustomCmd(opts *globalOptions) *cobra.Command {
	return actionCmd(opts, "custom <app_path>", "Launch an executable on the agent", cobra.ExactArgs(1),
		func(c *client.Client, cmd *cobra.Command, args []string) (*client.Result, error) {
			return c.Custom(cmd.Context(), args[0])
		})
}

func newCommandCmd(opts *globalOptions) *cobra.Command {
	return actionCmd(opts, "command <command...>", "Run a shell command on the agent", cobra.MinimumNArgs(1),
		func(c *client.Client, cmd *cobra.Command, args []string) (*client.Result, error) {
			return c.Command(cmd.Context(), strings.Join(args, " "))
		})
}

func newExecuteCmd(opts *globalOptions) *cobra.Command {
	var url string
	cmd := actionCmd(opts, "execute <office|web|media>", "Dispatch an action by name", cobra.ExactArgs(1),
		func(c *client.Client, cmd *cobra.Command, args []string) (*client.Result, error) {
			return c.Execute(cmd.Context(), args[0], url)
		})
	cmd.Flags().StringVar(&url, "url", "", "URL for the web action")
	return cmd
}
