package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chiquebutik/butik/config"
	"github.com/chiquebutik/butik/internal/kernel"
	"github.com/chiquebutik/butik/internal/server"
	"github.com/chiquebutik/butik/pkg/migration"
)

var serveMigrateFlag bool

// butik serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP server and in-process queue workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		k, err := kernel.Boot(ctx)
		if err != nil {
			return err
		}
		defer k.Close()

		if serveMigrateFlag {
			if err := migration.New(k.DB).WithOutput(cmd.OutOrStdout()).Run(); err != nil {
				return err
			}
		}

		if n := config.QueueWorkers(); n > 0 {
			go k.Queue.Run(ctx, n)
		}

		return server.Run(ctx, k.Handler(), server.Options{Addr: ":" + config.AppPort()})
	},
}

// butik route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range kernel.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrateFlag, "migrate", false, "Run pending migrations before serving")
}
