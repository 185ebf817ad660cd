package main

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/redwaysecurity/the-hive-mcp-server/internal/config"
	"github.com/redwaysecurity/the-hive-mcp-server/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "thehive-mcp",
	Short: "thehive-mcp - MCP server for TheHive",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	RunE:  runServe,
}

var opts = config.DefaultOptions()

func runServe(cmd *cobra.Command, args []string) error {
	// stdout belongs to the stdio transport, so all logging goes to stderr.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	level, err := zerolog.ParseLevel(strings.ToLower(opts.LogLevel))
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)

	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env file")
	}

	srv, err := server.New(server.Options{
		Transport: opts.Transport,
		Listen:    opts.Listen,
		Modules:   opts.Modules,
	})
	if err != nil {
		return err
	}
	return srv.Run(cmd.Context())
}

func init() {
	serveCmd.Flags().StringVarP(&opts.Transport, "transport", "t", opts.Transport,
		"Transport to serve on: stdio, sse or streamable-http")
	serveCmd.Flags().StringVarP(&opts.Listen, "listen", "l", opts.Listen,
		"Listen address for HTTP transports")
	serveCmd.Flags().StringSliceVarP(&opts.Modules, "modules", "m", opts.Modules,
		"Tool modules to register (default: all)")
	serveCmd.Flags().StringVar(&opts.LogLevel, "log-level", opts.LogLevel,
		"Log level: trace, debug, info, warn or error")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
