package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tonlabs/ever-sdk-go/pkg/log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tonmonitor",
	Short: "tonmonitor - reference CLI for the ever-sdk-go message monitor",
	Long: `tonmonitor drives the message monitor SDK: run "serve" to stand up a
reference node backend and HTTP API, then use the monitor subcommands from
another shell (or another machine) to submit messages and await settlement.`,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(keypairCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}
