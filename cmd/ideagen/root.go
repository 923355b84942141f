package main

import (
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ideaforge/internal/gateway/config"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	verbose bool
	output  string
}

// cfg is loaded once before any subcommand runs; flags override it.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "ideagen",
	Short: "Generate ranked ideas with a creativity method",
	Long:  "ideagen drives the Disney, Brainstorming, SCAMPER, Six Hats and\nMind Mapping pipelines from the terminal.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if rootFlags.verbose {
			log.SetOutput(cmd.ErrOrStderr())
		} else {
			log.SetOutput(io.Discard)
		}
	},
}

func init() {
	_ = godotenv.Load()
	cfg = *config.FromEnv(os.Getenv)

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&rootFlags.verbose, "verbose", "v", false, "log pipeline progress to stderr")
	pf.StringVarP(&rootFlags.output, "output", "o", "", "output format: json or yaml (methods defaults to a table)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(methodsCmd)
	rootCmd.Version = version
}
