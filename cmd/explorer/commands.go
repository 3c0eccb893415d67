package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	interests  string
	academics  string
	skills     string
	configFile string
	envFile    string

	rootCmd = &cobra.Command{
		Use:   "skilltree-explorer",
		Short: "Explore career-path suggestions from the terminal",
		Long: `skilltree-explorer builds the same suggestion tree as the web API,
in-process, reading prompts from stdin.`,
	}

	exploreCmd = &cobra.Command{
		Use:   "explore",
		Short: "Start a session and add suggestions interactively",
		Long: `Starts a session from the profile flags, then reads one command per line:

  select <id>   make <id> the parent of the next suggestion
  tree          print the current tree
  quit          leave
  anything else is sent as a prompt`,
		RunE: runExplore, // Defined in explore.go
	}
)

func init() {
	exploreCmd.Flags().StringVar(&interests, "interests", "", "your interests and hobbies")
	exploreCmd.Flags().StringVar(&academics, "academics", "", "your academic background")
	exploreCmd.Flags().StringVar(&skills, "skills", "", "your skills")

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (overrides CONFIG_FILE)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load")

	rootCmd.AddCommand(exploreCmd)
}
