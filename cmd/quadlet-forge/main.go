package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cam-mcevenue/quadlet-forge/pkg/log"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "quadlet-forge",
	Short: "quadlet-forge - Podman quadlet generator for multi-user hosts",
	Long: `quadlet-forge turns one declarative manifest into systemd unit files
in the podman quadlet dialect: .container, .pod, .network and .volume
units for the podman generator, plus .socket units for socket
activation. Each unix user listed in the manifest receives the units
their selections reference, dependencies included.

Generation is deterministic and validates the whole resource graph
before writing anything: duplicate names, port collisions, mount
conflicts and network/pod mixups fail the build with stable error
codes instead of producing units podman would reject.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		jsonOut, _ := cmd.Flags().GetBool("log-json")
		log.Init(log.Config{
			Level:      log.Level(level),
			JSONOutput: jsonOut,
		})
	},
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"quadlet-forge version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit JSON logs instead of console output")
}

// resolveStatePath applies the default state location under the invoking
// user's home when no explicit path is given
func resolveStatePath(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "quadlet-forge", "state.db"), nil
}
