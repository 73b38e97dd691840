package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cam-mcevenue/quadlet-forge/pkg/log"
	"github.com/cam-mcevenue/quadlet-forge/pkg/manifest"
	"github.com/cam-mcevenue/quadlet-forge/pkg/store"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove units from earlier builds that the manifest no longer produces",
	Long: `Compare the recorded state against what the manifest produces today
and remove leftover unit files from earlier builds.

Files whose content changed since they were written are left in place;
only their records are pruned, since someone edited them by hand.

Examples:
  quadlet-forge clean -f deploy.yaml
  quadlet-forge clean -f deploy.yaml --dry-run`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().StringP("file", "f", "", "Manifest file defining the current state (required)")
	cleanCmd.Flags().String("state", "", "State database path (default ~/.local/share/quadlet-forge/state.db)")
	cleanCmd.Flags().Bool("dry-run", false, "Show what would be removed without removing")
	_ = cleanCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")
	statePath, _ := cmd.Flags().GetString("state")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	m, err := manifest.LoadFile(filename)
	if err != nil {
		return err
	}
	units, err := manifest.NewAssembler(m).Assemble()
	if err != nil {
		return fmt.Errorf("failed to assemble manifest: %w", err)
	}

	current := make(map[string]struct{})
	for _, user := range units {
		for _, artifact := range user.Artifacts {
			current[user.User+"/"+artifact.FileName] = struct{}{}
		}
	}

	path, err := resolveStatePath(statePath)
	if err != nil {
		return err
	}
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()

	stale, err := s.StaleUnits(current)
	if err != nil {
		return fmt.Errorf("failed to find stale units: %w", err)
	}
	if len(stale) == 0 {
		fmt.Println("Nothing to clean.")
		return nil
	}

	if dryRun {
		for _, record := range stale {
			fmt.Printf("would remove %s\n", record.Path)
		}
		fmt.Printf("dry run: %d unit(s) to clean\n", len(stale))
		return nil
	}

	logger := log.WithComponent("clean")
	keys := make([]string, 0, len(stale))
	for _, record := range stale {
		keys = append(keys, record.Key())

		data, err := os.ReadFile(record.Path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", record.Path, err)
		}

		sum := sha256.Sum256(data)
		if hex.EncodeToString(sum[:]) != record.SHA256 {
			logger.Warn().Str("path", record.Path).Msg("unit edited since it was written, leaving file in place")
			fmt.Printf("! Skipped %s (edited by hand)\n", record.Path)
			continue
		}

		if err := os.Remove(record.Path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", record.Path, err)
		}
		fmt.Printf("✓ Removed %s\n", record.Path)
	}

	if err := s.DeleteUnits(keys); err != nil {
		return fmt.Errorf("failed to prune records: %w", err)
	}
	fmt.Printf("✓ Cleaned %d record(s)\n", len(keys))
	return nil
}
