package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cam-mcevenue/quadlet-forge/pkg/log"
	"github.com/cam-mcevenue/quadlet-forge/pkg/manifest"
	"github.com/cam-mcevenue/quadlet-forge/pkg/store"
	"github.com/cam-mcevenue/quadlet-forge/pkg/writer"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate unit files from a manifest",
	Long: `Generate quadlet and socket units from a YAML manifest and install
them under each user's home directory.

Examples:
  # Install units under /home/<user>/.config/...
  quadlet-forge build -f deploy.yaml

  # Preview without writing
  quadlet-forge build -f deploy.yaml --dry-run

  # Write everything into one flat directory for inspection
  quadlet-forge build -f deploy.yaml --output ./out`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("file", "f", "", "Manifest file to build (required)")
	buildCmd.Flags().String("home-root", "/home", "Directory containing user home directories")
	buildCmd.Flags().String("output", "", "Write all units into this directory instead of user homes")
	buildCmd.Flags().String("state", "", "State database path (default ~/.local/share/quadlet-forge/state.db)")
	buildCmd.Flags().Bool("dry-run", false, "Resolve and print paths without writing")
	_ = buildCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")
	homeRoot, _ := cmd.Flags().GetString("home-root")
	output, _ := cmd.Flags().GetString("output")
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

	runID := uuid.New().String()
	startedAt := time.Now().UTC()
	logger := log.WithRunID(runID)

	var records []*store.UnitRecord
	total := 0
	for _, user := range units {
		w := writer.New(filepath.Join(homeRoot, user.User))
		if output != "" {
			w.Root = output
			w.Flatten = true
		}
		w.DryRun = dryRun

		written, err := w.Write(user.Artifacts)
		if err != nil {
			return fmt.Errorf("failed to write units for user %s: %w", user.User, err)
		}

		for _, f := range written {
			if dryRun {
				fmt.Printf("would write %s\n", f.Path)
			} else {
				fmt.Printf("✓ %s\n", f.Path)
			}
			records = append(records, &store.UnitRecord{
				Name:      f.Artifact.FileName,
				Kind:      strings.TrimPrefix(filepath.Ext(f.Artifact.FileName), "."),
				User:      user.User,
				Path:      f.Path,
				SHA256:    f.SHA256,
				RunID:     runID,
				WrittenAt: startedAt,
			})
		}
		total += len(written)
	}

	if dryRun {
		fmt.Printf("dry run: %d unit(s) for %d user(s), nothing written\n", total, len(units))
		return nil
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

	run := &store.Run{ID: runID, Distro: m.Distro, StartedAt: startedAt, UnitCount: total}
	if err := s.RecordRun(run, records); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	logger.Info().Int("units", total).Int("users", len(units)).Msg("build complete")
	fmt.Printf("✓ Wrote %d unit(s) for %d user(s)\n", total, len(units))
	return nil
}
