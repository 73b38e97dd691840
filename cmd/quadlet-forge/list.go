package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cam-mcevenue/quadlet-forge/pkg/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List units recorded by earlier builds",
	RunE:  runList,
}

func init() {
	listCmd.Flags().String("state", "", "State database path (default ~/.local/share/quadlet-forge/state.db)")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	statePath, _ := cmd.Flags().GetString("state")

	path, err := resolveStatePath(statePath)
	if err != nil {
		return err
	}
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.ListUnits()
	if err != nil {
		return fmt.Errorf("failed to list units: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No units recorded.")
		return nil
	}

	fmt.Printf("%-12s %-28s %-10s %s\n", "USER", "UNIT", "KIND", "PATH")
	for _, record := range records {
		fmt.Printf("%-12s %-28s %-10s %s\n", record.User, record.Name, record.Kind, record.Path)
	}
	return nil
}
