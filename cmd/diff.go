package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"

	"table-reconciler/core/applier"
	"table-reconciler/core/diff"
	"table-reconciler/core/keyed"
	"table-reconciler/core/oracle"

	"github.com/spf13/cobra"
)

var verifyDiff bool

// diffCmd diffs two table state files and prints the edit script.
var diffCmd = &cobra.Command{
	Use:   "diff OLD NEW",
	Short: "Diff two table state JSON files",
	Long: `Diff two table state JSON files and print the edit script as JSON.

A table state file has the shape:

  {"sections": [{"key": "s1", "payload": {...}, "rows": [{"key": "r1", "payload": {...}}]}]}

Payloads are arbitrary JSON values compared by deep equality.

Examples:
  # Print the script transforming old.json into new.json
  table-reconciler diff old.json new.json

  # Additionally replay the script against OLD and check it yields NEW
  table-reconciler diff old.json new.json --verify`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().BoolVar(&verifyDiff, "verify", false, "Replay the script against OLD and check the result equals NEW")
	RootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	oldState, err := readState(args[0])
	if err != nil {
		return err
	}
	newState, err := readState(args[1])
	if err != nil {
		return err
	}

	script, err := diff.Tables(oldState, newState, oracle.NewJSONRegistry())
	if err != nil {
		return fmt.Errorf("failed to diff states: %w", err)
	}

	if verifyDiff {
		model := applier.NewModel(oldState)
		if err := model.Apply(script, newState); err != nil {
			return fmt.Errorf("script replay failed: %w", err)
		}
		// Round the target state through the same copier so empty and
		// absent sequences compare alike.
		if !reflect.DeepEqual(model.State(), applier.NewModel(newState).State()) {
			return fmt.Errorf("script replay diverged from the new state")
		}
	}

	out, err := json.MarshalIndent(script, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode script: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func readState(path string) (keyed.TableState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return keyed.TableState{}, fmt.Errorf("failed to read state file %s: %w", path, err)
	}

	var state keyed.TableState
	if err := json.Unmarshal(data, &state); err != nil {
		return keyed.TableState{}, fmt.Errorf("failed to parse state file %s: %w", path, err)
	}
	return state, nil
}
