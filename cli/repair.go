package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"redline-backend/logger"
	"redline-backend/parser"

	"github.com/spf13/cobra"
)

var (
	repairInput   string
	repairRawOnly bool
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repairs a raw model response and prints the structured result",
	RunE:  runRepair,
}

func init() {
	repairCmd.Flags().StringVar(&repairInput, "input", "-", "raw model output file, - for stdin")
	repairCmd.Flags().BoolVar(&repairRawOnly, "text-only", false, "print the repaired text without validating it")
	rootCmd.AddCommand(repairCmd)
}

func runRepair(cmd *cobra.Command, args []string) error {
	var raw []byte
	var err error
	if repairInput == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(repairInput)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if repairRawOnly {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), parser.Repair(string(raw)))
		return err
	}

	result, ok := parser.ParseWithStatus(string(raw))
	if !ok {
		logger.Warn("Input could not be repaired, printing fallback result")
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}
