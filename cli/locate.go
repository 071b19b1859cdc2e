package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"redline-backend/locator"
	"redline-backend/models"
	"redline-backend/parser"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var (
	locateTextFile     string
	locateCommentsFile string
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Anchors comments on a text file and prints their ranges as JSON",
	Long: `locate reads a document and a comments file and prints every comment
with its resolved start and end offsets. The comments file may be a JSON
array of comments or a raw model response, which is repaired first.`,
	RunE: runLocate,
}

func init() {
	locateCmd.Flags().StringVar(&locateTextFile, "text", "", "document text file")
	locateCmd.Flags().StringVar(&locateCommentsFile, "comments", "", "comments JSON or raw model output")
	_ = locateCmd.MarkFlagRequired("text")
	_ = locateCmd.MarkFlagRequired("comments")
	rootCmd.AddCommand(locateCmd)
}

func runLocate(cmd *cobra.Command, args []string) error {
	text, err := os.ReadFile(locateTextFile)
	if err != nil {
		return fmt.Errorf("failed to read text: %w", err)
	}
	raw, err := os.ReadFile(locateCommentsFile)
	if err != nil {
		return fmt.Errorf("failed to read comments: %w", err)
	}

	comments, err := loadComments(raw)
	if err != nil {
		return err
	}

	located := locator.LocateComments(comments, string(text))
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(located)
}

// loadComments accepts a bare comment array or anything the parser can repair
func loadComments(raw []byte) ([]models.Comment, error) {
	if gjson.ValidBytes(raw) && gjson.ParseBytes(raw).IsArray() {
		var comments []models.Comment
		if err := json.Unmarshal(raw, &comments); err != nil {
			return nil, fmt.Errorf("invalid comments array: %w", err)
		}
		return comments, nil
	}

	result, ok := parser.ParseWithStatus(string(raw))
	if !ok {
		return nil, fmt.Errorf("comments file is neither a comment array nor a usable model response")
	}
	return result.Comments, nil
}
