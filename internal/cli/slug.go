package cli

import (
	"fmt"
	"strings"

	"github.com/bgg292/toolsmith/internal/slug"
	"github.com/spf13/cobra"
)

var slugCmd = &cobra.Command{
	Use:   "slug <text>...",
	Short: "Print the normalized slug for a tool name",
	Long: `Normalize a proposed tool name the same way the pipeline does.

Example:
  toolsmith slug "My Tool!!"   # my-tool`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), slug.Normalize(strings.Join(args, " ")))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(slugCmd)
}
