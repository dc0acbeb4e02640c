package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/bgg292/toolsmith/internal/branding"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

// buildInfo is the ldflags-injected identity plus the toolchain that built it.
type buildInfo struct {
	Version  string `json:"version"`
	Commit   string `json:"commit"`
	Date     string `json:"date"`
	Go       string `json:"go"`
	Platform string `json:"platform"`
}

func currentBuild() buildInfo {
	return buildInfo{
		Version:  buildVersion,
		Commit:   buildCommit,
		Date:     buildDate,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (b buildInfo) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s, %s %s)",
		branding.CLIName(), b.Version, b.Commit, b.Date, b.Go, b.Platform)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentBuild()
		switch {
		case versionShort:
			_, err := fmt.Fprintln(cmd.OutOrStdout(), info.Version)
			return err
		case versionJSON:
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(info); err != nil {
				return fmt.Errorf("encoding build info: %w", err)
			}
			return nil
		default:
			_, err := fmt.Fprintln(cmd.OutOrStdout(), info)
			return err
		}
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print the version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print build info as JSON")
	rootCmd.AddCommand(versionCmd)
}
