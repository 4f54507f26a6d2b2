package commands

import (
	"runtime"

	"github.com/marmos91/sftpbridge/internal/cli/output"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := printer(cmd)
		if err != nil {
			return err
		}
		return p.Print(output.NewFields().
			Add("version", Version).
			Add("commit", Commit).
			Add("built", Date).
			Add("go", runtime.Version()))
	},
}
