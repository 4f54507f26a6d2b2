package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/marmos91/sftpbridge/internal/cli/output"
	"github.com/marmos91/sftpbridge/internal/sftp/openflags"
	"github.com/spf13/cobra"
)

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "Translate open modes and SFTP open flags",
	Long: `Translate between fopen-style mode strings and the SFTP open flags
bitmask.

Examples:
  # Mode string to bitmask
  sftpwire flags to-number w+

  # Bitmask to candidate mode strings
  sftpwire flags from-number 26`,
}

var flagsToNumberCmd = &cobra.Command{
	Use:   "to-number <mode>",
	Short: "Convert a mode string such as r+ or wx to a bitmask",
	Args:  cobra.ExactArgs(1),
	RunE:  runFlagsToNumber,
}

var flagsFromNumberCmd = &cobra.Command{
	Use:   "from-number <flags>",
	Short: "Convert a bitmask to its candidate mode strings",
	Long: `Convert a bitmask to its candidate mode strings.

The bitmask is normalized first. Some values map to more than one mode
string; every candidate is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runFlagsFromNumber,
}

func init() {
	flagsCmd.AddCommand(flagsToNumberCmd)
	flagsCmd.AddCommand(flagsFromNumberCmd)
}

func runFlagsToNumber(cmd *cobra.Command, args []string) error {
	f, err := openflags.ToNumber(args[0])
	if err != nil {
		return err
	}

	p, err := printer(cmd)
	if err != nil {
		return err
	}
	return p.Print(output.NewFields().
		Add("mode", args[0]).
		Add("flags", uint32(f)).
		Add("names", f.String()))
}

func runFlagsFromNumber(cmd *cobra.Command, args []string) error {
	raw, err := strconv.ParseUint(args[0], 0, 32)
	if err != nil {
		return fmt.Errorf("invalid flags %q: %w", args[0], err)
	}

	f := openflags.Mask(uint32(raw))
	n := openflags.Normalize(f)
	modes := openflags.FromNumber(f)

	p, err := printer(cmd)
	if err != nil {
		return err
	}
	return p.Print(output.NewFields().
		Add("flags", uint32(f)).
		Add("normalized", uint32(n)).
		Add("names", n.String()).
		Add("modes", strings.Join(modes, " ")))
}
