package commands

import (
	"encoding/hex"
	"fmt"

	"github.com/marmos91/sftpbridge/internal/cli/output"
	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode a hex encoded SFTP record",
	Long: `Decode a hex encoded SFTP record body.

Examples:
  # ATTRS with size 5
  sftpwire decode attrs 00000001 0000000000000005

  # STATUS as JSON
  sftpwire decode status 00000002000000046e6f706500000000 -o json

  # Extension payload
  sftpwire decode ext posix-rename@openssh.com 0000000131`,
}

var decodeAttrsCmd = &cobra.Command{
	Use:   "attrs <hex>...",
	Short: "Decode an ATTRS record",
	Args:  cobra.MinimumNArgs(1),
	RunE: decodeWith(func(cmd *cobra.Command, data []byte) (any, error) {
		a, err := cdc.DecodeAttrs(cmd.Context(), data)
		if err != nil {
			return nil, err
		}
		return attrsFields(a), nil
	}),
}

var decodeStatusCmd = &cobra.Command{
	Use:   "status <hex>...",
	Short: "Decode a STATUS body",
	Args:  cobra.MinimumNArgs(1),
	RunE: decodeWith(func(cmd *cobra.Command, data []byte) (any, error) {
		s, err := cdc.DecodeStatus(cmd.Context(), data)
		if err != nil {
			return nil, err
		}
		return statusFields(s), nil
	}),
}

var decodeStatVFSCmd = &cobra.Command{
	Use:   "statvfs <hex>...",
	Short: "Decode a statvfs reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: decodeWith(func(cmd *cobra.Command, data []byte) (any, error) {
		s, err := cdc.DecodeStatVFS(cmd.Context(), data)
		if err != nil {
			return nil, err
		}
		return statvfsFields(s), nil
	}),
}

var decodeVersionCmd = &cobra.Command{
	Use:   "version <hex>...",
	Short: "Decode an SSH_FXP_VERSION body",
	Args:  cobra.MinimumNArgs(1),
	RunE: decodeWith(func(cmd *cobra.Command, data []byte) (any, error) {
		v, err := cdc.DecodeVersion(cmd.Context(), data)
		if err != nil {
			return nil, err
		}
		if f, _ := output.ParseFormat(outputFormat); f == output.FormatTable {
			fmt.Fprintf(cmd.OutOrStdout(), "protocol version %d\n", v.Version)
			return versionTable(v), nil
		}
		return v, nil
	}),
}

var decodeExtCmd = &cobra.Command{
	Use:   "ext <name> <hex>...",
	Short: "Decode the data field of an extension pair",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		return decodeWith(func(cmd *cobra.Command, data []byte) (any, error) {
			pl, err := cdc.DecodeExtension(cmd.Context(), name, data)
			if err != nil {
				return nil, err
			}
			return output.NewFields().
				Add("name", name).
				Add("payload", describePayload(pl)), nil
		})(cmd, args[1:])
	},
}

func init() {
	decodeCmd.AddCommand(decodeAttrsCmd)
	decodeCmd.AddCommand(decodeStatusCmd)
	decodeCmd.AddCommand(decodeStatVFSCmd)
	decodeCmd.AddCommand(decodeVersionCmd)
	decodeCmd.AddCommand(decodeExtCmd)
}

// decodeWith joins the hex arguments, runs fn and prints its result.
func decodeWith(fn func(cmd *cobra.Command, data []byte) (any, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		var data []byte
		for _, a := range args {
			b, err := parseHex(a)
			if err != nil {
				return err
			}
			data = append(data, b...)
		}

		v, err := fn(cmd, data)
		if err != nil {
			return err
		}

		p, err := printer(cmd)
		if err != nil {
			return err
		}
		return p.Print(v)
	}
}

// printHex writes data as one hex line.
func printHex(cmd *cobra.Command, data []byte) {
	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(data))
}
