package commands

import (
	"fmt"

	"github.com/marmos91/sftpbridge/internal/logger"
	"github.com/marmos91/sftpbridge/internal/sftp/attrs"
	"github.com/marmos91/sftpbridge/internal/sftp/statvfs"
	"github.com/spf13/cobra"
)

var statCmd = &cobra.Command{
	Use:   "stat <path>",
	Short: "Show a host file's attributes as an ATTRS record",
	Long: `Lstat a host path, convert the result to SFTP attributes and print
them together with their wire encoding.

The record is also stored in the configured attribute cache, so a later
"sftpwire stat --cached <path>" with a persistent cache returns it without
touching the file.`,
	Args: cobra.ExactArgs(1),
	RunE: runStat,
}

var statCached bool

var statvfsCmd = &cobra.Command{
	Use:   "statvfs <path>",
	Short: "Show a host filesystem's statistics as a statvfs reply",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatVFS,
}

func init() {
	statCmd.Flags().BoolVar(&statCached, "cached", false, "Read from the attribute cache instead of the filesystem")
}

func runStat(cmd *cobra.Command, args []string) error {
	ctx := logger.WithContext(cmd.Context(), logger.NewLogContext("stat").WithPath(args[0]))
	path := args[0]

	var a *attrs.Attributes
	if statCached {
		cached, ok, err := cdc.Lookup(ctx, path)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s: not in cache", path)
		}
		a = cached
	} else {
		host, err := attrs.Lstat(path)
		if err != nil {
			return err
		}
		data, err := cdc.EncodeAttrs(ctx, host)
		if err != nil {
			return err
		}
		// Cache the wire view, then show the host view with nlink.
		if _, err := cdc.StatCached(ctx, path, data); err != nil {
			return err
		}
		a = host
	}

	data, err := cdc.EncodeAttrs(ctx, a)
	if err != nil {
		return err
	}

	p, err := printer(cmd)
	if err != nil {
		return err
	}
	return p.Print(attrsFields(a).
		Add("path", path).
		Add("wire", fmt.Sprintf("%x", data)))
}

func runStatVFS(cmd *cobra.Command, args []string) error {
	ctx := logger.WithContext(cmd.Context(), logger.NewLogContext("statvfs").WithPath(args[0]))

	s, err := statvfs.Statfs(args[0])
	if err != nil {
		return err
	}
	data, err := cdc.EncodeStatVFS(ctx, s)
	if err != nil {
		return err
	}

	p, err := printer(cmd)
	if err != nil {
		return err
	}
	return p.Print(statvfsFields(s).Add("wire", fmt.Sprintf("%x", data)))
}
