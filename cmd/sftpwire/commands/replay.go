package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/marmos91/sftpbridge/internal/cli/output"
	"github.com/marmos91/sftpbridge/internal/logger"
	"github.com/marmos91/sftpbridge/internal/sftp/wire"
	"github.com/marmos91/sftpbridge/pkg/api"
	"github.com/marmos91/sftpbridge/pkg/config"
	"github.com/marmos91/sftpbridge/pkg/metrics"
	"github.com/spf13/cobra"
)

// SFTP packet types understood by replay.
const (
	packetVersion       = 2
	packetStatus        = 101
	packetAttrs         = 105
	packetExtendedReply = 201
)

var packetNames = map[uint8]string{
	packetVersion:       "VERSION",
	packetStatus:        "STATUS",
	packetAttrs:         "ATTRS",
	packetExtendedReply: "EXTENDED_REPLY",
}

func packetName(t uint8) string {
	if n, ok := packetNames[t]; ok {
		return n
	}
	return "TYPE_" + strconv.Itoa(int(t))
}

var replayWait bool

var replayCmd = &cobra.Command{
	Use:   "replay <capture>",
	Short: "Decode a capture of server packets",
	Long: `Decode a file of framed SFTP server packets and print a summary.

Each packet is a uint32 length, a uint8 type and, except for VERSION, a
uint32 request id, followed by the body. STATUS, ATTRS, VERSION and
EXTENDED_REPLY (decoded as a statvfs reply) bodies are decoded; other
types are counted and skipped.

With metrics enabled the Prometheus endpoint is served while the capture
is replayed. Use --wait to keep serving until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&replayWait, "wait", false, "Keep serving /metrics after the replay until interrupted")
}

// packet is one framed server packet.
type packet struct {
	Type uint8
	ID   uint32
	Body []byte
}

// readPacket reads the next frame. io.EOF is returned only at a frame
// boundary.
func readPacket(r io.Reader, maxLen int) (*packet, error) {
	var hdr [5]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("truncated packet header: %w", err)
		}
		return nil, err
	}

	hr := wire.NewReader(hdr[:])
	length := hr.ReadUint32()
	p := &packet{Type: hr.ReadUint8()}
	if length == 0 {
		return nil, errors.New("zero length packet")
	}
	if int64(length) > int64(maxLen) {
		return nil, fmt.Errorf("packet of %d bytes exceeds %d", length, maxLen)
	}

	rest := make([]byte, length-1)
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, fmt.Errorf("truncated %s packet: %w", packetName(p.Type), err)
	}

	if p.Type == packetVersion {
		p.Body = rest
		return p, nil
	}
	br := wire.NewReader(rest)
	p.ID = br.ReadUint32()
	if err := br.Err(); err != nil {
		return nil, fmt.Errorf("%s packet without request id: %w", packetName(p.Type), err)
	}
	p.Body = rest[4:]
	return p, nil
}

type replayStats struct {
	Packets int
	Errors  int
	ByType  map[string]int
	Failed  map[string]int
}

func (s *replayStats) table() *output.Table {
	names := make([]string, 0, len(s.ByType))
	for n := range s.ByType {
		names = append(names, n)
	}
	sort.Strings(names)

	t := output.NewTable("TYPE", "PACKETS", "ERRORS")
	for _, n := range names {
		t.AddRow(n, strconv.Itoa(s.ByType[n]), strconv.Itoa(s.Failed[n]))
	}
	t.AddRow("TOTAL", strconv.Itoa(s.Packets), strconv.Itoa(s.Errors))
	return t
}

func (s *replayStats) fields() *output.Fields {
	return output.NewFields().
		Add("packets", s.Packets).
		Add("errors", s.Errors).
		Add("by_type", s.ByType).
		Add("failed", s.Failed)
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := uuid.NewString()
	log := logger.With(logger.Session(session))

	if metrics.IsEnabled() {
		shutdown, err := serveMetrics(ctx, cfg.Metrics.Port, session)
		if err != nil {
			return err
		}
		defer shutdown()
		log.Info("serving metrics", "port", cfg.Metrics.Port)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	stats := &replayStats{ByType: map[string]int{}, Failed: map[string]int{}}
	start := time.Now()
	r := bufio.NewReader(f)
	for ctx.Err() == nil {
		p, err := readPacket(r, cdc.MaxPacketSize()+9)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("packet %d: %w", stats.Packets+1, err)
		}

		name := packetName(p.Type)
		stats.Packets++
		stats.ByType[name]++

		pctx := logger.WithContext(ctx, logger.NewLogContext(name).WithRequest(p.ID))
		if err := decodePacket(pctx, p); err != nil {
			stats.Errors++
			stats.Failed[name]++
			logger.WarnCtx(pctx, "packet decode failed", logger.Err(err))
		}
	}
	log.Info("replay finished",
		logger.Count(stats.Packets),
		logger.DurationMs(logger.Duration(start)))

	pr, err := printer(cmd)
	if err != nil {
		return err
	}
	if pr.Format() == output.FormatTable {
		err = pr.Print(stats.table())
	} else {
		err = pr.Print(stats.fields())
	}
	if err != nil {
		return err
	}

	if replayWait && metrics.IsEnabled() {
		log.Info("waiting for interrupt")
		return waitReloading(ctx)
	}
	return nil
}

// waitReloading blocks until ctx is done, re-applying logging settings
// whenever the config file changes.
func waitReloading(ctx context.Context) error {
	path := cfgFile
	if path == "" {
		path = config.GetDefaultConfigPath()
	}
	return config.Watch(ctx, path, func(c *config.Config, err error) {
		if err != nil {
			logger.Warn("config reload failed", logger.Err(err))
			return
		}
		if err := InitLogger(c); err != nil {
			logger.Warn("config reload failed", logger.Err(err))
			return
		}
		logger.Info("logging reconfigured", "level", c.Logging.Level, "format", c.Logging.Format)
	})
}

func decodePacket(ctx context.Context, p *packet) error {
	var err error
	switch p.Type {
	case packetVersion:
		_, err = cdc.DecodeVersion(ctx, p.Body)
	case packetStatus:
		_, err = cdc.DecodeStatus(ctx, p.Body)
	case packetAttrs:
		_, err = cdc.DecodeAttrs(ctx, p.Body)
	case packetExtendedReply:
		_, err = cdc.DecodeStatVFS(ctx, p.Body)
	default:
		logger.DebugCtx(ctx, "skipping packet", logger.Bytes(len(p.Body)))
	}
	return err
}

// serveMetrics starts the /health and /metrics server. It stops when ctx
// is done or the returned func is called.
func serveMetrics(ctx context.Context, port int, session string) (func(), error) {
	router := api.NewRouter(api.Info{Version: Version, Session: session}, metrics.Handler())
	srv := api.NewServer(api.Config{Port: port}, router)
	if err := srv.Start(ctx); err != nil {
		return nil, err
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	}, nil
}
