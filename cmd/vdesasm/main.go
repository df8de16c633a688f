package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/vdestools/vdesasm/internal/config"
	"github.com/vdestools/vdesasm/internal/database"
	"github.com/vdestools/vdesasm/internal/network"
	"github.com/vdestools/vdesasm/internal/sentence"
	"github.com/vdestools/vdesasm/internal/session"
)

const VERSION = "1.0.0"

const readTimeout = 500 * time.Millisecond

// Gateway bridges the transceiver's presentation interface and the message
// log: inbound sentences are parsed, reassembled and stored; outbound ASM
// payloads are encapsulated and transmitted.
type Gateway struct {
	cfg       *config.Config
	socket    *network.UDPSocket
	dstAddr   *net.UDPAddr
	builder   *sentence.Builder
	generator *sentence.Generator
	reasm     *session.Reassembler
	splitter  *network.SentenceSplitter

	// Message log (when database mode is enabled)
	db   *database.DB
	repo *database.ASMRecordRepository
}

// NewGateway creates a gateway from a configuration file
func NewGateway(configFile string) (*Gateway, error) {
	cfg := config.NewConfig(configFile)
	if err := cfg.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config: %v", err)
	}

	registry := sentence.NewDefaultRegistry()
	builder := sentence.NewBuilder(registry)

	dstAddr, err := network.ParseUDPAddr(cfg.GetDstAddress(), int(cfg.GetDstPort()))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve transceiver address: %v", err)
	}

	socket := network.NewUDPSocket(cfg.GetLocalAddress(), int(cfg.GetLocalPort()))
	socket.SetDebug(cfg.GetPIDebug())

	g := &Gateway{
		cfg:       cfg,
		socket:    socket,
		dstAddr:   dstAddr,
		builder:   builder,
		generator: sentence.NewGenerator(registry, cfg.GetTalkerID()),
		reasm:     session.NewReassembler(builder, time.Duration(cfg.GetReassemblyTTL())*time.Second),
		splitter:  &network.SentenceSplitter{},
	}

	if cfg.GetDatabaseEnabled() {
		db, err := database.NewDB(database.Config{
			Path:  cfg.GetDatabasePath(),
			Debug: cfg.GetDatabaseDebug(),
		}, log.Default())
		if err != nil {
			return nil, fmt.Errorf("failed to open message log: %v", err)
		}
		g.db = db
		g.repo = database.NewASMRecordRepository(db.GetDB())
	}

	return g, nil
}

// Run receives and processes inbound sentences until the context is
// cancelled
func (g *Gateway) Run(ctx context.Context) error {
	if err := g.socket.Open(); err != nil {
		return err
	}
	defer g.socket.Close()
	defer g.closeDB()

	log.Printf("Listening for presentation-interface sentences on port %d", g.cfg.GetLocalPort())

	buffer := make([]byte, 2048)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, _, err := g.socket.Read(buffer, readTimeout)
		if err != nil {
			log.Printf("Read error: %v", err)
			continue
		}
		if n == 0 {
			continue
		}
		for _, line := range g.splitter.Feed(buffer[:n]) {
			g.handleLine(line)
		}
	}
}

// handleLine parses one sentence and pushes it through reassembly. Framing
// and field errors drop the sentence; a transport-level retransmission is
// the sender's business.
func (g *Gateway) handleLine(line string) {
	s, err := sentence.Parse(line)
	if err != nil {
		log.Printf("Dropping sentence: %v", err)
		return
	}
	msg, err := g.builder.Decode(s)
	if err != nil {
		log.Printf("Dropping %s%s sentence: %v", s.TalkerID, s.Formatter, err)
		return
	}
	complete, done, err := g.reasm.Push(s.TalkerID, msg)
	if err != nil {
		log.Printf("Reassembly: %v", err)
		return
	}
	if !done {
		return
	}
	g.handleMessage(s.TalkerID, complete)
}

// handleMessage logs and stores one completed message
func (g *Gateway) handleMessage(talkerID string, msg sentence.Message) {
	switch m := msg.(type) {
	case sentence.ABBMessage:
		data, bits, err := sentence.Dearmor(m.Payload, m.FillBits)
		if err != nil {
			log.Printf("Dropping ABB message: %v", err)
			return
		}
		src := ""
		if m.SourceID.Set {
			src = strconv.Itoa(m.SourceID.Value)
		}
		log.Printf("RX ASM broadcast: src=%s ch=%d fmt=%d %d bits", src, m.Channel, m.TransmissionFormat, bits)
		g.store(&database.ASMRecord{
			Direction:          database.DirectionInbound,
			TalkerID:           talkerID,
			Channel:            m.Channel,
			SourceID:           src,
			TransmissionFormat: m.TransmissionFormat,
			PayloadHex:         hex.EncodeToString(data),
			PayloadBits:        bits,
			SentenceCount:      1,
		})
	case sentence.VDMMessage:
		_, bits, err := sentence.Dearmor(m.Payload, m.FillBits)
		if err != nil {
			log.Printf("Dropping VDM message: %v", err)
			return
		}
		log.Printf("RX AIS relay: ch=%s %d bits", m.Channel, bits)
	default:
		log.Printf("RX %s message (no handler)", msg.FormatterCode())
	}
}

// Send encapsulates a raw ASM payload and transmits the resulting
// sentences to the transceiver
func (g *Gateway) Send(payload []byte) error {
	if err := g.socket.Open(); err != nil {
		return err
	}
	defer g.socket.Close()
	defer g.closeDB()

	var sourceID sentence.OptInt
	if g.cfg.GetSourceID() > 0 {
		sourceID = sentence.Int(int(g.cfg.GetSourceID()))
	}
	sentences, err := g.generator.BroadcastASM(
		payload,
		sourceID,
		int(g.cfg.GetChannel()),
		int(g.cfg.GetTransmissionFormat()),
	)
	if err != nil {
		return fmt.Errorf("failed to encode broadcast: %v", err)
	}

	for _, s := range sentences {
		wire := s.String()
		if err := g.socket.Write([]byte(wire), g.dstAddr); err != nil {
			return err
		}
		log.Printf("TX %s", wire[:len(wire)-2])
	}

	src := ""
	if sourceID.Set {
		src = strconv.Itoa(sourceID.Value)
	}
	g.store(&database.ASMRecord{
		Direction:          database.DirectionOutbound,
		TalkerID:           g.cfg.GetTalkerID(),
		Channel:            int(g.cfg.GetChannel()),
		SourceID:           src,
		TransmissionFormat: int(g.cfg.GetTransmissionFormat()),
		PayloadHex:         hex.EncodeToString(payload),
		PayloadBits:        len(payload) * 8,
		SentenceCount:      len(sentences),
	})
	return nil
}

func (g *Gateway) store(record *database.ASMRecord) {
	if g.repo == nil {
		return
	}
	if err := g.repo.Insert(record); err != nil {
		log.Printf("Message log insert failed: %v", err)
	}
}

func (g *Gateway) closeDB() {
	if g.db != nil {
		if err := g.db.Close(); err != nil {
			log.Printf("Message log close failed: %v", err)
		}
	}
}

func getDefaultConfig() string {
	if _, err := os.Stat("vdesasm.ini"); err == nil {
		return "vdesasm.ini"
	}
	return "/etc/vdesasm.ini"
}

func main() {
	var (
		configFile = flag.String("config", getDefaultConfig(), "Configuration file path")
		version    = flag.Bool("version", false, "Show version information")
		sendHex    = flag.String("send", "", "Broadcast a hex-encoded ASM payload and exit")
	)
	flag.Parse()

	if *version {
		fmt.Printf("vdesasm gateway v%s\n", VERSION)
		return
	}

	if flag.NArg() > 0 {
		*configFile = flag.Arg(0)
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("vdesasm gateway v%s starting with config: %s", VERSION, *configFile)

	gateway, err := NewGateway(*configFile)
	if err != nil {
		log.Fatalf("Failed to create gateway: %v", err)
	}

	if *sendHex != "" {
		payload, err := hex.DecodeString(*sendHex)
		if err != nil {
			log.Fatalf("Invalid payload hex: %v", err)
		}
		if err := gateway.Send(payload); err != nil {
			log.Fatalf("Broadcast failed: %v", err)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	if err := gateway.Run(ctx); err != nil {
		log.Fatalf("Gateway error: %v", err)
	}

	log.Printf("vdesasm gateway stopped")
}
