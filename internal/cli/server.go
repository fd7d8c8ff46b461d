package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/optionforge/optiond/internal/config"
	"github.com/optionforge/optiond/internal/core/asset"
	"github.com/optionforge/optiond/internal/core/ledger"
	"github.com/optionforge/optiond/internal/core/series"
	"github.com/optionforge/optiond/internal/core/settle"
	"github.com/optionforge/optiond/internal/events"
	"github.com/optionforge/optiond/internal/router"
	"github.com/optionforge/optiond/internal/rpc"
	"github.com/optionforge/optiond/internal/storage"
	"github.com/optionforge/optiond/internal/storage/keyvalue"
	"github.com/optionforge/optiond/internal/storage/keyvalue/pebbledb"
)

// serverCmd represents the server command (default action)
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the settlement daemon",
	Long: `Start the optiond server which provides:
- HTTP JSON-RPC API for mint, exercise and withdraw
- WebSocket event stream for settlement events
- Health check endpoint

This is the default command when no subcommand is specified.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return serverCmd.RunE(cmd, args)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	db, err := openDB(cfg.Storage)
	if err != nil {
		return err
	}
	defer db.Close()
	snaps := storage.NewSnapshotStore(db)

	engine, err := buildEngine(cfg, snaps)
	if err != nil {
		return err
	}

	hub := engine.Hub()

	handlerOpts := []rpc.HandlerOption{rpc.WithSnapshots(snaps)}
	if cfg.Router.Enabled() {
		venue := router.NewHTTPVenue(cfg.Router.VenueURL, cfg.Router.VenueAccount)
		rt, err := router.New(engine.Engine, venue, router.WithQuoteTTL(cfg.Router.QuoteTTL))
		if err != nil {
			return err
		}
		handlerOpts = append(handlerOpts, rpc.WithRouter(rt))
	}
	handler := rpc.NewHandler(engine.Engine, handlerOpts...)
	srv := rpc.NewServer(handler, hub)

	if !quiet {
		fmt.Printf("optiond settling %s\n", engine.Engine.Series())
		fmt.Printf("  - JSON-RPC:     http://%s/\n", cfg.Server.ListenAddr)
		fmt.Printf("  - WebSocket:    ws://%s/ws\n", cfg.Server.ListenAddr)
		fmt.Printf("  - Health check: http://%s/health\n", cfg.Server.ListenAddr)
		if cfg.Router.Enabled() {
			fmt.Printf("  - Venue:        %s\n", cfg.Router.VenueURL)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx, cfg.Server.ListenAddr)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
		log.Println("optiond shut down")
		return nil
	}
	return err
}

func openDB(cfg config.StorageConfig) (keyvalue.DB, error) {
	switch cfg.Backend {
	case "memory":
		return keyvalue.NewMemoryDB(), nil
	case "pebble":
		return pebbledb.Open(cfg.Path)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}

// engineNode bundles the engine with its event hub.
type engineNode struct {
	Engine *settle.Engine
	hub    *events.Hub
}

func (n *engineNode) Hub() *events.Hub { return n.hub }

// buildEngine constructs the series, books and engine from config and
// restores the last snapshot if one exists.
func buildEngine(cfg *config.Config, snaps *storage.SnapshotStore) (*engineNode, error) {
	underlying, err := asset.New(cfg.Series.UnderlyingSymbol, cfg.Series.UnderlyingDecimals)
	if err != nil {
		return nil, fmt.Errorf("underlying asset: %w", err)
	}
	strike, err := asset.New(cfg.Series.StrikeSymbol, cfg.Series.StrikeDecimals)
	if err != nil {
		return nil, fmt.Errorf("strike asset: %w", err)
	}
	expiration, err := cfg.Series.ExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("expiration: %w", err)
	}

	state, err := snaps.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var ser *series.Series
	if state != nil {
		// Resuming an existing series: the expiration may already be in
		// the past, withdrawals must still be served.
		ser, err = series.Resume(underlying, strike, cfg.Series.StrikePrice, cfg.Series.StrikePriceDecimals, expiration)
	} else {
		ser, err = series.New(underlying, strike, cfg.Series.StrikePrice, cfg.Series.StrikePriceDecimals, expiration, time.Now())
	}
	if err != nil {
		return nil, fmt.Errorf("series: %w", err)
	}

	hub := events.NewHub()
	engine := settle.New(ser,
		ledger.NewBook(underlying),
		ledger.NewBook(strike),
		settle.WithPublisher(hub),
	)
	if state != nil {
		engine.RestoreState(state)
		log.Printf("restored snapshot: %d option tokens outstanding", engine.Tokens().TotalSupply())
	}

	return &engineNode{Engine: engine, hub: hub}, nil
}
