// Command tradepost seeds a sqlite store from a scenario file, drives one
// negotiation through the trade engine, and reports the outcome. It is a
// development tool for exercising the engine end to end; the engine itself is
// embedded by a host application that supplies the UI.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"tradepost.dev/internal/currency"
	"tradepost.dev/internal/journal"
	"tradepost.dev/internal/notify"
	"tradepost.dev/internal/store"
	"tradepost.dev/internal/trade"
	"tradepost.dev/internal/tuning"
)

func main() {
	var (
		scenarioPath = flag.String("scenario", "", "path to scenario yaml (required)")
		tuningPath   = flag.String("tuning", "", "path to tuning.yaml (default: built-in defaults)")
		dbPath       = flag.String("db", "", "sqlite path override (default: from tuning)")
		journalDir   = flag.String("journal", "", "settlement journal dir override (default: from tuning)")
		reset        = flag.Bool("reset", true, "remove the db file before seeding")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[tradepost] ", log.LstdFlags|log.Lmicroseconds)

	if strings.TrimSpace(*scenarioPath) == "" {
		logger.Fatalf("missing -scenario")
	}

	tune := tuning.Defaults()
	if tp := strings.TrimSpace(*tuningPath); tp != "" {
		var err error
		tune, err = tuning.Load(tp)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Printf("tuning not found (%s); using defaults", tp)
				tune = tuning.Defaults()
			} else {
				logger.Fatalf("load tuning: %v", err)
			}
		}
	}
	if *dbPath != "" {
		tune.DBPath = *dbPath
	}
	if *journalDir != "" {
		tune.JournalDir = *journalDir
	}

	sc, err := loadScenario(*scenarioPath)
	if err != nil {
		logger.Fatalf("load scenario: %v", err)
	}

	if *reset {
		_ = os.Remove(tune.DBPath)
	}
	_ = os.MkdirAll(filepath.Dir(tune.DBPath), 0o755)
	st, err := store.Open(tune.DBPath)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := seed(ctx, st, sc); err != nil {
		logger.Fatalf("seed store: %v", err)
	}

	jl := journal.NewSettlementLogger(tune.JournalDir)
	defer jl.Close()

	exec := trade.NewExecutor(st, jl, notify.NewLogSink(logger))
	reg := trade.NewRegistry(exec, tune.AllowTrade, tune.AllowNegative)

	player := trade.Party{ID: sc.Player.ID, Name: sc.Player.Name}
	shop := trade.Party{ID: sc.Shop.ID, Name: sc.Shop.Name}
	n, err := reg.Open(player, shop)
	if err != nil {
		logger.Fatalf("open negotiation: %v (%s)", err, trade.ErrorCode(err))
	}
	defer reg.Close(player.ID, shop.ID)

	if err := applyOffer(ctx, st, n, trade.SidePlayer, player.ID, sc.Offer.Player); err != nil {
		logger.Fatalf("player offer: %v", err)
	}
	if err := applyOffer(ctx, st, n, trade.SideShop, shop.ID, sc.Offer.Shop); err != nil {
		logger.Fatalf("shop offer: %v", err)
	}

	playerHeld, err := st.Currency(ctx, player.ID)
	if err != nil {
		logger.Fatalf("read currency: %v", err)
	}
	shopHeld, err := st.Currency(ctx, shop.ID)
	if err != nil {
		logger.Fatalf("read currency: %v", err)
	}

	logger.Printf("balance: %+.2f gp (positive favors the player)", n.Balance())
	if !n.CanConfirm(playerHeld, shopHeld, tune.AllowNegative) {
		logger.Fatalf("offer is not confirmable")
	}

	if err := n.Confirm(ctx); err != nil {
		logger.Fatalf("confirm: %v (%s)", err, trade.ErrorCode(err))
	}
	logger.Printf("trade settled")

	report(ctx, logger, st, player)
	report(ctx, logger, st, shop)
}

func seed(ctx context.Context, st *store.SQLite, sc scenario) error {
	for _, a := range []scenarioActor{sc.Player, sc.Shop} {
		if err := st.EnsureActor(ctx, a.ID, a.Name, bundleOf(a.Currency)); err != nil {
			return err
		}
		for _, it := range a.Items {
			if err := st.CreateItem(ctx, a.ID, it.ref()); err != nil {
				return fmt.Errorf("item %q: %w", it.Name, err)
			}
		}
	}
	return nil
}

func applyOffer(ctx context.Context, st *store.SQLite, n *trade.Negotiation, side trade.Side, actorID string, basket scenarioBasket) error {
	held, err := st.Items(ctx, actorID)
	if err != nil {
		return err
	}
	byID := map[string]trade.ItemRef{}
	for _, it := range held {
		byID[it.ID] = it
	}
	for _, off := range basket.Items {
		it, ok := byID[off.ID]
		if !ok {
			return fmt.Errorf("offered item %s not in %s inventory", off.ID, actorID)
		}
		if err := n.AddItem(side, it, off.Quantity); err != nil {
			return fmt.Errorf("add %s: %w", it.Name, err)
		}
	}
	for denom, amount := range basket.Currency {
		n.SetCurrency(side, currency.Denomination(denom), amount)
	}
	return nil
}

func report(ctx context.Context, logger *log.Logger, st *store.SQLite, p trade.Party) {
	held, err := st.Currency(ctx, p.ID)
	if err != nil {
		logger.Printf("%s: read currency: %v", p.Name, err)
		return
	}
	items, err := st.Items(ctx, p.ID)
	if err != nil {
		logger.Printf("%s: read items: %v", p.Name, err)
		return
	}
	var parts []string
	for _, d := range currency.Denominations {
		if held[d] != 0 {
			parts = append(parts, fmt.Sprintf("%d %s", held[d], d))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "no coins")
	}
	logger.Printf("%s holds %s (%.2f gp)", p.Name, strings.Join(parts, ", "), currency.Normalize(held))
	for _, it := range items {
		logger.Printf("  %s x%d (%s)", it.Name, it.Quantity, it.Type)
	}
}
