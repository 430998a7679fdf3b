package journal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	"tradepost.dev/internal/currency"
	"tradepost.dev/internal/trade"
)

func TestSettlementLoggerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	l := NewSettlementLogger(dir)

	want := trade.SettlementRecord{
		At:          "2026-08-23T12:00:00Z",
		PlayerID:    "pc-1",
		ShopID:      "npc-1",
		PlayerCoins: currency.Canon(currency.Bundle{currency.Gold: 5}),
		ShopCoins:   currency.New(),
		ToShop:      []trade.MovedItem{{Name: "Rations", Type: "consumable", SourceID: "compendium.rations", Quantity: 2}},
		Balance:     -1,
	}
	if err := l.Record(want); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := l.Record(want); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "settlements-*.jsonl.zst"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("glob: %v matches %v", err, matches)
	}
	f, err := os.Open(matches[0])
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd: %v", err)
	}
	defer dec.Close()

	var lines int
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var got trade.SettlementRecord
		if err := json.Unmarshal(sc.Bytes(), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.PlayerID != want.PlayerID || got.Balance != want.Balance {
			t.Fatalf("record %#v", got)
		}
		if got.PlayerCoins[currency.Gold] != 5 {
			t.Fatalf("coins %#v", got.PlayerCoins)
		}
		if len(got.ToShop) != 1 || got.ToShop[0].Quantity != 2 {
			t.Fatalf("to_shop %#v", got.ToShop)
		}
		lines++
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if lines != 2 {
		t.Fatalf("lines=%d want 2", lines)
	}
}
