package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	raw := []byte("allow_trade: true\nallow_negative: true\ndb_path: /tmp/x.db\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tn, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !tn.AllowNegative || !tn.AllowTrade {
		t.Fatalf("tuning %#v", tn)
	}
	if tn.DBPath != "/tmp/x.db" {
		t.Fatalf("db_path=%q", tn.DBPath)
	}
	// Fields absent from the file keep their defaults.
	if tn.JournalDir != Defaults().JournalDir {
		t.Fatalf("journal_dir=%q", tn.JournalDir)
	}
}

func TestLoadMissingFileReturnsDefaultsAndError(t *testing.T) {
	tn, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if !os.IsNotExist(err) {
		t.Fatalf("err=%v want not-exist", err)
	}
	if tn != Defaults() {
		t.Fatalf("tuning %#v", tn)
	}
}
