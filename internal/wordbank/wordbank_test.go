package wordbank

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const testBank = `[words.moien]
translation = "hello"
category = "greetings"
audio = "https://example.lu/moien.ogg"

[words.merci]
translation = "thank you"
category = "courtesy"
audio = ""
`

func writeBank(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write bank: %v", err)
	}
	return path
}

func TestLoadAndLookup(t *testing.T) {
	bank, err := Load(writeBank(t, testBank))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	info, err := bank.Lookup("moien")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if info.Translation != "hello" || info.Category != "greetings" || !info.HasReference() {
		t.Fatalf("unexpected entry: %+v", info)
	}

	if _, err := bank.Lookup("kaffi"); !errors.Is(err, ErrUnknownWord) {
		t.Fatalf("err = %v, want ErrUnknownWord", err)
	}
}

func TestEligibleFiltersMissingAudio(t *testing.T) {
	bank, err := Load(writeBank(t, testBank))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	eligible := bank.Eligible()
	if len(eligible) != 1 || eligible[0].Word != "moien" {
		t.Fatalf("eligible = %+v, want only moien", eligible)
	}
	if len(bank.Words()) != 2 {
		t.Fatalf("words = %d, want 2", len(bank.Words()))
	}
}

func TestLoadEmptyBank(t *testing.T) {
	if _, err := Load(writeBank(t, "# nothing here\n")); err == nil {
		t.Fatalf("expected error for empty bank")
	}
}

func TestEnsureDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "words.toml")
	if err := EnsureDefault(path); err != nil {
		t.Fatalf("ensure default: %v", err)
	}
	bank, err := Load(path)
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	if _, err := bank.Lookup("moien"); err != nil {
		t.Fatalf("default bank missing moien: %v", err)
	}

	// Existing files are never overwritten.
	if err := os.WriteFile(path, []byte(testBank), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := EnsureDefault(path); err != nil {
		t.Fatalf("ensure default again: %v", err)
	}
	bank, err = Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(bank.Words()) != 2 {
		t.Fatalf("EnsureDefault overwrote an existing bank")
	}
}
