package config

import (
	"os"
	"path/filepath"
	"testing"
)

const testConfig = `[Info]
Location=Test Quay
Description=Shore station

[PI Port]
LocalAddress=127.0.0.1
LocalPort=60102
DstAddress=192.168.1.50
DstPort=60101
TalkerID=AI
Debug=1

[ASM]
SourceID=123456789
Channel=2
TransmissionFormat=1

[Session]
ReassemblyTTL=120

[Database]
Enabled=1
Path=/tmp/asm_messages.db
Debug=0

[Log]
DisplayLevel=1
FilePath=.
FileRoot=vdesasm
`

func TestConfig_LoadFromString(t *testing.T) {
	cfg := NewConfig("unused.ini")
	if err := cfg.LoadFromString(testConfig); err != nil {
		t.Fatalf("LoadFromString() unexpected error: %v", err)
	}

	if cfg.GetLocation() != "Test Quay" {
		t.Errorf("Location = %q", cfg.GetLocation())
	}
	if cfg.GetLocalAddress() != "127.0.0.1" || cfg.GetLocalPort() != 60102 {
		t.Errorf("local endpoint = %s:%d", cfg.GetLocalAddress(), cfg.GetLocalPort())
	}
	if cfg.GetDstAddress() != "192.168.1.50" || cfg.GetDstPort() != 60101 {
		t.Errorf("destination endpoint = %s:%d", cfg.GetDstAddress(), cfg.GetDstPort())
	}
	if cfg.GetTalkerID() != "AI" {
		t.Errorf("TalkerID = %q", cfg.GetTalkerID())
	}
	if !cfg.GetPIDebug() {
		t.Error("PI Debug = false, want true")
	}
	if cfg.GetSourceID() != 123456789 {
		t.Errorf("SourceID = %d", cfg.GetSourceID())
	}
	if cfg.GetChannel() != 2 || cfg.GetTransmissionFormat() != 1 {
		t.Errorf("ASM defaults = ch%d fmt%d", cfg.GetChannel(), cfg.GetTransmissionFormat())
	}
	if cfg.GetReassemblyTTL() != 120 {
		t.Errorf("ReassemblyTTL = %d", cfg.GetReassemblyTTL())
	}
	if !cfg.GetDatabaseEnabled() || cfg.GetDatabasePath() != "/tmp/asm_messages.db" {
		t.Errorf("database = enabled=%v path=%q", cfg.GetDatabaseEnabled(), cfg.GetDatabasePath())
	}
	if cfg.GetLogFileRoot() != "vdesasm" {
		t.Errorf("LogFileRoot = %q", cfg.GetLogFileRoot())
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := NewConfig("unused.ini")
	if err := cfg.LoadFromString("[Info]\nLocation=Somewhere\n"); err != nil {
		t.Fatalf("LoadFromString() unexpected error: %v", err)
	}

	if cfg.GetLocalPort() != 60002 {
		t.Errorf("default LocalPort = %d, want 60002", cfg.GetLocalPort())
	}
	if cfg.GetDstAddress() != "127.0.0.1" || cfg.GetDstPort() != 60001 {
		t.Errorf("default destination = %s:%d", cfg.GetDstAddress(), cfg.GetDstPort())
	}
	if cfg.GetTalkerID() != "AI" {
		t.Errorf("default TalkerID = %q, want AI", cfg.GetTalkerID())
	}
	if cfg.GetReassemblyTTL() != 60 {
		t.Errorf("default ReassemblyTTL = %d, want 60", cfg.GetReassemblyTTL())
	}
	if cfg.GetDatabaseEnabled() {
		t.Error("database enabled by default")
	}
}

func TestConfig_LoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vdesasm.ini")
	if err := os.WriteFile(path, []byte(testConfig), 0o644); err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}

	cfg := NewConfig(path)
	if err := cfg.Load(); err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.GetSourceID() != 123456789 {
		t.Errorf("SourceID = %d", cfg.GetSourceID())
	}

	missing := NewConfig(filepath.Join(t.TempDir(), "missing.ini"))
	if err := missing.Load(); err == nil {
		t.Error("Load() of a missing file succeeded")
	}
}

func TestConfig_IgnoresCommentsAndUnknownKeys(t *testing.T) {
	cfg := NewConfig("unused.ini")
	data := "# comment\n[PI Port]\n# another\nLocalPort=777\nBogusKey=1\n[Nonsense]\nFoo=bar\n"
	if err := cfg.LoadFromString(data); err != nil {
		t.Fatalf("LoadFromString() unexpected error: %v", err)
	}
	if cfg.GetLocalPort() != 777 {
		t.Errorf("LocalPort = %d, want 777", cfg.GetLocalPort())
	}
}
