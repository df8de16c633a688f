package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config represents the vdesasm gateway configuration
type Config struct {
	filename string

	// Info section
	location    string
	description string

	// PI Port section
	localAddress string
	localPort    uint32
	dstAddress   string
	dstPort      uint32
	talkerID     string
	piDebug      bool

	// ASM section
	sourceID           uint64
	channel            uint32
	transmissionFormat uint32

	// Session section
	reassemblyTTL uint32 // seconds

	// Database section
	databaseEnabled bool
	databasePath    string
	databaseDebug   bool

	// Log section
	logDisplayLevel uint32
	logFilePath     string
	logFileRoot     string
}

// NewConfig creates a new configuration instance
func NewConfig(filename string) *Config {
	return &Config{
		filename: filename,
		// Set reasonable defaults
		localPort:     60002,
		dstAddress:    "127.0.0.1",
		dstPort:       60001,
		talkerID:      "AI",
		channel:       1,
		reassemblyTTL: 60,

		databaseEnabled: false,
		databasePath:    "data/asm_messages.db",
	}
}

// Load loads configuration from the specified file
func (c *Config) Load() error {
	file, err := os.Open(c.filename)
	if err != nil {
		return fmt.Errorf("failed to open config file %s: %v", c.filename, err)
	}
	defer file.Close()

	return c.parseINIScanner(bufio.NewScanner(file))
}

// LoadFromString loads configuration from a string (useful for testing)
func (c *Config) LoadFromString(data string) error {
	return c.parseINIScanner(bufio.NewScanner(strings.NewReader(data)))
}

func (c *Config) parseINIScanner(scanner *bufio.Scanner) error {
	var currentSection string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		// Check for section header
		if line[0] == '[' && line[len(line)-1] == ']' {
			currentSection = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}

		// Parse key=value pairs
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch currentSection {
		case "Info":
			c.parseInfoSection(key, value)
		case "PI Port":
			c.parsePIPortSection(key, value)
		case "ASM":
			c.parseASMSection(key, value)
		case "Session":
			c.parseSessionSection(key, value)
		case "Database":
			c.parseDatabaseSection(key, value)
		case "Log":
			c.parseLogSection(key, value)
		}
	}

	return scanner.Err()
}

func (c *Config) parseInfoSection(key, value string) {
	switch key {
	case "Location":
		c.location = value
	case "Description":
		c.description = value
	}
}

func (c *Config) parsePIPortSection(key, value string) {
	switch key {
	case "LocalAddress":
		c.localAddress = value
	case "LocalPort":
		if v, err := strconv.ParseUint(value, 10, 32); err == nil {
			c.localPort = uint32(v)
		}
	case "DstAddress":
		c.dstAddress = value
	case "DstPort":
		if v, err := strconv.ParseUint(value, 10, 32); err == nil {
			c.dstPort = uint32(v)
		}
	case "TalkerID":
		c.talkerID = value
	case "Debug":
		c.piDebug = c.parseBool(value)
	}
}

func (c *Config) parseASMSection(key, value string) {
	switch key {
	case "SourceID":
		if v, err := strconv.ParseUint(value, 10, 64); err == nil {
			c.sourceID = v
		}
	case "Channel":
		if v, err := strconv.ParseUint(value, 10, 32); err == nil {
			c.channel = uint32(v)
		}
	case "TransmissionFormat":
		if v, err := strconv.ParseUint(value, 10, 32); err == nil {
			c.transmissionFormat = uint32(v)
		}
	}
}

func (c *Config) parseSessionSection(key, value string) {
	switch key {
	case "ReassemblyTTL":
		if v, err := strconv.ParseUint(value, 10, 32); err == nil {
			c.reassemblyTTL = uint32(v)
		}
	}
}

func (c *Config) parseDatabaseSection(key, value string) {
	switch key {
	case "Enabled":
		c.databaseEnabled = c.parseBool(value)
	case "Path":
		c.databasePath = value
	case "Debug":
		c.databaseDebug = c.parseBool(value)
	}
}

func (c *Config) parseLogSection(key, value string) {
	switch key {
	case "DisplayLevel":
		if v, err := strconv.ParseUint(value, 10, 32); err == nil {
			c.logDisplayLevel = uint32(v)
		}
	case "FilePath":
		c.logFilePath = value
	case "FileRoot":
		c.logFileRoot = value
	}
}

func (c *Config) parseBool(value string) bool {
	return value == "1" || strings.ToLower(value) == "true" || strings.ToLower(value) == "yes"
}

// Getter methods for Info section
func (c *Config) GetLocation() string    { return c.location }
func (c *Config) GetDescription() string { return c.description }

// Getter methods for PI Port section
func (c *Config) GetLocalAddress() string { return c.localAddress }
func (c *Config) GetLocalPort() uint32    { return c.localPort }
func (c *Config) GetDstAddress() string   { return c.dstAddress }
func (c *Config) GetDstPort() uint32      { return c.dstPort }
func (c *Config) GetTalkerID() string     { return c.talkerID }
func (c *Config) GetPIDebug() bool        { return c.piDebug }

// Getter methods for ASM section
func (c *Config) GetSourceID() uint64           { return c.sourceID }
func (c *Config) GetChannel() uint32            { return c.channel }
func (c *Config) GetTransmissionFormat() uint32 { return c.transmissionFormat }

// Getter methods for Session section
func (c *Config) GetReassemblyTTL() uint32 { return c.reassemblyTTL }

// Getter methods for Database section
func (c *Config) GetDatabaseEnabled() bool { return c.databaseEnabled }
func (c *Config) GetDatabasePath() string  { return c.databasePath }
func (c *Config) GetDatabaseDebug() bool   { return c.databaseDebug }

// Getter methods for Log section
func (c *Config) GetLogDisplayLevel() uint32 { return c.logDisplayLevel }
func (c *Config) GetLogFilePath() string     { return c.logFilePath }
func (c *Config) GetLogFileRoot() string     { return c.logFileRoot }
