package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/mcp-pdf-renamer/internal/dates"
	"github.com/a3tai/mcp-pdf-renamer/internal/detect"
	"github.com/a3tai/mcp-pdf-renamer/internal/naming"
	"github.com/a3tai/mcp-pdf-renamer/internal/ocr"
	"github.com/a3tai/mcp-pdf-renamer/internal/pdf/extraction"
	"github.com/a3tai/mcp-pdf-renamer/internal/renamer"
	"github.com/a3tai/mcp-pdf-renamer/internal/splitter"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Log formats
	LogFormatText = "text"
	LogFormatJSON = "json"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// Directory permissions
	DefaultDirPerm = 0o750

	// EnvPrefix prefixes every environment variable, e.g. PDF_RENAMER_DIR.
	EnvPrefix = "PDF_RENAMER"
)

// ErrVersionRequested is returned when --version is on the command line.
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the PDF renamer
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Directories
	PDFDirectory    string
	OutputDirectory string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	LogFormat   string
	MaxFileSize int64 // Maximum PDF file size in bytes

	// OCR fallback
	OCR           bool
	OCROnError    bool
	OCROnBlank    bool
	TesseractPath string
	PdftoppmPath  string
	OCRLang       string
	OCRDPI        int

	// Rename defaults
	DateFormat    string
	Template      string
	NamePolicy    string
	Anchor        string
	Split         bool
	Archive       bool
	ArchivePrefix string

	// Batch CLI
	DryRun     bool
	JSONOutput bool

	// Args holds the positional arguments left after flag parsing.
	Args []string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	oc := ocr.DefaultConfig()

	return &Config{
		Mode:          ModeStdio, // Default to stdio mode for MCP compatibility
		Host:          DefaultHost,
		Port:          DefaultPort,
		PDFDirectory:  currentDir,
		Version:       "1.0.0",
		ServerName:    "mcp-pdf-renamer",
		LogLevel:      DefaultLogLevel,
		LogFormat:     LogFormatText,
		MaxFileSize:   DefaultMaxFileSize,
		OCR:           true,
		OCROnError:    true,
		OCROnBlank:    true,
		TesseractPath: oc.Tesseract,
		PdftoppmPath:  oc.Pdftoppm,
		OCRLang:       oc.Lang,
		OCRDPI:        oc.DPI,
		DateFormat:    dates.Auto.String(),
		Template:      naming.DefaultTemplate,
		NamePolicy:    detect.NameFirst.String(),
		Anchor:        splitter.DefaultAnchor,
		Split:         true,
		Archive:       false,
		ArchivePrefix: naming.DefaultArchivePrefix,
	}
}

// LoadFromFlags parses the process command line and environment.
func LoadFromFlags() (*Config, error) {
	return Load(os.Args[0], os.Args[1:])
}

// Load parses args and the environment into a validated configuration.
// Flags take precedence over environment variables, which take precedence
// over defaults.
func Load(name string, args []string) (*Config, error) {
	cfg := DefaultConfig()

	// Check for version flag before parsing
	if err := checkVersionFlag(args); err != nil {
		return nil, err
	}

	v := viper.New()
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)

	setupViperEnvironment(v, cfg)
	defineCommandLineFlags(fs, cfg)
	bindFlagsToViper(v, fs)
	setupUsageMessage(fs, name)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	populateConfigFromViper(v, cfg)
	cfg.Args = fs.Args()

	// Expand paths if needed
	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}
	if cfg.OutputDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.OutputDirectory); err == nil {
			cfg.OutputDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// flagKeys lists every flag; each is also read from EnvPrefix_<KEY> with
// dashes turned into underscores.
var flagKeys = []string{
	"mode", "host", "port", "dir", "out", "loglevel", "logformat", "maxfilesize",
	"ocr", "ocr-on-error", "ocr-on-blank", "tesseract", "pdftoppm", "ocr-lang", "ocr-dpi",
	"date-format", "template", "name-policy", "anchor", "split", "archive", "archive-prefix",
	"dry-run", "json",
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("dir", cfg.PDFDirectory)
	v.SetDefault("out", cfg.OutputDirectory)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("logformat", cfg.LogFormat)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
	v.SetDefault("ocr", cfg.OCR)
	v.SetDefault("ocr-on-error", cfg.OCROnError)
	v.SetDefault("ocr-on-blank", cfg.OCROnBlank)
	v.SetDefault("tesseract", cfg.TesseractPath)
	v.SetDefault("pdftoppm", cfg.PdftoppmPath)
	v.SetDefault("ocr-lang", cfg.OCRLang)
	v.SetDefault("ocr-dpi", cfg.OCRDPI)
	v.SetDefault("date-format", cfg.DateFormat)
	v.SetDefault("template", cfg.Template)
	v.SetDefault("name-policy", cfg.NamePolicy)
	v.SetDefault("anchor", cfg.Anchor)
	v.SetDefault("split", cfg.Split)
	v.SetDefault("archive", cfg.Archive)
	v.SetDefault("archive-prefix", cfg.ArchivePrefix)
	v.SetDefault("dry-run", cfg.DryRun)
	v.SetDefault("json", cfg.JSONOutput)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	fs.String("host", cfg.Host, "Server host address (server mode only)")
	fs.Int("port", cfg.Port, "Server port (server mode only)")
	fs.String("dir", cfg.PDFDirectory, "Directory containing input PDF files")
	fs.String("out", cfg.OutputDirectory, "Directory for renamed files (default <dir>/renamed)")
	fs.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.String("logformat", cfg.LogFormat, "Log format (text, json)")
	fs.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")

	fs.Bool("ocr", cfg.OCR, "Allow the OCR fallback")
	fs.Bool("ocr-on-error", cfg.OCROnError, "Run OCR when embedded text cannot be read")
	fs.Bool("ocr-on-blank", cfg.OCROnBlank, "Run OCR when every page is blank")
	fs.String("tesseract", cfg.TesseractPath, "tesseract executable")
	fs.String("pdftoppm", cfg.PdftoppmPath, "pdftoppm executable")
	fs.String("ocr-lang", cfg.OCRLang, "tesseract language")
	fs.Int("ocr-dpi", cfg.OCRDPI, "Rasterisation resolution for OCR")

	fs.String("date-format", cfg.DateFormat, "Date format: "+strings.Join(dates.Policies(), ", "))
	fs.String("template", cfg.Template, "Filename template, e.g. Name_DateRange or Order_Name_DateRange")
	fs.String("name-policy", cfg.NamePolicy, "Name tie-break: first, longest, most-tokens")
	fs.String("anchor", cfg.Anchor, "Phrase that starts a new record")
	fs.Bool("split", cfg.Split, "Split merged documents into one file per record")
	fs.Bool("archive", cfg.Archive, "Bundle multi-file results into one ZIP")
	fs.String("archive-prefix", cfg.ArchivePrefix, "ZIP filename prefix")

	fs.Bool("dry-run", cfg.DryRun, "Report names without writing files (CLI)")
	fs.Bool("json", cfg.JSONOutput, "Print results as JSON (CLI)")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper(v *viper.Viper, fs *pflag.FlagSet) {
	for _, key := range flagKeys {
		_ = v.BindPFlag(key, fs.Lookup(key))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage(fs *pflag.FlagSet, name string) {
	fs.Usage = func() {
		printUsage(os.Stderr, fs, name)
	}
}

func printUsage(w io.Writer, fs *pflag.FlagSet, name string) {
	fmt.Fprintf(w, "Usage of %s:\n", name)
	fmt.Fprintf(w, "\nPDF Renamer - names and splits order-slip PDFs by the person, order and dates they contain\n\n")
	fmt.Fprintf(w, "Options:\n")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  %s --dir=/path/to/pdfs                     # stdio MCP server\n", name)
	fmt.Fprintf(w, "  %s --mode=server --port=8081               # streamable HTTP server\n", name)
	fmt.Fprintf(w, "  %s --template=Order_Name_DateRange slips/  # batch CLI\n", name)
	fmt.Fprintf(w, "\nEnvironment Variables:\n")
	fmt.Fprintf(w, "  Every flag can be set as %s_<FLAG>, e.g. %s_DIR or %s_OCR_LANG\n", EnvPrefix, EnvPrefix, EnvPrefix)
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag(args []string) error {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return ErrVersionRequested
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.PDFDirectory = v.GetString("dir")
	cfg.OutputDirectory = v.GetString("out")
	cfg.LogLevel = v.GetString("loglevel")
	cfg.LogFormat = v.GetString("logformat")
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
	cfg.OCR = v.GetBool("ocr")
	cfg.OCROnError = v.GetBool("ocr-on-error")
	cfg.OCROnBlank = v.GetBool("ocr-on-blank")
	cfg.TesseractPath = v.GetString("tesseract")
	cfg.PdftoppmPath = v.GetString("pdftoppm")
	cfg.OCRLang = v.GetString("ocr-lang")
	cfg.OCRDPI = v.GetInt("ocr-dpi")
	cfg.DateFormat = v.GetString("date-format")
	cfg.Template = v.GetString("template")
	cfg.NamePolicy = v.GetString("name-policy")
	cfg.Anchor = v.GetString("anchor")
	cfg.Split = v.GetBool("split")
	cfg.Archive = v.GetBool("archive")
	cfg.ArchivePrefix = v.GetString("archive-prefix")
	cfg.DryRun = v.GetBool("dry-run")
	cfg.JSONOutput = v.GetBool("json")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate PDF directory
	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}

	// Check if PDF directory exists, create if it doesn't
	if _, err := os.Stat(c.PDFDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.PDFDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create PDF directory %s: %w", c.PDFDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access PDF directory %s: %w", c.PDFDirectory, err)
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return fmt.Errorf("invalid log format: %s (must be one of: text, json)", c.LogFormat)
	}

	if c.OCRDPI < 50 || c.OCRDPI > 1200 {
		return fmt.Errorf("OCR DPI must be between 50 and 1200, got %d", c.OCRDPI)
	}

	if _, err := dates.ParsePolicy(c.DateFormat); err != nil {
		return err
	}
	if _, err := naming.ParseTemplate(c.Template); err != nil {
		return err
	}
	if _, err := detect.ParseNamePolicy(c.NamePolicy); err != nil {
		return err
	}
	if strings.TrimSpace(c.Anchor) == "" {
		return errors.New("anchor cannot be empty")
	}
	if !naming.IsSafe(c.ArchivePrefix) {
		return fmt.Errorf("archive prefix %q is not filename safe", c.ArchivePrefix)
	}

	return nil
}

// RenameOptions converts the rename defaults to pipeline options. Call it on
// a validated configuration; unparsable values fall back to defaults.
func (c *Config) RenameOptions() renamer.Options {
	opts := renamer.DefaultOptions()
	opts.AllowOCR = c.OCR
	opts.Anchor = c.Anchor
	opts.Split = c.Split
	opts.Archive = c.Archive
	opts.ArchivePrefix = c.ArchivePrefix

	if p, err := dates.ParsePolicy(c.DateFormat); err == nil {
		opts.DatePolicy = p
	}
	if p, err := detect.ParseNamePolicy(c.NamePolicy); err == nil {
		opts.NamePolicy = p
	}
	if t, err := naming.ParseTemplate(c.Template); err == nil {
		opts.Template = t
	}

	return opts
}

// OCRConfig returns the external OCR tool settings.
func (c *Config) OCRConfig() ocr.Config {
	oc := ocr.DefaultConfig()
	oc.Tesseract = c.TesseractPath
	oc.Pdftoppm = c.PdftoppmPath
	oc.Lang = c.OCRLang
	oc.DPI = c.OCRDPI
	return oc
}

// ExtractionConfig returns the text extractor settings.
func (c *Config) ExtractionConfig() extraction.Config {
	return extraction.Config{
		FallbackOnError: c.OCROnError,
		FallbackOnBlank: c.OCROnBlank,
		MaxFileSize:     c.MaxFileSize,
	}
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, PDFDirectory: %s, OutputDirectory: %s, "+
		"LogLevel: %s, MaxFileSize: %d, OCR: %t, DateFormat: %s, Template: %s}",
		c.Mode, c.Host, c.Port, c.PDFDirectory, c.OutputDirectory,
		c.LogLevel, c.MaxFileSize, c.OCR, c.DateFormat, c.Template)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
