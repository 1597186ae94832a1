package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/dvue/internal/errors"
	"gopkg.in/yaml.v3"
)

// Config file names, in lookup order.
var ConfigFileNames = []string{"dvue.json", "dvue.yaml", "dvue.yml"}

const (
	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultTemplate is the default template path.
	DefaultTemplate = "index.html"

	// DefaultEl is the default mount selector.
	DefaultEl = "#app"

	// DefaultMetricsPath is where metrics are served when enabled.
	DefaultMetricsPath = "/metrics"
)

// Environment variables that override the file.
const (
	EnvPort     = "DVUE_PORT"
	EnvHost     = "DVUE_HOST"
	EnvLogLevel = "DVUE_LOG_LEVEL"
)

// Config represents a dvue project.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Template is the page template, a path or s3:// URI.
	Template string `json:"template,omitempty" yaml:"template,omitempty"`

	// Data is the JSON data document, a path or s3:// URI. Empty means {}.
	Data string `json:"data,omitempty" yaml:"data,omitempty"`

	// El is the mount selector.
	El string `json:"el,omitempty" yaml:"el,omitempty"`

	// Methods binds method names to declarative actions.
	Methods map[string]MethodConfig `json:"methods,omitempty" yaml:"methods,omitempty"`

	Server  ServerConfig  `json:"server,omitempty" yaml:"server,omitempty"`
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Tracing TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`
	Log     LogConfig     `json:"log,omitempty" yaml:"log,omitempty"`
	S3      S3Config      `json:"s3,omitempty" yaml:"s3,omitempty"`
	Static  StaticConfig  `json:"static,omitempty" yaml:"static,omitempty"`

	// Watch reloads template and data on change.
	Watch bool `json:"watch,omitempty" yaml:"watch,omitempty"`

	configPath string
}

// MethodConfig binds a method to an action on a data key.
type MethodConfig struct {
	Action string `json:"action" yaml:"action"`
	Key    string `json:"key" yaml:"key"`
	Value  any    `json:"value,omitempty" yaml:"value,omitempty"`
}

// ServerConfig contains HTTP and session settings. Durations use
// time.ParseDuration syntax.
type ServerConfig struct {
	Host           string   `json:"host,omitempty" yaml:"host,omitempty"`
	Port           int      `json:"port,omitempty" yaml:"port,omitempty"`
	ReadTimeout    string   `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`
	WriteTimeout   string   `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty"`
	Heartbeat      string   `json:"heartbeat,omitempty" yaml:"heartbeat,omitempty"`
	MaxEventQueue  int      `json:"maxEventQueue,omitempty" yaml:"maxEventQueue,omitempty"`
	MaxSessions    int      `json:"maxSessions,omitempty" yaml:"maxSessions,omitempty"`
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// TracingConfig controls OpenTelemetry spans.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// LogConfig controls the slog handler. Format is "text", "json" or
// "auto" (text on a terminal, JSON otherwise).
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// S3Config configures s3:// sources.
type S3Config struct {
	Region       string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint     string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	UsePathStyle bool   `json:"usePathStyle,omitempty" yaml:"usePathStyle,omitempty"`
}

// StaticConfig serves an asset directory. Cache is "", "none" or
// "production".
type StaticConfig struct {
	Dir    string `json:"dir,omitempty" yaml:"dir,omitempty"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Cache  string `json:"cache,omitempty" yaml:"cache,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the first config file found in dir.
func Load(dir string) (*Config, error) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E100").
		WithDetail("No dvue.json or dvue.yaml found in " + dir).
		WithSuggestion("Create dvue.yaml with at least a template entry")
}

// LoadFile reads configuration from path. The format follows the file
// extension; anything but .yaml/.yml is JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No config file at " + path)
		}
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := &Config{}
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		e := errors.New("E101").Wrap(err)
		if line, col := errorPosition(err, data); line > 0 {
			e.WithLocation(path, line, col)
		}
		if isYAML(path) {
			return nil, e.WithSuggestion("Check that " + filepath.Base(path) + " is valid YAML")
		}
		return nil, e.WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// errorPosition extracts a 1-based line and column from a decode error.
func errorPosition(err error, data []byte) (line, col int) {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case stderrors.As(err, &syntaxErr):
		return offsetPosition(data, syntaxErr.Offset)
	case stderrors.As(err, &typeErr):
		return offsetPosition(data, typeErr.Offset)
	}

	// yaml.v3 reports "yaml: line N: ..." or "line N: ..." per entry.
	msg := err.Error()
	if i := strings.Index(msg, "line "); i >= 0 {
		fmt.Sscanf(msg[i:], "line %d", &line)
	}
	return line, 0
}

func offsetPosition(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col = 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path, as YAML or JSON by extension.
func (c *Config) SaveTo(path string) error {
	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E103").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E103").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		wd, _ := os.Getwd()
		return wd
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in unset fields.
func (c *Config) applyDefaults() {
	if c.Template == "" {
		c.Template = DefaultTemplate
	}
	if c.El == "" {
		c.El = DefaultEl
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "dvue"
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = "dvue"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "auto"
	}
}

// ApplyEnv applies DVUE_* environment overrides.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvHost); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("E102").
				WithDetail(EnvPort + " must be a number, got " + strconv.Quote(v)).
				Wrap(err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks field ranges and formats.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E102").
			WithDetail("server.port must be between 0 and 65535")
	}
	for name, v := range map[string]string{
		"server.readTimeout":  c.Server.ReadTimeout,
		"server.writeTimeout": c.Server.WriteTimeout,
		"server.heartbeat":    c.Server.Heartbeat,
	} {
		if _, err := parseDuration(v); err != nil {
			return errors.New("E102").
				WithDetail(name + " is not a duration").
				WithSuggestion(`Use Go duration syntax such as "30s" or "1m"`).
				Wrap(err)
		}
	}
	if c.Server.MaxEventQueue < 0 || c.Server.MaxSessions < 0 {
		return errors.New("E102").
			WithDetail("server.maxEventQueue and server.maxSessions must not be negative")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "auto", "text", "json":
	default:
		return errors.New("E102").
			WithDetail(`log.format must be "auto", "text" or "json"`)
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("E102").
			WithDetail("metrics.path must start with /")
	}
	switch c.Static.Cache {
	case "", "none", "production":
	default:
		return errors.New("E102").
			WithDetail(`static.cache must be "none" or "production"`)
	}
	if c.Static.Prefix == "/" {
		return errors.New("E102").
			WithDetail("static.prefix cannot be /, the page is served there")
	}
	for name, m := range c.Methods {
		if m.Action == "" || m.Key == "" {
			return errors.New("E102").
				WithDetail("methods." + name + " needs an action and a key")
		}
	}
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// ReadTimeout returns server.readTimeout, or 0 when unset.
func (c *Config) ReadTimeout() time.Duration {
	d, _ := parseDuration(c.Server.ReadTimeout)
	return d
}

// WriteTimeout returns server.writeTimeout, or 0 when unset.
func (c *Config) WriteTimeout() time.Duration {
	d, _ := parseDuration(c.Server.WriteTimeout)
	return d
}

// Heartbeat returns server.heartbeat, or 0 when unset.
func (c *Config) Heartbeat() time.Duration {
	d, _ := parseDuration(c.Server.Heartbeat)
	return d
}

// LogLevel parses log.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, errors.New("E102").
			WithDetail("log.level must be debug, info, warn or error").
			Wrap(err)
	}
	return level, nil
}

// Address returns the host:port listen address.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// URL returns the server's base URL.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// ResolvePath resolves a source reference against the config directory.
// Absolute paths and URIs are returned unchanged.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || strings.Contains(p, "://") {
		return p
	}
	return filepath.Join(c.Dir(), p)
}

// TemplatePath returns the resolved template reference.
func (c *Config) TemplatePath() string { return c.ResolvePath(c.Template) }

// StaticDir returns the resolved static directory, or "" if none.
func (c *Config) StaticDir() string { return c.ResolvePath(c.Static.Dir) }

// DataPath returns the resolved data reference, or "" if none.
func (c *Config) DataPath() string { return c.ResolvePath(c.Data) }

// Exists reports whether dir contains a config file.
func Exists(dir string) bool {
	for _, name := range ConfigFileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up from startDir to the first directory holding
// a config file.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E100").
				WithDetail("No dvue.json or dvue.yaml found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
