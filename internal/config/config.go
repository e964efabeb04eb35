// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON config file, a .env
// file and environment variables.
//
// Precedence, lowest first: defaults, config file, flags, environment.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/atinyakov/shortlink/internal/middleware"
)

const defaultConfigPath = "config.json"

// maxAliasLength keeps custom aliases usable as a single URL path segment.
const maxAliasLength = 255

// Backends in the order they are picked.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendFile     = "file"
	BackendMemory   = "memory"
)

// Duration is a time.Duration read from JSON as a string like "3s".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}

	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}

	d.Duration = v
	return nil
}

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"server_address"`

	// ResultHostname is the base URL used for result links.
	ResultHostname string `json:"base_url"`

	// FilePath is the path to the append-only storage file.
	FilePath string `json:"file_storage_path"`

	// DatabaseDSN is the PostgreSQL connection string.
	DatabaseDSN string `json:"database_dsn"`

	// SQLiteDSN is a local sqlite file or a libsql:// URL.
	SQLiteDSN string `json:"sqlite_dsn"`

	// RedisAddr is host:port or a redis:// URL.
	RedisAddr string `json:"redis_addr"`

	// GRPCPort enables the gRPC server when non-zero.
	GRPCPort int `json:"grpc_port"`

	EnablePprof bool `json:"enable_pprof"`
	EnableHTTPS bool `json:"enable_https"`

	// TrustedSubnet in CIDR notation guards /api/internal/stats.
	TrustedSubnet string `json:"trusted_subnet"`

	LogLevel string `json:"log_level"`

	CodeLength     int    `json:"code_length"`
	CodeStrategy   string `json:"code_strategy"`
	MaxAliasLength int    `json:"max_alias_length"`
	MaxAttempts    int    `json:"max_attempts"`

	ClickWorkers int      `json:"click_workers"`
	ClickBuffer  int      `json:"click_buffer"`
	StoreTimeout Duration `json:"store_timeout"`

	// Config is the path of the JSON config file.
	Config string `json:"-"`
}

func defaults() Options {
	return Options{
		Port:           "localhost:8080",
		ResultHostname: "http://localhost:8080",
		LogLevel:       "info",
		CodeLength:     7,
		CodeStrategy:   "random",
		MaxAliasLength: 32,
		MaxAttempts:    5,
		ClickWorkers:   4,
		ClickBuffer:    1024,
		StoreTimeout:   Duration{3 * time.Second},
		Config:         defaultConfigPath,
	}
}

func newFlagSet(o *Options) *flag.FlagSet {
	set := flag.NewFlagSet("shortener", flag.ContinueOnError)

	set.StringVar(&o.Port, "a", o.Port, "run on ip:port server")
	set.StringVar(&o.ResultHostname, "b", o.ResultHostname, "result base url")
	set.StringVar(&o.FilePath, "f", o.FilePath, "path to storage file")
	set.StringVar(&o.DatabaseDSN, "d", o.DatabaseDSN, "postgres dsn")
	set.StringVar(&o.SQLiteDSN, "l", o.SQLiteDSN, "sqlite file or libsql:// url")
	set.StringVar(&o.RedisAddr, "r", o.RedisAddr, "redis address")
	set.IntVar(&o.GRPCPort, "g", o.GRPCPort, "grpc port, 0 disables grpc")
	set.BoolVar(&o.EnablePprof, "p", o.EnablePprof, "enable pprof")
	set.BoolVar(&o.EnableHTTPS, "s", o.EnableHTTPS, "enable https")
	set.StringVar(&o.TrustedSubnet, "t", o.TrustedSubnet, "trusted subnet (CIDR)")
	set.StringVar(&o.LogLevel, "v", o.LogLevel, "log level")
	set.IntVar(&o.CodeLength, "n", o.CodeLength, "generated code length")
	set.StringVar(&o.CodeStrategy, "k", o.CodeStrategy, "code strategy: random or sequence")
	set.IntVar(&o.MaxAliasLength, "m", o.MaxAliasLength, "max custom alias length")
	set.IntVar(&o.MaxAttempts, "x", o.MaxAttempts, "max generation attempts")
	set.IntVar(&o.ClickWorkers, "w", o.ClickWorkers, "click workers")
	set.IntVar(&o.ClickBuffer, "q", o.ClickBuffer, "click queue size")
	set.DurationVar(&o.StoreTimeout.Duration, "o", o.StoreTimeout.Duration, "store call timeout")
	set.StringVar(&o.Config, "c", o.Config, "path to json config file")

	return set
}

// Parse builds the options from args (without the program name) and the
// process environment. A .env file in the working directory is loaded
// first; it never overrides variables that are already set.
func Parse(args []string) (*Options, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	// first pass only finds the config file
	probe := defaults()
	if err := newFlagSet(&probe).Parse(args); err != nil {
		return nil, err
	}

	path, explicit := probe.Config, probe.Config != defaultConfigPath
	if env := os.Getenv("CONFIG"); env != "" {
		path, explicit = env, true
	}

	options := defaults()
	if err := loadFile(path, explicit, &options); err != nil {
		return nil, err
	}

	if err := newFlagSet(&options).Parse(args); err != nil {
		return nil, err
	}
	options.Config = path

	if err := applyEnv(&options); err != nil {
		return nil, err
	}

	if err := options.Validate(); err != nil {
		return nil, err
	}

	return &options, nil
}

// MustParse parses os.Args and panics on invalid configuration.
func MustParse() *Options {
	options, err := Parse(os.Args[1:])
	if err != nil {
		panic(err)
	}

	return options
}

func loadFile(path string, explicit bool, o *Options) error {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if err := json.Unmarshal(content, o); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	return nil
}

func applyEnv(o *Options) error {
	strs := map[string]*string{
		"SERVER_ADDRESS":    &o.Port,
		"BASE_URL":          &o.ResultHostname,
		"FILE_STORAGE_PATH": &o.FilePath,
		"DATABASE_DSN":      &o.DatabaseDSN,
		"SQLITE_DSN":        &o.SQLiteDSN,
		"REDIS_ADDR":        &o.RedisAddr,
		"TRUSTED_SUBNET":    &o.TrustedSubnet,
		"LOG_LEVEL":         &o.LogLevel,
		"CODE_STRATEGY":     &o.CodeStrategy,
	}
	for name, dst := range strs {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"GRPC_PORT":        &o.GRPCPort,
		"CODE_LENGTH":      &o.CodeLength,
		"MAX_ALIAS_LENGTH": &o.MaxAliasLength,
		"MAX_ATTEMPTS":     &o.MaxAttempts,
		"CLICK_WORKERS":    &o.ClickWorkers,
		"CLICK_BUFFER":     &o.ClickBuffer,
	}
	for name, dst := range ints {
		if v := os.Getenv(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = n
		}
	}

	bools := map[string]*bool{
		"ENABLE_PPROF": &o.EnablePprof,
		"ENABLE_HTTPS": &o.EnableHTTPS,
	}
	for name, dst := range bools {
		if v := os.Getenv(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = b
		}
	}

	if v := os.Getenv("STORE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("STORE_TIMEOUT: %w", err)
		}
		o.StoreTimeout.Duration = d
	}

	return nil
}

// Validate rejects values the service cannot start with.
func (o *Options) Validate() error {
	var errs []error

	if o.CodeLength < 1 || o.CodeLength > 10 {
		errs = append(errs, fmt.Errorf("code length must be between 1 and 10, got %d", o.CodeLength))
	}
	if o.CodeStrategy != "random" && o.CodeStrategy != "sequence" {
		errs = append(errs, fmt.Errorf("unknown code strategy %q", o.CodeStrategy))
	}
	if o.MaxAliasLength < 1 || o.MaxAliasLength > maxAliasLength {
		errs = append(errs, fmt.Errorf("max alias length must be between 1 and %d, got %d", maxAliasLength, o.MaxAliasLength))
	}
	if o.MaxAttempts < 1 {
		errs = append(errs, errors.New("max attempts must be positive"))
	}
	if o.ClickWorkers < 1 {
		errs = append(errs, errors.New("click workers must be positive"))
	}
	if o.ClickBuffer < 0 {
		errs = append(errs, errors.New("click buffer must not be negative"))
	}
	if o.StoreTimeout.Duration <= 0 {
		errs = append(errs, errors.New("store timeout must be positive"))
	}
	if o.GRPCPort < 0 || o.GRPCPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid grpc port %d", o.GRPCPort))
	}
	if _, err := middleware.ParseTrustedSubnet(o.TrustedSubnet); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Backend names the store selected by the options.
func (o *Options) Backend() string {
	switch {
	case o.DatabaseDSN != "":
		return BackendPostgres
	case o.SQLiteDSN != "":
		return BackendSQLite
	case o.RedisAddr != "":
		return BackendRedis
	case o.FilePath != "":
		return BackendFile
	default:
		return BackendMemory
	}
}
