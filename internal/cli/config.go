package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/notebook/internal/api"
	"github.com/mesh-intelligence/notebook/internal/paths"
	"github.com/mesh-intelligence/notebook/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "NOTEBOOK"
)

// Config keys.
const (
	cfgKeyBackend        = "backend"
	cfgKeyDataDir        = "data_dir"
	cfgKeyPostgresDSN    = "postgres_dsn"
	cfgKeyListenAddr     = "listen_addr"
	cfgKeyLogLevel       = "log_level"
	cfgKeyLogFormat      = "log_format"
	cfgKeyCascadeDeletes = "cascade_deletes"
	cfgKeyErrorPolicy    = "error_policy"
)

// Defaults applied when neither config.yaml nor the environment sets a key.
const (
	defaultBackend    = types.BackendSQLite
	defaultListenAddr = ":8080"
	defaultLogLevel   = "info"
	defaultLogFormat  = "text"
)

// configFile is the shape of config.yaml written by init.
type configFile struct {
	Backend        string `yaml:"backend"`
	DataDir        string `yaml:"data_dir,omitempty"`
	PostgresDSN    string `yaml:"postgres_dsn,omitempty"`
	ListenAddr     string `yaml:"listen_addr"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
	CascadeDeletes bool   `yaml:"cascade_deletes"`
	ErrorPolicy    string `yaml:"error_policy"`
}

// settings is the fully resolved configuration of one CLI invocation.
type settings struct {
	configDir      string
	store          types.Config
	listenAddr     string
	logLevel       string
	logFormat      string
	cascadeDeletes bool
	errorPolicy    api.Policy
}

// loadSettings resolves directories and reads config.yaml with Viper.
// Environment variables prefixed NOTEBOOK_ override file values; the data
// directory follows paths.ResolveDataDir instead. A missing config.yaml is
// not an error.
func loadSettings(flags *rootFlags) (*settings, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyListenAddr, defaultListenAddr)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyLogFormat, defaultLogFormat)
	v.SetDefault(cfgKeyCascadeDeletes, false)
	v.SetDefault(cfgKeyErrorPolicy, string(api.PolicyStrict))
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{
		cfgKeyBackend, cfgKeyPostgresDSN, cfgKeyListenAddr, cfgKeyLogLevel,
		cfgKeyLogFormat, cfgKeyCascadeDeletes, cfgKeyErrorPolicy,
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	policy, err := api.ParsePolicy(v.GetString(cfgKeyErrorPolicy))
	if err != nil {
		return nil, err
	}

	s := &settings{
		configDir: configDir,
		store: types.Config{
			Backend: v.GetString(cfgKeyBackend),
			DataDir: dataDir,
			DSN:     v.GetString(cfgKeyPostgresDSN),
		},
		listenAddr:     v.GetString(cfgKeyListenAddr),
		logLevel:       v.GetString(cfgKeyLogLevel),
		logFormat:      v.GetString(cfgKeyLogFormat),
		cascadeDeletes: v.GetBool(cfgKeyCascadeDeletes),
		errorPolicy:    policy,
	}
	if flags.logLevel != "" {
		s.logLevel = flags.logLevel
	}
	if err := s.store.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return s, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. An existing file is left untouched.
func writeConfigIfMissing(path, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	cfg := configFile{
		Backend:     defaultBackend,
		DataDir:     dataDir,
		ListenAddr:  defaultListenAddr,
		LogLevel:    defaultLogLevel,
		LogFormat:   defaultLogFormat,
		ErrorPolicy: string(api.PolicyStrict),
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}
	return true, os.WriteFile(path, data, 0o644)
}
