package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const envPrefix = "SWEEPER_"

type Duration struct{ time.Duration }

// [Duration] implements [json.Marshaler]
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) set(v any) error {
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case int:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
		return nil

	default:
		return errors.New("invalid duration")
	}
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return d.set(v)
}

// [Duration] implements [yaml.Unmarshaler]
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var v any
	if err := value.Decode(&v); err != nil {
		return err
	}
	return d.set(v)
}

// GameConfig holds the parameters of the board created at startup and the
// largest board a client may ask for.
type GameConfig struct {
	Width     int `json:"width" yaml:"width"`
	Height    int `json:"height" yaml:"height"`
	MineCount int `json:"mine_count" yaml:"mine_count"`
	MaxCells  int `json:"max_cells" yaml:"max_cells"`
}

type TokenConfig struct {
	Secret   string   `json:"secret" yaml:"secret"`
	Issuer   string   `json:"issuer" yaml:"issuer"`
	Lifetime Duration `json:"lifetime" yaml:"lifetime"`
}

type CookiesConfig struct {
	Domain   string `json:"domain" yaml:"domain"`
	Secure   bool   `json:"secure" yaml:"secure"`
	SameSite string `json:"same_site" yaml:"same_site"`
}

// LogFileConfig enables a rotating log file next to stderr output when Path
// is set.
type LogFileConfig struct {
	Path       string `json:"path" yaml:"path"`
	MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" yaml:"max_age_days"`
}

type Config struct {
	Mode           string        `json:"mode" yaml:"mode"`
	Addr           string        `json:"addr" yaml:"addr"`
	AllowedOrigins []string      `json:"allowed_origins" yaml:"allowed_origins"`
	ReadTimeout    Duration      `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   Duration      `json:"write_timeout" yaml:"write_timeout"`
	Game           GameConfig    `json:"game" yaml:"game"`
	Token          TokenConfig   `json:"token" yaml:"token"`
	Cookies        CookiesConfig `json:"cookies" yaml:"cookies"`
	LogFile        LogFileConfig `json:"log_file" yaml:"log_file"`
}

// Default returns the configuration used for values a file leaves out.
func Default() Config {
	return Config{
		Mode:         "development",
		Addr:         ":8000",
		ReadTimeout:  Duration{time.Second * 15},
		WriteTimeout: Duration{time.Second * 15},
		Game: GameConfig{
			Width:     10,
			Height:    10,
			MineCount: 30,
			MaxCells:  1 << 20,
		},
		Token: TokenConfig{
			Issuer:   "sweeper",
			Lifetime: Duration{time.Hour * 24},
		},
		Cookies: CookiesConfig{
			SameSite: "strict",
		},
		LogFile: LogFileConfig{
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":               c.Mode,
		"addr":               c.Addr,
		"allowed_origins":    c.AllowedOrigins,
		"read_timeout":       c.ReadTimeout.String(),
		"write_timeout":      c.WriteTimeout.String(),
		"game_width":         c.Game.Width,
		"game_height":        c.Game.Height,
		"game_mine_count":    c.Game.MineCount,
		"game_max_cells":     c.Game.MaxCells,
		"token_issuer":       c.Token.Issuer,
		"token_lifetime":     c.Token.Lifetime.String(),
		"cookies_domain":     c.Cookies.Domain,
		"cookies_secure":     c.Cookies.Secure,
		"cookies_same_site":  c.Cookies.SameSite,
		"log_file_path":      c.LogFile.Path,
		"log_file_max_size":  c.LogFile.MaxSizeMB,
		"log_file_max_files": c.LogFile.MaxBackups,
	}
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

func (c Config) HttpCookieSameSite() http.SameSite {
	switch strings.ToUpper(c.Cookies.SameSite) {
	case "DEFAULT":
		return http.SameSiteDefaultMode
	case "LAX":
		return http.SameSiteLaxMode
	case "NONE":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is not set")
	}
	if c.Token.Secret == "" {
		return fmt.Errorf("token secret is not set (%sTOKEN_SECRET)", envPrefix)
	}
	if c.Token.Lifetime.Duration <= 0 {
		return errors.New("token lifetime must be positive")
	}
	if c.Game.MaxCells <= 0 {
		return errors.New("game max_cells must be positive")
	}
	return nil
}

// ReadConfig decodes a JSON or YAML file into config, picking the format by
// file extension.
func ReadConfig(path string, config *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, config)
	default:
		err = json.Unmarshal(b, config)
	}
	if err != nil {
		return fmt.Errorf("unable to parse config %s: %w", path, err)
	}
	return nil
}

func lookupEnv(name string) (string, bool) {
	return os.LookupEnv(envPrefix + name)
}

// ApplyEnv overrides config values with SWEEPER_* environment variables.
func ApplyEnv(config *Config) error {
	if v, ok := lookupEnv("MODE"); ok {
		config.Mode = v
	}
	if v, ok := lookupEnv("ADDR"); ok {
		config.Addr = v
	}
	if v, ok := lookupEnv("ALLOWED_ORIGINS"); ok {
		config.AllowedOrigins = strings.Split(v, ",")
	}
	if v, ok := lookupEnv("TOKEN_SECRET"); ok {
		config.Token.Secret = v
	} else if path, ok := lookupEnv("TOKEN_SECRET_FILE"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("unable to read token secret file: %w", err)
		}
		config.Token.Secret = strings.TrimSpace(string(data))
	}
	if v, ok := lookupEnv("LOG_FILE"); ok {
		config.LogFile.Path = v
	}
	for name, dst := range map[string]*int{
		"GAME_WIDTH":      &config.Game.Width,
		"GAME_HEIGHT":     &config.Game.Height,
		"GAME_MINE_COUNT": &config.Game.MineCount,
		"GAME_MAX_CELLS":  &config.Game.MaxCells,
	} {
		v, ok := lookupEnv(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("unable to convert %s%s to int: %w", envPrefix, name, err)
		}
		*dst = n
	}
	return nil
}

// Load builds the configuration from defaults, the file at path (skipped
// when path is empty), a .env file in the working directory if present, and
// the environment, in that order of increasing precedence.
func Load(path string) (*Config, error) {
	config := Default()
	if path != "" {
		if err := ReadConfig(path, &config); err != nil {
			return nil, err
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("unable to load .env: %w", err)
	}
	if err := ApplyEnv(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}
