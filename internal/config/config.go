package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sortable-cli/internal/sortable"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Store  StoreConfig  `mapstructure:"store"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Boards []Board      `mapstructure:"boards"`

	// Path is the file the config was read from ("" when none was found).
	Path string `mapstructure:"-"`
}

type StoreConfig struct {
	Dir string `mapstructure:"dir"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// BaseURL resolves relative board URLs for the TUI's sync client.
	BaseURL string `mapstructure:"base_url"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Board describes one sortable list and how finished drags are synced.
type Board struct {
	ID            string            `mapstructure:"id"`
	Title         string            `mapstructure:"title"`
	URL           string            `mapstructure:"url"`
	Method        string            `mapstructure:"method"`
	IDParam       string            `mapstructure:"id_param"`
	PosParam      string            `mapstructure:"pos_param"`
	ParseID       *bool             `mapstructure:"parse_id"`
	Accept        []string          `mapstructure:"accept"`
	ExcludeSelf   bool              `mapstructure:"exclude_self"`
	MinLength     *int              `mapstructure:"min_length"`
	DragClass     string            `mapstructure:"drag_class"`
	Item          string            `mapstructure:"item"`
	Handle        string            `mapstructure:"handle"`
	Headers       map[string]string `mapstructure:"headers"`
	Params        map[string]string `mapstructure:"params"`
	// RawParams is an encoded query string sent instead of Params.
	RawParams     string            `mapstructure:"raw_params"`
	RequestMethod string            `mapstructure:"request_method"`
	Timeout       time.Duration     `mapstructure:"timeout"`
}

// Options converts the board entry into list options. Unset fields keep the
// sortable defaults.
func (b Board) Options() sortable.Options {
	o := sortable.DefaultOptions()
	o.URL = strings.TrimSpace(b.URL)
	if b.Method != "" {
		o.Method = b.Method
	}
	if b.IDParam != "" {
		o.IDParam = b.IDParam
	}
	if b.PosParam != "" {
		o.PosParam = b.PosParam
	}
	if b.ParseID != nil {
		o.ParseID = *b.ParseID
	}
	if b.MinLength != nil {
		o.MinLength = *b.MinLength
	}
	if b.DragClass != "" {
		o.DragClass = b.DragClass
	}
	if b.Item != "" {
		o.ItemSelector, o.HandleSelector = b.Item, b.Item
	}
	if b.Handle != "" {
		o.HandleSelector = b.Handle
	}
	for _, id := range b.Accept {
		if id = strings.TrimSpace(id); id != "" {
			o.Accept = append(o.Accept, sortable.ListID(id))
		}
	}
	o.ExcludeSelf = b.ExcludeSelf
	if len(b.Headers) > 0 {
		o.Request.Headers = b.Headers
	}
	for k, v := range b.Params {
		if o.Request.Params == nil {
			o.Request.Params = url.Values{}
		}
		o.Request.Params.Set(k, v)
	}
	o.Request.RawParams = strings.TrimSpace(b.RawParams)
	o.Request.Method = strings.TrimSpace(b.RequestMethod)
	o.Request.Timeout = b.Timeout
	return o
}

// Board returns the entry with the given id.
func (c Config) Board(id string) (Board, bool) {
	for _, b := range c.Boards {
		if strings.EqualFold(b.ID, id) {
			return b, true
		}
	}
	return Board{}, false
}

const envPrefix = "SORTABLE"

// ConfigDir is ~/.config/sortable, or $SORTABLE_CONFIG_DIR.
func ConfigDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("SORTABLE_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "sortable"), nil
}

func defaultStoreDir() string {
	if dir, err := ConfigDir(); err == nil {
		return filepath.Join(dir, "data")
	}
	return ".sortable"
}

// Load reads configuration from path, $SORTABLE_CONFIG or the config dir, in
// that order. A missing file is not an error. Env vars with prefix SORTABLE_
// override file values (e.g. SORTABLE_SERVER_ADDR).
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("store.dir", defaultStoreDir())
	v.SetDefault("server.addr", "127.0.0.1:7420")
	v.SetDefault("server.base_url", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")

	v.SetConfigType("toml")
	if path == "" {
		path = strings.TrimSpace(os.Getenv("SORTABLE_CONFIG"))
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else if dir, err := ConfigDir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		switch {
		case explicit && os.IsNotExist(err):
		case explicit:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		case !errors.As(err, &nf):
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Path = v.ConfigFileUsed()
	if _, err := os.Stat(c.Path); err != nil {
		c.Path = ""
	}
	c.Store.Dir = expandHome(c.Store.Dir)
	c.Log.File = expandHome(c.Log.File)
	return c, c.validate()
}

func (c Config) validate() error {
	seen := map[string]bool{}
	for i, b := range c.Boards {
		id := strings.ToLower(strings.TrimSpace(b.ID))
		if id == "" {
			return fmt.Errorf("boards[%d]: id is required", i)
		}
		if seen[id] {
			return fmt.Errorf("boards[%d]: duplicate id %q", i, b.ID)
		}
		seen[id] = true
		if b.MinLength != nil && *b.MinLength < 0 {
			return fmt.Errorf("boards[%d]: min_length must be >= 0", i)
		}
	}
	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
