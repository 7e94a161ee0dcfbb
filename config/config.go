package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ayunami2000/sdlayers/logging"
)

var ErrMissingBaseURL = errors.New("server url is not set")
var ErrBlankBaseURL = errors.New("server url is blank")
var ErrInvalidBaseURL = errors.New("server url is not a valid http url")

const (
	KeyAPIBase           = "api_base"
	KeyBatchSize         = "batch_size"
	KeyCfgScale          = "cfg_scale"
	KeyCNModels          = "cn_models"
	KeyDenoisingStrength = "denoising_strength"
	KeyHeight            = "height"
	KeyIsServerRunning   = "is_server_running"
	KeyMaskBlur          = "mask_blur"
	KeyModel             = "model"
	KeyModels            = "models"
	KeyNegativePrompt    = "negative_prompt"
	KeyPrompt            = "prompt"
	KeySamplerName       = "sampler_name"
	KeySDModelCheckpoint = "sd_model_checkpoint"
	KeySeed              = "seed"
	KeySteps             = "steps"
	KeyWidth             = "width"
)

// Settings is the typed view of the persisted settings file.
type Settings struct {
	APIBase           string   `mapstructure:"api_base"`
	BatchSize         int      `mapstructure:"batch_size"`
	CfgScale          float64  `mapstructure:"cfg_scale"`
	CNModels          []string `mapstructure:"cn_models"`
	DenoisingStrength float64  `mapstructure:"denoising_strength"`
	Height            int      `mapstructure:"height"`
	IsServerRunning   bool     `mapstructure:"is_server_running"`
	MaskBlur          int      `mapstructure:"mask_blur"`
	Model             string   `mapstructure:"model"`
	Models            []string `mapstructure:"models"`
	NegativePrompt    string   `mapstructure:"negative_prompt"`
	Prompt            string   `mapstructure:"prompt"`
	SamplerName       string   `mapstructure:"sampler_name"`
	SDModelCheckpoint string   `mapstructure:"sd_model_checkpoint"`
	Seed              int      `mapstructure:"seed"`
	Steps             int      `mapstructure:"steps"`
	Width             int      `mapstructure:"width"`
}

// Defaults returns a fresh copy of the default settings mapping.
func Defaults() map[string]any {
	return map[string]any{
		KeyAPIBase:           "http://127.0.0.1:7860",
		KeyBatchSize:         1,
		KeyCfgScale:          7.5,
		KeyCNModels:          []string{},
		KeyDenoisingStrength: 0.8,
		KeyHeight:            512,
		KeyIsServerRunning:   false,
		KeyMaskBlur:          4,
		KeyModel:             "",
		KeyModels:            []string{},
		KeyNegativePrompt:    "",
		KeyPrompt:            "",
		KeySamplerName:       "Euler a",
		KeySDModelCheckpoint: "",
		KeySeed:              -1,
		KeySteps:             50,
		KeyWidth:             512,
	}
}

// Store keeps settings in memory and mirrors every change to a JSON file.
type Store struct {
	mu     sync.Mutex
	v      *viper.Viper
	path   string
	logger *zap.Logger
}

// Load reads path over the defaults. A missing or unreadable file is logged
// and the defaults are used.
func Load(path string, logger *zap.Logger) *Store {
	s := &Store{path: path, logger: logging.OrNop(logger)}
	s.v = s.fresh()

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Unable to stat settings file", zap.String("path", path), zap.Error(err))
		}
		return s
	}

	if err := s.v.ReadInConfig(); err != nil {
		s.logger.Warn("Unable to read settings file, using defaults", zap.String("path", path), zap.Error(err))
		s.v = s.fresh()
	}

	return s
}

func (s *Store) fresh() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("json")
	for k, val := range Defaults() {
		v.SetDefault(k, val)
	}

	return v
}

func (s *Store) Path() string {
	return s.path
}

// Get never fails; def is returned for unknown keys.
func (s *Store) Get(key string, def any) any {
	if v, ok := s.Lookup(key); ok {
		return v
	}

	return def
}

func (s *Store) Lookup(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.v.IsSet(key) {
		return nil, false
	}

	return s.v.Get(key), true
}

func (s *Store) GetString(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetString(key)
}

func (s *Store) GetStringSlice(key string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetStringSlice(key)
}

// All returns every key, defaults included.
func (s *Store) All() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.AllSettings()
}

func (s *Store) Settings() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var settings Settings
	err := s.v.Unmarshal(&settings)
	return settings, err
}

// Save merges partial into the settings and rewrites the file. The new
// content goes to a sibling temp file first so a failed write leaves the
// previous file intact.
func (s *Store) Save(partial map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, val := range partial {
		s.v.Set(k, val)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := filepath.Join(dir, ".settings-"+uuid.NewString()+".json")
	if err := s.v.WriteConfigAs(tmp); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing settings: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing settings: %w", err)
	}

	return nil
}

// Watch re-reads the file when something else edits it. onChange may be nil.
// Values set through Save live in viper's override layer, so a reload swaps
// in a fresh instance read from disk instead of relying on ReadInConfig.
func (s *Store) Watch(onChange func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	watcher := s.v
	watcher.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		v := s.fresh()
		if err := v.ReadInConfig(); err != nil {
			s.logger.Warn("Unable to reload settings", zap.String("path", s.path), zap.Error(err))
			return
		}

		s.mu.Lock()
		s.v = v
		s.mu.Unlock()

		s.logger.Info("Successfully reloaded settings", zap.String("path", s.path))
		if onChange != nil {
			onChange()
		}
	})
	watcher.WatchConfig()
}

// ValidateBaseURL checks a server url before any request is made.
func ValidateBaseURL(raw any) (*url.URL, error) {
	if raw == nil {
		return nil, ErrMissingBaseURL
	}

	str, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, raw)
	}

	str = strings.TrimSpace(str)
	if str == "" {
		return nil, ErrBlankBaseURL
	}

	u, err := url.Parse(str)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBaseURL, str)
	}

	return u, nil
}
