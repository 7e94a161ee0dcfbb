package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ayunami2000/sdlayers/config"
	"github.com/ayunami2000/sdlayers/layers"
	"github.com/ayunami2000/sdlayers/logging"
	"github.com/ayunami2000/sdlayers/sdapi"
)

var ErrModelIndexOutOfRange = errors.New("model index out of range")

// Session carries everything a command needs. It is built once per process
// and closed when the host unloads the plug-in.
type Session struct {
	Settings *config.Store
	API      *sdapi.Client
	Store    layers.LayerStore
	Temp     *TempFiles
	Logger   *zap.Logger

	tempDir    string
	layerCount int
}

type Options struct {
	// DumpDir receives a copy of every request body when set.
	DumpDir string
	// TempDir is where staging images are written. A fresh directory under
	// the system temp dir is used when empty.
	TempDir string
}

func New(settings *config.Store, store layers.LayerStore, logger *zap.Logger, opts Options) (*Session, error) {
	logger = logging.OrNop(logger)

	tempDir := opts.TempDir
	owned := false
	if tempDir == "" {
		dir, err := os.MkdirTemp("", "sdlayers-")
		if err != nil {
			return nil, err
		}
		tempDir = dir
		owned = true
	}

	api := sdapi.NewClient(settings.GetString(config.KeyAPIBase), logger)
	api.DumpDir = opts.DumpDir

	s := &Session{
		Settings: settings,
		API:      api,
		Store:    store,
		Temp:     NewTempFiles(tempDir),
		Logger:   logger,
	}
	if owned {
		s.tempDir = tempDir
	}

	return s, nil
}

// NextID numbers staging files and control layers.
func (s *Session) NextID() int {
	s.layerCount++
	return s.layerCount
}

// Cleanup removes staging files from the current invocation.
func (s *Session) Cleanup() {
	if err := s.Temp.RemoveAll(); err != nil {
		s.Logger.Warn("Unable to remove temporary files", zap.Error(err))
	}
}

func (s *Session) Close() error {
	s.Cleanup()
	_ = s.Logger.Sync()
	if s.tempDir != "" {
		return os.RemoveAll(s.tempDir)
	}

	return nil
}

// PollServer validates the stored server url and probes it.
func (s *Session) PollServer(ctx context.Context) (bool, error) {
	u, err := config.ValidateBaseURL(s.Settings.Get(config.KeyAPIBase, nil))
	if err != nil {
		return false, err
	}

	s.API.BaseURL = strings.TrimRight(u.String(), "/")
	if err := s.API.ServerOnline(ctx); err != nil {
		s.Logger.Warn("Server is offline", zap.String("url", s.API.BaseURL), zap.Error(err))
		return false, s.saveRunning(false)
	}

	return true, s.saveRunning(true)
}

func (s *Session) saveRunning(running bool) error {
	return s.Settings.Save(map[string]any{config.KeyIsServerRunning: running})
}

// FetchOptions refreshes the cached model lists and current checkpoint.
func (s *Session) FetchOptions(ctx context.Context) error {
	err := s.fetchOptions(ctx)
	if err != nil {
		s.Logger.Error("Unable to fetch server options", zap.Error(err))
		if saveErr := s.saveRunning(false); saveErr != nil {
			s.Logger.Warn("Unable to save settings", zap.Error(saveErr))
		}
	}

	return err
}

func (s *Session) fetchOptions(ctx context.Context) error {
	options, err := s.API.Options(ctx)
	if err != nil {
		return err
	}

	sdModels, err := s.API.SDModels(ctx)
	if err != nil {
		return err
	}

	cnModels, err := s.API.ControlNetModels(ctx)
	if err != nil {
		return err
	}

	titles := make([]string, 0, len(sdModels))
	for _, m := range sdModels {
		titles = append(titles, m.Title)
	}

	return s.Settings.Save(map[string]any{
		config.KeyModels:            titles,
		config.KeyCNModels:          append([]string{"None"}, cnModels...),
		config.KeySDModelCheckpoint: options.SDModelCheckpoint,
		config.KeyIsServerRunning:   true,
	})
}

// ChangeModel switches the server checkpoint to the cached model at index.
func (s *Session) ChangeModel(ctx context.Context, index int) error {
	models := s.Settings.GetStringSlice(config.KeyModels)
	if index < 0 || index >= len(models) {
		return fmt.Errorf("%w: %d of %d", ErrModelIndexOutOfRange, index, len(models))
	}

	title := models[index]
	if title == s.Settings.GetString(config.KeySDModelCheckpoint) {
		return nil
	}

	if err := s.API.SetCheckpoint(ctx, title); err != nil {
		return err
	}

	return s.Settings.Save(map[string]any{
		config.KeySDModelCheckpoint: title,
		config.KeyModel:             title,
	})
}
