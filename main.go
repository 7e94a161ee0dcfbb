package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ayunami2000/sdlayers/cli"
	"github.com/ayunami2000/sdlayers/commands"
	"github.com/ayunami2000/sdlayers/commands/command"
	"github.com/ayunami2000/sdlayers/config"
	"github.com/ayunami2000/sdlayers/layers"
	"github.com/ayunami2000/sdlayers/logging"
	"github.com/ayunami2000/sdlayers/session"
)

func defaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "sdlayers.json"
	}

	return filepath.Join(dir, "sdlayers", "settings.json")
}

func options(args []string) (*viper.Viper, []string, error) {
	fs := pflag.NewFlagSet("sdlayers", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.String("settings", defaultSettingsPath(), "settings file")
	fs.String("doc", ".", "document directory")
	fs.String("size", "512x512", "canvas size when the document directory is empty")
	fs.StringSlice("import", nil, "image files to add as layers before running")
	fs.String("active", "", "id of the layer to make active")
	fs.String("layer", "", "id of the layer a context command runs on")
	fs.String("selection", "", "selection as x,y,w,h; \"none\" clears it")
	fs.Int("layer-index-offset", 0, "extra entries the host lists ahead of the layers in dialogs")
	fs.String("log-level", "info", "debug, info, warn or error")
	fs.String("log-file", "", "also write JSON logs to this file")
	fs.Bool("debug", false, "debug logging")
	fs.String("dump-dir", "", "write every request body to this directory")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	opts := viper.New()
	opts.SetEnvPrefix("SDLAYERS")
	opts.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	opts.AutomaticEnv()
	if err := opts.BindPFlags(fs); err != nil {
		return nil, nil, err
	}

	return opts, fs.Args(), nil
}

func parseSize(s string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q", s)
	}

	width, err := strconv.Atoi(w)
	if err != nil {
		return 0, 0, err
	}

	height, err := strconv.Atoi(h)
	return width, height, err
}

func parseRect(s string) (image.Rectangle, error) {
	if strings.EqualFold(s, "none") {
		return image.Rectangle{}, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("invalid selection %q", s)
	}

	var n [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, err
		}
		n[i] = v
	}

	return image.Rect(n[0], n[1], n[0]+n[2], n[1]+n[3]), nil
}

func openDocument(opts *viper.Viper) (*layers.Document, error) {
	dir := opts.GetString("doc")
	doc, err := layers.OpenDocument(dir)
	if errors.Is(err, os.ErrNotExist) {
		width, height, err := parseSize(opts.GetString("size"))
		if err != nil {
			return nil, err
		}
		doc = layers.NewDocument(width, height)
	} else if err != nil {
		return nil, err
	}

	doc.IndexOffset = opts.GetInt("layer-index-offset")

	for _, path := range opts.GetStringSlice("import") {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if _, err := doc.CreateLayer(name, raw); err != nil {
			return nil, err
		}
	}

	if id := opts.GetString("active"); id != "" {
		if err := doc.SetActive(id); err != nil {
			return nil, err
		}
	}

	if sel := opts.GetString("selection"); sel != "" {
		r, err := parseRect(sel)
		if err != nil {
			return nil, err
		}
		doc.SetSelection(r)
	}

	return doc, nil
}

func run(ctx context.Context, args []string, messenger *cli.Messenger) error {
	_ = godotenv.Load()

	opts, rest, err := options(args)
	if err != nil {
		return err
	}

	level := logging.ParseLevel(opts.GetString("log-level"))
	if opts.GetBool("debug") {
		level = zap.DebugLevel
	}
	logger := logging.New(level, opts.GetString("log-file"))

	doc, err := openDocument(opts)
	if err != nil {
		return err
	}

	settings := config.Load(opts.GetString("settings"), logger)
	s, err := session.New(settings, doc, logger, session.Options{DumpDir: opts.GetString("dump-dir")})
	if err != nil {
		return err
	}
	defer s.Close()

	executor := command.NewExecutor()
	commands.Register(executor)

	if len(rest) == 0 {
		rest = []string{commands.HelpCommand.Name}
	}

	if rest[0] == "shell" {
		settings.Watch(nil)
		return shell(ctx, executor, s, doc, opts.GetString("doc"), messenger)
	}

	return runCommand(ctx, executor, s, doc, opts.GetString("doc"), opts.GetString("layer"), rest, messenger)
}

func runCommand(ctx context.Context, executor *command.Executor, s *session.Session, doc *layers.Document, dir, layerID string, args []string, messenger *cli.Messenger) error {
	cmdctx := &command.CommandContext{
		Context:   ctx,
		Session:   s,
		Dialog:    &cli.FlagDialog{Args: args[1:], Output: messenger.Out},
		Messenger: messenger,
		LayerID:   layerID,
		Args:      strings.Join(args[1:], " "),
	}

	if err := executor.RunCommand(args[0], cmdctx); err != nil {
		return err
	}

	return doc.Save(dir)
}

// shell keeps one session alive and reads commands from stdin. A leading
// "@<layer id>" runs a context command on that layer.
func shell(ctx context.Context, executor *command.Executor, s *session.Session, doc *layers.Document, dir string, messenger *cli.Messenger) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(messenger.Out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if fields[0] == "exit" || fields[0] == "quit" {
			return nil
		}

		layerID := ""
		if strings.HasPrefix(fields[0], "@") {
			layerID = strings.TrimPrefix(fields[0], "@")
			fields = fields[1:]
			if len(fields) == 0 {
				continue
			}
		}

		if err := runCommand(ctx, executor, s, doc, dir, layerID, fields, messenger); err != nil {
			messenger.Error(err)
		}
	}
}

func main() {
	messenger := &cli.Messenger{Out: color.Output}
	if err := run(context.Background(), os.Args[1:], messenger); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		messenger.Error(err)
		os.Exit(1)
	}
}
