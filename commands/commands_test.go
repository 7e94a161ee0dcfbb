package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayunami2000/sdlayers/commands/command"
	"github.com/ayunami2000/sdlayers/commands/render"
	"github.com/ayunami2000/sdlayers/config"
	"github.com/ayunami2000/sdlayers/form"
	"github.com/ayunami2000/sdlayers/layers"
	"github.com/ayunami2000/sdlayers/session"
)

type step struct {
	response command.Response
	values   form.Values
}

// scriptedDialog answers with the defaults overlaid by the next step.
type scriptedDialog struct {
	steps    []step
	titles   []string
	defaults []form.Values
}

func (d *scriptedDialog) Run(title string, fields []form.Field, defaults form.Values, lookup form.Lookup) (command.Response, form.Values, error) {
	d.titles = append(d.titles, title)
	d.defaults = append(d.defaults, defaults)
	if len(d.steps) == 0 {
		return command.ResponseCancel, nil, nil
	}

	next := d.steps[0]
	d.steps = d.steps[1:]
	return next.response, defaults.Merge(next.values), nil
}

type recorder struct {
	messages []string
	progress []string
}

func (r *recorder) Message(text string)  { r.messages = append(r.messages, text) }
func (r *recorder) Progress(text string) { r.progress = append(r.progress, text) }

type fakeServer struct {
	*httptest.Server
	checkpoint  string
	generations atomic.Int32
	lastBody    map[string]any
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	f := &fakeServer{checkpoint: "a.safetensors [1]"}

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewNRGBA(image.Rect(0, 0, 8, 8))))
	encoded := base64.StdEncoding.EncodeToString(img.Bytes())

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/sdapi/v1/options", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			f.checkpoint = body["sd_model_checkpoint"]
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"sd_model_checkpoint": f.checkpoint})
	})
	mux.HandleFunc("/sdapi/v1/sd-models", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"title":"a.safetensors [1]"},{"title":"b.safetensors [2]"}]`))
	})
	mux.HandleFunc("/controlnet/model_list", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"model_list":["control_depth"]}`))
	})
	mux.HandleFunc("/sdapi/v1/txt2img", func(w http.ResponseWriter, r *http.Request) {
		f.generations.Add(1)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"images": []string{encoded},
			"info":   `{"all_seeds":[99],"infotexts":["a cat"]}`,
		})
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func newContext(t *testing.T, apiBase string, steps ...step) (*command.CommandContext, *scriptedDialog, *recorder, *layers.Document) {
	t.Helper()
	settings := config.Load(filepath.Join(t.TempDir(), "settings.json"), nil)
	require.NoError(t, settings.Save(map[string]any{config.KeyAPIBase: apiBase, config.KeyPrompt: "a cat"}))

	doc := layers.NewDocument(64, 64)
	s, err := session.New(settings, doc, nil, session.Options{TempDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	dialog := &scriptedDialog{steps: steps}
	messenger := &recorder{}
	return &command.CommandContext{Context: context.Background(), Session: s, Dialog: dialog, Messenger: messenger}, dialog, messenger, doc
}

func newExecutor() *command.Executor {
	e := command.NewExecutor()
	Register(e)
	return e
}

func TestHostProceduresRegistered(t *testing.T) {
	e := newExecutor()
	names := e.GetCommandNames()
	for _, name := range []string{
		GlobalName, ChangeModelName,
		ControlNetLayerName, ControlNetLayerContextName,
		Img2ImgName, Img2ImgContextName,
		InpaintingName, InpaintingContextName,
		LayerInfoName, LayerInfoContextName,
		Text2ImgName, Text2ImgContextName,
	} {
		assert.Contains(t, names, name)
		if name != LayerInfoContextName {
			assert.NotEmpty(t, FieldTable[name], name)
		}
	}
}

func TestFieldTableNamesUnique(t *testing.T) {
	for name, fields := range FieldTable {
		seen := map[string]bool{}
		for _, f := range fields {
			assert.False(t, seen[f.Name], "%s: duplicate field %s", name, f.Name)
			seen[f.Name] = true
		}
	}
}

func TestDialogLoop(t *testing.T) {
	cmdctx, dialog, _, _ := newContext(t, "http://127.0.0.1:1",
		step{response: command.ResponseApply},
		step{response: command.ResponseApply},
		step{response: command.ResponseOK},
	)

	submits := 0
	err := cmdctx.RunDialog("loop", globalFields, func(form.Values) error {
		submits++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, submits)
	assert.Len(t, dialog.titles, 3)

	cmdctx, _, _, _ = newContext(t, "http://127.0.0.1:1", step{response: command.ResponseCancel})
	err = cmdctx.RunDialog("loop", globalFields, func(form.Values) error {
		submits++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, submits)
}

func TestDialogDefaultsFromSettings(t *testing.T) {
	cmdctx, dialog, _, _ := newContext(t, "http://127.0.0.1:1")
	require.NoError(t, cmdctx.Session.Settings.Save(map[string]any{config.KeySamplerName: "DDIM", config.KeySteps: 30}))

	require.NoError(t, cmdctx.RunDialog("defaults", FieldTable[Text2ImgName], func(form.Values) error { return nil }))
	require.Len(t, dialog.defaults, 1)
	assert.Equal(t, render.SamplerIndex("DDIM"), dialog.defaults[0]["samplers"])
	assert.Equal(t, 30, form.Values(dialog.defaults[0]).Int("steps"))
	assert.Equal(t, "", dialog.defaults[0]["prompt_prefix"])
}

func TestContextVariantRequiresLayer(t *testing.T) {
	e := newExecutor()
	for _, name := range []string{Img2ImgContextName, InpaintingContextName, Text2ImgContextName, ControlNetLayerContextName, LayerInfoContextName} {
		cmdctx, _, _, _ := newContext(t, "http://127.0.0.1:1")
		assert.ErrorIs(t, e.RunCommand(name, cmdctx), ErrNoContextLayer, name)
	}
}

func TestGlobal(t *testing.T) {
	srv := newFakeServer(t)
	cmdctx, _, _, _ := newContext(t, "http://127.0.0.1:1", step{response: command.ResponseOK, values: form.Values{
		"prompt":          "a dog",
		"negative_prompt": "blurry",
		"api_base":        srv.URL,
	}})

	require.NoError(t, newExecutor().RunCommand(GlobalName, cmdctx))

	stored, err := cmdctx.Session.Settings.Settings()
	require.NoError(t, err)
	assert.Equal(t, "a dog", stored.Prompt)
	assert.Equal(t, "blurry", stored.NegativePrompt)
	assert.Equal(t, srv.URL, stored.APIBase)
	assert.Equal(t, []string{"a.safetensors [1]", "b.safetensors [2]"}, stored.Models)
	assert.Equal(t, []string{"None", "control_depth"}, stored.CNModels)
	assert.True(t, stored.IsServerRunning)
}

func TestGlobalRejectsInvalidURL(t *testing.T) {
	cmdctx, _, _, _ := newContext(t, "http://127.0.0.1:1", step{response: command.ResponseOK, values: form.Values{
		"prompt":   "a dog",
		"api_base": "ftp://example.com",
	}})

	err := newExecutor().RunCommand(GlobalName, cmdctx)
	assert.ErrorIs(t, err, config.ErrInvalidBaseURL)
	assert.Equal(t, "a cat", cmdctx.Session.Settings.GetString(config.KeyPrompt))
}

func TestChangeModel(t *testing.T) {
	srv := newFakeServer(t)
	cmdctx, dialog, messenger, _ := newContext(t, srv.URL, step{response: command.ResponseOK, values: form.Values{"sd_model_checkpoint": 1}})

	require.NoError(t, newExecutor().RunCommand(ChangeModelName, cmdctx))
	assert.Equal(t, 0, dialog.defaults[0]["sd_model_checkpoint"])
	assert.Equal(t, "b.safetensors [2]", srv.checkpoint)
	assert.Equal(t, "b.safetensors [2]", cmdctx.Session.Settings.GetString(config.KeyModel))
	assert.Contains(t, messenger.messages, "Model set to: b.safetensors [2]")
}

func TestChangeModelOffline(t *testing.T) {
	srv := newFakeServer(t)
	srv.Close()
	cmdctx, dialog, _, _ := newContext(t, srv.URL)

	assert.Error(t, newExecutor().RunCommand(ChangeModelName, cmdctx))
	assert.Empty(t, dialog.titles)
}

func TestControlNetLayer(t *testing.T) {
	srv := newFakeServer(t)
	cmdctx, _, _, doc := newContext(t, srv.URL, step{response: command.ResponseOK, values: form.Values{
		"modules":   "canny",
		"cn_models": 1,
		"weight":    0.5,
	}})
	layer := doc.AddImage("edges", image.NewNRGBA(image.Rect(0, 0, 8, 8)))

	require.NoError(t, newExecutor().RunCommand(ControlNetLayerName, cmdctx))

	renamed, err := doc.Layer(layer.ID)
	require.NoError(t, err)
	assert.Equal(t, "ControlNet1", renamed.Name)

	var settings render.ControlSettings
	ok, err := render.LoadMetadata(doc, layer.ID, &settings)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "canny", settings.Module)
	assert.Equal(t, "control_depth", settings.Model)
	assert.Equal(t, 0.5, settings.Weight)
	assert.Equal(t, render.ControlNetResizeModes[1], settings.ResizeMode)
	assert.Equal(t, 1, settings.ControlMode)
}

func TestControlNetLayerNeedsActiveLayer(t *testing.T) {
	srv := newFakeServer(t)
	cmdctx, dialog, _, _ := newContext(t, srv.URL)

	assert.ErrorIs(t, newExecutor().RunCommand(ControlNetLayerName, cmdctx), layers.ErrNoActiveLayer)
	assert.Empty(t, dialog.titles)
}

func TestLayerInfo(t *testing.T) {
	cmdctx, _, messenger, doc := newContext(t, "http://127.0.0.1:1")
	layer := doc.AddImage("Generated Layer 5", image.NewNRGBA(image.Rect(0, 0, 8, 8)))
	require.NoError(t, render.SaveMetadata(doc, layer.ID, &render.Provenance{Info: "a cat", Seed: 5}))
	cmdctx.LayerID = layer.ID

	require.NoError(t, newExecutor().RunCommand(LayerInfoContextName, cmdctx))
	require.Len(t, messenger.messages, 1)
	assert.True(t, strings.HasPrefix(messenger.messages[0], "Layer Generated Layer 5 has the following associated data:\n"))
	assert.Contains(t, messenger.messages[0], `"seed": 5`)
}

func TestLayerInfoByIndex(t *testing.T) {
	cmdctx, _, messenger, doc := newContext(t, "http://127.0.0.1:1", step{response: command.ResponseOK, values: form.Values{"layer": 1}})
	doc.AddImage("bottom", image.NewNRGBA(image.Rect(0, 0, 8, 8)))
	doc.AddImage("top", image.NewNRGBA(image.Rect(0, 0, 8, 8)))

	require.NoError(t, newExecutor().RunCommand(LayerInfoName, cmdctx))
	assert.Equal(t, []string{"Layer bottom has the following associated data:\n{}"}, messenger.messages)
}

func TestText2Img(t *testing.T) {
	srv := newFakeServer(t)
	cmdctx, dialog, messenger, doc := newContext(t, srv.URL,
		step{response: command.ResponseApply, values: form.Values{"prompt_prefix": "oil painting of", "width": 500, "height": 300}},
		step{response: command.ResponseOK, values: form.Values{"seed": "42"}},
	)

	require.NoError(t, newExecutor().RunCommand("txt2img", cmdctx))
	assert.EqualValues(t, 2, srv.generations.Load())
	assert.Equal(t, []string{"txt2img", "txt2img"}, dialog.titles)

	// the second dialog starts from the values the first submit stored
	assert.Equal(t, 504, form.Values(dialog.defaults[1]).Int("width"))
	assert.Equal(t, "a cat", srv.lastBody["prompt"])
	assert.Equal(t, float64(42), srv.lastBody["seed"])

	list, err := doc.ListLayers()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Generated Layer 99", list[0].Name)
	assert.Equal(t, image.Rect(0, 0, 64, 64), list[0].Bounds)
	assert.Contains(t, messenger.progress, "Done")
	assert.Zero(t, cmdctx.Session.Temp.Len())
}

func TestImg2ImgTitleNamesLayer(t *testing.T) {
	cmdctx, dialog, _, doc := newContext(t, "http://127.0.0.1:1")
	doc.AddImage("photo", image.NewNRGBA(image.Rect(0, 0, 8, 8)))

	require.NoError(t, newExecutor().RunCommand(Img2ImgName, cmdctx))
	assert.Equal(t, []string{"img2img with layer photo"}, dialog.titles)
}

func TestParseSizes(t *testing.T) {
	w, h, err := parseSizes("500x300")
	require.NoError(t, err)
	assert.Equal(t, 504, w)
	assert.Equal(t, 304, h)

	w, h, err = parseSizes("512")
	require.NoError(t, err)
	assert.Equal(t, 512, w)
	assert.Equal(t, 512, h)

	_, _, err = parseSizes("32x512")
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, _, err = parseSizes("wide")
	assert.Error(t, err)
}

func TestShortcutCommands(t *testing.T) {
	e := newExecutor()
	cmdctx, _, messenger, _ := newContext(t, "http://127.0.0.1:1")

	cmdctx.Args = "dpm++ 2m karras"
	require.NoError(t, e.RunCommand("sampler", cmdctx))
	assert.Equal(t, "DPM++ 2M Karras", cmdctx.Session.Settings.GetString(config.KeySamplerName))

	cmdctx.Args = "not a sampler"
	assert.ErrorIs(t, e.RunCommand("sm", cmdctx), ErrInvalidSampler)

	cmdctx.Args = "a lighthouse at dusk"
	require.NoError(t, e.RunCommand("p", cmdctx))
	assert.Equal(t, "a lighthouse at dusk", cmdctx.Session.Settings.GetString(config.KeyPrompt))

	cmdctx.Args = ""
	require.NoError(t, e.RunCommand("negativeprompt", cmdctx))
	assert.Equal(t, "Current negative prompt: None", messenger.messages[len(messenger.messages)-1])

	cmdctx.Args = "640x480"
	require.NoError(t, e.RunCommand("size", cmdctx))
	assert.Equal(t, "Size set to: 640x480", messenger.messages[len(messenger.messages)-1])

	cmdctx.Args = ""
	require.NoError(t, e.RunCommand("settings", cmdctx))
	last := messenger.messages[len(messenger.messages)-1]
	assert.Contains(t, last, "sampler_name")
	assert.Contains(t, last, "DPM++ 2M Karras")
	assert.Less(t, strings.Index(last, "api_base"), strings.Index(last, "width"))

	require.NoError(t, e.RunCommand("help", cmdctx))
	assert.Contains(t, messenger.messages[len(messenger.messages)-1], Text2ImgName)
}
