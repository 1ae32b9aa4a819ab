package cmd_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	toml "github.com/pelletier/go-toml"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"

	"github.com/Alia5/keyview/internal/cmd"
	"github.com/Alia5/keyview/internal/log"
	"github.com/Alia5/keyview/internal/persist"
	"github.com/Alia5/keyview/internal/render"
	"github.com/Alia5/keyview/report"
	"github.com/Alia5/keyview/report/relay"

	_ "github.com/Alia5/keyview/report/mock"
)

const corneJSON = `{
  "keyboard": "crkbd",
  "keymap": "default",
  "layers": [["KC_Q", "KC_W", "MT(MOD_LCTL, KC_E)"], ["KC_1", "_______", "MO(2)"]],
  "layer_names": ["Base", "Num"]
}`

func writeKeymap(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corne.json")
	require.NoError(t, os.WriteFile(path, []byte(corneJSON), 0o644))
	return path
}

func TestTemplateKeys(t *testing.T) {
	view, err := cmd.Template("view")
	require.NoError(t, err)
	assert.Equal(t, "mock", view["source"])
	assert.Equal(t, "8ms", view["interval"])
	assert.Equal(t, "2ms", view["read_timeout"])
	assert.Equal(t, int64(30), view["fps"])
	assert.Equal(t, true, view["remember"])
	assert.Equal(t, false, view["no_color"])
	assert.NotContains(t, view, "path")

	rel, err := cmd.Template("relay")
	require.NoError(t, err)
	assert.Equal(t, ":3247", rel["listen"])
	assert.Contains(t, rel, "serve_password")
	assert.Contains(t, rel, "source")

	_, err = cmd.Template("server")
	assert.Error(t, err)
}

func TestConfigInitWrite(t *testing.T) {
	dir := t.TempDir()
	c := &cmd.ConfigInit{Command: "view", Format: "yaml", Output: filepath.Join(dir, "nested", "view.yaml")}

	dest, err := c.Write()
	require.NoError(t, err)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "localhost:3247", got["addr"])

	_, err = c.Write()
	assert.ErrorContains(t, err, "--force")

	c.Force = true
	c.Format = "toml"
	_, err = c.Write()
	require.NoError(t, err)
	data, err = os.ReadFile(dest)
	require.NoError(t, err)
	tree, err := toml.LoadBytes(data)
	require.NoError(t, err)
	assert.Equal(t, "mock", tree.Get("source"))

	c.Format = "ini"
	_, err = c.Write()
	assert.ErrorContains(t, err, "unsupported format")
}

func TestParseFormats(t *testing.T) {
	path := writeKeymap(t)

	t.Run("json layout", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&cmd.Parse{Path: path, Format: "json"}).Write(&buf))
		var got struct {
			Rows       int        `json:"rows"`
			Cols       int        `json:"cols"`
			LayerNames []string   `json:"layer_names"`
			Legends    [][]string `json:"legends"`
			RawLegends [][]string `json:"raw_legends"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, 3, got.Rows)
		assert.Equal(t, 7, got.Cols)
		assert.Len(t, got.Legends[0], 21)
		assert.Equal(t, []string{"Base", "Num"}, got.LayerNames)
		assert.Equal(t, "MO(2)", got.RawLegends[1][2])
		assert.Equal(t, "q", got.Legends[0][0])
	})

	t.Run("yaml tokens", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&cmd.Parse{Path: path, Format: "yaml", Tokens: true}).Write(&buf))
		assert.Contains(t, buf.String(), "keyboard: crkbd")
		assert.Contains(t, buf.String(), "MT(MOD_LCTL, KC_E)")
	})

	t.Run("toml layout", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&cmd.Parse{Path: path, Format: "toml"}).Write(&buf))
		tree, err := toml.LoadBytes(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, int64(7), tree.Get("cols"))
	})

	t.Run("grid", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&cmd.Parse{Path: path, Format: "grid", Layer: 1}).Write(&buf))
		assert.Contains(t, buf.String(), "Num")
		assert.Contains(t, buf.String(), "MO")
	})

	t.Run("grid layer out of range", func(t *testing.T) {
		var buf bytes.Buffer
		err := (&cmd.Parse{Path: path, Format: "grid", Layer: 5}).Write(&buf)
		assert.ErrorContains(t, err, "out of range")
	})
}

func TestLastExec(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/keymaps/planck.c", []byte("LAYOUT(KC_A)"), 0o644))
	store := persist.New(fs, "/cfg/keyview")

	var buf bytes.Buffer
	require.NoError(t, (&cmd.Last{}).Exec(store, &buf, log.Discard()))
	assert.Equal(t, "no keymap remembered\n", buf.String())

	_, err := store.Save("/keymaps/planck.c")
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, (&cmd.Last{}).Exec(store, &buf, log.Discard()))
	assert.Contains(t, buf.String(), filepath.Join("/cfg/keyview", "last_keymap.c"))
	assert.Contains(t, buf.String(), "copied from")

	require.NoError(t, (&cmd.Last{Clear: true}).Exec(store, &buf, log.Discard()))
	_, ok, err := store.SavedKeymapPath()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSourceConfigUnknownSource(t *testing.T) {
	_, err := cmd.SourceConfig{Source: "serial"}.Open(log.Discard(), log.NewRaw(nil))
	assert.ErrorIs(t, err, report.ErrUnknownSource)
}

func TestRelayServesMockReports(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()

	r := &cmd.Relay{
		ServePassword: "s3cret",
		SourceConfig:  cmd.SourceConfig{Source: "mock", Interval: time.Millisecond},
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx, ln, log.Discard(), log.NewRaw(nil)) }()

	client, err := relay.New(report.Options{Addr: addr, Password: "s3cret", ReadTimeout: 20 * time.Millisecond})
	require.NoError(t, err)

	var got report.Report
	require.Eventually(t, func() bool {
		rep, ok, err := client.Poll(context.Background())
		if err != nil || !ok {
			return false
		}
		got = rep
		return true
	}, 3*time.Second, time.Millisecond)
	assert.NotZero(t, got.PressedBits)
	assert.Less(t, got.ActiveLayer, uint8(4))

	require.NoError(t, client.Close())
	cancel()
	require.NoError(t, <-done)
}

func TestViewOnce(t *testing.T) {
	path := writeKeymap(t)
	var buf bytes.Buffer
	v := &cmd.View{Path: path, Once: true}
	r := &render.Renderer{Out: &buf, Width: 80, NoColor: true}

	require.NoError(t, v.Start(context.Background(), log.Discard(), log.NewRaw(nil), nil, r))
	out := buf.String()
	assert.Contains(t, out, "Base")
	assert.Contains(t, out, "Ctrl")
	assert.NotContains(t, out, "\x1b[")
}

func TestViewMissingKeymap(t *testing.T) {
	v := &cmd.View{Path: filepath.Join(t.TempDir(), "nope.c"), Once: true}
	r := &render.Renderer{Out: &bytes.Buffer{}, Width: 80, NoColor: true}
	err := v.Start(context.Background(), log.Discard(), log.NewRaw(nil), nil, r)
	assert.ErrorContains(t, err, "keymap not found")
}

func TestViewRunsUntilCancelled(t *testing.T) {
	path := writeKeymap(t)
	var buf bytes.Buffer
	v := &cmd.View{
		Path:         path,
		SourceConfig: cmd.SourceConfig{Source: "mock", Interval: time.Millisecond},
		FPS:          200,
	}
	r := &render.Renderer{Out: &buf, Width: 80, NoColor: true}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, v.Start(ctx, log.Discard(), log.NewRaw(nil), nil, r))
	assert.Contains(t, buf.String(), "Base")
}
