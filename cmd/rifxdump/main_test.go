package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logicossoftware/go-rifx/rifxtest"
)

func writeMovie(t *testing.T) (string, int) {
	t.Helper()
	b := rifxtest.NewAfterburner()
	id, _ := rifxtest.WriteStxt(b, "Hello from a movie")
	b.Add("snd ", rifxtest.Sound("ogg"))
	p := filepath.Join(t.TempDir(), "movie.dcr")
	require.NoError(t, os.WriteFile(p, b.Bytes(), 0o644))
	return p, id
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestInfoAndTexts(t *testing.T) {
	p, _ := writeMovie(t)

	out := run(t, "info", p)
	assert.Contains(t, out, "afterburner:   true")
	assert.Contains(t, out, "11.5.0r593")

	out = run(t, "texts", p)
	assert.Contains(t, out, "Hello from a movie")

	out = run(t, "sounds", p)
	assert.Contains(t, out, "format=ogg")

	out = run(t, "scan", p)
	assert.Contains(t, out, "2 of 2 resources decoded")
}

func TestMediaCommands(t *testing.T) {
	b := rifxtest.NewClassic()
	b.Add("PNG ", rifxtest.Bitmap("png"))
	lscr := b.Add("Lscr", []byte("bytecode"))
	b.Add("CASt", rifxtest.ScriptMember(lscr, 7, "walker"))
	b.Add("CASt", rifxtest.ShapeMember(rifxtest.ShapeRecord()))
	p := filepath.Join(t.TempDir(), "media.dir")
	require.NoError(t, os.WriteFile(p, b.Bytes(), 0o644))

	assert.Contains(t, run(t, "bitmaps", p), "format=png")
	assert.Contains(t, run(t, "scripts", p), `kind=parent "walker"`)
	assert.Contains(t, run(t, "shapes", p), "unsigned-colors 10 11 12")
}

func TestExtract(t *testing.T) {
	p, id := writeMovie(t)
	dir := t.TempDir()
	run(t, "extract", p, "-o", dir)
	b, err := os.ReadFile(filepath.Join(dir, fmt.Sprintf("STXT_%04d.bin", id)))
	require.NoError(t, err)
	assert.Equal(t, rifxtest.Stxt("Hello from a movie"), b)
}

func TestTextEncodingFlag(t *testing.T) {
	t.Cleanup(func() { Encoding = "iso-8859-1" })
	Encoding = "macintosh"
	enc, err := textEncoding()
	require.NoError(t, err)
	s, err := enc.NewDecoder().String("\x8e")
	require.NoError(t, err)
	assert.Equal(t, "é", s)

	Encoding = "no-such-charset"
	_, err = textEncoding()
	require.Error(t, err)
}

func TestGlogHandler(t *testing.T) {
	h := newGlogHandler()
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
	l := slog.New(h).With("archive", "movie.dcr").WithGroup("load")
	l.Warn("resource skipped", slog.Int("id", 4))
}
