package controllers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagecompressor/internal/domain/entities"
	"imagecompressor/internal/infrastructure/repositories"
	usecases "imagecompressor/internal/usecase"
)

func newController(input string) (*CLIController, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	uc := usecases.NewCompressDirectoryUseCase(repositories.NewFileSystemRepository(), nil)
	return NewCLIController(uc, strings.NewReader(input), &out, &errOut), &out, &errOut
}

func writeGradientPNG(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: uint8(x + y), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestAskForDirectory(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Empty line uses default", "\n", "./"},
		{"End of input uses default", "", "./"},
		{"Trims spaces", "  /tmp/photos  \n", "/tmp/photos"},
		{"Without newline", "/data", "/data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, out, _ := newController(tt.input)
			assert.Equal(t, tt.expected, c.AskForDirectory("./"))
			assert.Equal(t, DirectoryPrompt, out.String())
		})
	}
}

func TestHandleDirectory_InvalidDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	c, out, errOut := newController("")

	err := c.HandleDirectory(entities.NewDefaultConfig().WithSourceDirectory(missing))
	assert.ErrorIs(t, err, entities.ErrDirectoryNotFound)
	assert.Equal(t, "Неверная директория: "+missing+"\n", errOut.String())
	assert.Empty(t, out.String())
}

func TestHandleDirectory_EmptyDirectoryPrintsNothing(t *testing.T) {
	c, out, errOut := newController("")

	err := c.HandleDirectory(entities.NewDefaultConfig().WithSourceDirectory(t.TempDir()))
	require.NoError(t, err)
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestHandleDirectory_PrintsFileLines(t *testing.T) {
	dir := t.TempDir()
	writeGradientPNG(t, filepath.Join(dir, "a.png"), 64, 48)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.jpg"), []byte("broken"), 0644))

	c, out, errOut := newController("")
	err := c.HandleDirectory(entities.NewDefaultConfig().WithSourceDirectory(dir))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "a.png\t"), lines[0])
	assert.Contains(t, lines[0], " -> ")
	assert.True(t, strings.HasPrefix(lines[1], "Готово: 1/2"), lines[1])

	assert.True(t, strings.HasPrefix(errOut.String(), "b.jpg\tошибка: "), errOut.String())
}

func TestHandleDirectory_QuietMode(t *testing.T) {
	dir := t.TempDir()
	writeGradientPNG(t, filepath.Join(dir, "a.png"), 32, 32)

	config := entities.NewDefaultConfig().WithSourceDirectory(dir)
	config.Output.Verbose = false

	c, out, _ := newController("")
	require.NoError(t, c.HandleDirectory(config))

	assert.NotContains(t, out.String(), "a.png\t")
	assert.Contains(t, out.String(), "Готово: 1/1")
}
