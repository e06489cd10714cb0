package compressors_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"imagecompressor/internal/domain/entities"
	"imagecompressor/internal/domain/services"
	"imagecompressor/internal/infrastructure/compressors"
)

// createTestImage создает градиент с шумом, чтобы JPEG не сжимался до нуля
func createTestImage(width, height int) *image.RGBA {
	rnd := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x*255)/width) ^ uint8(rnd.Intn(64)),
				G: uint8((y*255)/height) ^ uint8(rnd.Intn(64)),
				B: uint8(rnd.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestNormalizeRGB_DropsAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 0})
	src.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})

	dst := compressors.NormalizeRGB(src)

	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, dst.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 200, G: 100, B: 50, A: 255}, dst.RGBAAt(1, 0))
	assert.True(t, dst.Opaque())
}

func TestNormalizeRGB_Gray(t *testing.T) {
	src := image.NewGray(image.Rect(5, 5, 7, 6))
	src.SetGray(5, 5, color.Gray{Y: 77})
	src.SetGray(6, 5, color.Gray{Y: 200})

	dst := compressors.NormalizeRGB(src)

	assert.Equal(t, image.Rect(0, 0, 2, 1), dst.Bounds())
	assert.Equal(t, color.RGBA{R: 77, G: 77, B: 77, A: 255}, dst.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 200, G: 200, B: 200, A: 255}, dst.RGBAAt(1, 0))
}

func TestResize(t *testing.T) {
	c := compressors.NewImageCompressor("lanczos3")
	src := createTestImage(120, 80)
	before := append([]byte(nil), src.Pix...)

	out := c.Resize(src, entities.Dimensions{Width: 40, Height: 27})

	assert.Equal(t, 40, out.Bounds().Dx())
	assert.Equal(t, 27, out.Bounds().Dy())
	assert.Equal(t, before, src.Pix, "input must not be mutated")

	same := c.Resize(src, entities.Dimensions{Width: 120, Height: 80})
	assert.Same(t, src, same)
}

func TestResampleFilters(t *testing.T) {
	src := createTestImage(64, 64)
	for _, name := range entities.SupportedResampleFilters {
		t.Run(name, func(t *testing.T) {
			out := compressors.NewImageCompressor(name).Resize(src, entities.Dimensions{Width: 16, Height: 8})
			assert.Equal(t, image.Rect(0, 0, 16, 8), out.Bounds())
		})
	}
}

func TestEncode_QualityMonotonic(t *testing.T) {
	c := compressors.NewImageCompressor("")
	img := createTestImage(200, 150)

	var prev int
	for q := 100; q >= 10; q -= 10 {
		data, err := c.Encode(img, q)
		require.NoError(t, err)
		if prev > 0 {
			// Допуск на шум кодировщика
			assert.LessOrEqual(t, len(data), prev+prev/50, "quality %d", q)
		}
		prev = len(data)
	}
}

func TestEncode_Deterministic(t *testing.T) {
	c := compressors.NewImageCompressor("")
	img := createTestImage(100, 100)

	a, err := c.Encode(img, 75)
	require.NoError(t, err)
	b, err := c.Encode(img, 75)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestDecode(t *testing.T) {
	dir := t.TempDir()
	c := compressors.NewImageCompressor("")

	t.Run("PNG with alpha", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 30, 20))
		src.SetNRGBA(3, 4, color.NRGBA{R: 1, G: 2, B: 3, A: 10})
		path := filepath.Join(dir, "alpha.png")
		writePNG(t, path, src)

		img, err := c.Decode(path)
		require.NoError(t, err)

		rgba, ok := img.(*image.RGBA)
		require.True(t, ok)
		assert.Equal(t, image.Rect(0, 0, 30, 20), rgba.Bounds())
		assert.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 255}, rgba.RGBAAt(3, 4))
	})

	t.Run("BMP", func(t *testing.T) {
		path := filepath.Join(dir, "image.bmp")
		var buf bytes.Buffer
		require.NoError(t, bmp.Encode(&buf, createTestImage(16, 8)))
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

		img, err := c.Decode(path)
		require.NoError(t, err)
		assert.Equal(t, 16, img.Bounds().Dx())
	})

	t.Run("Garbage", func(t *testing.T) {
		path := filepath.Join(dir, "broken.jpg")
		require.NoError(t, os.WriteFile(path, []byte("definitely not an image"), 0644))

		_, err := c.Decode(path)
		assert.ErrorIs(t, err, entities.ErrUndecodableFile)
	})

	t.Run("Too wide", func(t *testing.T) {
		path := filepath.Join(dir, "wide.png")
		writePNG(t, path, image.NewGray(image.Rect(0, 0, compressors.MaxImageWidth+1, 1)))

		_, err := c.Decode(path)
		assert.ErrorIs(t, err, entities.ErrImageTooLarge)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := c.Decode(filepath.Join(dir, "missing.png"))
		assert.Error(t, err)
	})
}

func TestPipeline_LargeImageFitsBudget(t *testing.T) {
	c := compressors.NewImageCompressor("lanczos3")
	src := createTestImage(1200, 800)
	bounds := entities.Dimensions{Width: 400, Height: 300}

	dims, err := services.CalcSize(entities.Dimensions{Width: 1200, Height: 800}, bounds)
	require.NoError(t, err)
	assert.Equal(t, entities.Dimensions{Width: 400, Height: 267}, dims)

	resized := c.Resize(src, dims)
	res, err := services.FindQuality(resized, 64000, c)
	require.NoError(t, err)

	assert.True(t, res.BudgetMet)
	assert.LessOrEqual(t, res.Size, int64(64000))
	assert.GreaterOrEqual(t, res.Quality, services.MinQuality)
	assert.LessOrEqual(t, res.Quality, services.MaxQuality)

	// Повторное кодирование с найденным качеством дает те же байты
	again, err := c.Encode(resized, res.Quality)
	require.NoError(t, err)
	assert.Equal(t, res.Data, again)
}

func TestIsHEIFMagic(t *testing.T) {
	assert.True(t, compressors.IsHEIFMagic([]byte("\x00\x00\x00\x18ftypheic\x00\x00")))
	assert.False(t, compressors.IsHEIFMagic([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x00")))
	assert.False(t, compressors.IsHEIFMagic([]byte("short")))
}

func TestValidateDimensions(t *testing.T) {
	assert.NoError(t, compressors.ValidateDimensions(1, 1))
	assert.ErrorIs(t, compressors.ValidateDimensions(0, 10), entities.ErrInvalidDimensions)
	assert.ErrorIs(t, compressors.ValidateDimensions(20001, 10), entities.ErrImageTooLarge)
	assert.ErrorIs(t, compressors.ValidateDimensions(20000, 20000), entities.ErrImageTooLarge)
}
