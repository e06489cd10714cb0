package compressors

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/adrium/goheif"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"imagecompressor/internal/domain/entities"
)

// ImageCompressor интерфейс для декодирования, масштабирования и кодирования изображений
type ImageCompressor interface {
	Decode(path string) (image.Image, error)
	Resize(img image.Image, dims entities.Dimensions) image.Image
	Encode(img image.Image, quality int) ([]byte, error)
}

// DefaultImageCompressor реализация компрессора изображений
type DefaultImageCompressor struct {
	filter resize.InterpolationFunction
}

// NewImageCompressor создает новый компрессор изображений с указанным фильтром ресемплинга
func NewImageCompressor(filterName string) ImageCompressor {
	return &DefaultImageCompressor{
		filter: ResampleFilter(filterName),
	}
}

// Decode читает файл и декодирует его в 3-канальное RGB изображение
func (c *DefaultImageCompressor) Decode(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать файл %s: %w", path, err)
	}

	var img image.Image
	if IsHEIFMagic(data) {
		img, err = goheif.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", entities.ErrUndecodableFile, path, err)
		}
		if err := ValidateDimensions(img.Bounds().Dx(), img.Bounds().Dy()); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	} else {
		// Размеры проверяем до полного декодирования
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", entities.ErrUndecodableFile, path, err)
		}
		if err := ValidateDimensions(cfg.Width, cfg.Height); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", entities.ErrUndecodableFile, path, err)
		}
	}

	return NormalizeRGB(img), nil
}

// Resize масштабирует изображение до точных размеров.
// Входное изображение не изменяется; при совпадении размеров возвращается как есть.
func (c *DefaultImageCompressor) Resize(img image.Image, dims entities.Dimensions) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() == dims.Width && bounds.Dy() == dims.Height {
		return img
	}
	return resize.Resize(uint(dims.Width), uint(dims.Height), img, c.filter)
}

// Encode кодирует изображение в JPEG с заданным качеством
func (c *DefaultImageCompressor) Encode(img image.Image, quality int) ([]byte, error) {
	quality = min(max(quality, 1), 100)

	var buf bytes.Buffer
	buf.Grow(64 * 1024)
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("не удалось закодировать JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// NormalizeRGB приводит изображение к непрозрачному RGB.
//
// Альфа-канал отбрасывается без наложения на фон: прозрачные пиксели
// сохраняют свой цвет. Полутоновые изображения превращаются в RGB с R=G=B.
func NormalizeRGB(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	if opaque, ok := img.(interface{ Opaque() bool }); ok && opaque.Opaque() {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
		return dst
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			i := dst.PixOffset(x-bounds.Min.X, y-bounds.Min.Y)
			dst.Pix[i+0] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B
			dst.Pix[i+3] = 0xff
		}
	}
	return dst
}

// ResampleFilter возвращает функцию интерполяции по имени фильтра
func ResampleFilter(name string) resize.InterpolationFunction {
	switch strings.ToLower(name) {
	case "lanczos2":
		return resize.Lanczos2
	case "bicubic":
		return resize.Bicubic
	case "bilinear":
		return resize.Bilinear
	case "mitchell":
		return resize.MitchellNetravali
	case "nearest":
		return resize.NearestNeighbor
	default:
		return resize.Lanczos3
	}
}
