package compressors

import (
	"fmt"

	"imagecompressor/internal/domain/entities"
)

// Ограничения на размеры декодируемых изображений
const (
	MaxImageWidth  = 20000       // 20K пикселей по ширине
	MaxImageHeight = 20000       // 20K пикселей по высоте
	MaxImagePixels = 250_000_000 // 250 мегапикселей всего
)

// ValidateDimensions защищает от декомпрессионных бомб
func ValidateDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", entities.ErrInvalidDimensions, width, height)
	}

	if width > MaxImageWidth || height > MaxImageHeight {
		return fmt.Errorf("%w: %dx%d (максимум %dx%d)", entities.ErrImageTooLarge, width, height, MaxImageWidth, MaxImageHeight)
	}

	if int64(width)*int64(height) > MaxImagePixels {
		return fmt.Errorf("%w: %d пикселей (максимум %d)", entities.ErrImageTooLarge, int64(width)*int64(height), MaxImagePixels)
	}

	return nil
}

// IsHEIFMagic проверяет наличие бокса ftyp контейнера ISOBMFF (HEIF/HEIC)
func IsHEIFMagic(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	return string(data[4:8]) == "ftyp"
}
