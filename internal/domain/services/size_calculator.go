package services

import (
	"math"

	"imagecompressor/internal/domain/entities"
)

// CalcSize вычисляет целевые размеры изображения с сохранением пропорций.
//
// Изображение, которое уже помещается в границы, возвращается без изменений
// (увеличение не выполняется). Иначе обе стороны умножаются на один и тот же
// коэффициент min(maxW/w0, maxH/h0), поэтому обе границы соблюдаются
// одновременно, даже если изображение выходит только за ширину.
func CalcSize(original, bounds entities.Dimensions) (entities.Dimensions, error) {
	if !original.IsValid() || !bounds.IsValid() {
		return entities.Dimensions{}, entities.ErrInvalidDimensions
	}

	if original.FitsWithin(bounds) {
		return original, nil
	}

	scale := math.Min(
		float64(bounds.Width)/float64(original.Width),
		float64(bounds.Height)/float64(original.Height),
	)

	return entities.Dimensions{
		Width:  scaleSide(original.Width, scale, bounds.Width),
		Height: scaleSide(original.Height, scale, bounds.Height),
	}, nil
}

// scaleSide масштабирует сторону с округлением до ближайшего целого
func scaleSide(side int, scale float64, limit int) int {
	scaled := int(math.Round(float64(side) * scale))
	if scaled < 1 {
		return 1
	}
	if scaled > limit {
		return limit
	}
	return scaled
}
