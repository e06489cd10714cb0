package entities

import (
	"fmt"
	"time"
)

// ImageFile представляет файл изображения во входной директории
type ImageFile struct {
	Path         string
	Name         string
	Size         int64
	ModifiedTime time.Time
}

// Dimensions ширина и высота изображения в пикселях
type Dimensions struct {
	Width  int
	Height int
}

// String возвращает размеры в виде "WxH"
func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// IsValid проверяет, что обе стороны положительны
func (d Dimensions) IsValid() bool {
	return d.Width > 0 && d.Height > 0
}

// FitsWithin проверяет, что размеры не превышают границы
func (d Dimensions) FitsWithin(bounds Dimensions) bool {
	return d.Width <= bounds.Width && d.Height <= bounds.Height
}

// CompressionResult представляет результат сжатия одного изображения
type CompressionResult struct {
	CurrentFile      string
	OutputFile       string
	OriginalSize     int64
	CompressedSize   int64
	CompressionRatio float64
	SavedSpace       int64

	OriginalDimensions Dimensions
	OutputDimensions   Dimensions
	Quality            int
	EncodeAttempts     int

	// Warning заполняется, если бюджет не удалось выдержать (файл все равно записан)
	Warning error

	Success bool
	Error   error
}

// CalculateCompressionRatio вычисляет коэффициент сжатия
func (cr *CompressionResult) CalculateCompressionRatio() {
	if cr.OriginalSize > 0 {
		cr.CompressionRatio = ((float64(cr.OriginalSize) - float64(cr.CompressedSize)) / float64(cr.OriginalSize)) * 100
		cr.SavedSpace = cr.OriginalSize - cr.CompressedSize
	}
}

// IsEffective проверяет, было ли сжатие эффективным
func (cr *CompressionResult) IsEffective() bool {
	return cr.Success && cr.CompressionRatio > 0
}

// BudgetMet проверяет, уложился ли файл в бюджет
func (cr *CompressionResult) BudgetMet() bool {
	return cr.Success && cr.Warning == nil
}

var byteUnits = []string{"bytes", "KB", "MB", "GB", "TB"}

// FormatBytes форматирует размер в двоичных единицах (шаг 1024)
func FormatBytes(size int64) string {
	num := float64(size)
	for i, unit := range byteUnits {
		if num < 1024.0 || i == len(byteUnits)-1 {
			return fmt.Sprintf("%3.1f %s", num, unit)
		}
		num /= 1024.0
	}
	return ""
}
