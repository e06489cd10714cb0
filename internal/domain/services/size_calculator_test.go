package services_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagecompressor/internal/domain/entities"
	"imagecompressor/internal/domain/services"
)

var defaultBounds = entities.Dimensions{Width: 400, Height: 300}

func TestCalcSize(t *testing.T) {
	tests := []struct {
		name     string
		original entities.Dimensions
		expected entities.Dimensions
	}{
		{"Already fits", entities.Dimensions{Width: 200, Height: 150}, entities.Dimensions{Width: 200, Height: 150}},
		{"Exactly at bounds", entities.Dimensions{Width: 400, Height: 300}, entities.Dimensions{Width: 400, Height: 300}},
		{"Landscape bound by width", entities.Dimensions{Width: 1200, Height: 800}, entities.Dimensions{Width: 400, Height: 267}},
		{"Portrait bound by height", entities.Dimensions{Width: 600, Height: 1200}, entities.Dimensions{Width: 150, Height: 300}},
		{"Only width exceeds", entities.Dimensions{Width: 800, Height: 200}, entities.Dimensions{Width: 400, Height: 100}},
		{"Only height exceeds", entities.Dimensions{Width: 100, Height: 600}, entities.Dimensions{Width: 50, Height: 300}},
		{"Very thin strip", entities.Dimensions{Width: 10000, Height: 2}, entities.Dimensions{Width: 400, Height: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := services.CalcSize(tt.original, defaultBounds)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCalcSize_InvalidInput(t *testing.T) {
	_, err := services.CalcSize(entities.Dimensions{Width: 0, Height: 10}, defaultBounds)
	assert.ErrorIs(t, err, entities.ErrInvalidDimensions)

	_, err = services.CalcSize(entities.Dimensions{Width: 10, Height: 10}, entities.Dimensions{Width: 10, Height: -1})
	assert.ErrorIs(t, err, entities.ErrInvalidDimensions)
}

func TestCalcSize_Properties(t *testing.T) {
	for w0 := 1; w0 <= 1600; w0 += 23 {
		for h0 := 1; h0 <= 1200; h0 += 17 {
			original := entities.Dimensions{Width: w0, Height: h0}

			got, err := services.CalcSize(original, defaultBounds)
			require.NoError(t, err)

			if original.FitsWithin(defaultBounds) {
				require.Equal(t, original, got, "no upscaling for %v", original)
				continue
			}

			require.True(t, got.FitsWithin(defaultBounds), "%v -> %v exceeds bounds", original, got)
			require.True(t, got.IsValid())
			require.LessOrEqual(t, got.Width, w0)
			require.LessOrEqual(t, got.Height, h0)

			// Допуск на округление каждой стороны до целого пикселя
			if got.Width < 2 || got.Height < 2 {
				continue
			}
			ratio0 := float64(w0) / float64(h0)
			ratio := float64(got.Width) / float64(got.Height)
			tolerance := ratio0 * (1/float64(got.Width) + 1/float64(got.Height))
			require.LessOrEqual(t, math.Abs(ratio-ratio0), tolerance, "%v -> %v", original, got)
		}
	}
}
