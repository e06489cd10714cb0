package services

import (
	"fmt"
	"image"

	"imagecompressor/internal/domain/entities"
)

const (
	MinQuality = 1
	MaxQuality = 100

	coarseStep = 10
	fineStep   = 1
)

// Encoder кодирует изображение с заданным качеством
type Encoder interface {
	Encode(img image.Image, quality int) ([]byte, error)
}

// EncoderFunc позволяет использовать функцию как Encoder
type EncoderFunc func(img image.Image, quality int) ([]byte, error)

// Encode вызывает f(img, quality)
func (f EncoderFunc) Encode(img image.Image, quality int) ([]byte, error) {
	return f(img, quality)
}

// QualityResult результат подбора качества
type QualityResult struct {
	Quality   int
	Size      int64
	Attempts  int // Количество реальных вызовов кодировщика
	BudgetMet bool
	Data      []byte // Закодированные данные при выбранном качестве
}

// FindQuality подбирает максимальное качество, при котором размер
// закодированного изображения не превышает budget байт.
//
// Поиск двухфазный: грубый спуск от 100 с шагом 10, затем откат на один шаг
// вверх и точный спуск с шагом 1. Если даже минимальное качество не
// укладывается в бюджет, возвращается MinQuality с BudgetMet == false.
func FindQuality(img image.Image, budget int64, encoder Encoder) (*QualityResult, error) {
	if budget <= 0 {
		return nil, entities.ErrInvalidBudget
	}

	s := &qualitySearch{
		img:     img,
		budget:  budget,
		encoder: encoder,
		cache:   make(map[int][]byte),
	}

	// Грубый спуск
	quality := MaxQuality
	data, err := s.encode(quality)
	if err != nil {
		return nil, err
	}
	for !s.fits(data) && quality > MinQuality {
		quality = max(quality-coarseStep, MinQuality)
		if data, err = s.encode(quality); err != nil {
			return nil, err
		}
	}

	if !s.fits(data) {
		return s.result(quality, data, false), nil
	}

	// Откат на шаг вверх и точный спуск до последнего прошедшего уровня
	passed := quality
	for q := min(passed+coarseStep, MaxQuality); q > passed; q -= fineStep {
		candidate, err := s.encode(q)
		if err != nil {
			return nil, err
		}
		if s.fits(candidate) {
			return s.result(q, candidate, true), nil
		}
	}

	return s.result(passed, data, true), nil
}

type qualitySearch struct {
	img      image.Image
	budget   int64
	encoder  Encoder
	cache    map[int][]byte
	attempts int
}

// encode кодирует изображение, не повторяя уже проверенные уровни
func (s *qualitySearch) encode(quality int) ([]byte, error) {
	if data, ok := s.cache[quality]; ok {
		return data, nil
	}

	data, err := s.encoder.Encode(s.img, quality)
	if err != nil {
		return nil, fmt.Errorf("кодирование с качеством %d: %w", quality, err)
	}

	s.attempts++
	s.cache[quality] = data
	return data, nil
}

func (s *qualitySearch) fits(data []byte) bool {
	return int64(len(data)) <= s.budget
}

func (s *qualitySearch) result(quality int, data []byte, met bool) *QualityResult {
	return &QualityResult{
		Quality:   quality,
		Size:      int64(len(data)),
		Attempts:  s.attempts,
		BudgetMet: met,
		Data:      data,
	}
}
