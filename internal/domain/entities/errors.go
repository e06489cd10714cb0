package entities

import "errors"

// Доменные ошибки
var (
	ErrDirectoryNotFound      = errors.New("директория не найдена")
	ErrUndecodableFile        = errors.New("не удалось декодировать изображение")
	ErrBudgetUnsatisfiable    = errors.New("размер файла превышает бюджет даже при минимальном качестве")
	ErrWriteFailure           = errors.New("не удалось записать сжатый файл")
	ErrImageTooLarge          = errors.New("размеры изображения превышают допустимые")
	ErrInvalidDimensions      = errors.New("размеры должны быть положительными")
	ErrInvalidBudget          = errors.New("бюджет размера файла должен быть положительным")
	ErrInvalidResampleFilter  = errors.New("неизвестный фильтр ресемплинга")
	ErrInvalidOutputDirectory = errors.New("имя выходной поддиректории должно быть простым именем")
)
