package entities

import "errors"

// Доменные ошибки
var (
	ErrInvalidConfig         = errors.New("некорректная конфигурация сжатия")
	ErrDecode                = errors.New("не удалось декодировать изображение")
	ErrEncode                = errors.New("не удалось закодировать изображение")
	ErrUnsupportedFormat     = errors.New("неподдерживаемый формат изображения")
	ErrInvalidDestination    = errors.New("неизвестная политика назначения")
	ErrFileNotFound          = errors.New("файл не найден")
	ErrDirectoryNotFound     = errors.New("директория не найдена")
	ErrNoImagesFound         = errors.New("изображения не найдены")
	ErrOutputInsideSource    = errors.New("выходная директория не может находиться внутри исходной")
	ErrBackupInsideSource    = errors.New("директория резервной копии не может находиться внутри исходной")
	ErrBackupContainsSource  = errors.New("директория резервной копии не может содержать исходную")
	ErrOutputContainsSource  = errors.New("выходная директория не может содержать исходную")
	ErrBackupNotEmpty        = errors.New("директория резервной копии не пуста и не содержит незавершенной копии")
	ErrBackupDirectoryNeeded = errors.New("для режима перезаписи требуется директория резервной копии")
	ErrOutputCollision       = errors.New("выходной файл уже записан из другого исходника")
)
