package repositories

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"imagecompressor/internal/domain/entities"
)

// Расширения, которых может не быть в системной таблице MIME
var extraImageTypes = map[string]string{
	".heic": "image/heic",
	".heif": "image/heif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

func init() {
	for ext, typ := range extraImageTypes {
		if mime.TypeByExtension(ext) == "" {
			_ = mime.AddExtensionType(ext, typ)
		}
	}
}

// FileSystemRepository реализация репозитория для работы с файловой системой
type FileSystemRepository struct{}

// NewFileSystemRepository создает новый репозиторий файловой системы
func NewFileSystemRepository() *FileSystemRepository {
	return &FileSystemRepository{}
}

// GetFileInfo получает информацию о файле изображения
func (r *FileSystemRepository) GetFileInfo(path string) (*entities.ImageFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	return &entities.ImageFile{
		Path:         path,
		Name:         info.Name(),
		Size:         info.Size(),
		ModifiedTime: info.ModTime(),
	}, nil
}

// DirectoryExists проверяет, что путь существует и является директорией
func (r *FileSystemRepository) DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// CreateDirectory создает директорию
func (r *FileSystemRepository) CreateDirectory(path string) error {
	return os.MkdirAll(path, 0755)
}

// ListImageFiles возвращает изображения в директории (без подпапок),
// определяя тип по расширению имени файла
func (r *FileSystemRepository) ListImageFiles(directory string) ([]string, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, err
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsImageFile(entry.Name()) {
			images = append(images, filepath.Join(directory, entry.Name()))
		}
	}

	sort.Strings(images)
	return images, nil
}

// WriteFile атомарно записывает данные: сначала во временный файл, затем переименование
func (r *FileSystemRepository) WriteFile(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("не удалось записать временный файл: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("не удалось переименовать временный файл: %w", err)
	}

	return nil
}

// IsImageFile проверяет, что MIME тип по расширению относится к изображениям
func IsImageFile(filename string) bool {
	typ := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	return strings.HasPrefix(typ, "image/")
}
