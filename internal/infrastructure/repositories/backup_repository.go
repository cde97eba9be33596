package repositories

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"imgshrink/internal/domain/entities"
)

const (
	// BackupMarkerFile имя файла-маркера завершенного резервного копирования
	BackupMarkerFile = "backup_complete.flag"
	// BackupProgressFile отмечает директорию, в которую идет копирование.
	// Только такую директорию разрешено очищать перед повтором.
	BackupProgressFile = "backup_in_progress.flag"
)

// BackupRepository выполняет однократное резервное копирование исходного дерева
type BackupRepository struct{}

// NewBackupRepository создает новый репозиторий резервных копий
func NewBackupRepository() *BackupRepository {
	return &BackupRepository{}
}

// IsBackedUp проверяет наличие маркера в директории резервной копии
func (r *BackupRepository) IsBackedUp(backupDir string) bool {
	_, err := os.Stat(filepath.Join(backupDir, BackupMarkerFile))
	return err == nil
}

// EnsureBackedUp копирует sourceDir в backupDir, если маркер еще не записан.
// Возвращает true, если копия была создана при этом вызове.
// Маркер пишется последним, поэтому прерванное копирование повторится
// при следующем запуске. Пересекающиеся директории и чужая непустая
// директория без маркера незавершенной копии не трогаются.
func (r *BackupRepository) EnsureBackedUp(sourceDir, backupDir string) (bool, error) {
	if entities.PathWithin(sourceDir, backupDir) {
		return false, fmt.Errorf("%w: %s", entities.ErrBackupInsideSource, backupDir)
	}
	if entities.PathWithin(backupDir, sourceDir) {
		return false, fmt.Errorf("%w: %s", entities.ErrBackupContainsSource, backupDir)
	}

	if r.IsBackedUp(backupDir) {
		return false, nil
	}

	info, err := os.Stat(sourceDir)
	if err != nil {
		return false, fmt.Errorf("не удалось получить информацию об исходной директории %s: %w", sourceDir, err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("%s не является директорией", sourceDir)
	}

	if err := prepareBackupDir(backupDir); err != nil {
		return false, err
	}

	if err := copyTree(sourceDir, backupDir); err != nil {
		return false, fmt.Errorf("ошибка копирования %s в %s: %w", sourceDir, backupDir, err)
	}

	if err := os.WriteFile(filepath.Join(backupDir, BackupMarkerFile), nil, 0644); err != nil {
		return false, fmt.Errorf("не удалось записать маркер резервной копии: %w", err)
	}
	if err := os.Remove(filepath.Join(backupDir, BackupProgressFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("не удалось удалить маркер незавершенной копии: %w", err)
	}

	return true, nil
}

// prepareBackupDir создает пустую директорию копии с маркером незавершенного
// копирования. Остатки удаляются только после прерванного запуска.
func prepareBackupDir(backupDir string) error {
	entries, err := os.ReadDir(backupDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("не удалось прочитать директорию резервной копии %s: %w", backupDir, err)
	case len(entries) == 0:
	default:
		if _, err := os.Stat(filepath.Join(backupDir, BackupProgressFile)); err != nil {
			return fmt.Errorf("%w: %s", entities.ErrBackupNotEmpty, backupDir)
		}
		// Очищаем остатки прерванного копирования
		if err := os.RemoveAll(backupDir); err != nil {
			return fmt.Errorf("не удалось очистить директорию резервной копии %s: %w", backupDir, err)
		}
	}

	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return fmt.Errorf("не удалось создать директорию резервной копии %s: %w", backupDir, err)
	}
	if err := os.WriteFile(filepath.Join(backupDir, BackupProgressFile), nil, 0644); err != nil {
		return fmt.Errorf("не удалось записать маркер незавершенной копии: %w", err)
	}
	return nil
}

// copyTree рекурсивно копирует содержимое директории
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0755)
		case d.Type().IsRegular():
			return copyFile(path, target)
		default:
			// Символические ссылки и специальные файлы не копируются
			return nil
		}
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
