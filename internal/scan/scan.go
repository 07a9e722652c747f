package scan

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Collect walks dirs recursively and returns the files whose extension is
// in extensions (case-insensitive, with or without a leading dot) and
// whose basename is not in exclude. Directories that do not exist are
// logged and skipped. WalkDir visits entries in lexical order, so the
// result is deterministic for a given tree.
func Collect(dirs []string, extensions []string, exclude map[string]struct{}, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	extSet := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extSet[ext] = struct{}{}
	}

	var files []string
	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			logger.Warn("Source directory does not exist, skipping",
				slog.String("dir", dir))
			continue
		}

		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := extSet[strings.ToLower(filepath.Ext(path))]; !ok {
				return nil
			}
			if exclude != nil {
				if _, ok := exclude[filepath.Base(path)]; ok {
					return nil
				}
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}
