package projects

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	recentFileName    = "recent.txt"
	maxRecentProjects = 10
)

// LoadRecentProjects reads the most-recently-used project list stored
// under baseDir. A missing file yields an empty list.
func LoadRecentProjects(baseDir string) ([]string, error) {
	file, err := os.Open(filepath.Join(baseDir, recentFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open recent projects list: %w", err)
	}
	defer file.Close()

	var paths []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			paths = append(paths, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recent projects list: %w", err)
	}
	return paths, nil
}

// PushRecentProject moves projectRoot to the front of the MRU list,
// deduplicating and capping the list, then rewrites the file.
func PushRecentProject(baseDir, projectRoot string) error {
	existing, err := LoadRecentProjects(baseDir)
	if err != nil {
		return err
	}

	paths := []string{projectRoot}
	for _, p := range existing {
		if p == projectRoot {
			continue
		}
		paths = append(paths, p)
		if len(paths) == maxRecentProjects {
			break
		}
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return fmt.Errorf("failed to create projects directory %s: %w", baseDir, err)
	}
	content := strings.Join(paths, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(baseDir, recentFileName), []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write recent projects list: %w", err)
	}
	return nil
}

// ListProjectFolders scans baseDir for directories containing a
// project database.
func ListProjectFolders(baseDir string) ([]string, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read projects directory %s: %w", baseDir, err)
	}

	var roots []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		root := filepath.Join(baseDir, entry.Name())
		if _, err := os.Stat(filepath.Join(root, DatabaseFileName)); err == nil {
			roots = append(roots, root)
		}
	}
	return roots, nil
}
