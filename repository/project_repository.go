package repository

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/camden-git/storyboardbackend/models"
	"gorm.io/gorm"
)

// ProjectRepository handles registry database operations for Project entities
type ProjectRepository struct {
	DB *gorm.DB
}

// NewProjectRepository creates a new instance of ProjectRepository
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

// Create records a new project in the registry
func (r *ProjectRepository) Create(project *models.Project) error {
	now := time.Now().Unix()
	if project.CreatedAt == 0 {
		project.CreatedAt = now
	}
	if project.LastOpened == 0 {
		project.LastOpened = now
	}
	project.Path = filepath.ToSlash(project.Path)

	err := r.DB.Create(project).Error
	if err != nil {
		return fmt.Errorf("failed to register project %s: %w", project.Name, err)
	}
	return nil
}

// ListAll retrieves all registered projects, most recently opened first
func (r *ProjectRepository) ListAll() ([]models.Project, error) {
	var projects []models.Project
	err := r.DB.Order("last_opened DESC").Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetByPath retrieves a project by its root path
func (r *ProjectRepository) GetByPath(path string) (*models.Project, error) {
	var project models.Project
	err := r.DB.Where("path = ?", filepath.ToSlash(path)).First(&project).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get project by path %s: %w", path, err)
	}
	return &project, nil
}

// TouchLastOpened updates a project's last_opened timestamp, creating
// the registry row if the project was opened from outside the registry
func (r *ProjectRepository) TouchLastOpened(name, path string) error {
	now := time.Now().Unix()
	path = filepath.ToSlash(path)

	result := r.DB.Model(&models.Project{}).Where("path = ?", path).Update("last_opened", now)
	if result.Error != nil {
		return fmt.Errorf("failed to touch project %s: %w", path, result.Error)
	}
	if result.RowsAffected == 0 {
		return r.Create(&models.Project{Name: name, Path: path, LastOpened: now})
	}
	return nil
}

// Delete removes a project from the registry by its root path. The
// project's files on disk are not touched.
func (r *ProjectRepository) Delete(path string) error {
	result := r.DB.Where("path = ?", filepath.ToSlash(path)).Delete(&models.Project{})
	if result.Error != nil {
		return fmt.Errorf("failed to deregister project %s: %w", path, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
