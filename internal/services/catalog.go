package services

import (
	"context"
	"fmt"

	"github.com/dimitrije/hackteam-api/internal/database"
	"github.com/dimitrije/hackteam-api/internal/models"
	"github.com/google/uuid"
)

// DefaultCategories are the event tracks seeded by cmd/seed-catalog.
var DefaultCategories = []models.Category{
	{Name: "Smart Solutions, Smarter Society", Description: "This category includes the E-projects"},
	{Name: "AI solutions for automation", Description: "This category includes the AI based projects"},
	{Name: "Automation and Robotics", Description: "This category includes the IOT and embedded system projects"},
	{Name: "From Concept to Reality", Description: "This category includes the Drone, EV, medical devices, Green energy based projects"},
	{Name: "Start Small, Scale Big, Sustain Always", Description: "This category includes Start-up ideas and Business solutions"},
	{Name: "Gen Z to Budding Engineers", Description: "This category includes prototypes and solutions from First year students only"},
	{Name: "Creative Visions for a Sustainable Future", Description: "This category includes Posters and Models"},
}

type CatalogService struct {
	db *database.DB
}

func NewCatalogService(db *database.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListCategories returns every category with its problem statements.
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.Pool.Query(ctx, `SELECT id, name, description FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		c.ProblemStatements = []models.ProblemStatement{}
		index[c.ID] = len(categories)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	statements, err := s.queryStatements(ctx, `SELECT id, category_id, title, description FROM problem_statements ORDER BY title`)
	if err != nil {
		return nil, err
	}
	for _, ps := range statements {
		if i, ok := index[ps.CategoryID]; ok {
			categories[i].ProblemStatements = append(categories[i].ProblemStatements, ps)
		}
	}
	return categories, nil
}

func (s *CatalogService) ListProblemStatements(ctx context.Context, categoryID uuid.UUID) ([]models.ProblemStatement, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, categoryID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return nil, ErrCategoryNotFound
	}

	return s.queryStatements(ctx, `
		SELECT id, category_id, title, description FROM problem_statements
		WHERE category_id = $1
		ORDER BY title
	`, categoryID)
}

// Seed inserts or refreshes categories and their problem statements by name.
func (s *CatalogService) Seed(ctx context.Context, categories []models.Category) (int, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for i := range categories {
		c := &categories[i]
		err := tx.QueryRow(ctx, `
			INSERT INTO categories (name, description)
			VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description
			RETURNING id
		`, c.Name, c.Description).Scan(&c.ID)
		if err != nil {
			return 0, fmt.Errorf("failed to seed category %q: %w", c.Name, err)
		}

		for _, ps := range c.ProblemStatements {
			_, err := tx.Exec(ctx, `
				INSERT INTO problem_statements (category_id, title, description)
				VALUES ($1, $2, $3)
				ON CONFLICT (category_id, title) DO UPDATE SET description = EXCLUDED.description
			`, c.ID, ps.Title, ps.Description)
			if err != nil {
				return 0, fmt.Errorf("failed to seed problem statement %q: %w", ps.Title, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return len(categories), nil
}

func (s *CatalogService) queryStatements(ctx context.Context, query string, args ...any) ([]models.ProblemStatement, error) {
	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list problem statements: %w", err)
	}
	defer rows.Close()

	statements := []models.ProblemStatement{}
	for rows.Next() {
		var ps models.ProblemStatement
		if err := rows.Scan(&ps.ID, &ps.CategoryID, &ps.Title, &ps.Description); err != nil {
			return nil, err
		}
		statements = append(statements, ps)
	}
	return statements, rows.Err()
}
