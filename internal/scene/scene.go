package scene

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/airforge/internal/voxel"
)

// Scene describes a saved snapshot without its voxel rows.
type Scene struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	GridSize   int       `json:"gridSize"`
	VoxelCount int       `json:"voxelCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Save writes a new snapshot and returns its metadata. The voxel rows
// and the scene row commit in one transaction.
func (s *Store) Save(name string, gridSize int, voxels []voxel.Placed) (*Scene, error) {
	sc := &Scene{
		ID:         uuid.New().String(),
		Name:       name,
		GridSize:   gridSize,
		VoxelCount: len(voxels),
		CreatedAt:  time.Now(),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO scenes (id, name, grid_size, voxel_count, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sc.ID, sc.Name, sc.GridSize, sc.VoxelCount, sc.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert scene: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO scene_voxels (scene_id, x, y, z, r, g, b)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare voxel insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range voxels {
		if _, err := stmt.Exec(sc.ID, v.Pos.X, v.Pos.Y, v.Pos.Z, v.Color.R, v.Color.G, v.Color.B); err != nil {
			return nil, fmt.Errorf("failed to insert voxel: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit scene: %w", err)
	}

	return sc, nil
}

// Load retrieves a snapshot and its voxels by scene ID.
func (s *Store) Load(id string) (*Scene, []voxel.Placed, error) {
	sc := &Scene{}

	err := s.db.QueryRow(
		`SELECT id, name, grid_size, voxel_count, created_at
		 FROM scenes WHERE id = ?`,
		id,
	).Scan(&sc.ID, &sc.Name, &sc.GridSize, &sc.VoxelCount, &sc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	rows, err := s.db.Query(
		`SELECT x, y, z, r, g, b FROM scene_voxels WHERE scene_id = ? ORDER BY id`,
		id,
	)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var voxels []voxel.Placed
	for rows.Next() {
		var p voxel.Placed
		if err := rows.Scan(&p.Pos.X, &p.Pos.Y, &p.Pos.Z, &p.Color.R, &p.Color.G, &p.Color.B); err != nil {
			return nil, nil, err
		}
		voxels = append(voxels, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return sc, voxels, nil
}

// List retrieves all saved scenes, newest first.
func (s *Store) List() ([]*Scene, error) {
	rows, err := s.db.Query(
		`SELECT id, name, grid_size, voxel_count, created_at
		 FROM scenes ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scenes []*Scene
	for rows.Next() {
		sc := &Scene{}
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.GridSize, &sc.VoxelCount, &sc.CreatedAt); err != nil {
			return nil, err
		}
		scenes = append(scenes, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return scenes, nil
}

// Delete removes a snapshot and its voxels.
func (s *Store) Delete(id string) error {
	result, err := s.db.Exec(`DELETE FROM scenes WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
