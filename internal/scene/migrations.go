package scene

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Scenes table - one row per saved snapshot
		`CREATE TABLE IF NOT EXISTS scenes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			grid_size INTEGER NOT NULL,
			voxel_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Scene voxels table - the cells of each snapshot
		`CREATE TABLE IF NOT EXISTS scene_voxels (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scene_id TEXT NOT NULL REFERENCES scenes(id) ON DELETE CASCADE,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			z INTEGER NOT NULL,
			r INTEGER NOT NULL,
			g INTEGER NOT NULL,
			b INTEGER NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_scene_voxels_scene_id ON scene_voxels(scene_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
