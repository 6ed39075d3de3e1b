package store

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sadopc/tempo/internal/storage"
)

const categoriesFile = "categories.json"

// categoryStore loads and saves categories.json. Failures degrade to the
// seed configuration rather than surfacing errors: category management is
// never allowed to take the application down.
type categoryStore struct {
	files storage.Adapter
	log   *slog.Logger
	seed  CategoryConfig
}

// Load returns the category configuration. When the file is absent it is
// synthesized from the seed and written back; when it is unreadable the
// seed is returned as-is. Either way every listed category ends up with a
// color and the default category is a member of the list.
func (c *categoryStore) Load() CategoryConfig {
	exists, err := c.files.Exists(categoriesFile)
	if err != nil {
		c.log.Error("checking categories file", "err", err)
		return normalize(c.seed)
	}
	if !exists {
		cfg := normalize(c.seed)
		if err := c.Save(cfg); err != nil {
			c.log.Error("initializing categories file", "err", err)
		}
		return cfg
	}

	content, err := c.files.Read(categoriesFile)
	if err != nil {
		c.log.Error("reading categories file", "err", err)
		return normalize(c.seed)
	}
	var cfg CategoryConfig
	if err := json.Unmarshal([]byte(content), &cfg); err != nil {
		c.log.Error("parsing categories file", "err", err)
		return normalize(c.seed)
	}
	return normalize(cfg)
}

// Save rewrites the whole file; there are no partial updates.
func (c *categoryStore) Save(cfg CategoryConfig) error {
	data, err := json.MarshalIndent(normalize(cfg), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal categories: %w", err)
	}
	if err := c.files.Write(categoriesFile, string(data)); err != nil {
		return fmt.Errorf("write categories: %w", err)
	}
	return nil
}

// normalize enforces the config invariants: every category has a color,
// assigned from the fixed palette by list index when missing, and the
// default category self-heals to the first list member when it is not a
// member itself.
func normalize(cfg CategoryConfig) CategoryConfig {
	if cfg.CategoryColors == nil {
		cfg.CategoryColors = make(map[string]string, len(cfg.Categories))
	}
	for i, name := range cfg.Categories {
		if _, ok := cfg.CategoryColors[name]; !ok {
			cfg.CategoryColors[name] = defaultPalette[i%len(defaultPalette)]
		}
	}

	member := false
	for _, name := range cfg.Categories {
		if name == cfg.DefaultCategory {
			member = true
			break
		}
	}
	if !member && len(cfg.Categories) > 0 {
		cfg.DefaultCategory = cfg.Categories[0]
	}
	return cfg
}
