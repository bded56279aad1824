package seed

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/loykin/sqlrun/internal/common"
	"github.com/loykin/sqlrun/internal/store"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// User is the baseline account created on an empty store.
type User struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// PromptTemplate is a shipped template keyed by a stable identifier;
// upgrades overwrite name and template content in place.
type PromptTemplate struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Template string `yaml:"template"`
}

// Style is a shipped style preset keyed by its natural key
// (name, source image, owner). Only the prompt text is mutable.
type Style struct {
	Name        string `yaml:"name"`
	SourceImage string `yaml:"source_image"`
	Owner       string `yaml:"owner"`
	Prompt      string `yaml:"prompt"`
}

// Catalog is the full set of baseline rows shipped with the binary.
type Catalog struct {
	User            User             `yaml:"user"`
	PromptTemplates []PromptTemplate `yaml:"prompt_templates"`
	Styles          []Style          `yaml:"styles"`
}

// DefaultCatalog parses the embedded catalog.
func DefaultCatalog() (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse embedded seed catalog: %w", err)
	}
	return c, nil
}

// Seeder idempotently converges baseline rows to the catalog after schema
// convergence. Re-running it produces no duplicates and updates shipped
// content in place.
type Seeder struct {
	Store   *store.Store
	Catalog Catalog
}

// Run seeds the default user, prompt templates and style presets.
func (s *Seeder) Run() error {
	logger := common.GetLogger().WithComponent("seed")

	if err := s.seedDefaultUser(); err != nil {
		return err
	}
	if err := s.seedPromptTemplates(); err != nil {
		return err
	}
	if err := s.seedStyles(); err != nil {
		return err
	}
	logger.Info("default data seeding complete",
		"templates", len(s.Catalog.PromptTemplates), "styles", len(s.Catalog.Styles))
	return nil
}

// seedDefaultUser inserts the default user only when the user table is
// empty; existing accounts are never touched.
func (s *Seeder) seedDefaultUser() error {
	var n int
	if err := s.Store.QueryRow(`SELECT COUNT(*) FROM "user"`).Scan(&n); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if n > 0 {
		return nil
	}
	u := s.Catalog.User
	if err := s.Store.Exec(`INSERT INTO "user" (id, name) VALUES (?, ?)`, u.ID, u.Name); err != nil {
		return fmt.Errorf("failed to insert default user: %w", err)
	}
	common.GetLogger().WithComponent("seed").Info("default user created", "id", u.ID)
	return nil
}

// seedPromptTemplates upserts every shipped template by id so content
// updates ship transparently on upgrade.
func (s *Seeder) seedPromptTemplates() error {
	for _, t := range s.Catalog.PromptTemplates {
		err := s.Store.Exec(
			`INSERT INTO prompt_template (id, name, template) VALUES (?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name, template = excluded.template`,
			t.ID, t.Name, t.Template,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert prompt template %s: %w", t.ID, err)
		}
	}
	return nil
}

// seedStyles looks each preset up by its natural key and updates only the
// prompt text when found; otherwise it inserts a new row.
func (s *Seeder) seedStyles() error {
	for _, st := range s.Catalog.Styles {
		var id string
		err := s.Store.QueryRow(
			`SELECT id FROM style WHERE name = ? AND source_image = ? AND owner = ?`,
			st.Name, st.SourceImage, st.Owner,
		).Scan(&id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			err = s.Store.Exec(
				`INSERT INTO style (id, name, source_image, owner, prompt) VALUES (?, ?, ?, ?, ?)`,
				uuid.NewString(), st.Name, st.SourceImage, st.Owner, st.Prompt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert style %s: %w", st.Name, err)
			}
		case err != nil:
			return fmt.Errorf("failed to look up style %s: %w", st.Name, err)
		default:
			err = s.Store.Exec(`UPDATE style SET prompt = ? WHERE id = ?`, st.Prompt, id)
			if err != nil {
				return fmt.Errorf("failed to update style %s: %w", st.Name, err)
			}
		}
	}
	return nil
}
