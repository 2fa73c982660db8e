package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// SavedItem is one persisted inventory row.
type SavedItem struct {
	ItemID int
	Count  int
}

// SavedQuest is one persisted quest-log row.
type SavedQuest struct {
	QuestID int
	Kills   int
}

// SavedDoT is one persisted damage-over-time row. The caster level is
// stored so the effect can be re-associated on load.
type SavedDoT struct {
	Name          string
	DamagePerTick float64
	Duration      int
	CasterLevel   int
}

// SavedCharacter is the flat persisted form of a character. Item and quest
// references are stored by content ID and resolved against the loaded
// content pack on restore.
type SavedCharacter struct {
	Name       string
	Class      string
	Level      int
	Experience int
	Health     int
	MaxHealth  int
	Mana       int
	MaxMana    int
	Strength   int
	Armor      int
	Gold       int
	// EquippedItemID is 0 for the starter weapon.
	EquippedItemID int

	Items  []SavedItem
	Quests []SavedQuest
	DoTs   []SavedDoT
}

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Save upserts the character row (keyed by name) and replaces its child
// rows in a single transaction.
//
// Postcondition: The stored state equals sc exactly; a failure leaves the
// previous state untouched.
func (r *CharacterRepository) Save(ctx context.Context, sc SavedCharacter) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO characters
			(name, class, level, experience, health, max_health, mana, max_mana,
			 strength, armor, gold, equipped_item_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (name) DO UPDATE SET
			class = EXCLUDED.class,
			level = EXCLUDED.level,
			experience = EXCLUDED.experience,
			health = EXCLUDED.health,
			max_health = EXCLUDED.max_health,
			mana = EXCLUDED.mana,
			max_mana = EXCLUDED.max_mana,
			strength = EXCLUDED.strength,
			armor = EXCLUDED.armor,
			gold = EXCLUDED.gold,
			equipped_item_id = EXCLUDED.equipped_item_id,
			updated_at = NOW()
		RETURNING id`,
		sc.Name, sc.Class, sc.Level, sc.Experience, sc.Health, sc.MaxHealth,
		sc.Mana, sc.MaxMana, sc.Strength, sc.Armor, sc.Gold, sc.EquippedItemID,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("upserting character %q: %w", sc.Name, err)
	}

	for _, table := range []string{"character_items", "character_quests", "character_dots"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf(
			`DELETE FROM %s WHERE character_id = $1`, table), id); err != nil {
			return fmt.Errorf("clearing %s for %q: %w", table, sc.Name, err)
		}
	}

	for _, it := range sc.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO character_items (character_id, item_id, count)
			VALUES ($1,$2,$3)`,
			id, it.ItemID, it.Count,
		); err != nil {
			return fmt.Errorf("inserting inventory row for %q: %w", sc.Name, err)
		}
	}
	for _, q := range sc.Quests {
		if _, err := tx.Exec(ctx, `
			INSERT INTO character_quests (character_id, quest_id, kills)
			VALUES ($1,$2,$3)`,
			id, q.QuestID, q.Kills,
		); err != nil {
			return fmt.Errorf("inserting quest row for %q: %w", sc.Name, err)
		}
	}
	for _, d := range sc.DoTs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO character_dots (character_id, name, damage_per_tick, duration, caster_level)
			VALUES ($1,$2,$3,$4,$5)`,
			id, d.Name, d.DamagePerTick, d.Duration, d.CasterLevel,
		); err != nil {
			return fmt.Errorf("inserting effect row for %q: %w", sc.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing save of %q: %w", sc.Name, err)
	}
	return nil
}

// Load retrieves a character and all its child rows by name.
//
// Postcondition: Returns the full saved state, or ErrCharacterNotFound.
func (r *CharacterRepository) Load(ctx context.Context, name string) (SavedCharacter, error) {
	var (
		sc SavedCharacter
		id int64
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, name, class, level, experience, health, max_health, mana, max_mana,
		       strength, armor, gold, equipped_item_id
		FROM characters WHERE name = $1`,
		name,
	).Scan(
		&id, &sc.Name, &sc.Class, &sc.Level, &sc.Experience, &sc.Health, &sc.MaxHealth,
		&sc.Mana, &sc.MaxMana, &sc.Strength, &sc.Armor, &sc.Gold, &sc.EquippedItemID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SavedCharacter{}, ErrCharacterNotFound
		}
		return SavedCharacter{}, fmt.Errorf("querying character %q: %w", name, err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT item_id, count FROM character_items
		WHERE character_id = $1 ORDER BY item_id`, id)
	if err != nil {
		return SavedCharacter{}, fmt.Errorf("querying inventory of %q: %w", name, err)
	}
	defer rows.Close()
	for rows.Next() {
		var it SavedItem
		if err := rows.Scan(&it.ItemID, &it.Count); err != nil {
			return SavedCharacter{}, fmt.Errorf("scanning inventory row: %w", err)
		}
		sc.Items = append(sc.Items, it)
	}
	if err := rows.Err(); err != nil {
		return SavedCharacter{}, err
	}

	questRows, err := r.db.Query(ctx, `
		SELECT quest_id, kills FROM character_quests
		WHERE character_id = $1 ORDER BY quest_id`, id)
	if err != nil {
		return SavedCharacter{}, fmt.Errorf("querying quests of %q: %w", name, err)
	}
	defer questRows.Close()
	for questRows.Next() {
		var q SavedQuest
		if err := questRows.Scan(&q.QuestID, &q.Kills); err != nil {
			return SavedCharacter{}, fmt.Errorf("scanning quest row: %w", err)
		}
		sc.Quests = append(sc.Quests, q)
	}
	if err := questRows.Err(); err != nil {
		return SavedCharacter{}, err
	}

	dotRows, err := r.db.Query(ctx, `
		SELECT name, damage_per_tick, duration, caster_level FROM character_dots
		WHERE character_id = $1 ORDER BY name`, id)
	if err != nil {
		return SavedCharacter{}, fmt.Errorf("querying effects of %q: %w", name, err)
	}
	defer dotRows.Close()
	for dotRows.Next() {
		var d SavedDoT
		if err := dotRows.Scan(&d.Name, &d.DamagePerTick, &d.Duration, &d.CasterLevel); err != nil {
			return SavedCharacter{}, fmt.Errorf("scanning effect row: %w", err)
		}
		sc.DoTs = append(sc.DoTs, d)
	}
	return sc, dotRows.Err()
}

// Delete removes a character and its child rows.
//
// Postcondition: Returns ErrCharacterNotFound when no row was deleted.
func (r *CharacterRepository) Delete(ctx context.Context, name string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM characters WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting character %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}
