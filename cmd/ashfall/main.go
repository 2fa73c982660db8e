// Package main provides the ashfall binary: it loads the content tables,
// restores or creates a character, and runs a scripted encounter loop
// through the combat engine.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ashfall-games/ashfall/internal/config"
	"github.com/ashfall-games/ashfall/internal/content"
	"github.com/ashfall-games/ashfall/internal/game/character"
	"github.com/ashfall-games/ashfall/internal/game/combat"
	"github.com/ashfall-games/ashfall/internal/game/creature"
	"github.com/ashfall-games/ashfall/internal/game/damage"
	"github.com/ashfall-games/ashfall/internal/game/dice"
	"github.com/ashfall-games/ashfall/internal/game/item"
	"github.com/ashfall-games/ashfall/internal/game/quest"
	"github.com/ashfall-games/ashfall/internal/observability"
	"github.com/ashfall-games/ashfall/internal/scripting"
	"github.com/ashfall-games/ashfall/internal/storage/postgres"
)

// New-character base stats, applied before the level-1 class spells are
// learned.
const (
	newCharacterHealth   = 100
	newCharacterMana     = 100
	newCharacterStrength = 10
	newCharacterArmor    = 50
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/ashfall.yaml", "path to configuration file")
	characterName := flag.String("character", "Adventurer", "character name to restore or create")
	encounters := flag.Int("encounters", 3, "number of encounters to run")
	persist := flag.Bool("persist", false, "load and save the character from PostgreSQL")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	src := newSource(cfg.Game, logger)

	contentStart := time.Now()
	pack, err := content.Load(cfg.Game.ContentDir, logger)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	logger.Info("content ready",
		zap.String("dir", cfg.Game.ContentDir),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	if scriptsDir := content.ScriptsDir(cfg.Game.ContentDir); dirExists(scriptsDir) {
		runner, err := scripting.NewGossipRunner(scriptsDir, scripting.DefaultInstructionLimit, logger)
		if err != nil {
			logger.Fatal("loading gossip scripts", zap.Error(err))
		}
		defer runner.Close()
		for _, n := range pack.Creatures.Friendly {
			n.BindGossipRunner(runner)
		}
		for _, v := range pack.Creatures.Vendors {
			v.BindGossipRunner(runner)
		}
	}

	var repo *postgres.CharacterRepository
	if *persist {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		repo = postgres.NewCharacterRepository(pool.DB())
	}

	c, err := loadOrCreate(ctx, repo, *characterName, cfg.Game.Class, pack, logger)
	if err != nil {
		logger.Fatal("preparing character", zap.Error(err))
	}
	fmt.Printf("Welcome back, %s.\n%s\n\n", c.Name, describe(c))

	greet(c, pack.Creatures)
	shop(c, pack.Creatures, logger)

	runEncounters(c, pack, src, *encounters, logger)

	if repo != nil && c.IsAlive() {
		sc, err := postgres.SnapshotCharacter(c, pack.Items)
		if err != nil {
			logger.Fatal("snapshotting character", zap.Error(err))
		}
		if err := repo.Save(ctx, sc); err != nil {
			logger.Fatal("saving character", zap.Error(err))
		}
		logger.Info("character saved", zap.String("character", c.Name))
	}

	logger.Info("run complete",
		zap.String("character", c.Name),
		zap.Int("level", c.Level),
		zap.Bool("alive", c.IsAlive()),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// newSource selects the seeded source when the config fixes a seed,
// otherwise the cryptographic one.
func newSource(g config.GameConfig, logger *zap.Logger) dice.Source {
	if g.Seed != 0 {
		logger.Info("using seeded random source", zap.Int64("seed", g.Seed))
		return dice.NewSeeded(g.Seed)
	}
	return dice.NewCryptoSource()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// loadOrCreate restores the named character from storage, or creates a
// fresh one when persistence is off or no save exists.
func loadOrCreate(ctx context.Context, repo *postgres.CharacterRepository, name, class string, pack *content.Pack, logger *zap.Logger) (*character.Character, error) {
	if repo != nil {
		sc, err := repo.Load(ctx, name)
		switch {
		case err == nil:
			logger.Info("character restored",
				zap.String("character", name),
				zap.Int("level", sc.Level),
			)
			return postgres.RestoreCharacter(sc, pack, logger)
		case !errors.Is(err, postgres.ErrCharacterNotFound):
			return nil, err
		}
		logger.Info("no save found, creating character", zap.String("character", name))
	}

	c, err := character.New(character.Config{
		Name:        name,
		Health:      newCharacterHealth,
		Mana:        newCharacterMana,
		Strength:    newCharacterStrength,
		Armor:       newCharacterArmor,
		Class:       class,
		ClassSpells: pack.ClassSpells[class],
		Tables:      pack.Progression,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}
	for _, q := range sortedQuests(pack) {
		c.AddQuest(q)
	}
	return c, nil
}

// greet has every friendly NPC deliver its gossip line once.
func greet(c *character.Character, defs creature.Definitions) {
	for _, entry := range sortedKeys(defs.Friendly) {
		n := defs.Friendly[entry]
		fmt.Printf("%s says: %s\n", n.Name, n.Talk(c.Name))
	}
	fmt.Println()
}

// shop buys the first affordable ware from each vendor.
func shop(c *character.Character, defs creature.Definitions, logger *zap.Logger) {
	for _, entry := range sortedKeys(defs.Vendors) {
		v := defs.Vendors[entry]
		fmt.Printf("%s says: %s\n", v, v.Talk(c.Name))
		for _, stock := range v.Wares() {
			price, err := v.ItemPrice(stock.Item.Name)
			if err != nil || !c.Inventory.HasGold(price) {
				continue
			}
			it, count, price, err := v.SellItem(stock.Item.Name)
			if err != nil {
				continue
			}
			if err := c.BuyItem(it, count, price); err != nil {
				logger.Warn("purchase failed", zap.Error(err))
				continue
			}
			fmt.Printf("Bought %dx %s for %d gold.\n", count, it, price)
			break
		}
	}
	fmt.Println()
}

// runEncounters fights up to n monsters from the content tables, cycling
// through the defined templates in entry order.
func runEncounters(c *character.Character, pack *content.Pack, src dice.Source, n int, logger *zap.Logger) {
	entries := sortedKeys(pack.Creatures.Monsters)
	if len(entries) == 0 {
		logger.Warn("no monsters defined, nothing to fight")
		return
	}

	for i := 0; i < n && c.IsAlive(); i++ {
		def := pack.Creatures.Monsters[entries[i%len(entries)]]
		m, err := def.Spawn(src, pack.Progression, logger)
		if err != nil {
			logger.Fatal("spawning monster", zap.Error(err))
		}
		fmt.Printf("A %s appears!\n", m.Name)

		if err := fight(c, m, src, logger); err != nil {
			logger.Fatal("resolving encounter", zap.Error(err))
		}
		fmt.Printf("%s\n\n", describe(c))
	}

	if !c.IsAlive() {
		fmt.Printf("%s has fallen.\n", c.Name)
	}
}

// fight runs one encounter to the death: attack, counterattack, end-of-turn
// effect ticks, then loot on a win.
func fight(c *character.Character, m *creature.Monster, src dice.Source, logger *zap.Logger) error {
	e := combat.NewEncounter(c, m, src, logger)

	for !e.IsOver() {
		atk, kill, err := e.CharacterAttack()
		if err != nil {
			return err
		}
		fmt.Printf("%s hits %s for %d damage.\n", c.Name, m.Name, atk.Damage.Points())
		if atk.DefenderDied {
			report(c, kill)
			return lootAll(e, m)
		}

		atk, err = e.MonsterAttack()
		if err != nil {
			return err
		}
		fmt.Printf("%s hits %s for %d damage.\n", m.Name, c.Name, atk.Damage.Points())
		if atk.DefenderDied {
			return nil
		}

		turn, err := e.EndTurn()
		if err != nil {
			return err
		}
		if turn.CharacterDied {
			return nil
		}
		if turn.MonsterDied {
			report(c, turn.Kill)
			return lootAll(e, m)
		}
	}
	return nil
}

// lootAll takes every rolled drop from the corpse.
func lootAll(e *combat.Encounter, m *creature.Monster) error {
	for _, name := range sortedDropNames(m) {
		drop, err := e.LootDrop(name)
		if err != nil {
			return err
		}
		if drop.IsGold() {
			fmt.Printf("Looted %d gold.\n", drop.Gold)
		} else {
			fmt.Printf("Looted %s.\n", drop.Item)
		}
	}
	return nil
}

func report(c *character.Character, kill *character.KillResult) {
	if kill == nil {
		return
	}
	fmt.Printf("Victory! %d XP awarded (+%d bonus).\n", kill.XP, kill.BonusXP)
	if kill.QuestCompleted {
		fmt.Println("Quest complete!")
	}
	if kill.LeveledUp {
		fmt.Printf("%s has reached level %d!\n", c.Name, c.Level)
	}
}

// describe renders the character status line. Armor mitigation is quoted
// against an equal-level attacker.
func describe(c *character.Character) string {
	s := c.Snapshot()
	mitigation := 100 * damage.MitigationFraction(s.Armor, s.Level)
	return fmt.Sprintf("%s: Level %d | %d/%d HP | %d/%d Mana | %d/%d XP | %d armor (%.0f%% mitigation) | %d gold | %s",
		s.Name, s.Level, s.Health, s.MaxHealth, s.Mana, s.MaxMana,
		s.Experience, s.XPToLevel, s.Armor, mitigation, c.Inventory.Gold(), s.Weapon)
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func sortedQuests(pack *content.Pack) []quest.Quest {
	keys := sortedKeys(pack.Quests)
	out := make([]quest.Quest, 0, len(keys))
	for _, k := range keys {
		out = append(out, pack.Quests[k])
	}
	return out
}

func sortedDropNames(m *creature.Monster) []string {
	names := make([]string, 0, len(m.Loot()))
	for name := range m.Loot() {
		names = append(names, name)
	}
	sort.Strings(names)
	// Gold first reads better in the log.
	sort.SliceStable(names, func(i, j int) bool {
		return names[i] == item.GoldKey && names[j] != item.GoldKey
	})
	return names
}
