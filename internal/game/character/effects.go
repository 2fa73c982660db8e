package character

import (
	"go.uber.org/zap"

	"github.com/ashfall-games/ashfall/internal/game/effect"
)

// appliedBuff pairs a buff with the deltas that were actually applied, so
// removal reverses exactly what activation did rather than re-deriving it.
type appliedBuff struct {
	buff    *effect.BeneficialBuff
	applied map[effect.StatKey]int
}

// activeDoT is a DoT currently ticking on the character.
type activeDoT struct {
	dot *effect.DoT
}

// ApplyBuff activates a buff: its deltas are added to the character's stats
// (health and mana raise both max and current) and the buff joins the
// active set for per-turn ticking.
func (c *Character) ApplyBuff(b *effect.BeneficialBuff) {
	applied := b.BuffedAttributes()
	for stat, amount := range applied {
		c.applyStatDelta(stat, amount)
	}
	c.buffs = append(c.buffs, &appliedBuff{buff: b, applied: applied})
	c.log.Info("buff applied",
		zap.String("character", c.Name),
		zap.String("buff", b.Name),
		zap.Int("duration", b.Duration),
	)
}

// RemoveBuff reverses a buff's deltas symmetrically and detaches it. A
// buff not currently active is a no-op.
func (c *Character) RemoveBuff(b *effect.BeneficialBuff) {
	for i, ab := range c.buffs {
		if ab.buff != b {
			continue
		}
		for stat, amount := range ab.applied {
			c.applyStatDelta(stat, -amount)
		}
		c.buffs = append(c.buffs[:i], c.buffs[i+1:]...)
		c.log.Info("buff removed",
			zap.String("character", c.Name),
			zap.String("buff", b.Name),
		)
		return
	}
}

// applyStatDelta mutates one stat by a signed amount. Current health and
// mana are clamped to their maximums after a negative delta. A health
// reversal that drops current health to zero or below fires the death
// transition, exactly as damage would.
func (c *Character) applyStatDelta(stat effect.StatKey, amount int) {
	switch stat {
	case effect.StatHealth:
		c.MaxHealth += amount
		c.Health += amount
		if c.Health > c.MaxHealth {
			c.Health = c.MaxHealth
		}
		if c.Health <= 0 && c.IsAlive() {
			c.Die()
			c.log.Info("character has died",
				zap.String("character", c.Name),
			)
		}
	case effect.StatMana:
		c.MaxMana += amount
		c.Mana += amount
		if c.Mana > c.MaxMana {
			c.Mana = c.MaxMana
		}
	case effect.StatStrength:
		c.Strength += amount
		// Derived damage tracks strength.
		c.equipWeapon(c.EquippedWeapon)
	case effect.StatArmor:
		c.Armor += amount
	}
}

// AddDoT attaches a DoT to the character for per-turn ticking.
func (c *Character) AddDoT(d *effect.DoT) {
	c.dots = append(c.dots, &activeDoT{dot: d})
	c.log.Info("afflicted",
		zap.String("character", c.Name),
		zap.String("effect", d.Name),
		zap.Int("duration", d.Duration),
	)
}

// ActiveBuffs returns the currently applied buffs.
func (c *Character) ActiveBuffs() []*effect.BeneficialBuff {
	out := make([]*effect.BeneficialBuff, 0, len(c.buffs))
	for _, ab := range c.buffs {
		out = append(out, ab.buff)
	}
	return out
}

// ActiveDoTs returns the DoTs currently ticking on the character.
func (c *Character) ActiveDoTs() []*effect.DoT {
	out := make([]*effect.DoT, 0, len(c.dots))
	for _, ad := range c.dots {
		out = append(out, ad.dot)
	}
	return out
}

// TickEffects advances every active effect by one turn: DoTs deal their
// tick (checking death), buffs count down, and expired effects detach —
// buffs reverse their deltas on the way out. Spell cooldowns advance in
// the same step.
//
// Postcondition: Returns true iff the tick killed the character, whether
// through a DoT tick or a lethal health-buff reversal.
func (c *Character) TickEffects() bool {
	aliveBefore := c.IsAlive()

	dots := c.dots[:0]
	for _, ad := range c.dots {
		dotDied, expired := ad.dot.Tick(&c.LivingState)
		if dotDied {
			c.log.Info("character has died",
				zap.String("character", c.Name),
				zap.String("effect", ad.dot.Name),
			)
		}
		if !expired {
			dots = append(dots, ad)
		}
	}
	c.dots = dots

	for _, ab := range append([]*appliedBuff(nil), c.buffs...) {
		ab.buff.Duration--
		if ab.buff.Expired() {
			c.RemoveBuff(ab.buff)
		}
	}

	c.Spellbook.TickCooldowns()
	return aliveBefore && !c.IsAlive()
}
