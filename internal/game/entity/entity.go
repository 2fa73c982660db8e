// Package entity defines the shared lifecycle state owned by every
// combatant in the game: characters, monsters, and NPCs all embed a
// LivingState and advance through the same alive/dead, in-combat/out-of-combat
// transitions.
package entity

// State is the combined lifecycle state of a living entity.
type State int

const (
	// AliveOutOfCombat is the initial state of every entity.
	AliveOutOfCombat State = iota
	// AliveInCombat means the entity is alive and engaged.
	AliveInCombat
	// Dead means health reached zero. Dead is recoverable only through an
	// explicit Revive, modeling a respawn/retry flow.
	Dead
)

// String returns a human-readable state label.
func (s State) String() string {
	switch s {
	case AliveOutOfCombat:
		return "alive"
	case AliveInCombat:
		return "in combat"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// LivingState holds the health, mana, and lifecycle flags shared by every
// combatant. It is not safe for concurrent use; the turn loop owns each
// entity exclusively during its processing.
type LivingState struct {
	Name      string
	Health    int
	MaxHealth int
	Mana      int
	MaxMana   int

	alive    bool
	inCombat bool
}

// NewLivingState creates an entity with full resources, alive and out of
// combat.
//
// Precondition: health >= 1 and mana >= 0.
func NewLivingState(name string, health, mana int) LivingState {
	return LivingState{
		Name:      name,
		Health:    health,
		MaxHealth: health,
		Mana:      mana,
		MaxMana:   mana,
		alive:     true,
	}
}

// IsAlive reports whether the entity has not died.
func (l *LivingState) IsAlive() bool { return l.alive }

// IsInCombat reports whether the entity is currently engaged.
func (l *LivingState) IsInCombat() bool { return l.inCombat }

// EnterCombat transitions to the in-combat state. A no-op when already in
// combat.
func (l *LivingState) EnterCombat() { l.inCombat = true }

// LeaveCombat transitions to the out-of-combat state and fully regenerates
// health and mana.
//
// Postcondition: Health == MaxHealth and Mana == MaxMana.
func (l *LivingState) LeaveCombat() {
	l.inCombat = false
	l.Regenerate()
}

// Regenerate restores health and mana to their maximums.
//
// Postcondition: Health == MaxHealth and Mana == MaxMana; neither resource
// ever exceeds its max counterpart.
func (l *LivingState) Regenerate() {
	l.Health = l.MaxHealth
	l.Mana = l.MaxMana
}

// TakeDamage subtracts amount from health and fires the death transition when
// health drops to zero or below. Damage to a dead entity is a no-op.
//
// Postcondition: Returns true iff this call killed the entity. The death
// transition is one-shot: repeated calls on a dead entity return false.
func (l *LivingState) TakeDamage(amount int) bool {
	if !l.alive {
		return false
	}
	l.Health -= amount
	if l.Health <= 0 {
		l.Die()
		return true
	}
	return false
}

// SpendMana subtracts cost from mana.
//
// Precondition: cost <= Mana; callers gate casts on HasMana.
func (l *LivingState) SpendMana(cost int) { l.Mana -= cost }

// HasMana reports whether the entity can pay the given mana cost.
func (l *LivingState) HasMana(cost int) bool { return l.Mana >= cost }

// Heal restores amount health, clamped at MaxHealth. Healing a dead entity
// is a no-op.
func (l *LivingState) Heal(amount int) {
	if !l.alive {
		return
	}
	l.Health += amount
	if l.Health > l.MaxHealth {
		l.Health = l.MaxHealth
	}
}

// Die transitions the entity to Dead. Idempotent.
//
// Postcondition: IsAlive() is false.
func (l *LivingState) Die() { l.alive = false }

// Revive transitions a dead entity back to alive and out of combat with full
// resources.
//
// Postcondition: IsAlive() is true, IsInCombat() is false,
// Health == MaxHealth, Mana == MaxMana.
func (l *LivingState) Revive() {
	l.Regenerate()
	l.alive = true
	l.inCombat = false
}

// CurrentState returns the combined lifecycle state.
func (l *LivingState) CurrentState() State {
	if !l.alive {
		return Dead
	}
	if l.inCombat {
		return AliveInCombat
	}
	return AliveOutOfCombat
}

// Snapshot is a read-only view of an entity's resources, exposed to the
// display layer.
type Snapshot struct {
	Name      string
	Health    int
	MaxHealth int
	Mana      int
	MaxMana   int
	Alive     bool
	InCombat  bool
}

// Snapshot returns the entity's current resource snapshot.
func (l *LivingState) Snapshot() Snapshot {
	return Snapshot{
		Name:      l.Name,
		Health:    l.Health,
		MaxHealth: l.MaxHealth,
		Mana:      l.Mana,
		MaxMana:   l.MaxMana,
		Alive:     l.alive,
		InCombat:  l.inCombat,
	}
}
