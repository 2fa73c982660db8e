package item

import "fmt"

// GoldKey is the reserved inventory entry for currency. It is always
// present and cannot be shadowed by an item definition.
const GoldKey = "gold"

// Slot is one inventory entry: an item and how many of it are held.
type Slot struct {
	Item  Item
	Count int
}

// Inventory maps item name to (item, count) and carries the reserved gold
// balance. Not safe for concurrent use.
type Inventory struct {
	gold  int
	slots map[string]Slot
}

// NewInventory returns an empty inventory with a zero gold balance.
func NewInventory() *Inventory {
	return &Inventory{slots: make(map[string]Slot)}
}

// Gold returns the current gold balance.
func (inv *Inventory) Gold() int { return inv.gold }

// AwardGold adds amount to the gold balance.
//
// Precondition: amount >= 0.
func (inv *Inventory) AwardGold(amount int) { inv.gold += amount }

// HasGold reports whether the balance covers amount.
func (inv *Inventory) HasGold(amount int) bool { return inv.gold >= amount }

// SpendGold subtracts amount from the balance.
//
// Postcondition: Returns an error and leaves the balance unchanged when the
// balance does not cover amount.
func (inv *Inventory) SpendGold(amount int) error {
	if inv.gold < amount {
		return fmt.Errorf("spending %d gold with only %d held", amount, inv.gold)
	}
	inv.gold -= amount
	return nil
}

// Add puts count units of it into the inventory, merging with an existing
// slot of the same name.
//
// Precondition: count >= 1; it.Name must not be the reserved gold key.
func (inv *Inventory) Add(it Item, count int) {
	if it.Name == GoldKey {
		panic("inventory: item name \"gold\" is reserved")
	}
	slot, ok := inv.slots[it.Name]
	if !ok {
		inv.slots[it.Name] = Slot{Item: it, Count: count}
		return
	}
	slot.Count += count
	inv.slots[it.Name] = slot
}

// Get returns the slot for name.
func (inv *Inventory) Get(name string) (Slot, bool) {
	slot, ok := inv.slots[name]
	return slot, ok
}

// Count returns how many units of name are held, 0 when absent.
func (inv *Inventory) Count(name string) int {
	return inv.slots[name].Count
}

// Has reports whether at least one unit of name is held.
func (inv *Inventory) Has(name string) bool {
	return inv.slots[name].Count > 0
}

// RemoveOne takes exactly one unit of name out of the inventory, deleting
// the slot entirely when the count reaches zero.
//
// Postcondition: Returns the item, or ErrItemNotFound when absent.
func (inv *Inventory) RemoveOne(name string) (Item, error) {
	slot, ok := inv.slots[name]
	if !ok {
		return Item{}, fmt.Errorf("removing %q: %w", name, ErrItemNotFound)
	}
	if slot.Count == 1 {
		delete(inv.slots, name)
	} else {
		slot.Count--
		inv.slots[name] = slot
	}
	return slot.Item, nil
}

// Slots returns a snapshot copy of all non-gold entries for display.
func (inv *Inventory) Slots() map[string]Slot {
	out := make(map[string]Slot, len(inv.slots))
	for k, v := range inv.slots {
		out[k] = v
	}
	return out
}
