package creature

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ashfall-games/ashfall/internal/game/entity"
	"github.com/ashfall-games/ashfall/internal/game/item"
)

// playerNameToken is expanded to the addressed player's name in gossip.
const playerNameToken = "$N"

// GossipRunner executes a named gossip script for an NPC. Implemented by
// the scripting sandbox; nil disables scripted gossip.
type GossipRunner interface {
	RunGossip(script, playerName string) (string, error)
}

// FriendlyNPC is a non-hostile creature the character can talk to.
type FriendlyNPC struct {
	entity.LivingState

	Entry  int
	Level  int
	gossip string
	script string
	runner GossipRunner
}

// NewFriendlyNPC builds a friendly NPC from its template.
func NewFriendlyNPC(tmpl Template) *FriendlyNPC {
	return &FriendlyNPC{
		LivingState: entity.NewLivingState(tmpl.Name, tmpl.Health, tmpl.Mana),
		Entry:       tmpl.Entry,
		Level:       tmpl.Level,
		gossip:      tmpl.Gossip,
		script:      tmpl.GossipScript,
	}
}

// BindGossipRunner attaches the script runner used when the template names
// a gossip script.
func (n *FriendlyNPC) BindGossipRunner(r GossipRunner) { n.runner = r }

// Talk returns what the NPC says to the named player. A scripted NPC runs
// its gossip hook; otherwise the static line is used with "$N" expanded to
// the player name. A script failure falls back to the static line rather
// than silencing the NPC.
func (n *FriendlyNPC) Talk(playerName string) string {
	if n.script != "" && n.runner != nil {
		line, err := n.runner.RunGossip(n.script, playerName)
		if err == nil {
			return line
		}
	}
	return strings.ReplaceAll(n.gossip, playerNameToken, playerName)
}

// String returns the NPC's display name.
func (n *FriendlyNPC) String() string { return n.Name }

// Stock is one vendor inventory entry.
type Stock struct {
	Item  item.Item
	Count int
}

// VendorNPC is a friendly NPC that sells items. Stock is finite: a sale
// hands over the whole stack and removes the entry.
type VendorNPC struct {
	FriendlyNPC

	wares map[string]Stock
}

// NewVendorNPC builds a vendor from its template, resolving every ware
// against the item catalog.
//
// Postcondition: Every ware resolves, or an error names the broken
// reference.
func NewVendorNPC(tmpl Template, items map[int]item.Item) (*VendorNPC, error) {
	wares := make(map[string]Stock, len(tmpl.Wares))
	for _, w := range tmpl.Wares {
		it, ok := items[w.ItemID]
		if !ok {
			return nil, fmt.Errorf("vendor %d: ware item %d is not defined", tmpl.Entry, w.ItemID)
		}
		wares[it.Name] = Stock{Item: it, Count: w.Count}
	}
	return &VendorNPC{
		FriendlyNPC: *NewFriendlyNPC(tmpl),
		wares:       wares,
	}, nil
}

// String returns the vendor's display name tagged as a vendor.
func (v *VendorNPC) String() string { return v.Name + " <Vendor>" }

// HasItem reports whether the vendor has the named item in stock.
func (v *VendorNPC) HasItem(name string) bool {
	_, ok := v.wares[name]
	return ok
}

// ItemPrice returns the price of the named item.
//
// Postcondition: Returns item.ErrItemNotFound when the item is not in
// stock.
func (v *VendorNPC) ItemPrice(name string) (int, error) {
	stock, ok := v.wares[name]
	if !ok {
		return 0, fmt.Errorf("pricing %q at %q: %w", name, v.Name, item.ErrItemNotFound)
	}
	return stock.Item.BuyPrice, nil
}

// SellItem removes the named stack from stock and returns the goods and
// the price.
//
// Postcondition: The item is no longer in stock. Returns
// item.ErrItemNotFound when absent.
func (v *VendorNPC) SellItem(name string) (it item.Item, count, price int, err error) {
	stock, ok := v.wares[name]
	if !ok {
		return item.Item{}, 0, 0, fmt.Errorf("buying %q from %q: %w", name, v.Name, item.ErrItemNotFound)
	}
	delete(v.wares, name)
	return stock.Item, stock.Count, stock.Item.BuyPrice, nil
}

// Wares returns the stock entries sorted by item name for display.
func (v *VendorNPC) Wares() []Stock {
	out := make([]Stock, 0, len(v.wares))
	for _, s := range v.wares {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item.Name < out[j].Item.Name })
	return out
}
