// Package practice knows which practices exist: the fixed built-in set and
// the user's custom practices kept in the registry.
package practice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/runnerr0/zikr/internal/counter"
)

// ErrUnknownPractice is returned when a name matches no practice.
var ErrUnknownPractice = errors.New("unknown practice")

const (
	// RegistryKey holds the JSON array of custom practices.
	RegistryKey = "custom_tasbeeh"

	customPrefix  = "custom_"
	tasbeehPrefix = "tasbeeh_"
)

// Practice describes one countable practice and where its record lives.
type Practice struct {
	// ID is the short name used on the command line.
	ID         string
	Key        string
	Name       string
	ArabicText string
	Goal       int
	Custom     bool
}

var builtIns = []Practice{
	{
		ID:         "astaghfar",
		Key:        "astaghfar_record",
		Name:       "استغفار",
		ArabicText: "أَسْتَغْفِرُ اللَّهَ رَبِّي مِن كُلِّ ذَنبٍ وَأَتُوبُ إِلَيْهِ",
		Goal:       100,
	},
	{
		ID:         "durood",
		Key:        "durood_record",
		Name:       "درودِ شریف",
		ArabicText: "اللَّهُمَّ صَلِّ عَلَى سَيِّدِنَا مُحَمَّدٍ وَعَلَى آلِ سَيِّدِنَا مُحَمَّدٍ وَبَارِكْ وَسَلِّمْ",
		Goal:       100,
	},
	{ID: "laIlaha", Key: tasbeehPrefix + "laIlaha", Name: "لا إلهَ إلا اللهُ", ArabicText: "لا إلهَ إلا اللهُ", Goal: 100},
	{ID: "subhanAllah", Key: tasbeehPrefix + "subhanAllah", Name: "سُبْحَانَ اللهِ", ArabicText: "سُبْحَانَ اللهِ", Goal: 100},
	{ID: "alhamdulillah", Key: tasbeehPrefix + "alhamdulillah", Name: "الحَمْدُ للهِ", ArabicText: "الحَمْدُ للهِ", Goal: 100},
	{ID: "allahuAkbar", Key: tasbeehPrefix + "allahuAkbar", Name: "اللهُ أَكْبَرُ", ArabicText: "اللهُ أَكْبَرُ", Goal: 100},
	{
		ID:         "subhanAllahWaBihamdihi",
		Key:        tasbeehPrefix + "subhanAllahWaBihamdihi",
		Name:       "سُبْحَانَ اللهِ وَبِحَمْدِهِ",
		ArabicText: "سُبْحَانَ اللهِ وَبِحَمْدِهِ، سُبْحَانَ اللهِ العَظِيمِ",
		Goal:       100,
	},
}

// BuiltIns returns the fixed practices in display order.
func BuiltIns() []Practice {
	out := make([]Practice, len(builtIns))
	copy(out, builtIns)
	return out
}

// BuiltInKeys returns the storage keys of the built-in practices in display order.
func BuiltInKeys() []string {
	keys := make([]string, len(builtIns))
	for i, p := range builtIns {
		keys[i] = p.Key
	}
	return keys
}

// CustomKey returns the record key of a custom practice.
func CustomKey(id string) string {
	return customPrefix + id
}

func builtInByName(name string) (Practice, bool) {
	for _, p := range builtIns {
		if strings.EqualFold(p.ID, name) || p.Key == name {
			return p, true
		}
	}
	return Practice{}, false
}

// Catalog resolves practice names across the built-ins and the registry.
type Catalog struct {
	registry *Registry
}

// NewCatalog creates a Catalog of the built-in practices and those in registry.
func NewCatalog(registry *Registry) *Catalog {
	return &Catalog{registry: registry}
}

// Resolve maps a short id ("astaghfar", "laIlaha"), a custom practice id or a
// full record key to its Practice.
func (c *Catalog) Resolve(ctx context.Context, name string) (Practice, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Practice{}, fmt.Errorf("%w: empty name", ErrUnknownPractice)
	}
	if p, ok := builtInByName(name); ok {
		return p, nil
	}

	id := strings.TrimPrefix(name, customPrefix)
	if e, ok := c.registry.Find(ctx, id); ok {
		return e.Practice(), nil
	}
	return Practice{}, fmt.Errorf("%w: %s", ErrUnknownPractice, name)
}

// All returns the built-ins followed by every registered custom practice.
func (c *Catalog) All(ctx context.Context) []Practice {
	out := BuiltIns()
	for _, e := range c.registry.List(ctx) {
		out = append(out, e.Practice())
	}
	return out
}

// Defaults supplies record metadata for counter.Service. It matches the
// counter.DefaultsFunc signature.
func (c *Catalog) Defaults(ctx context.Context, key string) (counter.Defaults, bool) {
	if p, ok := builtInByName(key); ok && p.Key == key {
		return counter.Defaults{DisplayName: p.Name, ArabicText: p.ArabicText, Goal: p.Goal}, true
	}
	if !strings.HasPrefix(key, customPrefix) {
		return counter.Defaults{}, false
	}
	e, ok := c.registry.Find(ctx, strings.TrimPrefix(key, customPrefix))
	if !ok {
		return counter.Defaults{}, false
	}
	return counter.Defaults{DisplayName: e.Name, ArabicText: e.ArabicText, Goal: e.Goal}, true
}
