package nav

import (
	"fmt"
	"slices"

	"github.com/vanderheijden86/keynav/pkg/model"
)

// KeyMap maps key names (as reported by the host, e.g. "down", "esc") to
// intents. It is replaced as a whole, never merged.
type KeyMap map[string]model.Intent

// DefaultKeyMap returns the arrow/enter/esc table.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		"right": model.IntentNext,
		"down":  model.IntentNext,
		"left":  model.IntentPrev,
		"up":    model.IntentPrev,
		"enter": model.IntentEnter,
		"esc":   model.IntentExit,
	}
}

// Lookup returns the intent bound to key.
func (k KeyMap) Lookup(key string) (model.Intent, bool) {
	intent, ok := k[key]
	return intent, ok
}

// Resolve maps key to its intent, or to a raw key intent when unbound.
func (k KeyMap) Resolve(key string) model.Intent {
	if intent, ok := k.Lookup(key); ok {
		return intent
	}
	return model.KeyIntent(key)
}

// KeysFor returns the keys bound to intent, sorted.
func (k KeyMap) KeysFor(intent model.Intent) []string {
	var keys []string
	for key, bound := range k {
		if bound == intent {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys
}

// KeyMapFromBindings inverts an intent → keys table, as written in config
// files. Each key may be bound once; intents must be navigation intents.
func KeyMapFromBindings(bindings map[model.Intent][]string) (KeyMap, error) {
	km := make(KeyMap)
	for intent, keys := range bindings {
		if !intent.IsNavigation() {
			return nil, fmt.Errorf("unknown intent %q in key bindings", intent)
		}
		for _, key := range keys {
			if key == "" {
				return nil, fmt.Errorf("empty key bound to %q", intent)
			}
			if prev, dup := km[key]; dup && prev != intent {
				return nil, fmt.Errorf("key %q bound to both %q and %q", key, prev, intent)
			}
			km[key] = intent
		}
	}
	if len(km) == 0 {
		return nil, fmt.Errorf("key bindings are empty")
	}
	return km, nil
}
