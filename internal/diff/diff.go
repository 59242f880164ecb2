package diff

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/example/tokenvault/internal/models"
)

// FilterAll is the sentinel reported when filters exist on only one side,
// instead of enumerating every category.
const FilterAll = "all"

// StateDiff is the structured comparison of two project states.
//
// HasChanges is computed from full structural equality of the two states,
// independently of the itemized categories below: a field no category
// covers can still make HasChanges true.
type StateDiff struct {
	HasChanges bool           `json:"has_changes"`
	Characters CharacterDiff  `json:"characters"`
	ScriptMeta ScriptMetaDiff `json:"script_meta"`
	Options    OptionsDiff    `json:"options"`
	Icons      IconDiff       `json:"icons"`
	Filters    FilterDiff     `json:"filters"`
}

// CharacterDiff classifies characters by stable id, not array position.
type CharacterDiff struct {
	Added    []string `json:"added,omitempty"`
	Removed  []string `json:"removed,omitempty"`
	Modified []string `json:"modified,omitempty"`
}

// FieldChange records one changed scalar field.
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// ScriptMetaDiff covers the script header fields.
type ScriptMetaDiff struct {
	Changed bool          `json:"changed"`
	Fields  []FieldChange `json:"fields,omitempty"`
}

// OptionsDiff lists generation option keys whose serialized value differs,
// including keys present on only one side. Values are not interpreted.
type OptionsDiff struct {
	ChangedKeys []string `json:"changed_keys,omitempty"`
}

// IconDiff counts custom icon changes by character-id set difference.
// Icon content is not diffed.
type IconDiff struct {
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
}

// FilterDiff lists changed filter categories, or the "all" sentinel when
// one side has no filter state at all.
type FilterDiff struct {
	Changed []string `json:"changed,omitempty"`
}

// Compute compares two project states. It is pure and never fails; a
// serialization problem on either side reports as changed.
func Compute(oldState, newState *models.State) *StateDiff {
	if oldState == nil {
		oldState = &models.State{}
	}
	if newState == nil {
		newState = &models.State{}
	}

	d := &StateDiff{
		Characters: diffCharacters(oldState.Characters, newState.Characters),
		ScriptMeta: diffScriptMeta(oldState.ScriptMeta, newState.ScriptMeta),
		Options:    diffOptions(oldState.Options, newState.Options),
		Icons:      diffIcons(oldState.CustomIcons, newState.CustomIcons),
		Filters:    diffFilters(oldState.Filters, newState.Filters),
	}
	// Full-state equality, not derived from the itemized categories.
	d.HasChanges = !structuralEqual(oldState, newState)
	return d
}

func diffCharacters(oldChars, newChars []models.Character) CharacterDiff {
	oldByID := make(map[string]models.Character, len(oldChars))
	for _, c := range oldChars {
		oldByID[c.ID] = c
	}
	newByID := make(map[string]models.Character, len(newChars))
	for _, c := range newChars {
		newByID[c.ID] = c
	}

	var d CharacterDiff
	for _, c := range newChars {
		prev, ok := oldByID[c.ID]
		if !ok {
			d.Added = append(d.Added, c.ID)
			continue
		}
		if characterModified(prev, c) {
			d.Modified = append(d.Modified, c.ID)
		}
	}
	for _, c := range oldChars {
		if _, ok := newByID[c.ID]; !ok {
			d.Removed = append(d.Removed, c.ID)
		}
	}
	return d
}

// characterModified checks the summary-level fields only. The detailed
// diff covers the rest.
func characterModified(a, b models.Character) bool {
	if a.Name != b.Name || a.Team != b.Team || a.Ability != b.Ability || a.Image != b.Image {
		return true
	}
	// Reminders compare as an ordered list.
	if len(a.Reminders) != len(b.Reminders) {
		return true
	}
	for i := range a.Reminders {
		if a.Reminders[i] != b.Reminders[i] {
			return true
		}
	}
	return false
}

func diffScriptMeta(a, b models.ScriptMeta) ScriptMetaDiff {
	var d ScriptMetaDiff
	for _, f := range []struct {
		name     string
		old, new string
	}{
		{"name", a.Name, b.Name},
		{"author", a.Author, b.Author},
		{"logo", a.Logo, b.Logo},
	} {
		if f.old != f.new {
			d.Fields = append(d.Fields, FieldChange{Field: f.name, Old: f.old, New: f.new})
		}
	}
	d.Changed = len(d.Fields) > 0
	return d
}

func diffOptions(a, b map[string]json.RawMessage) OptionsDiff {
	keys := make(map[string]bool, len(a)+len(b))
	for k := range a {
		keys[k] = true
	}
	for k := range b {
		keys[k] = true
	}

	var d OptionsDiff
	for k := range keys {
		av, aok := a[k]
		bv, bok := b[k]
		if aok != bok || !rawEqual(av, bv) {
			d.ChangedKeys = append(d.ChangedKeys, k)
		}
	}
	sort.Strings(d.ChangedKeys)
	return d
}

func diffIcons(oldIcons, newIcons []models.CustomIcon) IconDiff {
	oldSet := make(map[string]bool, len(oldIcons))
	for _, ic := range oldIcons {
		oldSet[ic.CharacterID] = true
	}
	newSet := make(map[string]bool, len(newIcons))
	for _, ic := range newIcons {
		newSet[ic.CharacterID] = true
	}

	var d IconDiff
	for _, ic := range newIcons {
		if !oldSet[ic.CharacterID] {
			d.Added = append(d.Added, ic.CharacterID)
		}
	}
	for _, ic := range oldIcons {
		if !newSet[ic.CharacterID] {
			d.Removed = append(d.Removed, ic.CharacterID)
		}
	}
	return d
}

func diffFilters(a, b *models.Filters) FilterDiff {
	if (a == nil) != (b == nil) {
		return FilterDiff{Changed: []string{FilterAll}}
	}
	if a == nil {
		return FilterDiff{}
	}

	var d FilterDiff
	for _, f := range []struct {
		name     string
		old, new []string
	}{
		{"teams", a.Teams, b.Teams},
		{"token_types", a.TokenTypes, b.TokenTypes},
		{"display", a.Display, b.Display},
		{"reminders", a.Reminders, b.Reminders},
	} {
		if !rawEqual(f.old, f.new) {
			d.Changed = append(d.Changed, f.name)
		}
	}
	return d
}

// Summary renders the diff as a comma-joined, human-readable list of
// non-empty categories in fixed order. Returns "No changes" when clean.
func (d *StateDiff) Summary() string {
	if !d.HasChanges {
		return "No changes"
	}

	var parts []string
	if n := len(d.Characters.Added); n > 0 {
		parts = append(parts, fmt.Sprintf("%d %s added", n, plural(n, "character", "characters")))
	}
	if n := len(d.Characters.Removed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d %s removed", n, plural(n, "character", "characters")))
	}
	if n := len(d.Characters.Modified); n > 0 {
		parts = append(parts, fmt.Sprintf("%d %s modified", n, plural(n, "character", "characters")))
	}
	if d.ScriptMeta.Changed {
		parts = append(parts, "script metadata changed")
	}
	if n := len(d.Options.ChangedKeys); n > 0 {
		parts = append(parts, fmt.Sprintf("%d generation %s changed", n, plural(n, "option", "options")))
	}
	if n := len(d.Icons.Added) + len(d.Icons.Removed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d custom %s changed", n, plural(n, "icon", "icons")))
	}
	if len(d.Filters.Changed) > 0 {
		parts = append(parts, "filters changed")
	}
	if len(parts) == 0 {
		// HasChanges caught something outside the itemized categories.
		return "Other changes"
	}
	return strings.Join(parts, ", ")
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
