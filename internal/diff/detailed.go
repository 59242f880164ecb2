package diff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/example/tokenvault/internal/models"
)

// SegmentOp classifies a piece of a text or sequence diff.
type SegmentOp string

const (
	OpEqual  SegmentOp = "equal"
	OpInsert SegmentOp = "insert"
	OpDelete SegmentOp = "delete"
)

// Segment is one run of a word-level text diff.
type Segment struct {
	Op   SegmentOp `json:"op"`
	Text string    `json:"text"`
}

// SeqEdit is one run of an element-level sequence diff (reminder lists).
type SeqEdit struct {
	Op    SegmentOp `json:"op"`
	Items []string  `json:"items"`
}

// DetailedFieldChange records one changed field with old and new values
// and, for text and array fields, a precomputed diff structure.
type DetailedFieldChange struct {
	Field string    `json:"field"`
	Old   string    `json:"old"`
	New   string    `json:"new"`
	Text  []Segment `json:"text,omitempty"`
	Seq   []SeqEdit `json:"seq,omitempty"`
}

// DetailedDiff is the field-level expanded view: every changed field per
// modified character, plus the script metadata field changes.
type DetailedDiff struct {
	Characters map[string][]DetailedFieldChange `json:"characters,omitempty"`
	ScriptMeta []DetailedFieldChange            `json:"script_meta,omitempty"`
}

// ComputeDetailed produces the expanded comparison for characters present
// on both sides, plus script metadata. Added/removed characters are the
// summary diff's concern; this view covers field-level modifications.
func ComputeDetailed(oldState, newState *models.State) *DetailedDiff {
	if oldState == nil {
		oldState = &models.State{}
	}
	if newState == nil {
		newState = &models.State{}
	}

	d := &DetailedDiff{Characters: make(map[string][]DetailedFieldChange)}

	oldByID := make(map[string]models.Character, len(oldState.Characters))
	for _, c := range oldState.Characters {
		oldByID[c.ID] = c
	}
	for _, c := range newState.Characters {
		prev, ok := oldByID[c.ID]
		if !ok {
			continue
		}
		changes := diffCharacterFields(prev, c)
		if len(changes) > 0 {
			d.Characters[c.ID] = changes
		}
	}

	for _, fc := range diffScriptMeta(oldState.ScriptMeta, newState.ScriptMeta).Fields {
		d.ScriptMeta = append(d.ScriptMeta, DetailedFieldChange{
			Field: fc.Field, Old: fc.Old, New: fc.New,
		})
	}
	return d
}

// HasChanges reports whether the detailed view found any field change.
func (d *DetailedDiff) HasChanges() bool {
	return len(d.Characters) > 0 || len(d.ScriptMeta) > 0
}

func diffCharacterFields(a, b models.Character) []DetailedFieldChange {
	var changes []DetailedFieldChange

	// Metadata fields: plain old/new records.
	for _, f := range []struct {
		name     string
		old, new string
	}{
		{"name", a.Name, b.Name},
		{"team", a.Team, b.Team},
		{"edition", a.Edition, b.Edition},
		{"image", a.Image, b.Image},
	} {
		if f.old != f.new {
			changes = append(changes, DetailedFieldChange{Field: f.name, Old: f.old, New: f.new})
		}
	}
	if a.Setup != b.Setup {
		changes = append(changes, DetailedFieldChange{
			Field: "setup",
			Old:   fmt.Sprintf("%t", a.Setup),
			New:   fmt.Sprintf("%t", b.Setup),
		})
	}

	// Free-text fields: word-level diff.
	for _, f := range []struct {
		name     string
		old, new string
	}{
		{"ability", a.Ability, b.Ability},
		{"flavor", a.Flavor, b.Flavor},
		{"overview", a.Overview, b.Overview},
		{"examples", a.Examples, b.Examples},
		{"how_to_run", a.HowToRun, b.HowToRun},
		{"tips", a.Tips, b.Tips},
		{"first_night_reminder", a.FirstNightReminder, b.FirstNightReminder},
		{"other_night_reminder", a.OtherNightReminder, b.OtherNightReminder},
	} {
		if f.old != f.new {
			changes = append(changes, DetailedFieldChange{
				Field: f.name, Old: f.old, New: f.new,
				Text: wordDiff(f.old, f.new),
			})
		}
	}

	// Night-order integers.
	for _, f := range []struct {
		name     string
		old, new int
	}{
		{"first_night", a.FirstNight, b.FirstNight},
		{"other_night", a.OtherNight, b.OtherNight},
	} {
		if f.old != f.new {
			changes = append(changes, DetailedFieldChange{
				Field: f.name,
				Old:   fmt.Sprintf("%d", f.old),
				New:   fmt.Sprintf("%d", f.new),
			})
		}
	}

	// Array fields: element-level sequence diff.
	for _, f := range []struct {
		name     string
		old, new []string
	}{
		{"reminders", a.Reminders, b.Reminders},
		{"global_reminders", a.GlobalReminders, b.GlobalReminders},
	} {
		if !rawEqual(f.old, f.new) {
			changes = append(changes, DetailedFieldChange{
				Field: f.name,
				Old:   strings.Join(f.old, ", "),
				New:   strings.Join(f.new, ", "),
				Seq:   seqDiff(f.old, f.new),
			})
		}
	}

	return changes
}

// wordDiff splits both texts on whitespace and produces equal/insert/
// delete runs. A replace opcode expands into a delete followed by an
// insert.
func wordDiff(oldText, newText string) []Segment {
	oldWords := strings.Fields(oldText)
	newWords := strings.Fields(newText)
	matcher := difflib.NewMatcher(oldWords, newWords)

	var segs []Segment
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			segs = append(segs, Segment{Op: OpEqual, Text: strings.Join(newWords[op.J1:op.J2], " ")})
		case 'd':
			segs = append(segs, Segment{Op: OpDelete, Text: strings.Join(oldWords[op.I1:op.I2], " ")})
		case 'i':
			segs = append(segs, Segment{Op: OpInsert, Text: strings.Join(newWords[op.J1:op.J2], " ")})
		case 'r':
			segs = append(segs,
				Segment{Op: OpDelete, Text: strings.Join(oldWords[op.I1:op.I2], " ")},
				Segment{Op: OpInsert, Text: strings.Join(newWords[op.J1:op.J2], " ")})
		}
	}
	return segs
}

// seqDiff produces element-level edits between two ordered lists.
func seqDiff(oldItems, newItems []string) []SeqEdit {
	matcher := difflib.NewMatcher(oldItems, newItems)

	var edits []SeqEdit
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			edits = append(edits, SeqEdit{Op: OpEqual, Items: copyOf(newItems[op.J1:op.J2])})
		case 'd':
			edits = append(edits, SeqEdit{Op: OpDelete, Items: copyOf(oldItems[op.I1:op.I2])})
		case 'i':
			edits = append(edits, SeqEdit{Op: OpInsert, Items: copyOf(newItems[op.J1:op.J2])})
		case 'r':
			edits = append(edits,
				SeqEdit{Op: OpDelete, Items: copyOf(oldItems[op.I1:op.I2])},
				SeqEdit{Op: OpInsert, Items: copyOf(newItems[op.J1:op.J2])})
		}
	}
	return edits
}

func copyOf(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	return out
}
