package models

import "encoding/json"

// State is the serializable bundle of working data that gets snapshotted.
// The persistence layer treats it as an opaque value: it must round-trip
// through JSON without loss, and only the diff engine and stat counters
// ever look inside it.
type State struct {
	RawScript       string                     `json:"raw_script,omitempty"`
	Characters      []Character                `json:"characters,omitempty"`
	ScriptMeta      ScriptMeta                 `json:"script_meta"`
	Overrides       map[string]json.RawMessage `json:"overrides,omitempty"`
	Options         map[string]json.RawMessage `json:"options,omitempty"`
	CustomIcons     []CustomIcon               `json:"custom_icons,omitempty"`
	Filters         *Filters                   `json:"filters,omitempty"`
	SchemaVer       int                        `json:"schema_version,omitempty"`
}

// Character is one parsed script entry. Fields mirror the script format;
// the core compares them but never interprets them.
type Character struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Team               string   `json:"team,omitempty"`
	Edition            string   `json:"edition,omitempty"`
	Image              string   `json:"image,omitempty"`
	Setup              bool     `json:"setup,omitempty"`
	Ability            string   `json:"ability,omitempty"`
	Flavor             string   `json:"flavor,omitempty"`
	Overview           string   `json:"overview,omitempty"`
	Examples           string   `json:"examples,omitempty"`
	HowToRun           string   `json:"how_to_run,omitempty"`
	Tips               string   `json:"tips,omitempty"`
	FirstNight         int      `json:"first_night,omitempty"`
	OtherNight         int      `json:"other_night,omitempty"`
	FirstNightReminder string   `json:"first_night_reminder,omitempty"`
	OtherNightReminder string   `json:"other_night_reminder,omitempty"`
	Reminders          []string `json:"reminders,omitempty"`
	GlobalReminders    []string `json:"global_reminders,omitempty"`
}

// ScriptMeta holds the script-level header fields.
type ScriptMeta struct {
	Name   string `json:"name,omitempty"`
	Author string `json:"author,omitempty"`
	Logo   string `json:"logo,omitempty"`
}

// CustomIcon references a user-supplied icon for one character. The image
// bytes live in the blob store; only the hash is part of the state.
type CustomIcon struct {
	CharacterID string `json:"character_id"`
	ContentHash string `json:"content_hash"`
}

// Filters is the UI filter state carried along with the script data.
type Filters struct {
	Teams      []string `json:"teams,omitempty"`
	TokenTypes []string `json:"token_types,omitempty"`
	Display    []string `json:"display,omitempty"`
	Reminders  []string `json:"reminders,omitempty"`
}

// Clone returns a deep copy of the state via JSON round-trip. The state
// contract guarantees losslessness, so a marshal failure means the value
// was corrupted in memory; callers get the original back in that case.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return s
	}
	var out State
	if err := json.Unmarshal(data, &out); err != nil {
		return s
	}
	return &out
}

// ComputeStats counts characters, printable tokens, and custom icons.
// Each character yields one character token plus one token per reminder.
func (s *State) ComputeStats() Stats {
	if s == nil {
		return Stats{}
	}
	tokens := 0
	for _, c := range s.Characters {
		tokens += 1 + len(c.Reminders) + len(c.GlobalReminders)
	}
	return Stats{
		Characters: len(s.Characters),
		Tokens:     tokens,
		Icons:      len(s.CustomIcons),
	}
}
