package monster

import (
	"fmt"
	"strings"
)

// Trait is a named special ability or action.
type Trait struct {
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// Statblock is the D&D 5e data collected by the write_monster tool.
type Statblock struct {
	Name                string         `json:"name"`
	Size                string         `json:"size" jsonschema:"enum=Tiny,enum=Small,enum=Medium,enum=Large,enum=Huge,enum=Gargantuan"`
	Type                string         `json:"type" jsonschema_description:"Creature type, e.g. aberration, fiend, beast."`
	Subtype             string         `json:"subtype" jsonschema_description:"Subtype such as voidborn or demon. Use an empty string if not applicable."`
	Alignment           string         `json:"alignment" jsonschema:"enum=lawful good,enum=neutral good,enum=chaotic good,enum=lawful neutral,enum=neutral,enum=chaotic neutral,enum=lawful evil,enum=neutral evil,enum=chaotic evil"`
	AC                  int            `json:"ac" jsonschema_description:"Armor class"`
	HP                  int            `json:"hp"`
	HitDice             string         `json:"hit_dice" jsonschema_description:"e.g. '4d8' or '2d6 + 2'"`
	Speed               string         `json:"speed" jsonschema_description:"e.g. '30 ft.' or '0 ft., fly 30 ft. (hover)'"`
	Stats               []int          `json:"stats" jsonschema:"minItems=6,maxItems=6" jsonschema_description:"Ability scores in order: STR, DEX, CON, INT, WIS, CHA"`
	Saves               map[string]int `json:"saves,omitempty" jsonschema_description:"Saving throw modifiers, e.g. {\"dexterity\": 5}"`
	SkillSaves          map[string]int `json:"skillsaves,omitempty" jsonschema_description:"Skill modifiers, e.g. {\"stealth\": 5}"`
	DamageResistances   string         `json:"damage_resistances"`
	DamageImmunities    string         `json:"damage_immunities"`
	ConditionImmunities string         `json:"condition_immunities"`
	Senses              string         `json:"senses" jsonschema_description:"e.g. 'darkvision 60 ft., passive Perception 10'"`
	Languages           string         `json:"languages"`
	CR                  string         `json:"cr" jsonschema_description:"Challenge rating e.g. '1/4' or '9'"`
	Traits              []Trait        `json:"traits" jsonschema_description:"Special traits; use an empty array if none."`
	Actions             []Trait        `json:"actions" jsonschema_description:"Actions the creature can take; use an empty array if none."`
	Tags                []string       `json:"tags" jsonschema_description:"Extra frontmatter tags such as homebrew. Statblock tags are added automatically."`
	FlavorText          string         `json:"flavor_text"`
}

// Monster is a stored statblock.
type Monster struct {
	ID string `json:"id"`
	Statblock
}

// RecordID implements record.Record.
func (m Monster) RecordID() string { return m.ID }

// WithRecordID implements record.Record.
func (m Monster) WithRecordID(id string) Monster {
	m.ID = id
	return m
}

// Validate checks the fields the statblock layout cannot render without.
func (m Monster) Validate() error {
	var missing []string
	if strings.TrimSpace(m.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(m.Size) == "" {
		missing = append(missing, "size")
	}
	if strings.TrimSpace(m.Type) == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(m.CR) == "" {
		missing = append(missing, "cr")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing fields: %s", strings.Join(missing, ", "))
	}
	if len(m.Stats) != 6 {
		return fmt.Errorf("stats must hold 6 ability scores, got %d", len(m.Stats))
	}
	return nil
}
