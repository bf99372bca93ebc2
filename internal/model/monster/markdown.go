package monster

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Markdown renders the statblock as an Obsidian note for the Javalent Fantasy
// Statblocks plugin (Basic 5e Layout).
func (s Statblock) Markdown() string {
	tags := []string{
		"monster/cr/" + s.CR,
		"monster/size/" + strings.ToLower(s.Size),
		"monster/type/" + s.Type,
	}
	if strings.TrimSpace(s.Subtype) != "" {
		tags = append(tags, "monster/subtype/"+s.Subtype)
	}
	schemaTags := len(tags)
	for _, tag := range s.Tags {
		if tag != "" && !slices.Contains(tags[:schemaTags], tag) {
			tags = append(tags, tag)
		}
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("obsidianUIMode: preview\n")
	b.WriteString("cssclasses: json5e-monster\n")
	b.WriteString("tags:\n")
	for _, tag := range tags {
		fmt.Fprintf(&b, "  - %s\n", tag)
	}
	b.WriteString("statblock: inline\n")
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s\n\n", s.Name)
	b.WriteString("```statblock\n")
	b.WriteString("layout: Basic 5e Layout\n")
	fmt.Fprintf(&b, "name: %s\n", s.Name)
	fmt.Fprintf(&b, "size: %s\n", s.Size)
	fmt.Fprintf(&b, "type: %s\n", s.Type)
	if s.Subtype != "" {
		fmt.Fprintf(&b, "subtype: %s\n", s.Subtype)
	}
	fmt.Fprintf(&b, "alignment: %s\n", s.Alignment)
	fmt.Fprintf(&b, "ac: %d\n", s.AC)
	fmt.Fprintf(&b, "hp: %d\n", s.HP)
	fmt.Fprintf(&b, "hit_dice: %s\n", s.HitDice)
	fmt.Fprintf(&b, "speed: %q\n", s.Speed)
	fmt.Fprintf(&b, "stats: [%s]\n", joinInts(s.Stats))

	writeModifiers(&b, "saves", s.Saves)
	writeModifiers(&b, "skillsaves", s.SkillSaves)

	if s.DamageResistances != "" {
		fmt.Fprintf(&b, "damage_resistances: %q\n", s.DamageResistances)
	}
	if s.DamageImmunities != "" {
		fmt.Fprintf(&b, "damage_immunities: %q\n", s.DamageImmunities)
	}
	if s.ConditionImmunities != "" {
		fmt.Fprintf(&b, "condition_immunities: %q\n", s.ConditionImmunities)
	}
	fmt.Fprintf(&b, "senses: %q\n", s.Senses)
	fmt.Fprintf(&b, "languages: %q\n", s.Languages)
	fmt.Fprintf(&b, "cr: %s\n", s.CR)

	writeTraits(&b, "traits", s.Traits)
	writeTraits(&b, "actions", s.Actions)
	b.WriteString("```")

	if flavor := strings.TrimSpace(s.FlavorText); flavor != "" {
		fmt.Fprintf(&b, "\n \n \n*%s*", flavor)
	}
	return b.String()
}

func writeModifiers(b *strings.Builder, key string, modifiers map[string]int) {
	if len(modifiers) == 0 {
		return
	}
	names := make([]string, 0, len(modifiers))
	for name := range modifiers {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(b, "%s:\n", key)
	for _, name := range names {
		fmt.Fprintf(b, "  - %s: %d\n", name, modifiers[name])
	}
}

func writeTraits(b *strings.Builder, key string, traits []Trait) {
	if len(traits) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", key)
	for _, t := range traits {
		fmt.Fprintf(b, "  - name: %q\n", t.Name)
		fmt.Fprintf(b, "    desc: %q\n", flattenLines(t.Desc))
	}
}

func flattenLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
