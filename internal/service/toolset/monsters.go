package toolset

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/zhouzirui/talk-agent/backend/internal/model/monster"
	"github.com/zhouzirui/talk-agent/backend/internal/model/record"
	"github.com/zhouzirui/talk-agent/backend/internal/tool"
)

// ListMonstersInput takes no arguments.
type ListMonstersInput struct{}

// MonsterIDInput addresses a single monster.
type MonsterIDInput struct {
	ID string `json:"id" jsonschema_description:"Monster id as returned by list_monsters or write_monster."`
}

// MonsterSummary is the list_monsters view of a stored monster.
type MonsterSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	CR   string `json:"cr"`
	Type string `json:"type"`
}

type monsterList struct {
	Monsters []MonsterSummary `json:"monsters"`
	Count    int              `json:"count"`
}

type monsterResult struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Monsters returns the monster creator tools backed by store.
func Monsters(store record.Store[monster.Monster]) (*tool.Registry, error) {
	write, err := tool.New("write_monster",
		"Write a D&D 5e monster to the bestiary. Use after you have gathered enough information from the user (name, type, CR, abilities, etc.). The monster is rendered in the Javalent Fantasy Statblocks format (Basic 5e Layout).",
		func(_ context.Context, in monster.Statblock) (any, error) {
			log.Printf("[tool] write_monster name=%q cr=%s type=%s size=%s", in.Name, in.CR, in.Type, in.Size)
			created, err := store.Create(monster.Monster{Statblock: in})
			if err != nil {
				return monsterResult{Success: false, Error: err.Error()}, nil
			}
			return monsterResult{
				Success: true,
				ID:      created.ID,
				Message: fmt.Sprintf("Monster %q written with id %s", created.Name, created.ID),
			}, nil
		})
	if err != nil {
		return nil, err
	}

	list, err := tool.New("list_monsters",
		"List monsters in the bestiary. Use to avoid duplicate names or show the user what exists.",
		func(_ context.Context, _ ListMonstersInput) (any, error) {
			monsters := store.List()
			summaries := make([]MonsterSummary, 0, len(monsters))
			for _, m := range monsters {
				summaries = append(summaries, MonsterSummary{ID: m.ID, Name: m.Name, CR: m.CR, Type: m.Type})
			}
			sort.SliceStable(summaries, func(i, j int) bool {
				return summaries[i].Name < summaries[j].Name
			})
			return monsterList{Monsters: summaries, Count: len(summaries)}, nil
		})
	if err != nil {
		return nil, err
	}

	read, err := tool.New("read_monster",
		"Read an existing monster as statblock markdown. Use to show the user a statblock or to base a new monster on an existing one.",
		func(_ context.Context, in MonsterIDInput) (any, error) {
			m, ok := store.Get(in.ID)
			if !ok {
				return monsterResult{Success: false, Error: "Monster not found: " + in.ID}, nil
			}
			return monsterResult{Success: true, ID: m.ID, Content: m.Markdown()}, nil
		})
	if err != nil {
		return nil, err
	}

	remove, err := tool.New("delete_monster",
		"Delete a monster from the bestiary. Use when the user asks to remove a creature. Confirm the id (e.g. from list_monsters) before deleting.",
		func(_ context.Context, in MonsterIDInput) (any, error) {
			if store.DeleteMany([]string{in.ID}) == 0 {
				return monsterResult{Success: false, Error: "Monster not found: " + in.ID}, nil
			}
			return monsterResult{Success: true, Message: "Deleted " + in.ID}, nil
		})
	if err != nil {
		return nil, err
	}

	return tool.NewRegistry(write, list, read, remove)
}
