package toolset

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/zhouzirui/talk-agent/backend/internal/model/monster"
	"github.com/zhouzirui/talk-agent/backend/internal/model/record"
	"github.com/zhouzirui/talk-agent/backend/internal/model/talk"
	"github.com/zhouzirui/talk-agent/backend/internal/tool"
)

const validProposal = `{
	"title": "Go for AI agents",
	"abstract": "Building tool-calling loops in Go.",
	"speaker": {"name": "Ada", "email": "ada@example.com", "experience_level": "intermediate"},
	"co_speakers": [],
	"category": "AI",
	"format": "Workshop",
	"keywords": ["Go", "AI"],
	"proposed_datetime": "2026-03-04T09:00:00Z"
}`

func sequentialIDs(prefix string) func() string {
	next := 0
	return func() string {
		next++
		return fmt.Sprintf("%s-%d", prefix, next)
	}
}

func talkRegistry(t *testing.T) (*tool.Registry, *record.MemoryStore[talk.Talk]) {
	t.Helper()
	store := record.NewMemoryStore(talk.Seed(), sequentialIDs("t"))
	reg, err := Talks(store)
	if err != nil {
		t.Fatalf("Talks err: %v", err)
	}
	return reg, store
}

func TestTalkToolNames(t *testing.T) {
	reg, _ := talkRegistry(t)

	want := []string{"submit_talk_proposal", "list_talks", "delete_talks"}
	got := reg.Names()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected tools %v", got)
	}
}

func TestSubmitTalkProposal(t *testing.T) {
	reg, store := talkRegistry(t)

	out := reg.Dispatch(context.Background(), "submit_talk_proposal", validProposal)
	if out.Output != "success" {
		t.Fatalf("expected success, got %+v", out)
	}

	got, ok := store.Get("t-1")
	if !ok {
		t.Fatal("expected stored talk t-1")
	}
	if got.Title != "Go for AI agents" || got.Speaker.Email != "ada@example.com" {
		t.Fatalf("unexpected stored talk %+v", got)
	}
}

func TestSubmitTalkProposalSchemaViolations(t *testing.T) {
	reg, store := talkRegistry(t)

	var proposal map[string]any
	if err := json.Unmarshal([]byte(validProposal), &proposal); err != nil {
		t.Fatalf("unmarshal err: %v", err)
	}

	mutations := map[string]func(map[string]any){
		"bad category":  func(p map[string]any) { p["category"] = "Cooking" },
		"one keyword":   func(p map[string]any) { p["keywords"] = []string{"Go"} },
		"bad email":     func(p map[string]any) { p["speaker"] = map[string]any{"name": "Ada", "email": "not-an-email", "experience_level": "advanced"} },
		"missing title": func(p map[string]any) { delete(p, "title") },
	}
	for name, mutate := range mutations {
		clone := map[string]any{}
		for k, v := range proposal {
			clone[k] = v
		}
		mutate(clone)
		payload, _ := json.Marshal(clone)

		out := reg.Dispatch(context.Background(), "submit_talk_proposal", string(payload))
		if out.Kind != tool.OutcomeInvalidArguments {
			t.Errorf("%s: expected invalid_arguments, got %s (%s)", name, out.Kind, out.Output)
		}
	}
	if n := len(store.List()); n != 1 {
		t.Fatalf("rejected proposals must not be stored, have %d talks", n)
	}
}

func TestListTalksReturnsJSONArray(t *testing.T) {
	reg, _ := talkRegistry(t)

	out := reg.Dispatch(context.Background(), "list_talks", `{}`)
	var talks []talk.Talk
	if err := json.Unmarshal([]byte(out.Output), &talks); err != nil {
		t.Fatalf("list output is not a talk array: %v (%s)", err, out.Output)
	}
	if len(talks) != 1 || talks[0].ID != "1" {
		t.Fatalf("unexpected talks %+v", talks)
	}
}

func TestListTalksEmptyStoreIsEmptyArray(t *testing.T) {
	reg, err := Talks(record.NewMemoryStore[talk.Talk](nil, nil))
	if err != nil {
		t.Fatalf("Talks err: %v", err)
	}

	out := reg.Dispatch(context.Background(), "list_talks", `{}`)
	if out.Output != "[]" {
		t.Fatalf("expected [], got %q", out.Output)
	}
}

func TestDeleteTalks(t *testing.T) {
	reg, store := talkRegistry(t)

	out := reg.Dispatch(context.Background(), "delete_talks", `{"talk_ids":["1","nonexistent"]}`)
	want := `{"deleted_count":1,"message":"Successfully deleted 1 talks"}`
	if out.Output != want {
		t.Fatalf("unexpected output %q", out.Output)
	}
	if _, ok := store.Get("1"); ok {
		t.Fatal("talk 1 should be deleted")
	}
}

func TestDeleteTalksRequiresIDs(t *testing.T) {
	reg, _ := talkRegistry(t)

	out := reg.Dispatch(context.Background(), "delete_talks", `{}`)
	if out.Kind != tool.OutcomeInvalidArguments {
		t.Fatalf("expected invalid_arguments, got %+v", out)
	}
}

const voidSpark = `{
	"name": "Void Spark", "size": "Tiny", "type": "aberration", "subtype": "voidborn",
	"alignment": "chaotic neutral", "ac": 13, "hp": 7, "hit_dice": "2d4 + 2",
	"speed": "0 ft., fly 30 ft. (hover)", "stats": [3, 16, 12, 6, 10, 8],
	"damage_resistances": "", "damage_immunities": "", "condition_immunities": "",
	"senses": "darkvision 60 ft.", "languages": "", "cr": "1/4",
	"traits": [], "actions": [{"name": "Zap", "desc": "1d6 force."}],
	"tags": [], "flavor_text": ""
}`

func TestMonsterLifecycle(t *testing.T) {
	store := record.NewMemoryStore[monster.Monster](nil, sequentialIDs("m"))
	reg, err := Monsters(store)
	if err != nil {
		t.Fatalf("Monsters err: %v", err)
	}
	ctx := context.Background()

	write := reg.Dispatch(ctx, "write_monster", voidSpark)
	if !strings.Contains(write.Output, `"success":true`) || !strings.Contains(write.Output, `"id":"m-1"`) {
		t.Fatalf("unexpected write output %s", write.Output)
	}

	list := reg.Dispatch(ctx, "list_monsters", `{}`)
	if list.Output != `{"monsters":[{"id":"m-1","name":"Void Spark","cr":"1/4","type":"aberration"}],"count":1}` {
		t.Fatalf("unexpected list output %s", list.Output)
	}

	read := reg.Dispatch(ctx, "read_monster", `{"id":"m-1"}`)
	var readResult struct {
		Success bool   `json:"success"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(read.Output), &readResult); err != nil {
		t.Fatalf("read output not json: %v", err)
	}
	if !readResult.Success || !strings.Contains(readResult.Content, "```statblock") {
		t.Fatalf("unexpected read output %s", read.Output)
	}

	del := reg.Dispatch(ctx, "delete_monster", `{"id":"m-1"}`)
	if !strings.Contains(del.Output, `"success":true`) {
		t.Fatalf("unexpected delete output %s", del.Output)
	}

	again := reg.Dispatch(ctx, "read_monster", `{"id":"m-1"}`)
	if !strings.Contains(again.Output, `"success":false`) {
		t.Fatalf("expected not found after delete, got %s", again.Output)
	}
}

func TestWriteMonsterRejectsWrongStatCount(t *testing.T) {
	reg, err := Monsters(record.NewMemoryStore[monster.Monster](nil, nil))
	if err != nil {
		t.Fatalf("Monsters err: %v", err)
	}

	payload := strings.Replace(voidSpark, "[3, 16, 12, 6, 10, 8]", "[3, 16]", 1)
	out := reg.Dispatch(context.Background(), "write_monster", payload)
	if out.Kind != tool.OutcomeInvalidArguments {
		t.Fatalf("expected invalid_arguments, got %+v", out)
	}
}
