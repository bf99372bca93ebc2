// Package toolset binds record stores to the tools an agent may call.
package toolset

import (
	"context"
	"fmt"
	"log"

	"github.com/zhouzirui/talk-agent/backend/internal/model/record"
	"github.com/zhouzirui/talk-agent/backend/internal/model/talk"
	"github.com/zhouzirui/talk-agent/backend/internal/tool"
)

// ListTalksInput takes no arguments.
type ListTalksInput struct{}

// DeleteTalksInput names the talks to remove.
type DeleteTalksInput struct {
	TalkIDs []string `json:"talk_ids" jsonschema_description:"Array of talk IDs to be deleted. Talk IDs can be retrieved using the list_talks function."`
}

// DeleteResult reports a batch delete.
type DeleteResult struct {
	DeletedCount int    `json:"deleted_count"`
	Message      string `json:"message"`
}

// Talks returns the conference assistant tools backed by store.
func Talks(store record.Store[talk.Talk]) (*tool.Registry, error) {
	submit, err := tool.New("submit_talk_proposal",
		"Enables submitting a talk proposal for a developer conference.",
		func(_ context.Context, in talk.Proposal) (any, error) {
			created, err := store.Create(talk.Talk{Proposal: in})
			if err != nil {
				log.Printf("[tool] submit_talk_proposal rejected: %v", err)
				return "fail", nil
			}
			log.Printf("[tool] submit_talk_proposal stored talk id=%s", created.ID)
			return "success", nil
		})
	if err != nil {
		return nil, err
	}

	list, err := tool.New("list_talks",
		"Lists all available talks including their IDs and values.",
		func(_ context.Context, _ ListTalksInput) (any, error) {
			return store.List(), nil
		})
	if err != nil {
		return nil, err
	}

	remove, err := tool.New("delete_talks",
		"Deletes multiple talks by their IDs.",
		func(_ context.Context, in DeleteTalksInput) (any, error) {
			deleted := store.DeleteMany(in.TalkIDs)
			return DeleteResult{
				DeletedCount: deleted,
				Message:      fmt.Sprintf("Successfully deleted %d talks", deleted),
			}, nil
		})
	if err != nil {
		return nil, err
	}

	return tool.NewRegistry(submit, list, remove)
}
