package talk

import (
	"errors"
	"fmt"
	"strings"
)

// Speaker is the main presenter of a talk.
type Speaker struct {
	Name            string `json:"name"`
	Email           string `json:"email" jsonschema:"format=email"`
	ExperienceLevel string `json:"experience_level" jsonschema:"enum=beginner,enum=intermediate,enum=advanced"`
}

// CoSpeaker joins the main speaker on stage.
type CoSpeaker struct {
	Name  string `json:"name"`
	Email string `json:"email" jsonschema:"format=email"`
}

// Proposal holds the fields a submitter provides. It doubles as the
// submit_talk_proposal tool arguments.
type Proposal struct {
	Title            string      `json:"title"`
	Abstract         string      `json:"abstract"`
	Speaker          Speaker     `json:"speaker"`
	CoSpeakers       []CoSpeaker `json:"co_speakers" jsonschema:"maxItems=3"`
	Category         string      `json:"category" jsonschema:"enum=AI,enum=Web Development,enum=Security,enum=DevOps,enum=UX,enum=Other"`
	Format           string      `json:"format" jsonschema:"enum=Talk,enum=Workshop,enum=Lightning Talk"`
	Keywords         []string    `json:"keywords" jsonschema:"minItems=2,maxItems=5"`
	ProposedDatetime string      `json:"proposed_datetime" jsonschema:"format=date-time"`
}

// Talk is a stored proposal.
type Talk struct {
	ID string `json:"id"`
	Proposal
}

// RecordID implements record.Record.
func (t Talk) RecordID() string { return t.ID }

// WithRecordID implements record.Record.
func (t Talk) WithRecordID(id string) Talk {
	t.ID = id
	return t
}

// Validate checks that required fields are present.
func (t Talk) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"title", t.Title},
		{"abstract", t.Abstract},
		{"speaker.name", t.Speaker.Name},
		{"speaker.email", t.Speaker.Email},
		{"category", t.Category},
		{"format", t.Format},
		{"proposed_datetime", t.ProposedDatetime},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing fields: %s", strings.Join(missing, ", "))
	}
	if len(t.CoSpeakers) > 3 {
		return errors.New("at most 3 co_speakers allowed")
	}
	return nil
}

// Seed provides the talk shipped with a fresh store.
func Seed() []Talk {
	return []Talk{
		{
			ID: "1",
			Proposal: Proposal{
				Title:    "AI Ethics and Responsibility",
				Abstract: "A talk about ethical questions and responsibility in dealing with Artificial Intelligence.",
				Speaker: Speaker{
					Name:            "Melanie Bauer",
					Email:           "melanie.bauer@example.com",
					ExperienceLevel: "advanced",
				},
				CoSpeakers:       []CoSpeaker{},
				Category:         "AI",
				Format:           "Talk",
				Keywords:         []string{"Ethics", "AI"},
				ProposedDatetime: "2026-03-03T10:00:00Z",
			},
		},
	}
}
