// Package graph serves a read-only GraphQL view of the tray layout and the run
// journal.
package graph

import (
	"context"
	"time"

	"palbot/db"
	"palbot/graph/model"
	"palbot/palbot"
)

// This file will not be regenerated automatically.
//
// It serves as dependency injection for your app, add any dependencies you require here.

// RunStore is the part of the journal the API reads.
type RunStore interface {
	Runs(ctx context.Context) ([]*db.Run, error)
}

type Resolver struct {
	Layout *palbot.Layout
	// Runs may be nil, in which case the runs field is empty.
	Runs RunStore
}

func ConvertTray(t palbot.Tray) *model.Tray {
	ret := &model.Tray{
		Name:        t.Name(),
		Kind:        "grid",
		Columns:     t.Columns(),
		Rows:        t.Rows(),
		MaxPosition: t.MaxPosition(),
		Depth:       t.Depth(),
		Volume:      t.Volume(),
		Members:     []string{},
	}
	if c, ok := t.(*palbot.Composite); ok {
		ret.Kind = "combined"
		ret.Members = c.MemberNames()
	}
	return ret
}

func ConvertRun(r *db.Run) *model.Run {
	ret := &model.Run{
		ID:        r.ID,
		Name:      r.Name,
		Status:    r.Status,
		StartedAt: r.StartedAt.Format(time.RFC3339),
	}
	if r.FinishedAt != nil {
		f := r.FinishedAt.Format(time.RFC3339)
		ret.FinishedAt = &f
	}
	return ret
}
