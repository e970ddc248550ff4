package graph

// This file will be automatically regenerated based on the schema, any resolver implementations
// will be copied through when generating and any unknown code will be moved to the end.

import (
	"context"
	"errors"

	"palbot/graph/model"
	"palbot/palbot"
)

// Trays is the resolver for the trays field.
func (r *queryResolver) Trays(ctx context.Context) ([]*model.Tray, error) {
	trays := r.Layout.Trays()
	ret := make([]*model.Tray, len(trays))
	for i, t := range trays {
		ret[i] = ConvertTray(t)
	}
	return ret, nil
}

// Tray is the resolver for the tray field.
func (r *queryResolver) Tray(ctx context.Context, name string) (*model.Tray, error) {
	t, err := r.Layout.Tray(name)
	if errors.Is(err, palbot.ErrUnknownTray) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ConvertTray(t), nil
}

// Resolve is the resolver for the resolve field.
func (r *queryResolver) Resolve(ctx context.Context, tray string, position int, direction *model.Direction) (*palbot.Position, error) {
	dir := palbot.ColumnsFirst
	if direction != nil {
		var err error
		if dir, err = palbot.ParseDirection(direction.String()); err != nil {
			return nil, err
		}
	}
	p, err := r.Layout.Resolve(tray, position, dir)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Runs is the resolver for the runs field.
func (r *queryResolver) Runs(ctx context.Context) ([]*model.Run, error) {
	ret := []*model.Run{}
	if r.Resolver.Runs == nil {
		return ret, nil
	}
	runs, err := r.Resolver.Runs.Runs(ctx)
	if err != nil {
		return nil, err
	}
	for _, run := range runs {
		ret = append(ret, ConvertRun(run))
	}
	return ret, nil
}

// Query returns QueryResolver implementation.
func (r *Resolver) Query() QueryResolver { return &queryResolver{r} }

type queryResolver struct{ *Resolver }
