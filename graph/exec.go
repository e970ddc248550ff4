package graph

import (
	"bytes"
	"context"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/introspection"
	"github.com/vektah/gqlparser/v2/ast"

	"palbot/graph/model"
	"palbot/palbot"
)

// NewExecutableSchema creates an ExecutableSchema from the ResolverRoot interface.
func NewExecutableSchema(cfg Config) graphql.ExecutableSchema {
	return &executableSchema{resolvers: cfg.Resolvers}
}

type Config struct {
	Resolvers ResolverRoot
}

type ResolverRoot interface {
	Query() QueryResolver
}

type QueryResolver interface {
	Trays(ctx context.Context) ([]*model.Tray, error)
	Tray(ctx context.Context, name string) (*model.Tray, error)
	Resolve(ctx context.Context, tray string, position int, direction *model.Direction) (*palbot.Position, error)
	Runs(ctx context.Context) ([]*model.Run, error)
}

var _ QueryResolver = (*queryResolver)(nil)

type executableSchema struct {
	resolvers ResolverRoot
}

func (e *executableSchema) Schema() *ast.Schema {
	return parsedSchema
}

func (e *executableSchema) Complexity(typeName, field string, childComplexity int, rawArgs map[string]interface{}) (int, bool) {
	return 0, false
}

func (e *executableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	rc := graphql.GetOperationContext(ctx)
	ec := executionContext{rc, e}

	if rc.Operation.Operation != ast.Query {
		return graphql.OneShot(graphql.ErrorResponse(ctx, "unsupported GraphQL operation"))
	}
	first := true
	return func(ctx context.Context) *graphql.Response {
		if !first {
			return nil
		}
		first = false
		data := ec._Query(ctx, rc.Operation.SelectionSet)
		var buf bytes.Buffer
		data.MarshalGQL(&buf)
		return &graphql.Response{Data: buf.Bytes()}
	}
}

type executionContext struct {
	*graphql.OperationContext
	*executableSchema
}

// object collects the selected fields of typename and resolves each with
// field. A null in a non-null field nulls the whole object.
func (ec *executionContext) object(ctx context.Context, sel ast.SelectionSet, typename string,
	field func(ctx context.Context, f graphql.CollectedField) graphql.Marshaler) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, []string{typename})
	out := graphql.NewFieldSet(fields)
	for i, f := range fields {
		if f.Name == "__typename" {
			out.Values[i] = graphql.MarshalString(typename)
			continue
		}
		fctx := graphql.WithFieldContext(ctx, &graphql.FieldContext{
			Object: typename,
			Field:  f,
			Args:   f.ArgumentMap(ec.Variables),
		})
		v := field(fctx, f)
		if v == nil {
			v = graphql.Null
		}
		if v == graphql.Null && f.Definition != nil && f.Definition.Type.NonNull {
			return graphql.Null
		}
		out.Values[i] = v
	}
	return out
}

func fieldError(ctx context.Context, err error) graphql.Marshaler {
	graphql.AddError(ctx, err)
	return graphql.Null
}

func args(ctx context.Context) map[string]interface{} {
	return graphql.GetFieldContext(ctx).Args
}

func (ec *executionContext) _Query(ctx context.Context, sel ast.SelectionSet) graphql.Marshaler {
	q := ec.resolvers.Query()
	return ec.object(ctx, sel, "Query", func(ctx context.Context, f graphql.CollectedField) graphql.Marshaler {
		switch f.Name {
		case "__schema":
			if ec.DisableIntrospection {
				graphql.AddErrorf(ctx, "introspection disabled")
				return graphql.Null
			}
			return ec.___Schema(ctx, f.Selections, introspection.WrapSchema(parsedSchema))
		case "__type":
			if ec.DisableIntrospection {
				graphql.AddErrorf(ctx, "introspection disabled")
				return graphql.Null
			}
			name, err := graphql.UnmarshalString(args(ctx)["name"])
			if err != nil {
				return fieldError(ctx, err)
			}
			def := parsedSchema.Types[name]
			if def == nil {
				return graphql.Null
			}
			return ec.___Type(ctx, f.Selections, introspection.WrapTypeFromDef(parsedSchema, def))
		case "trays":
			trays, err := q.Trays(ctx)
			if err != nil {
				return fieldError(ctx, err)
			}
			list := make(graphql.Array, len(trays))
			for i, t := range trays {
				list[i] = ec._Tray(ctx, f.Selections, t)
			}
			return list
		case "tray":
			name, err := graphql.UnmarshalString(args(ctx)["name"])
			if err != nil {
				return fieldError(ctx, err)
			}
			t, err := q.Tray(ctx, name)
			if err != nil {
				return fieldError(ctx, err)
			}
			return ec._Tray(ctx, f.Selections, t)
		case "resolve":
			a := args(ctx)
			tray, err := graphql.UnmarshalString(a["tray"])
			if err != nil {
				return fieldError(ctx, err)
			}
			position, err := graphql.UnmarshalInt(a["position"])
			if err != nil {
				return fieldError(ctx, err)
			}
			var dir *model.Direction
			if v := a["direction"]; v != nil {
				dir = new(model.Direction)
				if err := dir.UnmarshalGQL(v); err != nil {
					return fieldError(ctx, err)
				}
			}
			p, err := q.Resolve(ctx, tray, position, dir)
			if err != nil {
				return fieldError(ctx, err)
			}
			return ec._Position(ctx, f.Selections, p)
		case "runs":
			runs, err := q.Runs(ctx)
			if err != nil {
				return fieldError(ctx, err)
			}
			list := make(graphql.Array, len(runs))
			for i, r := range runs {
				list[i] = ec._Run(ctx, f.Selections, r)
			}
			return list
		}
		return graphql.Null
	})
}

func (ec *executionContext) _Tray(ctx context.Context, sel ast.SelectionSet, obj *model.Tray) graphql.Marshaler {
	if obj == nil {
		return graphql.Null
	}
	return ec.object(ctx, sel, "Tray", func(ctx context.Context, f graphql.CollectedField) graphql.Marshaler {
		switch f.Name {
		case "name":
			return graphql.MarshalString(obj.Name)
		case "kind":
			return graphql.MarshalString(obj.Kind)
		case "columns":
			return graphql.MarshalInt(obj.Columns)
		case "rows":
			return graphql.MarshalInt(obj.Rows)
		case "maxPosition":
			return graphql.MarshalInt(obj.MaxPosition)
		case "depth":
			return graphql.MarshalFloat(obj.Depth)
		case "volume":
			return graphql.MarshalFloat(obj.Volume)
		case "members":
			return marshalStrings(obj.Members)
		}
		return graphql.Null
	})
}

func (ec *executionContext) _Position(ctx context.Context, sel ast.SelectionSet, obj *palbot.Position) graphql.Marshaler {
	if obj == nil {
		return graphql.Null
	}
	return ec.object(ctx, sel, "Position", func(ctx context.Context, f graphql.CollectedField) graphql.Marshaler {
		switch f.Name {
		case "x":
			return graphql.MarshalInt(obj.X)
		case "y":
			return graphql.MarshalInt(obj.Y)
		case "z":
			return graphql.MarshalInt(obj.Z)
		}
		return graphql.Null
	})
}

func (ec *executionContext) _Run(ctx context.Context, sel ast.SelectionSet, obj *model.Run) graphql.Marshaler {
	if obj == nil {
		return graphql.Null
	}
	return ec.object(ctx, sel, "Run", func(ctx context.Context, f graphql.CollectedField) graphql.Marshaler {
		switch f.Name {
		case "id":
			return graphql.MarshalString(obj.ID)
		case "name":
			return graphql.MarshalString(obj.Name)
		case "status":
			return graphql.MarshalString(obj.Status)
		case "startedAt":
			return graphql.MarshalString(obj.StartedAt)
		case "finishedAt":
			return marshalOptString(obj.FinishedAt)
		}
		return graphql.Null
	})
}

func marshalStrings(v []string) graphql.Marshaler {
	if v == nil {
		return graphql.Null
	}
	list := make(graphql.Array, len(v))
	for i, s := range v {
		list[i] = graphql.MarshalString(s)
	}
	return list
}

func marshalOptString(v *string) graphql.Marshaler {
	if v == nil {
		return graphql.Null
	}
	return graphql.MarshalString(*v)
}
