package graph

import (
	"context"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/introspection"
	"github.com/vektah/gqlparser/v2/ast"
)

func includeDeprecated(ctx context.Context) (bool, error) {
	v, ok := args(ctx)["includeDeprecated"]
	if !ok || v == nil {
		return false, nil
	}
	return graphql.UnmarshalBoolean(v)
}

func (ec *executionContext) ___Schema(ctx context.Context, sel ast.SelectionSet, obj *introspection.Schema) graphql.Marshaler {
	if obj == nil {
		return graphql.Null
	}
	return ec.object(ctx, sel, "__Schema", func(ctx context.Context, f graphql.CollectedField) graphql.Marshaler {
		switch f.Name {
		case "description":
			return marshalOptString(obj.Description())
		case "types":
			types := obj.Types()
			list := make(graphql.Array, len(types))
			for i := range types {
				list[i] = ec.___Type(ctx, f.Selections, &types[i])
			}
			return list
		case "queryType":
			return ec.___Type(ctx, f.Selections, obj.QueryType())
		case "mutationType":
			return ec.___Type(ctx, f.Selections, obj.MutationType())
		case "subscriptionType":
			return ec.___Type(ctx, f.Selections, obj.SubscriptionType())
		case "directives":
			dirs := obj.Directives()
			list := make(graphql.Array, len(dirs))
			for i := range dirs {
				list[i] = ec.___Directive(ctx, f.Selections, &dirs[i])
			}
			return list
		}
		return graphql.Null
	})
}

func (ec *executionContext) ___Type(ctx context.Context, sel ast.SelectionSet, obj *introspection.Type) graphql.Marshaler {
	if obj == nil {
		return graphql.Null
	}
	return ec.object(ctx, sel, "__Type", func(ctx context.Context, f graphql.CollectedField) graphql.Marshaler {
		switch f.Name {
		case "kind":
			return graphql.MarshalString(obj.Kind())
		case "name":
			return marshalOptString(obj.Name())
		case "description":
			return marshalOptString(obj.Description())
		case "specifiedByURL":
			return marshalOptString(obj.SpecifiedByURL())
		case "fields":
			inc, err := includeDeprecated(ctx)
			if err != nil {
				return fieldError(ctx, err)
			}
			fields := obj.Fields(inc)
			if fields == nil {
				return graphql.Null
			}
			list := make(graphql.Array, len(fields))
			for i := range fields {
				list[i] = ec.___Field(ctx, f.Selections, &fields[i])
			}
			return list
		case "interfaces":
			return ec.typeList(ctx, f.Selections, obj.Interfaces())
		case "possibleTypes":
			return ec.typeList(ctx, f.Selections, obj.PossibleTypes())
		case "enumValues":
			inc, err := includeDeprecated(ctx)
			if err != nil {
				return fieldError(ctx, err)
			}
			values := obj.EnumValues(inc)
			if values == nil {
				return graphql.Null
			}
			list := make(graphql.Array, len(values))
			for i := range values {
				list[i] = ec.___EnumValue(ctx, f.Selections, &values[i])
			}
			return list
		case "inputFields":
			return ec.inputValueList(ctx, f.Selections, obj.InputFields())
		case "ofType":
			return ec.___Type(ctx, f.Selections, obj.OfType())
		}
		return graphql.Null
	})
}

func (ec *executionContext) typeList(ctx context.Context, sel ast.SelectionSet, types []introspection.Type) graphql.Marshaler {
	if types == nil {
		return graphql.Null
	}
	list := make(graphql.Array, len(types))
	for i := range types {
		list[i] = ec.___Type(ctx, sel, &types[i])
	}
	return list
}

func (ec *executionContext) inputValueList(ctx context.Context, sel ast.SelectionSet, values []introspection.InputValue) graphql.Marshaler {
	if values == nil {
		return graphql.Null
	}
	list := make(graphql.Array, len(values))
	for i := range values {
		list[i] = ec.___InputValue(ctx, sel, &values[i])
	}
	return list
}

func (ec *executionContext) ___Field(ctx context.Context, sel ast.SelectionSet, obj *introspection.Field) graphql.Marshaler {
	return ec.object(ctx, sel, "__Field", func(ctx context.Context, f graphql.CollectedField) graphql.Marshaler {
		switch f.Name {
		case "name":
			return graphql.MarshalString(obj.Name)
		case "description":
			return marshalOptString(obj.Description())
		case "args":
			in := obj.Args
			if in == nil {
				in = []introspection.InputValue{}
			}
			return ec.inputValueList(ctx, f.Selections, in)
		case "type":
			return ec.___Type(ctx, f.Selections, obj.Type)
		case "isDeprecated":
			return graphql.MarshalBoolean(obj.IsDeprecated())
		case "deprecationReason":
			return marshalOptString(obj.DeprecationReason())
		}
		return graphql.Null
	})
}

func (ec *executionContext) ___InputValue(ctx context.Context, sel ast.SelectionSet, obj *introspection.InputValue) graphql.Marshaler {
	return ec.object(ctx, sel, "__InputValue", func(ctx context.Context, f graphql.CollectedField) graphql.Marshaler {
		switch f.Name {
		case "name":
			return graphql.MarshalString(obj.Name)
		case "description":
			return marshalOptString(obj.Description())
		case "type":
			return ec.___Type(ctx, f.Selections, obj.Type)
		case "defaultValue":
			return marshalOptString(obj.DefaultValue)
		case "isDeprecated":
			return graphql.MarshalBoolean(false)
		}
		return graphql.Null
	})
}

func (ec *executionContext) ___EnumValue(ctx context.Context, sel ast.SelectionSet, obj *introspection.EnumValue) graphql.Marshaler {
	return ec.object(ctx, sel, "__EnumValue", func(ctx context.Context, f graphql.CollectedField) graphql.Marshaler {
		switch f.Name {
		case "name":
			return graphql.MarshalString(obj.Name)
		case "description":
			return marshalOptString(obj.Description())
		case "isDeprecated":
			return graphql.MarshalBoolean(obj.IsDeprecated())
		case "deprecationReason":
			return marshalOptString(obj.DeprecationReason())
		}
		return graphql.Null
	})
}

func (ec *executionContext) ___Directive(ctx context.Context, sel ast.SelectionSet, obj *introspection.Directive) graphql.Marshaler {
	return ec.object(ctx, sel, "__Directive", func(ctx context.Context, f graphql.CollectedField) graphql.Marshaler {
		switch f.Name {
		case "name":
			return graphql.MarshalString(obj.Name)
		case "description":
			return marshalOptString(obj.Description())
		case "locations":
			locs := obj.Locations
			if locs == nil {
				locs = []string{}
			}
			return marshalStrings(locs)
		case "args":
			in := obj.Args
			if in == nil {
				in = []introspection.InputValue{}
			}
			return ec.inputValueList(ctx, f.Selections, in)
		case "isRepeatable":
			return graphql.MarshalBoolean(obj.IsRepeatable)
		}
		return graphql.Null
	})
}
