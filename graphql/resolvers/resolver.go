package resolvers

import (
	"context"
	"encoding/json"
	"fmt"

	gqlregistry "backoffice.GO/graphql/registry"
	"backoffice.GO/service/inventory"
	"backoffice.GO/service/purchase"
)

// QueryResolver resolves every Query field. Inventory reads live in
// ingredient.go.
type QueryResolver struct {
	inventory *inventory.Service
	purchase  *purchase.Service
}

func NewQueryResolver(inv *inventory.Service, pur *purchase.Service) *QueryResolver {
	return &QueryResolver{inventory: inv, purchase: pur}
}

// Extension runs a resolver registered in graphql/registry. Args is a JSON
// object; the result is returned JSON-encoded.
func (r *QueryResolver) Extension(ctx context.Context, args struct {
	Name string
	Args *string
}) (*string, error) {
	in := map[string]interface{}{}
	if args.Args != nil && *args.Args != "" {
		if err := json.Unmarshal([]byte(*args.Args), &in); err != nil {
			return nil, fmt.Errorf("_extension %s: args must be a JSON object: %w", args.Name, err)
		}
	}
	out, err := gqlregistry.Resolve(ctx, args.Name, in)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}
