// Package custom wires site-specific extensions through the registries:
// a GraphQL field, a CLI command, a cron job and a public route. Import it
// for side effects.
package custom

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"backoffice.GO/api"
	"backoffice.GO/cmd"
	"backoffice.GO/core/apperr"
	"backoffice.GO/core/scope"
	"backoffice.GO/cron"
	gqlregistry "backoffice.GO/graphql/registry"
	inventoryEntity "backoffice.GO/model/entity/inventory"
	"backoffice.GO/service/inventory"
	"backoffice.GO/service/unit"
)

func init() {
	gqlregistry.Register("convertUnit", ConvertUnit)

	cmd.Register(&cobra.Command{
		Use:   "units:convert <value> <from> <to>",
		Short: "Convert a quantity between units of one family",
		Args:  cobra.ExactArgs(3),
		RunE: func(c *cobra.Command, args []string) error {
			out, err := convert(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "%s %s = %s %s\n", args[0], args[1], out, args[2])
			return nil
		},
	})

	cron.Register("criticalreport", "@hourly", CriticalReport)

	api.RegisterGET("/units/convert", func(c echo.Context) error {
		out, err := convert(c.QueryParam("value"), c.QueryParam("from"), c.QueryParam("to"))
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"value": out, "unit": c.QueryParam("to")})
	})
}

func convert(value, from, to string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, apperr.Validation("value", "%q is not a number", value)
	}
	return unit.Convert(v, from, to)
}

// ConvertUnit backs _extension(name: "convertUnit", args: {"value","from","to"}).
func ConvertUnit(_ context.Context, args map[string]interface{}) (interface{}, error) {
	value := fmt.Sprint(args["value"])
	from, _ := args["from"].(string)
	to, _ := args["to"].(string)
	out, err := convert(value, from, to)
	if err != nil {
		return nil, err
	}
	return map[string]string{"value": out.String(), "unit": to}, nil
}

// CriticalReport logs every critical ingredient of the given outlets, or of
// all outlets without args.
func CriticalReport(ctx context.Context, env cron.Env, args ...string) error {
	_, err := criticalIngredients(ctx, env, args...)
	return err
}

func criticalIngredients(ctx context.Context, env cron.Env, outlets ...string) ([]inventoryEntity.Ingredient, error) {
	svc := inventory.NewService(env.DB, inventory.WithLogger(env.Log))
	ctx = scope.With(ctx, scope.Scope{TargetOutletIDs: outlets})
	var out []inventoryEntity.Ingredient
	for page := 1; ; page++ {
		res, err := svc.ListIngredients(ctx, inventory.ListFilter{
			Status:   inventoryEntity.StatusCritical,
			Page:     page,
			PageSize: 100,
		})
		if err != nil {
			return nil, err
		}
		for _, ing := range res.Items {
			env.Log.Warn("critical stock",
				zap.String("outlet_id", ing.OutletID),
				zap.String("ingredient", ing.Name),
				zap.String("stock", ing.Stock.String()),
				zap.String("min_stock", ing.MinStock.String()),
				zap.String("unit", ing.Unit),
			)
		}
		out = append(out, res.Items...)
		if len(res.Items) < res.PageSize {
			return out, nil
		}
	}
}
