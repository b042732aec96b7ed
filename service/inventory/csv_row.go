package inventory

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"

	"backoffice.GO/service/unit"
)

// CSVHeader is the column order of an ingredient export.
var CSVHeader = []string{"ID", "Name", "SKU", "Category", "Stock", "Unit", "MinStock", "AvgCost"}

// Row is one parsed and validated line of an ingredient CSV.
type Row struct {
	ID       string          `mapstructure:"id"`
	Name     string          `mapstructure:"name" validate:"required"`
	SKU      string          `mapstructure:"sku" validate:"required"`
	Category string          `mapstructure:"category"`
	Stock    decimal.Decimal `mapstructure:"stock" validate:"gte=0"`
	Unit     string          `mapstructure:"unit" validate:"required"`
	MinStock decimal.Decimal `mapstructure:"minstock" validate:"gte=0"`
	AvgCost  decimal.Decimal `mapstructure:"avgcost" validate:"gte=0"`
}

// RowError reports why a CSV line was skipped. Line is 1-based and counts
// the header.
type RowError struct {
	Line int    `json:"line"`
	Err  string `json:"error"`
}

var (
	rowValidator = newRowValidator()
	decimalType  = reflect.TypeOf(decimal.Decimal{})
)

func newRowValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		d := field.Interface().(decimal.Decimal)
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})
	return v
}

// decimalHook turns CSV strings into decimals. Blank cells read as zero.
func decimalHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != decimalType || from.Kind() != reflect.String {
		return data, nil
	}
	s := strings.TrimSpace(data.(string))
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// ParseRow decodes one record keyed by lower-cased header names.
func ParseRow(record map[string]string) (Row, error) {
	var row Row
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       decimalHook,
		WeaklyTypedInput: true,
		Result:           &row,
	})
	if err != nil {
		return Row{}, err
	}
	trimmed := make(map[string]string, len(record))
	for k, v := range record {
		trimmed[k] = strings.TrimSpace(v)
	}
	if err := dec.Decode(trimmed); err != nil {
		return Row{}, err
	}
	if err := rowValidator.Struct(row); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return Row{}, fmt.Errorf("%s: failed %s", strings.ToLower(fe.Field()), fe.Tag())
		}
		return Row{}, err
	}
	canonical, ok := unit.Normalize(row.Unit)
	if !ok {
		return Row{}, fmt.Errorf("unit: unknown unit %q", row.Unit)
	}
	row.Unit = canonical
	return row, nil
}
