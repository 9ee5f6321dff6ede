package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/b24io/bitrix24-client/internal/constants"
	"github.com/b24io/bitrix24-client/pkg/b24client"
	"github.com/b24io/bitrix24-client/pkg/bitrix24"
	"github.com/b24io/bitrix24-client/pkg/logging"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	OutputFormatJSON = constants.FormatJSON
	OutputFormatYAML = constants.FormatYAML
)

// Common static errors used throughout the commands package.
var (
	ErrWebhookRequired     = errors.New("webhook URL is required (use --webhook, B24_WEBHOOK, or 'b24 target')")
	ErrMethodRequired      = errors.New("REST method name is required")
	ErrInvalidParamFormat  = errors.New("parameters must be key=value (nest with dots, e.g. filter.>ID=42)")
	ErrInvalidWebhookInput = errors.New("webhook URL must not be empty")
)

// getClient builds a client from the resolved configuration.
func getClient() (bitrix24.Client, error) {
	webhook := viper.GetString("webhook")
	if webhook == "" {
		return nil, ErrWebhookRequired
	}

	config := &bitrix24.Config{
		WebhookURL: webhook,
		Timeout:    viper.GetDuration("timeout"),
		Debug:      viper.GetBool("debug"),
	}
	if viper.GetBool("verbose") || config.Debug {
		config.Logger = logging.NewComponentAdapter("cli")
	}

	client, err := b24client.New(config)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return client, nil
}

// parseParams turns key=value arguments into request parameters. Dots in the
// key nest, so "filter.>ID=42 order.ID=asc" becomes filter[>ID]=42 and
// order[ID]=asc on the wire. A comma-separated value becomes a list.
func parseParams(args []string) (bitrix24.Params, error) {
	params := bitrix24.Params{}

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("argument %q: %w", arg, ErrInvalidParamFormat)
		}

		params = setPath(params, strings.Split(key, "."), value)
	}

	return params, nil
}

func setPath(params bitrix24.Params, path []string, value string) bitrix24.Params {
	if len(path) == 1 {
		return params.Set(path[0], coerceValue(value))
	}

	var child bitrix24.Params
	if existing, ok := params.Get(path[0]); ok {
		if nested, ok := existing.(bitrix24.Params); ok {
			child = nested
		}
	}

	return params.Set(path[0], setPath(child, path[1:], value))
}

func coerceValue(value string) interface{} {
	if strings.Contains(value, ",") {
		return strings.Split(value, ",")
	}

	return value
}

// renderResult writes a merged call result in the configured output format.
func renderResult(result bitrix24.Result) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(result)
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		return encoder.Encode(result.Value())
	default:
		return renderResultTable(result)
	}
}

func renderResultTable(result bitrix24.Result) error {
	switch result.Kind() {
	case bitrix24.ResultObject:
		return renderObjectTable(result.Object())
	case bitrix24.ResultList:
		return renderRows(rowsOf(result.List()))
	case bitrix24.ResultScalar:
		fmt.Println(formatCell(result.Scalar()))

		return nil
	default:
		fmt.Println("(empty result)")

		return nil
	}
}

func renderObjectTable(obj map[string]interface{}) error {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	for _, key := range keys {
		_ = table.Append(key, formatCell(obj[key]))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderRows writes list rows as a table with columns taken from the first
// row's keys.
func renderRows(rows []map[string]interface{}) error {
	if len(rows) == 0 {
		fmt.Println("No rows found")

		return nil
	}

	columns := make([]string, 0, len(rows[0]))
	for key := range rows[0] {
		columns = append(columns, key)
	}

	sort.Strings(columns)

	header := make([]interface{}, len(columns))
	for i, column := range columns {
		header[i] = column
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header(header...)

	for _, row := range rows {
		cells := make([]interface{}, len(columns))
		for i, column := range columns {
			cells[i] = formatCell(row[column])
		}

		_ = table.Append(cells...)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderRowsAny dispatches bulk-fetch rows through the configured format.
func renderRowsAny(rows []map[string]interface{}) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(rows)
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		return encoder.Encode(rows)
	default:
		return renderRows(rows)
	}
}

// rowsOf keeps only the object rows of a mixed list.
func rowsOf(list []interface{}) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(list))

	for _, item := range list {
		if row, ok := item.(map[string]interface{}); ok {
			rows = append(rows, row)
		}
	}

	return rows
}

func formatCell(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]interface{}, []interface{}:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}

		return string(encoded)
	default:
		return fmt.Sprint(v)
	}
}
