// Package hcldata loads problem data from HCL files: index sets,
// coefficient tables, and solve options. Keeping data in HCL lets a model
// stay code while instances live next to it as configuration.
package hcldata

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/optmodeler/internal/ctxlog"
	"github.com/vk/optmodeler/pkg/opt"
)

// ProblemData is the decoded content of one data file.
type ProblemData struct {
	// SetOrder preserves the file order of set blocks.
	SetOrder []string
	// Sets maps set name to its ordered element keys.
	Sets map[string][]opt.Key

	// TableOrder preserves the file order of table blocks.
	TableOrder []string
	// Tables maps table name to coefficients keyed by canonical key
	// string, the same form opt.KeyString produces.
	Tables map[string]map[string]float64

	// Options holds the solve options block, if present.
	Options opt.SolveOptions
}

// hclFile represents the top-level structure of a data file for decoding.
type hclFile struct {
	Sets    []*hclSet   `hcl:"set,block"`
	Tables  []*hclTable `hcl:"table,block"`
	Options *hclOptions `hcl:"options,block"`
}

type hclSet struct {
	Name     string    `hcl:"name,label"`
	Elements cty.Value `hcl:"elements"`
}

type hclTable struct {
	Name   string    `hcl:"name,label"`
	Values cty.Value `hcl:"values"`
}

type hclOptions struct {
	With string   `hcl:"with,optional"`
	Pre  []string `hcl:"pre,optional"`
	Post []string `hcl:"post,optional"`
}

// LoadProblemData parses a single HCL data file.
func LoadProblemData(ctx context.Context, filePath string) (*ProblemData, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading problem data", "path", filePath)

	parser := hclparse.NewParser()
	hclf, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
	}

	var parsed hclFile
	diags = gohcl.DecodeBody(hclf.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filePath, diags)
	}

	out := &ProblemData{
		Sets:   make(map[string][]opt.Key),
		Tables: make(map[string]map[string]float64),
	}

	for _, s := range parsed.Sets {
		keys, err := ctyKeys(s.Elements)
		if err != nil {
			return nil, fmt.Errorf("set %q in %s: %w", s.Name, filePath, err)
		}
		out.SetOrder = append(out.SetOrder, s.Name)
		out.Sets[s.Name] = keys
	}

	for _, t := range parsed.Tables {
		table, err := ctyTable(t.Values)
		if err != nil {
			return nil, fmt.Errorf("table %q in %s: %w", t.Name, filePath, err)
		}
		out.TableOrder = append(out.TableOrder, t.Name)
		out.Tables[t.Name] = table
	}

	if parsed.Options != nil {
		out.Options = opt.SolveOptions{
			With: parsed.Options.With,
			Pre:  parsed.Options.Pre,
			Post: parsed.Options.Post,
		}
	}

	logger.Debug("Loaded problem data", "sets", len(out.Sets), "tables", len(out.Tables))
	return out, nil
}

// ctyKeys converts a list or tuple value into ordered index keys. Numeric
// elements that are whole become ints so they match integer index sources.
func ctyKeys(val cty.Value) ([]opt.Key, error) {
	if val.IsNull() || !val.IsKnown() {
		return nil, fmt.Errorf("elements value is null or unknown")
	}
	if !val.Type().IsListType() && !val.Type().IsTupleType() && !val.Type().IsSetType() {
		return nil, fmt.Errorf("elements must be a list, got %s", val.Type().FriendlyName())
	}
	var keys []opt.Key
	for it := val.ElementIterator(); it.Next(); {
		_, v := it.Element()
		k, err := ctyKey(v)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func ctyKey(v cty.Value) (opt.Key, error) {
	switch v.Type() {
	case cty.String:
		return v.AsString(), nil
	case cty.Number:
		f, _ := v.AsBigFloat().Float64()
		if f == float64(int(f)) {
			return int(f), nil
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported element type %s", v.Type().FriendlyName())
	}
}

// ctyTable converts an object or map value into a coefficient table. Map
// iteration over cty objects is sorted by attribute name, so loading the
// same file always yields the same table.
func ctyTable(val cty.Value) (map[string]float64, error) {
	if val.IsNull() || !val.IsKnown() {
		return nil, fmt.Errorf("values value is null or unknown")
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("values must be an object, got %s", val.Type().FriendlyName())
	}
	out := make(map[string]float64)
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		if v.Type() != cty.Number {
			return nil, fmt.Errorf("value for key %q is not a number", k.AsString())
		}
		f, _ := v.AsBigFloat().Float64()
		out[opt.KeyString(tableKey(k.AsString()))] = f
	}
	return out, nil
}

// tableKey maps an attribute name onto an index key. Attribute names are
// always strings in HCL, so integer-looking ones are converted back to
// match integer index sources.
func tableKey(name string) opt.Key {
	if n, err := strconv.Atoi(name); err == nil {
		return n
	}
	return name
}
