package strata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a YAML mapping into the table, keeping key order.
func (t *ParamTable) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*t = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("strata: parameters at line %d: expected a mapping", node.Line)
	}
	out := make(ParamTable, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		val, err := yamlParam(v)
		if err != nil {
			return fmt.Errorf("strata: parameter %q: %w", k.Value, err)
		}
		out.Set(k.Value, val)
	}
	*t = out
	return nil
}

func yamlParam(n *yaml.Node) (ParamValue, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.ScalarNode {
		return ParamValue{}, fmt.Errorf("line %d: expected a scalar value", n.Line)
	}
	switch n.ShortTag() {
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			// Leave the YAML decoder to handle forms like 0o17 and 1_000.
			var v int64
			if derr := n.Decode(&v); derr != nil {
				return ParamValue{}, derr
			}
			i = v
		}
		return NumberParam(float64(i)), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return ParamValue{}, err
		}
		return NumberParam(f), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return ParamValue{}, err
		}
		return boolParam(b), nil
	case "!!null":
		return StringParam(""), nil
	default:
		return StringParam(n.Value), nil
	}
}

// UnmarshalJSON decodes a JSON object into the table, keeping key order.
func (t *ParamTable) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("strata: parameters: %w", err)
	}
	if tok == nil {
		*t = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("strata: parameters: expected an object")
	}

	var out ParamTable
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("strata: parameters: %w", err)
		}
		key, _ := keyTok.(string)
		valTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("strata: parameter %q: %w", key, err)
		}
		var val ParamValue
		switch v := valTok.(type) {
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return fmt.Errorf("strata: parameter %q: %w", key, err)
			}
			val = NumberParam(f)
		case string:
			val = StringParam(v)
		case bool:
			val = boolParam(v)
		case nil:
			val = StringParam("")
		default:
			return fmt.Errorf("strata: parameter %q: expected a scalar value", key)
		}
		out.Set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("strata: parameters: %w", err)
	}
	*t = out
	return nil
}

func boolParam(b bool) ParamValue {
	if b {
		return NumberParam(1)
	}
	return NumberParam(0)
}
