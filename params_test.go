package strata

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func paramKeys(t ParamTable) []string {
	keys := make([]string, len(t))
	for i, p := range t {
		keys[i] = p.Key
	}
	return keys
}

func equalKeys(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestParamTableSetGet(t *testing.T) {
	var tbl ParamTable
	tbl.Set("b", NumberParam(1))
	tbl.Set("a", StringParam("x"))
	tbl.Set("b", NumberParam(2))

	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
	if !equalKeys(paramKeys(tbl), []string{"b", "a"}) {
		t.Errorf("keys = %v, want [b a]", paramKeys(tbl))
	}
	if v, ok := tbl.Get("b"); !ok || v != NumberParam(2) {
		t.Errorf("Get(b) = %v, %v; want 2, true", v, ok)
	}
	if _, ok := tbl.Get("missing"); ok {
		t.Error("Get(missing) reported ok")
	}
}

func TestParamValueAccessors(t *testing.T) {
	n := NumberParam(1.5)
	if f, ok := n.Float(); !ok || f != 1.5 {
		t.Errorf("Float() = %v, %v", f, ok)
	}
	if _, ok := n.Text(); ok {
		t.Error("Text() on a number reported ok")
	}
	s := StringParam("red")
	if v, ok := s.Text(); !ok || v != "red" {
		t.Errorf("Text() = %q, %v", v, ok)
	}
	if _, ok := s.Float(); ok {
		t.Error("Float() on a string reported ok")
	}
	if n.String() != "1.5" || s.String() != `"red"` {
		t.Errorf("String() = %s, %s", n.String(), s.String())
	}
}

func TestParamTableYAMLOrderAndTypes(t *testing.T) {
	src := `
zeta: 1
alpha: "#ff00ff"
hex: 0x10
ratio: 0.25
on: true
off: false
empty: ~
word: hello
`
	var tbl ParamTable
	if err := yaml.Unmarshal([]byte(src), &tbl); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	wantKeys := []string{"zeta", "alpha", "hex", "ratio", "on", "off", "empty", "word"}
	if !equalKeys(paramKeys(tbl), wantKeys) {
		t.Fatalf("keys = %v, want %v", paramKeys(tbl), wantKeys)
	}
	want := map[string]ParamValue{
		"zeta":  NumberParam(1),
		"alpha": StringParam("#ff00ff"),
		"hex":   NumberParam(16),
		"ratio": NumberParam(0.25),
		"on":    NumberParam(1),
		"off":   NumberParam(0),
		"empty": StringParam(""),
		"word":  StringParam("hello"),
	}
	for k, w := range want {
		if got, _ := tbl.Get(k); got != w {
			t.Errorf("%s = %v, want %v", k, got, w)
		}
	}
}

func TestParamTableYAMLRejectsNested(t *testing.T) {
	var tbl ParamTable
	if err := yaml.Unmarshal([]byte("a: [1, 2]\n"), &tbl); err == nil {
		t.Error("expected an error for a sequence value")
	}
	if err := yaml.Unmarshal([]byte("- 1\n- 2\n"), &tbl); err == nil {
		t.Error("expected an error for a sequence table")
	}
}

func TestParamTableJSONOrderAndTypes(t *testing.T) {
	src := `{"zeta": 1, "alpha": "#00ff00", "ratio": 2.5e-1, "on": true, "none": null}`
	var tbl ParamTable
	if err := json.Unmarshal([]byte(src), &tbl); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !equalKeys(paramKeys(tbl), []string{"zeta", "alpha", "ratio", "on", "none"}) {
		t.Fatalf("keys = %v", paramKeys(tbl))
	}
	if v, _ := tbl.Get("ratio"); v != NumberParam(0.25) {
		t.Errorf("ratio = %v, want 0.25", v)
	}
	if v, _ := tbl.Get("alpha"); v != StringParam("#00ff00") {
		t.Errorf("alpha = %v", v)
	}
	if v, _ := tbl.Get("on"); v != NumberParam(1) {
		t.Errorf("on = %v, want 1", v)
	}
	if v, _ := tbl.Get("none"); v != StringParam("") {
		t.Errorf("none = %v, want empty string", v)
	}
}

func TestParamTableJSONRejectsNested(t *testing.T) {
	var tbl ParamTable
	if err := json.Unmarshal([]byte(`{"a": {"b": 1}}`), &tbl); err == nil {
		t.Error("expected an error for an object value")
	}
	if err := json.Unmarshal([]byte(`[1, 2]`), &tbl); err == nil {
		t.Error("expected an error for an array table")
	}
}

func TestParamTableJSONNull(t *testing.T) {
	tbl := ParamTable{{Key: "x", Value: NumberParam(1)}}
	if err := tbl.UnmarshalJSON([]byte(`null`)); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if tbl != nil {
		t.Errorf("table = %v, want nil", tbl)
	}
}
