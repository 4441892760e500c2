package abi

import (
	"encoding/json"
	"testing"
)

func TestEntryMarshalJSONFunction(t *testing.T) {
	e := Entry{Kind: KindFunction, Selector: "0x2e64cec1", Payable: true}
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if out["type"] != "function" {
		t.Errorf("type = %v, want function", out["type"])
	}
	if out["selector"] != "0x2e64cec1" {
		t.Errorf("selector = %v", out["selector"])
	}
	if out["payable"] != true {
		t.Errorf("payable = %v, want true", out["payable"])
	}
}

func TestEntryMarshalJSONEvent(t *testing.T) {
	e := Entry{Kind: KindEvent, Hash: "0x" + repeat("ab", 32)}
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if out["type"] != "event" {
		t.Errorf("type = %v, want event", out["type"])
	}
	if _, ok := out["selector"]; ok {
		t.Error("event entry should not have a selector field")
	}
}

func repeat(s string, n int) string {
	out := make([]byte, 0, len(s)*n)
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}
