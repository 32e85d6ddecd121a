package protocol

import (
	"testing"
)

func TestMap_InsertionOrder(t *testing.T) {
	m := NewMap()
	m.Set("c", Int(1))
	m.Set("a", Int(2))
	m.Set("b", Int(3))
	m.Set("a", Int(4)) // update must not move the key

	want := []string{"c", "a", "b"}
	got := m.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if v, _ := m.Get("a"); v.Int() != 4 {
		t.Errorf("Get(a) = %d, want 4", v.Int())
	}
}

func TestMap_Delete(t *testing.T) {
	m := NewMap()
	m.Set("a", Int(1))
	m.Set("b", Int(2))
	m.Set("c", Int(3))
	m.Delete("b")
	m.Delete("missing")

	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}
	if m.Keys()[0] != "a" || m.Keys()[1] != "c" {
		t.Errorf("Keys() = %v, want [a c]", m.Keys())
	}
}

func TestDecodeValue_Kinds(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		kind Kind
	}{
		{"null", `null`, KindNull},
		{"bool", `true`, KindBool},
		{"int", `42`, KindInt},
		{"negative int", `-7`, KindInt},
		{"float", `4.5`, KindFloat},
		{"exponent", `1e3`, KindFloat},
		{"overflowing int", `92233720368547758080`, KindFloat},
		{"string", `"hi"`, KindString},
		{"list", `[1,2]`, KindList},
		{"map", `{"a":1}`, KindMap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := DecodeValue([]byte(tt.doc))
			if err != nil {
				t.Fatalf("DecodeValue(%q) error: %v", tt.doc, err)
			}
			if v.Kind() != tt.kind {
				t.Errorf("Kind() = %d, want %d", v.Kind(), tt.kind)
			}
		})
	}
}

func TestDecodeValue_TrailingData(t *testing.T) {
	if _, err := DecodeValue([]byte(`{"a":1} {"b":2}`)); err == nil {
		t.Fatal("expected error for trailing data")
	}
}

func TestEncodeValue_RoundTrip(t *testing.T) {
	docs := []string{
		`{"b":true,"n":null,"i":-3,"f":0.25,"s":"x","l":[1,"two",{"deep":[]}],"m":{"z":1,"a":2}}`,
		`{"ratio":2.0,"count":2}`,
		`["mixed",3,3.5,false,null]`,
	}
	for _, doc := range docs {
		v, err := DecodeValue([]byte(doc))
		if err != nil {
			t.Fatalf("DecodeValue(%q) error: %v", doc, err)
		}
		if got := string(EncodeValue(v)); got != doc {
			t.Errorf("EncodeValue = %s, want %s", got, doc)
		}
	}
}

func TestValueOf_DeterministicMapOrder(t *testing.T) {
	v := ValueOf(map[string]any{"zulu": 1, "alpha": 2, "mike": 3})
	keys := v.Map().Keys()
	want := []string{"alpha", "mike", "zulu"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", keys, want)
		}
	}
}

func TestValue_Equal(t *testing.T) {
	a := NewMap()
	a.Set("x", Int(1))
	a.Set("y", List(String("s")))
	b := NewMap()
	b.Set("x", Int(1))
	b.Set("y", List(String("s")))

	if !MapValue(a).Equal(MapValue(b)) {
		t.Error("identical maps reported unequal")
	}

	// same entries, different order
	c := NewMap()
	c.Set("y", List(String("s")))
	c.Set("x", Int(1))
	if MapValue(a).Equal(MapValue(c)) {
		t.Error("order-differing maps reported equal")
	}

	if Int(1).Equal(Float(1)) {
		t.Error("int and float reported equal")
	}
}

func TestValue_Interface(t *testing.T) {
	m := NewMap()
	m.Set("n", Int(4))
	m.Set("list", List(Bool(true), Null()))
	got, ok := MapValue(m).Interface().(map[string]any)
	if !ok {
		t.Fatal("Interface() did not yield map[string]any")
	}
	if got["n"] != int64(4) {
		t.Errorf("n = %v, want 4", got["n"])
	}
	list, ok := got["list"].([]any)
	if !ok || len(list) != 2 || list[0] != true || list[1] != nil {
		t.Errorf("list = %v", got["list"])
	}
}
