package schema

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

type testRecord struct {
	ItemID    string            `schema:"itemId"`
	Body      string            `schema:"body"`
	IsDone    bool              `schema:"isDone"`
	Priority  int64             `schema:"priority"`
	CreatedAt time.Time         `schema:"createdAt"`
	Tags      []string          `schema:"tags"`
	Meta      map[string]string `schema:"meta"`
	Watchers  Set               `schema:"watchers"`
}

func TestDescribe_PropertyOrderAndKinds(t *testing.T) {
	d, err := Describe(testRecord{})
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}

	want := []Property{
		{Name: "itemId", Kind: KindText},
		{Name: "body", Kind: KindText},
		{Name: "isDone", Kind: KindBool},
		{Name: "priority", Kind: KindInt64},
		{Name: "createdAt", Kind: KindTimestamp},
		{Name: "tags", Kind: KindList},
		{Name: "meta", Kind: KindMap},
		{Name: "watchers", Kind: KindSet},
	}
	got := d.Properties()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Properties() = %v, want %v", got, want)
	}
	if d.TypeName() != "testRecord" {
		t.Errorf("TypeName() = %q, want %q", d.TypeName(), "testRecord")
	}
}

func TestDescribe_Deterministic(t *testing.T) {
	d1, err := Describe(testRecord{})
	if err != nil {
		t.Fatalf("first Describe: %v", err)
	}
	d2, err := Describe(&testRecord{})
	if err != nil {
		t.Fatalf("second Describe: %v", err)
	}
	if d1 != d2 {
		t.Error("expected the same cached descriptor for both calls")
	}
	if !reflect.DeepEqual(d1.Properties(), d2.Properties()) {
		t.Error("property sets differ between calls")
	}
}

func TestDescribe_ScalarWidths(t *testing.T) {
	type widths struct {
		A int8    `schema:"a"`
		B int16   `schema:"b"`
		C int32   `schema:"c"`
		D int     `schema:"d"`
		E uint8   `schema:"e"`
		F uint64  `schema:"f"`
		G float32 `schema:"g"`
		H float64 `schema:"h"`
	}
	d, err := Describe(widths{})
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	wantKinds := map[string]Kind{
		"a": KindInt8, "b": KindInt16, "c": KindInt32, "d": KindInt64,
		"e": KindUint8, "f": KindUint64, "g": KindFloat32, "h": KindFloat64,
	}
	for name, want := range wantKinds {
		got, ok := d.Kind(name)
		if !ok {
			t.Errorf("property %q missing", name)
			continue
		}
		if got != want {
			t.Errorf("Kind(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestDescribe_SkipsUnmappedTypes(t *testing.T) {
	type withChannel struct {
		Name string        `schema:"name"`
		Ch   chan int      `schema:"ch"`
		Dur  time.Duration `schema:"dur"` // int64 underneath, still mapped
		Raw  []byte        `schema:"raw"`
	}
	d, err := Describe(withChannel{})
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if d.Has("ch") {
		t.Error("channel property should be excluded from the descriptor")
	}
	if d.Has("raw") {
		t.Error("[]byte property should be excluded from the descriptor")
	}
	if !d.Has("name") || !d.Has("dur") {
		t.Error("mappable properties must survive an unmapped sibling")
	}

	skipped := d.Skipped()
	if len(skipped) != 2 {
		t.Fatalf("Skipped() = %v, want 2 entries", skipped)
	}
	if skipped[0].Name != "ch" || skipped[0].Signature == "" {
		t.Errorf("skipped[0] = %+v, want name ch with a signature", skipped[0])
	}
}

func TestDescribe_IgnoresUnexportedAndDashed(t *testing.T) {
	type partial struct {
		Public  string `schema:"public"`
		Skipped string `schema:"-"`
		hidden  string
	}
	_ = partial{hidden: ""}
	d, err := Describe(partial{})
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if d.Len() != 1 || !d.Has("public") {
		t.Errorf("descriptor = %v, want only %q", d.Properties(), "public")
	}
}

func TestDescribe_UntaggedFieldName(t *testing.T) {
	type untagged struct {
		Body   string
		IsDone bool
	}
	d, err := Describe(untagged{})
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if !d.Has("body") || !d.Has("isDone") {
		t.Errorf("descriptor = %v, want lowered field names", d.Properties())
	}
}

func TestDescribe_NonStruct(t *testing.T) {
	if _, err := Describe(42); err == nil {
		t.Error("expected error describing a non-struct")
	}
	if _, err := Describe(nil); err == nil {
		t.Error("expected error describing nil")
	}
}

func TestNewDescriptor_DuplicateName(t *testing.T) {
	_, err := NewDescriptor("dup", []Property{
		{Name: "x", Kind: KindText},
		{Name: "x", Kind: KindBool},
	})
	if err == nil {
		t.Error("expected error for duplicate property name")
	}
}

func TestDescriptor_JSONRoundTrip(t *testing.T) {
	d, err := Describe(testRecord{})
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Descriptor
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.TypeName() != d.TypeName() {
		t.Errorf("type name = %q, want %q", back.TypeName(), d.TypeName())
	}
	if !reflect.DeepEqual(back.Properties(), d.Properties()) {
		t.Errorf("round-trip properties = %v, want %v", back.Properties(), d.Properties())
	}
}

func TestKindOf_NormalizesPlatformInts(t *testing.T) {
	v, k := KindOf(7)
	if k != KindInt64 {
		t.Errorf("KindOf(int) kind = %v, want %v", k, KindInt64)
	}
	if _, ok := v.(int64); !ok {
		t.Errorf("KindOf(int) value = %T, want int64", v)
	}

	if _, k := KindOf(struct{}{}); k != KindUnknown {
		t.Errorf("KindOf(struct{}{}) = %v, want %v", k, KindUnknown)
	}
}

func TestSet_Basics(t *testing.T) {
	s := NewSet("b", "a")
	if !s.Has("a") || !s.Has("b") || s.Has("c") {
		t.Errorf("membership wrong: %v", s)
	}
	if s.Add("a") {
		t.Error("Add of existing element should report no change")
	}
	if !s.Add("c") {
		t.Error("Add of new element should report a change")
	}
	if !s.Delete("b") || s.Delete("b") {
		t.Error("Delete should report a change exactly once")
	}
	if got := s.Elems(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("Elems() = %v, want [a c]", got)
	}

	clone := s.Clone()
	clone.Add("z")
	if s.Has("z") {
		t.Error("Clone must not share storage")
	}
}

func TestSet_JSONRoundTrip(t *testing.T) {
	s := NewSet("y", "x")
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `["x","y"]` {
		t.Errorf("marshal = %s, want sorted array", data)
	}
	var back Set
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, s) {
		t.Errorf("round-trip = %v, want %v", back, s)
	}
}

func TestValuesApply_RoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	src := testRecord{
		ItemID:    "td-1",
		Body:      "water the plants",
		IsDone:    true,
		Priority:  2,
		CreatedAt: now,
		Tags:      []string{"home", "garden"},
		Meta:      map[string]string{"room": "kitchen"},
		Watchers:  NewSet("ana"),
	}
	values, _, err := Values(src)
	if err != nil {
		t.Fatalf("Values: %v", err)
	}

	// Mutating the extracted collections must not touch the source.
	values["tags"].([]string)[0] = "mutated"
	if src.Tags[0] != "home" {
		t.Error("Values must copy collections")
	}
	values["tags"].([]string)[0] = "home"

	var dst testRecord
	if err := Apply(&dst, values); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !reflect.DeepEqual(dst, src) {
		t.Errorf("round-trip = %+v, want %+v", dst, src)
	}
}

func TestApply_KindMismatch(t *testing.T) {
	var dst testRecord
	err := Apply(&dst, map[string]any{"body": 42})
	if err == nil {
		t.Error("expected kind mismatch error")
	}
}

func TestFromJSON(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		in      any
		want    any
		wantErr bool
	}{
		{"text", KindText, "hi", "hi", false},
		{"text rejects number", KindText, 3.0, nil, true},
		{"bool", KindBool, true, true, false},
		{"int64", KindInt64, 5.0, int64(5), false},
		{"int64 rejects fraction", KindInt64, 5.5, nil, true},
		{"int8 range", KindInt8, 300.0, nil, true},
		{"int64 range high", KindInt64, 1e300, nil, true},
		{"int64 range low", KindInt64, -1e300, nil, true},
		{"uint rejects negative", KindUint32, -1.0, nil, true},
		{"uint64 range", KindUint64, 1e300, nil, true},
		{"float", KindFloat64, 2.5, 2.5, false},
		{"timestamp", KindTimestamp, "2026-01-02T03:04:05Z",
			time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), false},
		{"timestamp rejects junk", KindTimestamp, "yesterday", nil, true},
		{"list", KindList, []any{"a", "b"}, []string{"a", "b"}, false},
		{"list rejects mixed", KindList, []any{"a", 1.0}, nil, true},
		{"set", KindSet, []any{"a", "a", "b"}, NewSet("a", "b"), false},
		{"map", KindMap, map[string]any{"k": "v"}, map[string]string{"k": "v"}, false},
		{"map rejects non-string", KindMap, map[string]any{"k": 1.0}, nil, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromJSON(tc.kind, tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("FromJSON(%v, %v): expected error", tc.kind, tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromJSON(%v, %v): %v", tc.kind, tc.in, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("FromJSON(%v, %v) = %#v, want %#v", tc.kind, tc.in, got, tc.want)
			}
		})
	}
}

func TestKindStringRoundTrip(t *testing.T) {
	for k := KindInt8; k <= KindSet; k++ {
		text, err := k.MarshalText()
		if err != nil {
			t.Fatalf("marshal %v: %v", k, err)
		}
		var back Kind
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("unmarshal %s: %v", text, err)
		}
		if back != k {
			t.Errorf("round-trip %v = %v", k, back)
		}
	}
	var bad Kind
	if err := bad.UnmarshalText([]byte("quaternion")); err == nil {
		t.Error("expected error for unknown kind name")
	}
}
