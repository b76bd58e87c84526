package core

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestParamsFromStruct(t *testing.T) {
	type clanQuery struct {
		Name         string `url:"name,omitempty"`
		MinMembers   int    `url:"minMembers,omitempty"`
		LocationID   int    `url:"locationId,omitempty"`
		LabelIDs     []int  `url:"labelIds,omitempty"`
		WarFrequency string `url:"warFrequency,omitempty"`
		Ignored      string `url:"-"`
	}

	tests := []struct {
		name  string
		input any
		want  Params
	}{
		{
			name:  "populated fields",
			input: clanQuery{Name: "pupus", MinMembers: 10},
			want:  Params{"name": "pupus", "minMembers": "10"},
		},
		{
			name:  "pointer",
			input: &clanQuery{WarFrequency: "always"},
			want:  Params{"warFrequency": "always"},
		},
		{
			name:  "multi value joined with commas",
			input: clanQuery{LabelIDs: []int{56000000, 56000001}},
			want:  Params{"labelIds": "56000000,56000001"},
		},
		{
			name:  "ignored fields",
			input: clanQuery{Ignored: "x"},
			want:  Params{},
		},
		{
			name:  "nil",
			input: nil,
			want:  Params{},
		},
		{
			name:  "nil pointer",
			input: (*clanQuery)(nil),
			want:  Params{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParamsFromStruct(tt.input)
			if err != nil {
				t.Fatalf("ParamsFromStruct() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParamsFromStruct() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParamsFromStruct_MatchesNamedArguments(t *testing.T) {
	type query struct {
		Name string `url:"name,omitempty"`
	}
	fromStruct, err := ParamsFromStruct(query{Name: "pupus"})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := newRoot().Attr("clans").Call(fromStruct).BuildUri()
	b, _ := newRoot().Attr("clans").Call(map[string]any{"name": "pupus"}).BuildUri()
	if a != b {
		t.Errorf("%q != %q", a, b)
	}
}

func TestParams_Operations(t *testing.T) {
	base := Params{"a": 1, "b": 2}

	cp := base.Copy()
	cp["c"] = 3
	if _, ok := base["c"]; ok {
		t.Error("Copy() shares the underlying map")
	}

	cp.Update(Params{"a": "x"})
	if cp["a"] != "x" {
		t.Errorf("Update() should overwrite, got %v", cp["a"])
	}

	cp.Without("b", "missing")
	if _, ok := cp["b"]; ok {
		t.Error("Without() did not remove b")
	}

	if q := (Params{"name": "a b", "limit": 2}).ToQuery(); q != "limit=2&name=a+b" {
		t.Errorf("ToQuery() = %q", q)
	}
	if got := Params(nil).Copy(); got == nil || len(got) != 0 {
		t.Errorf("nil Copy() = %v", got)
	}
}

func TestRecord_Fill(t *testing.T) {
	type league struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		IconUrls struct {
			Small string `json:"small"`
		} `json:"iconUrls"`
	}

	record := Record{
		"id":       int64(29000022),
		"name":     "Legend League",
		"iconUrls": map[string]any{"small": "https://api-assets.clashofclans.com/leagues/72/R2zmhyqQ0_lKcDR5EyghXCxgyC9mm_mVMIjAbmGoZtw.png"},
	}

	var got league
	if err := record.Fill(&got); err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	if got.ID != 29000022 || got.Name != "Legend League" || !strings.HasSuffix(got.IconUrls.Small, ".png") {
		t.Errorf("Fill() = %+v", got)
	}

	if err := record.Fill(got); err == nil {
		t.Error("Fill() with a non-pointer should fail")
	}
	var notStruct int
	if err := record.Fill(&notStruct); err == nil {
		t.Error("Fill() with a non-struct pointer should fail")
	}
}

func TestRecordSet_Fill(t *testing.T) {
	type label struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	set := RecordSet{
		{"id": int64(56000000), "name": "Clan Wars"},
		{"id": int64(56000001), "name": "Clan War League"},
	}

	var values []label
	if err := set.Fill(&values); err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	if len(values) != 2 || values[1].Name != "Clan War League" {
		t.Errorf("Fill() = %+v", values)
	}

	var pointers []*label
	if err := set.Fill(&pointers); err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	if len(pointers) != 2 || pointers[0].ID != 56000000 {
		t.Errorf("Fill() = %+v", pointers)
	}

	var wrong []int
	if err := set.Fill(&wrong); err == nil {
		t.Error("Fill() into []int should fail")
	}
}

func TestRecord_Accessors(t *testing.T) {
	record := Record{"tag": "#2PP", "name": "pupus"}
	if record.RecordTag() != "#2PP" || record.RecordName() != "pupus" {
		t.Errorf("accessors = %q %q", record.RecordTag(), record.RecordName())
	}
	if (Record{}).RecordTag() != "" || !(Record{}).Empty() {
		t.Error("empty record accessors")
	}
}

func TestRecord_PrettyTable(t *testing.T) {
	record := Record{"tag": "#2PP", "name": "pupus", "badgeUrls": map[string]any{"small": "s"}}
	table := record.PrettyTable()

	for _, want := range []string{"tag", "#2PP", "pupus", "<<remaining attrs>>", `"small":"s"`} {
		if !strings.Contains(table, want) {
			t.Errorf("PrettyTable() missing %q:\n%s", want, table)
		}
	}
	if (Record{}).PrettyTable() != "<>" {
		t.Error("empty record table")
	}
	if (RecordSet{}).PrettyTable() != "[]" {
		t.Error("empty set table")
	}
}

func TestRecord_PrettyJson(t *testing.T) {
	record := Record{"id": int64(1)}
	if got := record.PrettyJson(); got != `{"id":1}` {
		t.Errorf("PrettyJson() = %s", got)
	}
	if got := record.PrettyJson("  "); got != "{\n  \"id\": 1\n}" {
		t.Errorf("PrettyJson(indent) = %s", got)
	}
	if got := (RecordSet{record}).PrettyJson(); got != `[{"id":1}]` {
		t.Errorf("RecordSet.PrettyJson() = %s", got)
	}
}

func TestRecord_ToMsgpack(t *testing.T) {
	record := Record{"name": "pupus", "members": int64(12)}
	data, err := record.ToMsgpack()
	if err != nil {
		t.Fatalf("ToMsgpack() error = %v", err)
	}
	var decoded map[string]any
	if err = msgpack.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("msgpack.Unmarshal() error = %v", err)
	}
	if decoded["name"] != "pupus" {
		t.Errorf("decoded = %v", decoded)
	}

	setData, err := RecordSet{record, {"name": "other"}}.ToMsgpack()
	if err != nil {
		t.Fatalf("RecordSet.ToMsgpack() error = %v", err)
	}
	var decodedSet []map[string]any
	if err = msgpack.Unmarshal(setData, &decodedSet); err != nil {
		t.Fatalf("msgpack.Unmarshal() error = %v", err)
	}
	if len(decodedSet) != 2 || decodedSet[1]["name"] != "other" {
		t.Errorf("decoded set = %v", decodedSet)
	}
}
