package domain

import (
	"reflect"
	"testing"
)

func TestBuildQuery_EmptyState(t *testing.T) {
	params := BuildQuery(NewFilterState())

	want := QueryParameters{
		{Key: ParamSort, Value: DefaultSort},
		{Key: ParamConfiguration, Value: DefaultConfiguration},
	}
	if !reflect.DeepEqual(params, want) {
		t.Errorf("expected %v, got %v", want, params)
	}
	if params.Encode() != "sort=score&configuration=default" {
		t.Errorf("unexpected encoding %q", params.Encode())
	}
}

func TestBuildQuery_Deterministic(t *testing.T) {
	f := NewFilterState()
	for _, v := range []string{"Roe, R", "Doe, J", "Abe, A"} {
		_ = f.Toggle(DimensionAuthor, v, true)
	}
	_ = f.Toggle(DimensionItemType, "Article", true)
	f.SetQueryTerm("coast")

	first := BuildQuery(f).Encode()
	for i := 0; i < 10; i++ {
		if got := BuildQuery(f).Encode(); got != first {
			t.Fatalf("query changed between builds: %q vs %q", first, got)
		}
	}
}

func TestBuildQuery_Filters(t *testing.T) {
	f := NewFilterState()
	_ = f.Toggle(DimensionAuthor, "Doe, Jane", true)
	_ = f.Toggle(DimensionAuthor, "Abe, Al", true)
	_ = f.Toggle(DimensionSubject, "Geology", true)
	_ = f.Toggle(DimensionDateRange, "1990-1999", true)
	_ = f.Toggle(DimensionItemType, "Thesis", true)
	no := false
	f.SetHasFile(&no)

	params := BuildQuery(f)

	tests := map[string]string{
		"f.author":                         "Abe, Al,Doe, Jane,equals",
		"f.subject":                        "Geology,equals",
		"f.dateIssued":                     "1990-1999,equals",
		"f.type":                           "Thesis,equals",
		"f.has_content_in_original_bundle": "false,equals",
	}
	for key, want := range tests {
		got, ok := params.Get(key)
		if !ok {
			t.Errorf("missing %s", key)
			continue
		}
		if got != want {
			t.Errorf("%s: expected %q, got %q", key, want, got)
		}
	}
	if params.Has(ParamQuery) || params.Has(ParamEmbed) {
		t.Error("unexpected free-text parameters")
	}
}

func TestBuildQuery_BlankTerm(t *testing.T) {
	f := NewFilterState()
	f.SetQueryTerm("   ")

	params := BuildQuery(f)
	if params.Has(ParamQuery) || params.Has(ParamEmbed) {
		t.Errorf("blank term must not produce query or embed, got %v", params)
	}
}

func TestBuildQuery_TermIsTrimmed(t *testing.T) {
	f := NewFilterState()
	f.SetQueryTerm("  coastal erosion ")

	params := BuildQuery(f)
	if v, _ := params.Get(ParamEmbed); v != EmbedItem {
		t.Errorf("expected embed=item, got %q", v)
	}
	if v, _ := params.Get(ParamQuery); v != "coastal erosion" {
		t.Errorf("expected trimmed term, got %q", v)
	}
	if params[len(params)-1].Key != ParamQuery {
		t.Errorf("expected query last, got %v", params)
	}
}

func TestQueryParameters_Encode(t *testing.T) {
	params := QueryParameters{{Key: "f.author", Value: "Doe, Jane,equals"}, {Key: "query", Value: "a&b"}}
	want := "f.author=Doe%2C+Jane%2Cequals&query=a%26b"
	if got := params.Encode(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFilterParam(t *testing.T) {
	if _, err := FilterParam(Dimension("nope")); err != ErrUnknownDimension {
		t.Errorf("expected ErrUnknownDimension, got %v", err)
	}
	if name, _ := FilterParam(DimensionItemType); name != "f.type" {
		t.Errorf("expected f.type, got %s", name)
	}
}
