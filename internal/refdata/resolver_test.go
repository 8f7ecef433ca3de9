package refdata

import (
	"reflect"
	"testing"

	"github.com/triple-tgg/sams-sub000/internal/model"
)

var airlines = []model.ReferenceOption{
	{Value: "TG", Label: "Thai Airways", ID: 1},
	{Value: "PG", Label: "Bangkok Airways", ID: 2},
}

var stations = []model.ReferenceOption{
	{Value: "BKK", Label: "Bangkok Suvarnabhumi"},
	{Value: "CNX", Label: "Chiang Mai"},
}

func TestResolveByLabel(t *testing.T) {
	opt, ok := Resolve("thai airways", airlines, MatchByLabel)
	if !ok {
		t.Fatal("expected a match")
	}
	if opt.Value != "TG" || opt.ID != 1 {
		t.Errorf("got %+v, want TG/1", opt)
	}

	if _, ok := Resolve("Thai Smile", airlines, MatchByLabel); ok {
		t.Error("Thai Smile should not resolve")
	}
	// Label matching must not fall back to codes.
	if _, ok := Resolve("TG", airlines, MatchByLabel); ok {
		t.Error("code should not match in label mode")
	}
}

func TestResolveByValue(t *testing.T) {
	opt, ok := Resolve("bkk", stations, MatchByValue)
	if !ok {
		t.Fatal("expected a match")
	}
	if opt.Value != "BKK" {
		t.Errorf("got %+v, want BKK", opt)
	}

	if _, ok := Resolve("Bangkok Suvarnabhumi", stations, MatchByValue); ok {
		t.Error("display name should not match in value mode")
	}
	if _, ok := Resolve("XXX", stations, MatchByValue); ok {
		t.Error("unknown code should not resolve")
	}
}

func TestResolveBlank(t *testing.T) {
	if _, ok := Resolve("  ", airlines, MatchByLabel); ok {
		t.Error("blank input should not resolve")
	}
}

func TestSplitStaffNames(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"John Doe", []string{"John Doe"}},
		{"John Doe, Jane Roe", []string{"John Doe", "Jane Roe"}},
		{"John Doe; Jane Roe ,  Max Power", []string{"John Doe", "Jane Roe", "Max Power"}},
		{" ; , ", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := SplitStaffNames(tt.raw)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitStaffNames(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestResolveStaff(t *testing.T) {
	roster := []model.ReferenceOption{
		{Value: "jdoe", Label: "John Doe", ID: 11},
		{Value: "jroe", Label: "Jane Roe", ID: 12},
	}

	matched, unresolved := ResolveStaff("john doe; Somchai L., Jane Roe", roster)
	if len(matched) != 2 {
		t.Fatalf("matched %d staff, want 2", len(matched))
	}
	if matched[0].ID != 11 || matched[1].ID != 12 {
		t.Errorf("matched = %+v, want John Doe then Jane Roe", matched)
	}
	if !reflect.DeepEqual(unresolved, []string{"Somchai L."}) {
		t.Errorf("unresolved = %v, want [Somchai L.]", unresolved)
	}
}
