package dictionary

import "testing"

func TestSplitWordMatchesWindowConvention(t *testing.T) {
	got := splitWord("ab bc cd ef gh kl", WordWindow)
	want := []wordWindow{
		{"ab bc cd", 0},
		{"bc cd ef", 3},
		{"cd ef gh", 6},
		{"ef gh kl", 9},
		{"gh kl", 12},
		{"kl", 15},
	}
	if len(got) != len(want) {
		t.Fatalf("splitWord returned %d windows; want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("window %d = %+v; want %+v", i, got[i], want[i])
		}
	}
}

func schema() []AttributeDef {
	return []AttributeDef{
		{Name: "title", Mode: ModeExact},
		{Name: "description", Mode: ModeMultiple},
		{Name: "internal_id", Mode: ModeNone},
	}
}

func TestAddEntryUnknownAttributesDropped(t *testing.T) {
	d := New(schema())
	id, ok := d.AddEntry(map[string]string{"bogus": "x"})
	if ok {
		t.Fatalf("AddEntry with only unknown keys = (%d, true); want ok=false", id)
	}
}

func TestAddEntryAndExactSearch(t *testing.T) {
	d := New(schema())
	id, ok := d.AddEntry(map[string]string{"title": "Hello World"})
	if !ok {
		t.Fatalf("AddEntry() ok = false; want true")
	}

	results := d.Search("Hello World")
	if len(results) != 1 {
		t.Fatalf("Search(\"Hello World\") = %d results; want 1", len(results))
	}
	if results[0].EntryID != id || results[0].AttributeName != "title" {
		t.Errorf("Search result = %+v; want EntryID=%d AttributeName=title", results[0], id)
	}
	if results[0].Term != "Hello World" {
		t.Errorf("Search result Term = %q; want %q (byte-accurate original casing)", results[0].Term, "Hello World")
	}
}

func TestAddEntryModeNoneNotIndexed(t *testing.T) {
	d := New(schema())
	d.AddEntry(map[string]string{"internal_id": "should not be searchable"})
	if got := d.Search("should not"); len(got) != 0 {
		t.Fatalf("Search on a ModeNone attribute = %+v; want no hits", got)
	}
}

func TestAddEntryMultipleModeWindowedSearch(t *testing.T) {
	d := New(schema())
	id, _ := d.AddEntry(map[string]string{"description": "the quick brown fox jumps"})

	got := d.Search("quick brown")
	if len(got) == 0 {
		t.Fatalf("Search(\"quick brown\") = no results; want at least one")
	}
	found := false
	for _, r := range got {
		if r.EntryID == id && r.AttributeName == "description" {
			found = true
		}
	}
	if !found {
		t.Errorf("Search(\"quick brown\") = %+v; want a hit on the description attribute", got)
	}
}

func TestSearchBelowMinLengthIsEmpty(t *testing.T) {
	d := New(schema())
	d.AddEntry(map[string]string{"title": "ok"})
	if got := d.Search("ok"); len(got) != 0 {
		t.Fatalf("Search(\"ok\") (len < MinTermLength) = %+v; want empty", got)
	}
}

func TestSearchLongTermUsesSubstringFilter(t *testing.T) {
	d := New(schema())
	d.AddEntry(map[string]string{"description": "alpha beta gamma delta epsilon"})
	d.AddEntry(map[string]string{"description": "alpha beta gamma zulu epsilon"})

	got := d.Search("alpha beta gamma delta epsilon")
	if len(got) != 1 {
		t.Fatalf("Search with a 5-token term = %d results; want exactly 1 (substring filter excludes the zulu variant)", len(got))
	}
}

func TestRecentEntriesMostRecentFirst(t *testing.T) {
	d := New(schema())
	var ids []uint32
	for i := 0; i < 5; i++ {
		id, _ := d.AddEntry(map[string]string{"title": "entry"})
		ids = append(ids, id)
	}

	got := d.RecentEntries(3)
	want := []uint32{ids[4], ids[3], ids[2]}
	if len(got) != len(want) {
		t.Fatalf("RecentEntries(3) = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RecentEntries(3)[%d] = %d; want %d", i, got[i], want[i])
		}
	}
}

func TestRecentEntriesCapsAtBound(t *testing.T) {
	d := New(schema())
	var last uint32
	for i := 0; i < 30; i++ {
		last, _ = d.AddEntry(map[string]string{"title": "entry"})
	}
	got := d.RecentEntries(100)
	if len(got) != recentEntriesCap {
		t.Fatalf("RecentEntries(100) returned %d entries; want %d (the log's cap)", len(got), recentEntriesCap)
	}
	if got[0] != last {
		t.Errorf("RecentEntries(100)[0] = %d; want %d (most recent)", got[0], last)
	}
}

func TestGetReconstructsRecord(t *testing.T) {
	d := New(schema())
	id, _ := d.AddEntry(map[string]string{"title": "Hello", "description": "a short blurb"})

	got := d.Get(id)
	if got["title"] != "Hello" || got["description"] != "a short blurb" {
		t.Errorf("Get(%d) = %+v; want title/description to round-trip", id, got)
	}
}

func TestGetOutOfRangeReturnsEmptyMap(t *testing.T) {
	d := New(schema())
	got := d.Get(999)
	if len(got) != 0 {
		t.Errorf("Get(999) on empty dictionary = %+v; want empty map", got)
	}
}

func TestParseAttributeSearchModeUnknownDefaultsToNone(t *testing.T) {
	if got := ParseAttributeSearchMode("bogus"); got != ModeNone {
		t.Errorf("ParseAttributeSearchMode(bogus) = %v; want ModeNone", got)
	}
	if got := ParseAttributeSearchMode("EXACT"); got != ModeExact {
		t.Errorf("ParseAttributeSearchMode(EXACT) = %v; want ModeExact", got)
	}
}
