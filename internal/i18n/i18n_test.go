package i18n

import "testing"

func TestResolveUsesLanguageTable(t *testing.T) {
	if got := Resolve(Norwegian, "language.label"); got != "Språk" {
		t.Fatalf("Resolve(no, language.label) = %q, want Språk", got)
	}
	if got := Resolve(English, "language.label"); got != "Language" {
		t.Fatalf("Resolve(en, language.label) = %q, want Language", got)
	}
}

func TestResolveFallsBackToEnglish(t *testing.T) {
	// app.title only exists in the English table.
	if got, want := Resolve(Norwegian, "app.title"), Resolve(English, "app.title"); got != want {
		t.Fatalf("Resolve(no, app.title) = %q, want English fallback %q", got, want)
	}
	if got := Resolve(Language("de"), "editmode.guided"); got != "Guided Feedback" {
		t.Fatalf("unknown language should fall back to English, got %q", got)
	}
}

func TestResolveReturnsKeyWhenUnmapped(t *testing.T) {
	if got := Resolve(Norwegian, "does.not.exist"); got != "does.not.exist" {
		t.Fatalf("unmapped key = %q, want the key itself", got)
	}
}

func TestEveryNorwegianKeyHasEnglishCounterpart(t *testing.T) {
	for key := range tables[Norwegian] {
		if _, ok := tables[English][key]; !ok {
			t.Errorf("key %s missing from English table", key)
		}
	}
}

func TestParseLanguage(t *testing.T) {
	cases := []struct {
		raw  string
		want Language
		ok   bool
	}{
		{raw: "en", want: English, ok: true},
		{raw: "NO", want: Norwegian, ok: true},
		{raw: "en-GB", want: English, ok: true},
		{raw: "", want: English, ok: false},
		{raw: "not a tag!", want: English, ok: false},
	}
	for _, tc := range cases {
		got, ok := ParseLanguage(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseLanguage(%q) = (%s, %v), want (%s, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNextCyclesSupportedLanguages(t *testing.T) {
	if English.Next() != Norwegian || Norwegian.Next() != English {
		t.Fatalf("Next should toggle between en and no")
	}
	if Language("xx").Next() != English {
		t.Fatalf("unknown language should reset to English")
	}
}

func TestResolvef(t *testing.T) {
	got := Resolvef(English, "edit.saved", "Ask")
	if got != "Updated Ask" {
		t.Fatalf("Resolvef = %q", got)
	}
}
