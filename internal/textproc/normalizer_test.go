package textproc

import (
	"reflect"
	"testing"
)

func TestNormalize_DedupKey(t *testing.T) {
	a := Normalize("I need to save time")
	b := Normalize("I NEED TO save time!!")

	if a != b {
		t.Errorf("Expected identical keys, got %q and %q", a, b)
	}
	if a != "need save time" {
		t.Errorf("Expected 'need save time', got %q", a)
	}
}

func TestNormalize_StripsPunctuationInsideWords(t *testing.T) {
	got := Normalize("Don't make me re-enter my card, please.")
	want := "dont make reenter card please"

	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestNormalize_AllStopwords(t *testing.T) {
	if got := Normalize("I am what I am!"); got != "" {
		t.Errorf("Expected empty key for stopword-only statement, got %q", got)
	}
	if got := Normalize(""); got != "" {
		t.Errorf("Expected empty key for empty statement, got %q", got)
	}
}

func TestNormalize_KeepsUnicodeLetters(t *testing.T) {
	got := Normalize("Café crème, über gut")
	want := "café crème über gut"

	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestWords(t *testing.T) {
	got := Words("  Save TIME, save money!  ")
	want := []string{"save", "time", "save", "money"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestTopKeywords_FrequencyThenFirstSeen(t *testing.T) {
	text := "grocery delivery is slow. delivery windows are short. grocery apps crash. checkout delivery"

	got := Default().TopKeywords(text, 3, 3)
	want := []string{"delivery", "grocery", "slow"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestTopKeywords_SkipsShortAndStopwords(t *testing.T) {
	got := Default().TopKeywords("them them them app app very very", 3, 3)

	if len(got) != 0 {
		t.Errorf("Expected no keywords, got %v", got)
	}
}

func TestTopKeywords_ZeroLimit(t *testing.T) {
	if got := Default().TopKeywords("delivery delivery", 0, 3); got != nil {
		t.Errorf("Expected nil for zero limit, got %v", got)
	}
}

func TestNewNormalizer_CustomStopwords(t *testing.T) {
	n := NewNormalizer([]string{"Grocery"})

	if !n.IsStopword("grocery") {
		t.Error("Expected stopwords to be lowercased on construction")
	}
	if got := n.Normalize("the grocery store"); got != "the store" {
		t.Errorf("Expected 'the store', got %q", got)
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("I don't want a 2nd-rate app, OK?")
	want := []string{"don", "want", "2nd", "rate", "app", "ok"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
