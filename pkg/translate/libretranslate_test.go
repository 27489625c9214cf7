package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTranslate(t *testing.T) {
	var got translateReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(translateResp{TranslatedText: "family SUV"})
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	out, err := c.Translate(context.Background(), "سيارة عائلية", "ar", "en")
	if err != nil {
		t.Fatal(err)
	}
	if out != "family SUV" {
		t.Errorf("got %q", out)
	}
	if got.Source != "ar" || got.Target != "en" {
		t.Errorf("source/target = %q/%q", got.Source, got.Target)
	}
	if got.APIKey != "secret" {
		t.Errorf("api key = %q", got.APIKey)
	}
}

func TestTranslate_RegionalSource(t *testing.T) {
	var got translateReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(translateResp{TranslatedText: "ok"})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	if _, err := c.Translate(context.Background(), "text", "ar-AE", "en"); err != nil {
		t.Fatal(err)
	}
	if got.Source != "ar" {
		t.Errorf("regional code not reduced: %q", got.Source)
	}
}

func TestTranslate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	if _, err := c.Translate(context.Background(), "text", "ar", "en"); err == nil {
		t.Fatal("expected error")
	}
}

func TestTranslate_ContextCanceled(t *testing.T) {
	c := New("http://127.0.0.1:1", "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Translate(ctx, "text", "ar", "en"); err == nil {
		t.Fatal("expected error")
	}
}

func TestBaseLang(t *testing.T) {
	cases := map[string]string{
		"ar-AE": "ar",
		"en-GB": "en",
		"en":    "en",
		"":      "",
	}
	for in, want := range cases {
		if got := baseLang(in); got != want {
			t.Errorf("baseLang(%q) = %q, want %q", in, got, want)
		}
	}
}
