package webfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Espresso Guide</title></head>
<body>
<nav>Home | About | Contact</nav>
<article>
<h1>The Complete Espresso Guide</h1>
<p>Espresso is a concentrated coffee beverage brewed by forcing hot water under pressure through finely ground coffee beans. The result is a small, intense shot topped with crema.</p>
<p>Grind size, water temperature, and extraction time all influence the final cup. Most baristas aim for an extraction between twenty-five and thirty seconds.</p>
</article>
</body>
</html>`

func TestReadableTextExtractsArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	text, err := New(nil).ReadableText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("ReadableText failed: %v", err)
	}
	if !strings.Contains(text, "concentrated coffee beverage") {
		t.Fatalf("article text missing: %q", text)
	}
}

func TestReadableTextRejectsEmptyURL(t *testing.T) {
	if _, err := New(nil).ReadableText(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty url")
	}
}

func TestReadableTextNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := New(nil).ReadableText(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404")
	}
}
