package util

import (
	"net/http"
	"testing"
)

func TestNewProxyFunc_Configured(t *testing.T) {
	proxy := NewProxyFunc("http://proxy:3128", "http://secure-proxy:3128", "localhost,.internal")

	tests := []struct {
		url  string
		want string
	}{
		{"http://api.example.com/v1", "http://proxy:3128"},
		{"https://api.deepseek.com/v1", "http://secure-proxy:3128"},
		{"https://llm.internal/v1", ""},
		{"http://localhost:11434/v1", ""},
	}

	for _, tt := range tests {
		req, err := http.NewRequest(http.MethodGet, tt.url, nil)
		if err != nil {
			t.Fatal(err)
		}
		got, err := proxy(req)
		if err != nil {
			t.Fatalf("proxy(%s): %v", tt.url, err)
		}
		gotStr := ""
		if got != nil {
			gotStr = got.String()
		}
		if gotStr != tt.want {
			t.Errorf("proxy(%s) = %q, want %q", tt.url, gotStr, tt.want)
		}
	}
}

func TestNewProxyFunc_HTTPOnlyCoversHTTPS(t *testing.T) {
	proxy := NewProxyFunc("http://proxy:3128", "", "")
	req, _ := http.NewRequest(http.MethodGet, "https://api.openai.com/v1", nil)

	got, err := proxy(req)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Host != "proxy:3128" {
		t.Errorf("expected http proxy for https request, got %v", got)
	}
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient("", "", "")
	transport, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", client.Transport)
	}
	if transport.Proxy == nil {
		t.Error("expected proxy function to be set")
	}
}
