package Geocode

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestReverseReturnsDisplayName(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path != "/reverse" {
			t.Errorf("path = %q, want /reverse", r.URL.Path)
		}
		w.Write([]byte(`{"display_name":"MG Road, Bengaluru, Karnataka, India"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "AttendanceApp/1.0")
	got := client.Reverse(12.97, 77.59)
	if got != "MG Road, Bengaluru, Karnataka, India" {
		t.Errorf("Reverse = %q", got)
	}
	if gotUA != "AttendanceApp/1.0" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestReverseFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "AttendanceApp/1.0")
	if got := client.Reverse(12.97, 77.59); got != "Lat: 12.97, Lng: 77.59" {
		t.Errorf("fallback = %q", got)
	}
}

func TestReverseFallsBackWhenUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "AttendanceApp/1.0")
	if got := client.Reverse(1.5, -2.5); got != "Lat: 1.5, Lng: -2.5" {
		t.Errorf("fallback = %q", got)
	}
}

func TestReverseEmptyDisplayName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "AttendanceApp/1.0")
	if got := client.Reverse(12.97, 77.59); got != "Unknown Location" {
		t.Errorf("Reverse = %q, want Unknown Location", got)
	}
}
