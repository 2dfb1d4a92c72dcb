package main

import "testing"

func TestParseOSCArgs(t *testing.T) {
	got := parseOSCArgs([]string{"120", "0.5", "hello"})
	if len(got) != 3 {
		t.Fatalf("expected 3 args, got %d", len(got))
	}
	if v, ok := got[0].(int); !ok || v != 120 {
		t.Errorf("expected int 120, got %T %v", got[0], got[0])
	}
	if v, ok := got[1].(float64); !ok || v != 0.5 {
		t.Errorf("expected float64 0.5, got %T %v", got[1], got[1])
	}
	if v, ok := got[2].(string); !ok || v != "hello" {
		t.Errorf("expected string hello, got %T %v", got[2], got[2])
	}
	if parseOSCArgs(nil) != nil {
		t.Error("expected nil for no args")
	}
}
