package pagination

import (
	"reflect"
	"testing"
)

func TestNormalizePageSize(t *testing.T) {
	if got := NormalizePageSize(0); got != DefaultPageSize {
		t.Fatalf("expected default, got %d", got)
	}
	if got := NormalizePageSize(500); got != MaxPageSize {
		t.Fatalf("expected max, got %d", got)
	}
	if got := NormalizePageSize(12); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    []int
	}{
		{"no pages", 1, 0, []int{}},
		{"fewer than width", 2, 3, []int{1, 2, 3}},
		{"start", 1, 10, []int{1, 2, 3, 4, 5}},
		{"middle", 6, 10, []int{4, 5, 6, 7, 8}},
		{"end shifts left", 10, 10, []int{6, 7, 8, 9, 10}},
		{"near end", 9, 10, []int{6, 7, 8, 9, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Window(tt.current, tt.total); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v got %v", tt.want, got)
			}
		})
	}
}

func TestInRange(t *testing.T) {
	if InRange(0, 3) || InRange(4, 3) || !InRange(3, 3) {
		t.Fatalf("unexpected range checks")
	}
}
