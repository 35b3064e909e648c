package valuearray

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []uint32
		wantErr bool
	}{
		{name: "simple", in: "apple,1,2,3\n", want: []uint32{1, 2, 3}},
		{name: "no trailing newline", in: "apple,1,2,3", want: []uint32{1, 2, 3}},
		{name: "duplicates preserved by parse", in: "kkk,5,5,7,9,9\n", want: []uint32{5, 5, 7, 9, 9}},
		{name: "single value", in: "zzz,2\n", want: []uint32{2}},
		{name: "no comma is an error", in: "zebra not found\n", wantErr: true},
		{name: "empty value list after comma", in: "k,\n", want: []uint32{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q): expected error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): unexpected error: %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIntersectCommutative(t *testing.T) {
	a := []uint32{1, 2, 3, 5, 8}
	b := []uint32{2, 3, 4, 8, 9}

	ab := Intersect(a, b)
	ba := Intersect(b, a)

	if !reflect.DeepEqual(ab, ba) {
		t.Errorf("intersect not commutative as sets: a∩b=%v b∩a=%v", ab, ba)
	}
	want := []uint32{2, 3, 8}
	if !reflect.DeepEqual(ab, want) {
		t.Errorf("Intersect(a,b) = %v, want %v", ab, want)
	}
}

func TestIntersectSelfCollapsesDuplicates(t *testing.T) {
	a, err := Parse("kkk,5,5,7,9,9\n")
	if err != nil {
		t.Fatal(err)
	}
	got := Intersect(a, a)
	want := []uint32{5, 7, 9}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Intersect(a,a) = %v, want %v", got, want)
	}
}

func TestIntersectEmptyResult(t *testing.T) {
	a := []uint32{1, 2, 3}
	b := []uint32{4, 5, 6}
	got := Intersect(a, b)
	if len(got) != 0 {
		t.Errorf("expected empty intersection, got %v", got)
	}
}

func TestToStringRoundTrip(t *testing.T) {
	values := []uint32{1, 2, 3}
	s := "k" + ToString(values)
	got, err := Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, values) {
		t.Errorf("round trip = %v, want %v", got, values)
	}
}

func TestDedup(t *testing.T) {
	got := Dedup([]uint32{1, 1, 2, 3, 3, 3, 4})
	want := []uint32{1, 2, 3, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Dedup = %v, want %v", got, want)
	}
}

func TestSorted(t *testing.T) {
	if !Sorted([]uint32{1, 2, 2, 3}) {
		t.Error("expected sorted")
	}
	if Sorted([]uint32{3, 2, 1}) {
		t.Error("expected not sorted")
	}
}
