package postings

import (
	"reflect"
	"testing"
)

func buildDB(entries map[string][]uint32, order []string) Region {
	var buf []byte
	for _, k := range order {
		buf = Encode(buf, k, entries[k])
	}
	return Region(buf)
}

func TestIterationReachesExactEnd(t *testing.T) {
	order := []string{"apple", "banana", "cherry"}
	values := map[string][]uint32{
		"apple":  {1, 2, 3},
		"banana": {2, 4},
		"cherry": {},
	}
	region := buildDB(values, order)

	if err := region.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	off := region.FirstEntry()
	var got []string
	for off >= 0 && off < len(region) {
		key := region.KeyOf(off)
		got = append(got, key)
		vals := region.ValuesOf(off)
		if !reflect.DeepEqual(vals, values[key]) && !(len(vals) == 0 && len(values[key]) == 0) {
			t.Errorf("key %q: values = %v, want %v", key, vals, values[key])
		}
		next, err := region.NextEntry(off)
		if err != nil {
			t.Fatalf("NextEntry: %v", err)
		}
		off = next
	}
	if off != len(region) {
		t.Errorf("iteration ended at %d, want %d", off, len(region))
	}
	if !reflect.DeepEqual(got, order) {
		t.Errorf("keys iterated = %v, want %v", got, order)
	}
}

func TestEntryToString(t *testing.T) {
	region := buildDB(map[string][]uint32{"apple": {1, 2, 3}}, []string{"apple"})
	got := region.EntryToString(0)
	want := "apple,1,2,3\n"
	if got != want {
		t.Errorf("EntryToString = %q, want %q", got, want)
	}
}

func TestValidateDetectsTruncation(t *testing.T) {
	region := buildDB(map[string][]uint32{"apple": {1, 2, 3}}, []string{"apple"})
	truncated := region[:len(region)-1]
	if err := truncated.Validate(); err == nil {
		t.Error("expected Validate to fail on truncated region")
	}
}

func TestEmptyValueArray(t *testing.T) {
	region := buildDB(map[string][]uint32{"zzz": {}}, []string{"zzz"})
	if err := region.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := region.ValuesOf(0); len(got) != 0 {
		t.Errorf("ValuesOf = %v, want empty", got)
	}
}
