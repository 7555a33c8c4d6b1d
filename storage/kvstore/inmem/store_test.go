package inmemkv

import (
	"bytes"
	"context"
	"testing"

	"github.com/elimuhub/elimu/core"
)

func TestStore_GetSetDelete(t *testing.T) {
	store := Open()
	ctx := context.Background()

	if _, err := store.Get(ctx, "k1"); err != core.ErrKeyNotFound {
		t.Errorf("Get(missing) err = %v; want ErrKeyNotFound", err)
	}

	if err := store.Set(ctx, "k1", []byte(`"v1"`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	val, err := store.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if !bytes.Equal(val, []byte(`"v1"`)) {
		t.Errorf("Get() = %s; want %s", val, `"v1"`)
	}

	// overwrite
	if err = store.Set(ctx, "k1", []byte(`"v2"`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if val, _ = store.Get(ctx, "k1"); !bytes.Equal(val, []byte(`"v2"`)) {
		t.Errorf("Get() after overwrite = %s; want %s", val, `"v2"`)
	}

	if err = store.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err = store.Get(ctx, "k1"); err != core.ErrKeyNotFound {
		t.Errorf("Get(deleted) err = %v; want ErrKeyNotFound", err)
	}

	// deleting a missing key is a no-op, not an error
	if err = store.Delete(ctx, "k1"); err != nil {
		t.Errorf("Delete(missing) err = %v; want nil", err)
	}
}

func TestStore_ScanPrefix(t *testing.T) {
	store := Open()
	ctx := context.Background()

	seed := map[string]string{
		"weeks:sub1:w1": `"a"`,
		"weeks:sub1:w2": `"b"`,
		"weeks:sub2:w1": `"c"`,
		"subjects:sub1": `"d"`,
	}
	for k, v := range seed {
		if err := store.Set(ctx, k, []byte(v)); err != nil {
			t.Fatalf("Set(%s) failed: %v", k, err)
		}
	}

	vals, err := store.ScanPrefix(ctx, "weeks:sub1:")
	if err != nil {
		t.Fatalf("ScanPrefix() failed: %v", err)
	}
	if len(vals) != 2 {
		t.Errorf("len(vals) = %d; want 2", len(vals))
	}

	vals, err = store.ScanPrefix(ctx, "nothing:")
	if err != nil {
		t.Fatalf("ScanPrefix() failed: %v", err)
	}
	if len(vals) != 0 {
		t.Errorf("len(vals) = %d; want 0", len(vals))
	}
}

func TestStore_valuesDoNotAlias(t *testing.T) {
	store := Open()
	ctx := context.Background()

	in := []byte(`"v1"`)
	if err := store.Set(ctx, "k1", in); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	in[1] = 'X' // caller mutates its buffer after the write

	val, err := store.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if !bytes.Equal(val, []byte(`"v1"`)) {
		t.Errorf("Get() = %s; stored value aliased the caller's buffer", val)
	}

	val[1] = 'Y' // and the other way round
	if again, _ := store.Get(ctx, "k1"); !bytes.Equal(again, []byte(`"v1"`)) {
		t.Errorf("Get() = %s; returned value aliased the table", again)
	}
}
