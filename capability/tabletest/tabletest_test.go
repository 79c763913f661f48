package tabletest

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dashea/gibase/capability"
)

func TestRefCounting(t *testing.T) {
	tbl := New()
	obj := tbl.RegisterType("TestObject", capability.InvalidType, false)

	addr := tbl.MakeObject(obj)
	if got := tbl.RefCount(addr); got != 1 {
		t.Fatalf("initial refcount: got %d, want 1", got)
	}

	tbl.Ref(addr)
	if got := tbl.RefCount(addr); got != 2 {
		t.Fatalf("refcount after Ref: got %d, want 2", got)
	}

	tbl.Unref(addr)
	tbl.Unref(addr)
	if tbl.IsLive(addr) {
		t.Fatal("object should be destroyed at refcount zero")
	}
	if got := tbl.FreedObjects(); got != 1 {
		t.Fatalf("freed objects: got %d, want 1", got)
	}
}

func TestRefSinkOnFloating(t *testing.T) {
	tbl := New()
	widget := tbl.RegisterType("TestWidget", capability.InvalidType, true)

	addr := tbl.MakeObject(widget)
	if !tbl.IsFloating(addr) {
		t.Fatal("new widget should hold a floating reference")
	}

	tbl.RefSink(addr)
	if tbl.IsFloating(addr) {
		t.Fatal("RefSink should clear the floating flag")
	}
	if got := tbl.RefCount(addr); got != 1 {
		t.Fatalf("refcount after sinking: got %d, want 1", got)
	}

	// A second sink behaves like a plain ref.
	tbl.RefSink(addr)
	if got := tbl.RefCount(addr); got != 2 {
		t.Fatalf("refcount after second RefSink: got %d, want 2", got)
	}
}

func TestTypeHierarchy(t *testing.T) {
	tbl := New()
	base := tbl.RegisterType("TestBase", capability.InvalidType, false)
	derived := tbl.RegisterType("TestDerived", base, false)
	other := tbl.RegisterType("TestOther", capability.InvalidType, false)

	addr := tbl.MakeObject(derived)
	defer tbl.Unref(addr)

	if !tbl.IsA(addr, derived) {
		t.Error("instance should be its own type")
	}
	if !tbl.IsA(addr, base) {
		t.Error("instance should be its parent type")
	}
	if tbl.IsA(addr, other) {
		t.Error("instance should not be an unrelated type")
	}

	if got := tbl.TypeName(derived); got != "TestDerived" {
		t.Errorf("TypeName: got %q, want %q", got, "TestDerived")
	}
	if got := tbl.TypeFromName("TestBase"); got != base {
		t.Errorf("TypeFromName: got %d, want %d", got, base)
	}
	if got := tbl.TypeFromName("NoSuchType"); got != capability.InvalidType {
		t.Errorf("TypeFromName of unknown name: got %d, want InvalidType", got)
	}
}

func TestBoxedCopyIsIndependent(t *testing.T) {
	tbl := New()
	color := tbl.RegisterType("TestColor", capability.InvalidType, false)

	src := tbl.NewBoxed(color, []byte{1, 2, 3, 4})
	cp := tbl.BoxedCopy(color, src)

	tbl.Bytes(src)[0] = 0xff
	if diff := cmp.Diff([]byte{1, 2, 3, 4}, tbl.Bytes(cp)); diff != "" {
		t.Errorf("copy changed with source (-want +got):\n%s", diff)
	}

	tbl.BoxedFree(color, cp)
	if !tbl.IsLive(src) {
		t.Fatal("freeing the copy must not touch the source")
	}
	tbl.BoxedFree(color, src)
	if got := tbl.FreedBoxed(); got != 2 {
		t.Fatalf("freed boxed: got %d, want 2", got)
	}
}

func TestMemdup(t *testing.T) {
	tbl := New()

	a := tbl.Alloc(4)
	copy(tbl.Bytes(a), []byte{9, 8, 7, 6})

	d := tbl.Memdup(a, 4)
	tbl.Bytes(a)[0] = 0
	if diff := cmp.Diff([]byte{9, 8, 7, 6}, tbl.Bytes(d)); diff != "" {
		t.Errorf("memdup changed with source (-want +got):\n%s", diff)
	}

	tbl.Free(a)
	tbl.Free(d)
	if got := tbl.FreedBlocks(); got != 2 {
		t.Fatalf("freed blocks: got %d, want 2", got)
	}
}

func TestConstructorAppliesProperties(t *testing.T) {
	tbl := New()
	obj := tbl.RegisterType("TestObject", capability.InvalidType, false)

	addr, err := tbl.NewObject(obj, []string{"title", "width"}, []any{"hello", 640})
	if err != nil {
		t.Fatalf("NewObject failed: %v", err)
	}
	defer tbl.Unref(addr)

	if got := tbl.Prop(addr, "title"); got != "hello" {
		t.Errorf("title: got %v, want %q", got, "hello")
	}
	if got := tbl.Prop(addr, "width"); got != 640 {
		t.Errorf("width: got %v, want 640", got)
	}

	if _, err := tbl.NewObject(obj, []string{"a"}, nil); err == nil {
		t.Error("mismatched names/values should fail")
	}
}
