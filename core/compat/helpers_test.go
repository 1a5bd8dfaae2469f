package compat

import (
	"testing"

	"github.com/artpar/apicompat/core/schema"
)

func newRun(allowed ...string) *run {
	m := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		m[k] = struct{}{}
	}
	return &run{ec: NewErrorCollection(), allowed: m}
}

func testCtx(dir Direction) fieldCtx {
	return fieldCtx{
		cmd:        "testCmd",
		structName: "TestStruct",
		dir:        dir,
		isParam:    dir == Input,
		oldFile:    "old.yaml",
		newFile:    "new.yaml",
	}
}

func newScalar(name string, kinds ...string) *schema.Scalar {
	return &schema.Scalar{Name: name, BSONTypes: kinds, NativeType: "String"}
}

func strPtr(s string) *string { return &s }

// checkKinds fails unless the collection holds exactly the wanted kinds in
// order.
func checkKinds(t *testing.T, ec *ErrorCollection, want ...Kind) {
	t.Helper()
	got := make([]Kind, 0, ec.Len())
	for _, e := range ec.Errors() {
		got = append(got, e.Kind)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d errors %v, want %v", len(got), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("error[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

// stableCmd builds a minimal stable command with an empty reply struct.
func stableCmd(name string, mods ...func(*schema.Command)) *schema.Command {
	c := &schema.Command{
		Name:          name,
		APIVersion:    "1",
		Strict:        true,
		Namespace:     schema.NamespaceIgnored,
		ReplyTypeName: name + "Reply",
		Reply:         &schema.Struct{Name: name + "Reply"},
		File:          name + ".yaml",
	}
	for _, m := range mods {
		m(c)
	}
	return c
}
