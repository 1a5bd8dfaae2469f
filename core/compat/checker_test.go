package compat

import (
	"errors"
	"testing"

	"github.com/artpar/apicompat/core/schema"
)

func TestCheckIdenticalGenerations(t *testing.T) {
	build := func() []*schema.Command {
		return []*schema.Command{
			stableCmd("ping"),
			stableCmd("find", func(c *schema.Command) {
				c.Namespace = schema.NamespaceConcatenateWithDbOrUUID
				c.Params = []schema.Field{
					{Name: "filter", Resolved: newScalar("object", "object"), Optional: true},
				}
				c.Reply.Fields = []schema.Field{
					{Name: "cursor", Resolved: newScalar("object", "object")},
				}
			}),
		}
	}

	checker := New(nil)
	ec, err := checker.Check(build(), build())
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	checkKinds(t, ec)
}

func TestCheckCommandRemoved(t *testing.T) {
	old := []*schema.Command{stableCmd("alpha"), stableCmd("beta")}
	new := []*schema.Command{stableCmd("beta")}

	ec, err := New(nil).Check(old, new)
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	checkKinds(t, ec, KindCommandRemoved)
	if got := ec.Errors()[0].Command; got != "alpha" {
		t.Errorf("removed command = %q, want %q", got, "alpha")
	}
}

func TestCheckCommandAddedIsFine(t *testing.T) {
	old := []*schema.Command{stableCmd("alpha")}
	new := []*schema.Command{stableCmd("alpha"), stableCmd("beta")}

	ec, err := New(nil).Check(old, new)
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	checkKinds(t, ec)
}

func TestCheckSkipsUnversionedAndImported(t *testing.T) {
	old := []*schema.Command{
		stableCmd("internal", func(c *schema.Command) { c.APIVersion = "" }),
		stableCmd("borrowed", func(c *schema.Command) { c.Imported = true }),
	}

	ec, err := New(nil).Check(old, nil)
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	checkKinds(t, ec)
}

func TestCheckInvalidAPIVersion(t *testing.T) {
	old := []*schema.Command{stableCmd("weird", func(c *schema.Command) { c.APIVersion = "2" })}
	new := []*schema.Command{stableCmd("also", func(c *schema.Command) { c.APIVersion = "zzz" })}

	ec, err := New(nil).Check(old, new)
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	checkKinds(t, ec, KindInvalidAPIVersion, KindInvalidAPIVersion)
}

func TestCheckDuplicateCommands(t *testing.T) {
	old := []*schema.Command{stableCmd("dup"), stableCmd("dup")}
	new := []*schema.Command{stableCmd("dup")}

	ec, err := New(nil).Check(old, new)
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	checkKinds(t, ec, KindDuplicateCommand)
}

func TestCheckStrictness(t *testing.T) {
	loose := func(c *schema.Command) { c.Strict = false }

	t.Run("tightening breaks", func(t *testing.T) {
		ec, err := New(nil).Check(
			[]*schema.Command{stableCmd("cmd", loose)},
			[]*schema.Command{stableCmd("cmd")},
		)
		if err != nil {
			t.Fatalf("Check error: %v", err)
		}
		checkKinds(t, ec, KindStrictnessTightened)
	})

	t.Run("loosening is fine", func(t *testing.T) {
		ec, err := New(nil).Check(
			[]*schema.Command{stableCmd("cmd")},
			[]*schema.Command{stableCmd("cmd", loose)},
		)
		if err != nil {
			t.Fatalf("Check error: %v", err)
		}
		checkKinds(t, ec)
	})
}

func TestCheckNamespaceTransitions(t *testing.T) {
	withNS := func(kind schema.NamespaceKind) func(*schema.Command) {
		return func(c *schema.Command) { c.Namespace = kind }
	}

	tests := []struct {
		name string
		old  schema.NamespaceKind
		new  schema.NamespaceKind
		want []Kind
	}{
		{"ignored stays ignored", schema.NamespaceIgnored, schema.NamespaceIgnored, nil},
		{"ignored gains namespace", schema.NamespaceIgnored, schema.NamespaceConcatenateWithDb, []Kind{KindNamespaceIncompatible}},
		{"db-or-uuid relaxes to ignored", schema.NamespaceConcatenateWithDbOrUUID, schema.NamespaceIgnored, nil},
		{"db-or-uuid stays", schema.NamespaceConcatenateWithDbOrUUID, schema.NamespaceConcatenateWithDbOrUUID, nil},
		{"db-or-uuid narrows to db", schema.NamespaceConcatenateWithDbOrUUID, schema.NamespaceConcatenateWithDb, []Kind{KindNamespaceIncompatible}},
		{"db relaxes to ignored", schema.NamespaceConcatenateWithDb, schema.NamespaceIgnored, nil},
		{"db widens to db-or-uuid", schema.NamespaceConcatenateWithDb, schema.NamespaceConcatenateWithDbOrUUID, nil},
		{"db becomes typed", schema.NamespaceConcatenateWithDb, schema.NamespaceType, []Kind{KindNamespaceIncompatible}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ec, err := New(nil).Check(
				[]*schema.Command{stableCmd("cmd", withNS(tt.old))},
				[]*schema.Command{stableCmd("cmd", withNS(tt.new))},
			)
			if err != nil {
				t.Fatalf("Check error: %v", err)
			}
			checkKinds(t, ec, tt.want...)
		})
	}
}

func TestCheckTypedNamespace(t *testing.T) {
	typed := func(t schema.Type) func(*schema.Command) {
		return func(c *schema.Command) {
			c.Namespace = schema.NamespaceType
			c.NamespaceResolved = t
		}
	}

	t.Run("typed value types are compared as inputs", func(t *testing.T) {
		ec, err := New(nil).Check(
			[]*schema.Command{stableCmd("cmd", typed(newScalar("t", "string", "int")))},
			[]*schema.Command{stableCmd("cmd", typed(newScalar("t", "string")))},
		)
		if err != nil {
			t.Fatalf("Check error: %v", err)
		}
		checkKinds(t, ec, KindBSONTypesNotSuperset)
	})

	t.Run("typed relaxing to ignored is fine", func(t *testing.T) {
		ec, err := New(nil).Check(
			[]*schema.Command{stableCmd("cmd", typed(newScalar("t", "string")))},
			[]*schema.Command{stableCmd("cmd")},
		)
		if err != nil {
			t.Fatalf("Check error: %v", err)
		}
		checkKinds(t, ec)
	})

	t.Run("typed migrating to a namespace kind breaks", func(t *testing.T) {
		ec, err := New(nil).Check(
			[]*schema.Command{stableCmd("cmd", typed(newScalar("t", "string")))},
			[]*schema.Command{stableCmd("cmd", func(c *schema.Command) {
				c.Namespace = schema.NamespaceConcatenateWithDb
			})},
		)
		if err != nil {
			t.Fatalf("Check error: %v", err)
		}
		checkKinds(t, ec, KindNamespaceIncompatible)
	})

	t.Run("generic namespace string may migrate anywhere", func(t *testing.T) {
		ec, err := New(nil).Check(
			[]*schema.Command{stableCmd("cmd", typed(newScalar("namespacestring", "string")))},
			[]*schema.Command{stableCmd("cmd", func(c *schema.Command) {
				c.Namespace = schema.NamespaceConcatenateWithDb
			})},
		)
		if err != nil {
			t.Fatalf("Check error: %v", err)
		}
		checkKinds(t, ec)
	})

	t.Run("unresolved namespace type is fatal", func(t *testing.T) {
		ec, err := New(nil).Check(
			[]*schema.Command{stableCmd("cmd", func(c *schema.Command) { c.Namespace = schema.NamespaceType })},
			[]*schema.Command{stableCmd("cmd")},
		)
		if !errors.Is(err, ErrInvalidType) {
			t.Fatalf("Check error = %v, want ErrInvalidType", err)
		}
		checkKinds(t, ec, KindTypeInvalid)
	})
}

func TestCheckUnresolvedReplyIsFatal(t *testing.T) {
	old := []*schema.Command{stableCmd("cmd", func(c *schema.Command) { c.Reply = nil })}
	new := []*schema.Command{stableCmd("cmd")}

	ec, err := New(nil).Check(old, new)
	if !errors.Is(err, ErrInvalidType) {
		t.Fatalf("Check error = %v, want ErrInvalidType", err)
	}
	checkKinds(t, ec, KindTypeInvalid)
}

func TestCheckParamAndReplyDirections(t *testing.T) {
	// The same enum growth is fine for a parameter but breaking for a
	// reply field.
	grow := func(c *schema.Command, vals ...string) {
		c.Params = []schema.Field{
			{Name: "mode", Resolved: &schema.Enum{Name: "Mode", Values: vals}, Optional: true},
		}
		c.Reply.Fields = []schema.Field{
			{Name: "state", Resolved: &schema.Enum{Name: "State", Values: vals}},
		}
	}

	old := []*schema.Command{stableCmd("cmd", func(c *schema.Command) { grow(c, "a") })}
	new := []*schema.Command{stableCmd("cmd", func(c *schema.Command) { grow(c, "a", "b") })}

	ec, err := New(nil).Check(old, new)
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	checkKinds(t, ec, KindEnumValuesNotSubset)
	if e := ec.Errors()[0]; e.Field != "state" || e.IsParam {
		t.Errorf("finding = %+v, want reply field state", e)
	}
}

func TestCheckAllowAnyRegistryKeys(t *testing.T) {
	anyT := newScalar("anyType", "any")
	withAny := func(c *schema.Command) {
		c.Params = []schema.Field{{Name: "blob", Resolved: anyT, Optional: true}}
	}

	old := []*schema.Command{stableCmd("cmd", withAny)}
	new := []*schema.Command{stableCmd("cmd", withAny)}

	ec, err := New(nil).Check(old, new)
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	checkKinds(t, ec, KindAnyTypeNotAllowed)

	ec, err = New([]string{"cmd-param-blob"}).Check(old, new)
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	checkKinds(t, ec)
}

func TestErrorFormatting(t *testing.T) {
	e := Error{
		Kind:    KindFieldRemoved,
		Command: "find",
		Field:   "filter",
		IsParam: true,
		File:    "find.yaml",
	}
	want := `field_removed: command "find" parameter "filter" (find.yaml)`
	if got := e.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
