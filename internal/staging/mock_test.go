package staging

import (
	"context"
	"errors"
	"testing"
)

func TestMockClientListTables(t *testing.T) {
	c := NewMockClient()
	c.AddTable("db1", "b_table")
	c.AddTable("db1", "a_table")
	c.AddTable("db2", "other")

	names, err := c.ListTables(context.Background(), "db1")
	if err != nil {
		t.Fatalf("ListTables failed: %v", err)
	}
	if len(names) != 2 || names[0] != "a_table" || names[1] != "b_table" {
		t.Errorf("ListTables = %v, want sorted [a_table b_table]", names)
	}
}

func TestMockClientExecBatchAppliesDrops(t *testing.T) {
	c := NewMockClient()
	c.AddTable("db1", "t1")
	c.AddTable("db1", "t2")

	err := c.ExecBatch(context.Background(), []string{
		UseStatement("db1"),
		DropTableStatement("t1"),
	})
	if err != nil {
		t.Fatalf("ExecBatch failed: %v", err)
	}

	if c.HasTable("db1", "t1") {
		t.Error("t1 should have been dropped")
	}
	if !c.HasTable("db1", "t2") {
		t.Error("t2 should survive")
	}
	if len(c.Batches()) != 1 {
		t.Errorf("expected 1 recorded batch, got %d", len(c.Batches()))
	}
}

func TestMockClientFailBatch(t *testing.T) {
	c := NewMockClient()
	c.AddTable("db1", "t1")
	cause := errors.New("gone away")
	c.FailBatch(cause)

	err := c.ExecBatch(context.Background(), []string{
		UseStatement("db1"),
		DropTableStatement("t1"),
	})
	if err == nil {
		t.Fatal("expected batch error")
	}

	var batchErr *BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected *BatchError, got %T", err)
	}
	if batchErr.Statements != 2 {
		t.Errorf("Statements = %d, want 2", batchErr.Statements)
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be wrapped")
	}
	if !c.HasTable("db1", "t1") {
		t.Error("failed batch must not mutate state")
	}
}
