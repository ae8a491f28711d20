package client

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type row struct {
	ID     string
	Status string
}

func newRows() []row {
	return []row{
		{ID: "a", Status: "pending"},
		{ID: "b", Status: "pending"},
		{ID: "c", Status: "pending"},
	}
}

func TestMutateRemovesRowBeforeCall(t *testing.T) {
	s := NewListSync(func(r row) string { return r.ID })
	s.Replace(newRows())

	var seen []row
	err := s.Mutate(context.Background(), "b",
		func(r row) (row, bool) {
			r.Status = "approved"
			return r, false
		},
		func(context.Context) error {
			seen = s.Rows()
			return nil
		})
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}

	want := []row{{ID: "a", Status: "pending"}, {ID: "c", Status: "pending"}}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("rows during call mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, s.Rows()); diff != "" {
		t.Errorf("rows after call mismatch (-want +got):\n%s", diff)
	}
}

func TestMutateRestoresSnapshotOnFailure(t *testing.T) {
	s := NewListSync(func(r row) string { return r.ID })
	s.Replace(newRows())

	boom := errors.New("backend said no")
	err := s.Mutate(context.Background(), "b",
		func(r row) (row, bool) { return r, false },
		func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("Mutate error = %v, want %v", err, boom)
	}

	if diff := cmp.Diff(newRows(), s.Rows()); diff != "" {
		t.Errorf("snapshot not restored (-want +got):\n%s", diff)
	}
	if s.InFlight("b") {
		t.Error("row still marked in flight after failure")
	}
}

func TestMutateRejectsConcurrentRow(t *testing.T) {
	s := NewListSync(func(r row) string { return r.ID })
	s.Replace(newRows())

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.Mutate(context.Background(), "a",
			func(r row) (row, bool) { return r, false },
			func(context.Context) error {
				close(started)
				<-release
				return nil
			})
	}()

	<-started
	if !s.InFlight("a") {
		t.Fatal("row not marked in flight during call")
	}

	err := s.Mutate(context.Background(), "a",
		func(r row) (row, bool) { return r, false },
		func(context.Context) error { return nil })
	if err == nil {
		t.Error("second mutation for the same row was accepted")
	}

	// Another row is not blocked.
	err = s.Mutate(context.Background(), "c",
		func(r row) (row, bool) { return r, false },
		func(context.Context) error { return nil })
	if err != nil {
		t.Errorf("mutation for a different row: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first mutation: %v", err)
	}
}

func TestMutateUnknownRow(t *testing.T) {
	s := NewListSync(func(r row) string { return r.ID })
	s.Replace(newRows())

	called := false
	err := s.Mutate(context.Background(), "zz",
		func(r row) (row, bool) { return r, false },
		func(context.Context) error {
			called = true
			return nil
		})
	if err == nil {
		t.Error("mutation for a missing row was accepted")
	}
	if called {
		t.Error("server call made for a missing row")
	}
	if diff := cmp.Diff(newRows(), s.Rows()); diff != "" {
		t.Errorf("rows changed (-want +got):\n%s", diff)
	}
}
