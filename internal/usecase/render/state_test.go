package render

import (
	"reflect"
	"sync"
	"testing"
)

func TestCollapseState(t *testing.T) {
	c := NewCollapseState()

	if c.Collapsed("Query_1_hit_1") {
		t.Fatal("hits start expanded")
	}
	if !c.Toggle("Query_1_hit_1") {
		t.Error("first toggle should collapse")
	}
	if c.Collapsed("Query_1_hit_2") {
		t.Error("toggle leaked to a sibling hit")
	}
	if c.Toggle("Query_1_hit_1") {
		t.Error("second toggle should expand")
	}

	c.Set("Query_1_hit_2", true)
	if !c.Collapsed("Query_1_hit_2") {
		t.Error("Set did not collapse")
	}
}

func TestSelectionSet_Order(t *testing.T) {
	s := NewSelectionSet()
	s.Toggle("b")
	s.Toggle("a")
	s.Toggle("c")
	if s.Toggle("a") {
		t.Error("toggling a selected id should unselect it")
	}

	if got := s.List(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("List() = %v", got)
	}
	if !s.Selected("c") || s.Selected("a") {
		t.Error("Selected() disagrees with List()")
	}

	s.Clear()
	if len(s.List()) != 0 {
		t.Error("Clear() left entries")
	}
}

func TestCollapseState_Concurrent(t *testing.T) {
	c := NewCollapseState()
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Toggle("Query_1_hit_1")
		}()
	}
	wg.Wait()

	if c.Collapsed("Query_1_hit_1") {
		t.Error("an even number of toggles should leave the hit expanded")
	}
}
