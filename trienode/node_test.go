package trienode

import "testing"

func TestSparseFindAddUpdate(t *testing.T) {
	s := NewSparse()
	s.Add(3, NodeIndex{Row: 7, Terminated: false})

	ni, ok := s.Find(3)
	if !ok || ni.Row != 7 || ni.Terminated {
		t.Fatalf("Find(3) = %+v, %v; want {7 false}, true", ni, ok)
	}

	s.UpdateIndex(3, 9)
	s.UpdateTerminated(3, true)
	ni, ok = s.Find(3)
	if !ok || ni.Row != 9 || !ni.Terminated {
		t.Fatalf("after update Find(3) = %+v, %v; want {9 true}, true", ni, ok)
	}

	if _, ok := s.Find(4); ok {
		t.Fatalf("Find(4) = true; want false")
	}
}

func TestSparseRemove(t *testing.T) {
	s := NewSparse()
	s.Add(1, NodeIndex{Row: 1})
	s.Add(2, NodeIndex{Row: 2})

	if empty := s.Remove(1); empty {
		t.Fatalf("Remove(1) = true; want false, one child left")
	}
	if empty := s.Remove(2); !empty {
		t.Fatalf("Remove(2) = false; want true, node now empty")
	}
}

func TestPromotionPreservesChildren(t *testing.T) {
	s := NewSparse()
	symbols := []uint8{1, 2, 3, 4, 5}
	for i, sym := range symbols {
		s.Add(sym, NodeIndex{Row: uint32(i + 1)})
	}
	if s.Len() != MaxDirectEntries {
		t.Fatalf("Len() = %d; want %d", s.Len(), MaxDirectEntries)
	}

	d := Promote(s)
	if d.Len() != len(symbols) {
		t.Fatalf("after promotion Len() = %d; want %d", d.Len(), len(symbols))
	}

	for i, sym := range symbols {
		ni, ok := d.Find(sym)
		if !ok || ni.Row != uint32(i+1) {
			t.Errorf("Dense.Find(%d) = %+v, %v; want row %d, true", sym, ni, ok, i+1)
		}
	}

	got := d.GetAll()
	for i := 1; i < len(got); i++ {
		if got[i-1].Symbol >= got[i].Symbol {
			t.Fatalf("GetAll() not in ascending symbol order: %+v", got)
		}
	}
}

func TestDenseInsertUpdateRemove(t *testing.T) {
	d := NewDense()
	d.Add(10, NodeIndex{Row: 100})
	d.Add(0, NodeIndex{Row: 1})
	d.Add(63, NodeIndex{Row: 200, Terminated: true})

	if ni, ok := d.Find(0); !ok || ni.Row != 1 {
		t.Fatalf("Find(0) = %+v, %v; want {1 false}, true", ni, ok)
	}

	d.UpdateIndex(10, 101)
	if ni, _ := d.Find(10); ni.Row != 101 {
		t.Fatalf("after UpdateIndex Find(10).Row = %d; want 101", ni.Row)
	}

	d.UpdateTerminated(10, true)
	if ni, _ := d.Find(10); !ni.Terminated {
		t.Fatalf("after UpdateTerminated Find(10).Terminated = false; want true")
	}

	// UpdateIndex on an absent symbol creates it with Terminated=false.
	d.UpdateIndex(20, 55)
	if ni, ok := d.Find(20); !ok || ni.Row != 55 || ni.Terminated {
		t.Fatalf("UpdateIndex on absent symbol = %+v, %v; want {55 false}, true", ni, ok)
	}

	if empty := d.Remove(0); empty {
		t.Fatalf("Remove(0) = true; want false, children remain")
	}
	d.Remove(10)
	d.Remove(20)
	if empty := d.Remove(63); !empty {
		t.Fatalf("Remove(63) = false; want true, node now empty")
	}
}

func TestDenseBitmapOrdering(t *testing.T) {
	d := NewDense()
	order := []uint8{40, 5, 62, 1, 30}
	for _, sym := range order {
		d.Add(sym, NodeIndex{Row: uint32(sym)})
	}
	got := d.GetAll()
	for i := 1; i < len(got); i++ {
		if got[i-1].Symbol >= got[i].Symbol {
			t.Fatalf("GetAll() not in ascending symbol order: %+v", got)
		}
	}
	for _, e := range got {
		if e.Index.Row != uint32(e.Symbol) {
			t.Errorf("symbol %d has row %d; want %d", e.Symbol, e.Index.Row, e.Symbol)
		}
	}
}
