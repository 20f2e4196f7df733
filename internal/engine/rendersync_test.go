package engine

import (
	"testing"

	"github.com/crk2/designer/internal/document"
)

func TestRenderSync_FlushOrder(t *testing.T) {
	r := NewRenderSync()
	r.ScheduleTransform("a", document.Transform{Scale: 2, RotationDeg: 90})
	r.SchedulePosition("a", 10, 20)

	writes, rebuild := r.Flush()
	if rebuild {
		t.Error("Flush() requested a rebuild without RequestRebuild()")
	}
	want := []struct{ prop, value string }{
		{PropLeft, "10px"},
		{PropTop, "20px"},
		{PropTransform, "scale(2) rotate(90deg)"},
	}
	if len(writes) != len(want) {
		t.Fatalf("Flush() returned %d writes, want %d", len(writes), len(want))
	}
	for i, w := range want {
		if writes[i].Property != w.prop || writes[i].Value != w.value {
			t.Errorf("write %d = %s %q, want %s %q", i, writes[i].Property, writes[i].Value, w.prop, w.value)
		}
	}
	if len(writes[2].Matrix) != 6 {
		t.Errorf("transform write matrix has %d entries, want 6", len(writes[2].Matrix))
	}
}

func TestRenderSync_LastWriteWins(t *testing.T) {
	r := NewRenderSync()
	r.SchedulePosition("a", 1, 2)
	r.SchedulePosition("b", 5, 5)
	r.SchedulePosition("a", 3, 4)

	writes, _ := r.Flush()
	if len(writes) != 4 {
		t.Fatalf("Flush() returned %d writes, want 4", len(writes))
	}
	if writes[0].ElementID != "a" || writes[0].Value != "3px" || writes[1].Value != "4px" {
		t.Errorf("first element writes = %+v %+v, want a at 3px,4px", writes[0], writes[1])
	}
	if writes[2].ElementID != "b" {
		t.Errorf("second element = %q, want b", writes[2].ElementID)
	}
}

func TestRenderSync_FlushClears(t *testing.T) {
	r := NewRenderSync()
	r.SchedulePosition("a", 1, 2)
	r.Flush()

	if r.Scheduled() {
		t.Error("Scheduled() should be false after Flush()")
	}
	if writes, rebuild := r.Flush(); writes != nil || rebuild {
		t.Errorf("second Flush() = %v, %v, want nothing", writes, rebuild)
	}
}

func TestRenderSync_RebuildDropsPending(t *testing.T) {
	r := NewRenderSync()
	r.SchedulePosition("a", 1, 2)
	r.RequestRebuild()

	writes, rebuild := r.Flush()
	if !rebuild {
		t.Error("Flush() should report the requested rebuild")
	}
	if len(writes) != 0 {
		t.Errorf("Flush() returned %d writes after rebuild, want 0", len(writes))
	}
}

func TestRenderSync_Forget(t *testing.T) {
	r := NewRenderSync()
	r.SchedulePosition("a", 1, 2)
	r.SchedulePosition("b", 3, 4)
	r.Forget("a")

	writes, _ := r.Flush()
	for _, w := range writes {
		if w.ElementID == "a" {
			t.Fatalf("forgotten element still written: %+v", w)
		}
	}
	if len(writes) != 2 {
		t.Errorf("Flush() returned %d writes, want 2", len(writes))
	}
}
