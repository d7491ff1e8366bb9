package serve

import (
	"errors"
	"testing"
)

func TestBuildStatus_RecordTransitions(t *testing.T) {
	bs := &buildStatus{}

	snap := bs.snapshot()
	if snap.HasGoodBuild || snap.Builds != 0 {
		t.Fatalf("fresh status = %+v, want empty", snap)
	}

	bs.record("b1", "failed", errors.New("boom"))
	snap = bs.snapshot()
	if snap.HasGoodBuild {
		t.Fatal("failed build must not mark a good build")
	}
	if snap.LastOutcome != "failed" || snap.Builds != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}

	bs.record("b2", "success", nil)
	snap = bs.snapshot()
	if !snap.HasGoodBuild {
		t.Fatal("successful build must mark a good build")
	}
	if snap.LastError != nil || snap.LastBuildID != "b2" || snap.Builds != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}

	// A later failure degrades but the good output still exists.
	bs.record("b3", "failed", errors.New("again"))
	snap = bs.snapshot()
	if !snap.HasGoodBuild {
		t.Fatal("good build flag must survive later failures")
	}
	if snap.LastError == nil {
		t.Fatal("last error lost")
	}
}

func TestBuildStatus_MarkReused(t *testing.T) {
	bs := &buildStatus{}
	bs.markReused()

	snap := bs.snapshot()
	if !snap.HasGoodBuild {
		t.Fatal("reused output must count as servable")
	}
	if snap.LastOutcome != "reused" {
		t.Fatalf("outcome = %q, want reused", snap.LastOutcome)
	}
	if snap.Builds != 0 {
		t.Fatalf("builds = %d, reuse is not a build", snap.Builds)
	}
}
