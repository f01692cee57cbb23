package logging

import "testing"

func TestNewProgressSampler(t *testing.T) {
	tests := []struct {
		name       string
		bucketSize float64
		wantSize   float64
	}{
		{"default bucket size for zero", 0, 10},
		{"default bucket size for negative", -1, 10},
		{"custom bucket size", 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressSampler(tt.bucketSize)
			if s.bucketSize != tt.wantSize {
				t.Errorf("bucketSize = %v, want %v", s.bucketSize, tt.wantSize)
			}
			if s.lastBucket != -1 {
				t.Errorf("lastBucket = %d, want -1", s.lastBucket)
			}
		})
	}
}

func TestProgressSampler_NilSampler(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(5, 10) {
		t.Error("ShouldLog on nil sampler should always return true")
	}
	s.Reset() // should not panic
}

func TestProgressSampler_EmitsOncePerBucket(t *testing.T) {
	s := NewProgressSampler(25)
	var emitted []int
	for done := 1; done <= 100; done++ {
		if s.ShouldLog(done, 100) {
			emitted = append(emitted, done)
		}
	}
	want := []int{1, 25, 50, 75, 100}
	if len(emitted) != len(want) {
		t.Fatalf("emitted = %v, want %v", emitted, want)
	}
	for i := range want {
		if emitted[i] != want[i] {
			t.Fatalf("emitted = %v, want %v", emitted, want)
		}
	}
}

func TestProgressSampler_ZeroTotal(t *testing.T) {
	s := NewProgressSampler(10)
	if s.ShouldLog(0, 0) {
		t.Error("empty run should not log progress")
	}
}

func TestProgressSampler_Reset(t *testing.T) {
	s := NewProgressSampler(50)
	s.ShouldLog(1, 2)
	s.ShouldLog(2, 2)
	s.Reset()
	if !s.ShouldLog(1, 2) {
		t.Error("expected emit after reset")
	}
}
