package order

import "testing"

func TestNextWalksPipelineOnce(t *testing.T) {
	got := []Status{Pending}
	for s := Pending; ; {
		next, ok := s.Next()
		if !ok {
			break
		}
		got = append(got, next)
		s = next

		if len(got) > 10 {
			t.Fatalf("pipeline does not terminate: %v", got)
		}
	}

	want := []Status{Pending, Packed, HandedOver, Delivered}
	if len(got) != len(want) {
		t.Fatalf("walked %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("walked %v, want %v", got, want)
		}
	}
}

func TestNextOnTerminals(t *testing.T) {
	for _, s := range []Status{Delivered, Returned, Cancelled} {
		if next, ok := s.Next(); ok {
			t.Errorf("%q.Next() = %q, want none", s, next)
		}
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     Status
		to       Status
		override bool
		wantErr  bool
	}{
		{"forward step", Pending, Packed, false, false},
		{"forward step late", HandedOver, Delivered, false, false},
		{"same status is a no-op", Packed, Packed, false, false},
		{"skip a step", Pending, HandedOver, false, true},
		{"backwards", Packed, Pending, false, true},
		{"returned needs override", Packed, Returned, false, true},
		{"returned with override", Packed, Returned, true, false},
		{"cancelled with override", Pending, Cancelled, true, false},
		{"override from handed over", HandedOver, Cancelled, true, false},
		{"override cannot leave delivered", Delivered, Returned, true, true},
		{"override cannot leave cancelled", Cancelled, Returned, true, true},
		{"override does not unlock forward skips", Pending, Delivered, true, true},
		{"unknown target", Packed, Status("shipped"), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.from.CanTransition(tt.to, tt.override)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CanTransition(%q, %q, %t) = %v, wantErr %t", tt.from, tt.to, tt.override, err, tt.wantErr)
			}
		})
	}
}

func TestFrozen(t *testing.T) {
	frozen := map[Status]bool{
		Pending:    false,
		Packed:     false,
		HandedOver: true,
		Delivered:  true,
		Returned:   true,
		Cancelled:  true,
	}

	for s, want := range frozen {
		if got := s.Frozen(); got != want {
			t.Errorf("%q.Frozen() = %t, want %t", s, got, want)
		}
	}
}
