package rate

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "1.2.3.4")
		if err != nil {
			t.Fatal(err)
		}
		if !res.Allowed {
			t.Fatalf("hit %d must be allowed", i+1)
		}
	}

	res, err := l.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatal(err)
	}
	if res.Allowed {
		t.Fatal("fourth hit must be denied")
	}
	if res.RetryAfter <= 0 {
		t.Fatalf("denied result must carry retry-after: %v", res.RetryAfter)
	}

	// otra key no comparte presupuesto
	other, err := l.Allow(ctx, "5.6.7.8")
	if err != nil {
		t.Fatal(err)
	}
	if !other.Allowed {
		t.Fatal("distinct keys must not share the window budget")
	}
}
