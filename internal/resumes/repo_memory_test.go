package resumes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestMemoryRepoReturnsCopies(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, Record{Filename: "cv.pdf", Skills: []string{"Go"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	created.Skills[0] = "mutated"

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Skills[0] != "Go" {
		t.Fatalf("stored record was mutated through returned copy")
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be assigned")
	}
}

func TestMemoryRepoConcurrentCreates(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	const n = 50
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, err := repo.Create(ctx, Record{Filename: fmt.Sprintf("cv-%d.pdf", i)})
			if err != nil {
				t.Errorf("Create: %v", err)
				return
			}
			ids <- rec.ID
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d ids, got %d", n, len(seen))
	}
}

func TestMemoryRepoHonoursContext(t *testing.T) {
	repo := NewMemoryRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repo.Create(ctx, Record{Filename: "cv.pdf"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := repo.GetByID(context.Background(), 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordValidate(t *testing.T) {
	valid := Record{Filename: "cv.pdf", Skills: make([]string, 10), CareerRoles: make([]string, 5)}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid record, got %v", err)
	}

	cases := map[string]Record{
		"missing filename": {},
		"too many skills":  {Filename: "a.pdf", Skills: make([]string, 11)},
		"too many roles":   {Filename: "a.pdf", CareerRoles: make([]string, 6)},
	}
	for name, rec := range cases {
		if err := rec.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
