package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/acetrack/internal/testutil"
)

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	mem := testutil.NewMemory()
	ctx := context.Background()

	if err := CreateDefaultData(ctx, mem.Curriculum, zerolog.Nop()); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := CreateDefaultData(ctx, mem.Curriculum, zerolog.Nop()); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	topics, err := mem.Curriculum.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(topics) != len(DefaultCurriculum) {
		t.Fatalf("topics = %d, want %d", len(topics), len(DefaultCurriculum))
	}
}

func TestCreateDefaultDataReportsStorageErrors(t *testing.T) {
	mem := testutil.NewMemory()
	mem.FailWith = errors.New("connection reset")

	if err := CreateDefaultData(context.Background(), mem.Curriculum, zerolog.Nop()); err == nil {
		t.Fatalf("expected error")
	}
}
