package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/pagebrief"
	"github.com/fwojciec/pagebrief/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkCreateRecord measures history writes for a batch of crawled pages.
func BenchmarkCreateRecord(b *testing.B) {
	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
	require.NoError(b, db.Open())
	defer db.Close()

	svc := sqlite.NewRecordService(db)
	ctx := context.Background()
	now := time.Now()

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rec := &pagebrief.Record{
			SourceURL:   fmt.Sprintf("https://example.com/page%d", i),
			Title:       fmt.Sprintf("Page %d", i),
			Keywords:    []string{"alpha", "beta"},
			Summary:     "A short summary of the page.",
			Hashtags:    []string{"#alpha"},
			Article:     fmt.Sprintf("# Page %d\n\nLorem ipsum dolor sit amet, consectetur adipiscing elit.", i),
			CompletedAt: now,
		}
		if err := svc.CreateRecord(ctx, rec); err != nil {
			b.Fatal(err)
		}
	}
}
