package ids

import (
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAnalysisId(t *testing.T) {
	t.Run("matches the url-safe id pattern", func(t *testing.T) {
		id := NewAnalysisId()

		assert.True(t, strings.HasPrefix(id, "SNP_"))
		assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9_]+$`), id)
	})

	t.Run("unique across concurrent callers", func(t *testing.T) {
		const count = 1000

		var (
			wg  sync.WaitGroup
			mux sync.Mutex
		)
		seen := map[string]bool{}

		wg.Add(count)
		for i := 0; i < count; i++ {
			go func() {
				defer wg.Done()
				id := NewAnalysisId()

				mux.Lock()
				seen[id] = true
				mux.Unlock()
			}()
		}
		wg.Wait()

		assert.Equal(t, count, len(seen))
	})
}
