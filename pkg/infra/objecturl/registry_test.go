package objecturl_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/pdfsaver/pkg/domain/model"
	"github.com/m-mizutani/pdfsaver/pkg/infra/objecturl"
)

func TestRegistry_Lifecycle(t *testing.T) {
	reg := objecturl.New("pdfsaver")
	content := &model.Content{Data: []byte("%PDF"), ContentType: model.ContentTypePDF}

	u := reg.CreateObjectURL(content)
	gt.True(t, strings.HasPrefix(u, "blob:pdfsaver/"))
	gt.Number(t, reg.Len()).Equal(1)

	got, ok := reg.Resolve(u)
	gt.True(t, ok)
	gt.Value(t, got).Equal(content)

	reg.RevokeObjectURL(u)
	_, ok = reg.Resolve(u)
	gt.False(t, ok)
	gt.Number(t, reg.Len()).Equal(0)

	// second revoke is harmless
	reg.RevokeObjectURL(u)
}

func TestRegistry_UniqueURLs(t *testing.T) {
	reg := objecturl.New("pdfsaver")
	content := &model.Content{Data: []byte("same")}

	const n = 64
	urls := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			urls[i] = reg.CreateObjectURL(content)
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, u := range urls {
		gt.False(t, seen[u])
		seen[u] = true
	}
	gt.Number(t, reg.Len()).Equal(n)
}
