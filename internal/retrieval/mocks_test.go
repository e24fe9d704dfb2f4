package retrieval

import (
	"context"
	"errors"
)

// fakeProvider serves canned rankings and content; fail makes every call
// error to exercise degraded retrieval.
type fakeProvider struct {
	ranks   []string
	content map[string]string
	fail    bool
	calls   int
}

func (f *fakeProvider) QueryTopK(ctx context.Context, query string, k int) ([]string, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("provider unavailable")
	}
	if len(f.ranks) > k {
		return f.ranks[:k], nil
	}
	return f.ranks, nil
}

func (f *fakeProvider) GetContent(ctx context.Context, tableName string) (string, error) {
	if f.fail {
		return "", errors.New("provider unavailable")
	}
	return f.content[tableName], nil
}
