package icu4x

import (
	"context"

	"github.com/woxQAQ/icu4x-go/pkg/diplomat"
)

// DataProvider supplies locale data to the other constructors.
type DataProvider struct {
	lib *Library
	h   *diplomat.Handle
}

// CompiledProvider returns the provider backed by data compiled into the
// library.
func (l *Library) CompiledProvider(ctx context.Context) (*DataProvider, error) {
	h, err := l.create(ctx, "DataProvider", "compiled")
	if err != nil {
		return nil, err
	}
	return &DataProvider{lib: l, h: h}, nil
}

// EmptyProvider returns a provider with no data. Every load from it fails
// with a DataError.
func (l *Library) EmptyProvider(ctx context.Context) (*DataProvider, error) {
	h, err := l.create(ctx, "DataProvider", "empty")
	if err != nil {
		return nil, err
	}
	return &DataProvider{lib: l, h: h}, nil
}

// Close destroys the native provider. It is safe to call more than once.
func (p *DataProvider) Close(ctx context.Context) error {
	return p.h.Close(ctx)
}
