// Copyright 2025 Binaek Sarkar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package datasource

import (
	"context"

	"github.com/jackc/puddle/v2"

	"github.com/minbzk/regelrecht/value"
)

// Connector is a session against an external store (a DB connection, an
// HTTP client bound to a base URL, ...) that PooledDataSource pools rather
// than opening fresh on every lookup.
type Connector interface {
	Lookup(ctx context.Context, table, key string) (value.Map, bool, error)
	Close()
}

// ConnectorFactory builds a fresh Connector for the pool.
type ConnectorFactory func(ctx context.Context) (Connector, error)

// PooledDataSource is a Source backed by a bounded pool of Connectors,
// acquiring one per lookup and releasing it afterwards.
type PooledDataSource struct {
	pool *puddle.Pool[Connector]
}

// NewPooledDataSource creates a PooledDataSource with the given maximum
// pool size.
func NewPooledDataSource(factory ConnectorFactory, maxSize int32) (*PooledDataSource, error) {
	pool, err := puddle.NewPool(&puddle.Config[Connector]{
		Constructor: func(ctx context.Context) (Connector, error) {
			return factory(ctx)
		},
		Destructor: func(c Connector) { c.Close() },
		MaxSize:    maxSize,
	})
	if err != nil {
		return nil, err
	}
	return &PooledDataSource{pool: pool}, nil
}

// Lookup acquires a pooled connector, performs the lookup, and releases it.
func (p *PooledDataSource) Lookup(ctx context.Context, table, key string) (value.Map, bool, error) {
	res, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, false, err
	}
	defer res.Release()
	return res.Value().Lookup(ctx, table, key)
}

// Close releases all idle pooled connectors.
func (p *PooledDataSource) Close() {
	p.pool.Close()
}

var _ Source = (*PooledDataSource)(nil)
