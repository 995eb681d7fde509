package storage

import (
	"context"
	"sort"
	"sync"

	"ingestion-service/internal/domain"
)

// MemoryStore guarda os registros em memória com a mesma semântica de upsert
// do banco: a última gravação de uma chave vence. Usado em testes e em modo
// de simulação sem banco.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]map[string]domain.MetricRecord
	writes int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]map[string]domain.MetricRecord)}
}

func (m *MemoryStore) UpsertBatch(ctx context.Context, batch domain.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	table, ok := m.tables[batch.Table]
	if !ok {
		table = make(map[string]domain.MetricRecord)
		m.tables[batch.Table] = table
	}
	for _, rec := range batch.Records {
		table[rec.DedupKey()] = rec
	}
	m.writes++
	return nil
}

// Records devolve os registros de uma tabela ordenados pela chave.
func (m *MemoryStore) Records(table string) []domain.MetricRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.tables[table]
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]domain.MetricRecord, 0, len(keys))
	for _, k := range keys {
		out = append(out, rows[k])
	}
	return out
}

// Writes conta os lotes gravados.
func (m *MemoryStore) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
