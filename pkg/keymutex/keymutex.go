package keymutex

import (
	"hash/fnv"
	"sync"
)

// KeyMutex набор мьютексов, выбираемых по строковому ключу
// Гарантирует, что события с одинаковым ключом обрабатываются последовательно,
// при этом разные ключи не блокируют друг друга (с точностью до числа стрипов)
type KeyMutex struct {
	stripes []sync.Mutex
}

// New создает KeyMutex с указанным числом стрипов
// stripes должно быть > 0; типичное значение 64-256
func New(stripes int) *KeyMutex {
	if stripes <= 0 {
		stripes = 64
	}
	return &KeyMutex{stripes: make([]sync.Mutex, stripes)}
}

// Lock блокирует мьютекс, соответствующий ключу
func (m *KeyMutex) Lock(key string) {
	m.stripes[m.index(key)].Lock()
}

// Unlock освобождает мьютекс, соответствующий ключу
func (m *KeyMutex) Unlock(key string) {
	m.stripes[m.index(key)].Unlock()
}

func (m *KeyMutex) index(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(m.stripes)))
}
