// Package memory implementa los puertos de persistencia sobre estructuras en
// memoria protegidas por mutex. Lo usan los tests y el modo demo (sin
// PostgreSQL), imitando el carácter efímero del storage del navegador que
// este backend reemplaza.
package memory

import (
	"sort"
	"sync"

	"github.com/abastoya/marketplace-api/internal/domain/entity"
)

// Store es la colección compartida: productos, log de transacciones y pedidos.
// Guarda valores, no punteros, para que ningún caller mute estado por alias.
type Store struct {
	mu           sync.Mutex
	products     map[int64]entity.Product
	nextID       int64
	transactions []entity.StockTransaction
	deliveries   map[string]entity.Delivery
}

// NewStore construye el almacén vacío.
func NewStore() *Store {
	return &Store{
		products:   make(map[int64]entity.Product),
		deliveries: make(map[string]entity.Delivery),
	}
}

// nextProductID asigna el siguiente id: contador estrictamente creciente,
// nunca se reutiliza aunque se borre el registro más alto.
func (s *Store) nextProductID() int64 {
	s.nextID++
	return s.nextID
}

// sortedProducts devuelve copias de los productos que pasan el filtro, por id.
// Llamar con el lock tomado.
func (s *Store) sortedProducts(filter func(entity.Product) bool) []*entity.Product {
	var list []*entity.Product
	for _, p := range s.products {
		if filter == nil || filter(p) {
			cp := p
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// snapshot copia el estado mutable por las transacciones de stock.
func (s *Store) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	products := make(map[int64]entity.Product, len(s.products))
	for id, p := range s.products {
		products[id] = p
	}
	transactions := make([]entity.StockTransaction, len(s.transactions))
	copy(transactions, s.transactions)
	return storeSnapshot{products: products, nextID: s.nextID, transactions: transactions}
}

// restore vuelve al estado capturado (rollback de una tx fallida).
func (s *Store) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.nextID = snap.nextID
	s.transactions = snap.transactions
}

type storeSnapshot struct {
	products     map[int64]entity.Product
	nextID       int64
	transactions []entity.StockTransaction
}
