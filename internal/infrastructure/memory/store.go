// Package memory implementa los puertos de persistencia en memoria, para STORE_DRIVER=memory y para tests.
// Cada método toma el mutex una sola vez, igual que una sentencia atómica en el almacén real.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/entity"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu sync.RWMutex

	customers    map[string]entity.Customer
	tags         map[string]entity.Tag
	tagsByName   map[string]string
	customerTags []entity.CustomerTag
	invoices     map[string]entity.Invoice
	items        map[string]entity.InvoiceItem
	products     map[string]entity.Product

	invoicePrefix string
	invoiceSeq    int
}

// NewStore crea un almacén vacío. prefix se antepone a los números de factura (INV-000001).
func NewStore(prefix string) *Store {
	if prefix == "" {
		prefix = "INV"
	}
	return &Store{
		customers:     make(map[string]entity.Customer),
		tags:          make(map[string]entity.Tag),
		tagsByName:    make(map[string]string),
		invoices:      make(map[string]entity.Invoice),
		items:         make(map[string]entity.InvoiceItem),
		products:      make(map[string]entity.Product),
		invoicePrefix: prefix,
	}
}

// Customers devuelve el repositorio de clientes.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{s: s} }

// Tags devuelve el repositorio de etiquetas.
func (s *Store) Tags() *TagRepo { return &TagRepo{s: s} }

// CustomerTags devuelve el repositorio de vínculos cliente-etiqueta.
func (s *Store) CustomerTags() *CustomerTagRepo { return &CustomerTagRepo{s: s} }

// Invoices devuelve el repositorio de cabeceras de factura.
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{s: s} }

// InvoiceItems devuelve el repositorio de líneas de factura.
func (s *Store) InvoiceItems() *InvoiceItemRepo { return &InvoiceItemRepo{s: s} }

// Products devuelve el repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// NextInvoiceNumber equivalente en memoria de next_invoice_number().
func (s *Store) NextInvoiceNumber(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoiceSeq++
	return fmt.Sprintf("%s-%06d", s.invoicePrefix, s.invoiceSeq), nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
