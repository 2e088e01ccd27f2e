package store

import (
	"context"
	"sync"
)

// Memory implements Store entirely in process. It mirrors the SQL
// implementation's semantics and is used in tests and local development,
// where no Postgres is available.
type Memory struct {
	mu sync.Mutex

	categories []Category
	banners    []Banner
	products   []Product
	users      map[int64]User
	cart       []CartLine

	nextCategoryID int64
	nextBannerID   int64
	nextProductID  int64
	nextUserID     int64
	nextLineID     int64
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{users: make(map[int64]User)}
}

func (m *Memory) Categories(_ context.Context) ([]Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Category, len(m.categories))
	copy(out, m.categories)
	return out, nil
}

func (m *Memory) SeedCategories(_ context.Context, names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.categories) > 0 {
		return nil
	}
	for _, name := range names {
		m.nextCategoryID++
		m.categories = append(m.categories, Category{ID: m.nextCategoryID, Name: name})
	}
	return nil
}

func (m *Memory) Banners(_ context.Context) ([]Banner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Banner, len(m.banners))
	copy(out, m.banners)
	return out, nil
}

func (m *Memory) Banner(_ context.Context, name string) (*Banner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.banners {
		if b.Name == name {
			cp := b
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) SeedBanners(_ context.Context, pages map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.banners) > 0 {
		return nil
	}
	for name, description := range pages {
		m.nextBannerID++
		desc := description
		m.banners = append(m.banners, Banner{ID: m.nextBannerID, Name: name, Description: &desc})
	}
	return nil
}

func (m *Memory) SetBannerImage(_ context.Context, name, image string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.banners {
		if m.banners[i].Name == name {
			img := image
			m.banners[i].Image = &img
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) CreateProduct(_ context.Context, f ProductFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextProductID++
	m.products = append(m.products, Product{
		ID:          m.nextProductID,
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		Image:       f.Image,
		CategoryID:  f.CategoryID,
		Quantity:    f.Quantity,
	})
	return nil
}

func (m *Memory) ProductsByCategory(_ context.Context, categoryID int64) ([]Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Product
	for _, p := range m.products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *Memory) Product(_ context.Context, id int64) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p := m.product(id); p != nil {
		cp := *p
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *Memory) UpdateProduct(_ context.Context, id int64, f ProductFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.product(id)
	if p == nil {
		return ErrNotFound
	}
	p.Name = f.Name
	p.Description = f.Description
	p.Price = f.Price
	p.Quantity = f.Quantity
	p.Image = f.Image
	p.CategoryID = f.CategoryID
	return nil
}

func (m *Memory) DeleteProduct(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.products {
		if p.ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			break
		}
	}
	kept := m.cart[:0]
	for _, line := range m.cart {
		if line.ProductID != id {
			kept = append(kept, line)
		}
	}
	m.cart = kept
	return nil
}

func (m *Memory) EnsureUser(_ context.Context, userID int64, firstName, lastName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; ok {
		return nil
	}
	m.nextUserID++
	u := User{ID: m.nextUserID, UserID: userID}
	if firstName != "" {
		u.FirstName = &firstName
	}
	if lastName != "" {
		u.LastName = &lastName
	}
	m.users[userID] = u
	return nil
}

func (m *Memory) AddToCart(_ context.Context, userID, productID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.product(productID)
	if p == nil || p.Quantity <= 0 {
		return false, nil
	}
	if line := m.line(userID, productID); line != nil {
		line.Quantity++
	} else {
		m.nextLineID++
		m.cart = append(m.cart, CartLine{
			ID:        m.nextLineID,
			UserID:    userID,
			ProductID: productID,
			Quantity:  1,
		})
	}
	p.Quantity--
	return true, nil
}

func (m *Memory) ReduceCart(_ context.Context, userID, productID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	line := m.line(userID, productID)
	if line == nil {
		return false, nil
	}
	kept := line.Quantity > 1
	if kept {
		line.Quantity--
	} else {
		m.dropLine(line.ID)
	}
	if p := m.product(productID); p != nil {
		p.Quantity++
	}
	return kept, nil
}

func (m *Memory) RemoveFromCart(_ context.Context, userID, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	line := m.line(userID, productID)
	if line == nil {
		return nil
	}
	if p := m.product(productID); p != nil {
		p.Quantity += line.Quantity
	}
	m.dropLine(line.ID)
	return nil
}

func (m *Memory) UserCart(_ context.Context, userID int64) ([]CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []CartLine
	for _, line := range m.cart {
		if line.UserID != userID {
			continue
		}
		if p := m.product(line.ProductID); p != nil {
			line.Product = *p
		}
		out = append(out, line)
	}
	return out, nil
}

// callers hold mu

func (m *Memory) product(id int64) *Product {
	for i := range m.products {
		if m.products[i].ID == id {
			return &m.products[i]
		}
	}
	return nil
}

func (m *Memory) line(userID, productID int64) *CartLine {
	for i := range m.cart {
		if m.cart[i].UserID == userID && m.cart[i].ProductID == productID {
			return &m.cart[i]
		}
	}
	return nil
}

func (m *Memory) dropLine(id int64) {
	for i := range m.cart {
		if m.cart[i].ID == id {
			m.cart = append(m.cart[:i], m.cart[i+1:]...)
			return
		}
	}
}
