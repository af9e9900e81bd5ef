package entities

import "github.com/curiolist/curio/pkg/repository"

// scanEntity reads an Entity from a database row.
func scanEntity(s repository.Scanner) (Entity, error) {
	var e Entity
	err := s.Scan(
		&e.ID,
		&e.KindID,
		&e.Name,
		&e.Description,
		&e.Wishlist,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

// scanKind reads a Kind from a database row.
func scanKind(s repository.Scanner) (Kind, error) {
	var k Kind
	err := s.Scan(&k.ID, &k.Name)
	return k, err
}
