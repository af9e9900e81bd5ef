package entities

import "github.com/curiolist/curio/pkg/query"

// projection maps database columns to Entity struct fields for query building.
var projection = query.NewProjectionMap("public", "entities", "e").
	Project("id", "ID").
	Project("kind_id", "KindID").
	Project("name", "Name").
	Project("description", "Description").
	Project("is_wishlist", "Wishlist").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")
